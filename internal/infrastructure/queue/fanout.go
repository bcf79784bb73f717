package queue

import (
	"context"
	"errors"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// FanOut writes each event to every sink and joins their errors.
type FanOut []ports.AuditSink

func (f FanOut) Write(ctx context.Context, event *domain.AuditEvent) error {
	var errs []error
	for _, s := range f {
		if err := s.Write(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
