package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// AuditPublisher hands audit events off for asynchronous persistence. It must not block.
type AuditPublisher interface {
	Publish(event domain.AuditEvent)
}

// AuditSink stores a single audit event.
type AuditSink interface {
	Write(ctx context.Context, event *domain.AuditEvent) error
}
