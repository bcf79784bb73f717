package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Implementations must enforce uniqueness of Email and report clashes as domain.ErrConflict.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes the user. A missing id yields domain.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
