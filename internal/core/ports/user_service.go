package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// ProfilePatch holds the self-editable fields. Nil means "leave unchanged".
type ProfilePatch struct {
	Name     *string
	Email    *string
	Password *string
}

// UserPatch holds the fields an admin may change on any account.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *domain.Role
}

// UserService defines the profile and administration use cases.
type UserService interface {
	GetProfile(ctx context.Context, caller *domain.Identity) (*domain.User, error)
	UpdateProfile(ctx context.Context, caller *domain.Identity, patch ProfilePatch) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, caller *domain.Identity, id string, patch UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, caller *domain.Identity, id string) error
}
