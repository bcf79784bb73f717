package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// RegisterInput carries the fields accepted on sign-up.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate verifies a raw session token and resolves it to a live identity.
	Authenticate(ctx context.Context, rawToken string) (*domain.Identity, error)
}
