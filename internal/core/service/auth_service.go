package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/pkg/metrics"
)

// AuthService implements registration, login and token authentication.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenManager
	audit  ports.AuditPublisher
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *TokenManager, audit ports.AuditPublisher, log zerolog.Logger) *AuthService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &AuthService{repo: repo, tokens: tokens, audit: audit, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	name := cleanName(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return "", nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", nil, domain.ErrConflict
	case !errors.Is(err, domain.ErrNotFound):
		return "", nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return "", nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	s.audit.Publish(domain.AuditEvent{UserID: created.ID, ActorID: created.ID, Action: domain.AuditRegistered, At: now})
	s.log.Info().Str("user_id", created.ID).Msg("user registered")

	return token, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			burnCompare(password)
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !passwordMatches(user.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.audit.Publish(domain.AuditEvent{UserID: user.ID, ActorID: user.ID, Action: domain.AuditLoggedIn, At: time.Now().UTC()})

	return token, user, nil
}

// Authenticate resolves rawToken to the identity of a user that still exists.
// The role is taken from the store so demotions apply to tokens already issued.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*domain.Identity, error) {
	if rawToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}

	return &domain.Identity{ID: user.ID, Role: user.Role}, nil
}

type nopAudit struct{}

func (nopAudit) Publish(domain.AuditEvent) {}
