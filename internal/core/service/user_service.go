package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// UserService implements self-service profile management and admin CRUD.
type UserService struct {
	repo  ports.UserRepository
	audit ports.AuditPublisher
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, audit ports.AuditPublisher, log zerolog.Logger) *UserService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &UserService{repo: repo, audit: audit, log: log}
}

// GetProfile returns the caller's own record.
func (s *UserService) GetProfile(ctx context.Context, caller *domain.Identity) (*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.FindByID(ctx, caller.ID)
}

// UpdateProfile applies name, email and password changes to the caller's record.
// The role can never be changed through this path.
func (s *UserService) UpdateProfile(ctx context.Context, caller *domain.Identity, patch ports.ProfilePatch) (*domain.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.repo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	if err := applyContact(user, patch.Name, patch.Email); err != nil {
		return nil, err
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := hashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Publish(domain.AuditEvent{UserID: updated.ID, ActorID: caller.ID, Action: domain.AuditProfileUpdated, At: updated.UpdatedAt})
	return updated, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUser lets an admin change any account, including its role.
func (s *UserService) UpdateUser(ctx context.Context, caller *domain.Identity, id string, patch ports.UserPatch) (*domain.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *patch.Role)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyContact(user, patch.Name, patch.Email); err != nil {
		return nil, err
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Publish(domain.AuditEvent{UserID: updated.ID, ActorID: actorID(caller), Action: domain.AuditUserUpdated, At: updated.UpdatedAt})
	s.log.Info().Str("user_id", updated.ID).Str("role", string(updated.Role)).Str("actor", actorID(caller)).Msg("user updated")
	return updated, nil
}

// DeleteUser removes an account. Deleting an id that does not exist, including
// one that was already deleted, fails with domain.ErrNotFound.
func (s *UserService) DeleteUser(ctx context.Context, caller *domain.Identity, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Publish(domain.AuditEvent{UserID: id, ActorID: actorID(caller), Action: domain.AuditUserDeleted, At: time.Now().UTC()})
	s.log.Info().Str("user_id", id).Str("actor", actorID(caller)).Msg("user deleted")
	return nil
}

func applyContact(user *domain.User, name, email *string) error {
	if name != nil {
		n := cleanName(*name)
		if n == "" {
			return fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
		}
		user.Name = n
	}
	if email != nil {
		e := normalizeEmail(*email)
		if e == "" {
			return fmt.Errorf("%w: email must not be empty", domain.ErrValidation)
		}
		user.Email = e
	}
	return nil
}

func actorID(caller *domain.Identity) string {
	if caller == nil {
		return ""
	}
	return caller.ID
}
