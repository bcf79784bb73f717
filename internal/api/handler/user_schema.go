package handler

import (
	"time"

	"github.com/99minutos/user-service/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Name     string `json:"name"     form:"name"     validate:"required,max=100"`
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type updateProfileRequest struct {
	Name     *string `json:"name,omitempty"     form:"name"     validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty"    form:"email"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" form:"password" validate:"omitempty,min=6"`
}

type updateUserRequest struct {
	Name  *string `json:"name,omitempty"  form:"name"  validate:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	Role  *string `json:"role,omitempty"  form:"role"  validate:"omitempty,oneof=user admin"`
	// IsAdmin is accepted for clients that toggle the role as a flag.
	// Role wins when both are sent.
	IsAdmin *bool `json:"is_admin,omitempty" form:"is_admin"`
}

type userResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsAdmin   bool        `json:"is_admin"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []*userResponse {
	out := make([]*userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func (r updateUserRequest) role() *domain.Role {
	switch {
	case r.Role != nil:
		role := domain.Role(*r.Role)
		return &role
	case r.IsAdmin != nil:
		role := domain.RoleUser
		if *r.IsAdmin {
			role = domain.RoleAdmin
		}
		return &role
	}
	return nil
}
