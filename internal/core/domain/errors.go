package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrConflict           = errors.New("user already exists")
	ErrNotFound           = errors.New("user not found")
	ErrValidation         = errors.New("validation failed")
	ErrTimeout            = errors.New("request timed out")
)
