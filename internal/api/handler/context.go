package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-service/internal/core/domain"
)

// callerIdentity returns the identity attached by the Auth middleware. Its
// absence means the route was wired without the guard, so fail closed with 401.
func callerIdentity(c echo.Context) (*domain.Identity, error) {
	id := domain.IdentityFromContext(c.Request().Context())
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
