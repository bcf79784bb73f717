package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-service/internal/api/handler"
)

// Access is the guard level a route requires.
type Access int

const (
	Public Access = iota
	Authenticated
	AdminOnly
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "user"
	case AdminOnly:
		return "admin"
	default:
		return "none"
	}
}

// Route is one entry of the static route table.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler echo.HandlerFunc
	// Extra middleware runs after the guards, right before Handler.
	Extra []echo.MiddlewareFunc
}

// Guards are the middleware the table composes for protected routes.
type Guards struct {
	Authenticate echo.MiddlewareFunc
	RequireAdmin echo.MiddlewareFunc
}

// chain returns the route's middleware in execution order:
// authenticate, then role check, then any route-specific extras.
func (g Guards) chain(r Route) []echo.MiddlewareFunc {
	var mws []echo.MiddlewareFunc
	if r.Access >= Authenticated {
		mws = append(mws, g.Authenticate)
	}
	if r.Access == AdminOnly {
		mws = append(mws, g.RequireAdmin)
	}
	return append(mws, r.Extra...)
}

// userRoutes is the permission table of the /api/users resource.
// Static paths are listed before :id so the table reads like the router resolves it.
func userRoutes(auth *handler.AuthHandler, users *handler.UserHandler, loginThrottle echo.MiddlewareFunc) []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/api/users/login", Access: Public, Handler: auth.Login, Extra: []echo.MiddlewareFunc{loginThrottle}},
		{Method: http.MethodPost, Path: "/api/users", Access: Public, Handler: auth.Register},
		{Method: http.MethodGet, Path: "/api/users/profile", Access: Authenticated, Handler: users.GetProfile},
		{Method: http.MethodPut, Path: "/api/users/profile", Access: Authenticated, Handler: users.UpdateProfile},
		{Method: http.MethodGet, Path: "/api/users", Access: AdminOnly, Handler: users.List},
		{Method: http.MethodGet, Path: "/api/users/:id", Access: AdminOnly, Handler: users.Get},
		{Method: http.MethodPut, Path: "/api/users/:id", Access: AdminOnly, Handler: users.Update},
		{Method: http.MethodDelete, Path: "/api/users/:id", Access: AdminOnly, Handler: users.Delete},
	}
}

// registerRoutes adds every table entry to e. It is called once at startup;
// the table is never modified afterwards.
func registerRoutes(e *echo.Echo, routes []Route, guards Guards) {
	for _, r := range routes {
		e.Add(r.Method, r.Path, r.Handler, guards.chain(r)...)
	}
}
