package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lucasmtls/energy-monitor/internal/handler"
	"github.com/lucasmtls/energy-monitor/internal/middleware"
	"github.com/lucasmtls/energy-monitor/internal/repository"
)

// RegisterAdmin mounts the account management surface under /v1/accounts.
// ADMIN only: an authenticated USER session gets the role middleware's
// access-denied response, anonymous callers get 401 from the JWT check.
func RegisterAdmin(e *echo.Echo, a *handler.AccountHandler, jwtSecret string) {
	g := e.Group(
		"/v1/accounts",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleAdmin),
	)

	g.GET("", a.List)
	g.POST("", a.Create)
	g.PUT("/:id", a.Update)
	g.DELETE("/:id", a.Delete)
}
