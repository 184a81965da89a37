package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/lucasmtls/energy-monitor/internal/handler"
	"github.com/lucasmtls/energy-monitor/internal/middleware"
)

// RegisterPublic registers routes that require no authentication: the
// health check and the dashboard feed. The dashboard is the public face of
// the system; the charts it backs are rendered by a separate front end.
func RegisterPublic(e *echo.Echo, d *handler.DashboardHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/dashboard/summary", d.Summary)
	e.GET("/v1/dashboard/daily", d.Daily)
}

// RegisterAuth registers the authentication endpoints. Register, login and
// refresh live under /v1/auth and need no session; logout accepts either a
// refresh token in the body or a bearer token, so it is mounted both ways;
// /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/logout", a.Logout)
}
