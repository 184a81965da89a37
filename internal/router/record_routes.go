package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lucasmtls/energy-monitor/internal/handler"
	"github.com/lucasmtls/energy-monitor/internal/middleware"
	"github.com/lucasmtls/energy-monitor/internal/repository"
)

// RegisterRecords mounts the record management surface under /v1/records.
// Both roles may use it; the surface itself is identical for ADMIN and
// USER, the role check only keeps anonymous sessions out. GET responses go
// through the response cache, which record mutations invalidate.
func RegisterRecords(e *echo.Echo, r *handler.RecordHandler, cache *middleware.ResponseCache, jwtSecret string) {
	g := e.Group(
		"/v1/records",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleAdmin, repository.RoleUser),
	)

	g.POST("", r.Create)
	g.GET("", r.List, cache.Middleware())
	g.GET("/:id", r.Get, cache.Middleware())
	g.PUT("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
}
