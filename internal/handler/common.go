// Package handler implements the HTTP surface of the energy monitor: auth,
// admin account management, the energy record workflow and the dashboard
// feed. Handlers translate repository sentinels into short, non-technical
// JSON messages; internal error detail never reaches a response.
package handler

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucasmtls/energy-monitor/internal/middleware"
	"github.com/lucasmtls/energy-monitor/internal/repository"
)

var errNoIdentity = errors.New("no authenticated identity in context")

// getUserID pulls the authenticated account id stored by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get(middleware.CtxUserID).(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errNoIdentity
}

// normalizeRole maps user input onto the closed role set. Any casing of
// "admin"/"user" is accepted; everything else is rejected with ok=false
// rather than defaulted, since no other roles are recognized.
func normalizeRole(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case repository.RoleAdmin:
		return repository.RoleAdmin, true
	case repository.RoleUser:
		return repository.RoleUser, true
	}
	return "", false
}
