package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lucasmtls/energy-monitor/internal/config"
	"github.com/lucasmtls/energy-monitor/internal/middleware"
	"github.com/lucasmtls/energy-monitor/internal/repository"
)

// AccountHandler implements the admin-only account management surface:
// list, add, rename/re-role and delete. The routes are mounted behind
// RequireRole(ADMIN); a USER session reaching them gets the middleware's
// access-denied answer before any handler runs.
type AccountHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
	Cache    *middleware.ResponseCache
}

func NewAccountHandler(cfg config.Config, a *repository.AccountRepo, cache *middleware.ResponseCache) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Accounts: a, Cache: cache}
}

type createAccountReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
type updateAccountReq struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// List handles GET /v1/accounts. Password digests never leave the server.
func (h *AccountHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.Accounts.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list accounts failed"})
	}
	out := make([]accountPart, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountPart{ID: a.ID, Username: a.Username, Role: a.Role})
	}
	return c.JSON(http.StatusOK, echo.Map{"accounts": out})
}

// Create handles POST /v1/accounts. Unlike self-registration this may
// create ADMIN accounts. No password-strength validation is applied.
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	role, ok := normalizeRole(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN or USER"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Accounts.Create(ctx, req.Username, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrUsernameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}
	h.Cache.Invalidate(ctx)

	return c.JSON(http.StatusCreated, accountPart{ID: id, Username: req.Username, Role: role})
}

// Update handles PUT /v1/accounts/:id, overwriting username and role.
// Renames re-check uniqueness: the original system skipped that check and
// could corrupt the unique username column.
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
	}
	role, ok := normalizeRole(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN or USER"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Accounts.Update(ctx, id, req.Username, role); err {
	case nil:
	case repository.ErrAccountNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
	case repository.ErrUsernameExists:
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update account failed"})
	}
	h.Cache.Invalidate(ctx)

	return c.JSON(http.StatusOK, accountPart{ID: id, Username: req.Username, Role: role})
}

// Delete handles DELETE /v1/accounts/:id. Unconditional: no cascade and no
// reference checks, energy records carry no owner.
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Accounts.Delete(ctx, id); err {
	case nil:
	case repository.ErrAccountNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
	}
	h.Cache.Invalidate(ctx)

	return c.NoContent(http.StatusNoContent)
}
