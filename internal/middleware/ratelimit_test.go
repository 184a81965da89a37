package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/lucasmtls/energy-monitor/internal/config"
)

func rateCtx(e *echo.Echo) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/v1/records", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/records")
	return c
}

func TestBuildRateKeyDefaultHasNoUserSegment(t *testing.T) {
	e := echo.New()

	// The limiter is mounted globally, ahead of JWT parsing, so the default
	// strategy must not key on the (never populated) user id.
	cfg := config.LoadRateLimitConfig()
	if cfg.KeyStrategy != "ip_route" {
		t.Fatalf("default key strategy = %q, want ip_route", cfg.KeyStrategy)
	}
	key := buildRateKey(cfg, rateCtx(e))
	if strings.Contains(key, "anon") {
		t.Fatalf("default key carries a user segment: %q", key)
	}
	if !strings.Contains(key, "GET /v1/records") {
		t.Fatalf("default key misses the route: %q", key)
	}
}

func TestBuildRateKeyUserStrategy(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{KeyStrategy: "ip_user_route", Prefix: "rl"}

	c := rateCtx(e)
	c.Set(CtxUserID, uint64(42))
	if key := buildRateKey(cfg, c); !strings.Contains(key, "user:42") {
		t.Fatalf("authenticated key misses the user id: %q", key)
	}
	// Without JWT context the same strategy degrades to a shared anon bucket.
	if key := buildRateKey(cfg, rateCtx(e)); !strings.Contains(key, "user:anon") {
		t.Fatalf("anonymous key = %q, want anon user segment", key)
	}
}
