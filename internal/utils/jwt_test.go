package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("secret", 7, "alice", "USER", 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"].(float64) != 7 || claims["username"] != "alice" || claims["role"] != "USER" {
		t.Fatalf("unexpected claims: %v", claims)
	}

	// A different secret must not validate.
	if _, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	}); err == nil {
		t.Fatalf("token validated with wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96 hex chars", len(rt.Raw))
	}
	h1 := HashRefreshRaw(rt.Raw)
	h2 := HashRefreshRaw(rt.Raw)
	if h1 != h2 {
		t.Fatalf("hash not deterministic")
	}
	if h1 == rt.Raw {
		t.Fatalf("hash equals raw token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Fatalf("wrong password accepted")
	}
}
