package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tiendafast/identity-service/internal/core/domain"
)

func TestTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService(""); err == nil {
		t.Fatalf("missing secret must be a constructor error")
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("secret")
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	token, err := svc.Issue("acc-42")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	id, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if id != "acc-42" {
		t.Fatalf("subject = %q, want acc-42", id)
	}
}

func TestTokenService_ClaimsCarryOnlyIdentity(t *testing.T) {
	svc, _ := NewTokenService("secret")
	token, _ := svc.Issue("acc-42")

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	for _, forbidden := range []string{"role", "is_admin", "is_super_admin", "email"} {
		if _, ok := claims[forbidden]; ok {
			t.Fatalf("token must not embed %q", forbidden)
		}
	}
	if claims["iss"] != tokenIssuer {
		t.Fatalf("unexpected issuer: %v", claims["iss"])
	}
	if claims["jti"] == nil || claims["jti"] == "" {
		t.Fatalf("expected a jti claim")
	}
}

func TestTokenService_RejectsTampering(t *testing.T) {
	svc, _ := NewTokenService("secret")
	other, _ := NewTokenService("different-secret")

	token, _ := other.Issue("acc-42")
	if _, err := svc.Validate(token); err != domain.ErrInvalidToken {
		t.Fatalf("wrong secret: expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Validate("not-a-jwt"); err != domain.ErrInvalidToken {
		t.Fatalf("garbage: expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc, _ := NewTokenService("secret")
	token, _ := svc.Issue("acc-42")

	svc.now = func() time.Time { return time.Now().UTC().Add(sessionTTL + time.Hour) }
	if _, err := svc.Validate(token); err != domain.ErrInvalidToken {
		t.Fatalf("expired: expected ErrInvalidToken, got %v", err)
	}
}
