package service_test

import (
	"errors"
	"testing"

	"github.com/mvailles/inkwell/internal/domain"
	"github.com/mvailles/inkwell/internal/service"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret)

	signed, err := tokens.Issue("user-123", "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if signed == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("expected user ID %q, got %q", "user-123", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username %q, got %q", "alice", claims.Username)
	}
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret)

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		_, err := tokens.Verify(tokenString)
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", tokenString, err)
		}
	}
}

func TestTokenService_Verify_Tampered(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret)

	signed, err := tokens.Issue("user-123", "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := signed[:len(signed)-5] + "XXXXX"
	_, err = tokens.Verify(tampered)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret)
	other := service.NewTokenService("a-completely-different-signing-secret")

	signed, err := tokens.Issue("user-123", "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = other.Verify(signed)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}
