package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	signed, expires, err := tokens.Issue("user-1", "a@b.c", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("token already expired: %v", expires)
	}

	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@b.c" || claims.Role != "admin" {
		t.Fatalf("claims wrong: %+v", claims)
	}
}

func TestTokensRejectWrongSecret(t *testing.T) {
	issuerTokens, _ := NewTokens("secret-a", time.Hour)
	verifier, _ := NewTokens("secret-b", time.Hour)

	signed, _, err := issuerTokens.Issue("user-1", "a@b.c", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokensRejectGarbage(t *testing.T) {
	tokens, _ := NewTokens("test-secret", time.Hour)
	for _, bad := range []string{"", "  ", "not.a.jwt"} {
		if _, err := tokens.Parse(bad); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Parse(%q): expected ErrInvalidToken, got %v", bad, err)
		}
	}
}

func TestTokensRequireConfig(t *testing.T) {
	if _, err := NewTokens("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewTokens("s", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	tokens, _ := NewTokens("test-secret", time.Hour)
	if _, _, err := tokens.Issue("", "a@b.c", "admin"); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
