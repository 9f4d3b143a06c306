package player

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	signed, err := tokens.Issue("p1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != "p1" {
		t.Errorf("expected p1, got %q", id)
	}
}

func TestTokenRejected(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, _ := tokens.Issue("p1")

	other := NewTokens("other", time.Hour)
	if _, err := other.Parse(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for a foreign key, got %v", err)
	}
	if _, err := tokens.Parse("garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for garbage, got %v", err)
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "p1", Issuer: tokenIssuer}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := tokens.Parse(none); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for alg none, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }
	signed, _ := tokens.Issue("p1")

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := tokens.Parse(signed); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}
