package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/scroll/internal/shared"
)

func TestTokenCodec(t *testing.T) {
	t.Parallel()

	t.Run("Issue and Verify", func(t *testing.T) {
		codec := NewTokenCodec("super-secret", time.Hour)

		tok, err := codec.Issue(42)
		if err != nil {
			t.Fatalf("Issue error: %v", err)
		}

		userID, err := codec.Verify(tok)
		if err != nil {
			t.Fatalf("Verify error: %v", err)
		}
		if userID != 42 {
			t.Fatalf("userID mismatch: got %d want 42", userID)
		}
	})

	t.Run("Expiry boundary", func(t *testing.T) {
		issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		codec := NewTokenCodec("secret", time.Hour)
		codec.now = func() time.Time { return issuedAt }

		tok, err := codec.Issue(7)
		if err != nil {
			t.Fatalf("Issue error: %v", err)
		}

		codec.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
		if _, err := codec.Verify(tok); err != nil {
			t.Fatalf("expected token valid just before expiry, got %v", err)
		}

		codec.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
		_, err = codec.Verify(tok)
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("Wrong secret", func(t *testing.T) {
		tok, err := NewTokenCodec("right-secret", time.Hour).Issue(2)
		if err != nil {
			t.Fatalf("Issue error: %v", err)
		}

		_, err = NewTokenCodec("wrong-secret", time.Hour).Verify(tok)
		if !errors.Is(err, shared.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for invalid signature, got %v", err)
		}
	})

	t.Run("Tampered payload", func(t *testing.T) {
		codec := NewTokenCodec("secret", time.Hour)
		tok, err := codec.Issue(3)
		if err != nil {
			t.Fatalf("Issue error: %v", err)
		}

		parts := strings.Split(tok, ".")
		other, _ := codec.Issue(4)
		parts[1] = strings.Split(other, ".")[1]

		if _, err := codec.Verify(strings.Join(parts, ".")); !errors.Is(err, shared.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
		}
	})

	t.Run("Malformed string", func(t *testing.T) {
		_, err := NewTokenCodec("k", time.Hour).Verify("not.a.jwt")
		if !errors.Is(err, shared.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
		}
	})

	t.Run("Missing secret", func(t *testing.T) {
		codec := NewTokenCodec("", time.Hour)

		if _, err := codec.Issue(1); !errors.Is(err, shared.ErrMissingSecret) {
			t.Errorf("expected ErrMissingSecret from Issue, got %v", err)
		}
		if _, err := codec.Verify("a.b.c"); !errors.Is(err, shared.ErrMissingSecret) {
			t.Errorf("expected ErrMissingSecret from Verify, got %v", err)
		}
	})

	t.Run("Default TTL", func(t *testing.T) {
		if got := NewTokenCodec("k", 0).TTL(); got != DefaultTokenTTL {
			t.Errorf("expected default ttl, got %v", got)
		}
	})
}
