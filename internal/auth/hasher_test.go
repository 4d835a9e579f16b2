package auth

import (
	"encoding/hex"
	"testing"
)

func TestHasher(t *testing.T) {
	h := NewHasher()

	t.Run("deterministic", func(t *testing.T) {
		if h.Hash("pw12345", "abcd") != h.Hash("pw12345", "abcd") {
			t.Error("expected identical inputs to produce identical hashes")
		}
	})

	t.Run("hex encoded key length", func(t *testing.T) {
		got := h.Hash("pw12345", "abcd")
		if len(got) != KeyLength*2 {
			t.Errorf("expected %d hex chars, got %d", KeyLength*2, len(got))
		}
		if _, err := hex.DecodeString(got); err != nil {
			t.Errorf("hash is not hex: %v", err)
		}
	})

	t.Run("different passwords differ", func(t *testing.T) {
		if h.Hash("pw1", "salt") == h.Hash("pw2", "salt") {
			t.Error("expected different passwords to produce different hashes")
		}
	})

	t.Run("different salts differ", func(t *testing.T) {
		if h.Hash("pw", "salt1") == h.Hash("pw", "salt2") {
			t.Error("expected different salts to produce different hashes")
		}
	})

	t.Run("Verify", func(t *testing.T) {
		salt, err := GenerateSalt(SaltBytes)
		if err != nil {
			t.Fatalf("failed to generate salt: %v", err)
		}
		stored := h.Hash("correct", salt)

		if !h.Verify("correct", salt, stored) {
			t.Error("expected correct password to verify")
		}
		if h.Verify("wrong", salt, stored) {
			t.Error("expected wrong password to fail")
		}
		if h.Verify("correct", salt, stored[:len(stored)-2]) {
			t.Error("expected truncated hash to fail")
		}
	})
}

func TestGenerateSalt(t *testing.T) {
	tc := []struct {
		name    string
		n       int
		wantLen int
	}{
		{name: "default size", n: SaltBytes, wantLen: SaltBytes * 2},
		{name: "custom size", n: 32, wantLen: 64},
		{name: "non-positive falls back", n: 0, wantLen: SaltBytes * 2},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			salt, err := GenerateSalt(tt.n)
			if err != nil {
				t.Fatalf("GenerateSalt error: %v", err)
			}
			if len(salt) != tt.wantLen {
				t.Errorf("expected %d chars, got %d", tt.wantLen, len(salt))
			}
		})
	}

	t.Run("unique", func(t *testing.T) {
		a, _ := GenerateSalt(SaltBytes)
		b, _ := GenerateSalt(SaltBytes)
		if a == b {
			t.Error("expected distinct salts")
		}
	})
}
