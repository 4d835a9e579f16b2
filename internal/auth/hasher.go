package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltBytes  = 16
	Iterations = 10000
	KeyLength  = 512
)

// Hasher derives and checks password hashes.
type Hasher struct {
	iterations int
	keyLength  int
}

// NewHasher returns a [Hasher] with the production parameters.
func NewHasher() *Hasher {
	return &Hasher{iterations: Iterations, keyLength: KeyLength}
}

// Hash returns the hex-encoded derived key for password and salt. It is deterministic.
func (h *Hasher) Hash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, h.keyLength, sha512.New)
	return hex.EncodeToString(key)
}

// Verify reports whether password hashes to want under salt.
func (h *Hasher) Verify(password, salt, want string) bool {
	got := h.Hash(password, salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// GenerateSalt returns n cryptographically random bytes, hex-encoded.
func GenerateSalt(n int) (string, error) {
	if n <= 0 {
		n = SaltBytes
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}
