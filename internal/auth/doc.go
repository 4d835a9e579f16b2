// Package auth implements password hashing and session tokens.
//
// # Credential Hasher
//
// [Hasher] derives a hex-encoded PBKDF2-SHA512 key (10,000 iterations, 512 bytes) from a password
// and a per-user hex salt. The salt string itself is the PBKDF2 salt input, so a stored
// (hash, salt) pair can be re-derived from the two text columns alone. [Hasher.Verify] compares in
// constant time.
//
// # Session Token Codec
//
// [TokenCodec] issues HS256-signed JWTs carrying the user ID and an expiry. Verification fails with
// shared.ErrInvalidToken for a bad signature or malformed token and shared.ErrTokenExpired once the
// expiry has passed. A codec built with an empty secret refuses both operations with
// shared.ErrMissingSecret; callers turn that into a 500 per request.
package auth
