package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/scroll/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued session stays valid.
const DefaultTokenTTL = time.Hour

// Claims binds a session to a user.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userID"`
}

// TokenCodec issues and verifies signed session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a [TokenCodec]. A non-positive ttl falls back to [DefaultTokenTTL].
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL reports the lifetime given to issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for userID that expires after the codec's TTL.
func (c *TokenCodec) Issue(userID int64) (string, error) {
	if len(c.secret) == 0 {
		return "", shared.ErrMissingSecret
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns the user ID it carries.
func (c *TokenCodec) Verify(tokenString string) (int64, error) {
	if len(c.secret) == 0 {
		return 0, shared.ErrMissingSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%w: %w", shared.ErrTokenExpired, err)
		}
		return 0, fmt.Errorf("%w: %w", shared.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID <= 0 {
		return 0, shared.ErrInvalidToken
	}

	return claims.UserID, nil
}
