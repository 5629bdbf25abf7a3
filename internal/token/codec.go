// Package token signs and verifies compact access token claims with
// HMAC-SHA256 over the process signing secret.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/seekrhq/auth-service/domain"
)

// Codec signs and verifies access tokens. The secret is read-only for the
// process lifetime.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewCodec creates a Codec signing with the given secret and stamping the
// given issuer into claims.
func NewCodec(secret []byte, issuer string) *Codec {
	return &Codec{
		secret: secret,
		issuer: issuer,
		now:    time.Now,
	}
}

// WithClock overrides the codec's clock. Test hook.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Create mints an access token for the user, valid for
// domain.AccessTokenTTL from now.
func (c *Codec) Create(userID string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(domain.AccessTokenTTL)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature first: any mismatch or malformed input
// fails with domain.ErrTokenInvalid and never falls through to expiry
// logic. Only on a valid signature is the expiration compared to now.
func (c *Codec) Verify(accessToken string) (domain.VerifyResult, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(accessToken, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuedAt(),
	)
	switch {
	case err == nil:
		return domain.VerifyResult{Status: domain.TokenValid, UserID: claims.Subject}, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.VerifyResult{Status: domain.TokenExpired}, nil
	default:
		return domain.VerifyResult{}, domain.ErrTokenInvalid
	}
}
