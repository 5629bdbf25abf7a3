package domain

import "time"

const (
	// AccessTokenTTL is the validity window of an access token, fixed at
	// mint time.
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the validity window of a refresh token, fixed at
	// issuance and not extended by use.
	RefreshTokenTTL = 365 * 24 * time.Hour

	// AuthCodeTTL bounds the lifetime of an authorization code.
	AuthCodeTTL = 300 * time.Second
)

// AuthCode is a short-lived, single-use credential exchanged for a token
// pair. It lives only in the ephemeral store.
type AuthCode struct {
	Code      string    `json:"code"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RefreshToken is a long-lived opaque credential. The record is stored
// keyed by its secret and is reusable until deleted or expired; it is
// never rotated on use.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenStatus is the outcome of verifying a well-formed, correctly signed
// access token.
type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenExpired
)

// VerifyResult carries the subject of a valid access token. Tokens that
// fail signature or format checks never produce a VerifyResult; they fail
// with ErrTokenInvalid instead.
type VerifyResult struct {
	Status TokenStatus
	UserID string
}

// TokenPair is the token endpoint response for the authorization_code
// grant.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RefreshResponse is the token endpoint response for the refresh_token
// grant. The refresh token itself is left untouched.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
