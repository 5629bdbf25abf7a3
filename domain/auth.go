package domain

import "context"

// CodeStore is the ephemeral single-use code to user mapping. Keys carry
// the "c." marker and expire after AuthCodeTTL.
type CodeStore interface {
	// Create generates a code for the user and stores it.
	Create(ctx context.Context, userID string) (string, error)
	// Verify looks a code up without consuming it. Absent codes (never
	// issued, expired or already consumed) fail with ErrNotFound.
	Verify(ctx context.Context, code string) (*AuthCode, error)
	// Redeem atomically fetches and removes a code, so two concurrent
	// redemptions of the same code cannot both succeed.
	Redeem(ctx context.Context, code string) (*AuthCode, error)
	// Delete is idempotent; absent codes are not an error.
	Delete(ctx context.Context, code string) error
}

// RefreshTokenStore is the durable opaque token to record mapping. Keys
// carry the "s." marker and expire after RefreshTokenTTL; reads do not
// touch the TTL.
type RefreshTokenStore interface {
	Create(ctx context.Context, userID string) (*RefreshToken, error)
	Get(ctx context.Context, token string) (*RefreshToken, error)
	Delete(ctx context.Context, token string) error
}

// AuthRepository composes the two stores and the access token codec
// behind one interface.
type AuthRepository interface {
	CreateAuthCode(ctx context.Context, userID string) (string, error)
	VerifyAuthCode(ctx context.Context, code string) (*AuthCode, error)
	RedeemAuthCode(ctx context.Context, code string) (*AuthCode, error)
	DeleteAuthCode(ctx context.Context, code string) error

	CreateAccessToken(userID string) (string, error)
	VerifyAccessToken(token string) (VerifyResult, error)

	CreateRefreshToken(ctx context.Context, userID string) (*RefreshToken, error)
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// AuthService orchestrates the token protocol.
type AuthService interface {
	CreateAuthCode(ctx context.Context, userID string) (string, error)
	VerifyAuthCode(ctx context.Context, code string) (*AuthCode, error)
	RedeemAuthCode(ctx context.Context, code string) (*AuthCode, error)
	DeleteAuthCode(ctx context.Context, code string) error

	// CreateTokenPair mints a refresh token and an access token for the
	// user. The two writes share no transaction: a crash in between leaves
	// an orphaned refresh token record that ages out on its own TTL.
	CreateTokenPair(ctx context.Context, userID string) (*TokenPair, error)

	// RefreshAccessToken mints a new access token bound to the refresh
	// token's user. The refresh token is left untouched.
	RefreshAccessToken(ctx context.Context, refreshToken string) (*RefreshResponse, error)

	VerifyAccessToken(ctx context.Context, accessToken string) (VerifyResult, error)
}
