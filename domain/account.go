package domain

import (
	"context"
	"time"
)

// Account links a User to exactly one provider identity per provider type.
// AccountID is the provider-native id. The provider's own tokens are kept
// so the directory can call the provider API on the user's behalf.
type Account struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	UserID       string    `bson:"user_id"       json:"user_id"`
	AccountType  string    `bson:"account_type"  json:"account_type"`
	AccountID    string    `bson:"account_id"    json:"account_id"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	AccessToken  string    `bson:"access_token"  json:"-"`
	RefreshToken string    `bson:"refresh_token" json:"-"`
	CreatedAt    time.Time `bson:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"    json:"updated_at"`
}

// AccountRepository persists provider account links.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	// FindByProviderID looks up a link by (accountType, accountID).
	// Returns ErrNotFound on a miss.
	FindByProviderID(ctx context.Context, accountType, accountID string) (*Account, error)
	// UpdateTokens replaces the stored provider tokens for an existing link.
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string) error
}
