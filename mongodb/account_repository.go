package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/seekrhq/auth-service/domain"
)

// AccountRepository implements domain.AccountRepository.
type AccountRepository struct {
	accounts *mongo.Collection
}

// NewAccountRepository creates a mongo-backed account repository and
// ensures its indexes.
func NewAccountRepository(ctx context.Context, db *mongo.Database) (*AccountRepository, error) {
	repo := &AccountRepository{accounts: db.Collection(AccountsCollection)}
	if err := repo.createIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to create account indexes")
	}
	return repo, nil
}

func (r *AccountRepository) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			// One account per (provider, provider-native id).
			Keys:    bson.D{{Key: "account_type", Value: 1}, {Key: "account_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	}

	if _, err := r.accounts.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes for %s: %w", AccountsCollection, err)
	}
	return nil
}

// Create implements domain.AccountRepository. A duplicate (account_type,
// account_id) insert fails with domain.ErrDuplicateAccount so callers
// racing on first login can re-read the winner.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	if _, err := r.accounts.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateAccount
		}
		log.Error().Err(err).Str("account_type", account.AccountType).Msg("failed to insert account")
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindByProviderID implements domain.AccountRepository.
func (r *AccountRepository) FindByProviderID(ctx context.Context, accountType, accountID string) (*domain.Account, error) {
	var account domain.Account
	filter := bson.M{"account_type": accountType, "account_id": accountID}
	err := r.accounts.FindOne(ctx, filter).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

// UpdateTokens implements domain.AccountRepository.
func (r *AccountRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string) error {
	update := bson.M{"$set": bson.M{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"updated_at":    time.Now().UTC(),
	}}

	res, err := r.accounts.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update account tokens: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.AccountRepository = (*AccountRepository)(nil)
