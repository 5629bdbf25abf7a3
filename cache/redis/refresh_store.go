package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/seekrhq/auth-service/cache"
	"github.com/seekrhq/auth-service/domain"
)

// RefreshTokenStore implements domain.RefreshTokenStore using redis. The
// token secret is the key; the value is the JSON-encoded record.
type RefreshTokenStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRefreshTokenStore creates a redis-backed refresh token store.
func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client, now: time.Now}
}

// Create implements domain.RefreshTokenStore. The TTL is fixed here at
// issuance; Get never extends it.
func (s *RefreshTokenStore) Create(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	secret, err := cache.NewSecret(cache.RefreshTokenPrefix)
	if err != nil {
		return nil, err
	}

	rt := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     secret,
		CreatedAt: s.now().UTC(),
	}

	payload, err := json.Marshal(rt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode refresh token: %w", err)
	}

	if err := s.client.Set(ctx, secret, payload, domain.RefreshTokenTTL).Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to store refresh token: %w", domain.ErrUpstream, err)
	}

	return rt, nil
}

// Get implements domain.RefreshTokenStore.
func (s *RefreshTokenStore) Get(ctx context.Context, token string) (*domain.RefreshToken, error) {
	payload, err := s.client.Get(ctx, token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to look up refresh token: %w", domain.ErrUpstream, err)
	}

	var rt domain.RefreshToken
	if err := json.Unmarshal(payload, &rt); err != nil {
		return nil, fmt.Errorf("failed to decode refresh token: %w", err)
	}

	return &rt, nil
}

// Delete implements domain.RefreshTokenStore. Idempotent.
func (s *RefreshTokenStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, token).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete refresh token: %w", domain.ErrUpstream, err)
	}
	return nil
}

var _ domain.RefreshTokenStore = (*RefreshTokenStore)(nil)
