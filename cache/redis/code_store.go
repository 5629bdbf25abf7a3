// Package redis implements the code and refresh token stores on a redis
// backend. Coordination relies entirely on redis per-key semantics; no
// in-process locks are held.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seekrhq/auth-service/cache"
	"github.com/seekrhq/auth-service/domain"
)

// CodeStore implements domain.CodeStore using redis. The generated code
// is the key; the value is the bare user id.
type CodeStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewCodeStore creates a redis-backed code store.
func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{client: client, now: time.Now}
}

// Create implements domain.CodeStore.
func (s *CodeStore) Create(ctx context.Context, userID string) (string, error) {
	code, err := cache.NewSecret(cache.CodePrefix)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, code, userID, domain.AuthCodeTTL).Err(); err != nil {
		return "", fmt.Errorf("%w: failed to store auth code: %w", domain.ErrUpstream, err)
	}

	return code, nil
}

// Verify implements domain.CodeStore. The code is left in place; the
// remaining TTL is surfaced as the code's expiry.
func (s *CodeStore) Verify(ctx context.Context, code string) (*domain.AuthCode, error) {
	userID, err := s.client.Get(ctx, code).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to look up auth code: %w", domain.ErrUpstream, err)
	}

	ttl, err := s.client.TTL(ctx, code).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read auth code ttl: %w", domain.ErrUpstream, err)
	}

	return &domain.AuthCode{
		Code:      code,
		UserID:    userID,
		ExpiresAt: s.now().Add(ttl),
	}, nil
}

// Redeem implements domain.CodeStore. GETDEL makes fetch-and-remove a
// single operation, so one code can yield at most one token pair even
// under concurrent redemption.
func (s *CodeStore) Redeem(ctx context.Context, code string) (*domain.AuthCode, error) {
	userID, err := s.client.GetDel(ctx, code).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to redeem auth code: %w", domain.ErrUpstream, err)
	}

	return &domain.AuthCode{
		Code:      code,
		UserID:    userID,
		ExpiresAt: s.now(),
	}, nil
}

// Delete implements domain.CodeStore. Deleting an absent code is not an
// error.
func (s *CodeStore) Delete(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, code).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete auth code: %w", domain.ErrUpstream, err)
	}
	return nil
}

var _ domain.CodeStore = (*CodeStore)(nil)
