package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/seekrhq/auth-service/domain"
)

// MemoryRefreshTokenStore implements domain.RefreshTokenStore on a
// ttlcache. Used in dev mode and tests.
type MemoryRefreshTokenStore struct {
	cache *ttlcache.Cache[string, *domain.RefreshToken]
	ids   func() string
	now   func() time.Time
}

// NewMemoryRefreshTokenStore creates an in-memory refresh token store.
// ids supplies record identifiers, e.g. uuid.NewString.
func NewMemoryRefreshTokenStore(ids func() string) *MemoryRefreshTokenStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *domain.RefreshToken](domain.RefreshTokenTTL),
		ttlcache.WithDisableTouchOnHit[string, *domain.RefreshToken](),
	)
	go cache.Start()

	return &MemoryRefreshTokenStore{cache: cache, ids: ids, now: time.Now}
}

// Create implements domain.RefreshTokenStore.
func (s *MemoryRefreshTokenStore) Create(_ context.Context, userID string) (*domain.RefreshToken, error) {
	secret, err := NewSecret(RefreshTokenPrefix)
	if err != nil {
		return nil, err
	}

	rt := &domain.RefreshToken{
		ID:        s.ids(),
		UserID:    userID,
		Token:     secret,
		CreatedAt: s.now().UTC(),
	}
	s.cache.Set(secret, rt, domain.RefreshTokenTTL)
	return rt, nil
}

// Get implements domain.RefreshTokenStore.
func (s *MemoryRefreshTokenStore) Get(_ context.Context, token string) (*domain.RefreshToken, error) {
	item := s.cache.Get(token)
	if item == nil || item.IsExpired() {
		return nil, domain.ErrNotFound
	}
	return item.Value(), nil
}

// Delete implements domain.RefreshTokenStore. Idempotent.
func (s *MemoryRefreshTokenStore) Delete(_ context.Context, token string) error {
	s.cache.Delete(token)
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryRefreshTokenStore) Close() error {
	s.cache.Stop()
	return nil
}

var _ domain.RefreshTokenStore = (*MemoryRefreshTokenStore)(nil)
