package cache

import (
	"context"
	"sync"

	"github.com/jellydator/ttlcache/v3"

	"github.com/seekrhq/auth-service/domain"
)

// MemoryCodeStore implements domain.CodeStore on a ttlcache. Used in dev
// mode and tests; redemption atomicity is provided by a mutex instead of
// the backing store.
type MemoryCodeStore struct {
	mu    sync.Mutex
	cache *ttlcache.Cache[string, string]
}

// NewMemoryCodeStore creates an in-memory code store with automatic
// expiry cleanup.
func NewMemoryCodeStore() *MemoryCodeStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, string](domain.AuthCodeTTL),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go cache.Start()

	return &MemoryCodeStore{cache: cache}
}

// Create implements domain.CodeStore.
func (s *MemoryCodeStore) Create(_ context.Context, userID string) (string, error) {
	code, err := NewSecret(CodePrefix)
	if err != nil {
		return "", err
	}
	s.cache.Set(code, userID, domain.AuthCodeTTL)
	return code, nil
}

// Verify implements domain.CodeStore.
func (s *MemoryCodeStore) Verify(_ context.Context, code string) (*domain.AuthCode, error) {
	item := s.cache.Get(code)
	if item == nil || item.IsExpired() {
		return nil, domain.ErrNotFound
	}
	return &domain.AuthCode{
		Code:      code,
		UserID:    item.Value(),
		ExpiresAt: item.ExpiresAt(),
	}, nil
}

// Redeem implements domain.CodeStore. Fetch and remove under one lock.
func (s *MemoryCodeStore) Redeem(ctx context.Context, code string) (*domain.AuthCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ac, err := s.Verify(ctx, code)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(code)
	return ac, nil
}

// Delete implements domain.CodeStore.
func (s *MemoryCodeStore) Delete(_ context.Context, code string) error {
	s.cache.Delete(code)
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryCodeStore) Close() error {
	s.cache.Stop()
	return nil
}

var _ domain.CodeStore = (*MemoryCodeStore)(nil)
