package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekrhq/auth-service/domain"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCodeStore_CreateVerify(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewCodeStore(client)
	ctx := context.Background()

	code, err := store.Create(ctx, "42")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "c."), "code %q must carry the code marker", code)
	assert.Len(t, code, 2+64)

	ttl := mr.TTL(code)
	assert.Equal(t, domain.AuthCodeTTL, ttl)

	ac, err := store.Verify(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, code, ac.Code)
	assert.Equal(t, "42", ac.UserID)
	assert.WithinDuration(t, time.Now().Add(domain.AuthCodeTTL), ac.ExpiresAt, 5*time.Second)

	// Verify does not consume the code.
	_, err = store.Verify(ctx, code)
	assert.NoError(t, err)
}

func TestCodeStore_VerifyUnknown(t *testing.T) {
	_, client := newTestClient(t)
	store := NewCodeStore(client)

	_, err := store.Verify(context.Background(), "c.abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCodeStore_Expiry(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewCodeStore(client)
	ctx := context.Background()

	code, err := store.Create(ctx, "42")
	require.NoError(t, err)

	mr.FastForward(domain.AuthCodeTTL + time.Second)

	_, err = store.Verify(ctx, code)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCodeStore_DeleteIdempotent(t *testing.T) {
	_, client := newTestClient(t)
	store := NewCodeStore(client)
	ctx := context.Background()

	code, err := store.Create(ctx, "42")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, code))
	require.NoError(t, store.Delete(ctx, code))

	_, err = store.Verify(ctx, code)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCodeStore_RedeemIsSingleUse(t *testing.T) {
	_, client := newTestClient(t)
	store := NewCodeStore(client)
	ctx := context.Background()

	code, err := store.Create(ctx, "42")
	require.NoError(t, err)

	ac, err := store.Redeem(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "42", ac.UserID)

	_, err = store.Redeem(ctx, code)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Verify(ctx, code)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCodeStore_CodesAreUnique(t *testing.T) {
	_, client := newTestClient(t)
	store := NewCodeStore(client)
	ctx := context.Background()

	seen := make(map[string]bool)
	for range 32 {
		code, err := store.Create(ctx, "42")
		require.NoError(t, err)
		assert.False(t, seen[code])
		seen[code] = true
	}
}
