package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements the subset of redis.Cmdable the revocation list uses.
type fakeStore struct {
	redis.Cmdable
	keys map[string]time.Duration
	err  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{keys: map[string]time.Duration{}}
}

func (f *fakeStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.keys[key] = ttl
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeStore) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "exists")
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "ping")
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func TestPing(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, Ping(context.Background(), store))

	store.err = errors.New("connection refused")
	err := Ping(context.Background(), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestRevocationList_RevokeUntilExpiry(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list := NewRevocationList(store)
	list.now = func() time.Time { return now }

	require.NoError(t, list.Revoke(context.Background(), "jti-1", now.Add(time.Hour)))
	assert.Equal(t, time.Hour, store.keys["revoked:jti-1"])

	revoked, err := list.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(context.Background(), "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationList_ExpiredTokenKeepsMinimumTTL(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	list := NewRevocationList(store)
	list.now = func() time.Time { return now }

	require.NoError(t, list.Revoke(context.Background(), "old", now.Add(-time.Minute)))
	assert.Equal(t, minRevocationTTL, store.keys["revoked:old"])
}

func TestRevocationList_StoreErrors(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	list := NewRevocationList(store)

	err := list.Revoke(context.Background(), "jti", time.Now().Add(time.Hour))
	require.ErrorIs(t, err, store.err)

	_, err = list.IsRevoked(context.Background(), "jti")
	require.ErrorIs(t, err, store.err)
}
