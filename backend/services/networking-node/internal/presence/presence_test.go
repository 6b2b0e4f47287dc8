package presence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := NewRedisStore(client, time.Minute)
	entry := Entry{PeerID: "cs-presence-test", NodeID: "csms", Mode: "standard", ConnectedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, store.Save(ctx, entry))

	got, err := store.Get(ctx, entry.PeerID)
	require.NoError(t, err)
	assert.Equal(t, entry, *got)

	ttl, err := client.TTL(ctx, store.key(entry.PeerID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, entry.PeerID))
	_, err = store.Get(ctx, entry.PeerID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, time.Minute)

	assert.Error(t, store.Save(context.Background(), Entry{PeerID: "cs-1"}))
	_, err := store.Get(context.Background(), "cs-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	assert.NoError(t, s.Save(context.Background(), Entry{PeerID: "cs-1"}))
	_, err := s.Get(context.Background(), "cs-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete(context.Background(), "cs-1"))
}
