// Package presence publishes which nodes are attached to this node so other
// services can find them.
package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is the cached state of one attached peer.
type Entry struct {
	PeerID      string    `json:"peer_id"`
	NodeID      string    `json:"node_id"`
	Mode        string    `json:"mode"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Store records attached peers.
type Store interface {
	Save(ctx context.Context, entry Entry) error
	Get(ctx context.Context, peerID string) (*Entry, error)
	Delete(ctx context.Context, peerID string) error
}

// ErrNotFound is returned by Get for unknown peers.
var ErrNotFound = errors.New("presence: not found")

// RedisStore keeps presence entries in redis with a TTL that the node
// refreshes while the link is up.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore returns redis-backed store.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(peerID string) string {
	return fmt.Sprintf("ocpp:presence:%s", peerID)
}

// Save caches entry.
func (s *RedisStore) Save(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(entry.PeerID), data, s.ttl).Err()
}

// Get returns the cached entry.
func (s *RedisStore) Get(ctx context.Context, peerID string) (*Entry, error) {
	result, err := s.client.Get(ctx, s.key(peerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal([]byte(result), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes the entry.
func (s *RedisStore) Delete(ctx context.Context, peerID string) error {
	return s.client.Del(ctx, s.key(peerID)).Err()
}

// NopStore is used when redis is not configured.
type NopStore struct{}

func (NopStore) Save(context.Context, Entry) error { return nil }
func (NopStore) Get(context.Context, string) (*Entry, error) {
	return nil, ErrNotFound
}
func (NopStore) Delete(context.Context, string) error { return nil }
