package cart

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists carts per session id.
type Store interface {
	Load(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, c Cart) error
	Clear(ctx context.Context, sessionID string) error
}

type hashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSetWithTTL(ctx context.Context, key string, fields map[string]any, ttl time.Duration) error
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps one hash per session (field = product id, value = qty).
// Every write refreshes the TTL so active carts slide forward.
type RedisStore struct {
	client hashStore
	ttl    time.Duration
}

// NewRedisStore wires a cart store onto the shared redis client.
func NewRedisStore(client hashStore, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart session ttl must be positive")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Load reads the session cart. Malformed fields are skipped.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (Cart, error) {
	fields, err := s.client.HGetAll(ctx, s.client.CartKey(sessionID))
	if err != nil {
		return Cart{}, err
	}
	entries := make([]Entry, 0, len(fields))
	for rawID, rawQty := range fields {
		id, err := uuid.Parse(strings.TrimSpace(rawID))
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(rawQty))
		if err != nil {
			continue
		}
		entries = append(entries, Entry{ProductID: id, Quantity: qty})
	}
	return FromEntries(entries), nil
}

// Save writes the cart so that the stored hash matches it exactly.
func (s *RedisStore) Save(ctx context.Context, sessionID string, c Cart) error {
	key := s.client.CartKey(sessionID)
	if c.IsEmpty() {
		return s.client.Del(ctx, key)
	}

	existing, err := s.client.HGetAll(ctx, key)
	if err != nil {
		return err
	}
	fields := make(map[string]any, c.Len())
	for _, line := range c.Lines() {
		fields[line.ProductID.String()] = line.Quantity
	}
	stale := make([]string, 0)
	for field := range existing {
		if _, keep := fields[field]; !keep {
			stale = append(stale, field)
		}
	}
	if err := s.client.HSetWithTTL(ctx, key, fields, s.ttl); err != nil {
		return err
	}
	return s.client.HDel(ctx, key, stale...)
}

// Clear drops the session cart entirely.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.client.CartKey(sessionID))
}
