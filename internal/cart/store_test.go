package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHashStore struct {
	hashes map[string]map[string]string
	ttls   map[string]time.Duration
}

func newFakeHashStore() *fakeHashStore {
	return &fakeHashStore{
		hashes: map[string]map[string]string{},
		ttls:   map[string]time.Duration{},
	}
}

func (f *fakeHashStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeHashStore) HSetWithTTL(_ context.Context, key string, fields map[string]any, ttl time.Duration) error {
	if f.hashes[key] == nil {
		f.hashes[key] = map[string]string{}
	}
	for k, v := range fields {
		f.hashes[key][k] = fmt.Sprint(v)
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeHashStore) HDel(_ context.Context, key string, fields ...string) error {
	for _, field := range fields {
		delete(f.hashes[key], field)
	}
	return nil
}

func (f *fakeHashStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.hashes, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *fakeHashStore) CartKey(sessionID string) string {
	return "sf:cart:" + sessionID
}

func TestNewRedisStoreValidates(t *testing.T) {
	_, err := NewRedisStore(nil, time.Hour)
	require.Error(t, err)
	_, err = NewRedisStore(newFakeHashStore(), 0)
	require.Error(t, err)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newFakeHashStore()
	store, err := NewRedisStore(backend, 48*time.Hour)
	require.NoError(t, err)

	a, b := uuid.New(), uuid.New()
	c := New()
	require.NoError(t, c.Add(a, 2))
	require.NoError(t, c.Add(b, 1))
	require.NoError(t, store.Save(ctx, "sess-1", c))
	assert.Equal(t, 48*time.Hour, backend.ttls["sf:cart:sess-1"])

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Quantity(a))
	assert.Equal(t, 1, loaded.Quantity(b))

	loaded.Remove(a)
	require.NoError(t, store.Save(ctx, "sess-1", loaded))
	assert.NotContains(t, backend.hashes["sf:cart:sess-1"], a.String())

	other, err := store.Load(ctx, "sess-2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty(), "sessions must not share carts")
}

func TestRedisStoreSkipsMalformedFields(t *testing.T) {
	ctx := context.Background()
	backend := newFakeHashStore()
	good := uuid.New()
	backend.hashes["sf:cart:s"] = map[string]string{
		good.String():       "3",
		"not-a-uuid":        "1",
		uuid.New().String(): "many",
		uuid.New().String(): "-4",
	}
	store, err := NewRedisStore(backend, time.Hour)
	require.NoError(t, err)

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	assert.Equal(t, 3, loaded.Quantity(good))
}

func TestRedisStoreClearAndEmptySave(t *testing.T) {
	ctx := context.Background()
	backend := newFakeHashStore()
	store, err := NewRedisStore(backend, time.Hour)
	require.NoError(t, err)

	c := New()
	require.NoError(t, c.Add(uuid.New(), 1))
	require.NoError(t, store.Save(ctx, "s", c))
	require.NoError(t, store.Clear(ctx, "s"))
	assert.NotContains(t, backend.hashes, "sf:cart:s")

	require.NoError(t, store.Save(ctx, "s", c))
	require.NoError(t, store.Save(ctx, "s", New()))
	assert.NotContains(t, backend.hashes, "sf:cart:s")
}
