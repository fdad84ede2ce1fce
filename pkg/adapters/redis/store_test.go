package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/envguard/pkg/adapters/redis"
	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newMiniredis(t)

	store := redis.NewFromClient(client)
	ports.RunSchemaStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newMiniredis(t)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := redis.NewFromClient(client,
		redis.WithTTL(time.Second),
		redis.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	err := store.Save(ctx, "short-lived", []byte("variables: {}"))
	require.NoError(t, err)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "short-lived")

	// Expire the key in redis and move the store clock past the index score.
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, schema.ErrNotFound)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newMiniredis(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, "flask", []byte("variables: {}"))
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:doc:flask"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"flask"}, names)
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newMiniredis(t)
	store := redis.NewFromClient(client, redis.WithPrefix(""))

	require.NoError(t, store.Save(context.Background(), "generic", []byte("variables: {}")))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"doc:generic"))
	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedisStore_NameMatchingIndex(t *testing.T) {
	mr, client := newMiniredis(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "flask", []byte("variables: {}")))
	require.NoError(t, store.Save(ctx, "index", []byte("variables:\n  X:\n")))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"flask", "index"}, names)

	data, err := store.Load(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, "variables:\n  X:\n", string(data))

	keyType := mr.Type(redis.DefaultPrefix + "index")
	assert.Equal(t, "zset", keyType)

	require.NoError(t, store.Delete(ctx, "index"))
	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"flask"}, names)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	mr, client := newMiniredis(t)
	store := redis.NewFromClient(client)
	mr.Close()

	_, err := store.Load(context.Background(), "generic")
	require.Error(t, err)
	assert.NotErrorIs(t, err, schema.ErrNotFound)
}
