package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thejw23/simpleauth/internal/common"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "", time.Hour), mr
}

func TestRedisStore_EmptyIDStartsFreshSession(t *testing.T) {
	store, _ := newRedisStore(t)
	assert.NotEmpty(t, store.ID())
}

func TestRedisStore_SetGet(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth_user", `{"id":7}`))

	v, err := store.Get(ctx, "auth_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":7}`, v)

	ttl := mr.TTL(keyPrefix + store.ID())
	assert.Equal(t, time.Hour, ttl, "every write pushes the idle expiry forward")
}

func TestRedisStore_GetMissingKey(t *testing.T) {
	store, _ := newRedisStore(t)

	_, err := store.Get(context.Background(), "auth_user")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth_user", "v"))
	require.NoError(t, store.Delete(ctx, "auth_user"))

	_, err := store.Get(ctx, "auth_user")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRedisStore_RegenerateIDKeepsData(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth_user", "v"))
	before := store.ID()

	require.NoError(t, store.RegenerateID(ctx))

	assert.NotEqual(t, before, store.ID())
	assert.False(t, mr.Exists(keyPrefix+before), "old key is renamed away")

	v, err := store.Get(ctx, "auth_user")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestRedisStore_RegenerateIDWithoutData(t *testing.T) {
	store, _ := newRedisStore(t)

	before := store.ID()
	require.NoError(t, store.RegenerateID(context.Background()))
	assert.NotEqual(t, before, store.ID())
}

func TestRedisStore_DestroyDropsDataAndRotatesID(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth_user", "v"))
	before := store.ID()

	require.NoError(t, store.Destroy(ctx))

	assert.NotEqual(t, before, store.ID(), "a destroyed id is never handed back to the client")
	assert.False(t, mr.Exists(keyPrefix+before))

	_, err := store.Get(ctx, "auth_user")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
