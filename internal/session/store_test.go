package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-console/internal/domain"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	in := &domain.Session{ID: "s1", Token: "tok", Role: "sysadmin", Scopes: []string{"admin"}}
	require.NoError(t, store.Save(ctx, in, time.Hour))

	in.Scopes[0] = "mutated"
	out, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, out.Scopes)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expires(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), &domain.Session{ID: "s1", Token: "t"}, time.Minute))
	now = now.Add(2 * time.Minute)

	_, err := store.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RequiresID(t *testing.T) {
	assert.Error(t, NewMemoryStore().Save(context.Background(), &domain.Session{}, 0))
}

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return client
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "test:session:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Session{ID: "s1", Token: "tok", Scopes: []string{"admin"}}, time.Minute))

	out, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok", out.Token)
	assert.True(t, out.IsAdmin())

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}
