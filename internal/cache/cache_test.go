package cache

import (
	"context"
	"testing"
	"time"

	"bazaar_back_end/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestBlacklistToken(t *testing.T) {
	mr, client := newRedis(t)
	store := NewStore(client)
	ctx := context.Background()

	revoked, err := store.IsTokenBlacklisted(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.BlacklistToken(ctx, "abc", time.Minute))
	revoked, err = store.IsTokenBlacklisted(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsTokenBlacklisted(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklistTokenSkipsExpired(t *testing.T) {
	mr, client := newRedis(t)
	store := NewStore(client)

	require.NoError(t, store.BlacklistToken(context.Background(), "old", -time.Second))
	assert.False(t, mr.Exists("blacklist:old"))
}

func TestIsTokenBlacklistedReportsOutage(t *testing.T) {
	mr, client := newRedis(t)
	store := NewStore(client)
	mr.Close()

	_, err := store.IsTokenBlacklisted(context.Background(), "abc")
	assert.Error(t, err)
}

func TestRateLimitCounter(t *testing.T) {
	mr, client := newRedis(t)
	store := NewStore(client)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := store.IncrementRateLimit(ctx, "rl:test", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, err := store.GetRateLimit(ctx, "rl:test")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mr.FastForward(time.Minute + time.Second)
	n, err = store.GetRateLimit(ctx, "rl:test")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRateLimitWindowIsNotExtendedByLaterHits(t *testing.T) {
	mr, client := newRedis(t)
	store := NewStore(client)
	ctx := context.Background()

	n, err := store.IncrementRateLimit(ctx, "rl:steady", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mr.FastForward(30 * time.Second)
	n, err = store.IncrementRateLimit(ctx, "rl:steady", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.LessOrEqual(t, mr.TTL("rl:steady"), 30*time.Second)

	mr.FastForward(31 * time.Second)
	n, err = store.IncrementRateLimit(ctx, "rl:steady", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCooldown(t *testing.T) {
	_, client := newRedis(t)
	store := NewStore(client)
	ctx := context.Background()

	d, err := store.CooldownRemaining(ctx, "cd:test")
	require.NoError(t, err)
	assert.Zero(t, d)

	require.NoError(t, store.SetCooldown(ctx, "cd:test", 5*time.Minute))
	d, err = store.CooldownRemaining(ctx, "cd:test")
	require.NoError(t, err)
	assert.InDelta(t, (5 * time.Minute).Seconds(), d.Seconds(), 1)
}

func TestProductCache(t *testing.T) {
	_, client := newRedis(t)
	pc := NewProductCache(client)
	ctx := context.Background()

	got, err := pc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	pc.Set(ctx, &models.Product{ID: 1, Name: "Kettle", Price: 40, IsActive: true})
	got, err = pc.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Kettle", got.Name)

	pc.Invalidate(ctx, 1)
	got, err = pc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}
