package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Items []string `json:"items"`
}

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute), mr
}

func TestPoemRoundTrip(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	var got page
	assert.False(t, s.Poem(ctx, "tyger", &got))

	s.SetPoem(ctx, "tyger", page{Items: []string{"a"}})
	require.True(t, s.Poem(ctx, "tyger", &got))
	assert.Equal(t, []string{"a"}, got.Items)
	assert.Equal(t, Counters{Hits: 1, Misses: 1}, s.Counters())

	mr.FastForward(2 * time.Minute)
	assert.False(t, s.Poem(ctx, "tyger", &got))

	s.SetPoem(ctx, "tyger", page{})
	s.InvalidatePoem(ctx, "tyger")
	assert.False(t, mr.Exists(PoemKey("tyger")))

	s.ResetCounters()
	assert.Equal(t, Counters{}, s.Counters())
}

func TestInvalidateRecentFeedDropsAllPages(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	s.SetRecentFeed(ctx, 1, 20, page{Items: []string{"x"}})
	s.SetRecentFeed(ctx, 2, 20, page{Items: []string{"y"}})
	require.True(t, mr.Exists(RecentFeedKey(2, 20)))

	s.InvalidateRecentFeed(ctx)

	var got page
	assert.False(t, s.RecentFeed(ctx, 1, 20, &got))
	assert.False(t, s.RecentFeed(ctx, 2, 20, &got))
	assert.False(t, mr.Exists(recentFeedIndex))
}

func TestRedisDownIsAMiss(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()
	s.SetPoem(ctx, "a", page{})
	mr.Close()

	var got page
	assert.False(t, s.Poem(ctx, "a", &got))
	s.SetPoem(ctx, "a", page{})
	s.InvalidateRecentFeed(ctx)
}

func TestNilStoreIsDisabled(t *testing.T) {
	var s *Store
	ctx := context.Background()
	assert.False(t, s.Enabled())

	var got page
	assert.False(t, s.Poem(ctx, "a", &got))
	s.SetPoem(ctx, "a", page{})
	s.InvalidatePoem(ctx, "a")
	s.InvalidateRecentFeed(ctx)

	assert.False(t, New(nil, 0).Enabled())
}
