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

func testCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, nil), mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	type entry struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}

	var got []entry
	assert.False(t, c.GetJSON(ctx, PostsKey, &got))

	c.SetJSON(ctx, PostsKey, []entry{{ID: 1, Title: "hello"}}, PostsTTL)
	require.True(t, c.GetJSON(ctx, PostsKey, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Title)
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	c.SetJSON(ctx, PostsKey, 1, PostsTTL)
	c.SetJSON(ctx, UserPostsKey("u1"), 2, PostsTTL)
	c.Invalidate(ctx, PostsKey, UserPostsKey("u1"))

	var v int
	assert.False(t, c.GetJSON(ctx, PostsKey, &v))
	assert.False(t, c.GetJSON(ctx, UserPostsKey("u1"), &v))
}

func TestCacheTTLExpiry(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	c.SetJSON(ctx, LikeCountKey(3), 7, LikesTTL)
	mr.FastForward(LikesTTL + time.Second)

	var v int
	assert.False(t, c.GetJSON(ctx, LikeCountKey(3), &v))
}

func TestCacheCorruptEntryIsAMiss(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(CommentsKey(1), "{not json"))

	var v []string
	assert.False(t, c.GetJSON(ctx, CommentsKey(1), &v))
}

func TestCacheNilClientPassThrough(t *testing.T) {
	c := New(nil, nil)
	ctx := context.Background()

	// Every operation must be a safe no-op without Redis.
	c.SetJSON(ctx, PostsKey, 1, PostsTTL)
	c.Invalidate(ctx, PostsKey)
	var v int
	assert.False(t, c.GetJSON(ctx, PostsKey, &v))
}

func TestKeyInventory(t *testing.T) {
	assert.Equal(t, "posts", PostsKey)
	assert.Equal(t, "posts:user:u1", UserPostsKey("u1"))
	assert.Equal(t, "comments:7", CommentsKey(7))
	assert.Equal(t, "likes:7:u1", LikeStateKey(7, "u1"))
	assert.Equal(t, "likecount:7", LikeCountKey(7))
}
