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

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client = nil })
	return mr
}

type cachedStream struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var dest cachedStream
	found, err := GetJSON(ctx, StreamKey(1), &dest)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, StreamKey(1), cachedStream{ID: 1, Title: "Unit 1"}, StreamTTL))

	found, err = GetJSON(ctx, StreamKey(1), &dest)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Unit 1", dest.Title)
}

func TestGetJSON_CorruptPayload(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(StreamKey(2), "not-json"))

	var dest cachedStream
	found, err := GetJSON(ctx, StreamKey(2), &dest)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestCacheAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedStream) func() error {
		return func() error {
			fetches++
			*dest = cachedStream{ID: 3, Title: "From DB"}
			return nil
		}
	}

	var first cachedStream
	require.NoError(t, CacheAside(ctx, StreamKey(3), &first, StreamTTL, fetch(&first)))
	assert.Equal(t, "From DB", first.Title)
	assert.Equal(t, 1, fetches)

	// second call is served from the cache
	var second cachedStream
	require.NoError(t, CacheAside(ctx, StreamKey(3), &second, StreamTTL, fetch(&second)))
	assert.Equal(t, "From DB", second.Title)
	assert.Equal(t, 1, fetches)
}

func TestCacheAside_Expiry(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	load := func(dest *cachedStream) func() error {
		return func() error {
			fetches++
			*dest = cachedStream{ID: 4, Title: "Fresh"}
			return nil
		}
	}

	var v cachedStream
	require.NoError(t, CacheAside(ctx, LiveStreamsKey, &v, 30*time.Second, load(&v)))
	mr.FastForward(time.Minute)

	var again cachedStream
	require.NoError(t, CacheAside(ctx, LiveStreamsKey, &again, 30*time.Second, load(&again)))
	assert.Equal(t, 2, fetches)
}

func TestInvalidateStream(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, StreamKey(5), cachedStream{ID: 5}, StreamTTL))
	require.NoError(t, SetJSON(ctx, LiveStreamsKey, []cachedStream{{ID: 5}}, StreamListTTL))
	require.NoError(t, SetJSON(ctx, SoonStreamsKey, []cachedStream{}, StreamListTTL))

	InvalidateStream(ctx, 5)

	assert.False(t, mr.Exists(StreamKey(5)))
	assert.False(t, mr.Exists(LiveStreamsKey))
	assert.False(t, mr.Exists(SoonStreamsKey))
}

func TestLeaderboardKey_InvalidatedOnScoreChange(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	type entry struct {
		Completed int `json:"completed"`
	}
	require.NoError(t, SetJSON(ctx, LeaderboardKey, []entry{{Completed: 5}}, LeaderboardTTL))

	var got []entry
	found, err := GetJSON(ctx, LeaderboardKey, &got)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Completed)

	Invalidate(ctx, LeaderboardKey)
	assert.False(t, mr.Exists(LeaderboardKey))
}

func TestProviderTokenKey_ServedFromCache(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	load := func(dest *string) func() error {
		return func() error {
			fetches++
			*dest = "tok-123"
			return nil
		}
	}

	var token string
	require.NoError(t, CacheAside(ctx, ProviderTokenKey, &token, ProviderTokenTTL, load(&token)))
	assert.Equal(t, "tok-123", token)

	var again string
	require.NoError(t, CacheAside(ctx, ProviderTokenKey, &again, ProviderTokenTTL, load(&again)))
	assert.Equal(t, "tok-123", again)
	assert.Equal(t, 1, fetches)
}

func TestHelpers_NilClientDegradesGracefully(t *testing.T) {
	// no Redis configured at all
	client = nil
	ctx := context.Background()

	var dest cachedStream
	found, err := GetJSON(ctx, StreamKey(9), &dest)
	assert.False(t, found)
	assert.NoError(t, err)

	assert.NoError(t, SetJSON(ctx, StreamKey(9), cachedStream{ID: 9}, StreamTTL))

	fetched := false
	err = CacheAside(ctx, StreamKey(9), &dest, StreamTTL, func() error {
		fetched = true
		dest = cachedStream{ID: 9, Title: "Direct"}
		return nil
	})
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, "Direct", dest.Title)

	// invalidation on a nil client is a no-op
	Invalidate(ctx, StreamKey(9))
}
