package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	LiveStreamsKey     = "streams:live"
	SoonStreamsKey     = "streams:soon"
	PreviousStreamsKey = "streams:previous"
	StreamKeyPrefix    = "stream:%d"
	GroupsKey          = "groups:all"
	UnreadCountPrefix  = "student:%d:unread"
	LeaderboardKey     = "scores:leaderboard"
	ProviderTokenKey   = "video:token"
)

const (
	StreamListTTL    = 30 * time.Second
	StreamTTL        = 2 * time.Minute
	GroupsTTL        = 10 * time.Minute
	UnreadCountTTL   = 1 * time.Minute
	LeaderboardTTL   = 5 * time.Minute
	ProviderTokenTTL = 50 * time.Minute
)

func StreamKey(streamID uint) string {
	return fmt.Sprintf(StreamKeyPrefix, streamID)
}

func UnreadCountKey(studentID uint) string {
	return fmt.Sprintf(UnreadCountPrefix, studentID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateStreamLists drops all stream listing caches. Called on any stream
// mutation since a single transition can move a stream between lists.
func InvalidateStreamLists(ctx context.Context) {
	Invalidate(ctx, LiveStreamsKey)
	Invalidate(ctx, SoonStreamsKey)
	Invalidate(ctx, PreviousStreamsKey)
}

func InvalidateStream(ctx context.Context, streamID uint) {
	Invalidate(ctx, StreamKey(streamID))
	InvalidateStreamLists(ctx)
}

func InvalidateGroups(ctx context.Context) {
	Invalidate(ctx, GroupsKey)
}

func InvalidateUnreadCount(ctx context.Context, studentID uint) {
	Invalidate(ctx, UnreadCountKey(studentID))
}
