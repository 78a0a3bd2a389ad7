package cache

import (
	"context"
	"testing"

	"learnhub/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "notifications:user-1", ChannelName("user-1"))
	assert.Equal(t, "notifications:unread:user-1", BadgeKey("user-1"))
}

func TestRealtime_NilClient(t *testing.T) {
	ctx := context.Background()
	rt := NewRealtime(nil, logger.New())

	_, ok := rt.Badge(ctx, "user-1")
	assert.False(t, ok)

	rt.SetBadge(ctx, "user-1", 3)
	rt.Publish(ctx, "user-1", []byte(`{}`))

	_, _, err := rt.Subscribe(ctx, "user-1")
	assert.ErrorIs(t, err, ErrRealtimeUnavailable)
}
