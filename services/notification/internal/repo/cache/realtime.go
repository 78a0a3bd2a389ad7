package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"learnhub/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const BadgeTTL = 24 * time.Hour

var ErrRealtimeUnavailable = errors.New("realtime channel unavailable")

func ChannelName(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

func BadgeKey(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

// Realtime carries the unread badge and the live notification stream. A nil
// client turns badge reads into misses and publishes into no-ops.
type Realtime interface {
	Badge(ctx context.Context, userID string) (int64, bool)
	SetBadge(ctx context.Context, userID string, unread int64)
	Publish(ctx context.Context, userID string, payload []byte)
	// Subscribe streams payloads published for userID until cancel is called.
	Subscribe(ctx context.Context, userID string) (<-chan []byte, func(), error)
}

type realtime struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRealtime(client *redis.Client, log *logger.Logger) Realtime {
	return &realtime{client: client, logger: log}
}

func (r *realtime) Badge(ctx context.Context, userID string) (int64, bool) {
	if r.client == nil {
		return 0, false
	}

	raw, err := r.client.Get(ctx, BadgeKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("[BADGE] get %s: %v", userID, err)
		}
		return 0, false
	}
	unread, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return unread, true
}

func (r *realtime) SetBadge(ctx context.Context, userID string, unread int64) {
	if r.client == nil {
		return
	}
	if err := r.client.Set(ctx, BadgeKey(userID), unread, BadgeTTL).Err(); err != nil {
		r.logger.Warn("[BADGE] set %s: %v", userID, err)
	}
}

func (r *realtime) Publish(ctx context.Context, userID string, payload []byte) {
	if r.client == nil {
		return
	}
	subscribers, err := r.client.Publish(ctx, ChannelName(userID), payload).Result()
	if err != nil {
		r.logger.Warn("[REALTIME] publish to %s: %v", ChannelName(userID), err)
		return
	}
	r.logger.Info("[REALTIME] published to %s, subscribers=%d", ChannelName(userID), subscribers)
}

func (r *realtime) Subscribe(ctx context.Context, userID string) (<-chan []byte, func(), error) {
	if r.client == nil {
		return nil, nil, ErrRealtimeUnavailable
	}

	pubsub := r.client.Subscribe(ctx, ChannelName(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", ChannelName(userID), err)
	}

	out := make(chan []byte, 16)
	done := make(chan struct{})
	go func() {
		defer close(out)
		messages := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}
	return out, cancel, nil
}
