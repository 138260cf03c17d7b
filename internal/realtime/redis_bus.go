package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	goredis "github.com/redis/go-redis/v9"
)

type RedisBus struct {
	rdb     *goredis.Client
	channel string
}

func NewRedisBus(ctx context.Context, addr, password, channel string) (*RedisBus, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if channel == "" {
		channel = "chat"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisBus{rdb: rdb, channel: channel}, nil
}

func (b *RedisBus) Publish(ctx context.Context, msg models.ChatMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes to the channel and calls onMsg for every message
// until ctx is cancelled. The returned channel is closed once the forwarder
// goroutine has exited.
func (b *RedisBus) StartForwarder(ctx context.Context, onMsg func(models.ChatMessage)) (<-chan struct{}, error) {
	if onMsg == nil {
		return nil, fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var msg models.ChatMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					slog.Warn("bad redis chat payload", "component", "realtime", "error", err)
					continue
				}
				onMsg(msg)
			}
		}
	}()
	return done, nil
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}
