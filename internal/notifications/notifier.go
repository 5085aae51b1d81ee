// Package notifications delivers realtime events to websocket clients.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"typoteka/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// EventsChannel is the Redis channel every API instance publishes to and
// relays from, so clients of any instance see every event.
const EventsChannel = "typoteka:events"

// EventCommentCreate is sent after a comment is stored.
const EventCommentCreate = "comment:create"

// Event is the websocket message envelope.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Encode renders the event as a websocket text frame.
func (e Event) Encode() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return string(data), nil
}

// Notifier publishes events into Redis and relays them back to subscribers.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier. A nil client disables Redis fan-out.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether events go through Redis.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishBroadcast sends an encoded event to every subscribed instance.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, EventsChannel, payload).Err()
}

// StartSubscriber relays every message on EventsChannel to onMessage until
// ctx is cancelled. A panic in onMessage is logged and the relay continues.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, EventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", EventsChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in events subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
