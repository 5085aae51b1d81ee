package notifications

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg := <-c.Send:
		return string(msg)
	case <-time.After(testEventuallyTimeout):
		t.Fatal("no message delivered")
		return ""
	}
}

func TestNotifier_DisabledIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, n.PublishBroadcast(context.Background(), "payload"))
	assert.NoError(t, n.StartSubscriber(context.Background(), func(string) {
		t.Fatal("disabled notifier must not deliver")
	}))
}

func TestEvent_Encode(t *testing.T) {
	payload, err := Event{Type: EventCommentCreate, Payload: map[string]int{"id": 3}}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"comment:create","payload":{"id":3}}`, payload)

	_, err = Event{Type: "bad", Payload: make(chan int)}.Encode()
	assert.Error(t, err)
}

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	a, err := hub.Register(nil)
	require.NoError(t, err)
	b, err := hub.Register(nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, hub.Count())

	assert.Equal(t, 2, hub.BroadcastAll("hello"))
	assert.Equal(t, "hello", receive(t, a))
	assert.Equal(t, "hello", receive(t, b))

	hub.UnregisterClient(a)
	hub.UnregisterClient(a)
	assert.Equal(t, 1, hub.Count())
	_, open := <-a.Send
	assert.False(t, open)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Zero(t, hub.Count())
	_, err = hub.Register(nil)
	assert.ErrorIs(t, err, ErrHubClosed)
	require.NoError(t, hub.Shutdown(context.Background()))
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(nil)
	require.NoError(t, err)

	for i := 0; i < sendBuffer; i++ {
		require.True(t, c.TrySend([]byte("x")))
	}
	assert.False(t, c.TrySend([]byte("overflow")))
	assert.Zero(t, hub.BroadcastAll("also dropped"))
}

func TestHub_StartWiringRelaysRedisEvents(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)
	hub := NewHub()
	client, err := hub.Register(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, n))

	require.NoError(t, NewDispatcher(hub, n).Publish(ctx, Event{Type: EventCommentCreate, Payload: "p"}))
	assert.JSONEq(t, `{"type":"comment:create","payload":"p"}`, receive(t, client))
}

func TestDispatcher_LocalHubWithoutRedis(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(nil)
	require.NoError(t, err)

	require.NoError(t, NewDispatcher(hub, nil).Publish(context.Background(), Event{Type: EventCommentCreate}))
	assert.JSONEq(t, `{"type":"comment:create","payload":null}`, receive(t, client))
}

func TestNotifier_SubscriberSurvivesPanicAndStopsOnCancel(t *testing.T) {
	rdb := newTestRedis(t)
	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received int32
	require.NoError(t, n.StartSubscriber(ctx, func(payload string) {
		atomic.AddInt32(&received, 1)
		if payload == "boom" {
			panic("handler failure")
		}
	}))

	require.NoError(t, n.PublishBroadcast(context.Background(), "boom"))
	require.NoError(t, n.PublishBroadcast(context.Background(), "fine"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) == 2
	}, testEventuallyTimeout, testPollInterval)

	cancel()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, n.PublishBroadcast(context.Background(), "after-cancel"))
	assert.Never(t, func() bool {
		return atomic.LoadInt32(&received) > 2
	}, 200*time.Millisecond, testPollInterval)
}
