package ws

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"bingo_webapp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireEvent struct {
	Seq       uint64          `json:"seq"`
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	Payload   json.RawMessage `json:"payload"`
}

func readEvent(t *testing.T, c *Client) wireEvent {
	t.Helper()
	select {
	case data := <-c.send:
		var ev wireEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return wireEvent{}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(30 * time.Millisecond):
	}
}

func numberOf(t *testing.T, ev wireEvent) int {
	t.Helper()
	var p domain.NumberCalledPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &p))
	return p.Number
}

func TestHub_OrderedDelivery(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ctx := context.Background()

	a, b := NewClient(hub, nil), NewClient(hub, nil)
	hub.Subscribe("S1", a)
	hub.Subscribe("S1", b)

	const total = 40
	for i := 1; i <= total; i++ {
		require.NoError(t, hub.Publish(ctx, "S1", domain.EventNumberCalled, domain.NumberCalledPayload{Number: i}))
	}

	for _, c := range []*Client{a, b} {
		for i := 1; i <= total; i++ {
			ev := readEvent(t, c)
			assert.Equal(t, uint64(i), ev.Seq)
			assert.Equal(t, "number-called", ev.Type)
			assert.Equal(t, "S1", ev.SessionID)
			assert.Equal(t, i, numberOf(t, ev))
		}
	}
}

func TestHub_LateSubscriberGetsNoHistory(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ctx := context.Background()

	early := NewClient(hub, nil)
	hub.Subscribe("S1", early)
	for i := 1; i <= 3; i++ {
		require.NoError(t, hub.Publish(ctx, "S1", domain.EventNumberCalled, domain.NumberCalledPayload{Number: i}))
	}
	for i := 1; i <= 3; i++ {
		readEvent(t, early)
	}

	late := NewClient(hub, nil)
	hub.Subscribe("S1", late)
	require.NoError(t, hub.Publish(ctx, "S1", domain.EventNumberCalled, domain.NumberCalledPayload{Number: 4}))

	ev := readEvent(t, late)
	assert.Equal(t, uint64(4), ev.Seq)
	assert.Equal(t, 4, numberOf(t, ev))
	assertNoEvent(t, late)
}

func TestHub_UnsubscribeIdempotent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	c := NewClient(hub, nil)
	hub.Subscribe("S1", c)
	hub.Subscribe("S1", c)
	assert.Equal(t, 1, hub.ObserverCount("S1"))

	hub.Unsubscribe("S1", c)
	hub.Unsubscribe("S1", c)
	hub.Unsubscribe("missing", c)
	assert.Equal(t, 0, hub.ObserverCount("S1"))

	require.NoError(t, hub.Publish(context.Background(), "S1", domain.EventGameStarted, domain.TimestampPayload{}))
	assertNoEvent(t, c)
}

func TestHub_SessionsIsolated(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ctx := context.Background()

	a, b := NewClient(hub, nil), NewClient(hub, nil)
	hub.Subscribe("S1", a)
	hub.Subscribe("S2", b)

	require.NoError(t, hub.Publish(ctx, "S2", domain.EventGamePaused, domain.TimestampPayload{Timestamp: 1}))
	ev := readEvent(t, b)
	assert.Equal(t, "game-paused", ev.Type)
	assertNoEvent(t, a)

	// no observers, nothing to do
	require.NoError(t, hub.Publish(ctx, "S3", domain.EventGamePaused, domain.TimestampPayload{}))
}

func TestHub_SlowObserverDropped(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	hub.SetSendTimeout(20 * time.Millisecond)
	ctx := context.Background()

	slow, fast := NewClient(hub, nil), NewClient(hub, nil)
	hub.Subscribe("S1", slow)
	hub.Subscribe("S1", fast)

	total := sendBuffer + 10
	var wg sync.WaitGroup
	wg.Add(1)
	received := 0
	go func() {
		defer wg.Done()
		for received < total {
			select {
			case <-fast.send:
				received++
			case <-time.After(5 * time.Second):
				return
			}
		}
	}()

	for i := 1; i <= total; i++ {
		require.NoError(t, hub.Publish(ctx, "S1", domain.EventNumberCalled, domain.NumberCalledPayload{Number: i % 75}))
	}
	wg.Wait()

	assert.Equal(t, total, received)
	assert.Equal(t, 1, hub.ObserverCount("S1"))
	select {
	case <-slow.done:
	default:
		t.Fatal("slow observer should be closed")
	}
}

func TestHub_CleanupIdleRooms(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	c := NewClient(hub, nil)
	hub.Subscribe("S1", c)
	assert.Equal(t, 0, hub.cleanupIdleRooms(-time.Second))

	hub.Unsubscribe("S1", c)
	assert.Equal(t, 1, hub.cleanupIdleRooms(-time.Second))
	assert.Equal(t, 0, hub.RoomCount())

	// a fresh room is created on the next subscribe
	hub.Subscribe("S1", c)
	assert.Equal(t, 1, hub.ObserverCount("S1"))
}
