package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBroadcaster(t *testing.T) *Broadcaster {
	t.Helper()
	hub := NewBroadcaster(zap.NewNop().Sugar(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	hub.Start(ctx)
	t.Cleanup(func() {
		cancel()
	})
	return hub
}

func recvEvent(t *testing.T, client *BoardClient) BoardEvent {
	t.Helper()
	select {
	case payload, ok := <-client.Send:
		require.True(t, ok, "send channel closed unexpectedly")
		var ev BoardEvent
		require.NoError(t, json.Unmarshal(payload, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return BoardEvent{}
	}
}

func TestBroadcasterFanOut(t *testing.T) {
	hub := newTestBroadcaster(t)

	sender := NewBoardClient()
	listener := NewBoardClient()
	lurker := NewBoardClient() // registered but never joins the board room

	for _, c := range []*BoardClient{sender, listener, lurker} {
		hub.Register(c)
	}
	hub.Join(sender)
	hub.Join(listener)

	hub.Publish(EventTaskUpdated, map[string]interface{}{"task": "payload"}, sender.ID)

	ev := recvEvent(t, listener)
	assert.Equal(t, EventTaskUpdated, ev.Event)

	// Give the fan-out loop time to (wrongly) deliver to the others
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sender.Send, "originating connection must not receive its own event")
	assert.Empty(t, lurker.Send, "clients outside the board room receive nothing")
}

func TestBroadcasterDeliversToOriginatorWithoutOriginID(t *testing.T) {
	hub := newTestBroadcaster(t)

	client := NewBoardClient()
	hub.Register(client)
	hub.Join(client)

	// REST callers that do not send X-Client-ID have no origin to exclude
	hub.Publish(EventTaskCreated, map[string]interface{}{"task": "t"}, "")

	ev := recvEvent(t, client)
	assert.Equal(t, EventTaskCreated, ev.Event)
}

func TestBroadcasterUnregisterClosesSend(t *testing.T) {
	hub := newTestBroadcaster(t)

	client := NewBoardClient()
	hub.Register(client)
	hub.Join(client)
	hub.Unregister(client)

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}

	// Publishing afterwards must not panic or deliver
	hub.Publish(EventTaskUpdated, map[string]interface{}{}, "")
}

func TestBroadcasterStopDrainsClients(t *testing.T) {
	hub := NewBroadcaster(zap.NewNop().Sugar(), nil)
	hub.Start(context.Background())

	a := NewBoardClient()
	b := NewBoardClient()
	hub.Register(a)
	hub.Register(b)

	hub.Stop()

	for _, c := range []*BoardClient{a, b} {
		select {
		case _, ok := <-c.Send:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("send channel not closed on stop")
		}
	}
}
