package services

import (
	"context"
	"encoding/json"

	"github.com/suraj371k/trello/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Real-time event types, one per kind of accepted mutation.
const (
	EventTaskCreated = "task-created"
	EventTaskUpdated = "task-updated"
	EventTaskDeleted = "task-deleted"
	EventTaskMoved   = "task-moved"
)

// relayChannel is the Redis channel boards publish on when relaying events
// between server instances.
const relayChannel = "board:events"

// BoardEvent is the envelope written to every subscribed connection.
type BoardEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// relayMessage is the cross-instance wire format on Redis.
type relayMessage struct {
	Instance string          `json:"instance"`
	Origin   string          `json:"origin"`
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data"`
}

// BoardClient is one connected real-time session. Send is drained by the
// connection's write pump; the hub closes it on unregister or shutdown.
type BoardClient struct {
	ID   string
	Send chan []byte

	// joined flips when the client sends join-board. Owned by the hub
	// goroutine; never touch it elsewhere.
	joined bool
}

func NewBoardClient() *BoardClient {
	return &BoardClient{
		ID:   utils.GenerateID(),
		Send: make(chan []byte, 32),
	}
}

type hubEvent struct {
	event   string
	data    interface{}
	origin  string
	relayed bool
}

// Broadcaster is the board-room hub: every connected client joins the single
// shared room and receives one event per accepted mutation, except the
// connection that originated it. Membership and fan-out run on one
// goroutine, so no locking is needed anywhere.
//
// With a Redis client attached, events are additionally published on a Redis
// channel and events from other instances are relayed to local connections,
// so several server processes can share one board.
type Broadcaster struct {
	logger     *zap.SugaredLogger
	redis      *redis.Client
	instanceID string

	register   chan *BoardClient
	unregister chan *BoardClient
	join       chan *BoardClient
	events     chan hubEvent
	quit       chan struct{}
	done       chan struct{}
}

func NewBroadcaster(logger *zap.SugaredLogger, redisClient *redis.Client) *Broadcaster {
	return &Broadcaster{
		logger:     logger,
		redis:      redisClient,
		instanceID: utils.GenerateID(),
		register:   make(chan *BoardClient),
		unregister: make(chan *BoardClient),
		join:       make(chan *BoardClient),
		events:     make(chan hubEvent, 256),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the hub loop and, when Redis is configured, the relay
// subscriber. Call Stop to drain.
func (b *Broadcaster) Start(ctx context.Context) {
	go b.run()
	if b.redis != nil {
		go b.relayLoop(ctx)
	}
}

// Stop shuts the hub down and closes every client send channel.
func (b *Broadcaster) Stop() {
	close(b.quit)
	<-b.done
}

// Register adds a freshly connected client. It receives nothing until it
// joins the board room.
func (b *Broadcaster) Register(client *BoardClient) {
	select {
	case b.register <- client:
	case <-b.quit:
	}
}

// Unregister removes a client and closes its send channel.
func (b *Broadcaster) Unregister(client *BoardClient) {
	select {
	case b.unregister <- client:
	case <-b.quit:
	}
}

// Join subscribes a registered client to the board room.
func (b *Broadcaster) Join(client *BoardClient) {
	select {
	case b.join <- client:
	case <-b.quit:
	}
}

// Publish fans an accepted mutation out to every joined client except the
// originating connection. It never blocks the caller: the mutation response
// must not wait on slow consumers, so under backpressure the event is
// dropped and logged.
func (b *Broadcaster) Publish(event string, data interface{}, originID string) {
	select {
	case b.events <- hubEvent{event: event, data: data, origin: originID}:
	case <-b.quit:
	default:
		b.logger.Warnw("broadcaster backlog full, dropping event", "event", event)
	}
}

func (b *Broadcaster) run() {
	defer close(b.done)
	clients := make(map[*BoardClient]bool)

	for {
		select {
		case client := <-b.register:
			clients[client] = true
		case client := <-b.unregister:
			if clients[client] {
				delete(clients, client)
				close(client.Send)
			}
		case client := <-b.join:
			if clients[client] {
				client.joined = true
			}
		case ev := <-b.events:
			b.fanOut(clients, ev)
		case <-b.quit:
			for client := range clients {
				close(client.Send)
			}
			return
		}
	}
}

func (b *Broadcaster) fanOut(clients map[*BoardClient]bool, ev hubEvent) {
	payload, err := json.Marshal(BoardEvent{Event: ev.event, Data: ev.data})
	if err != nil {
		b.logger.Errorw("failed to encode board event", "event", ev.event, "error", err)
		return
	}

	for client := range clients {
		if !client.joined || client.ID == ev.origin {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			// Slow consumer; it will re-fetch full state on reconnect
			b.logger.Warnw("dropping event for slow client", "clientId", client.ID, "event", ev.event)
		}
	}

	if b.redis != nil && !ev.relayed {
		b.relayOut(ev, payload)
	}
}

func (b *Broadcaster) relayOut(ev hubEvent, payload []byte) {
	var envelope BoardEvent
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return
	}
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		return
	}
	msg, err := json.Marshal(relayMessage{
		Instance: b.instanceID,
		Origin:   ev.origin,
		Event:    ev.event,
		Data:     raw,
	})
	if err != nil {
		return
	}
	if err := b.redis.Publish(context.Background(), relayChannel, msg).Err(); err != nil {
		b.logger.Errorw("failed to relay board event", "event", ev.event, "error", err)
	}
}

func (b *Broadcaster) relayLoop(ctx context.Context) {
	sub := b.redis.Subscribe(ctx, relayChannel)
	defer sub.Close()

	for {
		select {
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var relay relayMessage
			if err := json.Unmarshal([]byte(msg.Payload), &relay); err != nil {
				b.logger.Warnw("malformed relay message", "error", err)
				continue
			}
			if relay.Instance == b.instanceID {
				continue
			}
			select {
			case b.events <- hubEvent{event: relay.Event, data: relay.Data, origin: relay.Origin, relayed: true}:
			default:
				b.logger.Warnw("broadcaster backlog full, dropping relayed event", "event", relay.Event)
			}
		case <-b.quit:
			return
		case <-ctx.Done():
			return
		}
	}
}
