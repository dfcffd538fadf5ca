// Package realtime fans status events out to connected clients and to
// optional message brokers. Delivery is best effort: publishing never blocks
// the caller, and events with no subscriber are dropped. Clients re-sync
// with a full read when they (re)connect.
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"restaurant-api/apperr"
	"restaurant-api/models"

	"github.com/google/uuid"
)

// Notifier receives committed status events.
type Notifier interface {
	Publish(topic string, evt models.StatusEvent)
}

// Message is one event delivered on one topic.
type Message struct {
	Topic string             `json:"topic"`
	Event models.StatusEvent `json:"event"`
}

var Topics = []string{models.TopicOrders, models.TopicKitchen, models.TopicBilling}

func validTopic(topic string) bool {
	for _, t := range Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Hub keeps per-connection topic subscriptions. A single dispatcher
// goroutine drains the inbound queue, so events on a topic reach every
// subscriber in publish order.
type Hub struct {
	log    *slog.Logger
	in     chan Message
	buffer int

	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewHub(buffer int, log *slog.Logger) *Hub {
	return &Hub{
		log:    log,
		in:     make(chan Message, buffer),
		buffer: buffer,
		conns:  make(map[string]*Conn),
	}
}

// Run dispatches queued events until ctx is done, then drops every
// connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.in:
			h.dispatch(msg)
		}
	}
}

func (h *Hub) Publish(topic string, evt models.StatusEvent) {
	select {
	case h.in <- Message{Topic: topic, Event: evt}:
	default:
		h.log.Warn("realtime queue full, dropping event", "topic", topic, "event_id", evt.ID)
	}
}

func (h *Hub) dispatch(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, c := range h.conns {
		if !c.subscribed(msg.Topic) {
			continue
		}
		select {
		case c.events <- msg:
		default:
			h.log.Warn("subscriber too slow, dropping event", "conn_id", id, "topic", msg.Topic, "event_id", msg.Event.ID)
		}
	}
}

// Connect registers a new connection subscribed to topics.
func (h *Hub) Connect(topics ...string) (*Conn, error) {
	c := &Conn{
		ID:     uuid.NewString(),
		topics: make(map[string]bool),
		events: make(chan Message, h.buffer),
	}
	for _, t := range topics {
		if !validTopic(t) {
			return nil, apperr.Validation("unknown topic %q", t)
		}
		c.topics[t] = true
	}

	h.mu.Lock()
	h.conns[c.ID] = c
	h.mu.Unlock()

	h.log.Info("realtime connection opened", "conn_id", c.ID, "topics", topics)
	return c, nil
}

func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	c, ok := h.conns[id]
	delete(h.conns, id)
	h.mu.Unlock()

	if ok {
		close(c.events)
		h.log.Info("realtime connection closed", "conn_id", id)
	}
}

func (h *Hub) Join(id, topic string) error {
	c, err := h.conn(id, topic)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.topics[topic] = true
	c.mu.Unlock()
	return nil
}

func (h *Hub) Leave(id, topic string) error {
	c, err := h.conn(id, topic)
	if err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.topics, topic)
	c.mu.Unlock()
	return nil
}

func (h *Hub) conn(id, topic string) (*Conn, error) {
	if !validTopic(topic) {
		return nil, apperr.Validation("unknown topic %q", topic)
	}
	h.mu.RLock()
	c, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: connection %s", apperr.ErrNotFound, id)
	}
	return c, nil
}

// Connections reports the number of open connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.conns {
		close(c.events)
		delete(h.conns, id)
	}
}

// Conn is one subscriber, typically an SSE stream.
type Conn struct {
	ID string

	mu     sync.Mutex
	topics map[string]bool
	events chan Message
}

// Events is closed when the connection is dropped by the hub.
func (c *Conn) Events() <-chan Message {
	return c.events
}

func (c *Conn) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.topics))
	for _, t := range Topics {
		if c.topics[t] {
			out = append(out, t)
		}
	}
	return out
}

func (c *Conn) subscribed(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topics[topic]
}

// Fanout forwards every event to each notifier in turn.
type Fanout []Notifier

func (f Fanout) Publish(topic string, evt models.StatusEvent) {
	for _, n := range f {
		n.Publish(topic, evt)
	}
}
