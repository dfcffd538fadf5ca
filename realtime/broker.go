package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"restaurant-api/models"

	"github.com/nats-io/nats.go"
	amqp "github.com/rabbitmq/amqp091-go"
)

const subjectPrefix = "restaurant."

// subject builds the broker routing key, e.g. restaurant.kitchen.ready.
func subject(topic string, evt models.StatusEvent) string {
	return subjectPrefix + topic + "." + evt.ToStatus
}

// NATSBridge forwards events to NATS subjects. nats.Conn buffers
// publishes internally, so Publish does not block on the network.
type NATSBridge struct {
	conn *nats.Conn
	log  *slog.Logger
}

func NewNATSBridge(url string, log *slog.Logger) (*NATSBridge, error) {
	conn, err := nats.Connect(url,
		nats.Name("restaurant-api"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSBridge{conn: conn, log: log}, nil
}

func (b *NATSBridge) Publish(topic string, evt models.StatusEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		b.log.Error("marshal event for nats", "error", err)
		return
	}
	if err := b.conn.Publish(subject(topic, evt), data); err != nil {
		b.log.Error("nats publish failed", "topic", topic, "event_id", evt.ID, "error", err)
	}
}

func (b *NATSBridge) Close() error {
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return err
	}
	return nil
}

// AMQPBridge forwards events to a RabbitMQ topic exchange from a
// background goroutine, so a slow broker never delays a transition.
type AMQPBridge struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan Message
	done   chan struct{}
}

func NewAMQPBridge(url, exchange string, buffer int, log *slog.Logger) (*AMQPBridge, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	b := &AMQPBridge{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		log:      log,
		queue:    make(chan Message, buffer),
		done:     make(chan struct{}),
	}
	go b.loop()
	return b, nil
}

func (b *AMQPBridge) Publish(topic string, evt models.StatusEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.queue <- Message{Topic: topic, Event: evt}:
	default:
		b.log.Warn("amqp queue full, dropping event", "topic", topic, "event_id", evt.ID)
	}
}

func (b *AMQPBridge) loop() {
	defer close(b.done)
	for msg := range b.queue {
		body, err := json.Marshal(msg.Event)
		if err != nil {
			b.log.Error("marshal event for amqp", "error", err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = b.ch.PublishWithContext(ctx,
			b.exchange,                    // exchange
			subject(msg.Topic, msg.Event), // routing key
			false,                         // mandatory
			false,                         // immediate
			amqp.Publishing{
				ContentType: "application/json",
				MessageId:   msg.Event.ID,
				Timestamp:   msg.Event.OccurredAt,
				Body:        body,
			},
		)
		cancel()
		if err != nil {
			b.log.Error("amqp publish failed", "topic", msg.Topic, "event_id", msg.Event.ID, "error", err)
		}
	}
}

// Close flushes queued events and closes the connection.
func (b *AMQPBridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	<-b.done
	b.ch.Close()
	return b.conn.Close()
}
