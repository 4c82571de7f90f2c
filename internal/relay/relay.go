package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/realtime"
)

// Relay mirrors realtime bus events onto a RabbitMQ fanout exchange so
// out-of-process consumers (kitchen displays, analytics) can follow the
// order flow. The in-process feed never depends on the broker: when a
// publish fails the event is logged and dropped, same fire-and-forget
// contract as the SSE side.
type Relay struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	acks     <-chan amqp.Confirmation
	exchange string
	log      *logger.Logger

	mu          sync.Mutex // serializes publishes while waiting for confirms
	unsubscribe func()
}

// Dial connects, opens a confirm-mode channel and declares the fanout
// exchange.
func Dial(url, exchange string, log *logger.Logger) (*Relay, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp confirm mode: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Relay{conn: conn, ch: ch, acks: acks, exchange: exchange, log: log}, nil
}

// Attach subscribes the relay to the bus. Events are forwarded on the
// publisher's goroutine; the broker round-trip is bounded by a short timeout
// so a stalled broker cannot hold up the lifecycle engine indefinitely.
func (r *Relay) Attach(bus *realtime.Bus) {
	r.unsubscribe = bus.Subscribe(func(evt realtime.Event) {
		if err := r.forward(evt); err != nil {
			r.log.Error("relay_publish_failed", err, map[string]any{"event": string(evt.Type)})
		}
	})
	r.log.Info("relay_attached", map[string]any{"exchange": r.exchange})
}

func (r *Relay) forward(evt realtime.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.ch.PublishWithContext(ctx, r.exchange, string(evt.Type), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return err
	}

	select {
	case conf := <-r.acks:
		if !conf.Ack {
			return errors.New("publish NACK from broker")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ping reports broker liveness for the health endpoint.
func (r *Relay) Ping() error {
	if r.conn == nil || r.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (r *Relay) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}
