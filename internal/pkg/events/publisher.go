// Package events publishes attendance domain events to RabbitMQ. Publishing is
// best effort: the ledger has already committed when an event is sent.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	dialTimeout  = 2 * time.Second
	retryBackoff = 15 * time.Second
)

// ErrBrokerUnavailable is returned without dialing while a recent connection
// attempt is still inside its backoff window.
var ErrBrokerUnavailable = errors.New("rabbitmq unavailable")

// Publisher sends JSON messages to a durable topic exchange. The connection
// is opened lazily and reopened after a failure, at most once per backoff window.
type Publisher struct {
	url      string
	exchange string
	backoff  time.Duration
	dial     func(url string) (*amqp.Connection, error)
	now      func() time.Time

	mu          sync.Mutex
	conn        *amqp.Connection
	ch          *amqp.Channel
	lastFailure time.Time
}

func NewPublisher(url, exchange string) *Publisher {
	return &Publisher{
		url:      url,
		exchange: exchange,
		backoff:  retryBackoff,
		dial:     dialBroker,
		now:      time.Now,
	}
}

// dialBroker bounds the TCP dial; amqp.Dial would wait up to 30 seconds.
func dialBroker(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
}

func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.closeLocked()

	if !p.lastFailure.IsZero() && p.now().Sub(p.lastFailure) < p.backoff {
		return nil, ErrBrokerUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch, err := p.open()
	if err != nil {
		p.lastFailure = p.now()
		return nil, err
	}
	p.lastFailure = time.Time{}
	return ch, nil
}

func (p *Publisher) open() (*amqp.Channel, error) {
	conn, err := p.dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel open failed: %w", err)
	}
	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // kind
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare failed: %w", err)
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

// Publish marshals payload to JSON and sends it with routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         routingKey,
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.closeLocked()
		return fmt.Errorf("rabbitmq publish failed: %w", err)
	}
	return nil
}

func (p *Publisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, routingKey string, payload any) error {
	slog.Debug("event dropped, no broker configured", "routing_key", routingKey)
	return nil
}
