package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes events to a durable topic exchange.
type RabbitMQ struct {
	conn     *amqp.Connection
	mu       sync.Mutex // amqp.Channel must not be used for concurrent publishes
	channel  *amqp.Channel
	exchange string
	timeout  time.Duration
}

var _ Publisher = (*RabbitMQ)(nil)

func NewRabbitMQ(url, exchange string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("events: declare exchange %q: %w", exchange, err)
	}

	return &RabbitMQ{conn: conn, channel: ch, exchange: exchange, timeout: 5 * time.Second}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, e Event) error {
	body, err := encode(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channel.PublishWithContext(
		ctx,
		r.exchange,
		e.Type, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.ID,
			Timestamp:    e.OccurredAt,
			Type:         e.Type,
			Body:         body,
		},
	)
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.channel.Close(); err != nil {
		r.conn.Close()
		return err
	}
	return r.conn.Close()
}

// encode fills in ID and OccurredAt when the caller left them empty.
func encode(e Event) ([]byte, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("events: encode %s: %w", e.Type, err)
	}
	return body, nil
}
