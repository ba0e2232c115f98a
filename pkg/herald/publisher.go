package herald

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes NormalizedActions onto a topic exchange, keyed by
// routing key, so interested consumers can bind on "{resource}.*" or
// "*.{kind}" patterns.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// PublisherConfig configures the message bus connection.
type PublisherConfig struct {
	URL          string
	Exchange     string
	ExchangeType string
}

// NewPublisher dials the broker and declares the topic exchange actions are
// published to.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dialing amqp broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening amqp channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		cfg.Exchange, cfg.ExchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", cfg.Exchange, err)
	}

	return &Publisher{conn: conn, channel: channel, exchange: cfg.Exchange}, nil
}

// Publish sends a normalized action's payload onto the exchange under its
// routing key. Delivery is at-least-once: the caller only marks the source
// action Published after this returns nil.
func (p *Publisher) Publish(ctx context.Context, action NormalizedAction) error {
	err := p.channel.PublishWithContext(ctx,
		p.exchange,
		string(action.RoutingKey),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    action.ID.String(),
			Timestamp:    action.OccurredAt,
			Body:         action.Payload,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing action %s: %w", action.ID, err)
	}
	return nil
}

// Close tears down the channel and connection.
func (p *Publisher) Close() error {
	chErr := p.channel.Close()
	connErr := p.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}
