// Package messaging publishes relayed outbox events to a broker.
package messaging

import (
	"context"
	"log/slog"

	"car-rental-api/internal/infra/codec"
	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeKind = "topic"

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher sends each event to a durable topic exchange, routed
// by its topic.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
}

func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "rabbitmq dial")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "rabbitmq channel")
	}

	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrapf(err, "rabbitmq exchange declare %s", exchange)
	}

	slog.Info("RabbitMQ publisher ready", "exchange", exchange)
	return &RabbitMQPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, msg shared.OutboxMessage) error {
	body, err := codec.EncodeEnvelope(msg)
	if err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, msg.Topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID.String(),
		Timestamp:    msg.CreatedAt,
		Type:         msg.Topic,
		Body:         body,
	})
	if err != nil {
		return errs.Wrapf(err, "publish %s", msg.Topic)
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher stands in for a broker when none is configured. Events are
// logged and count as delivered.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (LogPublisher) Publish(ctx context.Context, msg shared.OutboxMessage) error {
	slog.InfoContext(ctx, "event",
		"id", msg.ID,
		"topic", msg.Topic,
		"aggregate_id", msg.AggregateID,
		"payload", string(msg.Payload))
	return nil
}

func (LogPublisher) Close() error { return nil }
