//go:build unit

package messaging_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"car-rental-api/internal/infra/codec"
	"car-rental-api/internal/infra/messaging"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (c *recordingChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	msg := shared.OutboxMessage{
		ID:          uuid.New(),
		Topic:       shared.TopicBookingCreated,
		AggregateID: uuid.New(),
		Payload:     []byte(`{"status":"pending"}`),
		Attempts:    2,
		CreatedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	t.Run("routes by topic with a JSON envelope", func(t *testing.T) {
		ch := &recordingChannel{}
		pub := messaging.NewPublisherOnChannel(ch, "car-rental.events")

		require.NoError(t, pub.Publish(context.Background(), msg))
		assert.Equal(t, "car-rental.events", ch.exchange)
		assert.Equal(t, shared.TopicBookingCreated, ch.key)
		assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
		assert.Equal(t, msg.ID.String(), ch.msg.MessageId)

		env, err := codec.DecodeEnvelope(ch.msg.Body)
		require.NoError(t, err)
		assert.Equal(t, msg.AggregateID, env.AggregateID)
		assert.Equal(t, 3, env.Attempt)
		assert.JSONEq(t, `{"status":"pending"}`, string(env.Payload))
	})

	t.Run("broker error is returned", func(t *testing.T) {
		ch := &recordingChannel{err: errors.New("channel closed")}
		err := messaging.NewPublisherOnChannel(ch, "x").Publish(context.Background(), msg)
		assert.ErrorContains(t, err, "channel closed")
	})

	t.Run("close releases the channel", func(t *testing.T) {
		ch := &recordingChannel{}
		require.NoError(t, messaging.NewPublisherOnChannel(ch, "x").Close())
		assert.True(t, ch.closed)
	})
}
