// Package codec encodes outbox events for storage and publication.
package codec

import (
	"time"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/usecase/shared"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the message body published for each outbox event.
type Envelope struct {
	ID          uuid.UUID           `json:"id"`
	Topic       string              `json:"topic"`
	AggregateID uuid.UUID           `json:"aggregate_id"`
	OccurredAt  time.Time           `json:"occurred_at"`
	Attempt     int                 `json:"attempt"`
	Payload     jsoniter.RawMessage `json:"payload"`
}

func EncodePayload(e shared.Event) ([]byte, error) {
	b, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, errs.Wrapf(err, "encode %s payload", e.Topic)
	}
	return b, nil
}

func EncodeEnvelope(m shared.OutboxMessage) ([]byte, error) {
	b, err := json.Marshal(Envelope{
		ID:          m.ID,
		Topic:       m.Topic,
		AggregateID: m.AggregateID,
		OccurredAt:  m.CreatedAt,
		Attempt:     m.Attempts + 1,
		Payload:     m.Payload,
	})
	if err != nil {
		return nil, errs.Wrapf(err, "encode envelope %s", m.ID)
	}
	return b, nil
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, errs.Wrap(err, "decode envelope")
	}
	return env, nil
}
