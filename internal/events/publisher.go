// Package events publishes quote and policy lifecycle notifications to
// Kafka. Events are advisory: callers log publish failures and move on.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TypeQuoteCreated    = "quote.created"
	TypeQuoteAccepted   = "quote.accepted"
	TypeQuoteDeclined   = "quote.declined"
	TypeQuoteExpired    = "quote.expired"
	TypePolicyBound     = "policy.bound"
	TypePolicyCancelled = "policy.cancelled"
	TypePolicyRenewed   = "policy.renewed"
)

type Event struct {
	Type       string     `json:"event"`
	QuoteID    *uuid.UUID `json:"quote_id,omitempty"`
	PolicyID   *uuid.UUID `json:"policy_id,omitempty"`
	Number     string     `json:"number,omitempty"`
	Status     string     `json:"status,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// messageWriter abstracts kafka.Writer for testability.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher connects a publisher to the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type),
		Value: payload,
	})
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
