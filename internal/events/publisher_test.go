package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type captureWriter struct {
	messages []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaPublisherWritesKeyedJSON(t *testing.T) {
	writer := &captureWriter{}
	publisher := &KafkaPublisher{writer: writer}

	quoteID := uuid.New()
	err := publisher.Publish(context.Background(), Event{
		Type:    TypeQuoteCreated,
		QuoteID: &quoteID,
		Number:  "QTE-20260801-ABCDEF01",
		Status:  "GENERATED",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(writer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != TypeQuoteCreated {
		t.Fatalf("message key %q, want %q", msg.Key, TypeQuoteCreated)
	}

	var decoded Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded.Type != TypeQuoteCreated || decoded.Number != "QTE-20260801-ABCDEF01" {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
	if decoded.QuoteID == nil || *decoded.QuoteID != quoteID {
		t.Fatal("quote id lost in payload")
	}
	if decoded.OccurredAt.IsZero() {
		t.Fatal("occurred_at must be stamped when absent")
	}
}

func TestNoopPublisher(t *testing.T) {
	if err := (NoopPublisher{}).Publish(context.Background(), Event{Type: TypeQuoteExpired}); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
}
