package events

import (
	"context"
	"testing"
	"time"
)

func TestNoopPublisher(t *testing.T) {
	p := NoopPublisher{}
	err := p.Publish(context.Background(), Event{
		Type:    TypeAlertResolved,
		AlertID: "a1",
		At:      time.Now(),
	})
	if err != nil {
		t.Errorf("noop publish returned error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("noop close returned error: %v", err)
	}
}

func TestNewKafkaPublisherValidation(t *testing.T) {
	if _, err := NewKafkaPublisher(nil, "topic"); err == nil {
		t.Error("expected error with no brokers")
	}
	if _, err := NewKafkaPublisher([]string{"localhost:9092"}, ""); err == nil {
		t.Error("expected error with no topic")
	}
}

func TestKafkaPublisherClosedRejectsPublish(t *testing.T) {
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "vigia.audit")
	if err != nil {
		t.Fatalf("NewKafkaPublisher: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	err = p.Publish(context.Background(), Event{Type: TypeAlertDeleted, AlertID: "a1", At: time.Now()})
	if err != ErrPublisherClosed {
		t.Errorf("expected ErrPublisherClosed, got %v", err)
	}
}
