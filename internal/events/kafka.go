package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"vigia/internal/logger"
	"vigia/internal/metrics"
)

// Publisher errors
var (
	ErrPublisherClosed = errors.New("publisher is closed")
)

// KafkaPublisher writes audit events to a Kafka topic, keyed by alert id
// so one alert's history stays ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	closed atomic.Bool

	eventsSent   atomic.Uint64
	eventsFailed atomic.Uint64
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // partition by key
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		Async:        false,
	}

	return &KafkaPublisher{writer: writer}, nil
}

// Publish serializes and writes one event.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.eventsFailed.Add(1)
		metrics.EventsPublishedTotal.WithLabelValues(event.Type, "failed").Inc()
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.AlertID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.At,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.eventsFailed.Add(1)
		metrics.EventsPublishedTotal.WithLabelValues(event.Type, "failed").Inc()
		log := logger.WithComponent("events")
		log.Error().
			Err(err).
			Str("type", event.Type).
			Str("alert_id", event.AlertID).
			Msg("failed to publish audit event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.eventsSent.Add(1)
	metrics.EventsPublishedTotal.WithLabelValues(event.Type, "success").Inc()
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}

// Stats returns publish counters.
func (p *KafkaPublisher) Stats() (sent, failed uint64) {
	return p.eventsSent.Load(), p.eventsFailed.Load()
}
