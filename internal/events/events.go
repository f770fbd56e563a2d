// Package events publishes an audit trail of alert mutations to a Kafka
// topic. Publishing is best-effort; a failure is logged and counted but
// never fails the request that triggered it.
package events

import (
	"context"
	"time"
)

// Event types
const (
	TypeAlertCreated     = "alert.created"
	TypeAlertUpdated     = "alert.updated"
	TypeAlertResolved    = "alert.resolved"
	TypeAlertDeleted     = "alert.deleted"
	TypeNotificationSent = "notification.sent"
)

// Event is one audit record.
type Event struct {
	Type    string         `json:"type"`
	AlertID string         `json:"alert_id"`
	Actor   string         `json:"actor,omitempty"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Publisher emits audit events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher discards events; used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
