package models

import (
	"errors"
	"time"
)

// Channel is a delivery mechanism for notifications
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// DeliveryStatus is the outcome of a notification delivery attempt
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Notification is an immutable record of an attempted delivery. A retry
// creates a new record rather than mutating the old one, preserving the
// audit trail.
type Notification struct {
	ID        string         `json:"id"`
	AlertID   string         `json:"alert_id"`
	Channel   Channel        `json:"notification_type"`
	Recipient string         `json:"recipient"`
	Status    DeliveryStatus `json:"status"`

	// Set when the delivery succeeded
	SentAt *time.Time `json:"sent_at"`

	// Set only when status is failed
	ErrorMessage *string `json:"error_message"`
}

// ErrInvalidChannel is returned for channels outside the enum.
var ErrInvalidChannel = errors.New("invalid notification channel")

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelWhatsApp:
		return true
	default:
		return false
	}
}
