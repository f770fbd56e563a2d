package models

import (
	"errors"
	"strings"
	"time"
)

// Severity represents the urgency tier of an alert
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Status represents the lifecycle state of an alert
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusIgnored    Status = "ignored"
)

// Alert represents an operational anomaly requiring human attention
type Alert struct {
	// Unique identifier for the alert
	ID string `json:"id"`

	// Client the alert belongs to
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`

	// Alert type tag, open vocabulary (backup_failed, stock_zero, nfe_error, ...)
	AlertType string `json:"alert_type"`

	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`

	// Timestamp when the alert was created (UTC)
	CreatedAt time.Time `json:"created_at"`

	// Optional operator currently working the alert
	AssignedTo *string `json:"assigned_to"`

	// Set only while status is resolved
	ResolvedBy *string    `json:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

// Validation errors
var (
	ErrEmptyID               = errors.New("alert ID cannot be empty")
	ErrEmptyClientID         = errors.New("client ID cannot be empty")
	ErrEmptyClientName       = errors.New("client name cannot be empty")
	ErrEmptyAlertType        = errors.New("alert type cannot be empty")
	ErrEmptyTitle            = errors.New("title cannot be empty")
	ErrZeroCreatedAt         = errors.New("created_at cannot be zero")
	ErrInvalidSeverity       = errors.New("invalid severity level")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrResolutionMismatch    = errors.New("resolved_by and resolved_at must both be set exactly when status is resolved")
	ErrResolvedBeforeCreated = errors.New("resolved_at cannot precede created_at")
)

// Validate checks the alert has all required fields and consistent resolution metadata
func (a *Alert) Validate() error {
	if a.ID == "" {
		return ErrEmptyID
	}
	if a.ClientID == "" {
		return ErrEmptyClientID
	}
	if a.ClientName == "" {
		return ErrEmptyClientName
	}
	if a.AlertType == "" {
		return ErrEmptyAlertType
	}
	if a.Title == "" {
		return ErrEmptyTitle
	}
	if a.CreatedAt.IsZero() {
		return ErrZeroCreatedAt
	}
	if !a.Severity.IsValid() {
		return ErrInvalidSeverity
	}
	if !a.Status.IsValid() {
		return ErrInvalidStatus
	}

	// resolved_by and resolved_at are both set iff the alert is resolved
	resolved := a.Status == StatusResolved
	if resolved != (a.ResolvedBy != nil) || resolved != (a.ResolvedAt != nil) {
		return ErrResolutionMismatch
	}
	if a.ResolvedAt != nil && a.ResolvedAt.Before(a.CreatedAt) {
		return ErrResolvedBeforeCreated
	}

	return nil
}

// Normalize trims whitespace and lower-cases the enumerated fields
func (a *Alert) Normalize() {
	a.ID = strings.TrimSpace(a.ID)
	a.ClientID = strings.TrimSpace(a.ClientID)
	a.ClientName = strings.TrimSpace(a.ClientName)
	a.AlertType = strings.ToLower(strings.TrimSpace(a.AlertType))
	a.Title = strings.TrimSpace(a.Title)
	a.Description = strings.TrimSpace(a.Description)
	a.Severity = Severity(strings.ToLower(strings.TrimSpace(string(a.Severity))))
	a.Status = Status(strings.ToLower(strings.TrimSpace(string(a.Status))))
}

// IsValid checks if the severity level is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Weight returns the operator priority of a severity, higher is more urgent
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// IsValid checks if the status is valid
func (st Status) IsValid() bool {
	switch st {
	case StatusOpen, StatusInProgress, StatusResolved, StatusIgnored:
		return true
	default:
		return false
	}
}
