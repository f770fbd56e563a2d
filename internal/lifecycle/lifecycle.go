// Package lifecycle enforces alert status transitions and stamps
// resolution metadata.
package lifecycle

import (
	"fmt"
	"time"

	"vigia/internal/models"
)

// ErrInvalidTransition is returned when a status change is not allowed
// by the transition table.
type ErrInvalidTransition struct {
	From models.Status
	To   models.Status
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// transitions is the allowed transition table. Ignored is terminal;
// resolved alerts may be reopened. Self-transitions are handled as
// no-ops before this table is consulted.
var transitions = map[models.Status][]models.Status{
	models.StatusOpen:       {models.StatusInProgress, models.StatusResolved, models.StatusIgnored},
	models.StatusInProgress: {models.StatusOpen, models.StatusResolved, models.StatusIgnored},
	models.StatusResolved:   {models.StatusOpen, models.StatusInProgress},
	models.StatusIgnored:    {},
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to models.Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Apply moves an alert to a new status, stamping or clearing resolution
// metadata as needed. The resolver identity comes from the caller; now is
// injected for testability. The alert is mutated in place.
func Apply(alert *models.Alert, newStatus models.Status, resolver string, now time.Time) error {
	if !newStatus.IsValid() {
		return models.ErrInvalidStatus
	}

	if alert.Status == newStatus {
		return nil
	}

	if !CanTransition(alert.Status, newStatus) {
		return &ErrInvalidTransition{From: alert.Status, To: newStatus}
	}

	leavingResolved := alert.Status == models.StatusResolved

	alert.Status = newStatus

	switch {
	case newStatus == models.StatusResolved:
		resolvedAt := now.UTC()
		alert.ResolvedBy = &resolver
		alert.ResolvedAt = &resolvedAt
	case leavingResolved:
		// Reopening clears the resolution stamp so that resolved_by and
		// resolved_at are set exactly when the status is resolved.
		alert.ResolvedBy = nil
		alert.ResolvedAt = nil
	}

	return nil
}
