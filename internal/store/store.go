// Package store holds the canonical set of alert records.
package store

import (
	"errors"

	"vigia/internal/models"
)

// ErrNotFound is returned when no alert has the requested id.
var ErrNotFound = errors.New("alert not found")

// Filter selects alerts from the store. Zero value matches everything.
// Status and Severity match exactly; the literal "all" (or empty) disables
// that criterion. Search is a case-insensitive substring match against
// title, client name and description. All criteria compose with AND.
type Filter struct {
	Status   string
	Severity string
	Search   string
}

// Patch carries the fields of a partial alert update. Nil fields are
// left untouched.
type Patch struct {
	Status     *models.Status
	AssignedTo *string
}

// Store is the storage abstraction over alert records. The in-memory
// implementation stands in for a database-backed one.
type Store interface {
	List(f Filter) []models.Alert
	Get(id string) (models.Alert, error)
	Create(alert models.Alert) (models.Alert, error)
	Update(id string, p Patch) (models.Alert, error)
	Delete(id string) error
}
