package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vigia/internal/lifecycle"
	"vigia/internal/models"
)

// MemoryStore keeps alerts in a slice, preserving insertion order.
// A single RWMutex serializes mutations; per-request handlers may race
// otherwise since the collection is process-wide.
type MemoryStore struct {
	mu       sync.RWMutex
	alerts   []models.Alert
	resolver string
	now      func() time.Time
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithResolver sets the identity stamped on resolved alerts.
func WithResolver(name string) Option {
	return func(s *MemoryStore) { s.resolver = name }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore creates an empty in-memory alert store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		resolver: "Current User",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns alerts matching the filter, oldest first (insertion order).
func (s *MemoryStore) List(f Filter) []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if matches(a, f) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a models.Alert, f Filter) bool {
	if f.Status != "" && f.Status != "all" && string(a.Status) != f.Status {
		return false
	}
	if f.Severity != "" && f.Severity != "all" && string(a.Severity) != f.Severity {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(a.Title), q) &&
			!strings.Contains(strings.ToLower(a.ClientName), q) &&
			!strings.Contains(strings.ToLower(a.Description), q) {
			return false
		}
	}
	return true
}

// Get returns the alert with the given id.
func (s *MemoryStore) Get(id string) (models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Alert{}, ErrNotFound
}

// Create validates and appends a new alert. A missing id, status or
// created_at is filled in.
func (s *MemoryStore) Create(alert models.Alert) (models.Alert, error) {
	alert.Normalize()
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.Status == "" {
		alert.Status = models.StatusOpen
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = s.now().UTC()
	}

	if err := alert.Validate(); err != nil {
		return models.Alert{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return alert, nil
}

// Update applies the present fields of the patch to the alert. Status
// changes go through the lifecycle transition rules.
func (s *MemoryStore) Update(id string, p Patch) (models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}

		if p.Status != nil {
			if err := lifecycle.Apply(&s.alerts[i], *p.Status, s.resolver, s.now()); err != nil {
				return models.Alert{}, err
			}
		}
		if p.AssignedTo != nil {
			s.alerts[i].AssignedTo = p.AssignedTo
		}
		return s.alerts[i], nil
	}
	return models.Alert{}, ErrNotFound
}

// Delete removes the alert with the given id. Irreversible; there is no
// soft delete.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Len returns the number of alerts held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}
