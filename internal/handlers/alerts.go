package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vigia/internal/chart"
	"vigia/internal/events"
	"vigia/internal/lifecycle"
	"vigia/internal/logger"
	"vigia/internal/metrics"
	"vigia/internal/models"
	"vigia/internal/stats"
	"vigia/internal/store"
)

// AlertHandler serves the /alerts surface: listing, creation, partial
// updates, deletion, stats and the weekly chart.
type AlertHandler struct {
	store     store.Store
	publisher events.Publisher
	locale    string
	resolver  string
	now       func() time.Time
}

// AlertConfig holds configuration for the alert handler.
type AlertConfig struct {
	Store     store.Store
	Publisher events.Publisher
	Locale    string

	// Identity recorded as the audit actor until an auth collaborator
	// exists
	Resolver string

	Now func() time.Time
}

// NewAlertHandler creates an alert handler.
func NewAlertHandler(cfg AlertConfig) *AlertHandler {
	if cfg.Publisher == nil {
		cfg.Publisher = events.NoopPublisher{}
	}
	if cfg.Locale == "" {
		cfg.Locale = "pt-BR"
	}
	if cfg.Resolver == "" {
		cfg.Resolver = "Current User"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AlertHandler{
		store:     cfg.Store,
		publisher: cfg.Publisher,
		locale:    cfg.Locale,
		resolver:  cfg.Resolver,
		now:       cfg.Now,
	}
}

// CreateRequest is the payload for POST /alerts.
type CreateRequest struct {
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	AlertType   string `json:"alert_type"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PatchRequest is the payload for PATCH /alerts/{id}. Pointer fields
// distinguish absent from empty.
type PatchRequest struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assigned_to"`
}

// ServeCollection handles /alerts: GET lists, POST creates.
func (h *AlertHandler) ServeCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// ServeItem handles /alerts/{id} plus the /alerts/stats and /alerts/chart
// sub-resources.
func (h *AlertHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/alerts/")
	switch rest {
	case "":
		h.ServeCollection(w, r)
	case "stats":
		h.stats(w, r)
	case "chart":
		h.chart(w, r)
	default:
		h.item(w, r, rest)
	}
}

func (h *AlertHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	alerts := h.store.List(store.Filter{
		Status:   q.Get("status"),
		Severity: q.Get("severity"),
		Search:   q.Get("search"),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

func (h *AlertHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	alert, err := h.store.Create(models.Alert{
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		AlertType:   req.AlertType,
		Severity:    models.Severity(req.Severity),
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.AlertsCreatedTotal.WithLabelValues(string(alert.Severity)).Inc()
	h.publish(r, events.Event{
		Type:    events.TypeAlertCreated,
		AlertID: alert.ID,
		At:      h.now().UTC(),
		Payload: map[string]any{"severity": alert.Severity, "alert_type": alert.AlertType},
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"alert":   alert,
	})
}

func (h *AlertHandler) item(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodPatch:
		h.patch(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *AlertHandler) get(w http.ResponseWriter, id string) {
	alert, err := h.store.Get(id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"alert":   alert,
	})
}

func (h *AlertHandler) patch(w http.ResponseWriter, r *http.Request, id string) {
	var req PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var p store.Patch
	if req.Status != nil {
		status := models.Status(strings.ToLower(strings.TrimSpace(*req.Status)))
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		p.Status = &status
	}
	if req.AssignedTo != nil {
		assignee := strings.TrimSpace(*req.AssignedTo)
		if assignee == "" {
			writeError(w, http.StatusBadRequest, "assigned_to cannot be empty")
			return
		}
		p.AssignedTo = &assignee
	}

	alert, err := h.store.Update(id, p)
	if err != nil {
		h.storeError(w, err)
		return
	}

	metrics.AlertsUpdatedTotal.WithLabelValues(string(alert.Status)).Inc()

	eventType := events.TypeAlertUpdated
	payload := map[string]any{"status": alert.Status}
	if p.Status != nil && *p.Status == models.StatusResolved {
		eventType = events.TypeAlertResolved
		if alert.ResolvedBy != nil {
			payload["resolved_by"] = *alert.ResolvedBy
		}
	}
	h.publish(r, events.Event{
		Type:    eventType,
		AlertID: alert.ID,
		At:      h.now().UTC(),
		Payload: payload,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"alert":   alert,
	})
}

func (h *AlertHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(id); err != nil {
		h.storeError(w, err)
		return
	}

	metrics.AlertsDeletedTotal.Inc()
	h.publish(r, events.Event{
		Type:    events.TypeAlertDeleted,
		AlertID: id,
		At:      h.now().UTC(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Alert deleted successfully",
	})
}

func (h *AlertHandler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary := stats.Compute(h.store.List(store.Filter{}), h.now())
	metrics.AlertsOpen.Set(float64(summary.OpenAlerts))
	writeJSON(w, http.StatusOK, summary)
}

func (h *AlertHandler) chart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	points := chart.Build(h.store.List(store.Filter{}), h.now(), h.locale)
	writeJSON(w, http.StatusOK, map[string]any{
		"data": points,
	})
}

// storeError maps store and lifecycle errors onto the HTTP surface.
func (h *AlertHandler) storeError(w http.ResponseWriter, err error) {
	var invalid *lifecycle.ErrInvalidTransition
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Alert not found")
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// publish emits an audit event; failures are already logged and counted
// by the publisher and must not fail the request.
func (h *AlertHandler) publish(r *http.Request, event events.Event) {
	event.Actor = h.resolver
	if rid := r.Header.Get("X-Request-ID"); rid != "" {
		if event.Payload == nil {
			event.Payload = map[string]any{}
		}
		event.Payload["request_id"] = rid
	}
	if err := h.publisher.Publish(r.Context(), event); err != nil {
		log := logger.WithComponent("handlers")
		log.Debug().Err(err).Str("type", event.Type).Msg("audit publish skipped")
	}
}
