package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"vigia/internal/events"
	"vigia/internal/logger"
	"vigia/internal/models"
	"vigia/internal/notify"
)

// NotificationHandler serves the /notifications surface.
type NotificationHandler struct {
	dispatcher *notify.Dispatcher
	history    *notify.History
	publisher  events.Publisher
	now        func() time.Time
}

// NotificationConfig holds configuration for the notification handler.
type NotificationConfig struct {
	Dispatcher *notify.Dispatcher
	History    *notify.History
	Publisher  events.Publisher
	Now        func() time.Time
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(cfg NotificationConfig) *NotificationHandler {
	if cfg.Publisher == nil {
		cfg.Publisher = events.NoopPublisher{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &NotificationHandler{
		dispatcher: cfg.Dispatcher,
		history:    cfg.History,
		publisher:  cfg.Publisher,
		now:        cfg.Now,
	}
}

// ServeHistory handles GET /notifications/history?alertId=.
func (h *NotificationHandler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	notifications := h.history.List(r.URL.Query().Get("alertId"))
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// ServeSend handles POST /notifications/send.
func (h *NotificationHandler) ServeSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req notify.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.AlertID == "" || len(req.Channels) == 0 ||
		(req.Recipients.Email == "" && req.Recipients.Phone == "") ||
		req.Alert.Title == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	for _, c := range req.Channels {
		if !c.IsValid() {
			writeError(w, http.StatusBadRequest, models.ErrInvalidChannel.Error())
			return
		}
	}

	result := h.dispatcher.Dispatch(r.Context(), req)

	for _, cr := range result.Results {
		event := events.Event{
			Type:    events.TypeNotificationSent,
			AlertID: req.AlertID,
			At:      h.now().UTC(),
			Payload: map[string]any{"channel": cr.Channel, "status": cr.Status},
		}
		if err := h.publisher.Publish(r.Context(), event); err != nil {
			log := logger.WithComponent("handlers")
			log.Debug().Err(err).Msg("audit publish skipped")
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": result.Success,
		"results": result.Results,
		"alertId": req.AlertID,
	})
}
