package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"vigia/internal/models"
)

// History is an append-only record of notification deliveries.
type History struct {
	mu            sync.RWMutex
	notifications []models.Notification
}

// NewHistory creates an empty history store.
func NewHistory() *History {
	return &History{}
}

// Add appends a notification, assigning an id if missing.
func (h *History) Add(n models.Notification) models.Notification {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.notifications = append(h.notifications, n)
	return n
}

// List returns notifications in insertion order, optionally filtered by
// alert id.
func (h *History) List(alertID string) []models.Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.Notification, 0, len(h.notifications))
	for _, n := range h.notifications {
		if alertID != "" && n.AlertID != alertID {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Seed loads sample delivery records for environments without a real
// notification backlog.
func (h *History) Seed(alertIDs []string) {
	if len(alertIDs) < 3 {
		return
	}
	now := time.Now().UTC()

	twoHoursAgo := now.Add(-2 * time.Hour)
	oneHourAgo := now.Add(-1 * time.Hour)
	invalidNumber := "Número inválido ou não registrado no WhatsApp"

	h.Add(models.Notification{
		AlertID:   alertIDs[0],
		Channel:   models.ChannelEmail,
		Recipient: "suporte@empresaabc.com",
		Status:    models.DeliverySent,
		SentAt:    &twoHoursAgo,
	})
	h.Add(models.Notification{
		AlertID:   alertIDs[0],
		Channel:   models.ChannelWhatsApp,
		Recipient: "+5511999999999",
		Status:    models.DeliverySent,
		SentAt:    &twoHoursAgo,
	})
	h.Add(models.Notification{
		AlertID:   alertIDs[1],
		Channel:   models.ChannelEmail,
		Recipient: "estoque@comercioxyz.com",
		Status:    models.DeliverySent,
		SentAt:    &oneHourAgo,
	})
	h.Add(models.Notification{
		AlertID:      alertIDs[2],
		Channel:      models.ChannelWhatsApp,
		Recipient:    "+5511888888888",
		Status:       models.DeliveryFailed,
		ErrorMessage: &invalidNumber,
	})
}
