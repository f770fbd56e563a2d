// Package notify fans alert notifications out to the configured channels
// and records each delivery outcome.
package notify

import (
	"context"
	"strings"
	"time"

	"vigia/internal/logger"
	"vigia/internal/metrics"
	"vigia/internal/models"
)

// Recipients holds the per-channel addresses of a send request.
type Recipients struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Request is a notification send request for one alert snapshot.
type Request struct {
	AlertID    string           `json:"alertId"`
	Channels   []models.Channel `json:"channels"`
	Recipients Recipients       `json:"recipients"`
	Alert      AlertSnapshot    `json:"alert"`
}

// ChannelResult is the outcome for a single requested channel.
type ChannelResult struct {
	Channel   models.Channel        `json:"channel"`
	Recipient string                `json:"recipient"`
	Status    models.DeliveryStatus `json:"status"`
	Message   string                `json:"message,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// Result is the aggregate outcome of a dispatch. Success only when every
// produced channel result is sent; individual results are always returned.
type Result struct {
	Success bool
	Results []ChannelResult
}

// Dispatcher sends alert notifications through channel collaborators.
// A nil Mailer means no mail gateway is configured and email sends are
// simulated, which keeps the service usable without SMTP credentials.
type Dispatcher struct {
	mailer   Mailer
	whatsapp WhatsAppGateway
	history  *History
	now      func() time.Time
}

// NewDispatcher wires a dispatcher. whatsapp defaults to the simulated
// gateway when nil.
func NewDispatcher(mailer Mailer, whatsapp WhatsAppGateway, history *History) *Dispatcher {
	if whatsapp == nil {
		whatsapp = SimulatedWhatsApp{}
	}
	return &Dispatcher{
		mailer:   mailer,
		whatsapp: whatsapp,
		history:  history,
		now:      time.Now,
	}
}

// Dispatch sends the request through every requested channel that has a
// recipient. A channel failure is recovered into its result and never
// aborts the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	log := logger.WithComponent("dispatcher")
	results := make([]ChannelResult, 0, len(req.Channels))

	if hasChannel(req.Channels, models.ChannelEmail) && req.Recipients.Email != "" {
		results = append(results, d.sendEmail(ctx, req))
	}

	if hasChannel(req.Channels, models.ChannelWhatsApp) && req.Recipients.Phone != "" {
		results = append(results, d.sendWhatsApp(ctx, req))
	}

	success := true
	for _, r := range results {
		metrics.NotificationsSentTotal.WithLabelValues(string(r.Channel), string(r.Status)).Inc()
		d.record(req.AlertID, r)
		if r.Status != models.DeliverySent {
			success = false
		}
	}

	log.Info().
		Str("alert_id", req.AlertID).
		Int("channels", len(results)).
		Bool("success", success).
		Msg("notification dispatched")

	return Result{Success: success, Results: results}
}

func (d *Dispatcher) sendEmail(ctx context.Context, req Request) ChannelResult {
	result := ChannelResult{
		Channel:   models.ChannelEmail,
		Recipient: req.Recipients.Email,
	}

	if d.mailer == nil {
		// No mail gateway configured; degrade to a simulated send rather
		// than failing the batch.
		result.Status = models.DeliverySent
		result.Message = "Email simulated (SMTP not configured)"
		return result
	}

	body, err := RenderEmail(req.Alert)
	if err != nil {
		result.Status = models.DeliveryFailed
		result.Error = err.Error()
		return result
	}

	subject := "[" + strings.ToUpper(req.Alert.Severity) + "] " + req.Alert.Title

	start := d.now()
	err = d.mailer.Send(ctx, req.Recipients.Email, subject, body)
	metrics.NotificationDuration.WithLabelValues(string(models.ChannelEmail)).Observe(d.now().Sub(start).Seconds())

	if err != nil {
		log := logger.WithComponent("dispatcher")
		log.Error().Err(err).
			Str("alert_id", req.AlertID).
			Msg("email delivery failed")
		result.Status = models.DeliveryFailed
		result.Error = err.Error()
		return result
	}

	result.Status = models.DeliverySent
	return result
}

func (d *Dispatcher) sendWhatsApp(ctx context.Context, req Request) ChannelResult {
	result := ChannelResult{
		Channel:   models.ChannelWhatsApp,
		Recipient: req.Recipients.Phone,
	}

	start := d.now()
	deliveryID, err := d.whatsapp.Send(ctx, req.Recipients.Phone, WhatsAppText(req.Alert))
	metrics.NotificationDuration.WithLabelValues(string(models.ChannelWhatsApp)).Observe(d.now().Sub(start).Seconds())

	if err != nil {
		log := logger.WithComponent("dispatcher")
		log.Error().Err(err).
			Str("alert_id", req.AlertID).
			Msg("whatsapp delivery failed")
		result.Status = models.DeliveryFailed
		result.Error = err.Error()
		return result
	}

	result.Status = models.DeliverySent
	result.Message = "WhatsApp notification simulated (delivery " + deliveryID + ")"
	return result
}

// record appends an immutable notification row for a channel result.
func (d *Dispatcher) record(alertID string, r ChannelResult) {
	if d.history == nil {
		return
	}

	n := models.Notification{
		AlertID:   alertID,
		Channel:   r.Channel,
		Recipient: r.Recipient,
		Status:    r.Status,
	}
	if r.Status == models.DeliverySent {
		sentAt := d.now().UTC()
		n.SentAt = &sentAt
	}
	if r.Error != "" {
		errMsg := r.Error
		n.ErrorMessage = &errMsg
	}
	d.history.Add(n)
}

func hasChannel(channels []models.Channel, c models.Channel) bool {
	for _, ch := range channels {
		if ch == c {
			return true
		}
	}
	return false
}
