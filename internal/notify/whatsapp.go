package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vigia/internal/logger"
)

// WhatsAppGateway is the external messaging collaborator. A real
// integration (WhatsApp Business API, Twilio) plugs in here later.
type WhatsAppGateway interface {
	Send(ctx context.Context, number, text string) (deliveryID string, err error)
}

// SimulatedWhatsApp logs the message instead of delivering it.
type SimulatedWhatsApp struct{}

// Send pretends to deliver and returns a synthetic delivery id.
func (SimulatedWhatsApp) Send(ctx context.Context, number, text string) (string, error) {
	log := logger.WithComponent("whatsapp")
	log.Info().
		Str("number", number).
		Int("text_len", len(text)).
		Msg("whatsapp notification simulated")
	return uuid.New().String(), nil
}

// WhatsAppText renders the plain-text message body for an alert.
func WhatsAppText(alert AlertSnapshot) string {
	return fmt.Sprintf("[%s] %s\nCliente: %s\n%s",
		alert.Severity, alert.Title, alert.ClientName, alert.Description)
}
