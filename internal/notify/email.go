package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"vigia/internal/config"
	"vigia/internal/models"
)

// severityColors maps each severity to the accent color used in the
// rendered email. Unrecognized values fall back to the medium color.
var severityColors = map[models.Severity]string{
	models.SeverityCritical: "#dc2626",
	models.SeverityHigh:     "#f59e0b",
	models.SeverityMedium:   "#3b82f6",
	models.SeverityLow:      "#10b981",
}

var severityLabels = map[models.Severity]string{
	models.SeverityCritical: "Crítica",
	models.SeverityHigh:     "Alta",
	models.SeverityMedium:   "Média",
	models.SeverityLow:      "Baixa",
}

// SeverityColor returns the accent color for a severity, total over any
// input.
func SeverityColor(s models.Severity) string {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[models.SeverityMedium]
}

// AlertSnapshot carries the alert fields rendered into a notification.
type AlertSnapshot struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	ClientName  string `json:"clientName"`
}

var emailTmpl = template.Must(template.New("alert-email").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Alerta: {{.Title}}</title>
  </head>
  <body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f5f5f5;">
    <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f5f5f5; padding: 40px 20px;">
      <tr>
        <td align="center">
          <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
            <tr>
              <td style="background-color: {{.Color}}; padding: 30px; text-align: center;">
                <h1 style="margin: 0; color: #ffffff; font-size: 24px;">🔔 Novo Alerta</h1>
              </td>
            </tr>
            <tr>
              <td style="padding: 40px 30px;">
                <span style="display: inline-block; padding: 6px 12px; color: {{.Color}}; border: 1px solid {{.Color}}; border-radius: 4px; font-size: 12px; font-weight: 600; text-transform: uppercase;">{{.SeverityLabel}}</span>
                <h2 style="margin: 20px 0 10px 0; color: #1a1a1a; font-size: 20px;">{{.Title}}</h2>
                <p style="margin: 0 0 20px 0; color: #666666; font-size: 14px;">Cliente: <strong>{{.ClientName}}</strong></p>
                <div style="background-color: #f9f9f9; border-left: 4px solid {{.Color}}; padding: 16px; border-radius: 4px;">
                  <p style="margin: 0; color: #333333; font-size: 15px; line-height: 1.6;">{{.Description}}</p>
                </div>
                <p style="margin: 20px 0 0 0; color: #999999; font-size: 13px;">Este é um alerta automático do Sistema de Alertas. Por favor, tome as ações necessárias.</p>
              </td>
            </tr>
            <tr>
              <td style="background-color: #f9f9f9; padding: 20px 30px; text-align: center; border-top: 1px solid #e5e5e5;">
                <p style="margin: 0; color: #999999; font-size: 12px;">© {{.Year}} Sistema de Alertas. Todos os direitos reservados.</p>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`))

// RenderEmail builds the HTML notification body for an alert snapshot.
func RenderEmail(alert AlertSnapshot) (string, error) {
	severity := models.Severity(alert.Severity)

	label, ok := severityLabels[severity]
	if !ok {
		label = severityLabels[models.SeverityMedium]
	}

	var buf bytes.Buffer
	err := emailTmpl.Execute(&buf, struct {
		Title         string
		Description   string
		ClientName    string
		Color         string
		SeverityLabel string
		Year          int
	}{
		Title:         alert.Title,
		Description:   alert.Description,
		ClientName:    alert.ClientName,
		Color:         SeverityColor(severity),
		SeverityLabel: label,
		Year:          time.Now().Year(),
	})
	if err != nil {
		return "", fmt.Errorf("rendering email template: %w", err)
	}
	return buf.String(), nil
}

// Mailer delivers rendered email bodies. The SMTP implementation is the
// real gateway; tests substitute fakes.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a configured SMTP gateway.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a mailer for the given gateway settings.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send composes an HTML MIME message and hands it to the gateway.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: \"Sistema de Alertas\" <%s>\r\n", m.cfg.From)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n"
	msg += htmlBody

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	// net/smtp has no context support; run the blocking send in a
	// goroutine so a cancelled request is not stuck behind the gateway.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
