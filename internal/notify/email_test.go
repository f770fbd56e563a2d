package notify

import (
	"strings"
	"testing"

	"vigia/internal/models"
)

func TestSeverityColorTotal(t *testing.T) {
	tests := []struct {
		severity models.Severity
		want     string
	}{
		{models.SeverityCritical, "#dc2626"},
		{models.SeverityHigh, "#f59e0b"},
		{models.SeverityMedium, "#3b82f6"},
		{models.SeverityLow, "#10b981"},
		{models.Severity("bogus"), "#3b82f6"}, // defaults to medium
		{models.Severity(""), "#3b82f6"},
	}
	for _, tt := range tests {
		if got := SeverityColor(tt.severity); got != tt.want {
			t.Errorf("SeverityColor(%q) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestRenderEmail(t *testing.T) {
	body, err := RenderEmail(AlertSnapshot{
		Title:       "Falha no Backup Diário",
		Description: "O backup automático falhou às 03:00.",
		Severity:    "critical",
		ClientName:  "Empresa ABC Ltda",
	})
	if err != nil {
		t.Fatalf("RenderEmail: %v", err)
	}

	for _, want := range []string{
		"Falha no Backup Diário",
		"Empresa ABC Ltda",
		"O backup automático falhou às 03:00.",
		"#dc2626",
		"Crítica",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRenderEmailEscapesHTML(t *testing.T) {
	body, err := RenderEmail(AlertSnapshot{
		Title:       "<script>alert(1)</script>",
		Description: "desc",
		Severity:    "high",
		ClientName:  "client",
	})
	if err != nil {
		t.Fatalf("RenderEmail: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("title not escaped")
	}
}

func TestRenderEmailUnknownSeverityUsesMediumAccent(t *testing.T) {
	body, err := RenderEmail(AlertSnapshot{
		Title:       "t",
		Description: "d",
		Severity:    "weird",
		ClientName:  "c",
	})
	if err != nil {
		t.Fatalf("RenderEmail: %v", err)
	}
	if !strings.Contains(body, "#3b82f6") {
		t.Error("unknown severity should use the medium accent color")
	}
}

func TestWhatsAppText(t *testing.T) {
	text := WhatsAppText(AlertSnapshot{
		Title:       "Estoque Zerado",
		Description: "Produto sem estoque.",
		Severity:    "high",
		ClientName:  "Comércio XYZ",
	})
	for _, want := range []string{"high", "Estoque Zerado", "Comércio XYZ", "Produto sem estoque."} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
}
