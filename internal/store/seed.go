package store

import (
	"time"

	"github.com/google/uuid"

	"vigia/internal/models"
)

func strptr(s string) *string { return &s }

// Seed loads the sample alert set used in environments without a real
// ingestion pipeline: the current working set plus a trailing week of
// resolved alerts so the chart has data.
func (s *MemoryStore) Seed() {
	now := s.now().UTC()

	seed := []models.Alert{
		{
			ClientID:    "CLI001",
			ClientName:  "Empresa ABC Ltda",
			AlertType:   "backup_failed",
			Severity:    models.SeverityCritical,
			Title:       "Falha no Backup Diário",
			Description: "O backup automático falhou às 03:00. Erro: Timeout na conexão com o servidor de backup.",
			Status:      models.StatusOpen,
			CreatedAt:   now.Add(-2 * time.Hour),
		},
		{
			ClientID:    "CLI002",
			ClientName:  "Comércio XYZ",
			AlertType:   "stock_zero",
			Severity:    models.SeverityHigh,
			Title:       "Estoque Zerado - Produto #1234",
			Description: "O produto \"Notebook Dell Inspiron 15\" está com estoque zerado.",
			Status:      models.StatusOpen,
			CreatedAt:   now.Add(-1 * time.Hour),
			AssignedTo:  strptr("João Silva"),
		},
		{
			ClientID:    "CLI003",
			ClientName:  "Indústria Beta",
			AlertType:   "nfe_error",
			Severity:    models.SeverityCritical,
			Title:       "Erro no Envio de NF-e #45678",
			Description: "Falha ao enviar NF-e para SEFAZ. Erro: Certificado digital expirado.",
			Status:      models.StatusInProgress,
			CreatedAt:   now.Add(-30 * time.Minute),
			AssignedTo:  strptr("Maria Santos"),
		},
		{
			ClientID:    "CLI001",
			ClientName:  "Empresa ABC Ltda",
			AlertType:   "db_connection_error",
			Severity:    models.SeverityCritical,
			Title:       "Falha na Conexão com Banco de Dados",
			Description: "Não foi possível conectar ao banco de dados principal.",
			Status:      models.StatusResolved,
			CreatedAt:   now.Add(-5 * time.Hour),
			AssignedTo:  strptr("Admin"),
			ResolvedBy:  strptr("Admin"),
			ResolvedAt:  timeptr(now.Add(-4 * time.Hour)),
		},
		{
			ClientID:    "CLI004",
			ClientName:  "Loja Virtual Gama",
			AlertType:   "high_error_rate",
			Severity:    models.SeverityHigh,
			Title:       "Taxa de Erro Elevada na API",
			Description: "Detectados 127 erros na última hora na API de pagamentos.",
			Status:      models.StatusOpen,
			CreatedAt:   now.Add(-15 * time.Minute),
		},
		{
			ClientID:    "CLI005",
			ClientName:  "Sistema Delta",
			AlertType:   "disk_space_low",
			Severity:    models.SeverityMedium,
			Title:       "Espaço em Disco Baixo",
			Description: "Servidor com apenas 8% de espaço livre.",
			Status:      models.StatusResolved,
			CreatedAt:   now.Add(-3 * time.Hour),
			AssignedTo:  strptr("Pedro Costa"),
			ResolvedBy:  strptr("Pedro Costa"),
			ResolvedAt:  timeptr(now.Add(-2 * time.Hour)),
		},
		{
			ClientID:    "CLI002",
			ClientName:  "Comércio XYZ",
			AlertType:   "api_slow",
			Severity:    models.SeverityMedium,
			Title:       "API com Resposta Lenta",
			Description: "Tempo médio de resposta acima de 3 segundos.",
			Status:      models.StatusResolved,
			CreatedAt:   now.Add(-6 * time.Hour),
			AssignedTo:  strptr("Ana Lima"),
			ResolvedBy:  strptr("Ana Lima"),
			ResolvedAt:  timeptr(now.Add(-5 * time.Hour)),
		},
	}

	// Resolved alerts over the previous six days, one set per day, so the
	// weekly chart is populated out of the box.
	history := []struct {
		daysAgo  int
		severity models.Severity
	}{
		{1, models.SeverityCritical},
		{1, models.SeverityHigh},
		{2, models.SeverityCritical},
		{2, models.SeverityHigh},
		{3, models.SeverityCritical},
		{3, models.SeverityHigh},
		{3, models.SeverityMedium},
		{4, models.SeverityCritical},
		{4, models.SeverityHigh},
		{5, models.SeverityCritical},
		{5, models.SeverityHigh},
		{6, models.SeverityMedium},
	}

	for _, h := range history {
		createdAt := now.AddDate(0, 0, -h.daysAgo)
		seed = append(seed, models.Alert{
			ClientID:    "CLI001",
			ClientName:  "Empresa ABC Ltda",
			AlertType:   "monitoring",
			Severity:    h.severity,
			Title:       "Alerta de Monitoramento",
			Description: "Alerta histórico resolvido pela equipe de plantão.",
			Status:      models.StatusResolved,
			CreatedAt:   createdAt,
			ResolvedBy:  strptr("Plantão"),
			ResolvedAt:  timeptr(createdAt.Add(45 * time.Minute)),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range seed {
		a.ID = uuid.New().String()
		s.alerts = append(s.alerts, a)
	}
}

func timeptr(t time.Time) *time.Time { return &t }
