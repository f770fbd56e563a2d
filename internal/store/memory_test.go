package store

import (
	"errors"
	"testing"
	"time"

	"vigia/internal/models"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(WithResolver("Current User"))

	alerts := []models.Alert{
		{
			ClientID:    "CLI001",
			ClientName:  "Empresa ABC Ltda",
			AlertType:   "backup_failed",
			Severity:    models.SeverityCritical,
			Title:       "Falha no Backup Diário",
			Description: "Timeout na conexão com o servidor de backup.",
			Status:      models.StatusOpen,
		},
		{
			ClientID:    "CLI003",
			ClientName:  "Indústria Beta",
			AlertType:   "nfe_error",
			Severity:    models.SeverityCritical,
			Title:       "Erro no Envio de NF-e #45678",
			Description: "Falha ao enviar NF-e para SEFAZ.",
			Status:      models.StatusInProgress,
		},
		{
			ClientID:    "CLI004",
			ClientName:  "Loja Virtual Gama",
			AlertType:   "high_error_rate",
			Severity:    models.SeverityHigh,
			Title:       "Taxa de Erro Elevada na API",
			Description: "Detectados 127 erros na última hora.",
			Status:      models.StatusOpen,
		},
	}
	for _, a := range alerts {
		if _, err := s.Create(a); err != nil {
			t.Fatalf("seed create: %v", err)
		}
	}
	return s
}

func TestListNoFilterReturnsAllInOrder(t *testing.T) {
	s := newTestStore(t)

	got := s.List(Filter{Status: "all", Severity: "all", Search: ""})
	if len(got) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(got))
	}

	wantTitles := []string{
		"Falha no Backup Diário",
		"Erro no Envio de NF-e #45678",
		"Taxa de Erro Elevada na API",
	}
	for i, want := range wantTitles {
		if got[i].Title != want {
			t.Errorf("alert %d: got %q, want %q (insertion order)", i, got[i].Title, want)
		}
	}
}

func TestListFiltersCompose(t *testing.T) {
	s := newTestStore(t)

	got := s.List(Filter{Status: "open", Severity: "critical"})
	if len(got) != 1 || got[0].AlertType != "backup_failed" {
		t.Errorf("AND composition failed: %+v", got)
	}
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)

	for _, q := range []string{"NF-e", "nf-e", "NF-E"} {
		got := s.List(Filter{Search: q})
		if len(got) != 1 || got[0].AlertType != "nfe_error" {
			t.Errorf("search %q: got %d results", q, len(got))
		}
	}

	// Matches client name and description, not only title
	if got := s.List(Filter{Search: "indústria"}); len(got) != 1 {
		t.Errorf("client name search: got %d results", len(got))
	}
	if got := s.List(Filter{Search: "sefaz"}); len(got) != 1 {
		t.Errorf("description search: got %d results", len(got))
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateResolveStampsAndPartialPatch(t *testing.T) {
	s := newTestStore(t)
	alerts := s.List(Filter{})
	id := alerts[0].ID

	status := models.StatusResolved
	updated, err := s.Update(id, Patch{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.ResolvedBy == nil || *updated.ResolvedBy != "Current User" {
		t.Errorf("resolved_by not stamped: %v", updated.ResolvedBy)
	}
	if updated.ResolvedAt == nil {
		t.Error("resolved_at not stamped")
	}

	// Assignment patch leaves status untouched
	assignee := "João Silva"
	updated, err = s.Update(id, Patch{AssignedTo: &assignee})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.StatusResolved {
		t.Errorf("status changed by assignment patch: %s", updated.Status)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != "João Silva" {
		t.Errorf("assigned_to not applied: %v", updated.AssignedTo)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestStore(t)
	status := models.StatusResolved
	if _, err := s.Update("missing", Patch{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	alerts := s.List(Filter{})
	id := alerts[1].ID

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 alerts after delete, got %d", s.Len())
	}
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Error("deleted alert still retrievable")
	}
	if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestCreateFillsDefaults(t *testing.T) {
	s := NewMemoryStore()
	created, err := s.Create(models.Alert{
		ClientID:    "CLI009",
		ClientName:  "Nova Empresa",
		AlertType:   "disk_space_low",
		Severity:    models.SeverityMedium,
		Title:       "Espaço em Disco Baixo",
		Description: "8% livre.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("id not assigned")
	}
	if created.Status != models.StatusOpen {
		t.Errorf("status = %s, want open", created.Status)
	}
	if created.CreatedAt.IsZero() {
		t.Error("created_at not assigned")
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Create(models.Alert{ClientID: "CLI001"}); err == nil {
		t.Error("expected validation error")
	}
}

func TestSeedPopulatesChartHistory(t *testing.T) {
	s := NewMemoryStore(WithClock(func() time.Time {
		return time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)
	}))
	s.Seed()

	if s.Len() == 0 {
		t.Fatal("seed produced no alerts")
	}
	for _, a := range s.List(Filter{}) {
		if err := a.Validate(); err != nil {
			t.Errorf("seeded alert %q invalid: %v", a.Title, err)
		}
	}
}
