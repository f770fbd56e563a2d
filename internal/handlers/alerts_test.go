package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vigia/internal/events"
	"vigia/internal/models"
	"vigia/internal/store"
)

func newAlertHandler(t *testing.T) (*AlertHandler, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore(store.WithResolver("Current User"))
	h := NewAlertHandler(AlertConfig{Store: s, Locale: "pt-BR"})
	return h, s
}

func seedOne(t *testing.T, s *store.MemoryStore) models.Alert {
	t.Helper()
	a, err := s.Create(models.Alert{
		ClientID:    "CLI001",
		ClientName:  "Empresa ABC Ltda",
		AlertType:   "backup_failed",
		Severity:    models.SeverityCritical,
		Title:       "Falha no Backup Diário",
		Description: "O backup automático falhou.",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return a
}

func TestListAlerts(t *testing.T) {
	h, s := newAlertHandler(t)
	seedOne(t, s)

	req := httptest.NewRequest(http.MethodGet, "/alerts?status=all&severity=all&search=", nil)
	w := httptest.NewRecorder()
	h.ServeCollection(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Alerts []models.Alert `json:"alerts"`
		Total  int            `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Total != 1 || len(resp.Alerts) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestListAlertsSearchFilter(t *testing.T) {
	h, s := newAlertHandler(t)
	seedOne(t, s)
	if _, err := s.Create(models.Alert{
		ClientID:    "CLI003",
		ClientName:  "Indústria Beta",
		AlertType:   "nfe_error",
		Severity:    models.SeverityCritical,
		Title:       "Erro no Envio de NF-e #45678",
		Description: "Falha ao enviar NF-e para SEFAZ.",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/alerts?search=nf-e", nil)
	w := httptest.NewRecorder()
	h.ServeCollection(w, req)

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("search total = %d, want 1", resp.Total)
	}
}

func TestCreateAlert(t *testing.T) {
	h, _ := newAlertHandler(t)

	body := `{
        "client_id": "CLI005",
        "client_name": "Sistema Delta",
        "alert_type": "disk_space_low",
        "severity": "medium",
        "title": "Espaço em Disco Baixo",
        "description": "Servidor com apenas 8% de espaço livre."
    }`
	req := httptest.NewRequest(http.MethodPost, "/alerts", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.ServeCollection(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool         `json:"success"`
		Alert   models.Alert `json:"alert"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Success || resp.Alert.ID == "" || resp.Alert.Status != models.StatusOpen {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCreateAlertValidation(t *testing.T) {
	h, _ := newAlertHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/alerts", bytes.NewBufferString(`{"client_id":"CLI001"}`))
	w := httptest.NewRecorder()
	h.ServeCollection(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPatchResolveStampsMetadata(t *testing.T) {
	h, s := newAlertHandler(t)
	a := seedOne(t, s)

	req := httptest.NewRequest(http.MethodPatch, "/alerts/"+a.ID, bytes.NewBufferString(`{"status":"resolved"}`))
	w := httptest.NewRecorder()
	h.ServeItem(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool         `json:"success"`
		Alert   models.Alert `json:"alert"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Alert.ResolvedBy == nil || *resp.Alert.ResolvedBy != "Current User" {
		t.Errorf("resolved_by = %v", resp.Alert.ResolvedBy)
	}
	if resp.Alert.ResolvedAt == nil {
		t.Error("resolved_at not set")
	}
}

func TestPatchAssignOnly(t *testing.T) {
	h, s := newAlertHandler(t)
	a := seedOne(t, s)

	req := httptest.NewRequest(http.MethodPatch, "/alerts/"+a.ID, bytes.NewBufferString(`{"assigned_to":"Maria Santos"}`))
	w := httptest.NewRecorder()
	h.ServeItem(w, req)

	var resp struct {
		Alert models.Alert `json:"alert"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Alert.AssignedTo == nil || *resp.Alert.AssignedTo != "Maria Santos" {
		t.Errorf("assigned_to = %v", resp.Alert.AssignedTo)
	}
	if resp.Alert.Status != models.StatusOpen {
		t.Errorf("status changed: %s", resp.Alert.Status)
	}
}

func TestPatchEmptyAssigneeRejected(t *testing.T) {
	h, s := newAlertHandler(t)
	a := seedOne(t, s)

	for _, body := range []string{`{"assigned_to":""}`, `{"assigned_to":"   "}`} {
		req := httptest.NewRequest(http.MethodPatch, "/alerts/"+a.ID, bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		h.ServeItem(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}

	// The alert is untouched
	got, err := s.Get(a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AssignedTo != nil {
		t.Errorf("assigned_to = %q, want nil", *got.AssignedTo)
	}
}

func TestPatchNotFound(t *testing.T) {
	h, _ := newAlertHandler(t)

	req := httptest.NewRequest(http.MethodPatch, "/alerts/missing", bytes.NewBufferString(`{"status":"resolved"}`))
	w := httptest.NewRecorder()
	h.ServeItem(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Success || resp.Error != "Alert not found" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}

func TestPatchInvalidTransition(t *testing.T) {
	h, s := newAlertHandler(t)
	a := seedOne(t, s)

	status := models.StatusIgnored
	if _, err := s.Update(a.ID, store.Patch{Status: &status}); err != nil {
		t.Fatalf("ignore: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/alerts/"+a.ID, bytes.NewBufferString(`{"status":"open"}`))
	w := httptest.NewRecorder()
	h.ServeItem(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteAlert(t *testing.T) {
	h, s := newAlertHandler(t)
	a := seedOne(t, s)

	req := httptest.NewRequest(http.MethodDelete, "/alerts/"+a.ID, nil)
	w := httptest.NewRecorder()
	h.ServeItem(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Success || resp.Message != "Alert deleted successfully" {
		t.Errorf("unexpected response: %+v", resp)
	}

	// Second delete is a 404
	w = httptest.NewRecorder()
	h.ServeItem(w, httptest.NewRequest(http.MethodDelete, "/alerts/"+a.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h, s := newAlertHandler(t)
	seedOne(t, s)

	req := httptest.NewRequest(http.MethodGet, "/alerts/stats", nil)
	w := httptest.NewRecorder()
	h.ServeItem(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		OpenAlerts      int    `json:"openAlerts"`
		InProgress      int    `json:"inProgress"`
		ResolvedToday   int    `json:"resolvedToday"`
		AvgResponseTime string `json:"avgResponseTime"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.OpenAlerts != 1 || resp.AvgResponseTime != "N/A" {
		t.Errorf("unexpected stats: %+v", resp)
	}
}

func TestResolveThenStatsScenario(t *testing.T) {
	// Alert created 45 minutes ago, resolved now: stats must count it as
	// resolved today and average at least 45 minutes.
	s := store.NewMemoryStore(store.WithResolver("Current User"))
	h := NewAlertHandler(AlertConfig{Store: s})

	created, err := s.Create(models.Alert{
		ClientID:    "CLI001",
		ClientName:  "Empresa ABC Ltda",
		AlertType:   "backup_failed",
		Severity:    models.SeverityCritical,
		Title:       "Falha no Backup Diário",
		Description: "Timeout.",
		CreatedAt:   time.Now().UTC().Add(-45 * time.Minute),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	w := httptest.NewRecorder()
	h.ServeItem(w, httptest.NewRequest(http.MethodPatch, "/alerts/"+created.ID, bytes.NewBufferString(`{"status":"resolved"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeItem(w, httptest.NewRequest(http.MethodGet, "/alerts/stats", nil))

	var resp struct {
		ResolvedToday   int    `json:"resolvedToday"`
		AvgResponseTime string `json:"avgResponseTime"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ResolvedToday != 1 {
		t.Errorf("resolvedToday = %d, want 1", resp.ResolvedToday)
	}
	if resp.AvgResponseTime != "45min" {
		t.Errorf("avgResponseTime = %q, want 45min", resp.AvgResponseTime)
	}
}

func TestChartEndpoint(t *testing.T) {
	h, s := newAlertHandler(t)
	seedOne(t, s) // created now -> last bucket, critical

	req := httptest.NewRequest(http.MethodGet, "/alerts/chart", nil)
	w := httptest.NewRecorder()
	h.ServeItem(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data []struct {
			Day      string `json:"day"`
			Critical int    `json:"critical"`
			Total    int    `json:"total"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data) != 7 {
		t.Fatalf("expected 7 points, got %d", len(resp.Data))
	}
	last := resp.Data[6]
	if last.Critical != 1 || last.Total != 1 {
		t.Errorf("today bucket = %+v", last)
	}
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func TestAuditActorIsResolver(t *testing.T) {
	s := store.NewMemoryStore(store.WithResolver("Current User"))
	pub := &capturingPublisher{}
	h := NewAlertHandler(AlertConfig{Store: s, Publisher: pub, Resolver: "Current User"})
	a := seedOne(t, s)

	req := httptest.NewRequest(http.MethodPatch, "/alerts/"+a.ID, bytes.NewBufferString(`{"status":"resolved"}`))
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	h.ServeItem(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(pub.published))
	}

	event := pub.published[0]
	if event.Type != events.TypeAlertResolved {
		t.Errorf("type = %q, want %q", event.Type, events.TypeAlertResolved)
	}
	if event.Actor != "Current User" {
		t.Errorf("actor = %q, want the resolver identity", event.Actor)
	}
	if event.Payload["request_id"] != "req-123" {
		t.Errorf("payload request_id = %v", event.Payload["request_id"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newAlertHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/alerts", nil)
	w := httptest.NewRecorder()
	h.ServeCollection(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
