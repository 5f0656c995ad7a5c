package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/stats"
)

func TestDocumentsHandler_List(t *testing.T) {
	equipment := newTestEquipmentStore(t)
	crane := seedEquipment(t, equipment)
	forklift, err := equipment.Add(models.Equipment{
		Type:   models.EquipmentForklift,
		Brand:  "Toyota",
		Model:  "8FG25",
		Status: models.EquipmentActive,
	})
	if err != nil {
		t.Fatalf("Failed to seed equipment: %v", err)
	}

	pastExpiry := time.Now().AddDate(0, 0, -30)
	farExpiry := time.Now().AddDate(1, 0, 0)
	if !equipment.AddDocument(crane.EquipmentID, models.Document{
		Type:       models.DocInsurance,
		Number:     "INS-2024-001",
		IssueDate:  time.Now().AddDate(-1, 0, 0),
		ExpiryDate: &pastExpiry,
		Status:     models.DocumentExpired,
	}) {
		t.Fatal("Failed to attach document")
	}
	if !equipment.AddDocument(forklift.EquipmentID, models.Document{
		Type:       models.DocTechnicalReview,
		Number:     "TR-2024-117",
		IssueDate:  time.Now(),
		ExpiryDate: &farExpiry,
		Status:     models.DocumentActive,
	}) {
		t.Fatal("Failed to attach document")
	}
	handler := NewDocumentsHandler(equipment)

	type page struct {
		Items []documentView `json:"items"`
		Total int            `json:"total_items"`
	}
	decode := func(t *testing.T, w *httptest.ResponseRecorder) page {
		t.Helper()
		var p page
		if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		return p
	}

	t.Run("lists all documents with expiry badges", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/documents", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		p := decode(t, w)
		assert.Equal(t, 2, p.Total)
		byNumber := map[string]stats.ExpiryStatus{}
		for _, v := range p.Items {
			byNumber[v.Number] = v.ExpiryStatus
		}
		assert.Equal(t, stats.ExpiryExpired, byNumber["INS-2024-001"])
		assert.Equal(t, stats.ExpiryActive, byNumber["TR-2024-117"])
	})

	t.Run("search by document number", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/documents?search=ins-2024", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		p := decode(t, w)
		assert.Equal(t, 1, p.Total)
		assert.Equal(t, "INS-2024-001", p.Items[0].Number)
	})

	t.Run("search by equipment id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/documents?search="+forklift.EquipmentID, nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		p := decode(t, w)
		assert.Equal(t, 1, p.Total)
		assert.Equal(t, forklift.EquipmentID, p.Items[0].EquipmentID)
	})

	t.Run("filter by type", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/documents?type=TECHNICAL_REVIEW", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		p := decode(t, w)
		assert.Equal(t, 1, p.Total)
		assert.Equal(t, models.DocTechnicalReview, p.Items[0].Type)
	})

	t.Run("invalid type filter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/documents?type=PASSPORT", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/documents", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
