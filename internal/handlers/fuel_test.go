package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/store"
)

func seedFuel(fuel *store.FuelStore, equipmentID string, ft models.FuelType, quantity float64, ts time.Time) models.FuelRecord {
	return fuel.Add(models.FuelRecord{
		Timestamp:   ts,
		EquipmentID: equipmentID,
		FuelType:    ft,
		Quantity:    quantity,
		Unit:        models.UnitLiters,
		Operator:    "Carlos Soto",
		Location:    "Dock 3",
	})
}

func TestFuelHandler_Create(t *testing.T) {
	t.Run("successful create", func(t *testing.T) {
		fuel := store.NewFuelStore()
		handler := NewFuelHandler(fuel)

		body, _ := json.Marshal(map[string]interface{}{
			"equipment_id": "EQ000001",
			"fuel_type":    "DIESEL",
			"quantity":     120.5,
			"unit":         "LITERS",
			"operator":     "Carlos Soto",
			"location":     "Dock 3",
		})
		req := httptest.NewRequest("POST", "/api/fuel", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Records(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var record models.FuelRecord
		err := json.Unmarshal(w.Body.Bytes(), &record)
		if err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, models.FuelDiesel, record.FuelType)
		assert.False(t, record.Timestamp.IsZero())
		assert.Equal(t, 1, fuel.Len())
	})

	t.Run("invalid fuel type", func(t *testing.T) {
		handler := NewFuelHandler(store.NewFuelStore())

		body, _ := json.Marshal(map[string]interface{}{
			"equipment_id": "EQ000001",
			"fuel_type":    "KEROSENE",
			"quantity":     10.0,
			"unit":         "LITERS",
			"operator":     "Carlos Soto",
		})
		req := httptest.NewRequest("POST", "/api/fuel", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Records(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		handler := NewFuelHandler(store.NewFuelStore())

		body, _ := json.Marshal(map[string]interface{}{
			"equipment_id": "EQ000001",
			"fuel_type":    "DIESEL",
			"quantity":     0.0,
			"unit":         "LITERS",
			"operator":     "Carlos Soto",
		})
		req := httptest.NewRequest("POST", "/api/fuel", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Records(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFuelHandler_List(t *testing.T) {
	fuel := store.NewFuelStore()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	seedFuel(fuel, "EQ000001", models.FuelDiesel, 100, base)
	seedFuel(fuel, "EQ000002", models.FuelGas, 50, base.AddDate(0, 0, 1))
	seedFuel(fuel, "EQ000001", models.FuelDiesel, 75, base.AddDate(0, 0, 2))
	handler := NewFuelHandler(fuel)

	t.Run("filter by fuel type", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/fuel?fuel_type=DIESEL", nil)
		w := httptest.NewRecorder()

		handler.Records(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var page struct {
			Items []models.FuelRecord `json:"items"`
			Total int                 `json:"total_items"`
		}
		err := json.Unmarshal(w.Body.Bytes(), &page)
		if err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Equal(t, 2, page.Total)
		for _, r := range page.Items {
			assert.Equal(t, models.FuelDiesel, r.FuelType)
		}
	})

	t.Run("filter by date range", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/fuel?from=2024-06-02&to=2024-06-03", nil)
		w := httptest.NewRecorder()

		handler.Records(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var page struct {
			Items []models.FuelRecord `json:"items"`
			Total int                 `json:"total_items"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Equal(t, 2, page.Total)
	})

	t.Run("bare to date covers the whole day", func(t *testing.T) {
		// The last record was dispensed at 12:00 on June 3.
		req := httptest.NewRequest("GET", "/api/fuel?from=2024-06-03&to=2024-06-03", nil)
		w := httptest.NewRecorder()

		handler.Records(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var page struct {
			Items []models.FuelRecord `json:"items"`
			Total int                 `json:"total_items"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, 75.0, page.Items[0].Quantity)
	})

	t.Run("search by equipment id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/fuel?search=EQ000002", nil)
		w := httptest.NewRecorder()

		handler.Records(w, req)

		var page struct {
			Items []models.FuelRecord `json:"items"`
			Total int                 `json:"total_items"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, "EQ000002", page.Items[0].EquipmentID)
	})

	t.Run("invalid fuel type filter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/fuel?fuel_type=KEROSENE", nil)
		w := httptest.NewRecorder()

		handler.Records(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFuelHandler_Export(t *testing.T) {
	fuel := store.NewFuelStore()
	seedFuel(fuel, "EQ000001", models.FuelDiesel, 100, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	handler := NewFuelHandler(fuel)

	req := httptest.NewRequest("GET", "/api/fuel/export", nil)
	w := httptest.NewRecorder()

	handler.Export(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "Date,Machine ID,Fuel Type,Quantity,Unit,Operator,Location,Notes", lines[0])
	assert.Contains(t, lines[1], "EQ000001")
}
