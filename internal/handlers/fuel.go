package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harborops/portfleet/internal/export"
	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/query"
	"github.com/harborops/portfleet/internal/store"
)

// FuelHandler serves the fuel dispensing ledger.
type FuelHandler struct {
	fuel *store.FuelStore
}

// NewFuelHandler creates a new fuel handler
func NewFuelHandler(fuel *store.FuelStore) *FuelHandler {
	return &FuelHandler{fuel: fuel}
}

// Records dispatches list and create requests for fuel records.
func (h *FuelHandler) Records(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FuelHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := fuelFilterFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filtered := query.FilterFuelRecords(h.fuel.Records(), filter)
	page := query.Paginate(filtered, pageParam(r), query.DefaultPageSize)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

func (h *FuelHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Timestamp   *time.Time      `json:"timestamp"`
		EquipmentID string          `json:"equipment_id"`
		FuelType    models.FuelType `json:"fuel_type"`
		Quantity    float64         `json:"quantity"`
		Unit        models.FuelUnit `json:"unit"`
		Operator    string          `json:"operator"`
		Location    string          `json:"location"`
		Notes       string          `json:"notes"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.EquipmentID == "" || req.Operator == "" {
		http.Error(w, "Equipment ID and operator are required", http.StatusBadRequest)
		return
	}
	if !models.IsValidFuelType(req.FuelType) {
		http.Error(w, "Invalid fuel type", http.StatusBadRequest)
		return
	}
	if !models.IsValidFuelUnit(req.Unit) {
		http.Error(w, "Invalid fuel unit", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "Quantity must be positive", http.StatusBadRequest)
		return
	}

	record := models.FuelRecord{
		Timestamp:   time.Now().UTC(),
		EquipmentID: req.EquipmentID,
		FuelType:    req.FuelType,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Operator:    req.Operator,
		Location:    req.Location,
		Notes:       req.Notes,
	}
	if req.Timestamp != nil {
		record.Timestamp = *req.Timestamp
	}

	record = h.fuel.Add(record)

	log.WithFields(log.Fields{
		"equipment_id": record.EquipmentID,
		"fuel_type":    record.FuelType,
		"quantity":     record.Quantity,
	}).Info("Fuel record created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

// Export streams the current filtered view of the ledger as CSV.
func (h *FuelHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter, err := fuelFilterFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	filtered := query.FilterFuelRecords(h.fuel.Records(), filter)

	filename := export.FuelExportFilename(time.Now().UTC())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteFuelCSV(w, filtered); err != nil {
		log.WithError(err).Error("Failed to write CSV export")
	}
}

func fuelFilterFromRequest(r *http.Request) (query.FuelFilter, error) {
	q := r.URL.Query()
	filter := query.FuelFilter{Query: q.Get("search")}

	if ft := q.Get("fuel_type"); ft != "" {
		if !models.IsValidFuelType(models.FuelType(ft)) {
			return query.FuelFilter{}, fmt.Errorf("invalid fuel type: %s", ft)
		}
		filter.FuelType = models.FuelType(ft)
	}

	var err error
	if filter.From, err = dateParam(q.Get("from"), false); err != nil {
		return query.FuelFilter{}, err
	}
	if filter.To, err = dateParam(q.Get("to"), true); err != nil {
		return query.FuelFilter{}, err
	}
	return filter, nil
}

// dateParam accepts an RFC 3339 timestamp or a bare date. Bare dates mark
// day boundaries: start of day for lower bounds, end of day for upper
// bounds, so to=2024-06-03 keeps records from anywhere within that day.
func dateParam(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", v)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func pageParam(r *http.Request) int {
	v := r.URL.Query().Get("page")
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 1
	}
	return n
}
