package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harborops/portfleet/internal/middleware"
	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/query"
	"github.com/harborops/portfleet/internal/stats"
	"github.com/harborops/portfleet/internal/store"
)

// EquipmentHandler serves the equipment registry and its owned documents
// and maintenance records.
type EquipmentHandler struct {
	equipment *store.EquipmentStore
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(equipment *store.EquipmentStore) *EquipmentHandler {
	return &EquipmentHandler{equipment: equipment}
}

// equipmentView decorates equipment with the read-time maintenance badge.
type equipmentView struct {
	models.Equipment
	MaintenanceStatus stats.DueStatus `json:"maintenance_status,omitempty"`
}

func viewOf(eq models.Equipment, now time.Time) equipmentView {
	view := equipmentView{Equipment: eq}
	if status, ok := stats.ClassifyMaintenanceDue(eq.NextMaintenance, now); ok {
		view.MaintenanceStatus = status
	}
	return view
}

// Collection dispatches list and create requests for equipment.
func (h *EquipmentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *EquipmentHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := query.EquipmentFilter{Query: q.Get("search")}

	if t := q.Get("type"); t != "" {
		if !models.IsValidEquipmentType(models.EquipmentType(t)) {
			http.Error(w, fmt.Sprintf("invalid equipment type: %s", t), http.StatusBadRequest)
			return
		}
		filter.Type = models.EquipmentType(t)
	}
	if s := q.Get("status"); s != "" {
		if !models.IsValidEquipmentStatus(models.EquipmentStatus(s)) {
			http.Error(w, fmt.Sprintf("invalid equipment status: %s", s), http.StatusBadRequest)
			return
		}
		filter.Status = models.EquipmentStatus(s)
	}

	filtered := query.FilterEquipment(h.equipment.Equipments(), filter)

	now := time.Now()
	views := make([]equipmentView, 0, len(filtered))
	for _, eq := range filtered {
		views = append(views, viewOf(eq, now))
	}
	page := query.Paginate(views, pageParam(r), query.DefaultPageSize)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

func (h *EquipmentHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Type         models.EquipmentType   `json:"type"`
		Brand        string                 `json:"brand"`
		Model        string                 `json:"model"`
		SerialNumber string                 `json:"serial_number"`
		Year         int                    `json:"year"`
		Status       models.EquipmentStatus `json:"status"`
		Notes        string                 `json:"notes"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !models.IsValidEquipmentType(req.Type) {
		http.Error(w, "Invalid equipment type", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = models.EquipmentActive
	}
	if !models.IsValidEquipmentStatus(req.Status) {
		http.Error(w, "Invalid equipment status", http.StatusBadRequest)
		return
	}
	if req.Brand == "" || req.Model == "" {
		http.Error(w, "Brand and model are required", http.StatusBadRequest)
		return
	}

	equipment, err := h.equipment.Add(models.Equipment{
		Type:         req.Type,
		Brand:        req.Brand,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		Year:         req.Year,
		Status:       req.Status,
		Notes:        req.Notes,
	})
	if err != nil {
		http.Error(w, "Failed to create equipment", http.StatusInternalServerError)
		return
	}

	log.WithField("equipment_id", equipment.EquipmentID).Info("Equipment registered")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(equipment)
}

// Item dispatches get and update requests for a single equipment, addressed
// by internal id.
func (h *EquipmentHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	switch r.Method {
	case http.MethodGet:
		equipment, ok := h.equipment.Get(id)
		if !ok {
			http.Error(w, "Equipment not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(viewOf(equipment, time.Now()))
	case http.MethodPut:
		h.update(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *EquipmentHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Type         *models.EquipmentType   `json:"type"`
		Brand        *string                 `json:"brand"`
		Model        *string                 `json:"model"`
		SerialNumber *string                 `json:"serial_number"`
		Year         *int                    `json:"year"`
		Status       *models.EquipmentStatus `json:"status"`
		Notes        *string                 `json:"notes"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Type != nil && !models.IsValidEquipmentType(*req.Type) {
		http.Error(w, "Invalid equipment type", http.StatusBadRequest)
		return
	}
	if req.Status != nil && !models.IsValidEquipmentStatus(*req.Status) {
		http.Error(w, "Invalid equipment status", http.StatusBadRequest)
		return
	}

	equipment, ok := h.equipment.Update(id, store.EquipmentUpdate{
		Type:         req.Type,
		Brand:        req.Brand,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		Year:         req.Year,
		Status:       req.Status,
		Notes:        req.Notes,
	})
	if !ok {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(equipment)
}

// AddDocument attaches a document to the equipment addressed by display id.
func (h *EquipmentHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	displayID := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Type       models.DocumentType `json:"type"`
		Number     string              `json:"number"`
		IssueDate  time.Time           `json:"issue_date"`
		ExpiryDate *time.Time          `json:"expiry_date"`
		FileURL    string              `json:"file_url"`
		Notes      string              `json:"notes"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !models.IsValidDocumentType(req.Type) {
		http.Error(w, "Invalid document type", http.StatusBadRequest)
		return
	}
	if req.Number == "" {
		http.Error(w, "Document number is required", http.StatusBadRequest)
		return
	}

	// Status is fixed at creation; expiry badges are derived at read time.
	status := models.DocumentActive
	if req.ExpiryDate != nil && req.ExpiryDate.Before(time.Now()) {
		status = models.DocumentExpired
	}

	createdBy := ""
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		createdBy = claims.UserID
	}

	doc := models.Document{
		Type:       req.Type,
		Number:     req.Number,
		IssueDate:  req.IssueDate,
		ExpiryDate: req.ExpiryDate,
		Status:     status,
		FileURL:    req.FileURL,
		Notes:      req.Notes,
		CreatedBy:  createdBy,
	}
	if !h.equipment.AddDocument(displayID, doc) {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}

	equipment, _ := h.equipment.GetByDisplayID(displayID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(equipment)
}

// AddMaintenance attaches a maintenance record to the equipment addressed
// by display id.
func (h *EquipmentHandler) AddMaintenance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	displayID := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Type                models.MaintenanceType   `json:"type"`
		Date                time.Time                `json:"date"`
		Description         string                   `json:"description"`
		Technician          string                   `json:"technician"`
		Cost                float64                  `json:"cost"`
		Status              models.MaintenanceStatus `json:"status"`
		NextMaintenanceDate *time.Time               `json:"next_maintenance_date"`
		Notes               string                   `json:"notes"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !models.IsValidMaintenanceType(req.Type) {
		http.Error(w, "Invalid maintenance type", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = models.MaintenanceScheduled
	}
	if !models.IsValidMaintenanceStatus(req.Status) {
		http.Error(w, "Invalid maintenance status", http.StatusBadRequest)
		return
	}
	if req.Cost < 0 {
		http.Error(w, "Cost must be non-negative", http.StatusBadRequest)
		return
	}

	record := models.MaintenanceRecord{
		Type:                req.Type,
		Date:                req.Date,
		Description:         req.Description,
		Technician:          req.Technician,
		Cost:                req.Cost,
		Status:              req.Status,
		NextMaintenanceDate: req.NextMaintenanceDate,
		Notes:               req.Notes,
	}
	if !h.equipment.AddMaintenance(displayID, record) {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}

	equipment, _ := h.equipment.GetByDisplayID(displayID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(equipment)
}
