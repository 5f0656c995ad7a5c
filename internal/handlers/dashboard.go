package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/stats"
	"github.com/harborops/portfleet/internal/store"
)

const recentDocumentLimit = 5

// DashboardHandler serves the derived dashboard summary.
type DashboardHandler struct {
	fuel      *store.FuelStore
	equipment *store.EquipmentStore
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(fuel *store.FuelStore, equipment *store.EquipmentStore) *DashboardHandler {
	return &DashboardHandler{fuel: fuel, equipment: equipment}
}

type dashboardResponse struct {
	Overview        stats.Overview             `json:"overview"`
	ByMachine       []stats.MachineConsumption `json:"by_machine"`
	RecentDocuments []models.Document          `json:"recent_documents"`
}

// Overview computes the dashboard from current store snapshots. Nothing is
// cached; every request derives from scratch.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records := h.fuel.Records()
	equipments := h.equipment.Equipments()
	now := time.Now()

	resp := dashboardResponse{
		Overview:        stats.ComputeOverview(records, equipments, now),
		ByMachine:       stats.ConsumptionByMachine(records),
		RecentDocuments: stats.RecentDocuments(equipments, recentDocumentLimit),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
