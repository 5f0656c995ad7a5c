package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/harborops/portfleet/internal/models"
)

// SettingsStore persists the single settings blob.
type SettingsStore interface {
	SaveSettings(ctx context.Context, settings models.Settings) error
	LoadSettings(ctx context.Context) (models.Settings, bool, error)
}

// SettingsHandler serves the persisted user configuration.
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Settings dispatches get and save requests for the settings blob. Missing
// persisted settings fall back to defaults.
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.save(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	settings, found, err := h.store.LoadSettings(r.Context())
	if err != nil {
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	if !found {
		settings = models.DefaultSettings()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

func (h *SettingsHandler) save(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var settings models.Settings
	if err := json.Unmarshal(body, &settings); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := settings.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SaveSettings(r.Context(), settings); err != nil {
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	log.Info("Settings saved")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}
