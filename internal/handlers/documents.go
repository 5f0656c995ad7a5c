package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/query"
	"github.com/harborops/portfleet/internal/stats"
	"github.com/harborops/portfleet/internal/store"
)

// DocumentsHandler serves the flattened document registry across all
// equipment.
type DocumentsHandler struct {
	equipment *store.EquipmentStore
}

// NewDocumentsHandler creates a new documents handler
func NewDocumentsHandler(equipment *store.EquipmentStore) *DocumentsHandler {
	return &DocumentsHandler{equipment: equipment}
}

// documentView decorates a document with the read-time expiry badge.
type documentView struct {
	models.Document
	ExpiryStatus stats.ExpiryStatus `json:"expiry_status"`
}

// List flattens documents across all equipment, newest first, with search
// and type filters and pagination.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	search := q.Get("search")

	var docType models.DocumentType
	if t := q.Get("type"); t != "" {
		if !models.IsValidDocumentType(models.DocumentType(t)) {
			http.Error(w, fmt.Sprintf("invalid document type: %s", t), http.StatusBadRequest)
			return
		}
		docType = models.DocumentType(t)
	}

	docs := stats.RecentDocuments(h.equipment.Equipments(), 0)

	now := time.Now()
	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		if !query.MatchDocument(doc, search) {
			continue
		}
		if docType != "" && doc.Type != docType {
			continue
		}
		views = append(views, documentView{
			Document:     doc,
			ExpiryStatus: stats.ClassifyExpiry(doc.ExpiryDate, now),
		})
	}

	page := query.Paginate(views, pageParam(r), query.DefaultPageSize)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}
