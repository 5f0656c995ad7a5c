package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harborops/portfleet/internal/ids"
	"github.com/harborops/portfleet/internal/models"
)

// EquipmentStore is the equipment registry. Each equipment owns its
// documents and maintenance records; children are only ever appended.
type EquipmentStore struct {
	mu         sync.RWMutex
	gen        *ids.Generator
	equipments []models.Equipment
}

// NewEquipmentStore creates an empty equipment store issuing display ids
// from gen.
func NewEquipmentStore(gen *ids.Generator) *EquipmentStore {
	return &EquipmentStore{gen: gen}
}

// EquipmentUpdate carries the fields Update may merge; nil means unchanged.
type EquipmentUpdate struct {
	Type            *models.EquipmentType
	Brand           *string
	Model           *string
	SerialNumber    *string
	Year            *int
	Status          *models.EquipmentStatus
	Notes           *string
	LastMaintenance *time.Time
	NextMaintenance *time.Time
}

// Add assigns the internal id, the sequential display id and timestamps,
// initializes empty child lists and prepends the equipment.
func (s *EquipmentStore) Add(equipment models.Equipment) (models.Equipment, error) {
	displayID, err := s.gen.Generate(ids.CategoryEquipment)
	if err != nil {
		return models.Equipment{}, err
	}

	now := time.Now()
	equipment.ID = uuid.NewString()
	equipment.EquipmentID = displayID
	equipment.Documents = []models.Document{}
	equipment.MaintenanceRecords = []models.MaintenanceRecord{}
	equipment.CreatedAt = now
	equipment.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipments = append([]models.Equipment{equipment}, s.equipments...)
	return equipment, nil
}

// Update merges the given fields into the matching equipment and refreshes
// UpdatedAt. Absent ids are a silent no-op reported by the bool.
func (s *EquipmentStore) Update(id string, update EquipmentUpdate) (models.Equipment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.equipments {
		if s.equipments[i].ID != id {
			continue
		}
		eq := &s.equipments[i]
		if update.Type != nil {
			eq.Type = *update.Type
		}
		if update.Brand != nil {
			eq.Brand = *update.Brand
		}
		if update.Model != nil {
			eq.Model = *update.Model
		}
		if update.SerialNumber != nil {
			eq.SerialNumber = *update.SerialNumber
		}
		if update.Year != nil {
			eq.Year = *update.Year
		}
		if update.Status != nil {
			eq.Status = *update.Status
		}
		if update.Notes != nil {
			eq.Notes = *update.Notes
		}
		if update.LastMaintenance != nil {
			eq.LastMaintenance = update.LastMaintenance
		}
		if update.NextMaintenance != nil {
			eq.NextMaintenance = update.NextMaintenance
		}
		eq.UpdatedAt = time.Now()
		return *eq, true
	}
	return models.Equipment{}, false
}

// Get looks up equipment by internal id.
func (s *EquipmentStore) Get(id string) (models.Equipment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, eq := range s.equipments {
		if eq.ID == id {
			return eq, true
		}
	}
	return models.Equipment{}, false
}

// GetByDisplayID looks up equipment by its sequential display id.
func (s *EquipmentStore) GetByDisplayID(displayID string) (models.Equipment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, eq := range s.equipments {
		if eq.EquipmentID == displayID {
			return eq, true
		}
	}
	return models.Equipment{}, false
}

// Equipments returns a snapshot copy of the collection, newest first.
func (s *EquipmentStore) Equipments() []models.Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Equipment, len(s.equipments))
	copy(out, s.equipments)
	return out
}

// AddDocument appends a document to the equipment matching the display id.
// Unknown display ids are absorbed as a no-op (stale references from forms
// must not fail the store); the bool lets callers surface not-found.
func (s *EquipmentStore) AddDocument(displayID string, doc models.Document) bool {
	now := time.Now()
	doc.ID = uuid.NewString()
	doc.EquipmentID = displayID
	doc.CreatedAt = now
	doc.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.equipments {
		if s.equipments[i].EquipmentID != displayID {
			continue
		}
		s.equipments[i].Documents = append(s.equipments[i].Documents, doc)
		s.equipments[i].UpdatedAt = now
		return true
	}
	return false
}

// AddMaintenance appends a maintenance record to the equipment matching the
// display id and overwrites the parent's last/next maintenance dates, last
// write wins with no ordering validation against prior records.
func (s *EquipmentStore) AddMaintenance(displayID string, record models.MaintenanceRecord) bool {
	now := time.Now()
	record.ID = uuid.NewString()
	record.EquipmentID = displayID
	record.CreatedAt = now
	record.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.equipments {
		if s.equipments[i].EquipmentID != displayID {
			continue
		}
		eq := &s.equipments[i]
		eq.MaintenanceRecords = append(eq.MaintenanceRecords, record)
		date := record.Date
		eq.LastMaintenance = &date
		eq.NextMaintenance = record.NextMaintenanceDate
		eq.UpdatedAt = now
		return true
	}
	return false
}
