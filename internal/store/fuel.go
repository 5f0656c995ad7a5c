// Package store holds the in-memory record collections and their mutation
// and query operations. Each store guards its slice with a mutex since the
// HTTP server and the MQTT ingest touch them concurrently; newest records
// sit at the front, which is the display convention of the list views.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/harborops/portfleet/internal/models"
)

// FuelStore is the fuel dispensing ledger. Records are immutable once
// created; there is no update operation.
type FuelStore struct {
	mu      sync.RWMutex
	records []models.FuelRecord
}

// NewFuelStore creates an empty fuel store.
func NewFuelStore() *FuelStore {
	return &FuelStore{}
}

// Add assigns an internal id and prepends the record.
func (s *FuelStore) Add(record models.FuelRecord) models.FuelRecord {
	record.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]models.FuelRecord{record}, s.records...)
	return record
}

// Records returns a snapshot copy of the collection, newest first.
func (s *FuelStore) Records() []models.FuelRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FuelRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get looks up a record by internal id. Absent ids return false, never an
// error.
func (s *FuelStore) Get(id string) (models.FuelRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.FuelRecord{}, false
}

// Len returns the number of records.
func (s *FuelStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
