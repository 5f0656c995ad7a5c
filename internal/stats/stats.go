// Package stats holds the pure derivation functions behind the dashboard
// cards, fuel charts and status badges. Everything here recomputes from a
// store snapshot and an explicit clock; nothing caches.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/harborops/portfleet/internal/models"
)

// ExpiryStatus classifies a document against its expiry date.
type ExpiryStatus string

const (
	ExpiryExpired      ExpiryStatus = "EXPIRED"
	ExpiryExpiringSoon ExpiryStatus = "EXPIRING_SOON"
	ExpiryActive       ExpiryStatus = "ACTIVE"
)

// DueStatus classifies equipment against its next maintenance date.
type DueStatus string

const (
	DueOverdue  DueStatus = "OVERDUE"
	DueSoon     DueStatus = "DUE_SOON"
	DueUpToDate DueStatus = "UP_TO_DATE"
)

const (
	// ExpiringSoonWindow is the lookahead for flagging documents nearing expiry.
	ExpiringSoonWindow = 30 * 24 * time.Hour
	// DueSoonDays is the lookahead for flagging maintenance nearing its date.
	DueSoonDays = 7
)

// MachineConsumption aggregates fuel quantities per equipment reference.
type MachineConsumption struct {
	EquipmentID string  `json:"equipment_id"`
	Diesel      float64 `json:"diesel"`
	Gas         float64 `json:"gas"`
}

// TotalByFuelType sums quantities over records of one fuel type. Quantities
// are summed as recorded; LITERS and GALLONS are never converted.
func TotalByFuelType(records []models.FuelRecord, typ models.FuelType) float64 {
	var total float64
	for _, r := range records {
		if r.FuelType == typ {
			total += r.Quantity
		}
	}
	return total
}

// ConsumptionByMachine groups fuel quantities by equipment reference.
// Output order is first-appearance order of each equipment id.
func ConsumptionByMachine(records []models.FuelRecord) []MachineConsumption {
	index := make(map[string]int)
	var out []MachineConsumption
	for _, r := range records {
		i, ok := index[r.EquipmentID]
		if !ok {
			i = len(out)
			index[r.EquipmentID] = i
			out = append(out, MachineConsumption{EquipmentID: r.EquipmentID})
		}
		if r.FuelType == models.FuelDiesel {
			out[i].Diesel += r.Quantity
		} else {
			out[i].Gas += r.Quantity
		}
	}
	return out
}

// ClassifyExpiry classifies an expiry date against now. A nil expiry date
// never expires.
func ClassifyExpiry(expiry *time.Time, now time.Time) ExpiryStatus {
	if expiry == nil {
		return ExpiryActive
	}
	if expiry.Before(now) {
		return ExpiryExpired
	}
	if expiry.Before(now.Add(ExpiringSoonWindow)) {
		return ExpiryExpiringSoon
	}
	return ExpiryActive
}

// daysUntil is the ceiling of the distance from now to t in 24-hour days.
func daysUntil(t, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// ClassifyMaintenanceDue classifies a next-maintenance date against now.
// The second return is false when no date is set, in which case no badge
// is rendered.
func ClassifyMaintenanceDue(next *time.Time, now time.Time) (DueStatus, bool) {
	if next == nil {
		return "", false
	}
	days := daysUntil(*next, now)
	switch {
	case days <= 0:
		return DueOverdue, true
	case days <= DueSoonDays:
		return DueSoon, true
	default:
		return DueUpToDate, true
	}
}

// ExpiringDocumentCount counts documents across all equipment whose expiry
// falls within the 30-day window, strictly excluding already-expired and
// exactly-today-or-past dates.
func ExpiringDocumentCount(equipments []models.Equipment, now time.Time) int {
	count := 0
	for _, eq := range equipments {
		for _, doc := range eq.Documents {
			if doc.ExpiryDate == nil {
				continue
			}
			days := daysUntil(*doc.ExpiryDate, now)
			if days > 0 && days <= 30 {
				count++
			}
		}
	}
	return count
}

// RecentDocuments returns all documents across all equipment sorted by
// creation time, newest first, truncated to limit.
func RecentDocuments(equipments []models.Equipment, limit int) []models.Document {
	var docs []models.Document
	for _, eq := range equipments {
		docs = append(docs, eq.Documents...)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs
}

// Overview bundles the dashboard headline numbers.
type Overview struct {
	TotalDiesel       float64 `json:"total_diesel"`
	TotalGas          float64 `json:"total_gas"`
	TotalMachines     int     `json:"total_machines"`
	TotalEquipment    int     `json:"total_equipment"`
	ActiveEquipment   int     `json:"active_equipment"`
	ExpiringDocuments int     `json:"expiring_documents"`
}

// ComputeOverview derives the dashboard summary from store snapshots.
func ComputeOverview(records []models.FuelRecord, equipments []models.Equipment, now time.Time) Overview {
	machines := make(map[string]struct{})
	for _, r := range records {
		machines[r.EquipmentID] = struct{}{}
	}
	active := 0
	for _, eq := range equipments {
		if eq.Status == models.EquipmentActive {
			active++
		}
	}
	return Overview{
		TotalDiesel:       TotalByFuelType(records, models.FuelDiesel),
		TotalGas:          TotalByFuelType(records, models.FuelGas),
		TotalMachines:     len(machines),
		TotalEquipment:    len(equipments),
		ActiveEquipment:   active,
		ExpiringDocuments: ExpiringDocumentCount(equipments, now),
	}
}
