package models

import (
	"time"
)

// EquipmentType classifies a piece of port equipment.
type EquipmentType string

const (
	EquipmentCrane    EquipmentType = "CRANE"
	EquipmentForklift EquipmentType = "FORKLIFT"
	EquipmentTruck    EquipmentType = "TRUCK"
	EquipmentLoader   EquipmentType = "LOADER"
	EquipmentOther    EquipmentType = "OTHER"
)

// EquipmentStatus is the operational state of a piece of equipment.
type EquipmentStatus string

const (
	EquipmentActive      EquipmentStatus = "ACTIVE"
	EquipmentMaintenance EquipmentStatus = "MAINTENANCE"
	EquipmentRetired     EquipmentStatus = "RETIRED"
)

// Equipment represents a registered machine. It owns its documents and
// maintenance records; children share the parent's lifetime.
type Equipment struct {
	ID                 string              `json:"id" bson:"_id"`
	EquipmentID        string              `json:"equipment_id" bson:"equipment_id"` // sequential display id, e.g. EQ000001
	Type               EquipmentType       `json:"type" bson:"type"`
	Brand              string              `json:"brand" bson:"brand"`
	Model              string              `json:"model" bson:"model"`
	SerialNumber       string              `json:"serial_number" bson:"serial_number"`
	Year               int                 `json:"year" bson:"year"`
	Status             EquipmentStatus     `json:"status" bson:"status"`
	Documents          []Document          `json:"documents" bson:"documents"`
	MaintenanceRecords []MaintenanceRecord `json:"maintenance_records" bson:"maintenance_records"`
	LastMaintenance    *time.Time          `json:"last_maintenance,omitempty" bson:"last_maintenance,omitempty"`
	NextMaintenance    *time.Time          `json:"next_maintenance,omitempty" bson:"next_maintenance,omitempty"`
	Notes              string              `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt          time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at" bson:"updated_at"`
}

// IsValidEquipmentType checks if an equipment type is valid.
func IsValidEquipmentType(t EquipmentType) bool {
	switch t {
	case EquipmentCrane, EquipmentForklift, EquipmentTruck, EquipmentLoader, EquipmentOther:
		return true
	default:
		return false
	}
}

// IsValidEquipmentStatus checks if an equipment status is valid.
func IsValidEquipmentStatus(s EquipmentStatus) bool {
	switch s {
	case EquipmentActive, EquipmentMaintenance, EquipmentRetired:
		return true
	default:
		return false
	}
}
