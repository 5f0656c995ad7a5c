package models

import (
	"time"
)

// MaintenanceType classifies a maintenance intervention.
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "PREVENTIVE"
	MaintenanceCorrective MaintenanceType = "CORRECTIVE"
	MaintenanceInspection MaintenanceType = "INSPECTION"
)

// MaintenanceStatus is the workflow state of a maintenance record.
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "SCHEDULED"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceCancelled  MaintenanceStatus = "CANCELLED"
)

// MaintenanceRecord represents one maintenance event for a piece of
// equipment. Adding one overwrites the parent's last/next maintenance
// dates, last write wins.
type MaintenanceRecord struct {
	ID                  string            `json:"id" bson:"_id"`
	EquipmentID         string            `json:"equipment_id" bson:"equipment_id"`
	Type                MaintenanceType   `json:"type" bson:"type"`
	Date                time.Time         `json:"date" bson:"date"`
	Description         string            `json:"description" bson:"description"`
	Technician          string            `json:"technician" bson:"technician"`
	Cost                float64           `json:"cost" bson:"cost"`
	Status              MaintenanceStatus `json:"status" bson:"status"`
	NextMaintenanceDate *time.Time        `json:"next_maintenance_date,omitempty" bson:"next_maintenance_date,omitempty"`
	Notes               string            `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt           time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" bson:"updated_at"`
}

// IsValidMaintenanceType checks if a maintenance type is valid.
func IsValidMaintenanceType(t MaintenanceType) bool {
	switch t {
	case MaintenancePreventive, MaintenanceCorrective, MaintenanceInspection:
		return true
	default:
		return false
	}
}

// IsValidMaintenanceStatus checks if a maintenance status is valid.
func IsValidMaintenanceStatus(s MaintenanceStatus) bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	default:
		return false
	}
}
