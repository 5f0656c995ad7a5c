package models

import (
	"time"
)

// FuelType identifies the kind of fuel dispensed.
type FuelType string

const (
	FuelDiesel FuelType = "DIESEL"
	FuelGas    FuelType = "GAS"
)

// FuelUnit is the unit a quantity was recorded in. Totals never convert
// between units; mixed-unit sums are a documented simplification.
type FuelUnit string

const (
	UnitLiters  FuelUnit = "LITERS"
	UnitGallons FuelUnit = "GALLONS"
)

// FuelRecord represents a single fuel dispensing event. Records are
// immutable once created.
type FuelRecord struct {
	ID          string    `json:"id" bson:"_id"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	EquipmentID string    `json:"equipment_id" bson:"equipment_id"`
	FuelType    FuelType  `json:"fuel_type" bson:"fuel_type"`
	Quantity    float64   `json:"quantity" bson:"quantity"`
	Unit        FuelUnit  `json:"unit" bson:"unit"`
	Operator    string    `json:"operator" bson:"operator"`
	Location    string    `json:"location" bson:"location"`
	Notes       string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

// IsValidFuelType checks if a fuel type is valid.
func IsValidFuelType(t FuelType) bool {
	switch t {
	case FuelDiesel, FuelGas:
		return true
	default:
		return false
	}
}

// IsValidFuelUnit checks if a fuel unit is valid.
func IsValidFuelUnit(u FuelUnit) bool {
	switch u {
	case UnitLiters, UnitGallons:
		return true
	default:
		return false
	}
}
