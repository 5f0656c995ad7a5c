// Package query implements the table operators behind every list view:
// case-insensitive free-text search over a fixed field set per entity,
// exact-match categorical filters, inclusive date-range filters and
// fixed-size pagination. Active filters always combine with AND semantics.
package query

import (
	"strings"
	"time"

	"github.com/harborops/portfleet/internal/models"
)

// matchAny reports whether any field contains the lower-cased query as a
// substring. An empty query matches everything.
func matchAny(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// MatchFuelRecord searches equipment reference, operator and location.
func MatchFuelRecord(r models.FuelRecord, q string) bool {
	return matchAny(q, r.EquipmentID, r.Operator, r.Location)
}

// MatchEquipment searches display id, brand, model and serial number.
func MatchEquipment(e models.Equipment, q string) bool {
	return matchAny(q, e.EquipmentID, e.Brand, e.Model, e.SerialNumber)
}

// MatchUser searches username, email, full name and display id.
func MatchUser(u models.User, q string) bool {
	return matchAny(q, u.Username, u.Email, u.FullName, u.UserID)
}

// MatchDocument searches document number and equipment reference.
func MatchDocument(d models.Document, q string) bool {
	return matchAny(q, d.Number, d.EquipmentID)
}

// InDateRange reports whether t falls within [from, to], both bounds
// inclusive and independently optional.
func InDateRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// FuelFilter narrows a fuel record collection. Zero values mean no
// restriction for that dimension.
type FuelFilter struct {
	Query    string
	FuelType models.FuelType
	From     *time.Time
	To       *time.Time
}

// FilterFuelRecords applies search, fuel-type and date-range filters with
// AND semantics.
func FilterFuelRecords(records []models.FuelRecord, f FuelFilter) []models.FuelRecord {
	out := make([]models.FuelRecord, 0, len(records))
	for _, r := range records {
		if !MatchFuelRecord(r, f.Query) {
			continue
		}
		if f.FuelType != "" && r.FuelType != f.FuelType {
			continue
		}
		if !InDateRange(r.Timestamp, f.From, f.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// EquipmentFilter narrows an equipment collection.
type EquipmentFilter struct {
	Query  string
	Type   models.EquipmentType
	Status models.EquipmentStatus
}

// FilterEquipment applies search, type and status filters with AND semantics.
func FilterEquipment(equipments []models.Equipment, f EquipmentFilter) []models.Equipment {
	out := make([]models.Equipment, 0, len(equipments))
	for _, e := range equipments {
		if !MatchEquipment(e, f.Query) {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out
}

// UserFilter narrows a user collection.
type UserFilter struct {
	Query  string
	Role   models.Role
	Status models.UserStatus
}

// FilterUsers applies search, role and status filters with AND semantics.
func FilterUsers(users []models.User, f UserFilter) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if !MatchUser(u, f.Query) {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		out = append(out, u)
	}
	return out
}

// DefaultPageSize is the fixed page size used by the list views.
const DefaultPageSize = 10

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// TotalPages is ceil(count/pageSize) with a floor of one page even for an
// empty collection.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Paginate slices items into a 1-based page. Out-of-range page numbers
// clamp to [1, TotalPages]; Paginate never panics and never returns an
// empty page for a non-empty collection.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := TotalPages(len(items), pageSize)
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		PageNumber: page,
		PageSize:   pageSize,
		TotalItems: len(items),
		TotalPages: total,
	}
}
