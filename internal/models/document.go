package models

import (
	"time"
)

// DocumentType classifies a compliance or operational document.
type DocumentType string

const (
	DocTransportOrder    DocumentType = "TRANSPORT_ORDER"
	DocDispatchGuide     DocumentType = "DISPATCH_GUIDE"
	DocInvoice           DocumentType = "INVOICE"
	DocTechnicalReview   DocumentType = "TECHNICAL_REVIEW"
	DocInsurance         DocumentType = "INSURANCE"
	DocCirculationPermit DocumentType = "CIRCULATION_PERMIT"
	DocOther             DocumentType = "OTHER"
)

// DocumentStatus is set at creation and not recomputed; expiry badges come
// from stats.ClassifyExpiry at read time.
type DocumentStatus string

const (
	DocumentActive  DocumentStatus = "ACTIVE"
	DocumentExpired DocumentStatus = "EXPIRED"
	DocumentPending DocumentStatus = "PENDING"
)

// Document represents a compliance document owned by a piece of equipment.
type Document struct {
	ID          string         `json:"id" bson:"_id"`
	Type        DocumentType   `json:"type" bson:"type"`
	Number      string         `json:"number" bson:"number"`
	IssueDate   time.Time      `json:"issue_date" bson:"issue_date"`
	ExpiryDate  *time.Time     `json:"expiry_date,omitempty" bson:"expiry_date,omitempty"`
	Status      DocumentStatus `json:"status" bson:"status"`
	EquipmentID string         `json:"equipment_id" bson:"equipment_id"` // parent display id
	FileURL     string         `json:"file_url,omitempty" bson:"file_url,omitempty"`
	Notes       string         `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy   string         `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
}

// IsValidDocumentType checks if a document type is valid.
func IsValidDocumentType(t DocumentType) bool {
	switch t {
	case DocTransportOrder, DocDispatchGuide, DocInvoice, DocTechnicalReview,
		DocInsurance, DocCirculationPermit, DocOther:
		return true
	default:
		return false
	}
}

// IsValidDocumentStatus checks if a document status is valid.
func IsValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocumentActive, DocumentExpired, DocumentPending:
		return true
	default:
		return false
	}
}
