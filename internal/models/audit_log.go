package models

import (
	"time"
)

// AuditAction identifies what a user audit entry records.
type AuditAction string

const (
	AuditCreate         AuditAction = "CREATE"
	AuditUpdate         AuditAction = "UPDATE"
	AuditDelete         AuditAction = "DELETE"
	AuditLogin          AuditAction = "LOGIN"
	AuditLogout         AuditAction = "LOGOUT"
	AuditPasswordChange AuditAction = "PASSWORD_CHANGE"
	AuditStatusChange   AuditAction = "STATUS_CHANGE"
)

// UserAuditLog is one append-only entry recording a user store mutation or
// an authentication event.
type UserAuditLog struct {
	ID          string      `bson:"_id" json:"id"`
	UserID      string      `bson:"user_id" json:"user_id"`
	Action      AuditAction `bson:"action" json:"action"`
	Details     string      `bson:"details" json:"details"`
	PerformedBy string      `bson:"performed_by" json:"performed_by"`
	Timestamp   time.Time   `bson:"timestamp" json:"timestamp"`
}

// IsValidAuditAction checks if an audit action is valid.
func IsValidAuditAction(a AuditAction) bool {
	switch a {
	case AuditCreate, AuditUpdate, AuditDelete, AuditLogin, AuditLogout,
		AuditPasswordChange, AuditStatusChange:
		return true
	default:
		return false
	}
}
