package models

import (
	"time"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleOperator   Role = "OPERATOR"
	RoleVisitor    Role = "VISITOR"
)

// UserStatus is the account state of a user.
type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
	UserBlocked  UserStatus = "BLOCKED"
)

// User represents a user in the system
type User struct {
	ID                  string     `bson:"_id" json:"id"`
	UserID              string     `bson:"user_id" json:"user_id"` // sequential display id, e.g. USR000001
	Username            string     `bson:"username" json:"username"`
	Email               string     `bson:"email" json:"email"`
	FullName            string     `bson:"full_name" json:"full_name"`
	PasswordHash        string     `bson:"password_hash" json:"-"`
	Role                Role       `bson:"role" json:"role"`
	Status              UserStatus `bson:"status" json:"status"`
	Department          string     `bson:"department,omitempty" json:"department,omitempty"`
	Phone               string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Location            string     `bson:"location,omitempty" json:"location,omitempty"`
	LastLogin           *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	FailedLoginAttempts int        `bson:"failed_login_attempts" json:"failed_login_attempts"`
	CreatedAt           time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `bson:"updated_at" json:"updated_at"`
	CreatedBy           string     `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy           string     `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleSupervisor, RoleOperator, RoleVisitor:
		return true
	default:
		return false
	}
}

// IsValidUserStatus checks if a user status is valid
func IsValidUserStatus(status UserStatus) bool {
	switch status {
	case UserActive, UserInactive, UserBlocked:
		return true
	default:
		return false
	}
}

// ModuleActions describes what a role may do within one module.
type ModuleActions struct {
	View   bool
	Create bool
	Update bool
	Delete bool
}

// defaultPermissions maps each role to its per-module action matrix.
var defaultPermissions = map[Role]map[string]ModuleActions{
	RoleAdmin: {
		"users":       {View: true, Create: true, Update: true, Delete: true},
		"equipment":   {View: true, Create: true, Update: true, Delete: true},
		"documents":   {View: true, Create: true, Update: true, Delete: true},
		"maintenance": {View: true, Create: true, Update: true, Delete: true},
	},
	RoleSupervisor: {
		"users":       {View: true, Update: true},
		"equipment":   {View: true, Create: true, Update: true},
		"documents":   {View: true, Create: true, Update: true},
		"maintenance": {View: true, Create: true, Update: true},
	},
	RoleOperator: {
		"users":       {},
		"equipment":   {View: true},
		"documents":   {View: true, Create: true},
		"maintenance": {View: true, Create: true},
	},
	RoleVisitor: {
		"users":       {},
		"equipment":   {View: true},
		"documents":   {View: true},
		"maintenance": {View: true},
	},
}

// HasPermission checks if a user may perform an action ("view", "create",
// "update", "delete") within a module.
func (u *User) HasPermission(module, action string) bool {
	modules, ok := defaultPermissions[u.Role]
	if !ok {
		return false
	}
	actions, ok := modules[module]
	if !ok {
		return false
	}
	switch action {
	case "view":
		return actions.View
	case "create":
		return actions.Create
	case "update":
		return actions.Update
	case "delete":
		return actions.Delete
	default:
		return false
	}
}
