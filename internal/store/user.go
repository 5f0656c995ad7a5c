package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harborops/portfleet/internal/ids"
	"github.com/harborops/portfleet/internal/models"
)

// Snapshots persists the full user and audit-log collections. The Mongo
// implementation lives in internal/db; tests use an in-memory fake.
type Snapshots interface {
	SaveUsers(ctx context.Context, users []models.User) error
	SaveAuditLogs(ctx context.Context, logs []models.UserAuditLog) error
}

// UserUpdate carries the fields Update may merge; nil means unchanged.
type UserUpdate struct {
	Username   *string
	Email      *string
	FullName   *string
	Role       *models.Role
	Status     *models.UserStatus
	Department *string
	Phone      *string
	Location   *string
}

// UserStore is the user account collection plus its append-only audit log.
// Both persist as whole snapshots and reload at startup; every mutating
// operation appends exactly one audit entry per affected user before
// returning.
type UserStore struct {
	mu        sync.RWMutex
	gen       *ids.Generator
	snapshots Snapshots
	users     []models.User
	auditLogs []models.UserAuditLog
}

// NewUserStore creates a user store issuing display ids from gen and
// persisting through snapshots.
func NewUserStore(gen *ids.Generator, snapshots Snapshots) *UserStore {
	return &UserStore{gen: gen, snapshots: snapshots}
}

// Restore installs collections loaded from persistence. Called once at
// startup before the store is shared.
func (s *UserStore) Restore(users []models.User, logs []models.UserAuditLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.auditLogs = logs
}

// appendLog prepends an audit entry. Caller holds the write lock.
func (s *UserStore) appendLog(userID string, action models.AuditAction, details, performedBy string) {
	entry := models.UserAuditLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		Action:      action,
		Details:     details,
		PerformedBy: performedBy,
		Timestamp:   time.Now(),
	}
	s.auditLogs = append([]models.UserAuditLog{entry}, s.auditLogs...)
}

// persist snapshots both collections. Caller holds the lock.
func (s *UserStore) persist(ctx context.Context) error {
	if err := s.snapshots.SaveUsers(ctx, s.users); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	if err := s.snapshots.SaveAuditLogs(ctx, s.auditLogs); err != nil {
		return fmt.Errorf("persist audit logs: %w", err)
	}
	return nil
}

// Add assigns ids and timestamps, defaults status to ACTIVE, prepends the
// user and writes a CREATE audit entry. The password hash, if any, must
// already be set by the caller.
func (s *UserStore) Add(ctx context.Context, user models.User, performedBy string) (models.User, error) {
	displayID, err := s.gen.Generate(ids.CategoryUser)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now()
	user.ID = uuid.NewString()
	user.UserID = displayID
	user.FailedLoginAttempts = 0
	if user.Status == "" {
		user.Status = models.UserActive
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	user.CreatedBy = performedBy

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]models.User{user}, s.users...)
	s.appendLog(user.ID, models.AuditCreate, fmt.Sprintf("User %s created", user.Username), performedBy)
	if err := s.persist(ctx); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Update merges the given fields, refreshes UpdatedAt and writes an UPDATE
// audit entry. Absent ids are a no-op reported by the bool.
func (s *UserStore) Update(ctx context.Context, id string, update UserUpdate, performedBy string) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		u := &s.users[i]
		if update.Username != nil {
			u.Username = *update.Username
		}
		if update.Email != nil {
			u.Email = *update.Email
		}
		if update.FullName != nil {
			u.FullName = *update.FullName
		}
		if update.Role != nil {
			u.Role = *update.Role
		}
		if update.Status != nil {
			u.Status = *update.Status
		}
		if update.Department != nil {
			u.Department = *update.Department
		}
		if update.Phone != nil {
			u.Phone = *update.Phone
		}
		if update.Location != nil {
			u.Location = *update.Location
		}
		u.UpdatedAt = time.Now()
		u.UpdatedBy = performedBy
		s.appendLog(id, models.AuditUpdate, "User details updated", performedBy)
		if err := s.persist(ctx); err != nil {
			return models.User{}, true, err
		}
		return *u, true, nil
	}
	return models.User{}, false, nil
}

// Delete removes the user and writes a DELETE audit entry. Absent ids are
// a no-op.
func (s *UserStore) Delete(ctx context.Context, id, performedBy string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		username := s.users[i].Username
		s.users = append(s.users[:i], s.users[i+1:]...)
		s.appendLog(id, models.AuditDelete, fmt.Sprintf("User %s deleted", username), performedBy)
		if err := s.persist(ctx); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}

// Get looks up a user by internal id.
func (s *UserStore) Get(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// GetByEmail looks up a user by email.
func (s *UserStore) GetByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// GetByUsername looks up a user by username.
func (s *UserStore) GetByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

// Users returns a snapshot copy of the collection, newest first.
func (s *UserStore) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// FilterUsers narrows by role and status; both filters are optional and
// combine with AND.
func (s *UserStore) FilterUsers(role models.Role, status models.UserStatus) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, u)
	}
	return out
}

// BulkUpdateStatus sets the status of every user in ids, all-or-nothing:
// one unknown id fails the whole batch before any user is touched or any
// audit entry written. One STATUS_CHANGE entry is appended per updated user.
func (s *UserStore) BulkUpdateStatus(ctx context.Context, userIDs []string, status models.UserStatus, performedBy string) error {
	if !models.IsValidUserStatus(status) {
		return fmt.Errorf("invalid user status: %s", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	indexes := make([]int, 0, len(userIDs))
	for _, id := range userIDs {
		found := -1
		for i := range s.users {
			if s.users[i].ID == id {
				found = i
				break
			}
		}
		if found < 0 {
			return fmt.Errorf("user not found: %s", id)
		}
		indexes = append(indexes, found)
	}

	now := time.Now()
	for _, i := range indexes {
		s.users[i].Status = status
		s.users[i].UpdatedAt = now
		s.users[i].UpdatedBy = performedBy
		s.appendLog(s.users[i].ID, models.AuditStatusChange,
			fmt.Sprintf("User status changed to %s", status), performedBy)
	}
	return s.persist(ctx)
}

// RecordLogin stamps last-login, resets the failed-attempt counter and
// writes a LOGIN audit entry.
func (s *UserStore) RecordLogin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		now := time.Now()
		s.users[i].LastLogin = &now
		s.users[i].FailedLoginAttempts = 0
		s.users[i].UpdatedAt = now
		s.appendLog(id, models.AuditLogin, fmt.Sprintf("User %s logged in", s.users[i].Username), id)
		return s.persist(ctx)
	}
	return nil
}

// RecordFailedLogin increments the failed-attempt counter.
func (s *UserStore) RecordFailedLogin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		s.users[i].FailedLoginAttempts++
		s.users[i].UpdatedAt = time.Now()
		return s.persist(ctx)
	}
	return nil
}

// RecordLogout writes a LOGOUT audit entry.
func (s *UserStore) RecordLogout(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		s.appendLog(id, models.AuditLogout, fmt.Sprintf("User %s logged out", s.users[i].Username), id)
		return s.persist(ctx)
	}
	return nil
}

// SetPasswordHash replaces the stored hash and writes a PASSWORD_CHANGE
// audit entry.
func (s *UserStore) SetPasswordHash(ctx context.Context, id, hash, performedBy string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		s.users[i].PasswordHash = hash
		s.users[i].UpdatedAt = time.Now()
		s.appendLog(id, models.AuditPasswordChange, "Password changed", performedBy)
		if err := s.persist(ctx); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}

// AuditLogs returns a snapshot copy of the audit log, newest first.
func (s *UserStore) AuditLogs() []models.UserAuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserAuditLog, len(s.auditLogs))
	copy(out, s.auditLogs)
	return out
}

// LogsForUser returns the audit entries for one subject user, newest first.
func (s *UserStore) LogsForUser(userID string) []models.UserAuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.UserAuditLog
	for _, entry := range s.auditLogs {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out
}
