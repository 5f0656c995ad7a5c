package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harborops/portfleet/internal/auth"
	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/store"
)

func seedAdmin(t *testing.T, authService *auth.Service, users *store.UserStore) models.User {
	t.Helper()
	hash, err := authService.HashPassword("AdminPass123!")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	admin, err := users.Add(context.Background(), models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		FullName:     "Port Admin",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}, "system")
	if err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}
	return admin
}

func TestUserHandler_Create(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}

	t.Run("successful create", func(t *testing.T) {
		users := newTestUserStore(t)
		admin := seedAdmin(t, authService, users)
		handler := NewUserHandler(authService, users)

		body, _ := json.Marshal(map[string]interface{}{
			"username":  "operator1",
			"email":     "operator1@example.com",
			"full_name": "Ana Diaz",
			"password":  "Operator123!",
			"role":      "OPERATOR",
		})
		req := httptest.NewRequest("POST", "/api/users", bytes.NewBuffer(body))
		req = withClaims(req, admin)
		w := httptest.NewRecorder()

		handler.Collection(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var created models.User
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Equal(t, "USR000002", created.UserID)
		assert.Equal(t, models.UserActive, created.Status)
		assert.Equal(t, admin.ID, created.CreatedBy)

		logs := users.LogsForUser(created.ID)
		assert.Equal(t, models.AuditCreate, logs[0].Action)
		assert.Equal(t, admin.ID, logs[0].PerformedBy)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := newTestUserStore(t)
		admin := seedAdmin(t, authService, users)
		handler := NewUserHandler(authService, users)

		body, _ := json.Marshal(map[string]interface{}{
			"username": "another",
			"email":    "admin@example.com",
			"password": "Another123!",
			"role":     "VISITOR",
		})
		req := httptest.NewRequest("POST", "/api/users", bytes.NewBuffer(body))
		req = withClaims(req, admin)
		w := httptest.NewRecorder()

		handler.Collection(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		users := newTestUserStore(t)
		admin := seedAdmin(t, authService, users)
		handler := NewUserHandler(authService, users)

		body, _ := json.Marshal(map[string]interface{}{
			"username": "ghost",
			"email":    "ghost@example.com",
			"password": "GhostPass123!",
			"role":     "SUPERUSER",
		})
		req := httptest.NewRequest("POST", "/api/users", bytes.NewBuffer(body))
		req = withClaims(req, admin)
		w := httptest.NewRecorder()

		handler.Collection(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_Update(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	users := newTestUserStore(t)
	admin := seedAdmin(t, authService, users)
	target := seedUser(t, authService, users, "Target123!", models.UserActive)
	handler := NewUserHandler(authService, users)

	body, _ := json.Marshal(map[string]interface{}{
		"role":       "SUPERVISOR",
		"department": "Operations",
	})
	req := httptest.NewRequest("PUT", "/api/users/"+target.ID, bytes.NewBuffer(body))
	req.SetPathValue("id", target.ID)
	req = withClaims(req, admin)
	w := httptest.NewRecorder()

	handler.Item(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	assert.Equal(t, models.RoleSupervisor, updated.Role)
	assert.Equal(t, "Operations", updated.Department)
	assert.Equal(t, admin.ID, updated.UpdatedBy)

	logs := users.LogsForUser(target.ID)
	assert.Equal(t, models.AuditUpdate, logs[0].Action)
}

func TestUserHandler_Delete(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}

	t.Run("delete another user", func(t *testing.T) {
		users := newTestUserStore(t)
		admin := seedAdmin(t, authService, users)
		target := seedUser(t, authService, users, "Target123!", models.UserActive)
		handler := NewUserHandler(authService, users)

		req := httptest.NewRequest("DELETE", "/api/users/"+target.ID, nil)
		req.SetPathValue("id", target.ID)
		req = withClaims(req, admin)
		w := httptest.NewRecorder()

		handler.Item(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		_, found := users.Get(target.ID)
		assert.False(t, found)
	})

	t.Run("cannot delete own account", func(t *testing.T) {
		users := newTestUserStore(t)
		admin := seedAdmin(t, authService, users)
		handler := NewUserHandler(authService, users)

		req := httptest.NewRequest("DELETE", "/api/users/"+admin.ID, nil)
		req.SetPathValue("id", admin.ID)
		req = withClaims(req, admin)
		w := httptest.NewRecorder()

		handler.Item(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		_, found := users.Get(admin.ID)
		assert.True(t, found)
	})
}

func TestUserHandler_BulkStatus(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}

	t.Run("applies to all listed users", func(t *testing.T) {
		users := newTestUserStore(t)
		admin := seedAdmin(t, authService, users)
		target := seedUser(t, authService, users, "Target123!", models.UserActive)
		handler := NewUserHandler(authService, users)

		body, _ := json.Marshal(map[string]interface{}{
			"user_ids": []string{target.ID},
			"status":   "BLOCKED",
		})
		req := httptest.NewRequest("POST", "/api/users/bulk-status", bytes.NewBuffer(body))
		req = withClaims(req, admin)
		w := httptest.NewRecorder()

		handler.BulkStatus(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		updated, _ := users.Get(target.ID)
		assert.Equal(t, models.UserBlocked, updated.Status)
	})

	t.Run("unknown id leaves everything unchanged", func(t *testing.T) {
		users := newTestUserStore(t)
		admin := seedAdmin(t, authService, users)
		target := seedUser(t, authService, users, "Target123!", models.UserActive)
		handler := NewUserHandler(authService, users)

		body, _ := json.Marshal(map[string]interface{}{
			"user_ids": []string{target.ID, "missing"},
			"status":   "BLOCKED",
		})
		req := httptest.NewRequest("POST", "/api/users/bulk-status", bytes.NewBuffer(body))
		req = withClaims(req, admin)
		w := httptest.NewRecorder()

		handler.BulkStatus(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		unchanged, _ := users.Get(target.ID)
		assert.Equal(t, models.UserActive, unchanged.Status)
	})
}

func TestUserHandler_List(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	users := newTestUserStore(t)
	seedAdmin(t, authService, users)
	seedUser(t, authService, users, "Target123!", models.UserInactive)
	handler := NewUserHandler(authService, users)

	req := httptest.NewRequest("GET", "/api/users?status=INACTIVE", nil)
	w := httptest.NewRecorder()

	handler.Collection(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []models.User `json:"items"`
		Total int           `json:"total_items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, models.UserInactive, page.Items[0].Status)
}

func TestUserHandler_AuditLog(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	users := newTestUserStore(t)
	admin := seedAdmin(t, authService, users)
	target := seedUser(t, authService, users, "Target123!", models.UserActive)
	handler := NewUserHandler(authService, users)

	req := httptest.NewRequest("GET", "/api/users/audit?user_id="+target.ID, nil)
	req = withClaims(req, admin)
	w := httptest.NewRecorder()

	handler.AuditLog(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []models.UserAuditLog `json:"items"`
		Total int                   `json:"total_items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, target.ID, page.Items[0].UserID)
}
