package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/harborops/portfleet/internal/auth"
	"github.com/harborops/portfleet/internal/middleware"
	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/query"
	"github.com/harborops/portfleet/internal/store"
)

// UserHandler serves user management and the audit trail.
type UserHandler struct {
	authService *auth.Service
	users       *store.UserStore
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service, users *store.UserStore) *UserHandler {
	return &UserHandler{authService: authService, users: users}
}

// Collection dispatches list and create requests for users.
func (h *UserHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := query.UserFilter{Query: q.Get("search")}

	if role := q.Get("role"); role != "" {
		if !models.IsValidRole(models.Role(role)) {
			http.Error(w, fmt.Sprintf("invalid role: %s", role), http.StatusBadRequest)
			return
		}
		filter.Role = models.Role(role)
	}
	if status := q.Get("status"); status != "" {
		if !models.IsValidUserStatus(models.UserStatus(status)) {
			http.Error(w, fmt.Sprintf("invalid user status: %s", status), http.StatusBadRequest)
			return
		}
		filter.Status = models.UserStatus(status)
	}

	filtered := query.FilterUsers(h.users.Users(), filter)
	page := query.Paginate(filtered, pageParam(r), query.DefaultPageSize)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Username   string            `json:"username"`
		Email      string            `json:"email"`
		FullName   string            `json:"full_name"`
		Password   string            `json:"password"`
		Role       models.Role       `json:"role"`
		Status     models.UserStatus `json:"status"`
		Department string            `json:"department"`
		Phone      string            `json:"phone"`
		Location   string            `json:"location"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidateUsername(req.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidateEmail(req.Email); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidatePassword(req.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsValidRole(req.Role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	if req.Status != "" && !models.IsValidUserStatus(req.Status) {
		http.Error(w, "Invalid user status", http.StatusBadRequest)
		return
	}

	if _, exists := h.users.GetByEmail(req.Email); exists {
		http.Error(w, "Email already in use", http.StatusConflict)
		return
	}
	if _, exists := h.users.GetByUsername(req.Username); exists {
		http.Error(w, "Username already in use", http.StatusConflict)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user, err := h.users.Add(r.Context(), models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       req.Status,
		Department:   req.Department,
		Phone:        req.Phone,
		Location:     req.Location,
	}, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	log.WithFields(log.Fields{
		"user_id": user.UserID,
		"role":    user.Role,
	}).Info("User created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Item dispatches get, update and delete requests for a single user,
// addressed by internal id.
func (h *UserHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	switch r.Method {
	case http.MethodGet:
		user, ok := h.users.Get(id)
		if !ok {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		Username   *string            `json:"username"`
		Email      *string            `json:"email"`
		FullName   *string            `json:"full_name"`
		Role       *models.Role       `json:"role"`
		Status     *models.UserStatus `json:"status"`
		Department *string            `json:"department"`
		Phone      *string            `json:"phone"`
		Location   *string            `json:"location"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Role != nil && !models.IsValidRole(*req.Role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	if req.Status != nil && !models.IsValidUserStatus(*req.Status) {
		http.Error(w, "Invalid user status", http.StatusBadRequest)
		return
	}
	if req.Email != nil {
		if err := h.authService.ValidateEmail(*req.Email); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.Username != nil {
		if err := h.authService.ValidateUsername(*req.Username); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	user, found, err := h.users.Update(r.Context(), id, store.UserUpdate{
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Role:       req.Role,
		Status:     req.Status,
		Department: req.Department,
		Phone:      req.Phone,
		Location:   req.Location,
	}, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	if id == claims.UserID {
		http.Error(w, "Cannot delete own account", http.StatusBadRequest)
		return
	}

	found, err := h.users.Delete(r.Context(), id, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User deleted"})
}

// BulkStatus applies one status to several users atomically; if any id is
// unknown nothing changes.
func (h *UserHandler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req struct {
		UserIDs []string          `json:"user_ids"`
		Status  models.UserStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if len(req.UserIDs) == 0 {
		http.Error(w, "No user ids given", http.StatusBadRequest)
		return
	}

	if err := h.users.BulkUpdateStatus(r.Context(), req.UserIDs, req.Status, claims.UserID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.WithFields(log.Fields{
		"count":  len(req.UserIDs),
		"status": req.Status,
	}).Info("Bulk status update applied")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Status updated"})
}

// AuditLog lists audit entries, newest first, optionally narrowed to one
// user via the user_id query parameter.
func (h *UserHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var logs []models.UserAuditLog
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		logs = h.users.LogsForUser(userID)
	} else {
		logs = h.users.AuditLogs()
	}

	page := query.Paginate(logs, pageParam(r), query.DefaultPageSize)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}
