package main

import (
	"context"
	"testing"

	"github.com/harborops/portfleet/internal/auth"
	"github.com/harborops/portfleet/internal/ids"
	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/store"
)

type nopSnapshots struct{}

func (nopSnapshots) SaveUsers(ctx context.Context, users []models.User) error            { return nil }
func (nopSnapshots) SaveAuditLogs(ctx context.Context, logs []models.UserAuditLog) error { return nil }

func newUserStore(t *testing.T) *store.UserStore {
	t.Helper()
	gen, err := ids.NewGenerator(ids.NewMemoryCounterStore())
	if err != nil {
		t.Fatalf("failed to create id generator: %v", err)
	}
	return store.NewUserStore(gen, nopSnapshots{})
}

func TestSeedAdmin_EmptyStore(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	users := newUserStore(t)

	if err := seedAdmin(context.Background(), authService, users); err != nil {
		t.Fatalf("seedAdmin failed: %v", err)
	}

	admin, ok := users.GetByUsername("admin")
	if !ok {
		t.Fatal("expected bootstrap admin to exist")
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("expected ADMIN role, got %s", admin.Role)
	}
	if admin.Status != models.UserActive {
		t.Errorf("expected ACTIVE status, got %s", admin.Status)
	}
}

func TestSeedAdmin_NonEmptyStore(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	users := newUserStore(t)
	if _, err := users.Add(context.Background(), models.User{
		Username: "existing",
		Email:    "existing@example.com",
		Role:     models.RoleOperator,
	}, "system"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	if err := seedAdmin(context.Background(), authService, users); err != nil {
		t.Fatalf("seedAdmin failed: %v", err)
	}

	if _, ok := users.GetByUsername("admin"); ok {
		t.Error("expected no bootstrap admin when users already exist")
	}
	if got := len(users.Users()); got != 1 {
		t.Errorf("expected 1 user, got %d", got)
	}
}
