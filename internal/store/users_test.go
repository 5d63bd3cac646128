package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/repuestos/internal/db"
	"github.com/erazemk/repuestos/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "testuser", "hash123", model.RoleViewer)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", user.Username)
	}
	if user.Role != model.RoleViewer {
		t.Errorf("expected role 'viewer', got %q", user.Role)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", got.Username)
	}
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "alice", "hash", model.RoleAdmin)

	user, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Username != "alice" {
		t.Errorf("expected 'alice', got %q", user.Username)
	}

	missing, err := GetUserByUsername(ctx, database, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestListUsers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "a", "hash", model.RoleViewer)
	CreateUser(ctx, database, "b", "hash", model.RoleTechnician)

	users, err := ListUsers(ctx, database)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
}

func TestDeleteUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "deleteme", "hash", model.RoleViewer)
	DeleteUser(ctx, database, user.ID)

	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("expected 0 users after delete, got %d", len(users))
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "pwuser", "oldhash", model.RoleViewer)
	UpdateUserPassword(ctx, database, user.ID, "newhash")

	got, _ := GetUser(ctx, database, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("expected password hash 'newhash', got %q", got.PasswordHash)
	}
}

func TestDeletedUsernameCanBeReused(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := CreateUser(ctx, database, "reuse", "hash", model.RoleViewer)
	if err := DeleteUser(ctx, database, first.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := CreateUser(ctx, database, "reuse", "hash", model.RoleTechnician); err != nil {
		t.Fatalf("CreateUser after delete: %v", err)
	}

	got, _ := GetUserByUsername(ctx, database, "reuse")
	if got == nil || got.Role != model.RoleTechnician {
		t.Errorf("expected the new technician account, got %+v", got)
	}
}

func TestUserWritesOnMissingID(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := UpdateUser(ctx, database, 99, model.RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateUser: expected ErrNotFound, got %v", err)
	}
	if err := DeleteUser(ctx, database, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteUser: expected ErrNotFound, got %v", err)
	}
}

func TestCountAdmins(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "root", "hash", model.RoleAdmin)
	CreateUser(ctx, database, "tech", "hash", model.RoleTechnician)

	n, err := CountAdmins(ctx, database)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 admin, got %d", n)
	}
}

func TestInvalidRoleRejected(t *testing.T) {
	database := db.NewTestDB(t)

	if _, err := CreateUser(context.Background(), database, "x", "hash", "manager"); err == nil {
		t.Error("expected CHECK constraint to reject unknown role")
	}
}
