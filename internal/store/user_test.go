package store

import (
	"errors"
	"testing"

	"github.com/calebmorse/taskpoint/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreateAndGet(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("alice@example.com", "hash", "Alice")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.IsAdmin {
		t.Error("new users must not be admins")
	}

	got, err := us.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("get by email = %+v, want id %q", got, u.ID)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("password hash = %q, want %q", got.PasswordHash, "hash")
	}

	missing, err := us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("alice@example.com", "hash1", "Alice"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err := us.Create("alice@example.com", "hash2", "Imposter")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}

	// The original row must be untouched and remain the only one.
	users, err := us.List()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].PasswordHash != "hash1" {
		t.Errorf("password hash = %q, want %q", users[0].PasswordHash, "hash1")
	}
}

func TestUserToggleAdmin(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("alice@example.com", "hash", "Alice")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	toggled, err := us.ToggleAdmin(u.ID)
	if err != nil {
		t.Fatalf("toggle admin: %v", err)
	}
	if !toggled.IsAdmin {
		t.Error("expected admin after first toggle")
	}

	toggled, err = us.ToggleAdmin(u.ID)
	if err != nil {
		t.Fatalf("toggle admin again: %v", err)
	}
	if toggled.IsAdmin {
		t.Error("expected original state after second toggle")
	}

	if _, err := us.ToggleAdmin("no-such-user"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
