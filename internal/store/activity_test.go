package store

import (
	"errors"
	"testing"

	"github.com/calebmorse/taskpoint/internal/database"
)

func setupActivityTestDB(t *testing.T) (*ActivityStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewActivityStore(db), NewUserStore(db)
}

func TestActivityCRUD(t *testing.T) {
	as, us := setupActivityTestDB(t)

	u, err := us.Create("alice@example.com", "hash", "Alice")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	a, err := as.Create(u.ID, "Workout", 50, "")
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if a.Icon != "zap" {
		t.Errorf("icon = %q, want default %q", a.Icon, "zap")
	}
	if a.Value != 50 {
		t.Errorf("value = %d, want 50", a.Value)
	}

	updated, err := as.Update(u.ID, a.ID, "Long Workout", 75, "dumbbell")
	if err != nil {
		t.Fatalf("update activity: %v", err)
	}
	if updated.Name != "Long Workout" || updated.Value != 75 || updated.Icon != "dumbbell" {
		t.Errorf("updated = %+v", updated)
	}

	if err := as.Delete(u.ID, a.ID); err != nil {
		t.Fatalf("delete activity: %v", err)
	}
	got, err := as.Get(u.ID, a.ID)
	if err != nil {
		t.Fatalf("get deleted activity: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestActivityListOrdering(t *testing.T) {
	as, us := setupActivityTestDB(t)

	u, _ := us.Create("alice@example.com", "hash", "Alice")
	as.Create(u.ID, "Zulu", 10, "")
	as.Create(u.ID, "Alpha", 20, "")
	as.Create(u.ID, "Mike", 30, "")

	activities, err := as.List(u.ID)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(activities) != 3 {
		t.Fatalf("expected 3 activities, got %d", len(activities))
	}

	// Creation order, not name order.
	want := []string{"Zulu", "Alpha", "Mike"}
	for i, name := range want {
		if activities[i].Name != name {
			t.Errorf("activities[%d].Name = %q, want %q", i, activities[i].Name, name)
		}
	}
}

func TestActivityOwnerScoping(t *testing.T) {
	as, us := setupActivityTestDB(t)

	alice, _ := us.Create("alice@example.com", "hash", "Alice")
	bob, _ := us.Create("bob@example.com", "hash", "Bob")

	a, err := as.Create(alice.ID, "Workout", 50, "")
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}

	// A cross-owner update must look exactly like a missing id.
	if _, err := as.Update(bob.ID, a.ID, "Hijacked", 1, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-owner update err = %v, want ErrNotFound", err)
	}
	if _, err := as.Update(alice.ID, "no-such-id", "X", 1, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id update err = %v, want ErrNotFound", err)
	}

	if err := as.Delete(bob.ID, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-owner delete err = %v, want ErrNotFound", err)
	}

	// Alice's activity is untouched by Bob's attempts.
	got, err := as.Get(alice.ID, a.ID)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if got == nil || got.Name != "Workout" {
		t.Errorf("activity = %+v, want untouched Workout", got)
	}

	// Bob cannot see it either.
	cross, err := as.Get(bob.ID, a.ID)
	if err != nil {
		t.Fatalf("cross-owner get: %v", err)
	}
	if cross != nil {
		t.Error("expected nil for cross-owner get")
	}
}
