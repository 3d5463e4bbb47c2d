package store

import (
	"testing"

	"github.com/calebmorse/taskpoint/internal/database"
)

func setupPushTestDB(t *testing.T) (*PushStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPushStore(db), NewUserStore(db)
}

func TestPushUpsertIdempotent(t *testing.T) {
	ps, us := setupPushTestDB(t)

	u, _ := us.Create("alice@example.com", "hash", "Alice")

	sub, err := ps.Upsert(u.ID, "https://push.example/ep1", "p256dh-a", "auth-a")
	if err != nil {
		t.Fatalf("upsert subscription: %v", err)
	}
	if sub.Endpoint != "https://push.example/ep1" {
		t.Errorf("endpoint = %q", sub.Endpoint)
	}

	// Re-subscribing the same endpoint refreshes keys, no duplicate row.
	again, err := ps.Upsert(u.ID, "https://push.example/ep1", "p256dh-b", "auth-b")
	if err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	if again.P256dhKey != "p256dh-b" || again.AuthKey != "auth-b" {
		t.Errorf("keys not refreshed: %+v", again)
	}

	subs, err := ps.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subs))
	}
}

func TestPushDeleteByEndpoint(t *testing.T) {
	ps, us := setupPushTestDB(t)

	alice, _ := us.Create("alice@example.com", "hash", "Alice")
	bob, _ := us.Create("bob@example.com", "hash", "Bob")

	ps.Upsert(alice.ID, "https://push.example/ep1", "k", "a")
	ps.Upsert(bob.ID, "https://push.example/ep2", "k", "a")

	if err := ps.DeleteByEndpoint("https://push.example/ep1"); err != nil {
		t.Fatalf("delete by endpoint: %v", err)
	}

	all, err := ps.ListAll()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].Endpoint != "https://push.example/ep2" {
		t.Errorf("remaining = %+v, want only ep2", all)
	}
}
