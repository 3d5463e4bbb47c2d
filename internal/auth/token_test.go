package auth

import (
	"strings"
	"testing"

	"github.com/calebmorse/taskpoint/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	u := &model.User{ID: "user-1", Email: "alice@example.com", IsAdmin: true}
	token, err := tm.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	id, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if id.UserID != "user-1" {
		t.Errorf("user id = %q, want %q", id.UserID, "user-1")
	}
	if id.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", id.Email, "alice@example.com")
	}
	if !id.IsAdmin {
		t.Error("expected is_admin claim to survive the round trip")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a")
	token, err := tm.Issue(&model.User{ID: "user-1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	other := NewTokenManager("secret-b")
	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenTampered(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, err := tm.Issue(&model.User{ID: "user-1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := tm.Verify(tampered); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	tm := NewTokenManager("test-secret")

	for _, garbage := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		if _, err := tm.Verify(garbage); err != ErrInvalidToken {
			t.Errorf("Verify(%q) err = %v, want ErrInvalidToken", garbage, err)
		}
	}
}
