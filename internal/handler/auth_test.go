package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/calebmorse/taskpoint/internal/auth"
	"github.com/calebmorse/taskpoint/internal/database"
	"github.com/calebmorse/taskpoint/internal/store"
)

func setupAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthHandler(store.NewUserStore(db), auth.NewTokenManager("test-secret"), nil, logger)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSignupLoginFlow(t *testing.T) {
	h := setupAuthHandler(t)

	rec := postJSON(t, h.Signup, `{"email":"Alice@Example.com","password":"hunter22","name":"Alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var signup authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &signup); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	if signup.Token == "" {
		t.Error("expected a token on signup")
	}
	if signup.User.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased", signup.User.Email)
	}

	// Login with the original casing must find the same account.
	rec = postJSON(t, h.Login, `{"email":"ALICE@example.com","password":"hunter22"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var login authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.User.ID != signup.User.ID {
		t.Errorf("login user id = %q, want %q", login.User.ID, signup.User.ID)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	h := setupAuthHandler(t)

	rec := postJSON(t, h.Signup, `{"email":"bob@example.com","password":"pw123456"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first signup status = %d", rec.Code)
	}

	rec = postJSON(t, h.Signup, `{"email":"bob@example.com","password":"other456"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] != "Email already exists" {
		t.Errorf("error = %q, want %q", body["error"], "Email already exists")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := setupAuthHandler(t)

	postJSON(t, h.Signup, `{"email":"carol@example.com","password":"correct1"}`)

	for _, body := range []string{
		`{"email":"carol@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"correct1"}`,
	} {
		rec := postJSON(t, h.Login, body)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("login status = %d, want 401 for %s", rec.Code, body)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if resp["error"] != "Invalid email or password" {
			t.Errorf("error = %q, want the generic message", resp["error"])
		}
	}
}

func TestFederatedNotConfigured(t *testing.T) {
	h := setupAuthHandler(t)

	rec := postJSON(t, h.Federated, `{"assertion":"some-token"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("federated status = %d, want 401 when unconfigured", rec.Code)
	}
}
