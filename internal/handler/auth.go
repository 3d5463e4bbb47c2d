package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calebmorse/taskpoint/internal/auth"
	"github.com/calebmorse/taskpoint/internal/model"
	"github.com/calebmorse/taskpoint/internal/store"
)

type AuthHandler struct {
	userStore *store.UserStore
	tokens    *auth.TokenManager
	verifier  auth.Verifier
	logger    *slog.Logger
}

// NewAuthHandler creates the auth handler. verifier may be nil when
// federated login is not configured; the route returns 401 in that case.
func NewAuthHandler(us *store.UserStore, tokens *auth.TokenManager, verifier auth.Verifier, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userStore: us, tokens: tokens, verifier: verifier, logger: logger}
}

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, u *model.User) {
	token, err := h.tokens.Issue(u)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: u, Token: token})
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	u, err := h.userStore.Create(req.Email, hash, strings.TrimSpace(req.Name))
	if errors.Is(err, store.ErrDuplicateEmail) {
		writeError(w, http.StatusBadRequest, "Email already exists")
		return
	}
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.respondWithToken(w, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. The response never reveals whether the
// email or the password was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	u, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.respondWithToken(w, u)
}

type federatedRequest struct {
	Assertion string `json:"assertion"`
}

// Federated handles POST /api/auth/federated. First sight of an email
// auto-provisions a user with an unusable password hash, so federated
// accounts can never fall back to password login.
func (h *AuthHandler) Federated(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		writeError(w, http.StatusUnauthorized, "federated login is not configured")
		return
	}

	var req federatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Assertion == "" {
		writeError(w, http.StatusBadRequest, "assertion is required")
		return
	}

	fid, err := h.verifier.Verify(r.Context(), req.Assertion)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "identity verification failed")
		return
	}

	email := strings.ToLower(fid.Email)
	u, err := h.userStore.GetByEmail(email)
	if err != nil {
		h.logger.Error("federated lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if u == nil {
		u, err = h.userStore.Create(email, auth.UnusablePasswordHash(), fid.Name)
		if err != nil {
			h.logger.Error("provision federated user", "error", err)
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
	}

	h.respondWithToken(w, u)
}
