package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calebmorse/taskpoint/internal/auth"
	"github.com/calebmorse/taskpoint/internal/push"
	"github.com/calebmorse/taskpoint/internal/store"
)

type PushHandler struct {
	pushStore *store.PushStore
	service   *push.Service
	logger    *slog.Logger
}

func NewPushHandler(ps *store.PushStore, svc *push.Service, logger *slog.Logger) *PushHandler {
	return &PushHandler{pushStore: ps, service: svc, logger: logger}
}

// subscribeRequest mirrors the browser's PushSubscription JSON.
type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Subscribe handles POST /api/push/subscribe. Idempotent by endpoint:
// re-subscribing refreshes keys instead of duplicating.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Endpoint = strings.TrimSpace(req.Endpoint)
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, "endpoint and keys are required")
		return
	}

	sub, err := h.pushStore.Upsert(auth.UserID(r.Context()), req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		h.logger.Error("save push subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// VAPIDKey handles GET /api/push/vapid-key
func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"public_key": h.service.VAPIDPublicKey()})
}

type testNotificationRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// TestNotification handles POST /api/push/test (admin only): a best-effort
// broadcast to every subscription. A failure on one endpoint never aborts
// delivery to the rest; endpoints the push service reports gone are pruned,
// not retried.
func (h *PushHandler) TestNotification(w http.ResponseWriter, r *http.Request) {
	var req testNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	subs, err := h.pushStore.ListAll()
	if err != nil {
		h.logger.Error("list push subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}

	payload := push.Payload{Title: req.Title, Body: req.Body}
	var sent, failed int
	for i := range subs {
		err := h.service.Send(r.Context(), &subs[i], payload)
		if err == nil {
			sent++
			continue
		}
		failed++
		h.logger.Warn("push send failed", "endpoint", subs[i].Endpoint, "error", err)
		if errors.Is(err, push.ErrGone) {
			if err := h.pushStore.DeleteByEndpoint(subs[i].Endpoint); err != nil {
				h.logger.Error("prune push subscription", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"success_count": sent,
		"fail_count":    failed,
	})
}
