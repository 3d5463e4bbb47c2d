package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/calebmorse/taskpoint/internal/auth"
	"github.com/calebmorse/taskpoint/internal/model"
	"github.com/calebmorse/taskpoint/internal/store"
)

type LedgerHandler struct {
	ledgerStore   *store.LedgerStore
	activityStore *store.ActivityStore
	logger        *slog.Logger
}

func NewLedgerHandler(ls *store.LedgerStore, as *store.ActivityStore, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{ledgerStore: ls, activityStore: as, logger: logger}
}

// ListLogs handles GET /api/logs
func (h *LedgerHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.ledgerStore.ListLogs(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list logs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	if logs == nil {
		logs = []model.LogEntry{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type logRequest struct {
	ActivityID   *string `json:"activityId"`
	ActivityName string  `json:"activityName"`
	Points       int     `json:"points"`
}

// CreateLog handles POST /api/logs. When the entry references one of the
// caller's activities, the stored name and points come from the activity
// row, not the request body; the client-supplied values only apply to
// ad-hoc entries (no reference, or a reference that no longer resolves).
func (h *LedgerHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	name := strings.TrimSpace(req.ActivityName)
	points := req.Points

	if req.ActivityID != nil && *req.ActivityID != "" {
		activity, err := h.activityStore.Get(userID, *req.ActivityID)
		if err != nil {
			h.logger.Error("resolve activity", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create log")
			return
		}
		if activity != nil {
			name = activity.Name
			points = activity.Value
		}
	} else {
		req.ActivityID = nil
	}

	if name == "" {
		writeError(w, http.StatusBadRequest, "activityName is required")
		return
	}
	if points <= 0 {
		writeError(w, http.StatusBadRequest, "points must be a positive integer")
		return
	}

	log, err := h.ledgerStore.CreateLog(userID, req.ActivityID, name, points)
	if err != nil {
		h.logger.Error("create log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create log")
		return
	}

	writeJSON(w, http.StatusCreated, log)
}

// TodayEarnings handles GET /api/logs/today. Days are bucketed in UTC.
func (h *LedgerHandler) TodayEarnings(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	total, err := h.ledgerStore.TodayEarnings(auth.UserID(r.Context()), now)
	if err != nil {
		h.logger.Error("today earnings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sum today's earnings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"day":    now.Format("2006-01-02"),
		"points": total,
	})
}

// Balance handles GET /api/balance
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerStore.Balance(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("balance", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute balance")
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// ListRedemptions handles GET /api/redemptions
func (h *LedgerHandler) ListRedemptions(w http.ResponseWriter, r *http.Request) {
	redemptions, err := h.ledgerStore.ListRedemptions(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list redemptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list redemptions")
		return
	}
	if redemptions == nil {
		redemptions = []model.Redemption{}
	}
	writeJSON(w, http.StatusOK, redemptions)
}

type redemptionRequest struct {
	RewardName string `json:"rewardName"`
	Cost       int    `json:"cost"`
}

// CreateRedemption handles POST /api/redemptions. The store's guarded
// insert makes the balance check and the append atomic.
func (h *LedgerHandler) CreateRedemption(w http.ResponseWriter, r *http.Request) {
	var req redemptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.RewardName = strings.TrimSpace(req.RewardName)
	if req.RewardName == "" {
		writeError(w, http.StatusBadRequest, "rewardName is required")
		return
	}
	if req.Cost <= 0 {
		writeError(w, http.StatusBadRequest, "cost must be a positive integer")
		return
	}

	redemption, err := h.ledgerStore.CreateRedemption(auth.UserID(r.Context()), req.RewardName, req.Cost)
	if errors.Is(err, store.ErrInsufficientBalance) {
		writeError(w, http.StatusBadRequest, "insufficient points")
		return
	}
	if err != nil {
		h.logger.Error("create redemption", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create redemption")
		return
	}

	writeJSON(w, http.StatusCreated, redemption)
}
