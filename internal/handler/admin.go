package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/calebmorse/taskpoint/internal/model"
	"github.com/calebmorse/taskpoint/internal/store"
)

// dailyStatBuckets caps how far back the admin daily views reach.
const dailyStatBuckets = 30

type AdminHandler struct {
	userStore   *store.UserStore
	ledgerStore *store.LedgerStore
	logger      *slog.Logger
}

func NewAdminHandler(us *store.UserStore, ls *store.LedgerStore, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{userStore: us, ledgerStore: ls, logger: logger}
}

// ListUsers handles GET /api/admin/users: every user, newest first, with
// lifetime earned and spent totals.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.ledgerStore.ListUserTotals()
	if err != nil {
		h.logger.Error("list user totals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.AdminUser{}
	}
	writeJSON(w, http.StatusOK, users)
}

// DailyStats handles GET /api/admin/stats/daily
func (h *AdminHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	logStats, err := h.ledgerStore.DailyLogStats(dailyStatBuckets)
	if err != nil {
		h.logger.Error("daily log stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	redemptionStats, err := h.ledgerStore.DailyRedemptionStats(dailyStatBuckets)
	if err != nil {
		h.logger.Error("daily redemption stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	if logStats == nil {
		logStats = []model.DailyLogStat{}
	}
	if redemptionStats == nil {
		redemptionStats = []model.DailyRedemptionStat{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"logs":        logStats,
		"redemptions": redemptionStats,
	})
}

// ToggleAdmin handles POST /api/admin/users/{id}/toggle-admin
func (h *AdminHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	u, err := h.userStore.ToggleAdmin(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("toggle admin", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle admin")
		return
	}

	writeJSON(w, http.StatusOK, u)
}
