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

type ActivityHandler struct {
	activityStore *store.ActivityStore
	logger        *slog.Logger
}

func NewActivityHandler(as *store.ActivityStore, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{activityStore: as, logger: logger}
}

type activityRequest struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Icon  string `json:"icon"`
}

func (req *activityRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Value <= 0 {
		return "value must be a positive integer"
	}
	return ""
}

// List handles GET /api/activities
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityStore.List(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list activities", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

// Create handles POST /api/activities
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	activity, err := h.activityStore.Create(auth.UserID(r.Context()), req.Name, req.Value, req.Icon)
	if err != nil {
		h.logger.Error("create activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create activity")
		return
	}

	writeJSON(w, http.StatusCreated, activity)
}

// Update handles PUT /api/activities/{id}
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	activity, err := h.activityStore.Update(auth.UserID(r.Context()), r.PathValue("id"), req.Name, req.Value, req.Icon)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Activity not found")
		return
	}
	if err != nil {
		h.logger.Error("update activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update activity")
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

// Delete handles DELETE /api/activities/{id}. Historical log entries keep
// their snapshots.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.activityStore.Delete(auth.UserID(r.Context()), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Activity not found")
		return
	}
	if err != nil {
		h.logger.Error("delete activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}
