package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/webgroup/herald/internal/model"
	"github.com/webgroup/herald/internal/store"
)

type WindowHandler struct {
	windows *store.WindowStore
	users   *store.UserStore
	logger  *slog.Logger
}

func NewWindowHandler(ws *store.WindowStore, us *store.UserStore, logger *slog.Logger) *WindowHandler {
	return &WindowHandler{windows: ws, users: us, logger: logger}
}

type windowRequest struct {
	Weekday model.Weekday    `json:"weekday"`
	Start   *model.ClockTime `json:"start"`
	End     *model.ClockTime `json:"end"`
}

// ListByUser handles GET /api/users/{id}/windows
func (h *WindowHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	windows, err := h.windows.ListByUser(userID)
	if err != nil {
		h.logger.Error("list windows", "user", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list windows"})
		return
	}
	if windows == nil {
		windows = []model.NotificationWindow{}
	}
	writeJSON(w, http.StatusOK, windows)
}

// Create handles POST /api/users/{id}/windows
func (h *WindowHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		h.logger.Error("get user", "id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get user"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	var req windowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	window, err := h.windows.Create(userID, req.Weekday, req.Start, req.End)
	if err != nil {
		h.logger.Error("create window", "user", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create window"})
		return
	}
	writeJSON(w, http.StatusCreated, window)
}

// Update handles PUT /api/windows/{id}
func (h *WindowHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.windows.GetByID(id)
	if err != nil {
		h.logger.Error("get window", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get window"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "window not found"})
		return
	}

	var req windowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	window, err := h.windows.Update(id, req.Weekday, req.Start, req.End)
	if err != nil {
		h.logger.Error("update window", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update window"})
		return
	}
	writeJSON(w, http.StatusOK, window)
}

// Delete handles DELETE /api/windows/{id}
func (h *WindowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.windows.GetByID(id)
	if err != nil {
		h.logger.Error("get window", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get window"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "window not found"})
		return
	}

	if err := h.windows.Delete(id); err != nil {
		h.logger.Error("delete window", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete window"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
