package handler

import (
	"log/slog"
	"net/http"

	"github.com/webgroup/herald/internal/notify"
)

// OnlineChecker reports whether a user currently has an active session.
type OnlineChecker interface {
	IsOnline(userID int64) bool
}

type PresenceHandler struct {
	presence OnlineChecker
	engine   *notify.Engine
	logger   *slog.Logger
}

func NewPresenceHandler(presence OnlineChecker, engine *notify.Engine, logger *slog.Logger) *PresenceHandler {
	return &PresenceHandler{presence: presence, engine: engine, logger: logger}
}

// Online handles GET /api/users/{id}/online
func (h *PresenceHandler) Online(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"online": h.presence.IsOnline(id)})
}

// Flush handles POST /api/users/{id}/flush, delivering the user's eligible
// pending notifications as one batch.
func (h *PresenceHandler) Flush(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.engine.FlushPending(id); err != nil {
		h.logger.Error("flush pending", "user", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to flush pending notifications"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
