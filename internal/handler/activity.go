package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// ActivityHandler handles HTTP requests for the audit trail
type ActivityHandler struct {
	activityService services.ActivityService
	logger          *slog.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService services.ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// ListRecent returns the newest audit trail entries visible to the caller.
// GET /api/activity?org_id=&limit=
func (h *ActivityHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	entries, err := h.activityService.ListRecent(r.Context(), identity, r.URL.Query().Get("org_id"), queryInt(r, "limit"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}
