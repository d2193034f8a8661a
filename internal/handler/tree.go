package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// TreeHandler handles HTTP requests for subtree traversals
type TreeHandler struct {
	treeService services.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetFolderStats returns aggregate counts and estimated words for a folder's
// subtree, or JSON null when the folder is not visible.
// GET /api/folders/{id}/stats
func (h *TreeHandler) GetFolderStats(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	stats, err := h.treeService.GetFolderStats(r.Context(), identity, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stats)
}

// GetFolderContributors returns the folder's ranked contributor list.
// GET /api/folders/{id}/contributors?limit=
func (h *TreeHandler) GetFolderContributors(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	contributors, err := h.treeService.GetFolderContributors(r.Context(), identity, r.PathValue("id"), queryInt(r, "limit"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, contributors)
}

// GetDescendants returns a nested snapshot of the folder's subtree.
// GET /api/folders/{id}/descendants?max_depth=
func (h *TreeHandler) GetDescendants(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	tree, err := h.treeService.GetDescendants(r.Context(), identity, r.PathValue("id"), queryInt(r, "max_depth"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tree)
}
