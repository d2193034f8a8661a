package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// SearchHandler handles HTTP requests for title search
type SearchHandler struct {
	searchService services.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService services.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// Search returns ranked title matches.
// GET /api/search?q=&org_id=&limit=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)

	opts := &models.SearchOptions{
		Query: r.URL.Query().Get("q"),
		OrgID: r.URL.Query().Get("org_id"),
		Limit: queryInt(r, "limit"),
	}

	results, err := h.searchService.Search(r.Context(), identity, opts)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, results)
}
