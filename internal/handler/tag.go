package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// TagHandler handles HTTP requests for tag entities
type TagHandler struct {
	tagService services.TagService
	logger     *slog.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService services.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

// ListTags returns tags visible to the caller.
// GET /api/tags?org_id=
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	tags, err := h.tagService.List(r.Context(), identity, r.URL.Query().Get("org_id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tags)
}

// CreateTag creates a tag.
// POST /api/tags
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)

	var req services.CreateTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tag, err := h.tagService.Create(r.Context(), identity, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, tag)
}
