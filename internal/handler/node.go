package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// NodeHandler handles HTTP requests for node CRUD, ordering, and sharing
type NodeHandler struct {
	nodeService services.NodeService
	logger      *slog.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(nodeService services.NodeService, logger *slog.Logger) *NodeHandler {
	return &NodeHandler{
		nodeService: nodeService,
		logger:      logger,
	}
}

// ListNodes returns all non-deleted nodes in the requested scope.
// GET /api/nodes?org_id=
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	nodes, err := h.nodeService.List(r.Context(), identity, r.URL.Query().Get("org_id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, nodes)
}

// GetNode returns a node, or JSON null when it is missing, deleted, or not
// visible to the caller.
// GET /api/nodes/{id}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	node, err := h.nodeService.Get(r.Context(), identity, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, node)
}

// GetChildren returns the non-deleted direct children of a parent node, or
// the scope roots when parent_id is absent.
// GET /api/nodes/children?parent_id=&org_id=
func (h *NodeHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)

	var parentID *string
	if p := r.URL.Query().Get("parent_id"); p != "" {
		parentID = &p
	}

	children, err := h.nodeService.GetChildren(r.Context(), identity, r.URL.Query().Get("org_id"), parentID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, children)
}

// CreateNode creates a folder or an empty doc.
// POST /api/nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)

	var req services.CreateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.nodeService.Create(r.Context(), identity, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, node)
}

// CreateDocument creates a doc with initial content and an initialized
// version cursor.
// POST /api/documents
func (h *NodeHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)

	var req services.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.nodeService.CreateWithContent(r.Context(), identity, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, node)
}

// updateNodeRequest is the PATCH body for descriptive fields. OptionalString
// distinguishes absent fields from explicit empty values.
type updateNodeRequest struct {
	Title       httputil.OptionalString `json:"title"`
	Icon        httputil.OptionalString `json:"icon"`
	Description httputil.OptionalString `json:"description"`
	Status      *models.DocStatus       `json:"status"`
	TagIDs      []string                `json:"tag_ids"`
}

// UpdateNode applies a partial update of a node's descriptive fields.
// PATCH /api/nodes/{id}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	id := r.PathValue("id")

	var req updateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if req.Title.Present {
		title := ""
		if req.Title.Value != nil {
			title = *req.Title.Value
		}
		if err := h.nodeService.UpdateTitle(ctx, identity, id, title); err != nil {
			handleError(w, err)
			return
		}
	}
	if req.Icon.Present {
		icon := ""
		if req.Icon.Value != nil {
			icon = *req.Icon.Value
		}
		if err := h.nodeService.UpdateIcon(ctx, identity, id, icon); err != nil {
			handleError(w, err)
			return
		}
	}
	if req.Description.Present {
		description := ""
		if req.Description.Value != nil {
			description = *req.Description.Value
		}
		if err := h.nodeService.UpdateDescription(ctx, identity, id, description); err != nil {
			handleError(w, err)
			return
		}
	}
	if req.Status != nil {
		if err := h.nodeService.UpdateStatus(ctx, identity, id, *req.Status); err != nil {
			handleError(w, err)
			return
		}
	}
	if req.TagIDs != nil {
		if err := h.nodeService.UpdateTags(ctx, identity, id, req.TagIDs); err != nil {
			handleError(w, err)
			return
		}
	}

	node, err := h.nodeService.Get(ctx, identity, id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, node)
}

// updateContentRequest carries the opaque content payload.
type updateContentRequest struct {
	Content json.RawMessage `json:"content"`
}

// UpdateContent writes doc content, possibly freezing a version snapshot.
// PUT /api/documents/{id}/content
func (h *NodeHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)

	var req updateContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.nodeService.UpdateContent(r.Context(), identity, r.PathValue("id"), req.Content); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// moveRequest reparents a node.
type moveRequest struct {
	NewParentID *string `json:"new_parent_id"`
}

// MoveNode reparents a node, appending it after the new parent's children.
// POST /api/nodes/{id}/move
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)

	var req moveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.nodeService.Move(r.Context(), identity, r.PathValue("id"), req.NewParentID); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reorderRequest repositions a node within a sibling bucket.
type reorderRequest struct {
	NewParentID *string `json:"new_parent_id"`
	NewOrder    int     `json:"new_order"`
}

// ReorderNode repositions a node, renumbering the destination bucket.
// POST /api/nodes/{id}/reorder
func (h *NodeHandler) ReorderNode(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)

	var req reorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.nodeService.Reorder(r.Context(), identity, r.PathValue("id"), req.NewParentID, req.NewOrder); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNode soft-deletes a node and its direct children.
// DELETE /api/nodes/{id}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	if err := h.nodeService.Remove(r.Context(), identity, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// shareRequest names the organization pool a personal node moves into.
// Empty when unsharing back to the owner's personal pool.
type shareRequest struct {
	OrgID string `json:"org_id,omitempty"`
}

// ToggleSharing flips a node between personal and organization scope.
// POST /api/nodes/{id}/share
func (h *NodeHandler) ToggleSharing(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)

	var req shareRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.nodeService.ToggleSharing(r.Context(), identity, r.PathValue("id"), req.OrgID); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVersions returns a doc's historical snapshots newest-first.
// GET /api/documents/{id}/versions
func (h *NodeHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	versions, err := h.nodeService.ListVersions(r.Context(), identity, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, versions)
}

// HealthCheck reports liveness.
// GET /health
func (h *NodeHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
