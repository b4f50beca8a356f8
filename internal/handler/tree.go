package handler

import (
	"log/slog"
	"net/http"

	blocksysSvc "inkwell/internal/domain/services/blocksys"
	"inkwell/internal/httputil"
)

// TreeHandler serves the sidebar's document tree views
type TreeHandler struct {
	treeService blocksysSvc.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService blocksysSvc.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{treeService: treeService, logger: logger}
}

// GetTree returns the workspace's nested document tree. With ?q= the
// tree is pruned to matches and their ancestors.
// GET /api/workspaces/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")

	if query != "" {
		tree, err := h.treeService.GetFilteredTree(r.Context(), workspaceID, query)
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, tree)
		return
	}

	tree, err := h.treeService.GetWorkspaceTree(r.Context(), workspaceID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tree)
}

// GetExpanded returns the node IDs the sidebar should hold open: the
// ancestors of search matches plus the active document's ancestors.
// GET /api/workspaces/{id}/tree/expanded?q=&active=
func (h *TreeHandler) GetExpanded(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	active := r.URL.Query().Get("active")

	expanded, err := h.treeService.GetExpandedIDs(r.Context(), workspaceID, query, active)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	ids := make([]string, 0, len(expanded))
	for id := range expanded {
		ids = append(ids, id)
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"expanded_ids": ids,
	})
}
