package handler

import (
	"log/slog"
	"net/http"

	blocksysSvc "inkwell/internal/domain/services/blocksys"
	"inkwell/internal/httputil"
	serviceBlocksys "inkwell/internal/service/blocksys"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService blocksysSvc.DocumentService
	sessions   *serviceBlocksys.Manager
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService blocksysSvc.DocumentService, sessions *serviceBlocksys.Manager, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		sessions:   sessions,
		logger:     logger,
	}
}

// CreateDocument creates a new document
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req blocksysSvc.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.docService.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListDocuments lists a workspace's documents
// GET /api/workspaces/{id}/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathID(w, r)
	if !ok {
		return
	}

	documents, err := h.docService.ListDocuments(r.Context(), workspaceID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, documents)
}

// UpdateDocument applies a partial update
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req blocksysSvc.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.docService.UpdateDocument(r.Context(), id, &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

type moveDocumentRequest struct {
	ParentID *string `json:"parent_id"`
}

// MoveDocument reparents a document; a cyclic target is rejected
// POST /api/documents/{id}/move
func (h *DocumentHandler) MoveDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req moveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.docService.MoveDocument(r.Context(), id, req.ParentID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DuplicateDocument copies a document with fresh IDs
// POST /api/documents/{id}/duplicate
func (h *DocumentHandler) DuplicateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.DuplicateDocument(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// DeleteDocument deletes a document and its descendants
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deletedIDs, err := h.docService.DeleteDocument(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	// Drop any live editor sessions for the deleted subtree
	for _, deletedID := range deletedIDs {
		h.sessions.Drop(deletedID)
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted_ids": deletedIDs,
	})
}
