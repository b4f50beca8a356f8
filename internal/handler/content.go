package handler

import (
	"log/slog"
	"net/http"

	blocksysSvc "inkwell/internal/domain/services/blocksys"
	"inkwell/internal/httputil"
	serviceBlocksys "inkwell/internal/service/blocksys"
	"inkwell/internal/service/blocksys/converter/sanitizer"
)

// ContentHandler bridges the block model and the editing surface's HTML.
// Inbound HTML passes through the sanitizer before parsing; outbound
// HTML is emitted with all text escaped.
type ContentHandler struct {
	docService blocksysSvc.DocumentService
	bridge     blocksysSvc.ContentBridge
	exporter   blocksysSvc.Exporter
	sanitizer  *sanitizer.HTMLSanitizer
	sessions   *serviceBlocksys.Manager
	logger     *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(
	docService blocksysSvc.DocumentService,
	bridge blocksysSvc.ContentBridge,
	exporter blocksysSvc.Exporter,
	htmlSanitizer *sanitizer.HTMLSanitizer,
	sessions *serviceBlocksys.Manager,
	logger *slog.Logger,
) *ContentHandler {
	return &ContentHandler{
		docService: docService,
		bridge:     bridge,
		exporter:   exporter,
		sanitizer:  htmlSanitizer,
		sessions:   sessions,
		logger:     logger,
	}
}

// GetContent renders a document's blocks as rich-text HTML
// GET /api/documents/{id}/content
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": doc.ID,
		"html":        h.bridge.BlocksToHTML(doc.Blocks),
	})
}

type putContentRequest struct {
	HTML string `json:"html"`
}

// PutContent replaces a document's blocks from edited HTML. The HTML is
// sanitized, parsed into fresh-ID blocks, and handed to the editor
// session so persistence runs through the usual debounce.
// PUT /api/documents/{id}/content
func (h *ContentHandler) PutContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req putContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessions.Session(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	clean := h.sanitizer.Sanitize(req.HTML)
	blocks := h.bridge.HTMLToBlocks(clean)
	sess.ReplaceBlocks(blocks)

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": id,
		"blocks":      sess.Blocks(),
		"save_status": sess.Status(),
	})
}

// Export renders a document as markdown
// GET /api/documents/{id}/export
func (h *ContentHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	markdown, err := h.exporter.Export(r.Context(), doc)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(markdown))
}

// SaveStatus reports the editor session's save indicator state
// GET /api/documents/{id}/save-status
func (h *ContentHandler) SaveStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sess, err := h.sessions.Session(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": id,
		"save_status": sess.Status(),
	})
}
