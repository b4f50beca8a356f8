package handler

import (
	"io"
	"log/slog"
	"net/http"

	blocksysSvc "inkwell/internal/domain/services/blocksys"
	"inkwell/internal/httputil"
)

// maxImportBytes bounds a whole upload batch.
const maxImportBytes = 50 << 20

// ImportHandler handles bulk markdown import
type ImportHandler struct {
	importService blocksysSvc.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService blocksysSvc.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{importService: importService, logger: logger}
}

// Import imports markdown files into a workspace. Files arrive as
// multipart form data under the "files" field; the workspace comes from
// the "workspace_id" form value.
// POST /api/import
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	workspaceID := r.FormValue("workspace_id")
	if workspaceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "workspace_id is required")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	var files []blocksysSvc.ImportFile
	for _, header := range fileHeaders {
		f, err := header.Open()
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "failed to read uploaded file "+header.Filename)
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "failed to read uploaded file "+header.Filename)
			return
		}
		files = append(files, blocksysSvc.ImportFile{
			Name:    header.Filename,
			Content: content,
		})
	}

	result, err := h.importService.ImportFiles(r.Context(), workspaceID, files)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}
