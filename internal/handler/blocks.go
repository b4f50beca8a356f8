package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	models "inkwell/internal/domain/models/blocksys"
	"inkwell/internal/httputil"
	serviceBlocksys "inkwell/internal/service/blocksys"
)

// BlockOpsHandler applies editor operations to a document's live
// session: block mutations, inline table sub-operations and the slash
// and mention menu state machines.
type BlockOpsHandler struct {
	sessions *serviceBlocksys.Manager
	logger   *slog.Logger
}

// NewBlockOpsHandler creates a new block operations handler
func NewBlockOpsHandler(sessions *serviceBlocksys.Manager, logger *slog.Logger) *BlockOpsHandler {
	return &BlockOpsHandler{sessions: sessions, logger: logger}
}

// blockOp is one editor operation. Op selects the action; the other
// fields are read per-op and ignored otherwise.
type blockOp struct {
	Op string `json:"op"`

	Index           int                            `json:"index"`
	BlockType       string                         `json:"block_type,omitempty"`
	Content         string                         `json:"content,omitempty"`
	PreserveContent bool                           `json:"preserve_content,omitempty"`
	Properties      *models.BlockProperties        `json:"properties,omitempty"`
	Position        serviceBlocksys.ScreenPosition `json:"position"`
	Format          string                         `json:"format,omitempty"`

	// menu fields
	Delta  int    `json:"delta,omitempty"`
	Filter string `json:"filter,omitempty"`
	Offset int    `json:"offset,omitempty"`

	// table fields
	ColumnID   string      `json:"column_id,omitempty"`
	ColumnType string      `json:"column_type,omitempty"`
	RowID      string      `json:"row_id,omitempty"`
	ViewID     string      `json:"view_id,omitempty"`
	ViewType   string      `json:"view_type,omitempty"`
	Name       string      `json:"name,omitempty"`
	Value      interface{} `json:"value,omitempty"`
}

type blockOpsRequest struct {
	Ops []blockOp `json:"ops"`
}

// Apply runs a batch of operations in order against the document's
// session and returns the resulting editor state.
// POST /api/documents/{id}/blocks/ops
func (h *BlockOpsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req blockOpsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Ops) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "at least one operation is required")
		return
	}

	sess, err := h.sessions.Session(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	for i, op := range req.Ops {
		if err := h.apply(r, sess, op); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("operation %d (%s): %v", i, op.Op, err))
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"document_id":  id,
		"blocks":       sess.Blocks(),
		"slash_menu":   sess.SlashMenu(),
		"mention_menu": sess.MentionMenu(),
		"save_status":  sess.Status(),
	})
}

func (h *BlockOpsHandler) apply(r *http.Request, sess *serviceBlocksys.Session, op blockOp) error {
	switch op.Op {
	case "insert_after":
		sess.InsertBlockAfter(op.Index, op.BlockType)
	case "delete":
		sess.DeleteBlock(op.Index)
	case "change_type":
		sess.ChangeBlockType(op.Index, op.BlockType, op.PreserveContent)
	case "update_content":
		sess.UpdateBlockContent(op.Index, op.Content, op.Position)
	case "update_properties":
		if op.Properties == nil {
			return fmt.Errorf("properties are required")
		}
		sess.UpdateBlockProperties(op.Index, *op.Properties)
	case "toggle_todo":
		sess.ToggleTodo(op.Index)
	case "format":
		sess.ApplyBlockFormat(op.Index, op.Format)

	case "slash_open":
		sess.OpenSlashMenu(op.Index, op.Position)
	case "slash_move":
		sess.MoveSlashSelection(op.Delta)
	case "slash_commit":
		sess.CommitSlashCommand()
	case "slash_close":
		sess.CloseSlashMenu()

	case "mention_open":
		sess.OpenMentionMenu(op.Index, op.Offset, op.Position)
	case "mention_filter":
		sess.SetMentionFilter(op.Filter)
	case "mention_move":
		sess.MoveMentionSelection(r.Context(), op.Delta)
	case "mention_commit":
		return sess.CommitMention(r.Context())
	case "mention_close":
		sess.CloseMentionMenu()

	default:
		return h.applyTableOp(sess, op)
	}
	return nil
}

// applyTableOp mutates the inline table of the block at op.Index. The
// mutation runs inside the session lock, so concurrent batches against
// the same document never touch a table simultaneously.
func (h *BlockOpsHandler) applyTableOp(sess *serviceBlocksys.Session, op blockOp) error {
	if !isTableOp(op.Op) {
		return fmt.Errorf("unknown operation %q", op.Op)
	}

	return sess.WithTable(op.Index, func(table *models.InlineTable) error {
		switch op.Op {
		case "table_add_column":
			table.AddColumn(op.Name, op.ColumnType)
		case "table_rename_column":
			if !table.RenameColumn(op.ColumnID, op.Name) {
				return fmt.Errorf("unknown column %s", op.ColumnID)
			}
		case "table_delete_column":
			if !table.DeleteColumn(op.ColumnID) {
				return fmt.Errorf("unknown column %s", op.ColumnID)
			}
		case "table_add_row":
			table.AddRow()
		case "table_delete_row":
			if !table.DeleteRow(op.RowID) {
				return fmt.Errorf("unknown row %s", op.RowID)
			}
		case "table_update_cell":
			if !table.UpdateCell(op.RowID, op.ColumnID, op.Value) {
				return fmt.Errorf("cell %s/%s is unknown or read-only", op.RowID, op.ColumnID)
			}
		case "table_add_view":
			table.AddView(op.Name, op.ViewType)
		case "table_delete_view":
			if !table.DeleteView(op.ViewID) {
				return fmt.Errorf("view %s is unknown or the last view", op.ViewID)
			}
		case "table_set_active_view":
			if !table.SetActiveView(op.ViewID) {
				return fmt.Errorf("unknown view %s", op.ViewID)
			}
		}
		return nil
	})
}

func isTableOp(op string) bool {
	switch op {
	case "table_add_column", "table_rename_column", "table_delete_column",
		"table_add_row", "table_delete_row", "table_update_cell",
		"table_add_view", "table_delete_view", "table_set_active_view":
		return true
	}
	return false
}

// Commands returns the slash command registry, optionally filtered
// GET /api/commands?q=
func (h *BlockOpsHandler) Commands(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, serviceBlocksys.FilterSlashCommands(r.URL.Query().Get("q")))
}

// MentionCandidates lists the open mention menu's filtered documents
// GET /api/documents/{id}/mentions
func (h *BlockOpsHandler) MentionCandidates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sess, err := h.sessions.Session(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	candidates, err := sess.MentionCandidates(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, candidates)
}
