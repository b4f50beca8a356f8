package blocksys

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"inkwell/internal/cache"
	models "inkwell/internal/domain/models/blocksys"
	blocksysRepo "inkwell/internal/domain/repositories/blocksys"
)

// SaveStatus is the persistence indicator state for one session.
type SaveStatus string

const (
	SaveStatusIdle   SaveStatus = "idle"
	SaveStatusSaving SaveStatus = "saving"
	SaveStatusSaved  SaveStatus = "saved"
	SaveStatusError  SaveStatus = "error"
)

// ScreenPosition anchors a popup menu to editing-surface coordinates.
type ScreenPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MenuState is the transient state of one suggestion menu (slash or
// mention). Filter and SelectedIndex reset every time the menu
// transitions closed to open, so no stale state survives a reopen.
type MenuState struct {
	Open          bool           `json:"open"`
	AnchorIndex   int            `json:"anchor_index"`
	Position      ScreenPosition `json:"position"`
	Filter        string         `json:"filter"`
	SelectedIndex int            `json:"selected_index"`

	// insertOffset is where the mention token replaces the in-flight
	// filter text inside the anchor block's content.
	insertOffset int
}

// Session is the editor controller for one active document. All block
// mutations are synchronous total functions: no input leaves the block
// list invalid, and the list is never empty.
//
// Persistence is debounced: edits mark the session dirty and a save runs
// after the quiet period. A failed save only moves the status indicator
// to error; in-memory blocks are never rolled back, and the next edit
// cycle re-saves them.
type Session struct {
	mu sync.Mutex

	doc      *models.Document
	docRepo  blocksysRepo.DocumentRepository
	docCache cache.DocumentCache
	listDocs func(ctx context.Context) ([]models.Document, error)
	debounce time.Duration
	revert   time.Duration
	logger   *slog.Logger

	dirty       bool
	status      SaveStatus
	saveTimer   *time.Timer
	revertTimer *time.Timer

	slashMenu   MenuState
	mentionMenu MenuState
}

// savedStatusRevert is how long the indicator shows "saved" before
// auto-reverting to idle.
const savedStatusRevert = 2 * time.Second

// NewSession creates an editor session over a loaded document.
func NewSession(
	doc *models.Document,
	docRepo blocksysRepo.DocumentRepository,
	docCache cache.DocumentCache,
	listDocs func(ctx context.Context) ([]models.Document, error),
	debounce time.Duration,
	logger *slog.Logger,
) *Session {
	if len(doc.Blocks) == 0 {
		doc.Blocks = []models.Block{models.NewBlock(models.BlockTypeText)}
	}
	return &Session{
		doc:      doc,
		docRepo:  docRepo,
		docCache: docCache,
		listDocs: listDocs,
		debounce: debounce,
		revert:   savedStatusRevert,
		logger:   logger,
		status:   SaveStatusIdle,
	}
}

// DocumentID returns the ID of the session's document.
func (s *Session) DocumentID() string {
	return s.doc.ID
}

// Blocks returns a deep copy of the current block list. The copy shares
// no table state with the session, so callers can serialize it while
// edits continue.
func (s *Session) Blocks() []models.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CopyBlocks(s.doc.Blocks)
}

// Status returns the current save indicator state.
func (s *Session) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// InsertBlockAfter splices a new default block of the given type
// immediately after index and returns it.
func (s *Session) InsertBlockAfter(index int, blockType string) models.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	blk := models.NewBlock(blockType)
	s.doc.Blocks = models.InsertAfter(s.doc.Blocks, index, blk)
	s.markDirtyLocked()
	return blk
}

// DeleteBlock removes the block at index. Deleting the last block leaves
// a single fresh text block in its place.
func (s *Session) DeleteBlock(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Blocks = models.DeleteAt(s.doc.Blocks, index)
	s.markDirtyLocked()
}

// ChangeBlockType retypes the block at index.
func (s *Session) ChangeBlockType(index int, newType string, preserveContent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Blocks = models.ChangeType(s.doc.Blocks, index, newType, preserveContent)
	s.markDirtyLocked()
}

// UpdateBlockContent replaces the content of the block at index. It also
// drives the slash trigger: content beginning with "/" opens the slash
// menu anchored to that block and feeds the rest as filter text, and
// removing the "/" closes it again.
func (s *Session) UpdateBlockContent(index int, content string, pos ScreenPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Blocks = models.UpdateContent(s.doc.Blocks, index, content)

	if strings.HasPrefix(content, "/") {
		filter := content[1:]
		if !s.slashMenu.Open {
			s.slashMenu = MenuState{Open: true, AnchorIndex: index, Position: pos}
		}
		if s.slashMenu.Filter != filter {
			s.slashMenu.Filter = filter
			s.slashMenu.SelectedIndex = 0
		}
	} else if s.slashMenu.Open && s.slashMenu.AnchorIndex == index {
		s.slashMenu = MenuState{}
	}

	s.markDirtyLocked()
}

// UpdateBlockProperties shallow-merges the patch into the block at index.
func (s *Session) UpdateBlockProperties(index int, patch models.BlockProperties) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Blocks = models.MergeProperties(s.doc.Blocks, index, patch)
	s.markDirtyLocked()
}

// ToggleTodo flips the checked state of a todo block in place (direct
// click, no edit mode).
func (s *Session) ToggleTodo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.doc.Blocks) {
		return
	}
	blk := s.doc.Blocks[index]
	if blk.Type != models.BlockTypeTodo {
		return
	}
	checked := !blk.IsChecked()
	s.doc.Blocks = models.MergeProperties(s.doc.Blocks, index, models.BlockProperties{Checked: &checked})
	s.markDirtyLocked()
}

// WithTable runs fn against the inline table of the block at index while
// holding the session lock, so concurrent operation batches never touch
// the table at the same time. A successful fn schedules persistence; an
// error from fn leaves the dirty state alone.
func (s *Session) WithTable(index int, fn func(*models.InlineTable) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.doc.Blocks) || s.doc.Blocks[index].Table == nil {
		return fmt.Errorf("block %d is not a table", index)
	}
	if err := fn(s.doc.Blocks[index].Table); err != nil {
		return err
	}
	s.markDirtyLocked()
	return nil
}

// ReplaceBlocks swaps in the block list produced by an HTML round trip.
// The old blocks are discarded wholesale - the converter synthesizes
// fresh IDs, so any ID-keyed state (menu anchors included) is reset.
func (s *Session) ReplaceBlocks(blocks []models.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(blocks) == 0 {
		blocks = []models.Block{models.NewBlock(models.BlockTypeText)}
	}
	s.doc.Blocks = blocks
	s.slashMenu = MenuState{}
	s.mentionMenu = MenuState{}
	s.markDirtyLocked()
}

// ApplyBlockFormat applies a selection-driven block-level format to the
// block containing the selection anchor: heading/text conversions keep
// the typed content, alignment merges a property. Inline styles (bold,
// italic, color) are the editing surface's native commands and never
// reach the controller.
func (s *Session) ApplyBlockFormat(index int, format string) {
	switch format {
	case models.BlockTypeText, models.BlockTypeHeading1, models.BlockTypeHeading2, models.BlockTypeHeading3:
		s.ChangeBlockType(index, format, true)
	case "alignLeft":
		s.UpdateBlockProperties(index, models.BlockProperties{Align: "left"})
	case "alignCenter":
		s.UpdateBlockProperties(index, models.BlockProperties{Align: "center"})
	case "alignRight":
		s.UpdateBlockProperties(index, models.BlockProperties{Align: "right"})
	}
}

// --- slash menu ---

// OpenSlashMenu opens the slash menu anchored to a block, with fresh
// filter and selection state.
func (s *Session) OpenSlashMenu(anchorIndex int, pos ScreenPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slashMenu = MenuState{Open: true, AnchorIndex: anchorIndex, Position: pos}
}

// CloseSlashMenu closes the slash menu without committing.
func (s *Session) CloseSlashMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slashMenu = MenuState{}
}

// SlashMenu returns the current slash menu state.
func (s *Session) SlashMenu() MenuState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slashMenu
}

// SlashCandidates returns the filtered command list for the open menu.
func (s *Session) SlashCandidates() []SlashCommand {
	s.mu.Lock()
	filter := s.slashMenu.Filter
	s.mu.Unlock()
	return FilterSlashCommands(filter)
}

// MoveSlashSelection moves the highlighted command by delta, clamped to
// the filtered list bounds.
func (s *Session) MoveSlashSelection(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.slashMenu.Open {
		return
	}
	count := len(FilterSlashCommands(s.slashMenu.Filter))
	s.slashMenu.SelectedIndex = clamp(s.slashMenu.SelectedIndex+delta, 0, count-1)
}

// CommitSlashCommand executes the highlighted command. Block-type
// commands retype the anchor block (dropping the "/filter" text) and
// close the menu. "Link to page" clears the anchor content and opens the
// mention menu at the same position instead.
func (s *Session) CommitSlashCommand() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.slashMenu.Open {
		return
	}
	candidates := FilterSlashCommands(s.slashMenu.Filter)
	if len(candidates) == 0 {
		s.slashMenu = MenuState{}
		return
	}
	idx := clamp(s.slashMenu.SelectedIndex, 0, len(candidates)-1)
	cmd := candidates[idx]
	anchor := s.slashMenu.AnchorIndex
	pos := s.slashMenu.Position
	s.slashMenu = MenuState{}

	if cmd.ID == CommandLinkToPage {
		s.doc.Blocks = models.UpdateContent(s.doc.Blocks, anchor, "")
		s.mentionMenu = MenuState{Open: true, AnchorIndex: anchor, Position: pos}
		s.markDirtyLocked()
		return
	}

	s.doc.Blocks = models.ChangeType(s.doc.Blocks, anchor, cmd.BlockType, false)
	s.markDirtyLocked()
}

// --- mention menu ---

// OpenMentionMenu opens the mention menu anchored to a block at the
// given content offset.
func (s *Session) OpenMentionMenu(anchorIndex, insertOffset int, pos ScreenPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mentionMenu = MenuState{Open: true, AnchorIndex: anchorIndex, Position: pos, insertOffset: insertOffset}
}

// CloseMentionMenu closes the mention menu without committing.
func (s *Session) CloseMentionMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mentionMenu = MenuState{}
}

// MentionMenu returns the current mention menu state.
func (s *Session) MentionMenu() MenuState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mentionMenu
}

// SetMentionFilter replaces the in-flight filter text and resets the
// selection.
func (s *Session) SetMentionFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mentionMenu.Open {
		return
	}
	s.mentionMenu.Filter = filter
	s.mentionMenu.SelectedIndex = 0
}

// MentionCandidates filters the workspace's documents by title
// substring, case-insensitively.
func (s *Session) MentionCandidates(ctx context.Context) ([]models.Document, error) {
	s.mu.Lock()
	filter := strings.ToLower(strings.TrimSpace(s.mentionMenu.Filter))
	s.mu.Unlock()

	documents, err := s.listDocs(ctx)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return documents, nil
	}
	var out []models.Document
	for _, doc := range documents {
		if strings.Contains(strings.ToLower(doc.Title), filter) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// MoveMentionSelection moves the highlighted candidate by delta, clamped
// to the candidate list bounds.
func (s *Session) MoveMentionSelection(ctx context.Context, delta int) {
	candidates, err := s.MentionCandidates(ctx)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mentionMenu.Open {
		return
	}
	s.mentionMenu.SelectedIndex = clamp(s.mentionMenu.SelectedIndex+delta, 0, len(candidates)-1)
}

// CommitMention inserts the highlighted document's [[id|label]] token
// into the anchor block's content at the recorded offset, replacing the
// in-flight filter text, and closes the menu.
func (s *Session) CommitMention(ctx context.Context) error {
	candidates, err := s.MentionCandidates(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mentionMenu.Open || len(candidates) == 0 {
		s.mentionMenu = MenuState{}
		return nil
	}
	idx := clamp(s.mentionMenu.SelectedIndex, 0, len(candidates)-1)
	target := candidates[idx]
	menu := s.mentionMenu
	s.mentionMenu = MenuState{}

	if menu.AnchorIndex < 0 || menu.AnchorIndex >= len(s.doc.Blocks) {
		return nil
	}
	content := s.doc.Blocks[menu.AnchorIndex].Content
	offset := menu.insertOffset
	if offset > len(content) {
		offset = len(content)
	}
	// The filter text between the offset and the caret is what triggered
	// the menu; the token replaces it.
	end := offset + len(menu.Filter)
	if end > len(content) {
		end = len(content)
	}
	token := MentionToken(&target)
	updated := content[:offset] + token + content[end:]
	s.doc.Blocks = models.UpdateContent(s.doc.Blocks, menu.AnchorIndex, updated)
	s.markDirtyLocked()
	return nil
}

// --- persistence ---

// markDirtyLocked schedules a debounced save. Callers hold s.mu.
func (s *Session) markDirtyLocked() {
	s.dirty = true
	s.doc.UpdatedAt = time.Now()

	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounce, func() {
		// Background flush; errors surface through the status indicator.
		_ = s.Flush(context.Background())
	})
}

// Flush persists the document immediately if dirty. The status indicator
// moves saving -> saved -> idle on success, or saving -> error on
// failure; blocks are never rolled back on error.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	s.dirty = false
	s.status = SaveStatusSaving
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	doc := *s.doc
	doc.Blocks = models.CopyBlocks(s.doc.Blocks)
	s.mu.Unlock()

	err := s.docRepo.Update(ctx, &doc)
	if err == nil {
		// Keep cached reads in step with what was just persisted
		if cacheErr := s.docCache.SetDocument(ctx, &doc); cacheErr != nil {
			s.logger.Warn("failed to refresh document cache", "document_id", doc.ID, "error", cacheErr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = SaveStatusError
		s.dirty = true // retried on the next edit cycle's debounce window
		s.logger.Error("document save failed", "document_id", doc.ID, "error", err)
		return err
	}

	s.status = SaveStatusSaved
	if s.revertTimer != nil {
		s.revertTimer.Stop()
	}
	s.revertTimer = time.AfterFunc(s.revert, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.status == SaveStatusSaved {
			s.status = SaveStatusIdle
		}
	})
	s.logger.Debug("document saved", "document_id", doc.ID, "block_count", len(doc.Blocks))
	return nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Manager hands out editor sessions keyed by document ID. One document
// is edited through one session; concurrent sessions for the same
// document from different processes remain last-write-wins.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	docRepo  blocksysRepo.DocumentRepository
	docCache cache.DocumentCache
	debounce time.Duration
	logger   *slog.Logger
}

// NewManager creates a session manager.
func NewManager(docRepo blocksysRepo.DocumentRepository, docCache cache.DocumentCache, debounce time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		docRepo:  docRepo,
		docCache: docCache,
		debounce: debounce,
		logger:   logger,
	}
}

// Session returns the live session for a document, loading the document
// on first use.
func (m *Manager) Session(ctx context.Context, documentID string) (*Session, error) {
	m.mu.Lock()
	if sess, ok := m.sessions[documentID]; ok {
		m.mu.Unlock()
		return sess, nil
	}
	m.mu.Unlock()

	doc, err := m.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[documentID]; ok {
		return sess, nil
	}
	workspaceID := doc.WorkspaceID
	listDocs := func(ctx context.Context) ([]models.Document, error) {
		return m.docRepo.ListByWorkspace(ctx, workspaceID)
	}
	sess := NewSession(doc, m.docRepo, m.docCache, listDocs, m.debounce, m.logger)
	m.sessions[documentID] = sess
	return sess, nil
}

// Close flushes and drops a session. Used when a document is deleted or
// the editor navigates away.
func (m *Manager) Close(ctx context.Context, documentID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[documentID]
	delete(m.sessions, documentID)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return sess.Flush(ctx)
}

// Drop removes a session without flushing (document deleted).
func (m *Manager) Drop(documentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, documentID)
}
