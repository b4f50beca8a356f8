package blocksys

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"inkwell/internal/cache"
	models "inkwell/internal/domain/models/blocksys"
	"inkwell/internal/repository/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T) (*Session, *memory.DocumentRepository) {
	t.Helper()
	repo := memory.NewDocumentRepository()
	doc := models.NewDocument("ws1", "Home", "")
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create doc: %v", err)
	}

	other := models.NewDocument("ws1", "Roadmap", "")
	other.Icon = "🗺"
	if err := repo.Create(context.Background(), other); err != nil {
		t.Fatalf("create doc: %v", err)
	}

	listDocs := func(ctx context.Context) ([]models.Document, error) {
		return repo.ListByWorkspace(ctx, "ws1")
	}
	return NewSession(doc, repo, cache.NewNoopCache(), listDocs, 10*time.Millisecond, testLogger()), repo
}

func TestSlashTriggerOpensAndFilters(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.UpdateBlockContent(0, "/", ScreenPosition{X: 10, Y: 20})
	menu := sess.SlashMenu()
	if !menu.Open || menu.AnchorIndex != 0 || menu.Filter != "" {
		t.Fatalf("slash menu after trigger: %+v", menu)
	}

	sess.UpdateBlockContent(0, "/head", ScreenPosition{X: 10, Y: 20})
	menu = sess.SlashMenu()
	if menu.Filter != "head" {
		t.Errorf("filter = %q, want %q", menu.Filter, "head")
	}
	for _, cmd := range sess.SlashCandidates() {
		if !strings.Contains(strings.ToLower(cmd.Label), "head") &&
			!strings.Contains(strings.ToLower(cmd.Description), "head") {
			t.Errorf("candidate %q does not match filter", cmd.Label)
		}
	}

	// removing the leading slash closes the menu
	sess.UpdateBlockContent(0, "head", ScreenPosition{})
	if sess.SlashMenu().Open {
		t.Error("menu still open after slash removed")
	}
}

func TestSlashCommitChangesBlockType(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.UpdateBlockContent(0, "/head", ScreenPosition{})
	sess.CommitSlashCommand()

	blocks := sess.Blocks()
	if blocks[0].Type != models.BlockTypeHeading1 {
		t.Errorf("type = %q, want %q", blocks[0].Type, models.BlockTypeHeading1)
	}
	if blocks[0].Content != "" {
		t.Errorf("trigger text survived commit: %q", blocks[0].Content)
	}
	if sess.SlashMenu().Open {
		t.Error("menu still open after commit")
	}
}

func TestSlashSelectionClamped(t *testing.T) {
	sess, _ := newTestSession(t)
	sess.OpenSlashMenu(0, ScreenPosition{})

	sess.MoveSlashSelection(-5)
	if got := sess.SlashMenu().SelectedIndex; got != 0 {
		t.Errorf("selection = %d, want 0", got)
	}

	count := len(FilterSlashCommands(""))
	sess.MoveSlashSelection(count + 100)
	if got := sess.SlashMenu().SelectedIndex; got != count-1 {
		t.Errorf("selection = %d, want %d", got, count-1)
	}
}

func TestMenuStateResetsOnReopen(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.UpdateBlockContent(0, "/head", ScreenPosition{})
	sess.MoveSlashSelection(2)
	sess.CloseSlashMenu()

	sess.OpenSlashMenu(0, ScreenPosition{})
	menu := sess.SlashMenu()
	if menu.Filter != "" || menu.SelectedIndex != 0 {
		t.Errorf("stale state survived reopen: %+v", menu)
	}
}

func TestLinkToPageHandsOffToMentionMenu(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.UpdateBlockContent(0, "/link to page", ScreenPosition{X: 5, Y: 6})
	sess.CommitSlashCommand()

	if sess.SlashMenu().Open {
		t.Error("slash menu still open after handoff")
	}
	mention := sess.MentionMenu()
	if !mention.Open || mention.AnchorIndex != 0 {
		t.Fatalf("mention menu after handoff: %+v", mention)
	}
	if got := sess.Blocks()[0].Content; got != "" {
		t.Errorf("anchor content = %q, want empty", got)
	}
}

func TestMentionCommitSplicesToken(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()

	sess.UpdateBlockContent(0, "see road here", ScreenPosition{})
	sess.OpenMentionMenu(0, 4, ScreenPosition{})
	sess.SetMentionFilter("road")

	candidates, err := sess.MentionCandidates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].Title != "Roadmap" {
		t.Fatalf("candidates = %+v", candidates)
	}

	if err := sess.CommitMention(ctx); err != nil {
		t.Fatal(err)
	}

	content := sess.Blocks()[0].Content
	want := "see [[" + candidates[0].ID + "|🗺 Roadmap]] here"
	if content != want {
		t.Errorf("content = %q, want %q", content, want)
	}
	if sess.MentionMenu().Open {
		t.Error("mention menu still open after commit")
	}

	segments := ScanMentions(content)
	if len(segments) != 3 || segments[1].Mention == nil {
		t.Fatalf("token does not scan: %+v", segments)
	}
	if segments[1].Mention.DocumentID != candidates[0].ID {
		t.Error("scanned mention targets wrong document")
	}
}

func TestDeleteLastBlockLeavesOne(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.DeleteBlock(0)
	blocks := sess.Blocks()
	if len(blocks) != 1 || blocks[0].Type != models.BlockTypeText {
		t.Fatalf("blocks after deleting last = %+v", blocks)
	}
}

func TestReplaceBlocksResetsMenus(t *testing.T) {
	sess, _ := newTestSession(t)
	sess.OpenSlashMenu(0, ScreenPosition{})
	sess.OpenMentionMenu(0, 0, ScreenPosition{})

	sess.ReplaceBlocks(nil)
	if sess.SlashMenu().Open || sess.MentionMenu().Open {
		t.Error("menus survived a block list replacement")
	}
	if len(sess.Blocks()) != 1 {
		t.Error("empty replacement did not fall back to one default block")
	}
}

func TestDebouncedSavePersists(t *testing.T) {
	sess, repo := newTestSession(t)

	sess.UpdateBlockContent(0, "hello world", ScreenPosition{})

	// wait out the 10ms debounce window
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if sess.Status() == SaveStatusSaved {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := sess.Status(); got != SaveStatusSaved {
		t.Fatalf("status = %q, want %q", got, SaveStatusSaved)
	}

	stored, err := repo.GetByID(context.Background(), sess.DocumentID())
	if err != nil {
		t.Fatal(err)
	}
	if stored.Blocks[0].Content != "hello world" {
		t.Errorf("stored content = %q", stored.Blocks[0].Content)
	}
}

// failingDocRepo wraps the memory repository and fails every Update.
type failingDocRepo struct {
	*memory.DocumentRepository
}

func (r *failingDocRepo) Update(ctx context.Context, doc *models.Document) error {
	return errors.New("write refused")
}

func TestFailedSaveKeepsBlocks(t *testing.T) {
	repo := memory.NewDocumentRepository()
	doc := models.NewDocument("ws1", "Home", "")
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	failing := &failingDocRepo{repo}
	listDocs := func(ctx context.Context) ([]models.Document, error) {
		return repo.ListByWorkspace(ctx, "ws1")
	}
	sess := NewSession(doc, failing, cache.NewNoopCache(), listDocs, time.Hour, testLogger())

	sess.UpdateBlockContent(0, "unsaved edit", ScreenPosition{})
	if err := sess.Flush(context.Background()); err == nil {
		t.Fatal("Flush should surface the save error")
	}
	if got := sess.Status(); got != SaveStatusError {
		t.Errorf("status = %q, want %q", got, SaveStatusError)
	}
	// in-memory blocks are never rolled back
	if got := sess.Blocks()[0].Content; got != "unsaved edit" {
		t.Errorf("content = %q, want the unsaved edit", got)
	}
}

func TestWithTableSerializesConcurrentMutations(t *testing.T) {
	sess, _ := newTestSession(t)
	sess.ChangeBlockType(0, models.BlockTypeTable, false)

	const workers = 8
	const rowsPerWorker = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rowsPerWorker; j++ {
				err := sess.WithTable(0, func(table *models.InlineTable) error {
					table.AddRow()
					return nil
				})
				if err != nil {
					t.Errorf("table mutation failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	blocks := sess.Blocks()
	if got := len(blocks[0].Table.Rows); got != workers*rowsPerWorker {
		t.Errorf("row count = %d, want %d", got, workers*rowsPerWorker)
	}
}

func TestWithTableRejectsNonTableBlock(t *testing.T) {
	sess, _ := newTestSession(t)

	err := sess.WithTable(0, func(table *models.InlineTable) error {
		table.AddRow()
		return nil
	})
	if err == nil {
		t.Fatal("mutating a text block as a table should fail")
	}
	if sess.Status() != SaveStatusIdle {
		t.Error("rejected table op marked the session dirty")
	}
}

func TestSessionBlocksDetachedFromLiveTable(t *testing.T) {
	sess, _ := newTestSession(t)
	sess.ChangeBlockType(0, models.BlockTypeTable, false)

	snapshot := sess.Blocks()
	before := len(snapshot[0].Table.Rows)

	if err := sess.WithTable(0, func(table *models.InlineTable) error {
		table.AddRow()
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if got := len(snapshot[0].Table.Rows); got != before {
		t.Errorf("snapshot row count changed from %d to %d after a live edit", before, got)
	}
}

// recordingCache is an in-memory DocumentCache for observing what the
// save path writes.
type recordingCache struct {
	mu   sync.Mutex
	docs map[string]*models.Document
}

func newRecordingCache() *recordingCache {
	return &recordingCache{docs: make(map[string]*models.Document)}
}

func (c *recordingCache) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.docs[id], nil
}

func (c *recordingCache) SetDocument(ctx context.Context, doc *models.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[doc.ID] = doc
	return nil
}

func (c *recordingCache) DeleteDocument(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, id)
	return nil
}

func TestFlushRefreshesDocumentCache(t *testing.T) {
	repo := memory.NewDocumentRepository()
	docCache := newRecordingCache()
	ctx := context.Background()

	doc := models.NewDocument("ws1", "Home", "")
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatal(err)
	}
	// a read-through populated the cache before any edits
	stale := *doc
	stale.Blocks = models.CopyBlocks(doc.Blocks)
	if err := docCache.SetDocument(ctx, &stale); err != nil {
		t.Fatal(err)
	}

	listDocs := func(ctx context.Context) ([]models.Document, error) {
		return repo.ListByWorkspace(ctx, "ws1")
	}
	sess := NewSession(doc, repo, docCache, listDocs, time.Hour, testLogger())

	sess.UpdateBlockContent(0, "fresh edit", ScreenPosition{})
	if err := sess.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	cached, err := docCache.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil {
		t.Fatal("cache entry missing after flush")
	}
	if got := cached.Blocks[0].Content; got != "fresh edit" {
		t.Errorf("cached content = %q, want the flushed edit", got)
	}
}

func TestFlushNoopWhenClean(t *testing.T) {
	sess, _ := newTestSession(t)
	if err := sess.Flush(context.Background()); err != nil {
		t.Fatalf("clean flush errored: %v", err)
	}
	if got := sess.Status(); got != SaveStatusIdle {
		t.Errorf("status = %q, want %q", got, SaveStatusIdle)
	}
}
