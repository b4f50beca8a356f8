package blocksys

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/blocksys"
	blocksysSvc "inkwell/internal/domain/services/blocksys"
	"inkwell/internal/httputil"
	"inkwell/internal/repository/memory"
)

func newTestServices(t *testing.T) (blocksysSvc.DocumentService, blocksysSvc.WorkspaceService, *models.Workspace) {
	t.Helper()
	docRepo := memory.NewDocumentRepository()
	wsRepo := memory.NewWorkspaceRepository()
	logger := testLogger()

	validator := NewResourceValidator(wsRepo, docRepo)
	docService := NewDocumentService(docRepo, memory.NewTransactionManager(), cache.NewNoopCache(), validator, logger)
	wsService := NewWorkspaceService(wsRepo, logger)

	ws, err := wsService.CreateWorkspace(context.Background(), "Test Workspace")
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	return docService, wsService, ws
}

func TestCreateDocumentDefaults(t *testing.T) {
	docService, _, ws := newTestServices(t)
	ctx := context.Background()

	doc, err := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{
		WorkspaceID: ws.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != models.DefaultTitle {
		t.Errorf("title = %q, want %q", doc.Title, models.DefaultTitle)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Type != models.BlockTypeText {
		t.Errorf("new document blocks = %+v, want one text block", doc.Blocks)
	}
}

func TestCreateDocumentUnknownWorkspace(t *testing.T) {
	docService, _, _ := newTestServices(t)

	_, err := docService.CreateDocument(context.Background(), &blocksysSvc.CreateDocumentRequest{
		WorkspaceID: "missing",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateDocumentTriState(t *testing.T) {
	docService, _, ws := newTestServices(t)
	ctx := context.Background()

	doc, err := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{
		WorkspaceID: ws.ID,
		Title:       "Page",
		Icon:        "📄",
	})
	if err != nil {
		t.Fatal(err)
	}

	// absent icon field leaves it alone
	title := "Renamed"
	updated, err := docService.UpdateDocument(ctx, doc.ID, &blocksysSvc.UpdateDocumentRequest{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Icon != "📄" {
		t.Errorf("absent field changed icon to %q", updated.Icon)
	}
	if updated.Title != "Renamed" {
		t.Errorf("title = %q", updated.Title)
	}

	// explicit null clears it
	updated, err = docService.UpdateDocument(ctx, doc.ID, &blocksysSvc.UpdateDocumentRequest{
		Icon: httputil.OptionalString{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Icon != "" {
		t.Errorf("null did not clear icon: %q", updated.Icon)
	}
}

func TestMoveDocumentRejectsCycle(t *testing.T) {
	docService, _, ws := newTestServices(t)
	ctx := context.Background()

	parent, err := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{WorkspaceID: ws.ID, Title: "Parent"})
	if err != nil {
		t.Fatal(err)
	}
	child, err := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{WorkspaceID: ws.ID, Title: "Child", ParentID: &parent.ID})
	if err != nil {
		t.Fatal(err)
	}

	_, err = docService.MoveDocument(ctx, parent.ID, &child.ID)
	if !errors.Is(err, domain.ErrCyclicMove) {
		t.Fatalf("err = %v, want ErrCyclicMove", err)
	}

	// the rejected move must not have been persisted
	got, err := docService.GetDocument(ctx, parent.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ParentID != nil {
		t.Errorf("rejected move persisted parent %v", *got.ParentID)
	}

	// a legal move to root works
	moved, err := docService.MoveDocument(ctx, child.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if moved.ParentID != nil {
		t.Error("move to root kept a parent")
	}
}

func TestDeleteDocumentCascades(t *testing.T) {
	docService, _, ws := newTestServices(t)
	ctx := context.Background()

	root, _ := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{WorkspaceID: ws.ID, Title: "Root"})
	child, _ := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{WorkspaceID: ws.ID, Title: "Child", ParentID: &root.ID})
	grand, _ := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{WorkspaceID: ws.ID, Title: "Grand", ParentID: &child.ID})
	other, _ := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{WorkspaceID: ws.ID, Title: "Other"})

	deletedIDs, err := docService.DeleteDocument(ctx, root.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(deletedIDs) != 3 || deletedIDs[0] != root.ID {
		t.Fatalf("deleted IDs = %v", deletedIDs)
	}

	for _, id := range []string{root.ID, child.ID, grand.ID} {
		if _, err := docService.GetDocument(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("document %s survived cascade", id)
		}
	}
	if _, err := docService.GetDocument(ctx, other.ID); err != nil {
		t.Errorf("unrelated document was deleted: %v", err)
	}
}

func TestDuplicateDocumentFreshIDs(t *testing.T) {
	docService, _, ws := newTestServices(t)
	ctx := context.Background()

	src, _ := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{WorkspaceID: ws.ID, Title: "Original"})
	src, err := docService.ReplaceBlocks(ctx, src.ID, []models.Block{
		models.NewBlock(models.BlockTypeHeading1),
		models.NewTableBlock("Tasks"),
	})
	if err != nil {
		t.Fatal(err)
	}

	dup, err := docService.DuplicateDocument(ctx, src.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dup.ID == src.ID {
		t.Error("duplicate kept the source ID")
	}
	if dup.Title != "Original (copy)" {
		t.Errorf("title = %q", dup.Title)
	}
	for i := range dup.Blocks {
		if dup.Blocks[i].ID == src.Blocks[i].ID {
			t.Errorf("block %d kept its ID", i)
		}
	}
	if dup.Blocks[1].Table.ID == src.Blocks[1].Table.ID {
		t.Error("duplicated table kept its ID")
	}
}

func TestReplaceBlocksEmptyFallsBack(t *testing.T) {
	docService, _, ws := newTestServices(t)
	ctx := context.Background()

	doc, _ := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{WorkspaceID: ws.ID, Title: "Page"})
	updated, err := docService.ReplaceBlocks(ctx, doc.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Blocks) != 1 || updated.Blocks[0].Type != models.BlockTypeText {
		t.Errorf("empty replacement blocks = %+v", updated.Blocks)
	}
}

func TestReplaceBlocksRecountsWords(t *testing.T) {
	docService, _, ws := newTestServices(t)
	ctx := context.Background()

	doc, _ := docService.CreateDocument(ctx, &blocksysSvc.CreateDocumentRequest{WorkspaceID: ws.ID, Title: "Page"})
	blk := models.NewBlock(models.BlockTypeText)
	blk.Content = "one two three"
	updated, err := docService.ReplaceBlocks(ctx, doc.ID, []models.Block{blk})
	if err != nil {
		t.Fatal(err)
	}
	if updated.WordCount != 3 {
		t.Errorf("word count = %d, want 3", updated.WordCount)
	}
}
