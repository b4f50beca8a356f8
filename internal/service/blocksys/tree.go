package blocksys

import (
	"context"
	"log/slog"
	"strings"
	"time"

	models "inkwell/internal/domain/models/blocksys"
	blocksysRepo "inkwell/internal/domain/repositories/blocksys"
	blocksysSvc "inkwell/internal/domain/services/blocksys"
)

// The tree index is a set of pure functions over a flat document slice.
// Nothing here mutates its input; Move returns a fresh slice or nil.

// BuildTree groups documents under the given parent (nil = root),
// recursing one depth level per generation. Sibling order is the input
// slice's natural order; no implicit sort.
func BuildTree(documents []models.Document, parentID *string, depth int) []*models.TreeNode {
	var nodes []*models.TreeNode
	for _, doc := range documents {
		if !sameParent(doc.ParentID, parentID) {
			continue
		}
		id := doc.ID
		nodes = append(nodes, &models.TreeNode{
			Document: doc,
			Children: BuildTree(documents, &id, depth+1),
			Depth:    depth,
		})
	}
	return nodes
}

// Ancestors walks parent links upward from id and returns the chain
// ordered root-most first, excluding id itself. A dangling parent
// reference terminates the walk and yields the partial chain collected
// so far - broken links are not an error.
func Ancestors(documents []models.Document, id string) []models.Document {
	byID := indexByID(documents)

	var chain []models.Document
	doc, ok := byID[id]
	if !ok {
		return chain
	}

	seen := map[string]bool{id: true}
	for doc.ParentID != nil {
		parent, ok := byID[*doc.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		chain = append([]models.Document{parent}, chain...)
		doc = parent
	}
	return chain
}

// Descendants returns every document whose ancestor chain includes id,
// in pre-order. Used for cascade-delete sets and cycle checks.
func Descendants(documents []models.Document, id string) []models.Document {
	var out []models.Document
	for _, doc := range documents {
		if doc.ParentID != nil && *doc.ParentID == id {
			out = append(out, doc)
			out = append(out, Descendants(documents, doc.ID)...)
		}
	}
	return out
}

// Move reparents a document, returning a new slice with the updated
// parent and a refreshed UpdatedAt. It returns nil - and leaves the
// input untouched - when the move would create a cycle: the target is
// the document itself or one of its descendants. This is the single
// invariant-preserving gateway for reparenting.
func Move(documents []models.Document, id string, newParentID *string) []models.Document {
	if newParentID != nil {
		if *newParentID == id {
			return nil
		}
		for _, desc := range Descendants(documents, id) {
			if desc.ID == *newParentID {
				return nil
			}
		}
	}

	out := make([]models.Document, len(documents))
	copy(out, documents)
	for i := range out {
		if out[i].ID == id {
			out[i].ParentID = newParentID
			out[i].UpdatedAt = time.Now()
		}
	}
	return out
}

// ExpandedIDsForSearch returns the union of ancestor IDs for every
// document whose title contains the query, case-insensitively. The
// sidebar expands these so matches stay visible without manual clicks.
func ExpandedIDsForSearch(documents []models.Document, query string) map[string]bool {
	expanded := make(map[string]bool)
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return expanded
	}
	for _, doc := range documents {
		if !strings.Contains(strings.ToLower(doc.Title), query) {
			continue
		}
		for _, ancestor := range Ancestors(documents, doc.ID) {
			expanded[ancestor.ID] = true
		}
	}
	return expanded
}

// FilterTree prunes nodes that neither match the query nor have a
// matching descendant. Non-matching leaf branches are dropped entirely.
// An empty query returns the tree unchanged.
func FilterTree(nodes []*models.TreeNode, query string) []*models.TreeNode {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nodes
	}
	return filterNodes(nodes, query)
}

func filterNodes(nodes []*models.TreeNode, query string) []*models.TreeNode {
	var out []*models.TreeNode
	for _, node := range nodes {
		children := filterNodes(node.Children, query)
		matches := strings.Contains(strings.ToLower(node.Document.Title), query)
		if !matches && len(children) == 0 {
			continue
		}
		out = append(out, &models.TreeNode{
			Document: node.Document,
			Children: children,
			Depth:    node.Depth,
		})
	}
	return out
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func indexByID(documents []models.Document) map[string]models.Document {
	byID := make(map[string]models.Document, len(documents))
	for _, doc := range documents {
		byID[doc.ID] = doc
	}
	return byID
}

// treeService implements the TreeService interface over the repository
type treeService struct {
	docRepo blocksysRepo.DocumentRepository
	logger  *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(docRepo blocksysRepo.DocumentRepository, logger *slog.Logger) blocksysSvc.TreeService {
	return &treeService{docRepo: docRepo, logger: logger}
}

// GetWorkspaceTree builds the nested document tree for a workspace
func (s *treeService) GetWorkspaceTree(ctx context.Context, workspaceID string) ([]*models.TreeNode, error) {
	documents, err := s.docRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	tree := BuildTree(documents, nil, 0)
	if tree == nil {
		tree = []*models.TreeNode{}
	}

	s.logger.Debug("workspace tree built",
		"workspace_id", workspaceID,
		"document_count", len(documents),
	)
	return tree, nil
}

// GetExpandedIDs unions search-forced ancestors with the active
// document's ancestors, mirroring what the sidebar holds open.
func (s *treeService) GetExpandedIDs(ctx context.Context, workspaceID, query, activeDocumentID string) (map[string]bool, error) {
	documents, err := s.docRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	expanded := ExpandedIDsForSearch(documents, query)
	if activeDocumentID != "" {
		for _, ancestor := range Ancestors(documents, activeDocumentID) {
			expanded[ancestor.ID] = true
		}
	}
	return expanded, nil
}

// GetFilteredTree prunes the workspace tree to query matches and their
// ancestors.
func (s *treeService) GetFilteredTree(ctx context.Context, workspaceID, query string) ([]*models.TreeNode, error) {
	tree, err := s.GetWorkspaceTree(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	filtered := FilterTree(tree, query)
	if filtered == nil {
		filtered = []*models.TreeNode{}
	}
	return filtered, nil
}
