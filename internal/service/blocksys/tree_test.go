package blocksys

import (
	"testing"

	models "inkwell/internal/domain/models/blocksys"
)

// docs builds a flat workspace: root1, root1/child1, root1/child1/grand1,
// root2.
func testDocuments() []models.Document {
	root1 := models.Document{ID: "root1", Title: "Projects"}
	child1 := models.Document{ID: "child1", ParentID: strPtr("root1"), Title: "Roadmap"}
	grand1 := models.Document{ID: "grand1", ParentID: strPtr("child1"), Title: "Q3 Plan"}
	root2 := models.Document{ID: "root2", Title: "Notes"}
	return []models.Document{root1, child1, grand1, root2}
}

func strPtr(s string) *string { return &s }

func TestBuildTree(t *testing.T) {
	tree := BuildTree(testDocuments(), nil, 0)

	if len(tree) != 2 {
		t.Fatalf("root count = %d, want 2", len(tree))
	}
	if tree[0].Document.ID != "root1" || tree[1].Document.ID != "root2" {
		t.Errorf("sibling order not preserved: %s, %s", tree[0].Document.ID, tree[1].Document.ID)
	}
	if len(tree[0].Children) != 1 || tree[0].Children[0].Document.ID != "child1" {
		t.Fatalf("root1 children wrong: %+v", tree[0].Children)
	}
	grand := tree[0].Children[0].Children
	if len(grand) != 1 || grand[0].Document.ID != "grand1" {
		t.Fatalf("grandchildren wrong: %+v", grand)
	}
	if grand[0].Depth != 2 {
		t.Errorf("grandchild depth = %d, want 2", grand[0].Depth)
	}
}

func TestAncestors(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want []string
	}{
		{"leaf walks to root, root-most first", "grand1", []string{"root1", "child1"}},
		{"root has no ancestors", "root1", nil},
		{"unknown id yields empty chain", "ghost", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := Ancestors(testDocuments(), tt.id)
			if len(chain) != len(tt.want) {
				t.Fatalf("chain length = %d, want %d", len(chain), len(tt.want))
			}
			for i, doc := range chain {
				if doc.ID != tt.want[i] {
					t.Errorf("chain[%d] = %s, want %s", i, doc.ID, tt.want[i])
				}
			}
		})
	}
}

func TestAncestorsBrokenLink(t *testing.T) {
	docs := []models.Document{
		{ID: "a", ParentID: strPtr("missing")},
		{ID: "b", ParentID: strPtr("a"), Title: "b"},
	}
	chain := Ancestors(docs, "b")
	if len(chain) != 1 || chain[0].ID != "a" {
		t.Errorf("broken link should yield partial chain, got %+v", chain)
	}
}

func TestDescendants(t *testing.T) {
	descendants := Descendants(testDocuments(), "root1")
	if len(descendants) != 2 {
		t.Fatalf("descendant count = %d, want 2", len(descendants))
	}
	if descendants[0].ID != "child1" || descendants[1].ID != "grand1" {
		t.Errorf("pre-order violated: %s, %s", descendants[0].ID, descendants[1].ID)
	}
}

func TestMoveRejectsCycles(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		parentID *string
		wantNil  bool
	}{
		{"move under own descendant", "root1", strPtr("grand1"), true},
		{"move under itself", "root1", strPtr("root1"), true},
		{"move under sibling is fine", "root2", strPtr("root1"), false},
		{"move to root is fine", "grand1", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := testDocuments()
			out := Move(docs, tt.id, tt.parentID)
			if (out == nil) != tt.wantNil {
				t.Fatalf("Move nil = %v, want %v", out == nil, tt.wantNil)
			}
			if tt.wantNil {
				// rejected move leaves the input untouched
				for i, doc := range testDocuments() {
					if !sameParent(docs[i].ParentID, doc.ParentID) {
						t.Error("rejected move mutated input")
					}
				}
				return
			}
			for _, doc := range out {
				if doc.ID == tt.id && !sameParent(doc.ParentID, tt.parentID) {
					t.Errorf("parent not updated: %+v", doc.ParentID)
				}
			}
		})
	}
}

func TestExpandedIDsForSearch(t *testing.T) {
	expanded := ExpandedIDsForSearch(testDocuments(), "q3")
	if !expanded["root1"] || !expanded["child1"] {
		t.Errorf("ancestors of match not expanded: %+v", expanded)
	}
	if expanded["grand1"] || expanded["root2"] {
		t.Errorf("non-ancestors expanded: %+v", expanded)
	}

	if got := ExpandedIDsForSearch(testDocuments(), "  "); len(got) != 0 {
		t.Errorf("blank query expanded %d nodes, want 0", len(got))
	}
}

func TestFilterTree(t *testing.T) {
	tree := BuildTree(testDocuments(), nil, 0)

	filtered := FilterTree(tree, "q3")
	if len(filtered) != 1 || filtered[0].Document.ID != "root1" {
		t.Fatalf("filter should keep matching branch only: %+v", filtered)
	}
	if len(filtered[0].Children) != 1 || len(filtered[0].Children[0].Children) != 1 {
		t.Error("ancestor chain of match was pruned")
	}

	// empty query returns the tree unchanged
	if got := FilterTree(tree, ""); len(got) != 2 {
		t.Errorf("empty query pruned the tree: %d roots", len(got))
	}

	// no matches prunes everything
	if got := FilterTree(tree, "zzz"); len(got) != 0 {
		t.Errorf("non-matching query kept %d roots", len(got))
	}
}
