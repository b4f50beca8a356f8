package blocksys

import (
	"time"

	"github.com/google/uuid"
)

// Document is one page of a workspace's knowledge base. Content lives in
// the ordered Blocks list, which is owned exclusively by the document and
// is never empty (a fresh document gets one default text block).
//
// ParentID places the document in the workspace tree; nil means root level.
// The parent relation over a workspace's documents must stay acyclic -
// enforced at move time by tree.Move, not on arbitrary mutation.
type Document struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Title       string    `json:"title" db:"title"`
	Icon        string    `json:"icon,omitempty" db:"icon"`
	CoverImage  string    `json:"cover_image,omitempty" db:"cover_image"`
	Blocks      []Block   `json:"blocks" db:"blocks"` // JSONB column
	IsTemplate  bool      `json:"is_template" db:"is_template"`
	WordCount   int       `json:"word_count" db:"word_count"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultTitle is used when a document is created without a title.
const DefaultTitle = "Untitled"

// NewDocument creates a document with one default text block.
func NewDocument(workspaceID, title, createdBy string) *Document {
	if title == "" {
		title = DefaultTitle
	}
	now := time.Now()
	return &Document{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Title:       title,
		Blocks:      []Block{NewBlock(BlockTypeText)},
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Workspace groups documents for one tenant.
type Workspace struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
