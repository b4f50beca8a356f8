package blocksys

import (
	"context"

	models "inkwell/internal/domain/models/blocksys"
)

// ContentBridge converts between the block model and the rich-text HTML
// the editing surface consumes and emits. Implementations must be
// stateless and thread-safe.
//
// Parsing never preserves block IDs: every HTMLToBlocks call synthesizes
// fresh ones, so ID-keyed UI state is invalid after a round trip.
type ContentBridge interface {
	// BlocksToHTML renders the block list as rich-text HTML, one
	// top-level element per block, text HTML-escaped.
	BlocksToHTML(blocks []models.Block) string

	// HTMLToBlocks parses rich-text HTML back into blocks. Malformed
	// input degrades to the nearest safe block and never fails the rest
	// of the document; empty input yields one default text block.
	HTMLToBlocks(html string) []models.Block
}

// Exporter renders a document to an external format (markdown).
type Exporter interface {
	// Export renders the document's blocks. Returns an error only when
	// the downstream format conversion fails.
	Export(ctx context.Context, doc *models.Document) (string, error)
}
