package converter

import (
	"context"
	"fmt"
	"html"

	md "github.com/JohannesKaufmann/html-to-markdown"

	models "inkwell/internal/domain/models/blocksys"
	blocksysSvc "inkwell/internal/domain/services/blocksys"
)

// markdownExporter renders a document to markdown by emitting the block
// list as HTML and converting that. The block emitter already escapes
// all text, so no sanitization stage is needed on this path.
type markdownExporter struct {
	bridge    blocksysSvc.ContentBridge
	converter *md.Converter
}

// NewMarkdownExporter creates a document-to-markdown exporter.
func NewMarkdownExporter(bridge blocksysSvc.ContentBridge) blocksysSvc.Exporter {
	return &markdownExporter{
		bridge:    bridge,
		converter: md.NewConverter("", true, nil),
	}
}

// Export renders the document title as a top-level heading followed by
// the converted block content.
func (e *markdownExporter) Export(ctx context.Context, doc *models.Document) (string, error) {
	page := fmt.Sprintf("<h1>%s</h1>", html.EscapeString(doc.Title)) + e.bridge.BlocksToHTML(doc.Blocks)

	markdown, err := e.converter.ConvertString(page)
	if err != nil {
		return "", fmt.Errorf("failed to convert document to markdown: %w", err)
	}
	return markdown, nil
}
