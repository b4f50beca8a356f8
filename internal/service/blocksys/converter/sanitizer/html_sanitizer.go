package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes dangerous HTML elements and attributes to prevent XSS attacks.
// Separated from the converter to follow SRP (Single Responsibility Principle).
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer for HTML coming back from the
// editing surface. Starts from the UGC policy (balanced security and
// functionality) and additionally allows the data attributes the block
// parser relies on: callout type, todo checked state and the task-list
// container marker.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()

	policy.AllowAttrs("data-callout-type").OnElements("blockquote")
	policy.AllowAttrs("data-checked").OnElements("li")
	policy.AllowAttrs("data-type").OnElements("ul")

	return &HTMLSanitizer{policy: policy}
}

// Sanitize removes dangerous HTML while preserving safe content.
//
// Removes:
// - <script> tags
// - Event handlers (onclick, onerror, etc.)
// - javascript: URLs
// - Other XSS attack vectors
//
// Preserves:
// - Basic formatting (p, br, strong, em, etc.)
// - Headings (h1-h6)
// - Lists (ul, ol, li) including task-list markers
// - Blockquotes with callout markers
// - Tables
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
