package blocksys

import (
	"fmt"
	"regexp"
	"strings"

	models "inkwell/internal/domain/models/blocksys"
)

// mentionPattern matches inline page-link tokens of the form
// [[documentID|label]]. The label is whatever display text was embedded
// when the mention was inserted (typically "icon title").
var mentionPattern = regexp.MustCompile(`\[\[([^|\[\]]+)\|([^\]]*)\]\]`)

// Mention is one parsed page-link token.
type Mention struct {
	DocumentID string `json:"document_id"`
	Label      string `json:"label"`
}

// ContentSegment is one run of block content: either plain text or a
// mention. Renderers turn mention segments into navigable links and
// leave the surrounding text untouched.
type ContentSegment struct {
	Text    string   `json:"text,omitempty"`
	Mention *Mention `json:"mention,omitempty"`
}

// MentionToken builds the markup token for linking to a document.
func MentionToken(doc *models.Document) string {
	label := doc.Title
	if doc.Icon != "" {
		label = doc.Icon + " " + doc.Title
	}
	return fmt.Sprintf("[[%s|%s]]", doc.ID, label)
}

// ScanMentions splits block content into plain-text and mention
// segments. A token whose target no longer exists still scans: the
// renderer shows the embedded label and navigation becomes a no-op.
func ScanMentions(content string) []ContentSegment {
	var segments []ContentSegment
	rest := content
	for {
		loc := mentionPattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			segments = append(segments, ContentSegment{Text: rest[:loc[0]]})
		}
		segments = append(segments, ContentSegment{Mention: &Mention{
			DocumentID: rest[loc[2]:loc[3]],
			Label:      strings.TrimSpace(rest[loc[4]:loc[5]]),
		}})
		rest = rest[loc[1]:]
	}
	if rest != "" {
		segments = append(segments, ContentSegment{Text: rest})
	}
	return segments
}
