package blocksys

import (
	"testing"

	models "inkwell/internal/domain/models/blocksys"
)

func TestMentionToken(t *testing.T) {
	tests := []struct {
		name string
		doc  models.Document
		want string
	}{
		{
			name: "with icon",
			doc:  models.Document{ID: "d1", Title: "Roadmap", Icon: "🗺"},
			want: "[[d1|🗺 Roadmap]]",
		},
		{
			name: "without icon",
			doc:  models.Document{ID: "d2", Title: "Notes"},
			want: "[[d2|Notes]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MentionToken(&tt.doc); got != tt.want {
				t.Errorf("MentionToken = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []ContentSegment
	}{
		{
			name:    "plain text only",
			content: "no links here",
			want:    []ContentSegment{{Text: "no links here"}},
		},
		{
			name:    "token in the middle",
			content: "see [[d1|Roadmap]] for details",
			want: []ContentSegment{
				{Text: "see "},
				{Mention: &Mention{DocumentID: "d1", Label: "Roadmap"}},
				{Text: " for details"},
			},
		},
		{
			name:    "adjacent tokens",
			content: "[[a|A]][[b|B]]",
			want: []ContentSegment{
				{Mention: &Mention{DocumentID: "a", Label: "A"}},
				{Mention: &Mention{DocumentID: "b", Label: "B"}},
			},
		},
		{
			name:    "dangling target still scans",
			content: "[[gone|Deleted Page]]",
			want: []ContentSegment{
				{Mention: &Mention{DocumentID: "gone", Label: "Deleted Page"}},
			},
		},
		{
			name:    "malformed token stays text",
			content: "[[not-a-token]]",
			want:    []ContentSegment{{Text: "[[not-a-token]]"}},
		},
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanMentions(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("segment count = %d, want %d (%+v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Text != tt.want[i].Text {
					t.Errorf("segment %d text = %q, want %q", i, got[i].Text, tt.want[i].Text)
				}
				if (got[i].Mention == nil) != (tt.want[i].Mention == nil) {
					t.Fatalf("segment %d mention presence mismatch", i)
				}
				if got[i].Mention != nil && *got[i].Mention != *tt.want[i].Mention {
					t.Errorf("segment %d mention = %+v, want %+v", i, got[i].Mention, tt.want[i].Mention)
				}
			}
		})
	}
}
