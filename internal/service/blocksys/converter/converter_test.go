package converter

import (
	"context"
	"strings"
	"testing"

	models "inkwell/internal/domain/models/blocksys"
	"inkwell/internal/service/blocksys/converter/sanitizer"
)

func TestBlocksToHTML(t *testing.T) {
	bridge := NewBridge()

	tests := []struct {
		name  string
		block func() models.Block
		want  string
	}{
		{
			name: "text paragraph",
			block: func() models.Block {
				b := models.NewBlock(models.BlockTypeText)
				b.Content = "hello"
				return b
			},
			want: "<p>hello</p>",
		},
		{
			name: "heading",
			block: func() models.Block {
				b := models.NewBlock(models.BlockTypeHeading2)
				b.Content = "Section"
				return b
			},
			want: "<h2>Section</h2>",
		},
		{
			name: "text is escaped",
			block: func() models.Block {
				b := models.NewBlock(models.BlockTypeText)
				b.Content = `<script>alert("x")</script>`
				return b
			},
			want: "<p>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</p>",
		},
		{
			name: "checked todo",
			block: func() models.Block {
				b := models.NewBlock(models.BlockTypeTodo)
				b.Content = "ship it"
				done := true
				b.Properties.Checked = &done
				return b
			},
			want: `<ul data-type="taskList"><li data-checked="true">ship it</li></ul>`,
		},
		{
			name: "callout carries its variant",
			block: func() models.Block {
				b := models.NewBlock(models.BlockTypeCallout)
				b.Content = "careful"
				b.Properties.CalloutType = models.CalloutWarning
				return b
			},
			want: `<blockquote data-callout-type="warning">careful</blockquote>`,
		},
		{
			name:  "divider",
			block: func() models.Block { return models.NewBlock(models.BlockTypeDivider) },
			want:  "<hr>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bridge.BlocksToHTML([]models.Block{tt.block()})
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdjacentListBlocksNotMerged(t *testing.T) {
	bridge := NewBridge()
	a := models.NewBlock(models.BlockTypeBulletList)
	a.Content = "one"
	b := models.NewBlock(models.BlockTypeBulletList)
	b.Content = "two"

	got := bridge.BlocksToHTML([]models.Block{a, b})
	want := "<ul><li>one</li></ul><ul><li>two</li></ul>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHTMLToBlocksRoundTrip(t *testing.T) {
	bridge := NewBridge()

	src := []models.Block{}
	h := models.NewBlock(models.BlockTypeHeading1)
	h.Content = "Title"
	p := models.NewBlock(models.BlockTypeText)
	p.Content = "body text"
	todo := models.NewBlock(models.BlockTypeTodo)
	todo.Content = "task"
	done := true
	todo.Properties.Checked = &done
	callout := models.NewBlock(models.BlockTypeCallout)
	callout.Content = "note"
	callout.Properties.CalloutType = models.CalloutError
	src = append(src, h, p, todo, callout, models.NewBlock(models.BlockTypeDivider))

	out := bridge.HTMLToBlocks(bridge.BlocksToHTML(src))
	if len(out) != len(src) {
		t.Fatalf("round trip count = %d, want %d", len(out), len(src))
	}
	for i := range out {
		if out[i].Type != src[i].Type {
			t.Errorf("block %d type = %q, want %q", i, out[i].Type, src[i].Type)
		}
		if out[i].Content != src[i].Content {
			t.Errorf("block %d content = %q, want %q", i, out[i].Content, src[i].Content)
		}
		if out[i].ID == src[i].ID {
			t.Errorf("block %d ID survived the round trip", i)
		}
	}
	if !out[2].IsChecked() {
		t.Error("todo lost its checked state")
	}
	if out[3].Properties.CalloutType != models.CalloutError {
		t.Error("callout lost its variant")
	}
}

func TestHTMLToBlocksFreshIDsEveryParse(t *testing.T) {
	bridge := NewBridge()
	input := "<p>same input</p>"

	first := bridge.HTMLToBlocks(input)
	second := bridge.HTMLToBlocks(input)
	if first[0].ID == second[0].ID {
		t.Error("two parses of the same input shared an ID")
	}
}

func TestHTMLToBlocksEmptyInput(t *testing.T) {
	bridge := NewBridge()

	for _, input := range []string{"", "   ", "<p></p>"} {
		out := bridge.HTMLToBlocks(input)
		if len(out) != 1 || out[0].Type != models.BlockTypeText || out[0].Content != "" {
			t.Errorf("input %q: got %+v, want one empty text block", input, out)
		}
	}
}

func TestHTMLToBlocksMergedListSplits(t *testing.T) {
	bridge := NewBridge()

	out := bridge.HTMLToBlocks("<ul><li>one</li><li>two</li></ul>")
	if len(out) != 2 {
		t.Fatalf("block count = %d, want 2", len(out))
	}
	for i, want := range []string{"one", "two"} {
		if out[i].Type != models.BlockTypeBulletList || out[i].Content != want {
			t.Errorf("block %d = %+v", i, out[i])
		}
	}
}

func TestHTMLToBlocksUnknownElement(t *testing.T) {
	bridge := NewBridge()

	// unknown containers recurse into their children
	out := bridge.HTMLToBlocks("<div><p>inner</p></div>")
	if len(out) != 1 || out[0].Type != models.BlockTypeText || out[0].Content != "inner" {
		t.Errorf("got %+v", out)
	}

	// a childless unknown element with text degrades to a text block
	out = bridge.HTMLToBlocks("<span>loose text</span>")
	if len(out) != 1 || out[0].Content != "loose text" {
		t.Errorf("got %+v", out)
	}
}

func TestTableRoundTrip(t *testing.T) {
	bridge := NewBridge()

	src := models.NewTableBlock("Tasks")
	row := src.Table.AddRow()
	src.Table.UpdateCell(row.ID, src.Table.Columns[0].ID, "write tests")

	html := bridge.BlocksToHTML([]models.Block{src})
	if !strings.Contains(html, "<th>Name</th>") || !strings.Contains(html, "<td>write tests</td>") {
		t.Fatalf("emitted table missing cells: %s", html)
	}

	out := bridge.HTMLToBlocks(html)
	if len(out) != 1 || out[0].Type != models.BlockTypeTable {
		t.Fatalf("got %+v", out)
	}
	table := out[0].Table
	if len(table.Columns) != len(src.Table.Columns) {
		t.Errorf("column count = %d, want %d", len(table.Columns), len(src.Table.Columns))
	}
	if len(table.Rows) != 1 {
		t.Fatalf("row count = %d, want 1", len(table.Rows))
	}
	if got := table.Rows[0].Data[table.Columns[0].ID]; got != "write tests" {
		t.Errorf("cell = %v, want %q", got, "write tests")
	}
	if table.View(table.ActiveViewID) == nil {
		t.Error("reconstructed table's active view does not resolve")
	}
}

func TestHeaderlessTableSynthesizesColumns(t *testing.T) {
	bridge := NewBridge()

	out := bridge.HTMLToBlocks("<table><tbody><tr><td>a</td><td>b</td></tr></tbody></table>")
	table := out[0].Table
	if len(table.Columns) != 2 {
		t.Fatalf("column count = %d, want 2", len(table.Columns))
	}
	if table.Columns[0].Name != "Column 1" || table.Columns[1].Name != "Column 2" {
		t.Errorf("synthesized names = %q, %q", table.Columns[0].Name, table.Columns[1].Name)
	}
}

func TestSanitizerStripsDangerousMarkup(t *testing.T) {
	s := sanitizer.NewHTMLSanitizer()

	tests := []struct {
		name    string
		input   string
		keep    []string
		dropped []string
	}{
		{
			name:    "script removed",
			input:   `<p>ok</p><script>alert(1)</script>`,
			keep:    []string{"<p>ok</p>"},
			dropped: []string{"<script>"},
		},
		{
			name:    "event handler removed",
			input:   `<p onclick="steal()">text</p>`,
			keep:    []string{"text"},
			dropped: []string{"onclick"},
		},
		{
			name:    "block parser attributes survive",
			input:   `<ul data-type="taskList"><li data-checked="true">task</li></ul>`,
			keep:    []string{`data-type="taskList"`, `data-checked="true"`},
			dropped: nil,
		},
		{
			name:    "callout marker survives",
			input:   `<blockquote data-callout-type="warning">note</blockquote>`,
			keep:    []string{`data-callout-type="warning"`},
			dropped: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			for _, want := range tt.keep {
				if !strings.Contains(got, want) {
					t.Errorf("sanitized output %q lost %q", got, want)
				}
			}
			for _, gone := range tt.dropped {
				if strings.Contains(got, gone) {
					t.Errorf("sanitized output %q kept %q", got, gone)
				}
			}
		})
	}
}

func TestMarkdownExport(t *testing.T) {
	bridge := NewBridge()
	exporter := NewMarkdownExporter(bridge)

	h := models.NewBlock(models.BlockTypeHeading2)
	h.Content = "Section"
	p := models.NewBlock(models.BlockTypeText)
	p.Content = "some text"
	doc := &models.Document{Title: "My Page", Blocks: []models.Block{h, p}}

	markdown, err := exporter.Export(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(markdown, "# My Page") {
		t.Errorf("export missing title heading: %q", markdown)
	}
	if !strings.Contains(markdown, "## Section") {
		t.Errorf("export missing section heading: %q", markdown)
	}
	if !strings.Contains(markdown, "some text") {
		t.Errorf("export missing body text: %q", markdown)
	}
}
