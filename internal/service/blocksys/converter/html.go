package converter

import (
	"fmt"
	"html"
	"strings"

	models "inkwell/internal/domain/models/blocksys"
	blocksysSvc "inkwell/internal/domain/services/blocksys"
)

// Bridge converts between the block model and the rich-text HTML the
// editing surface works with. Stateless; safe for concurrent use.
type Bridge struct{}

// NewBridge creates the block/rich-text bridge.
func NewBridge() blocksysSvc.ContentBridge {
	return &Bridge{}
}

// BlocksToHTML renders each block as exactly one top-level element.
// List blocks each get their own single-item container; adjacent
// same-type list blocks are deliberately not merged so the mapping back
// to blocks stays one-to-one. All text is HTML-escaped.
func (b *Bridge) BlocksToHTML(blocks []models.Block) string {
	var sb strings.Builder
	for _, blk := range blocks {
		writeBlock(&sb, blk)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, blk models.Block) {
	text := html.EscapeString(blk.Content)

	switch blk.Type {
	case models.BlockTypeHeading1:
		fmt.Fprintf(sb, "<h1>%s</h1>", text)
	case models.BlockTypeHeading2:
		fmt.Fprintf(sb, "<h2>%s</h2>", text)
	case models.BlockTypeHeading3:
		fmt.Fprintf(sb, "<h3>%s</h3>", text)
	case models.BlockTypeBulletList:
		fmt.Fprintf(sb, "<ul><li>%s</li></ul>", text)
	case models.BlockTypeNumberedList:
		fmt.Fprintf(sb, "<ol><li>%s</li></ol>", text)
	case models.BlockTypeTodo:
		fmt.Fprintf(sb, `<ul data-type="taskList"><li data-checked="%t">%s</li></ul>`, blk.IsChecked(), text)
	case models.BlockTypeCallout:
		calloutType := models.CalloutInfo
		if blk.Properties != nil && blk.Properties.CalloutType != "" {
			calloutType = blk.Properties.CalloutType
		}
		fmt.Fprintf(sb, `<blockquote data-callout-type="%s">%s</blockquote>`, html.EscapeString(calloutType), text)
	case models.BlockTypeDivider:
		sb.WriteString("<hr>")
	case models.BlockTypeTable:
		writeTable(sb, blk.Table)
	default:
		fmt.Fprintf(sb, "<p>%s</p>", text)
	}
}

// writeTable emits header cells from column names and body rows in row
// order. Emission sorts by the rows' order values - array position is
// not the contract.
func writeTable(sb *strings.Builder, table *models.InlineTable) {
	if table == nil {
		sb.WriteString("<table></table>")
		return
	}

	sb.WriteString("<table><thead><tr>")
	for _, col := range table.Columns {
		fmt.Fprintf(sb, "<th>%s</th>", html.EscapeString(col.Name))
	}
	sb.WriteString("</tr></thead><tbody>")

	for _, row := range table.RowsInOrder() {
		sb.WriteString("<tr>")
		for _, col := range table.Columns {
			fmt.Fprintf(sb, "<td>%s</td>", html.EscapeString(table.DisplayValue(row, col.ID)))
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
}
