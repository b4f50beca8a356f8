package converter

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	htmlnode "golang.org/x/net/html"

	models "inkwell/internal/domain/models/blocksys"
)

// emptyParagraph is the canonical "nothing typed yet" marker most
// rich-text surfaces emit for an empty document.
const emptyParagraph = "<p></p>"

// HTMLToBlocks parses rich-text HTML into blocks, one block per
// recognized top-level element. Every block gets a freshly generated ID:
// identity never survives a round trip, so ID-keyed UI state must be
// re-resolved by position or content afterwards.
//
// Unrecognized containers recurse into their children; a container with
// no element children but non-empty text becomes a single text block.
// Malformed input degrades to the nearest safe block - parsing never
// fails the rest of the document.
func (b *Bridge) HTMLToBlocks(input string) []models.Block {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || trimmed == emptyParagraph {
		return []models.Block{models.NewBlock(models.BlockTypeText)}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return []models.Block{models.NewBlock(models.BlockTypeText)}
	}

	var blocks []models.Block
	doc.Find("body").Children().Each(func(_ int, sel *goquery.Selection) {
		blocks = append(blocks, parseElement(sel)...)
	})

	if len(blocks) == 0 {
		blocks = []models.Block{models.NewBlock(models.BlockTypeText)}
	}
	return blocks
}

func parseElement(sel *goquery.Selection) []models.Block {
	node := sel.Get(0)
	if node == nil || node.Type != htmlnode.ElementNode {
		return nil
	}

	switch node.Data {
	case "p":
		return []models.Block{textBlock(models.BlockTypeText, sel.Text())}
	case "h1":
		return []models.Block{textBlock(models.BlockTypeHeading1, sel.Text())}
	case "h2":
		return []models.Block{textBlock(models.BlockTypeHeading2, sel.Text())}
	case "h3":
		return []models.Block{textBlock(models.BlockTypeHeading3, sel.Text())}
	case "ul":
		if listType, _ := sel.Attr("data-type"); listType == "taskList" {
			return parseTaskList(sel)
		}
		return parseListItems(sel, models.BlockTypeBulletList)
	case "ol":
		return parseListItems(sel, models.BlockTypeNumberedList)
	case "blockquote":
		blk := textBlock(models.BlockTypeCallout, sel.Text())
		if calloutType, ok := sel.Attr("data-callout-type"); ok && calloutType != "" {
			blk.Properties.CalloutType = calloutType
		}
		return []models.Block{blk}
	case "hr":
		return []models.Block{models.NewBlock(models.BlockTypeDivider)}
	case "table":
		return []models.Block{parseTable(sel)}
	default:
		// Unknown element: recurse into element children; a childless
		// container with text degrades to a single text block.
		children := sel.Children()
		if children.Length() > 0 {
			var blocks []models.Block
			children.Each(func(_ int, child *goquery.Selection) {
				blocks = append(blocks, parseElement(child)...)
			})
			return blocks
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return []models.Block{textBlock(models.BlockTypeText, text)}
		}
		return nil
	}
}

func textBlock(blockType, content string) models.Block {
	blk := models.NewBlock(blockType)
	blk.Content = strings.TrimSpace(content)
	return blk
}

// parseListItems emits one list block per item: the inverse of the
// emitter's one-container-per-block mapping, and tolerant of surfaces
// that merge adjacent items into one container.
func parseListItems(sel *goquery.Selection, blockType string) []models.Block {
	var blocks []models.Block
	sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		blocks = append(blocks, textBlock(blockType, li.Text()))
	})
	return blocks
}

func parseTaskList(sel *goquery.Selection) []models.Block {
	var blocks []models.Block
	sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		blk := textBlock(models.BlockTypeTodo, li.Text())
		if checked, _ := li.Attr("data-checked"); checked == "true" {
			done := true
			blk.Properties.Checked = &done
		}
		blocks = append(blocks, blk)
	})
	return blocks
}

// parseTable reconstructs an inline table: columns from header cells, or
// synthesized "Column N" columns sized to the first row when no header
// exists; body rows in document order; a fresh default view over all
// reconstructed columns.
func parseTable(sel *goquery.Selection) models.Block {
	blk := models.NewBlock(models.BlockTypeTable)

	var columns []models.Column
	headerCells := sel.Find("thead th")
	if headerCells.Length() == 0 {
		headerCells = sel.Find("tr").First().Find("th")
	}
	headerCells.Each(func(_ int, th *goquery.Selection) {
		columns = append(columns, models.Column{
			ID:   uuid.NewString(),
			Name: strings.TrimSpace(th.Text()),
			Type: models.ColumnTypeText,
		})
	})

	bodyRows := sel.Find("tbody tr")
	if bodyRows.Length() == 0 {
		bodyRows = sel.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
			return tr.Find("th").Length() == 0
		})
	}

	if len(columns) == 0 {
		cellCount := bodyRows.First().Find("td").Length()
		for i := 0; i < cellCount; i++ {
			columns = append(columns, models.Column{
				ID:   uuid.NewString(),
				Name: fmt.Sprintf("Column %d", i+1),
				Type: models.ColumnTypeText,
			})
		}
	}

	var rows []models.TableRow
	bodyRows.Each(func(i int, tr *goquery.Selection) {
		row := models.TableRow{
			ID:    uuid.NewString(),
			Data:  map[string]interface{}{},
			Order: i,
		}
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			if j < len(columns) {
				row.Data[columns[j].ID] = strings.TrimSpace(td.Text())
			}
		})
		rows = append(rows, row)
	})

	visible := make([]string, len(columns))
	for i, col := range columns {
		visible[i] = col.ID
	}
	view := models.TableView{
		ID:             uuid.NewString(),
		Name:           "All",
		Type:           models.ViewTypeGrid,
		VisibleColumns: visible,
		IsDefault:      true,
	}

	blk.Table = &models.InlineTable{
		ID:           uuid.NewString(),
		Name:         "Table",
		Columns:      columns,
		Rows:         rows,
		Views:        []models.TableView{view},
		ActiveViewID: view.ID,
	}
	return blk
}
