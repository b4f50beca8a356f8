package blocksys

import (
	"strings"
	"unicode"

	models "inkwell/internal/domain/models/blocksys"
)

// CountWords counts the words across a document's block contents. Table
// blocks contribute their cell display values; dividers contribute
// nothing.
func CountWords(blocks []models.Block) int {
	total := 0
	for _, blk := range blocks {
		total += countTextWords(blk.Content)
		if blk.Type == models.BlockTypeTable && blk.Table != nil {
			total += countTableWords(blk.Table)
		}
	}
	return total
}

func countTableWords(table *models.InlineTable) int {
	total := 0
	for _, col := range table.Columns {
		total += countTextWords(col.Name)
	}
	for _, row := range table.Rows {
		for colID := range row.Data {
			total += countTextWords(table.DisplayValue(row, colID))
		}
	}
	return total
}

func countTextWords(text string) int {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	count := 0
	for _, word := range words {
		if len(strings.TrimSpace(word)) > 0 {
			count++
		}
	}
	return count
}
