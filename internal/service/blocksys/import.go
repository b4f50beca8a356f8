package blocksys

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	models "inkwell/internal/domain/models/blocksys"
	blocksysSvc "inkwell/internal/domain/services/blocksys"
	"inkwell/internal/utils"
)

// importService implements the ImportService interface
type importService struct {
	docService blocksysSvc.DocumentService
	logger     *slog.Logger
}

// NewImportService creates a new import service
func NewImportService(docService blocksysSvc.DocumentService, logger *slog.Logger) blocksysSvc.ImportService {
	return &importService{docService: docService, logger: logger}
}

// ImportFiles imports markdown files into a workspace, one document per
// file. Each file is processed independently: a bad file lands in the
// error list and the rest of the batch continues.
func (s *importService) ImportFiles(ctx context.Context, workspaceID string, files []blocksysSvc.ImportFile) (*blocksysSvc.ImportResult, error) {
	result := &blocksysSvc.ImportResult{
		Summary: blocksysSvc.ImportSummary{TotalFiles: len(files)},
	}

	for _, file := range files {
		doc, err := s.importFile(ctx, workspaceID, file)
		if err != nil {
			result.Summary.Failed++
			result.Errors = append(result.Errors, blocksysSvc.ImportError{
				File:  file.Name,
				Error: err.Error(),
			})
			s.logger.Warn("import file failed", "file", file.Name, "error", err)
			continue
		}
		result.Summary.Created++
		result.Documents = append(result.Documents, blocksysSvc.ImportDocument{
			ID:    doc.ID,
			Title: doc.Title,
		})
	}

	s.logger.Info("import finished",
		"workspace_id", workspaceID,
		"total", result.Summary.TotalFiles,
		"created", result.Summary.Created,
		"failed", result.Summary.Failed,
	)
	return result, nil
}

func (s *importService) importFile(ctx context.Context, workspaceID string, file blocksysSvc.ImportFile) (*models.Document, error) {
	metadata, markdown, err := utils.ParseFrontmatter(file.Content)
	if err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	meta, err := utils.ValidateImportMetadata(metadata)
	if err != nil {
		return nil, err
	}

	title := titleFromFilename(file.Name)
	if meta.Title != nil {
		title = *meta.Title
	}

	req := &blocksysSvc.CreateDocumentRequest{
		WorkspaceID: workspaceID,
		Title:       title,
	}
	if meta.Icon != nil {
		req.Icon = *meta.Icon
	}

	doc, err := s.docService.CreateDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	blocks := MarkdownToBlocks(markdown)
	return s.docService.ReplaceBlocks(ctx, doc.ID, blocks)
}

// titleFromFilename strips directories and the extension from an
// uploaded file name.
func titleFromFilename(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var (
	numberedItemPattern = regexp.MustCompile(`^\d+[.)]\s+(.*)$`)
	todoItemPattern     = regexp.MustCompile(`^[-*]\s+\[([ xX])\]\s*(.*)$`)
)

// MarkdownToBlocks parses markdown into a block list, one block per
// logical line group. Unrecognized syntax falls back to text blocks;
// the result is never empty.
func MarkdownToBlocks(markdown string) []models.Block {
	var blocks []models.Block
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")

	var paragraph []string
	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		blk := models.NewBlock(models.BlockTypeText)
		blk.Content = strings.Join(paragraph, " ")
		blocks = append(blocks, blk)
		paragraph = nil
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushParagraph()

		case trimmed == "---" || trimmed == "***" || trimmed == "___":
			flushParagraph()
			blocks = append(blocks, models.NewBlock(models.BlockTypeDivider))

		case strings.HasPrefix(trimmed, "### "):
			flushParagraph()
			blk := models.NewBlock(models.BlockTypeHeading3)
			blk.Content = strings.TrimPrefix(trimmed, "### ")
			blocks = append(blocks, blk)

		case strings.HasPrefix(trimmed, "## "):
			flushParagraph()
			blk := models.NewBlock(models.BlockTypeHeading2)
			blk.Content = strings.TrimPrefix(trimmed, "## ")
			blocks = append(blocks, blk)

		case strings.HasPrefix(trimmed, "# "):
			flushParagraph()
			blk := models.NewBlock(models.BlockTypeHeading1)
			blk.Content = strings.TrimPrefix(trimmed, "# ")
			blocks = append(blocks, blk)

		case todoItemPattern.MatchString(trimmed):
			flushParagraph()
			m := todoItemPattern.FindStringSubmatch(trimmed)
			blk := models.NewBlock(models.BlockTypeTodo)
			blk.Content = m[2]
			checked := m[1] != " "
			blk.Properties.Checked = &checked
			blocks = append(blocks, blk)

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			flushParagraph()
			blk := models.NewBlock(models.BlockTypeBulletList)
			blk.Content = trimmed[2:]
			blocks = append(blocks, blk)

		case numberedItemPattern.MatchString(trimmed):
			flushParagraph()
			m := numberedItemPattern.FindStringSubmatch(trimmed)
			blk := models.NewBlock(models.BlockTypeNumberedList)
			blk.Content = m[1]
			blocks = append(blocks, blk)

		case strings.HasPrefix(trimmed, "> "):
			flushParagraph()
			blk := models.NewBlock(models.BlockTypeCallout)
			blk.Content = strings.TrimPrefix(trimmed, "> ")
			blocks = append(blocks, blk)

		case strings.HasPrefix(trimmed, "|") && i+1 < len(lines) && isTableSeparator(lines[i+1]):
			flushParagraph()
			var tableLines []string
			for ; i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|"); i++ {
				tableLines = append(tableLines, strings.TrimSpace(lines[i]))
			}
			i-- // loop increment re-advances past the table
			blocks = append(blocks, markdownTableBlock(tableLines))

		default:
			paragraph = append(paragraph, trimmed)
		}
	}
	flushParagraph()

	if len(blocks) == 0 {
		blocks = append(blocks, models.NewBlock(models.BlockTypeText))
	}
	return blocks
}

// isTableSeparator reports whether a line is the |---|---| row under a
// markdown table header.
func isTableSeparator(line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "|") {
		return false
	}
	stripped := strings.Trim(line, "| ")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r != '-' && r != ':' && r != '|' && r != ' ' {
			return false
		}
	}
	return true
}

// markdownTableBlock converts pipe-table lines into a table block with
// text columns. The separator row is skipped.
func markdownTableBlock(lines []string) models.Block {
	blk := models.NewTableBlock("")
	table := blk.Table
	table.Columns = nil
	table.Rows = nil
	for i := range table.Views {
		table.Views[i].VisibleColumns = nil
	}

	headers := splitTableRow(lines[0])
	colIDs := make([]string, len(headers))
	for i, header := range headers {
		col := table.AddColumn(header, models.ColumnTypeText)
		colIDs[i] = col.ID
	}

	for rowIdx, line := range lines {
		if rowIdx == 0 || isTableSeparator(line) {
			continue
		}
		cells := splitTableRow(line)
		row := table.AddRow()
		for i, cell := range cells {
			if i >= len(colIDs) {
				break
			}
			table.UpdateCell(row.ID, colIDs[i], cell)
		}
	}
	return blk
}

func splitTableRow(line string) []string {
	line = strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(line, "|")
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.TrimSpace(part)
	}
	return out
}
