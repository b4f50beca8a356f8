package blocksys

import (
	"strings"

	models "inkwell/internal/domain/models/blocksys"
)

// SlashCommand is one entry of the slash menu. BlockType is empty for
// commands that do something other than retype the anchor block
// (currently only "link to page", which hands off to the mention menu).
type SlashCommand struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	BlockType   string `json:"block_type,omitempty"`
}

// CommandLinkToPage is the slash command that opens the mention menu
// instead of retyping the anchor block.
const CommandLinkToPage = "linkToPage"

// slashCommands is the fixed command list, in menu order.
var slashCommands = []SlashCommand{
	{ID: "text", Label: "Text", Description: "Plain paragraph", BlockType: models.BlockTypeText},
	{ID: "heading1", Label: "Heading 1", Description: "Large section heading", BlockType: models.BlockTypeHeading1},
	{ID: "heading2", Label: "Heading 2", Description: "Medium section heading", BlockType: models.BlockTypeHeading2},
	{ID: "heading3", Label: "Heading 3", Description: "Small section heading", BlockType: models.BlockTypeHeading3},
	{ID: "bulletList", Label: "Bulleted list", Description: "Simple bulleted list item", BlockType: models.BlockTypeBulletList},
	{ID: "numberedList", Label: "Numbered list", Description: "List item with numbering", BlockType: models.BlockTypeNumberedList},
	{ID: "todo", Label: "To-do", Description: "Task with a checkbox", BlockType: models.BlockTypeTodo},
	{ID: "table", Label: "Table", Description: "Inline table with typed columns", BlockType: models.BlockTypeTable},
	{ID: "callout", Label: "Callout", Description: "Highlighted note box", BlockType: models.BlockTypeCallout},
	{ID: "divider", Label: "Divider", Description: "Horizontal rule", BlockType: models.BlockTypeDivider},
	{ID: CommandLinkToPage, Label: "Link to page", Description: "Mention another document"},
}

// SlashCommands returns the full fixed command list.
func SlashCommands() []SlashCommand {
	out := make([]SlashCommand, len(slashCommands))
	copy(out, slashCommands)
	return out
}

// FilterSlashCommands returns the commands whose label or description
// contains the filter text, case-insensitively. An empty filter returns
// everything.
func FilterSlashCommands(filter string) []SlashCommand {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return SlashCommands()
	}
	var out []SlashCommand
	for _, cmd := range slashCommands {
		if strings.Contains(strings.ToLower(cmd.Label), filter) ||
			strings.Contains(strings.ToLower(cmd.Description), filter) {
			out = append(out, cmd)
		}
	}
	return out
}
