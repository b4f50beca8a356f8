package blocksys

import (
	"github.com/google/uuid"
)

// Block type constants
const (
	BlockTypeText         = "text"
	BlockTypeHeading1     = "heading1"
	BlockTypeHeading2     = "heading2"
	BlockTypeHeading3     = "heading3"
	BlockTypeBulletList   = "bulletList"
	BlockTypeNumberedList = "numberedList"
	BlockTypeTodo         = "todo"
	BlockTypeTable        = "table"
	BlockTypeCallout      = "callout"
	BlockTypeDivider      = "divider"
)

// Callout variants
const (
	CalloutInfo    = "info"
	CalloutWarning = "warning"
	CalloutSuccess = "success"
	CalloutError   = "error"
)

// Block is one typed unit of document content. Content holds the plain
// text for every type except table, where Table carries the data and
// Content is unused. IDs are globally unique and never reused after a
// block is deleted; they are the stable list key and the anchor for the
// slash and mention menus.
//
// Properties is a variant-specific bag in the persisted JSON:
// - callout: calloutType (info/warning/success/error)
// - todo: checked
// - any: align
type Block struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Content    string           `json:"content"`
	Properties *BlockProperties `json:"properties,omitempty"`
	Table      *InlineTable     `json:"table,omitempty"`
}

// BlockProperties holds the optional per-variant fields. Checked is a
// pointer so a property patch can distinguish "leave alone" from
// "set false".
type BlockProperties struct {
	CalloutType string `json:"calloutType,omitempty"`
	Checked     *bool  `json:"checked,omitempty"`
	Align       string `json:"align,omitempty"`
}

// IsChecked reports the todo checkbox state, defaulting to false.
func (b *Block) IsChecked() bool {
	return b.Properties != nil && b.Properties.Checked != nil && *b.Properties.Checked
}

// IsListItem reports whether the block renders as a list container item.
func (b *Block) IsListItem() bool {
	return b.Type == BlockTypeBulletList || b.Type == BlockTypeNumberedList
}

// NewBlock creates a block of the given type with a fresh ID, empty
// content and type-appropriate default properties. An empty type yields
// a text block.
func NewBlock(blockType string) Block {
	if blockType == "" {
		blockType = BlockTypeText
	}
	b := Block{
		ID:   uuid.NewString(),
		Type: blockType,
	}
	applyTypeDefaults(&b)
	return b
}

// NewTableBlock creates a table block carrying a default inline table.
func NewTableBlock(name string) Block {
	b := NewBlock(BlockTypeTable)
	b.Table = NewDefaultTable(name)
	return b
}

// applyTypeDefaults fills in default properties for the block's type,
// preserving any that are already present (a todo keeps its checked flag
// across a no-op retype).
func applyTypeDefaults(b *Block) {
	switch b.Type {
	case BlockTypeCallout:
		if b.Properties == nil {
			b.Properties = &BlockProperties{}
		}
		if b.Properties.CalloutType == "" {
			b.Properties.CalloutType = CalloutInfo
		}
	case BlockTypeTodo:
		if b.Properties == nil {
			b.Properties = &BlockProperties{}
		}
		if b.Properties.Checked == nil {
			checked := false
			b.Properties.Checked = &checked
		}
	case BlockTypeTable:
		if b.Table == nil {
			b.Table = NewDefaultTable("")
		}
	}
}

// InsertAfter returns a new block list with blk spliced in immediately
// after index. An index below zero prepends; an index at or past the end
// appends. Existing block IDs are untouched.
func InsertAfter(blocks []Block, index int, blk Block) []Block {
	if index < 0 {
		return append([]Block{blk}, blocks...)
	}
	if index >= len(blocks)-1 {
		out := make([]Block, 0, len(blocks)+1)
		out = append(out, blocks...)
		return append(out, blk)
	}
	out := make([]Block, 0, len(blocks)+1)
	out = append(out, blocks[:index+1]...)
	out = append(out, blk)
	return append(out, blocks[index+1:]...)
}

// DeleteAt returns a new block list with the block at index removed.
// A document's block list is never empty: deleting the last block
// replaces it with a single fresh default text block. Out-of-range
// indexes are a no-op.
func DeleteAt(blocks []Block, index int) []Block {
	if index < 0 || index >= len(blocks) {
		return blocks
	}
	if len(blocks) == 1 {
		return []Block{NewBlock(BlockTypeText)}
	}
	out := make([]Block, 0, len(blocks)-1)
	out = append(out, blocks[:index]...)
	return append(out, blocks[index+1:]...)
}

// ChangeType retypes the block at index. Content is reset to empty unless
// preserveContent is set (used when converting a typed-in text block to a
// heading without losing the text). Properties are defaulted for the new
// type only when absent. Retyping away from table drops the inline table;
// retyping to table creates a default one.
func ChangeType(blocks []Block, index int, newType string, preserveContent bool) []Block {
	if index < 0 || index >= len(blocks) {
		return blocks
	}
	out := make([]Block, len(blocks))
	copy(out, blocks)

	b := out[index]
	b.Type = newType
	if !preserveContent {
		b.Content = ""
	}
	if newType != BlockTypeTable {
		b.Table = nil
	}
	applyTypeDefaults(&b)
	out[index] = b
	return out
}

// UpdateContent replaces the content of the block at index, preserving
// its ID. Out-of-range indexes are a no-op.
func UpdateContent(blocks []Block, index int, content string) []Block {
	if index < 0 || index >= len(blocks) {
		return blocks
	}
	out := make([]Block, len(blocks))
	copy(out, blocks)
	out[index].Content = content
	return out
}

// MergeProperties shallow-merges the patch into the block at index.
// Zero-valued patch fields leave the existing properties alone.
func MergeProperties(blocks []Block, index int, patch BlockProperties) []Block {
	if index < 0 || index >= len(blocks) {
		return blocks
	}
	out := make([]Block, len(blocks))
	copy(out, blocks)

	b := out[index]
	merged := BlockProperties{}
	if b.Properties != nil {
		merged = *b.Properties
	}
	if patch.CalloutType != "" {
		merged.CalloutType = patch.CalloutType
	}
	if patch.Checked != nil {
		merged.Checked = patch.Checked
	}
	if patch.Align != "" {
		merged.Align = patch.Align
	}
	b.Properties = &merged
	out[index] = b
	return out
}

// CopyBlocks deep-copies a block list preserving IDs. The copy shares no
// mutable state with the original, so one side can be persisted while the
// other keeps changing.
func CopyBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		c := b
		if b.Properties != nil {
			props := *b.Properties
			if b.Properties.Checked != nil {
				checked := *b.Properties.Checked
				props.Checked = &checked
			}
			c.Properties = &props
		}
		if b.Table != nil {
			c.Table = b.Table.Copy()
		}
		out[i] = c
	}
	return out
}

// CloneBlocks deep-copies a block list with fresh IDs throughout,
// including table row/column/view IDs. Used when duplicating a document.
func CloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		c := b
		c.ID = uuid.NewString()
		if b.Properties != nil {
			props := *b.Properties
			if b.Properties.Checked != nil {
				checked := *b.Properties.Checked
				props.Checked = &checked
			}
			c.Properties = &props
		}
		if b.Table != nil {
			c.Table = b.Table.Clone()
		}
		out[i] = c
	}
	return out
}
