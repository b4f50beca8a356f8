package utils

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DocumentMetadata represents parsed frontmatter metadata for import
type DocumentMetadata struct {
	Title *string  // Optional: document title if different from filename
	Icon  *string  // Optional: emoji icon shown in the sidebar and title area
	Tags  []string // Future feature
}

// ParseFrontmatter parses optional YAML frontmatter and markdown content
// from a file. Files without a leading "---" block are plain markdown:
// the whole file is content and metadata is nil.
//
// Expected format:
// ---
// title: Project Notes
// icon: "📝"
// ---
// # Markdown content here
func ParseFrontmatter(content []byte) (map[string]interface{}, string, error) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, string(content), nil
	}

	// Find the closing delimiter
	var closingDelim int
	lines := bytes.Split(content, []byte("\n"))

	// Skip the opening "---" line
	for i := 1; i < len(lines); i++ {
		line := bytes.TrimSpace(lines[i])
		if bytes.Equal(line, []byte("---")) {
			closingDelim = i
			break
		}
	}

	if closingDelim == 0 {
		return nil, "", errors.New("missing closing frontmatter delimiter '---'")
	}

	// Extract YAML content (between the delimiters)
	yamlContent := bytes.Join(lines[1:closingDelim], []byte("\n"))

	var metadata map[string]interface{}
	if err := yaml.Unmarshal(yamlContent, &metadata); err != nil {
		return nil, "", fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}

	// Extract markdown content (everything after closing delimiter)
	markdownLines := lines[closingDelim+1:]
	markdownContent := string(bytes.Join(markdownLines, []byte("\n")))

	return metadata, markdownContent, nil
}

// ValidateImportMetadata validates frontmatter metadata and converts to DocumentMetadata
func ValidateImportMetadata(metadata map[string]interface{}) (*DocumentMetadata, error) {
	if metadata == nil {
		// No metadata is fine - the title will be derived from the filename
		return &DocumentMetadata{}, nil
	}

	// Extract optional field: title
	var title *string
	if titleVal, exists := metadata["title"]; exists {
		if titleStr, ok := titleVal.(string); ok && titleStr != "" {
			title = &titleStr
		} else if exists {
			return nil, errors.New("frontmatter field 'title' must be a non-empty string")
		}
	}

	// Extract optional field: icon
	var icon *string
	if iconVal, exists := metadata["icon"]; exists {
		if iconStr, ok := iconVal.(string); ok && iconStr != "" {
			icon = &iconStr
		} else if exists {
			return nil, errors.New("frontmatter field 'icon' must be a non-empty string")
		}
	}

	// Extract optional field: tags (future feature)
	var tags []string
	if tagsVal, exists := metadata["tags"]; exists {
		if tagsList, ok := tagsVal.([]interface{}); ok {
			for _, tag := range tagsList {
				if tagStr, ok := tag.(string); ok {
					tags = append(tags, tagStr)
				}
			}
		}
	}

	return &DocumentMetadata{
		Title: title,
		Icon:  icon,
		Tags:  tags,
	}, nil
}
