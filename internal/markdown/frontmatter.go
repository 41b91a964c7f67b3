package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta holds the document-level settings from the YAML frontmatter
// block. Both fields are optional; environment configuration fills the
// gaps.
type Meta struct {
	CanvasURL string
	CourseID  string
}

const frontmatterDelim = "---"

// ExtractFrontmatter splits an optional leading YAML block from the
// document body. A missing or unclosed block leaves the content
// untouched; a block that fails to parse still gets stripped so the
// parser never sees raw YAML, and the error is reported to the caller.
func ExtractFrontmatter(content string) (Meta, string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\r") != frontmatterDelim {
		return Meta{}, content, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\r") == frontmatterDelim {
			end = i
			break
		}
	}
	if end < 0 {
		return Meta{}, content, nil
	}

	block := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return Meta{}, body, fmt.Errorf("parsing frontmatter: %w", err)
	}

	var meta Meta
	if v, ok := raw["canvas_url"]; ok {
		meta.CanvasURL = strings.TrimRight(fmt.Sprint(v), "/")
	}
	if v, ok := raw["course_id"]; ok {
		meta.CourseID = fmt.Sprint(v)
	}
	return meta, body, nil
}
