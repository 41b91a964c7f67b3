// Package markdown reads and writes the structured course document: one
// `# Module` heading per container, one `## [kind] Title` heading per
// item, `key: value` metadata lines, a `---` separator before free-form
// bodies, and `<!-- canvas_x: id -->` comments that round-trip remote
// identities through the text representation.
package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/derekvan/canvas-markdown-tools/internal/model"
)

var (
	modulePattern = regexp.MustCompile(`^# (.+)$`)
	itemPattern   = regexp.MustCompile(`^## \[(\w+)\] (.+)$`)
	metaPattern   = regexp.MustCompile(`^(\w+):\s*(.+)$`)
	idPattern     = regexp.MustCompile(`^<!-- canvas_(\w+): (\S+) -->$`)
)

const bodySeparator = "---"

// Parse turns a course document (frontmatter already stripped) into the
// content tree. Malformed fields never fail the parse: they fall back to
// documented defaults and produce a warning.
func Parse(content string) ([]*model.Module, []string) {
	p := &parser{lines: strings.Split(content, "\n")}
	p.parse()
	return p.modules, p.warnings
}

type parser struct {
	lines    []string
	pos      int
	modules  []*model.Module
	warnings []string
}

func (p *parser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *parser) parse() {
	for p.pos < len(p.lines) {
		line := strings.TrimRight(p.lines[p.pos], " \t\r")

		if m := modulePattern.FindStringSubmatch(line); m != nil {
			mod := &model.Module{Title: m[1]}
			p.pos++
			// A module id comment may follow directly.
			if p.pos < len(p.lines) {
				if id := idPattern.FindStringSubmatch(strings.TrimRight(p.lines[p.pos], " \t\r")); id != nil && id[1] == "module_id" {
					mod.RemoteID = id[2]
					p.pos++
				}
			}
			p.modules = append(p.modules, mod)
			continue
		}

		if m := itemPattern.FindStringSubmatch(line); m != nil && len(p.modules) > 0 {
			kind := strings.ToLower(m[1])
			title := m[2]
			p.pos++
			if item := p.parseItem(kind, title); item != nil {
				last := p.modules[len(p.modules)-1]
				last.Items = append(last.Items, item)
			}
			continue
		}

		p.pos++
	}
}

// parseItem consumes metadata, id comments and body lines up to the next
// module or item heading.
func (p *parser) parseItem(kind, title string) *model.Item {
	metadata := map[string]string{}
	ids := map[string]string{}
	var contentLines []string
	inContent := false

	for p.pos < len(p.lines) {
		line := strings.TrimRight(p.lines[p.pos], " \t\r")

		if modulePattern.MatchString(line) || itemPattern.MatchString(line) {
			break
		}

		if line == bodySeparator {
			inContent = true
			p.pos++
			continue
		}

		if id := idPattern.FindStringSubmatch(line); id != nil {
			ids[id[1]] = id[2]
			p.pos++
			continue
		}

		if inContent {
			contentLines = append(contentLines, line)
		} else if meta := metaPattern.FindStringSubmatch(line); meta != nil {
			metadata[strings.ToLower(meta[1])] = strings.TrimSpace(meta[2])
		} else if line != "" && !strings.HasPrefix(line, "<!--") {
			// Not metadata and not a comment: body content for items
			// without an explicit separator, like pages.
			contentLines = append(contentLines, line)
		} else if line == "" && len(contentLines) > 0 {
			// Keep paragraph breaks once the body has started.
			contentLines = append(contentLines, line)
		}

		p.pos++
	}

	body := strings.TrimSpace(strings.Join(contentLines, "\n"))

	switch kind {
	case "header":
		return &model.Item{
			Kind:        model.KindHeader,
			Title:       title,
			PlacementID: ids["module_item_id"],
		}

	case "page":
		return &model.Item{
			Kind:        model.KindPage,
			Title:       title,
			Body:        body,
			ContentID:   ids["page_id"],
			PlacementID: ids["module_item_id"],
		}

	case "link":
		url := metadata["url"]
		if url == "" {
			p.warnf("link %q has no URL, skipping", title)
			return nil
		}
		return &model.Item{
			Kind:        model.KindLink,
			Title:       title,
			URL:         url,
			PlacementID: ids["module_item_id"],
		}

	case "file":
		filename := metadata["filename"]
		if filename == "" {
			filename = title
		}
		return &model.Item{
			Kind:        model.KindFile,
			Title:       title,
			Filename:    filename,
			ContentID:   ids["file_id"],
			PlacementID: ids["module_item_id"],
		}

	case "assignment":
		return &model.Item{
			Kind:            model.KindAssignment,
			Title:           title,
			Body:            body,
			Points:          p.parsePoints(title, metadata["points"]),
			DueAt:           p.parseDue(title, metadata["due"]),
			GradeDisplay:    model.ParseGradeDisplay(metadata["grade_display"]),
			SubmissionTypes: model.ParseSubmissionTypes(metadata["submission_types"]),
			ContentID:       ids["assignment_id"],
			PlacementID:     ids["module_item_id"],
		}

	case "discussion":
		return &model.Item{
			Kind:               model.KindDiscussion,
			Title:              title,
			Body:               body,
			RequireInitialPost: parseBool(metadata["require_initial_post"], false),
			Threaded:           parseBool(metadata["threaded"], true),
			Graded:             parseBool(metadata["graded"], false),
			Points:             p.parsePoints(title, metadata["points"]),
			DueAt:              p.parseDue(title, metadata["due"]),
			GradeDisplay:       model.ParseGradeDisplay(metadata["grade_display"]),
			ContentID:          ids["discussion_id"],
			PlacementID:        ids["module_item_id"],
		}

	default:
		p.warnf("unknown item type %q, skipping %q", kind, title)
		return nil
	}
}

func (p *parser) parsePoints(title, raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.warnf("%q: could not parse points %q, using 0", title, raw)
		return 0
	}
	return v
}

func (p *parser) parseDue(title, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := ParseDueDate(raw)
	if err != nil {
		p.warnf("%q: could not parse due date %q, omitting", title, raw)
		return nil
	}
	return &t
}

func parseBool(raw string, def bool) bool {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "on":
		return true
	default:
		return false
	}
}
