package markdown

import (
	"fmt"
	"strings"

	"github.com/derekvan/canvas-markdown-tools/internal/model"
)

// Write renders a content tree back into the course document format,
// including every known remote identity so a later push can match
// entities instead of recreating them.
func Write(meta Meta, modules []*model.Module) string {
	var b strings.Builder

	if meta.CanvasURL != "" || meta.CourseID != "" {
		b.WriteString(frontmatterDelim + "\n")
		if meta.CanvasURL != "" {
			fmt.Fprintf(&b, "canvas_url: %s\n", meta.CanvasURL)
		}
		if meta.CourseID != "" {
			fmt.Fprintf(&b, "course_id: %s\n", meta.CourseID)
		}
		b.WriteString(frontmatterDelim + "\n\n")
	}

	for i, mod := range modules {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n", mod.Title)
		writeID(&b, "module_id", mod.RemoteID)
		for _, it := range mod.Items {
			b.WriteString("\n")
			writeItem(&b, it)
		}
	}

	return b.String()
}

func writeItem(b *strings.Builder, it *model.Item) {
	fmt.Fprintf(b, "## [%s] %s\n", it.Kind, it.Title)

	switch it.Kind {
	case model.KindHeader:
		writeID(b, "module_item_id", it.PlacementID)

	case model.KindLink:
		writeID(b, "module_item_id", it.PlacementID)
		fmt.Fprintf(b, "url: %s\n", it.URL)

	case model.KindFile:
		writeID(b, "file_id", it.ContentID)
		writeID(b, "module_item_id", it.PlacementID)
		if it.Filename != "" && it.Filename != it.Title {
			fmt.Fprintf(b, "filename: %s\n", it.Filename)
		}

	case model.KindPage:
		writeID(b, "page_id", it.ContentID)
		writeID(b, "module_item_id", it.PlacementID)
		if it.Body != "" {
			b.WriteString(it.Body + "\n")
		}

	case model.KindAssignment:
		writeID(b, "assignment_id", it.ContentID)
		writeID(b, "module_item_id", it.PlacementID)
		fmt.Fprintf(b, "points: %s\n", formatPoints(it.Points))
		if it.DueAt != nil {
			fmt.Fprintf(b, "due: %s\n", FormatDueDate(*it.DueAt))
		}
		fmt.Fprintf(b, "grade_display: %s\n", it.GradeDisplay)
		fmt.Fprintf(b, "submission_types: %s\n", strings.Join(model.SubmissionTypeStrings(it.SubmissionTypes), ", "))
		writeBody(b, it.Body)

	case model.KindDiscussion:
		writeID(b, "discussion_id", it.ContentID)
		writeID(b, "module_item_id", it.PlacementID)
		fmt.Fprintf(b, "threaded: %t\n", it.Threaded)
		fmt.Fprintf(b, "require_initial_post: %t\n", it.RequireInitialPost)
		fmt.Fprintf(b, "graded: %t\n", it.Graded)
		if it.Graded {
			fmt.Fprintf(b, "points: %s\n", formatPoints(it.Points))
			if it.DueAt != nil {
				fmt.Fprintf(b, "due: %s\n", FormatDueDate(*it.DueAt))
			}
			fmt.Fprintf(b, "grade_display: %s\n", it.GradeDisplay)
		}
		writeBody(b, it.Body)
	}
}

func writeBody(b *strings.Builder, body string) {
	if body == "" {
		return
	}
	b.WriteString(bodySeparator + "\n")
	b.WriteString(body + "\n")
}

func writeID(b *strings.Builder, key, id string) {
	if id == "" {
		return
	}
	fmt.Fprintf(b, "<!-- canvas_%s: %s -->\n", key, id)
}

func formatPoints(p float64) string {
	s := fmt.Sprintf("%g", p)
	return s
}
