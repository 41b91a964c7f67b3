package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/derekvan/canvas-markdown-tools/internal/model"
)

func TestWriteRoundTrip(t *testing.T) {
	due := time.Date(2026, 2, 3, 23, 59, 0, 0, time.Local)
	meta := Meta{CanvasURL: "https://canvas.test", CourseID: "126998"}
	modules := []*model.Module{
		{
			Title:    "Week 1",
			RemoteID: "101",
			Items: []*model.Item{
				{Kind: model.KindHeader, Title: "In Class", PlacementID: "1"},
				{
					Kind:        model.KindPage,
					Title:       "Overview",
					Body:        "First paragraph.\n\nSecond paragraph.",
					ContentID:   "overview",
					PlacementID: "2",
				},
				{Kind: model.KindLink, Title: "Portal", URL: "https://portal.example.edu"},
				{
					Kind:      model.KindFile,
					Title:     "Reading Packet",
					Filename:  "packet.pdf",
					ContentID: "501",
				},
				{
					Kind:            model.KindAssignment,
					Title:           "Essay",
					Body:            "Write it.",
					Points:          25.5,
					DueAt:           &due,
					GradeDisplay:    model.GradePoints,
					SubmissionTypes: []model.SubmissionType{model.SubmitOnlineUpload},
					ContentID:       "201",
				},
				{
					Kind:               model.KindDiscussion,
					Title:              "Debate",
					Body:               "Take a side.",
					Threaded:           true,
					RequireInitialPost: true,
					Graded:             true,
					Points:             10,
					GradeDisplay:       model.GradeCompleteIncomplete,
					ContentID:          "301",
				},
			},
		},
		{Title: "Week 2"},
	}

	doc := Write(meta, modules)

	gotMeta, body, err := ExtractFrontmatter(doc)
	if err != nil {
		t.Fatalf("ExtractFrontmatter: %v", err)
	}
	if gotMeta != meta {
		t.Errorf("Frontmatter = %+v, want %+v", gotMeta, meta)
	}

	parsed, warnings := Parse(body)
	if len(warnings) != 0 {
		t.Fatalf("Round-trip warnings: %v", warnings)
	}
	if len(parsed) != 2 {
		t.Fatalf("Expected 2 modules, got %d", len(parsed))
	}

	m := parsed[0]
	if m.Title != "Week 1" || m.RemoteID != "101" {
		t.Errorf("Module = %q id %q", m.Title, m.RemoteID)
	}
	if len(m.Items) != 6 {
		t.Fatalf("Expected 6 items, got %d", len(m.Items))
	}

	for i, orig := range modules[0].Items {
		got := m.Items[i]
		if got.Kind != orig.Kind || got.Title != orig.Title {
			t.Errorf("Item %d = %s %q, want %s %q", i, got.Kind, got.Title, orig.Kind, orig.Title)
		}
		if got.ContentID != orig.ContentID {
			t.Errorf("Item %d ContentID = %q, want %q", i, got.ContentID, orig.ContentID)
		}
		if got.PlacementID != orig.PlacementID {
			t.Errorf("Item %d PlacementID = %q, want %q", i, got.PlacementID, orig.PlacementID)
		}
	}

	page := m.Items[1]
	if page.Body != "First paragraph.\n\nSecond paragraph." {
		t.Errorf("Page body = %q", page.Body)
	}

	asg := m.Items[4]
	if asg.Points != 25.5 {
		t.Errorf("Assignment points = %v", asg.Points)
	}
	if asg.DueAt == nil || !asg.DueAt.Equal(due) {
		t.Errorf("Assignment due = %v, want %v", asg.DueAt, due)
	}
	if asg.GradeDisplay != model.GradePoints {
		t.Errorf("Assignment grade display = %q", asg.GradeDisplay)
	}
	if len(asg.SubmissionTypes) != 1 || asg.SubmissionTypes[0] != model.SubmitOnlineUpload {
		t.Errorf("Assignment submission types = %v", asg.SubmissionTypes)
	}

	disc := m.Items[5]
	if !disc.Graded || !disc.Threaded || !disc.RequireInitialPost {
		t.Errorf("Discussion flags lost: %+v", disc)
	}
	if disc.Points != 10 {
		t.Errorf("Discussion points = %v", disc.Points)
	}
}

func TestWriteOmitsEmptyIDs(t *testing.T) {
	doc := Write(Meta{}, []*model.Module{
		{Title: "New Week", Items: []*model.Item{
			{Kind: model.KindPage, Title: "Fresh Page", Body: "Body."},
		}},
	})

	if strings.Contains(doc, "canvas_") {
		t.Errorf("Expected no id comments for unsynced content, got:\n%s", doc)
	}
	if strings.Contains(doc, "---") {
		t.Errorf("Expected no frontmatter without meta, got:\n%s", doc)
	}
}
