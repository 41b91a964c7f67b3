package diff

import (
	"testing"
	"time"

	"github.com/derekvan/canvas-markdown-tools/internal/canvas"
	"github.com/derekvan/canvas-markdown-tools/internal/model"
)

func fields(r Result) map[string]bool {
	m := make(map[string]bool, len(r.Fields))
	for _, f := range r.Fields {
		m[f] = true
	}
	return m
}

func TestModule(t *testing.T) {
	local := &model.Module{Title: "Week 1 - Jan 13 & 15"}

	r := Module(local, canvas.Module{Name: "Week 1 - Jan 13 & 15"})
	if r.Changed {
		t.Errorf("Expected no change for equal names, got %v", r.Fields)
	}

	r = Module(local, canvas.Module{Name: "Week 1"})
	if !r.Changed || !fields(r)["title"] {
		t.Errorf("Expected title change, got %v", r.Fields)
	}
}

func TestLink(t *testing.T) {
	local := &model.Item{Kind: model.KindLink, Title: "Course Tool", URL: "https://tool.example.edu"}

	r := Link(local, canvas.ModuleItem{Title: "Course Tool", ExternalURL: "https://tool.example.edu"})
	if r.Changed {
		t.Errorf("Expected no change, got %v", r.Fields)
	}

	r = Link(local, canvas.ModuleItem{Title: "Course Tool", ExternalURL: "https://old.example.edu"})
	if !fields(r)["url"] {
		t.Errorf("Expected url change, got %v", r.Fields)
	}
}

func TestPageBodyComparedNormalized(t *testing.T) {
	local := &model.Item{
		Kind:  model.KindPage,
		Title: "Syllabus",
		Body:  "**Welcome** to the course",
	}

	// Canvas stores rendered HTML; equal visible text means unchanged.
	r := Page(local, canvas.Page{Title: "Syllabus", Body: "<p><strong>Welcome</strong> to the course</p>"})
	if r.Changed {
		t.Errorf("Expected markup-only difference to compare equal, got %v", r.Fields)
	}

	r = Page(local, canvas.Page{Title: "Syllabus", Body: "<p>Welcome to the class</p>"})
	if !fields(r)["content"] {
		t.Errorf("Expected content change, got %v", r.Fields)
	}
}

func TestAssignment(t *testing.T) {
	due := time.Date(2026, 1, 20, 23, 59, 0, 0, time.UTC)
	local := &model.Item{
		Kind:            model.KindAssignment,
		Title:           "Essay 1",
		Body:            "Write an essay",
		Points:          100,
		DueAt:           &due,
		GradeDisplay:    model.GradePoints,
		SubmissionTypes: []model.SubmissionType{model.SubmitOnlineUpload, model.SubmitOnlineText},
	}

	remote := canvas.Assignment{
		Name:            "Essay 1",
		Description:     "<p>Write an essay</p>",
		PointsPossible:  100,
		DueAt:           "2026-01-20T23:59:00Z",
		GradingType:     "points",
		SubmissionTypes: []string{"online_text_entry", "online_upload"},
	}

	r := Assignment(local, remote)
	if r.Changed {
		t.Errorf("Expected no change, got %v", r.Fields)
	}

	// Submission type order must not matter
	remote.SubmissionTypes = []string{"online_upload", "online_text_entry"}
	if r := Assignment(local, remote); r.Changed {
		t.Errorf("Expected submission type order to be ignored, got %v", r.Fields)
	}

	changed := remote
	changed.PointsPossible = 50
	changed.DueAt = "2026-01-21T23:59:00Z"
	r = Assignment(local, changed)
	got := fields(r)
	if !got["points"] || !got["due_date"] {
		t.Errorf("Expected points and due_date changes, got %v", r.Fields)
	}
}

func TestAssignmentDueDates(t *testing.T) {
	due := time.Date(2026, 1, 20, 23, 59, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		local   *time.Time
		remote  string
		changed bool
	}{
		{
			name:    "Both absent",
			local:   nil,
			remote:  "",
			changed: false,
		},
		{
			name:    "Local only",
			local:   &due,
			remote:  "",
			changed: true,
		},
		{
			name:    "Remote only",
			local:   nil,
			remote:  "2026-01-20T23:59:00Z",
			changed: true,
		},
		{
			name:    "Equal instants different zones",
			local:   timePtr(time.Date(2026, 1, 20, 18, 59, 0, 0, time.FixedZone("EST", -5*3600))),
			remote:  "2026-01-20T23:59:00Z",
			changed: false,
		},
		{
			name:    "Different instants",
			local:   &due,
			remote:  "2026-01-27T23:59:00Z",
			changed: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			local := &model.Item{
				Kind:            model.KindAssignment,
				Title:           "A",
				Points:          10,
				DueAt:           tc.local,
				GradeDisplay:    model.GradePoints,
				SubmissionTypes: []model.SubmissionType{model.SubmitOnlineText},
			}
			remote := canvas.Assignment{
				Name:            "A",
				PointsPossible:  10,
				DueAt:           tc.remote,
				GradingType:     "points",
				SubmissionTypes: []string{"online_text_entry"},
			}
			r := Assignment(local, remote)
			if r.Changed != tc.changed {
				t.Errorf("Changed = %v (fields %v), want %v", r.Changed, r.Fields, tc.changed)
			}
		})
	}
}

func TestDiscussionGradedTransitions(t *testing.T) {
	base := func() *model.Item {
		return &model.Item{
			Kind:         model.KindDiscussion,
			Title:        "Week 1 Discussion",
			Body:         "Introduce yourself",
			Threaded:     true,
			GradeDisplay: model.GradeCompleteIncomplete,
		}
	}
	remoteBase := canvas.Discussion{
		Title:          "Week 1 Discussion",
		Message:        "<p>Introduce yourself</p>",
		DiscussionType: "threaded",
	}

	// Ungraded on both sides: unchanged
	if r := Discussion(base(), remoteBase); r.Changed {
		t.Errorf("Expected no change for matching ungraded discussion, got %v", r.Fields)
	}

	// Locally graded, remotely ungraded
	graded := base()
	graded.Graded = true
	graded.Points = 5
	if r := Discussion(graded, remoteBase); !fields(r)["graded_status"] {
		t.Errorf("Expected graded_status change, got %v", r.Fields)
	}

	// Locally ungraded, remote carries an assignment
	remoteGraded := remoteBase
	remoteGraded.Assignment = &canvas.Assignment{PointsPossible: 5, GradingType: "pass_fail"}
	if r := Discussion(base(), remoteGraded); !fields(r)["graded_status"] {
		t.Errorf("Expected graded_status change, got %v", r.Fields)
	}

	// Graded on both sides with equal fields: unchanged
	if r := Discussion(graded, remoteGraded); r.Changed {
		t.Errorf("Expected no change for matching graded discussion, got %v", r.Fields)
	}

	// Graded on both sides, differing points
	remoteGraded.Assignment = &canvas.Assignment{PointsPossible: 10, GradingType: "pass_fail"}
	if r := Discussion(graded, remoteGraded); !fields(r)["points"] {
		t.Errorf("Expected points change, got %v", r.Fields)
	}
}

func TestDiscussionType(t *testing.T) {
	local := &model.Item{
		Kind:         model.KindDiscussion,
		Title:        "D",
		Threaded:     false,
		GradeDisplay: model.GradeCompleteIncomplete,
	}
	remote := canvas.Discussion{Title: "D", DiscussionType: "threaded"}

	if r := Discussion(local, remote); !fields(r)["discussion_type"] {
		t.Errorf("Expected discussion_type change, got %v", r.Fields)
	}

	remote.DiscussionType = "side_comment"
	if r := Discussion(local, remote); r.Changed {
		t.Errorf("Expected no change, got %v", r.Fields)
	}
}

func TestPlacement(t *testing.T) {
	remote := canvas.ModuleItem{Title: "Overview", Position: 2, ExternalURL: ""}

	// Title owned by the content resource: only position is compared
	if r := Placement("", 2, "", remote); r.Changed {
		t.Errorf("Expected no change, got %v", r.Fields)
	}
	if r := Placement("", 3, "", remote); !fields(r)["position"] {
		t.Errorf("Expected position change, got %v", r.Fields)
	}
	if r := Placement("Overview", 2, "", remote); r.Changed {
		t.Errorf("Expected no change with matching title, got %v", r.Fields)
	}
	if r := Placement("Intro", 2, "", remote); !fields(r)["title"] {
		t.Errorf("Expected title change, got %v", r.Fields)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
