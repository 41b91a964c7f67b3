// Package diff compares one local entity against its remote Canvas
// representation and reports whether it differs, and in which fields.
//
// The field list is for reporting only. Any detected change triggers a
// full-record update: Canvas has no field-level PATCH with stable
// semantics for every field, and submission types cannot be altered after
// creation at all.
package diff

import (
	"time"

	"github.com/derekvan/canvas-markdown-tools/internal/canvas"
	"github.com/derekvan/canvas-markdown-tools/internal/model"
	"github.com/derekvan/canvas-markdown-tools/internal/normalize"
)

// Result of one comparison. Changed is false iff Fields is empty.
type Result struct {
	Changed bool
	Fields  []string
}

func result(fields []string) Result {
	return Result{Changed: len(fields) > 0, Fields: fields}
}

// Module compares module metadata.
func Module(local *model.Module, remote canvas.Module) Result {
	var changed []string
	if local.Title != remote.Name {
		changed = append(changed, "title")
	}
	return result(changed)
}

// Header compares a text header against its module item.
func Header(local *model.Item, remote canvas.ModuleItem) Result {
	var changed []string
	if local.Title != remote.Title {
		changed = append(changed, "title")
	}
	return result(changed)
}

// Link compares an external link against its module item.
func Link(local *model.Item, remote canvas.ModuleItem) Result {
	var changed []string
	if local.Title != remote.Title {
		changed = append(changed, "title")
	}
	if local.URL != remote.ExternalURL {
		changed = append(changed, "url")
	}
	return result(changed)
}

// Page compares a page's title and normalized body.
func Page(local *model.Item, remote canvas.Page) Result {
	var changed []string
	if local.Title != remote.Title {
		changed = append(changed, "title")
	}
	if normalize.Normalize(local.Body) != normalize.Normalize(remote.Body) {
		changed = append(changed, "content")
	}
	return result(changed)
}

// Assignment compares an assignment's metadata and normalized description.
func Assignment(local *model.Item, remote canvas.Assignment) Result {
	var changed []string
	if local.Title != remote.Name {
		changed = append(changed, "title")
	}
	if normalize.Normalize(local.Body) != normalize.Normalize(remote.Description) {
		changed = append(changed, "description")
	}
	if local.Points != remote.PointsPossible {
		changed = append(changed, "points")
	}
	if !dueEqual(local.DueAt, remote.DueAt) {
		changed = append(changed, "due_date")
	}
	if local.GradeDisplay.Canvas() != gradingOrDefault(remote.GradingType) {
		changed = append(changed, "grading_type")
	}
	if !sameSet(model.SubmissionTypeStrings(local.SubmissionTypes), remote.SubmissionTypes) {
		changed = append(changed, "submission_types")
	}
	return result(changed)
}

// Discussion compares a discussion's metadata and normalized message. A
// graded↔ungraded transition is itself a change; grading fields are only
// compared while the discussion is graded on both sides.
func Discussion(local *model.Item, remote canvas.Discussion) Result {
	var changed []string
	if local.Title != remote.Title {
		changed = append(changed, "title")
	}
	if normalize.Normalize(local.Body) != normalize.Normalize(remote.Message) {
		changed = append(changed, "message")
	}
	if local.RequireInitialPost != remote.RequireInitialPost {
		changed = append(changed, "require_initial_post")
	}
	localType := "side_comment"
	if local.Threaded {
		localType = "threaded"
	}
	remoteType := remote.DiscussionType
	if remoteType == "" {
		remoteType = "threaded"
	}
	if localType != remoteType {
		changed = append(changed, "discussion_type")
	}

	switch {
	case local.Graded && remote.Assignment == nil:
		changed = append(changed, "graded_status")
	case local.Graded:
		sub := remote.Assignment
		if local.Points != sub.PointsPossible {
			changed = append(changed, "points")
		}
		if !dueEqual(local.DueAt, sub.DueAt) {
			changed = append(changed, "due_date")
		}
		if local.GradeDisplay.Canvas() != gradingOrDefault(sub.GradingType) {
			changed = append(changed, "grading_type")
		}
	case remote.Assignment != nil:
		// Was graded, now not.
		changed = append(changed, "graded_status")
	}
	return result(changed)
}

// Placement compares a module-item record. wantTitle is empty for variants
// whose item title is owned by the content resource, and externalURL is
// non-empty only for links.
func Placement(wantTitle string, position int, externalURL string, remote canvas.ModuleItem) Result {
	var changed []string
	if wantTitle != "" && wantTitle != remote.Title {
		changed = append(changed, "title")
	}
	if externalURL != "" && externalURL != remote.ExternalURL {
		changed = append(changed, "url")
	}
	if position != remote.Position {
		changed = append(changed, "position")
	}
	return result(changed)
}

// dueEqual compares due timestamps by canonical ISO-8601 form. Absence on
// both sides is unchanged; absence on one side only is changed.
func dueEqual(local *time.Time, remote string) bool {
	if local == nil && remote == "" {
		return true
	}
	if local == nil || remote == "" {
		return false
	}
	rt, err := time.Parse(time.RFC3339, remote)
	if err != nil {
		// Unparseable remote value: fall back to the raw string against
		// the local canonical form.
		return local.Format(time.RFC3339) == remote
	}
	return local.UTC().Format(time.RFC3339) == rt.UTC().Format(time.RFC3339)
}

func gradingOrDefault(s string) string {
	if s == "" {
		return "pass_fail"
	}
	return s
}

func sameSet(a, b []string) bool {
	set := func(ss []string) map[string]bool {
		m := make(map[string]bool, len(ss))
		for _, s := range ss {
			m[s] = true
		}
		return m
	}
	sa, sb := set(a), set(b)
	if len(sa) != len(sb) {
		return false
	}
	for k := range sa {
		if !sb[k] {
			return false
		}
	}
	return true
}
