package model

import (
	"testing"
)

func TestKindString(t *testing.T) {
	testCases := []struct {
		kind Kind
		want string
	}{
		{KindHeader, "header"},
		{KindPage, "page"},
		{KindLink, "link"},
		{KindFile, "file"},
		{KindAssignment, "assignment"},
		{KindDiscussion, "discussion"},
		{Kind(99), "unknown"},
	}

	for _, tc := range testCases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestHasContentResource(t *testing.T) {
	testCases := []struct {
		kind Kind
		want bool
	}{
		{KindHeader, false},
		{KindLink, false},
		{KindPage, true},
		{KindFile, true},
		{KindAssignment, true},
		{KindDiscussion, true},
	}

	for _, tc := range testCases {
		it := &Item{Kind: tc.kind}
		if got := it.HasContentResource(); got != tc.want {
			t.Errorf("HasContentResource for %s = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestGradeDisplay(t *testing.T) {
	testCases := []struct {
		in         string
		want       GradeDisplay
		wantCanvas string
	}{
		{"points", GradePoints, "points"},
		{"not_graded", GradeNotGraded, "not_graded"},
		{"complete_incomplete", GradeCompleteIncomplete, "pass_fail"},
		{"pass_fail", GradeCompleteIncomplete, "pass_fail"},
		{"Points", GradePoints, "points"},
		{"", GradeCompleteIncomplete, "pass_fail"},
		{"bogus", GradeCompleteIncomplete, "pass_fail"},
	}

	for _, tc := range testCases {
		got := ParseGradeDisplay(tc.in)
		if got != tc.want {
			t.Errorf("ParseGradeDisplay(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if got.Canvas() != tc.wantCanvas {
			t.Errorf("ParseGradeDisplay(%q).Canvas() = %q, want %q", tc.in, got.Canvas(), tc.wantCanvas)
		}
	}
}

func TestParseSubmissionTypes(t *testing.T) {
	testCases := []struct {
		in   string
		want []SubmissionType
	}{
		{"online_text_entry", []SubmissionType{SubmitOnlineText}},
		{"text", []SubmissionType{SubmitOnlineText}},
		{"upload, url", []SubmissionType{SubmitOnlineUpload, SubmitOnlineURL}},
		{"Upload,  MEDIA", []SubmissionType{SubmitOnlineUpload, SubmitMediaRecording}},
		{"paper", []SubmissionType{SubmitOnPaper}},
		{"none", []SubmissionType{SubmitNone}},
		// Unknown entries drop; empty result defaults
		{"telepathy", []SubmissionType{SubmitOnlineText}},
		{"", []SubmissionType{SubmitOnlineText}},
		{"upload, telepathy", []SubmissionType{SubmitOnlineUpload}},
	}

	for _, tc := range testCases {
		got := ParseSubmissionTypes(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("ParseSubmissionTypes(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseSubmissionTypes(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestSubmissionTypeStrings(t *testing.T) {
	got := SubmissionTypeStrings([]SubmissionType{SubmitOnlineText, SubmitOnPaper})
	if len(got) != 2 || got[0] != "online_text_entry" || got[1] != "on_paper" {
		t.Errorf("SubmissionTypeStrings = %v", got)
	}
}
