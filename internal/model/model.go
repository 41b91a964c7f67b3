package model

import "time"

// Module is an ordered group of content items. Item order is significant:
// it becomes the item's position inside the Canvas module.
type Module struct {
	Title string
	Items []*Item

	// RemoteID is the Canvas module id, set when the module already exists
	// (round-tripped through the markdown id comments) or assigned once the
	// create call succeeds.
	RemoteID string
}

// Kind tags the Item variant.
type Kind int

const (
	KindHeader Kind = iota
	KindPage
	KindLink
	KindFile
	KindAssignment
	KindDiscussion
)

var kindNames = map[Kind]string{
	KindHeader:     "header",
	KindPage:       "page",
	KindLink:       "link",
	KindFile:       "file",
	KindAssignment: "assignment",
	KindDiscussion: "discussion",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Item is the tagged union over all module content variants. Which fields
// are meaningful depends on Kind:
//
//	header:     Title
//	page:       Title, Body
//	link:       Title, URL
//	file:       Title, Filename
//	assignment: Title, Body, Points, DueAt, GradeDisplay, SubmissionTypes
//	discussion: Title, Body, RequireInitialPost, Threaded, Graded,
//	            and the assignment grading fields when Graded
type Item struct {
	Kind  Kind
	Title string
	Body  string

	URL      string // external link target
	Filename string // lookup key into the course files listing

	Points          float64
	DueAt           *time.Time
	GradeDisplay    GradeDisplay
	SubmissionTypes []SubmissionType

	RequireInitialPost bool
	Threaded           bool
	Graded             bool

	// ContentID is the remote identity of the underlying resource: page URL
	// slug, assignment id, discussion id, or resolved file id. Empty until
	// the resource exists. Carried as a string because Canvas addresses
	// pages by slug and everything else by numeric id.
	ContentID string

	// ContentURL is the canonical html_url of the resource once known; the
	// resolver uses it to render internal links.
	ContentURL string

	// PlacementID is the remote identity of the module-item record placing
	// this item inside its module. Independent of ContentID: a page can
	// exist while its placement is newly created, and vice versa.
	PlacementID string
}

// HasContentResource reports whether the variant owns a standalone Canvas
// resource. Headers and external links exist only as module items.
func (it *Item) HasContentResource() bool {
	switch it.Kind {
	case KindHeader, KindLink:
		return false
	default:
		return true
	}
}

// GradeDisplay is the local grading-display vocabulary. Canvas uses a
// different one (complete_incomplete maps to pass_fail).
type GradeDisplay string

const (
	GradeCompleteIncomplete GradeDisplay = "complete_incomplete"
	GradePoints             GradeDisplay = "points"
	GradeNotGraded          GradeDisplay = "not_graded"
)

// Canvas returns the Canvas API grading_type value.
func (g GradeDisplay) Canvas() string {
	switch g {
	case GradePoints:
		return "points"
	case GradeNotGraded:
		return "not_graded"
	default:
		return "pass_fail"
	}
}

// ParseGradeDisplay accepts both the local and the Canvas vocabulary.
// Unknown values fall back to complete_incomplete, the most conservative
// variant.
func ParseGradeDisplay(s string) GradeDisplay {
	switch normToken(s) {
	case "points":
		return GradePoints
	case "not_graded":
		return GradeNotGraded
	case "complete_incomplete", "pass_fail":
		return GradeCompleteIncomplete
	default:
		return GradeCompleteIncomplete
	}
}

// SubmissionType is a Canvas assignment submission mechanism. The values
// are the Canvas API ones; ParseSubmissionTypes maps the local shorthands.
type SubmissionType string

const (
	SubmitOnlineText     SubmissionType = "online_text_entry"
	SubmitOnlineUpload   SubmissionType = "online_upload"
	SubmitOnlineURL      SubmissionType = "online_url"
	SubmitMediaRecording SubmissionType = "media_recording"
	SubmitNone           SubmissionType = "none"
	SubmitOnPaper        SubmissionType = "on_paper"
)

var submissionAliases = map[string]SubmissionType{
	"online_text_entry": SubmitOnlineText,
	"online_text":       SubmitOnlineText,
	"text":              SubmitOnlineText,
	"online_upload":     SubmitOnlineUpload,
	"upload":            SubmitOnlineUpload,
	"file":              SubmitOnlineUpload,
	"online_url":        SubmitOnlineURL,
	"url":               SubmitOnlineURL,
	"media_recording":   SubmitMediaRecording,
	"media":             SubmitMediaRecording,
	"none":              SubmitNone,
	"on_paper":          SubmitOnPaper,
	"paper":             SubmitOnPaper,
}

// ParseSubmissionTypes parses a comma-separated list. Unrecognized entries
// are dropped; an empty result falls back to online_text_entry.
func ParseSubmissionTypes(s string) []SubmissionType {
	var out []SubmissionType
	for _, part := range splitComma(s) {
		if st, ok := submissionAliases[normToken(part)]; ok {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return []SubmissionType{SubmitOnlineText}
	}
	return out
}

// SubmissionTypeStrings converts to the raw Canvas values.
func SubmissionTypeStrings(types []SubmissionType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
