package canvas

// Remote representations, decoded from the Canvas REST API. Only the fields
// the sync reads are declared; Canvas returns many more.

type Module struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// ModuleItem is the placement record linking a resource (or a bare header /
// external URL) to a module at a position.
type ModuleItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Position    int    `json:"position"`
	ContentID   int    `json:"content_id"`
	PageURL     string `json:"page_url"`
	ExternalURL string `json:"external_url"`
	HTMLURL     string `json:"html_url"`
}

type Page struct {
	PageID    int    `json:"page_id"`
	URL       string `json:"url"` // slug, the page's stable identity
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	HTMLURL   string `json:"html_url"`
}

type Assignment struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	PointsPossible  float64  `json:"points_possible"`
	DueAt           string   `json:"due_at"` // ISO-8601 or empty
	GradingType     string   `json:"grading_type"`
	SubmissionTypes []string `json:"submission_types"`
	Published       bool     `json:"published"`
	HTMLURL         string   `json:"html_url"`
}

type Discussion struct {
	ID                 int    `json:"id"`
	Title              string `json:"title"`
	Message            string `json:"message"`
	RequireInitialPost bool   `json:"require_initial_post"`
	DiscussionType     string `json:"discussion_type"`
	HTMLURL            string `json:"html_url"`

	// Assignment is present only for graded discussions.
	Assignment *Assignment `json:"assignment"`
}

type File struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	Filename    string `json:"filename"`
	URL         string `json:"url"`
}
