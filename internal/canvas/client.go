// Package canvas is a typed client for the Canvas LMS REST API, scoped to
// one course. Reads are JSON, writes are form-encoded, listings follow
// Link-header pagination.
package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/derekvan/canvas-markdown-tools/internal/httpx"
)

type Client struct {
	BaseURL  string // e.g. https://kent.instructure.com
	CourseID string
	Token    string
	HTTP     *http.Client
	Retry    httpx.RetryConfig
}

func New(baseURL, courseID, token string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		CourseID: courseID,
		Token:    token,
		HTTP: &http.Client{
			Timeout: 2 * time.Minute,
		},
		Retry: httpx.DefaultRetryConfig(),
	}
}

// CourseBase returns the instance URL and course id, used to build
// course-relative links outside the API namespace.
func (c *Client) CourseBase() (string, string) {
	return c.BaseURL, c.CourseID
}

func (c *Client) apiURL(path string) string {
	return fmt.Sprintf("%s/api/v1/courses/%s/%s", c.BaseURL, c.CourseID, path)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) (*http.Response, error) {
	return httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		return httpx.GetRequest(ctx, rawURL, c.Token)
	}, out, c.Retry)
}

func (c *Client) writeForm(ctx context.Context, method, rawURL string, form url.Values, out any) error {
	_, err := httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		return httpx.FormRequest(ctx, method, rawURL, form, c.Token)
	}, out, c.Retry)
	return err
}

/* -------- Modules -------- */

func (c *Client) GetModule(ctx context.Context, moduleID string) (Module, error) {
	var out Module
	_, err := c.getJSON(ctx, c.apiURL("modules/"+moduleID), &out)
	return out, err
}

func (c *Client) ListModules(ctx context.Context) ([]Module, error) {
	var all []Module
	next := c.apiURL("modules") + "?per_page=100"
	for next != "" {
		var page []Module
		resp, err := c.getJSON(ctx, next, &page)
		if err != nil {
			return nil, fmt.Errorf("canvas: list modules: %w", err)
		}
		all = append(all, page...)
		next = httpx.NextPageURL(resp)
	}
	return all, nil
}

func (c *Client) CreateModule(ctx context.Context, name string, position int) (Module, error) {
	form := url.Values{}
	form.Set("module[name]", name)
	if position > 0 {
		form.Set("module[position]", strconv.Itoa(position))
	}
	var out Module
	err := c.writeForm(ctx, http.MethodPost, c.apiURL("modules"), form, &out)
	return out, err
}

func (c *Client) UpdateModule(ctx context.Context, moduleID, name string, position int) (Module, error) {
	form := url.Values{}
	form.Set("module[name]", name)
	if position > 0 {
		form.Set("module[position]", strconv.Itoa(position))
	}
	var out Module
	err := c.writeForm(ctx, http.MethodPut, c.apiURL("modules/"+moduleID), form, &out)
	return out, err
}

/* -------- Module items -------- */

// ModuleItemFields is the writable surface of a placement record. Zero
// values are omitted from the request.
type ModuleItemFields struct {
	Type        string // SubHeader, Page, ExternalUrl, File, Assignment, Discussion
	Title       string
	ContentID   string
	PageURL     string
	ExternalURL string
	NewTab      bool
	Position    int
}

func (f ModuleItemFields) form() url.Values {
	form := url.Values{}
	if f.Type != "" {
		form.Set("module_item[type]", f.Type)
	}
	if f.Title != "" {
		form.Set("module_item[title]", f.Title)
	}
	if f.ContentID != "" {
		form.Set("module_item[content_id]", f.ContentID)
	}
	if f.PageURL != "" {
		form.Set("module_item[page_url]", f.PageURL)
	}
	if f.ExternalURL != "" {
		form.Set("module_item[external_url]", f.ExternalURL)
		form.Set("module_item[new_tab]", strconv.FormatBool(f.NewTab))
	}
	if f.Position > 0 {
		form.Set("module_item[position]", strconv.Itoa(f.Position))
	}
	return form
}

func (c *Client) GetModuleItem(ctx context.Context, moduleID, itemID string) (ModuleItem, error) {
	var out ModuleItem
	_, err := c.getJSON(ctx, c.apiURL("modules/"+moduleID+"/items/"+itemID), &out)
	return out, err
}

func (c *Client) ListModuleItems(ctx context.Context, moduleID string) ([]ModuleItem, error) {
	var all []ModuleItem
	next := c.apiURL("modules/"+moduleID+"/items") + "?per_page=100"
	for next != "" {
		var page []ModuleItem
		resp, err := c.getJSON(ctx, next, &page)
		if err != nil {
			return nil, fmt.Errorf("canvas: list module items: %w", err)
		}
		all = append(all, page...)
		next = httpx.NextPageURL(resp)
	}
	return all, nil
}

func (c *Client) CreateModuleItem(ctx context.Context, moduleID string, fields ModuleItemFields) (ModuleItem, error) {
	var out ModuleItem
	err := c.writeForm(ctx, http.MethodPost, c.apiURL("modules/"+moduleID+"/items"), fields.form(), &out)
	return out, err
}

func (c *Client) UpdateModuleItem(ctx context.Context, moduleID, itemID string, fields ModuleItemFields) (ModuleItem, error) {
	form := fields.form()
	form.Del("module_item[type]") // type is fixed at creation
	var out ModuleItem
	err := c.writeForm(ctx, http.MethodPut, c.apiURL("modules/"+moduleID+"/items/"+itemID), form, &out)
	return out, err
}

/* -------- Pages -------- */

func (c *Client) GetPage(ctx context.Context, slug string) (Page, error) {
	var out Page
	_, err := c.getJSON(ctx, c.apiURL("pages/"+url.PathEscape(slug)), &out)
	return out, err
}

func (c *Client) CreatePage(ctx context.Context, title, body string) (Page, error) {
	form := url.Values{}
	form.Set("wiki_page[title]", title)
	form.Set("wiki_page[body]", body)
	form.Set("wiki_page[published]", "true")
	var out Page
	err := c.writeForm(ctx, http.MethodPost, c.apiURL("pages"), form, &out)
	return out, err
}

func (c *Client) UpdatePage(ctx context.Context, slug, title, body string) (Page, error) {
	form := url.Values{}
	form.Set("wiki_page[body]", body)
	if title != "" {
		form.Set("wiki_page[title]", title)
	}
	var out Page
	err := c.writeForm(ctx, http.MethodPut, c.apiURL("pages/"+url.PathEscape(slug)), form, &out)
	return out, err
}

/* -------- Assignments -------- */

// AssignmentFields is the writable surface of an assignment.
// SubmissionTypes are honored on create only: Canvas rejects changing them
// on an existing assignment, so updates never send them.
type AssignmentFields struct {
	Name            string
	Description     string
	PointsPossible  float64
	DueAt           *time.Time
	GradingType     string
	SubmissionTypes []string
}

func (f AssignmentFields) form(includeSubmissionTypes bool) url.Values {
	form := url.Values{}
	form.Set("assignment[name]", f.Name)
	form.Set("assignment[description]", f.Description)
	form.Set("assignment[points_possible]", strconv.FormatFloat(f.PointsPossible, 'f', -1, 64))
	form.Set("assignment[grading_type]", f.GradingType)
	if f.DueAt != nil {
		// Omitted when nil: sending an empty due_at is a 400.
		form.Set("assignment[due_at]", f.DueAt.Format(time.RFC3339))
	}
	if includeSubmissionTypes {
		types := f.SubmissionTypes
		if len(types) == 0 {
			types = []string{"online_text_entry"}
		}
		for _, st := range types {
			form.Add("assignment[submission_types][]", st)
		}
	}
	return form
}

func (c *Client) GetAssignment(ctx context.Context, assignmentID string) (Assignment, error) {
	var out Assignment
	_, err := c.getJSON(ctx, c.apiURL("assignments/"+assignmentID), &out)
	return out, err
}

func (c *Client) CreateAssignment(ctx context.Context, fields AssignmentFields) (Assignment, error) {
	form := fields.form(true)
	form.Set("assignment[published]", "true")
	var out Assignment
	err := c.writeForm(ctx, http.MethodPost, c.apiURL("assignments"), form, &out)
	return out, err
}

func (c *Client) UpdateAssignment(ctx context.Context, assignmentID string, fields AssignmentFields) (Assignment, error) {
	var out Assignment
	err := c.writeForm(ctx, http.MethodPut, c.apiURL("assignments/"+assignmentID), fields.form(false), &out)
	return out, err
}

// UpdateAssignmentDescription rewrites only the description, used by the
// reference-resolution pass.
func (c *Client) UpdateAssignmentDescription(ctx context.Context, assignmentID, description string) (Assignment, error) {
	form := url.Values{}
	form.Set("assignment[description]", description)
	var out Assignment
	err := c.writeForm(ctx, http.MethodPut, c.apiURL("assignments/"+assignmentID), form, &out)
	return out, err
}

/* -------- Discussions -------- */

// DiscussionFields is the writable surface of a discussion topic. Grading
// fields are sent only when Graded is set; an ungraded discussion carries
// no assignment sub-record regardless of local values.
type DiscussionFields struct {
	Title              string
	Message            string
	RequireInitialPost bool
	DiscussionType     string // "threaded" or "side_comment"
	Graded             bool
	PointsPossible     float64
	DueAt              *time.Time
	GradingType        string
}

func (f DiscussionFields) form() url.Values {
	form := url.Values{}
	form.Set("title", f.Title)
	form.Set("message", f.Message)
	form.Set("require_initial_post", strconv.FormatBool(f.RequireInitialPost))
	form.Set("discussion_type", f.DiscussionType)
	if f.Graded {
		form.Set("assignment[points_possible]", strconv.FormatFloat(f.PointsPossible, 'f', -1, 64))
		form.Set("assignment[grading_type]", f.GradingType)
		if f.DueAt != nil {
			form.Set("assignment[due_at]", f.DueAt.Format(time.RFC3339))
		}
	}
	return form
}

func (c *Client) GetDiscussion(ctx context.Context, topicID string) (Discussion, error) {
	var out Discussion
	_, err := c.getJSON(ctx, c.apiURL("discussion_topics/"+topicID), &out)
	return out, err
}

func (c *Client) CreateDiscussion(ctx context.Context, fields DiscussionFields) (Discussion, error) {
	form := fields.form()
	form.Set("published", "true")
	var out Discussion
	err := c.writeForm(ctx, http.MethodPost, c.apiURL("discussion_topics"), form, &out)
	return out, err
}

func (c *Client) UpdateDiscussion(ctx context.Context, topicID string, fields DiscussionFields) (Discussion, error) {
	var out Discussion
	err := c.writeForm(ctx, http.MethodPut, c.apiURL("discussion_topics/"+topicID), fields.form(), &out)
	return out, err
}

// UpdateDiscussionMessage rewrites only the message, used by the
// reference-resolution pass.
func (c *Client) UpdateDiscussionMessage(ctx context.Context, topicID, message string) (Discussion, error) {
	form := url.Values{}
	form.Set("message", message)
	var out Discussion
	err := c.writeForm(ctx, http.MethodPut, c.apiURL("discussion_topics/"+topicID), form, &out)
	return out, err
}

/* -------- Files -------- */

// ListFiles fetches the full course file listing, following pagination.
func (c *Client) ListFiles(ctx context.Context) ([]File, error) {
	var all []File
	next := c.apiURL("files") + "?per_page=100"
	for next != "" {
		var page []File
		resp, err := c.getJSON(ctx, next, &page)
		if err != nil {
			return nil, fmt.Errorf("canvas: list files: %w", err)
		}
		all = append(all, page...)
		next = httpx.NextPageURL(resp)
	}
	return all, nil
}

// FindFile resolves a filename against a listing: exact display-name match
// first, then case-insensitive.
func FindFile(files []File, filename string) (File, bool) {
	for _, f := range files {
		if f.DisplayName == filename {
			return f, true
		}
	}
	lower := strings.ToLower(filename)
	for _, f := range files {
		if strings.ToLower(f.DisplayName) == lower {
			return f, true
		}
	}
	return File{}, false
}
