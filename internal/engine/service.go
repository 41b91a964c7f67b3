package engine

import (
	"context"

	"github.com/derekvan/canvas-markdown-tools/internal/canvas"
)

// Service is the remote content service the engine drives. *canvas.Client
// satisfies it; tests supply an in-memory fake.
type Service interface {
	// CourseBase returns the instance URL and course id, used to render
	// course-relative links.
	CourseBase() (baseURL, courseID string)

	GetModule(ctx context.Context, moduleID string) (canvas.Module, error)
	CreateModule(ctx context.Context, name string, position int) (canvas.Module, error)
	UpdateModule(ctx context.Context, moduleID, name string, position int) (canvas.Module, error)

	GetModuleItem(ctx context.Context, moduleID, itemID string) (canvas.ModuleItem, error)
	CreateModuleItem(ctx context.Context, moduleID string, fields canvas.ModuleItemFields) (canvas.ModuleItem, error)
	UpdateModuleItem(ctx context.Context, moduleID, itemID string, fields canvas.ModuleItemFields) (canvas.ModuleItem, error)

	GetPage(ctx context.Context, slug string) (canvas.Page, error)
	CreatePage(ctx context.Context, title, body string) (canvas.Page, error)
	UpdatePage(ctx context.Context, slug, title, body string) (canvas.Page, error)

	GetAssignment(ctx context.Context, assignmentID string) (canvas.Assignment, error)
	CreateAssignment(ctx context.Context, fields canvas.AssignmentFields) (canvas.Assignment, error)
	UpdateAssignment(ctx context.Context, assignmentID string, fields canvas.AssignmentFields) (canvas.Assignment, error)
	UpdateAssignmentDescription(ctx context.Context, assignmentID, description string) (canvas.Assignment, error)

	GetDiscussion(ctx context.Context, topicID string) (canvas.Discussion, error)
	CreateDiscussion(ctx context.Context, fields canvas.DiscussionFields) (canvas.Discussion, error)
	UpdateDiscussion(ctx context.Context, topicID string, fields canvas.DiscussionFields) (canvas.Discussion, error)
	UpdateDiscussionMessage(ctx context.Context, topicID, message string) (canvas.Discussion, error)

	ListFiles(ctx context.Context) ([]canvas.File, error)
}
