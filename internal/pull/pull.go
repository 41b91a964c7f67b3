// Package pull downloads an existing Canvas course into the local
// content tree, so a course built by hand (or by an earlier push) can be
// edited as markdown from then on.
package pull

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/derekvan/canvas-markdown-tools/internal/canvas"
	"github.com/derekvan/canvas-markdown-tools/internal/concurrency"
	"github.com/derekvan/canvas-markdown-tools/internal/markdown"
	"github.com/derekvan/canvas-markdown-tools/internal/model"
)

// Source is the read side of the Canvas API the download needs.
// *canvas.Client satisfies it.
type Source interface {
	ListModules(ctx context.Context) ([]canvas.Module, error)
	ListModuleItems(ctx context.Context, moduleID string) ([]canvas.ModuleItem, error)
	GetPage(ctx context.Context, slug string) (canvas.Page, error)
	GetAssignment(ctx context.Context, assignmentID string) (canvas.Assignment, error)
	GetDiscussion(ctx context.Context, topicID string) (canvas.Discussion, error)
}

// Options configures a download.
type Options struct {
	// Workers bounds the concurrent detail fetches. Zero means the
	// concurrency package default.
	Workers int
	Logger  *zap.SugaredLogger
}

// Download fetches every module, its item placements, and the content
// behind each placement. Item bodies come back converted to markdown.
// A failed detail fetch keeps the item with an empty body and logs a
// warning; only listing failures and context cancellation abort.
func Download(ctx context.Context, src Source, opts Options) ([]*model.Module, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	remoteModules, err := src.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}

	modules := make([]*model.Module, 0, len(remoteModules))
	var jobs []detailJob

	for _, rm := range remoteModules {
		mod := &model.Module{
			Title:    rm.Name,
			RemoteID: strconv.Itoa(rm.ID),
		}
		modules = append(modules, mod)

		items, err := src.ListModuleItems(ctx, mod.RemoteID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warnw("could not list module items", "module", rm.Name, "error", err)
			continue
		}

		for _, ri := range items {
			item, needsDetail := itemFromPlacement(ri)
			if item == nil {
				log.Warnw("skipping unsupported module item type", "module", rm.Name, "title", ri.Title, "type", ri.Type)
				continue
			}
			mod.Items = append(mod.Items, item)
			if needsDetail {
				jobs = append(jobs, detailJob{item: item})
			}
		}
	}

	_, errs := concurrency.ProcessParallel(ctx, jobs, concurrency.ParallelOptions{MaxWorkers: opts.Workers},
		func(ctx context.Context, _ int, job detailJob) (struct{}, error) {
			return struct{}{}, fetchDetail(ctx, src, job.item)
		})
	for _, err := range errs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warnw("could not fetch item content", "error", err)
	}

	return modules, nil
}

type detailJob struct {
	item *model.Item
}

// itemFromPlacement maps a module item record to the local variant. The
// second return reports whether a follow-up content fetch is needed.
func itemFromPlacement(ri canvas.ModuleItem) (*model.Item, bool) {
	placementID := strconv.Itoa(ri.ID)

	switch ri.Type {
	case "SubHeader":
		return &model.Item{
			Kind:        model.KindHeader,
			Title:       ri.Title,
			PlacementID: placementID,
		}, false

	case "ExternalUrl":
		return &model.Item{
			Kind:        model.KindLink,
			Title:       ri.Title,
			URL:         ri.ExternalURL,
			PlacementID: placementID,
		}, false

	case "File":
		return &model.Item{
			Kind:        model.KindFile,
			Title:       ri.Title,
			Filename:    ri.Title,
			ContentID:   strconv.Itoa(ri.ContentID),
			PlacementID: placementID,
		}, false

	case "Page":
		return &model.Item{
			Kind:        model.KindPage,
			Title:       ri.Title,
			ContentID:   ri.PageURL,
			ContentURL:  ri.HTMLURL,
			PlacementID: placementID,
		}, true

	case "Assignment":
		return &model.Item{
			Kind:        model.KindAssignment,
			Title:       ri.Title,
			ContentID:   strconv.Itoa(ri.ContentID),
			ContentURL:  ri.HTMLURL,
			PlacementID: placementID,
		}, true

	case "Discussion":
		return &model.Item{
			Kind:        model.KindDiscussion,
			Title:       ri.Title,
			ContentID:   strconv.Itoa(ri.ContentID),
			ContentURL:  ri.HTMLURL,
			PlacementID: placementID,
		}, true

	default:
		return nil, false
	}
}

func fetchDetail(ctx context.Context, src Source, item *model.Item) error {
	switch item.Kind {
	case model.KindPage:
		page, err := src.GetPage(ctx, item.ContentID)
		if err != nil {
			return fmt.Errorf("page %q: %w", item.Title, err)
		}
		item.Body = markdown.HTMLToMarkdown(page.Body)

	case model.KindAssignment:
		asg, err := src.GetAssignment(ctx, item.ContentID)
		if err != nil {
			return fmt.Errorf("assignment %q: %w", item.Title, err)
		}
		item.Body = markdown.HTMLToMarkdown(asg.Description)
		fillGrading(item, &asg)

	case model.KindDiscussion:
		disc, err := src.GetDiscussion(ctx, item.ContentID)
		if err != nil {
			return fmt.Errorf("discussion %q: %w", item.Title, err)
		}
		item.Body = markdown.HTMLToMarkdown(disc.Message)
		item.RequireInitialPost = disc.RequireInitialPost
		item.Threaded = disc.DiscussionType == "threaded"
		if disc.Assignment != nil {
			item.Graded = true
			fillGrading(item, disc.Assignment)
		}
	}
	return nil
}

func fillGrading(item *model.Item, asg *canvas.Assignment) {
	item.Points = asg.PointsPossible
	item.GradeDisplay = model.ParseGradeDisplay(asg.GradingType)
	if len(asg.SubmissionTypes) > 0 {
		item.SubmissionTypes = model.ParseSubmissionTypes(strings.Join(asg.SubmissionTypes, ","))
	}
	if asg.DueAt != "" {
		if t, err := time.Parse(time.RFC3339, asg.DueAt); err == nil {
			local := t.In(time.Local)
			item.DueAt = &local
		}
	}
}
