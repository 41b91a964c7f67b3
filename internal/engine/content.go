package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/derekvan/canvas-markdown-tools/internal/canvas"
	"github.com/derekvan/canvas-markdown-tools/internal/diff"
	"github.com/derekvan/canvas-markdown-tools/internal/model"
	"github.com/derekvan/canvas-markdown-tools/internal/resolver"
)

const noComparisonData = "no comparison data"

// syncContent is Phase 1: modules first, then every item's content
// resource in container order. Text headers and external links have no
// content resource and wait for placement; file items resolve against the
// prefetched listing. Successful creates assign the item's remote content
// identity and URL, which also feeds the resolver for Phase 2.
func (s *session) syncContent(ctx context.Context, tree []*model.Module) error {
	for i, mod := range tree {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.syncModule(ctx, mod, i+1)

		for _, it := range mod.Items {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch it.Kind {
			case model.KindHeader, model.KindLink:
				// Placement-only variants, handled in Phase 3.
			case model.KindFile:
				s.resolveFileItem(mod, it)
			case model.KindPage:
				s.syncPage(ctx, mod, it)
			case model.KindAssignment:
				s.syncAssignment(ctx, mod, it)
			case model.KindDiscussion:
				s.syncDiscussion(ctx, mod, it)
			}
		}
	}
	return nil
}

func (s *session) syncModule(ctx context.Context, mod *model.Module, position int) {
	entry := Entry{Module: mod.Title, Kind: "module", Phase: "content"}

	if mod.RemoteID == "" {
		entry.Action = ActionCreate
		if !s.dryRun {
			created, err := s.svc.CreateModule(ctx, mod.Title, position)
			if err != nil {
				s.failModule(mod, entry, err)
				return
			}
			s.report.WriteCalls++
			mod.RemoteID = strconv.Itoa(created.ID)
			s.log.Infow("created module", "title", mod.Title, "id", mod.RemoteID)
		}
		s.report.add(entry)
		return
	}

	if snap, ok := s.modules[mod.RemoteID]; ok {
		d := diff.Module(mod, snap)
		if !d.Changed {
			entry.Action = ActionSkip
			s.report.add(entry)
			return
		}
		entry.Fields = d.Fields
	} else {
		entry.Reason = noComparisonData
	}

	entry.Action = ActionUpdate
	if !s.dryRun {
		if _, err := s.svc.UpdateModule(ctx, mod.RemoteID, mod.Title, position); err != nil {
			s.failModule(mod, entry, err)
			return
		}
		s.report.WriteCalls++
		s.log.Infow("updated module", "title", mod.Title, "id", mod.RemoteID)
	}
	s.report.add(entry)
}

func (s *session) resolveFileItem(mod *model.Module, it *model.Item) {
	entry := s.itemEntry(mod, it, "content")

	f, ok := canvas.FindFile(s.files, it.Filename)
	if !ok {
		reason := "not found in course files"
		if !s.filesFetched {
			reason = "file listing unavailable"
		}
		s.failed[it] = true
		entry.Action = ActionFailed
		entry.Reason = reason
		s.report.add(entry)
		s.report.warnf("file %q (%s): %s; excluded from placement", it.Title, it.Filename, reason)
		return
	}

	it.ContentID = strconv.Itoa(f.ID)
	it.ContentURL = f.URL
	entry.Action = ActionSkip
	entry.Reason = "resolved " + it.Filename
	s.report.add(entry)
}

func (s *session) syncPage(ctx context.Context, mod *model.Module, it *model.Item) {
	entry := s.itemEntry(mod, it, "content")

	if it.ContentID == "" {
		entry.Action = ActionCreate
		s.trackReferences(it)
		if !s.dryRun {
			page, err := s.svc.CreatePage(ctx, it.Title, it.Body)
			if err != nil {
				s.failItem(it, entry, err)
				return
			}
			s.report.WriteCalls++
			it.ContentID = page.URL
			it.ContentURL = page.HTMLURL
			s.registerItem(resolver.KindPage, it)
			s.log.Infow("created page", "title", it.Title, "slug", it.ContentID)
		}
		s.report.add(entry)
		return
	}

	snap, ok := s.pages[it.ContentID]
	if ok {
		if d := diff.Page(it, snap); !d.Changed {
			it.ContentURL = s.fallbackURL(snap.HTMLURL, "pages/"+it.ContentID)
			s.registerItem(resolver.KindPage, it)
			entry.Action = ActionSkip
			s.report.add(entry)
			return
		} else {
			entry.Fields = d.Fields
		}
	} else {
		entry.Reason = noComparisonData
	}

	entry.Action = ActionUpdate
	s.trackReferences(it)
	if !s.dryRun {
		page, err := s.svc.UpdatePage(ctx, it.ContentID, it.Title, it.Body)
		if err != nil {
			s.failItem(it, entry, err)
			return
		}
		s.report.WriteCalls++
		it.ContentURL = s.fallbackURL(page.HTMLURL, "pages/"+it.ContentID)
		s.registerItem(resolver.KindPage, it)
		s.log.Infow("updated page", "title", it.Title, "fields", entry.Fields)
	}
	s.report.add(entry)
}

func (s *session) syncAssignment(ctx context.Context, mod *model.Module, it *model.Item) {
	entry := s.itemEntry(mod, it, "content")
	fields := assignmentFields(it)

	if it.ContentID == "" {
		entry.Action = ActionCreate
		s.trackReferences(it)
		if !s.dryRun {
			created, err := s.svc.CreateAssignment(ctx, fields)
			if err != nil {
				s.failItem(it, entry, err)
				return
			}
			s.report.WriteCalls++
			it.ContentID = strconv.Itoa(created.ID)
			it.ContentURL = created.HTMLURL
			s.registerItem(resolver.KindAssignment, it)
			s.log.Infow("created assignment", "title", it.Title, "id", it.ContentID)
		}
		s.report.add(entry)
		return
	}

	snap, ok := s.assignments[it.ContentID]
	if ok {
		if d := diff.Assignment(it, snap); !d.Changed {
			it.ContentURL = s.fallbackURL(snap.HTMLURL, "assignments/"+it.ContentID)
			s.registerItem(resolver.KindAssignment, it)
			entry.Action = ActionSkip
			s.report.add(entry)
			return
		} else {
			entry.Fields = d.Fields
		}
	} else {
		entry.Reason = noComparisonData
	}

	entry.Action = ActionUpdate
	s.trackReferences(it)
	if !s.dryRun {
		updated, err := s.svc.UpdateAssignment(ctx, it.ContentID, fields)
		if err != nil {
			s.failItem(it, entry, err)
			return
		}
		s.report.WriteCalls++
		it.ContentURL = s.fallbackURL(updated.HTMLURL, "assignments/"+it.ContentID)
		s.registerItem(resolver.KindAssignment, it)
		s.log.Infow("updated assignment", "title", it.Title, "fields", entry.Fields)
	}
	s.report.add(entry)
}

func (s *session) syncDiscussion(ctx context.Context, mod *model.Module, it *model.Item) {
	entry := s.itemEntry(mod, it, "content")
	fields := discussionFields(it)

	if it.ContentID == "" {
		entry.Action = ActionCreate
		s.trackReferences(it)
		if !s.dryRun {
			created, err := s.svc.CreateDiscussion(ctx, fields)
			if err != nil {
				s.failItem(it, entry, err)
				return
			}
			s.report.WriteCalls++
			it.ContentID = strconv.Itoa(created.ID)
			it.ContentURL = created.HTMLURL
			s.registerItem(resolver.KindDiscussion, it)
			s.log.Infow("created discussion", "title", it.Title, "id", it.ContentID)
		}
		s.report.add(entry)
		return
	}

	snap, ok := s.discussions[it.ContentID]
	if ok {
		if d := diff.Discussion(it, snap); !d.Changed {
			it.ContentURL = s.fallbackURL(snap.HTMLURL, "discussion_topics/"+it.ContentID)
			s.registerItem(resolver.KindDiscussion, it)
			entry.Action = ActionSkip
			s.report.add(entry)
			return
		} else {
			entry.Fields = d.Fields
		}
	} else {
		entry.Reason = noComparisonData
	}

	entry.Action = ActionUpdate
	s.trackReferences(it)
	if !s.dryRun {
		updated, err := s.svc.UpdateDiscussion(ctx, it.ContentID, fields)
		if err != nil {
			s.failItem(it, entry, err)
			return
		}
		s.report.WriteCalls++
		it.ContentURL = s.fallbackURL(updated.HTMLURL, "discussion_topics/"+it.ContentID)
		s.registerItem(resolver.KindDiscussion, it)
		s.log.Infow("updated discussion", "title", it.Title, "fields", entry.Fields)
	}
	s.report.add(entry)
}

/* -------- helpers -------- */

func (s *session) itemEntry(mod *model.Module, it *model.Item, phase string) Entry {
	return Entry{Module: mod.Title, Item: it.Title, Kind: it.Kind.String(), Phase: phase}
}

func (s *session) trackReferences(it *model.Item) {
	if s.res.ContainsReference(it.Body) {
		s.needRefs = append(s.needRefs, it)
	}
}

func (s *session) registerItem(kind resolver.Kind, it *model.Item) {
	s.res.Register(kind, it.Title, it.ContentID, it.ContentURL)
}

func (s *session) failItem(it *model.Item, entry Entry, err error) {
	s.failed[it] = true
	entry.Action = ActionFailed
	entry.Err = err.Error()
	s.report.add(entry)
	s.log.Warnw("write failed", "item", it.Title, "kind", it.Kind.String(), "err", err)
}

func (s *session) failModule(mod *model.Module, entry Entry, err error) {
	s.failedModules[mod] = true
	entry.Action = ActionFailed
	entry.Err = err.Error()
	s.report.add(entry)
	s.log.Warnw("write failed", "module", mod.Title, "err", err)
}

// fallbackURL prefers the remote-reported html_url and falls back to the
// conventional course-relative location.
func (s *session) fallbackURL(htmlURL, path string) string {
	if htmlURL != "" {
		return htmlURL
	}
	base, course := s.svc.CourseBase()
	return fmt.Sprintf("%s/courses/%s/%s", base, course, path)
}

func assignmentFields(it *model.Item) canvas.AssignmentFields {
	return canvas.AssignmentFields{
		Name:            it.Title,
		Description:     it.Body,
		PointsPossible:  it.Points,
		DueAt:           it.DueAt,
		GradingType:     it.GradeDisplay.Canvas(),
		SubmissionTypes: model.SubmissionTypeStrings(it.SubmissionTypes),
	}
}

func discussionFields(it *model.Item) canvas.DiscussionFields {
	discussionType := "side_comment"
	if it.Threaded {
		discussionType = "threaded"
	}
	fields := canvas.DiscussionFields{
		Title:              it.Title,
		Message:            it.Body,
		RequireInitialPost: it.RequireInitialPost,
		DiscussionType:     discussionType,
		Graded:             it.Graded,
	}
	if it.Graded {
		fields.PointsPossible = it.Points
		fields.DueAt = it.DueAt
		fields.GradingType = it.GradeDisplay.Canvas()
	}
	return fields
}
