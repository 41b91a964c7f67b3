package engine

import (
	"context"
	"strconv"

	"github.com/derekvan/canvas-markdown-tools/internal/canvas"
	"github.com/derekvan/canvas-markdown-tools/internal/diff"
	"github.com/derekvan/canvas-markdown-tools/internal/model"
)

// placeItems is Phase 3: create or update every item's placement record
// in its module, in declared order. Items whose content phase failed are
// skipped with a warning, never fatally.
func (s *session) placeItems(ctx context.Context, tree []*model.Module) error {
	for _, mod := range tree {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.failedModules[mod] || (mod.RemoteID == "" && !s.dryRun) {
			s.report.warnf("module %q: no remote module, %d placements skipped", mod.Title, len(mod.Items))
			continue
		}

		for i, it := range mod.Items {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.placeItem(ctx, mod, it, i+1)
		}
	}
	return nil
}

func (s *session) placeItem(ctx context.Context, mod *model.Module, it *model.Item, position int) {
	entry := s.itemEntry(mod, it, "placement")

	if s.failed[it] {
		entry.Action = ActionSkip
		entry.Reason = "content phase failed"
		s.report.add(entry)
		s.report.warnf("%s %q: not placed in %q: content phase failed", it.Kind, it.Title, mod.Title)
		return
	}
	if it.HasContentResource() && it.ContentID == "" && !s.dryRun {
		// Cannot happen for synced items; guards a partially built tree.
		entry.Action = ActionSkip
		entry.Reason = "no content identity"
		s.report.add(entry)
		return
	}

	fields := placementFields(it, position)

	if it.PlacementID == "" {
		entry.Action = ActionCreate
		if !s.dryRun {
			created, err := s.svc.CreateModuleItem(ctx, mod.RemoteID, fields)
			if err != nil {
				s.failItem(it, entry, err)
				return
			}
			s.report.WriteCalls++
			it.PlacementID = strconv.Itoa(created.ID)
			s.log.Infow("placed item", "module", mod.Title, "item", it.Title, "position", position)
		}
		s.report.add(entry)
		return
	}

	if snap, ok := s.moduleItems[it.PlacementID]; ok {
		d := diff.Placement(placementTitle(it), position, it.URL, snap)
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
		// Type and targets are fixed at creation; updates only move or
		// retitle the record.
		update := canvas.ModuleItemFields{
			Title:       placementTitle(it),
			ExternalURL: it.URL,
			Position:    position,
		}
		if _, err := s.svc.UpdateModuleItem(ctx, mod.RemoteID, it.PlacementID, update); err != nil {
			s.failItem(it, entry, err)
			return
		}
		s.report.WriteCalls++
		s.log.Infow("moved item", "module", mod.Title, "item", it.Title, "position", position, "fields", entry.Fields)
	}
	s.report.add(entry)
}

// placementTitle returns the title the placement record owns. Pages,
// assignments and discussions take their title from the content resource,
// so their module items are never retitled here.
func placementTitle(it *model.Item) string {
	switch it.Kind {
	case model.KindHeader, model.KindLink, model.KindFile:
		return it.Title
	default:
		return ""
	}
}

func placementFields(it *model.Item, position int) canvas.ModuleItemFields {
	fields := canvas.ModuleItemFields{Position: position, Title: placementTitle(it)}
	switch it.Kind {
	case model.KindHeader:
		fields.Type = "SubHeader"
	case model.KindLink:
		fields.Type = "ExternalUrl"
		fields.ExternalURL = it.URL
		fields.NewTab = true
	case model.KindPage:
		fields.Type = "Page"
		fields.PageURL = it.ContentID
	case model.KindFile:
		fields.Type = "File"
		fields.ContentID = it.ContentID
	case model.KindAssignment:
		fields.Type = "Assignment"
		fields.ContentID = it.ContentID
	case model.KindDiscussion:
		fields.Type = "Discussion"
		fields.ContentID = it.ContentID
	}
	return fields
}
