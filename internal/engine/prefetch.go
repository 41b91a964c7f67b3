package engine

import (
	"context"
	"strconv"
	"strings"

	"github.com/derekvan/canvas-markdown-tools/internal/model"
)

// prefetch is Phase 0: fetch the course file listing when anything needs
// it, and fetch a remote snapshot for every entity that declares a remote
// identity. A failed fetch is recorded per entity and degrades that
// entity to the conservative treat-as-changed path; it never aborts the
// run. Only a context cancellation is fatal here.
func (s *session) prefetch(ctx context.Context, tree []*model.Module) error {
	if needsFiles(tree) {
		files, err := s.svc.ListFiles(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.report.warnf("file listing fetch failed: %v", err)
		} else {
			s.files = files
			s.filesFetched = true
			for _, f := range files {
				s.res.RegisterFile(f.DisplayName, strconv.Itoa(f.ID), f.URL)
			}
			s.log.Infow("fetched course files", "count", len(files))
		}
	}

	for _, mod := range tree {
		if mod.RemoteID != "" {
			if snap, err := s.svc.GetModule(ctx, mod.RemoteID); err == nil {
				s.modules[mod.RemoteID] = snap
			} else {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.report.warnf("module %q: snapshot fetch failed (id %s): %v", mod.Title, mod.RemoteID, err)
			}
		}

		for _, it := range mod.Items {
			if err := s.prefetchItem(ctx, mod, it); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *session) prefetchItem(ctx context.Context, mod *model.Module, it *model.Item) error {
	fetchFailed := func(what, id string, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.report.warnf("%s %q: %s snapshot fetch failed (id %s): %v", it.Kind, it.Title, what, id, err)
		return nil
	}

	if it.ContentID != "" {
		switch it.Kind {
		case model.KindPage:
			if snap, err := s.svc.GetPage(ctx, it.ContentID); err == nil {
				s.pages[it.ContentID] = snap
			} else if ferr := fetchFailed("page", it.ContentID, err); ferr != nil {
				return ferr
			}
		case model.KindAssignment:
			if snap, err := s.svc.GetAssignment(ctx, it.ContentID); err == nil {
				s.assignments[it.ContentID] = snap
			} else if ferr := fetchFailed("assignment", it.ContentID, err); ferr != nil {
				return ferr
			}
		case model.KindDiscussion:
			if snap, err := s.svc.GetDiscussion(ctx, it.ContentID); err == nil {
				s.discussions[it.ContentID] = snap
			} else if ferr := fetchFailed("discussion", it.ContentID, err); ferr != nil {
				return ferr
			}
		}
	}

	// Placement snapshots need the module to exist remotely.
	if it.PlacementID != "" && mod.RemoteID != "" {
		if snap, err := s.svc.GetModuleItem(ctx, mod.RemoteID, it.PlacementID); err == nil {
			s.moduleItems[it.PlacementID] = snap
		} else if ferr := fetchFailed("placement", it.PlacementID, err); ferr != nil {
			return ferr
		}
	}
	return nil
}

// needsFiles reports whether any item is a file item or carries a file
// reference placeholder in its body, meaning the full file listing must
// be fetched once up front.
func needsFiles(tree []*model.Module) bool {
	for _, mod := range tree {
		for _, it := range mod.Items {
			if it.Kind == model.KindFile {
				return true
			}
			if strings.Contains(it.Body, "[[File:") {
				return true
			}
		}
	}
	return false
}
