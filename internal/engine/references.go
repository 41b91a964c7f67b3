package engine

import (
	"context"

	"github.com/derekvan/canvas-markdown-tools/internal/model"
)

// resolveReferences is Phase 2: revisit only the items whose body carried
// at least one placeholder, substitute every target that now has an
// identity, and push the rewritten body. Runs strictly after all Phase-1
// creates so declaration order between referrer and target cannot matter.
func (s *session) resolveReferences(ctx context.Context) error {
	if len(s.needRefs) == 0 {
		return nil
	}

	for _, it := range s.needRefs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.failed[it] {
			continue
		}

		entry := Entry{Item: it.Title, Kind: it.Kind.String(), Phase: "references", Action: ActionUpdate}
		entry.Fields = []string{"references"}

		if s.dryRun {
			s.report.add(entry)
			continue
		}

		body, unresolved := s.res.Resolve(it.Body)
		for _, ref := range unresolved {
			s.report.warnf("%s %q: unresolved reference %s", it.Kind, it.Title, ref)
		}

		var err error
		switch it.Kind {
		case model.KindPage:
			_, err = s.svc.UpdatePage(ctx, it.ContentID, "", body)
		case model.KindAssignment:
			_, err = s.svc.UpdateAssignmentDescription(ctx, it.ContentID, body)
		case model.KindDiscussion:
			_, err = s.svc.UpdateDiscussionMessage(ctx, it.ContentID, body)
		}
		if err != nil {
			s.failItem(it, entry, err)
			continue
		}
		s.report.WriteCalls++
		s.report.add(entry)
		s.log.Infow("resolved references", "item", it.Title, "unresolved", len(unresolved))
	}
	return nil
}
