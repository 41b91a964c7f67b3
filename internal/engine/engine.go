// Package engine reconciles a local content tree against the remote
// course: it prefetches remote state, creates or updates content,
// resolves internal references once targets have identities, and places
// items into their modules in declared order.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/derekvan/canvas-markdown-tools/internal/canvas"
	"github.com/derekvan/canvas-markdown-tools/internal/model"
	"github.com/derekvan/canvas-markdown-tools/internal/resolver"
)

// Options configures one reconcile run.
type Options struct {
	// DryRun computes and reports every decision without issuing any
	// write call. Prefetch reads still execute: decisions depend on them.
	DryRun bool

	Logger *zap.SugaredLogger
}

// session holds all state scoped to one run: the prefetched caches, the
// reference resolver tables, and the accumulating report. Nothing here is
// global; tests construct an isolated session per case.
type session struct {
	svc    Service
	res    *resolver.Resolver
	log    *zap.SugaredLogger
	dryRun bool

	files        []canvas.File
	filesFetched bool

	// Remote snapshots keyed by remote identity, populated once in the
	// prefetch phase and read-only afterwards. A missing key means the
	// fetch failed or was skipped: the entity takes the conservative
	// always-update path.
	modules     map[string]canvas.Module
	pages       map[string]canvas.Page
	assignments map[string]canvas.Assignment
	discussions map[string]canvas.Discussion
	moduleItems map[string]canvas.ModuleItem

	// needRefs collects items created or updated in content sync whose
	// body holds at least one reference placeholder, for the second pass.
	// Skipped items stay out: their remote body already carries the
	// resolved links, and re-resolving would write on every run.
	needRefs []*model.Item

	// failed marks entities whose write failed: their remaining phases
	// are skipped, the run continues.
	failed        map[*model.Item]bool
	failedModules map[*model.Module]bool

	report *Report
}

// Reconcile runs the full four-phase sync of tree against svc. Entities
// are processed strictly in container-declared order; that order is an
// observable contract (it becomes the remote display order).
func Reconcile(ctx context.Context, tree []*model.Module, svc Service, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := &session{
		svc:           svc,
		log:           log,
		dryRun:        opts.DryRun,
		modules:       map[string]canvas.Module{},
		pages:         map[string]canvas.Page{},
		assignments:   map[string]canvas.Assignment{},
		discussions:   map[string]canvas.Discussion{},
		moduleItems:   map[string]canvas.ModuleItem{},
		failed:        map[*model.Item]bool{},
		failedModules: map[*model.Module]bool{},
		report:        &Report{DryRun: opts.DryRun},
	}
	baseURL, courseID := svc.CourseBase()
	s.res = resolver.New(baseURL, courseID)

	if err := s.prefetch(ctx, tree); err != nil {
		return s.report, err
	}
	if err := s.syncContent(ctx, tree); err != nil {
		return s.report, err
	}
	// The reference pass must not start before every content create in
	// the batch has completed: a reference may target an item that comes
	// later in container order than the item holding the reference.
	if err := s.resolveReferences(ctx); err != nil {
		return s.report, err
	}
	if err := s.placeItems(ctx, tree); err != nil {
		return s.report, err
	}

	log.Infow("reconcile finished",
		"creates", s.report.Creates,
		"updates", s.report.Updates,
		"skips", s.report.Skips,
		"failures", s.report.Failures,
		"warnings", len(s.report.Warnings),
		"dry_run", s.dryRun,
	)
	return s.report, ctx.Err()
}
