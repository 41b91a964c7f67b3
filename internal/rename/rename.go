// Package rename bulk-renames course modules to a weekly naming scheme
// that embeds the two class-meeting dates, like "Week 3 - Jan 27 & 29".
package rename

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/derekvan/canvas-markdown-tools/internal/canvas"
)

// Service is the slice of the Canvas API the renamer needs.
// *canvas.Client satisfies it.
type Service interface {
	ListModules(ctx context.Context) ([]canvas.Module, error)
	UpdateModule(ctx context.Context, moduleID, name string, position int) (canvas.Module, error)
}

// Options configures the naming scheme.
type Options struct {
	// StartDate is the first class meeting of the semester and must fall
	// on the first meeting weekday (a Tuesday for a Tue/Thu course).
	StartDate time.Time

	// SkipWeek is a week number left out of the sequence, typically a
	// break week. Zero disables skipping.
	SkipWeek int

	// MaxModules caps how many modules get renamed, in position order.
	// Zero means all of them.
	MaxModules int

	Logger *zap.SugaredLogger
}

// Change pairs a module with its computed name.
type Change struct {
	ModuleID string
	OldName  string
	NewName  string
}

// Changed reports whether applying this change would modify the module.
func (c Change) Changed() bool { return c.OldName != c.NewName }

// WeekNumber converts a module position to a week number, skipping
// skipWeek: with skipWeek 9, positions 1-8 become weeks 1-8 and
// positions 9+ become weeks 10+.
func WeekNumber(position, skipWeek int) int {
	if skipWeek > 0 && position >= skipWeek {
		return position + 1
	}
	return position
}

// WeekDates returns the Tuesday and Thursday of the given week as
// display strings. When both fall in the same month the second is just
// the day number, so week 1 renders as ("Jan 13", "15").
func WeekDates(start time.Time, week int) (string, string) {
	tuesday := start.AddDate(0, 0, (week-1)*7)
	thursday := tuesday.AddDate(0, 0, 2)

	tueStr := shortDate(tuesday)
	if tuesday.Month() == thursday.Month() {
		return tueStr, strconv.Itoa(thursday.Day())
	}
	return tueStr, shortDate(thursday)
}

func shortDate(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Format("Jan"), t.Day())
}

// ModuleName generates the target name for the module at a position.
func ModuleName(opts Options, position int) string {
	week := WeekNumber(position, opts.SkipWeek)
	tue, thu := WeekDates(opts.StartDate, week)
	return fmt.Sprintf("Week %d - %s & %s", week, tue, thu)
}

// Plan lists every rename the scheme implies, without applying any.
// Modules are taken in position order.
func Plan(ctx context.Context, svc Service, opts Options) ([]Change, error) {
	modules, err := svc.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}

	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].Position < modules[j].Position
	})
	if opts.MaxModules > 0 && len(modules) > opts.MaxModules {
		modules = modules[:opts.MaxModules]
	}

	changes := make([]Change, 0, len(modules))
	for i, m := range modules {
		changes = append(changes, Change{
			ModuleID: strconv.Itoa(m.ID),
			OldName:  strings.TrimSpace(m.Name),
			NewName:  ModuleName(opts, i+1),
		})
	}
	return changes, nil
}

// Apply performs the renames. Unchanged modules are skipped; a failed
// update logs and moves on so one bad module does not stop the batch.
// Returns the number of modules actually renamed.
func Apply(ctx context.Context, svc Service, changes []Change, opts Options) (int, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	renamed := 0
	for _, c := range changes {
		if !c.Changed() {
			log.Infow("module already named", "name", c.OldName)
			continue
		}
		if _, err := svc.UpdateModule(ctx, c.ModuleID, c.NewName, 0); err != nil {
			if ctx.Err() != nil {
				return renamed, ctx.Err()
			}
			log.Warnw("rename failed", "module", c.OldName, "error", err)
			continue
		}
		renamed++
		log.Infow("renamed module", "from", c.OldName, "to", c.NewName)
	}
	return renamed, nil
}
