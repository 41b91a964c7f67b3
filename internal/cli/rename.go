package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/derekvan/canvas-markdown-tools/internal/config"
	"github.com/derekvan/canvas-markdown-tools/internal/markdown"
	"github.com/derekvan/canvas-markdown-tools/internal/rename"
)

// RenameOptions holds flags for the rename command.
type RenameOptions struct {
	*RootOptions
	Start      string
	SkipWeek   int
	MaxModules int
	Yes        bool
	DryRun     bool
}

// NewRenameCommand creates the rename command.
func NewRenameCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename modules to a weekly date scheme",
		Long: `Rename retitles course modules in position order to names like
"Week 3 - Jan 27 & 29", derived from the semester start date. A break
week can be skipped so the numbering jumps over it.

Example:
  canvas-sync rename --start 2026-01-13 --skip-week 9`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "first class meeting, YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&opts.SkipWeek, "skip-week", 0, "week number to skip, e.g. a break week (0 for none)")
	cmd.Flags().IntVar(&opts.MaxModules, "max-modules", 0, "rename at most this many modules (0 for all)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "preview the renames without applying them")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func runRename(cmd *cobra.Command, opts *RenameOptions) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	start, err := time.ParseInLocation("2006-01-02", opts.Start, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --start date %q: want YYYY-MM-DD", opts.Start)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	settings, err := resolveSettings(cfg, markdown.Meta{})
	if err != nil {
		return err
	}
	token, err := resolveToken(cmd, cfg, settings, opts.ResetToken)
	if err != nil {
		return err
	}

	client := newClient(settings, token)
	renameOpts := rename.Options{
		StartDate:  start,
		SkipWeek:   opts.SkipWeek,
		MaxModules: opts.MaxModules,
		Logger:     log,
	}

	changes, err := rename.Plan(ctx, client, renameOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pending := 0
	for i, c := range changes {
		if c.Changed() {
			pending++
			fmt.Fprintf(out, "  [%2d] %q -> %q\n", i+1, c.OldName, c.NewName)
		} else {
			fmt.Fprintf(out, "  [%2d] %q (no change)\n", i+1, c.OldName)
		}
	}
	if pending == 0 {
		fmt.Fprintln(out, "All module names already match.")
		return nil
	}
	if opts.DryRun {
		fmt.Fprintf(out, "%d renames pending (dry run)\n", pending)
		return nil
	}

	if !opts.Yes {
		ok, err := confirm(cmd, "Apply these changes?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted. No changes made.")
			return nil
		}
	}

	renamed, err := rename.Apply(ctx, client, changes, renameOpts)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Renamed %d of %d modules.\n", renamed, pending)
	return nil
}
