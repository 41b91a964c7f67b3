package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/derekvan/canvas-markdown-tools/internal/config"
	"github.com/derekvan/canvas-markdown-tools/internal/markdown"
	"github.com/derekvan/canvas-markdown-tools/internal/pull"
)

// PullOptions holds flags for the pull command.
type PullOptions struct {
	*RootOptions
	Force   bool
	Workers int
}

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PullOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pull <course.md>",
		Short: "Download the Canvas course into a document",
		Long: `Pull fetches every module and item from the course and writes them as
a markdown course document, with remote ids embedded so a later push
updates the existing course instead of duplicating it.

Example:
  canvas-sync pull spring2026.md`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite the output file if it exists")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent content fetches (0 for default)")

	return cmd
}

func runPull(cmd *cobra.Command, opts *PullOptions, path string) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	if !opts.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
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
	modules, err := pull.Download(ctx, client, pull.Options{
		Workers: opts.Workers,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	meta := markdown.Meta{CanvasURL: settings.URL, CourseID: settings.CourseID}
	doc := markdown.Write(meta, modules)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	itemCount := 0
	for _, m := range modules {
		itemCount += len(m.Items)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d modules (%d items) to %s\n", len(modules), itemCount, path)
	return nil
}
