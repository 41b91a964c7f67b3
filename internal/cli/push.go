package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/derekvan/canvas-markdown-tools/internal/backup"
	"github.com/derekvan/canvas-markdown-tools/internal/config"
	"github.com/derekvan/canvas-markdown-tools/internal/engine"
	"github.com/derekvan/canvas-markdown-tools/internal/markdown"
)

// PushOptions holds flags for the push command.
type PushOptions struct {
	*RootOptions
	DryRun   bool
	Yes      bool
	NoBackup bool
}

// NewPushCommand creates the push command.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PushOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "push <course.md>",
		Short: "Sync the course document to Canvas",
		Long: `Push reconciles the Canvas course against the document: missing
modules and items are created, changed ones are updated, unchanged ones
are left alone. Remote ids are written back into the document so the
next push matches entities instead of recreating them.

Example:
  canvas-sync push spring2026.md --dry-run
  canvas-sync push spring2026.md`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report decisions without writing to Canvas")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "skip the SFTP snapshot even when configured")

	return cmd
}

func runPush(cmd *cobra.Command, opts *PushOptions, path string) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	meta, body, err := markdown.ExtractFrontmatter(string(raw))
	if err != nil {
		log.Warnw("ignoring frontmatter", "error", err)
	}
	modules, warnings := markdown.Parse(body)
	for _, w := range warnings {
		log.Warn(w)
	}
	if len(modules) == 0 {
		return fmt.Errorf("%s contains no modules", path)
	}

	cfg := config.Load()
	settings, err := resolveSettings(cfg, meta)
	if err != nil {
		return err
	}
	token, err := resolveToken(cmd, cfg, settings, opts.ResetToken)
	if err != nil {
		return err
	}

	if !opts.DryRun && !opts.Yes {
		ok, err := confirm(cmd, fmt.Sprintf("Push %d modules to %s/courses/%s?", len(modules), settings.URL, settings.CourseID))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted. No changes made.")
			return nil
		}
	}

	client := newClient(settings, token)
	report, err := engine.Reconcile(ctx, modules, client, engine.Options{
		DryRun: opts.DryRun,
		Logger: log,
	})
	if err != nil {
		return err
	}

	printReport(cmd, report)

	if !opts.DryRun {
		// Round-trip the document so newly assigned ids survive.
		updated := markdown.Write(meta, modules)
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return fmt.Errorf("writing ids back to %s: %w", path, err)
		}

		if !opts.NoBackup {
			runBackup(ctx, cfg, log, path, updated)
		}
	}

	if report.Failures > 0 {
		return fmt.Errorf("%d items failed to sync", report.Failures)
	}
	return nil
}

func runBackup(ctx context.Context, cfg config.Config, log *zap.SugaredLogger, path, content string) {
	bcfg := backup.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}
	if !bcfg.Enabled() {
		return
	}
	name := backup.SnapshotName(baseName(path), time.Now())
	if err := backup.Upload(ctx, bcfg, []byte(content), name); err != nil {
		log.Warnw("backup upload failed", "error", err)
	}
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func printReport(cmd *cobra.Command, report *engine.Report) {
	out := cmd.OutOrStdout()

	for _, e := range report.Entries {
		line := fmt.Sprintf("  [%s] %-6s %s", e.Phase, e.Action, e.Module)
		if e.Item != "" {
			line += " / " + e.Item
		}
		if len(e.Fields) > 0 {
			line += " (" + strings.Join(e.Fields, ", ") + ")"
		}
		if e.Reason != "" {
			line += " [" + e.Reason + "]"
		}
		if e.Err != "" {
			line += ": " + e.Err
		}
		fmt.Fprintln(out, line)
	}

	for _, w := range report.Warnings {
		fmt.Fprintln(out, "  warning:", w)
	}

	label := ""
	if report.DryRun {
		label = " (dry run)"
	}
	fmt.Fprintf(out, "%d created, %d updated, %d unchanged, %d failed%s\n",
		report.Creates, report.Updates, report.Skips, report.Failures, label)
}
