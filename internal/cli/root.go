// Package cli wires the push, pull and rename commands.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose    bool
	ResetToken bool
}

// NewRootCommand creates the root command for the canvas-sync CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "canvas-sync",
		Short: "Sync markdown course documents with Canvas LMS",
		Long: `canvas-sync keeps a structured markdown document and a Canvas course
in step. The document is the source of truth: push creates or updates
modules, pages, assignments, discussions and file links to match it,
pull downloads an existing course into the document format, and rename
applies a weekly naming scheme to module titles.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.ResetToken, "reset-token", false, "prompt for a new API token, replacing the stored one")

	cmd.AddCommand(NewPushCommand(opts))
	cmd.AddCommand(NewPullCommand(opts))
	cmd.AddCommand(NewRenameCommand(opts))

	return cmd
}
