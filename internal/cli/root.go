// Package cli provides the Cobra command structure for gomdview.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdview/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gomdview command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "gomdview",
		Short: "Render chat transcripts as incrementally updated Markdown blocks",
		Long: `gomdview renders Markdown chat transcripts in the terminal, one block at a
time. Each block is drawn by its own host; when a reply streams in, only
the blocks whose content changed are redrawn and hosts are rebuilt only
from the point where the document structure diverges.

Blocks are selectable: a selection can span several blocks, be printed
with highlighting and copied to the clipboard as plain text.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Each run gets its own copy of the default logger, so level
			// changes stay local to the command.
			logger := logging.Default().With()
			if debug {
				logger.SetLevel(logging.ParseLevel("debug"))
			}
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd, color, os.Stdout)

	return rootCmd
}
