package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spiffcs/explore/internal/tui"
)

// NewCmdBrowse creates the interactive browse command.
func NewCmdBrowse(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [text...]",
		Short: "Browse repositories and their open issues interactively",
		Long: `Opens a full screen browser. Type to search repositories, press enter to
see a repository with its open issues, and scroll to load more results.

When text is given the search starts immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, strings.Join(args, " "), opts)
		},
	}
}

func runBrowse(cmd *cobra.Command, text string, opts *Options) error {
	ctx := cmd.Context()
	if opts.TUI != nil && !*opts.TUI {
		return fmt.Errorf("browse needs an interactive terminal; use search, repo or issues instead")
	}

	stop, err := startProfiling(opts)
	if err != nil {
		return err
	}
	defer stop()
	setupLogging(opts, false)

	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	return tui.RunBrowser(ctx, a.explorer, text)
}
