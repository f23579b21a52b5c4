package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spiffcs/explore/internal/output"
	"github.com/spiffcs/explore/internal/service"
	"github.com/spiffcs/explore/internal/tui"
)

// NewCmdSearch creates the search command.
func NewCmdSearch(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <text...>",
		Short: "Search GitHub repositories, most starred first",
		Long: `Searches GitHub repositories matching the given text, sorted by stars.

The first page is always loaded; use --pages to load more while GitHub keeps
returning full pages.`,
		Example: `  explore search bubbletea
  explore search language:go http router --pages 3 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	addOutputFlags(cmd, opts)
	return cmd
}

// addOutputFlags adds the flags shared by the listing commands.
func addOutputFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().IntVar(&opts.Pages, "pages", 1, "Maximum number of pages to load")
}

func runSearch(cmd *cobra.Command, text string, opts *Options) error {
	ctx := cmd.Context()
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("search text must not be empty")
	}

	p, cleanup, err := setupRuntime(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	format, err := a.outputFormat(opts)
	if err != nil {
		return err
	}

	p.start(tui.WithTasks(tui.SearchTasks()), tui.WithTitle(fmt.Sprintf("Searching %q", text)))

	snap, err := loadPages(ctx, a.explorer.SearchRepositories(text), opts.Pages, p)
	if err != nil {
		p.close()
		return err
	}

	p.send(tui.TaskProcess, tui.StatusRunning)
	list := output.RepositoryList{
		Query:        text,
		TotalCount:   service.TotalCount(snap),
		Pages:        len(snap.Pages),
		HasMore:      snap.HasNextPage,
		Repositories: service.Repositories(snap),
	}
	p.send(tui.TaskProcess, tui.StatusComplete, tui.WithCount(len(list.Repositories)))
	p.close()

	a.warnIfRateLimited()
	return output.NewFormatter(format).FormatRepositories(list, cmd.OutOrStdout())
}
