package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spiffcs/explore/internal/output"
	"github.com/spiffcs/explore/internal/service"
	"github.com/spiffcs/explore/internal/tui"
	"github.com/spiffcs/explore/internal/urlutil"
)

// NewCmdIssues creates the issues command.
func NewCmdIssues(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues <owner/repo|url>",
		Short: "List the open issues of a repository",
		Long: `Lists open issues and pull requests of a repository, most recently
created first. The repository may be given as owner/repo or as a GitHub URL.`,
		Example: `  explore issues charmbracelet/bubbletea
  explore issues https://github.com/spf13/cobra --pages 2 -o markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssues(cmd, args[0], opts)
		},
	}

	addOutputFlags(cmd, opts)
	return cmd
}

func runIssues(cmd *cobra.Command, arg string, opts *Options) error {
	ctx := cmd.Context()
	ref, err := urlutil.ParseRepoRef(arg)
	if err != nil {
		return err
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

	p.start(tui.WithTasks(tui.IssuesTasks()), tui.WithTitle(ref.String()))

	snap, err := loadPages(ctx, a.explorer.Issues(ref.Owner, ref.Repo), opts.Pages, p)
	if err != nil {
		p.close()
		return err
	}

	p.send(tui.TaskProcess, tui.StatusRunning)
	list := output.IssueList{
		Repository: ref.String(),
		Pages:      len(snap.Pages),
		HasMore:    snap.HasNextPage,
		Issues:     service.IssueList(snap),
	}
	p.send(tui.TaskProcess, tui.StatusComplete, tui.WithCount(len(list.Issues)))
	p.close()

	a.warnIfRateLimited()
	return output.NewFormatter(format).FormatIssues(list, cmd.OutOrStdout())
}
