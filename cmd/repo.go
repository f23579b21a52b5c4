package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spiffcs/explore/internal/ghclient"
	"github.com/spiffcs/explore/internal/log"
	"github.com/spiffcs/explore/internal/output"
	"github.com/spiffcs/explore/internal/service"
	"github.com/spiffcs/explore/internal/tui"
	"github.com/spiffcs/explore/internal/urlutil"
)

// NewCmdRepo creates the repo command.
func NewCmdRepo(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo <owner/repo|url>",
		Short: "Show a repository and its most recent open issues",
		Long: `Shows the details of one repository together with the first page of its
open issues. Both are loaded in parallel.`,
		Example: `  explore repo golang/go
  explore repo https://github.com/charmbracelet/lipgloss -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepo(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	return cmd
}

func runRepo(cmd *cobra.Command, arg string, opts *Options) error {
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

	p.start(tui.WithTasks(tui.RepositoryTasks()), tui.WithTitle(ref.String()))
	p.send(tui.TaskRepository, tui.StatusRunning)
	p.send(tui.TaskFetch, tui.StatusRunning)

	ov, err := a.explorer.RepositoryOverview(ctx, ref.Owner, ref.Repo)
	if err != nil {
		p.close()
		return err
	}

	if ov.Repository.IsError {
		p.fail(tui.TaskRepository, ov.Repository.Err)
		p.close()
		return ov.Repository.Err
	}
	p.send(tui.TaskRepository, tui.StatusComplete, tui.WithMessage(ref.String()))

	issues := service.IssueList(ov.Issues)
	if ov.Issues.IsError {
		p.fail(tui.TaskFetch, ov.Issues.Err)
		log.Warn("could not load open issues", "repository", ref.String(), "error", ghclient.UserMessage(ov.Issues.Err))
	} else {
		p.send(tui.TaskFetch, tui.StatusComplete, tui.WithCount(len(issues)))
	}
	p.close()
	a.warnIfRateLimited()

	return output.NewFormatter(format).FormatOverview(output.Overview{
		Repository: ov.Repository.Data,
		Issues: output.IssueList{
			Repository: ref.String(),
			Pages:      len(ov.Issues.Pages),
			HasMore:    ov.Issues.HasNextPage,
			Issues:     issues,
		},
	}, cmd.OutOrStdout())
}
