package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore GitHub repositories and their open issues",
		Long: `A CLI tool to search GitHub repositories, look at a repository and page
through its open issues. Results are cached so repeated commands within a
few minutes do not hit the API again.

Set GITHUB_TOKEN for the higher authenticated rate limit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	flags.BoolVar(&opts.NoCache, "no-cache", false, "Do not read or write the persistent query cache")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	flags.Var(newTUIFlag(opts), "tui", "Enable/disable TUI progress (default: auto-detect)")
	flags.Lookup("tui").NoOptDefVal = "true"

	// Profiling flags
	flags.StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	flags.StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	flags.StringVar(&opts.Trace, "trace", "", "Write execution trace to file")
	for _, name := range []string{"cpuprofile", "memprofile", "trace"} {
		_ = flags.MarkHidden(name)
	}

	// Register subcommands
	rootCmd.AddCommand(NewCmdSearch(opts))
	rootCmd.AddCommand(NewCmdRepo(opts))
	rootCmd.AddCommand(NewCmdIssues(opts))
	rootCmd.AddCommand(NewCmdBrowse(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdCache())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit(opts))

	return rootCmd
}
