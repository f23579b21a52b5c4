package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

type buildInfo struct {
	Version string
	Commit  string
	Date    string
}

var build = buildInfo{Version: "dev", Commit: "none", Date: "unknown"}

// SetVersionInfo records the values stamped into main at link time. Empty
// values keep the defaults.
func SetVersionInfo(v, c, d string) {
	if v != "" {
		build.Version = v
	}
	if c != "" {
		build.Commit = c
	}
	if d != "" {
		build.Date = d
	}
}

// resolved fills defaults from the module and VCS data embedded by go build.
func (b buildInfo) resolved() buildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && b.Commit == "none":
			b.Commit = s.Value
		case s.Key == "vcs.time" && b.Date == "unknown":
			b.Date = s.Value
		}
	}
	return b
}

// NewCmdVersion creates the version command.
func NewCmdVersion() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			b := build.resolved()
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, b.Version)
				return
			}
			fmt.Fprintf(w, "explore %s\n", b.Version)
			fmt.Fprintf(w, "  commit:   %s\n", b.Commit)
			fmt.Fprintf(w, "  built:    %s\n", b.Date)
			fmt.Fprintf(w, "  go:       %s\n", runtime.Version())
			fmt.Fprintf(w, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")
	return cmd
}
