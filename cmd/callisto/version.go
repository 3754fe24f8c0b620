package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, overridden via -ldflags at release time.
var (
	version   = "0.1.0"
	commit    = "dev"
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build and version details",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "callisto %s (%s)\n", version, commit)
		if buildDate != "" {
			fmt.Fprintf(out, "  built:   %s\n", buildDate)
		}
		fmt.Fprintf(out, "  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
