package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cccol %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Commit:     %s\n", getShortCommit())
		fmt.Fprintf(cmd.OutOrStdout(), "  Built:      %s\n", buildDate)
		fmt.Fprintf(cmd.OutOrStdout(), "  Go version: %s\n", runtime.Version())
		fmt.Fprintf(cmd.OutOrStdout(), "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
