package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

// versionString reports the build and the platform it runs on, e.g.
// "fetchclient dev (built unknown, go1.25.0 linux/amd64)".
func versionString() string {
	return fmt.Sprintf("fetchclient %s (built %s, %s %s/%s)",
		version, buildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
