// =============================================================================
// Gift Card Intake - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   giftcards version          # name, version, build date, Go runtime
//   giftcards version --short  # version only, for scripts
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version and BuildDate are overridden at build time:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/giftcard-intake/cmd.Version=0.3.1'"
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)

// versionShort prints the bare version string.
var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, Version)
			return
		}
		fmt.Fprintf(out, "giftcards %s (built %s, %s %s/%s)\n",
			Version, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}
