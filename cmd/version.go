package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/braheezy/goadpcm/pkg/adpcm"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and supported codecs",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "goadpcm %s\n", version)

		if verbose {
			if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintf(out, "built with %s\n", info.GoVersion)
			}
			for _, c := range adpcm.Codecs() {
				fmt.Fprintf(out, "  %s\n", c)
			}
		}
	},
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
