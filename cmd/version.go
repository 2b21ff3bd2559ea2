package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden by the build using -ldflags.
var Version = "devel"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of osh.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
