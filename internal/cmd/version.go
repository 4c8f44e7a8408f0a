package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "biolens %s (commit %s, built %s)\n",
			orUnknown(versionInfo.Version), orUnknown(versionInfo.Commit), orUnknown(versionInfo.BuildDate))
	},
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
