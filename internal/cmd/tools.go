package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/biolens/biolens/internal/observability"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := newRegistry(observability.CLILogger)

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Tool", "Description"})
		for _, tool := range registry.Tools() {
			t.AppendRow(table.Row{tool.Name, tool.Description})
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
