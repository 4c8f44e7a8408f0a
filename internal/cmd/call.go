package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biolens/biolens/internal/observability"
	"github.com/biolens/biolens/internal/output"
)

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Invoke a single tool from the command line",
	Long: `Invoke one of the registered tools directly.

Arguments are passed as a JSON object via --args:

  biolens call search_taxa --args '{"q": "platypus"}'
  biolens call search_observations --args '{"place_name": "Tasmania", "taxon_name": "echidna"}'
  biolens call inaturalist_search --args '{"q": "monarch butterfly", "sources": "taxa,projects"}' --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().String("args", "{}", "Tool arguments as a JSON object")
	callCmd.Flags().String("output", "table", "Output format: table, json")
}

func runCall(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])

	rawArgs, err := cmd.Flags().GetString("args")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	toolArgs := map[string]any{}
	if strings.TrimSpace(rawArgs) != "" {
		if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
			return fmt.Errorf("--args must be a JSON object: %w", err)
		}
	}

	formatter, err := output.New(format)
	if err != nil {
		return err
	}

	registry := newRegistry(observability.CLILogger)
	result, err := registry.Call(cmd.Context(), name, toolArgs)
	if err != nil {
		return err
	}

	rendered, err := formatter.Format(result)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}
