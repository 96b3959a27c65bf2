package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/notebook-runner-cli/internal/adapters/render/summary"
	"github.com/bnema/notebook-runner-cli/internal/application"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *app) *cobra.Command {
	var query application.HistoryQuery
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := app.service.History(cmd.Context(), query)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}

			rendered, err := app.historyRenderer(runs, summary.RenderOptions{Trigger: query.Trigger})
			if err != nil {
				return fmt.Errorf("render history: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&query.Trigger, "trigger", "", "Only runs triggered by this observable value")
	cmd.Flags().StringVar(&query.DataType, "data-type", "", "Only runs for this observable type")
	cmd.Flags().IntVar(&query.Limit, "limit", 20, "Maximum number of runs (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
