package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/skywatch-ops/skywatch/internal/config"
)

// scenariosCmd lists the scenario catalog as a table.
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the available playback scenarios.",
	Long: `Lists every scenario in the catalog with its category, severity,
duration and scripted event count. Scenarios come from the configuration
file when one is provided, otherwise from the built-in catalog.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}

		catalog, err := config.Catalog(cfg)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.AppendHeader(table.Row{"ID", "Name", "Category", "Severity", "Duration", "Events"})

		for _, scenario := range catalog {
			tw.AppendRow(table.Row{
				scenario.ID,
				scenario.Name,
				scenario.Category,
				scenario.Severity,
				scenario.TotalDuration,
				len(scenario.Events),
			})
		}

		tw.Render()

		return nil
	},
}
