package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skywatch-ops/skywatch/internal/config"
	"github.com/skywatch-ops/skywatch/internal/service/simulator"
	"github.com/skywatch-ops/skywatch/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// archiveFile path where resolved alerts and incidents are archived.
	archiveFile string
	// logLevel overrides the configured log level.
	logLevel string
	// withSensors enables the mock live sensor feed alongside playback.
	withSensors bool

	// rootCmd represents the base command for running scenario playback.
	rootCmd = &cobra.Command{
		Use:   "skywatch [scenario-id...]",
		Short: "Play back airport safety scenarios through the alert pipeline.",
		Long: `Plays back scripted airport safety scenarios through the event-driven
alert and incident pipeline.

Each scenario argument starts a timed playback run. Events fire at their
scripted offsets, flow through the event bus into the alert and incident
engines, and resolved records are archived to a JSON lines file.
Use "skywatch scenarios" to list the available catalog.
With --sensors the mock live sensor feed streams readings and raises
threshold alerts alongside (or instead of) scenario playback.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &simulator.Options{
				ConfigPath:  configPath,
				ScenarioIDs: args,
				ArchiveFile: archiveFile,
				LogLevel:    logLevel,
				WithSensors: withSensors,
			}

			return simulator.Run(ctx, options)
		},
	}
)

// Execute runs the skywatch CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&archiveFile, "archive", "a", "", "path to archive resolved alerts and incidents")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&withSensors, "sensors", "s", false, "enable the mock live sensor feed")
}
