package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"floorcheck/internal/app"
	"floorcheck/internal/config"
	"floorcheck/internal/infrastructure"
	"floorcheck/pkg/contracts"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "floorcheck",
		Short: "Floor inspection checklist dashboard",
		Long: "floorcheck loads the floor inspection checklist exported from the field\n" +
			"spreadsheet, serves the dashboard and emails critical floor alerts.",
		Version:       contracts.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		// one trace id per invocation so CLI log lines can be correlated
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML configuration file (default: floorcheck.yaml if present)")

	cmd.AddCommand(
		newServeCmd(opts),
		newSummaryCmd(opts),
		newRecipientsCmd(opts),
		newAlertCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configFile != "" {
		return config.LoadFile(o.configFile)
	}
	return config.Load()
}

// newApplication wires the application for a one-shot command. Logs go to
// stderr so command output stays clean.
func (o *rootOptions) newApplication() (*app.Application, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Logging.Output = "console"
	cfg.Telemetry.TraceExporter = "none"

	logger, err := infrastructure.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return app.New(cfg, logger.With(slog.String("mode", "cli")))
}
