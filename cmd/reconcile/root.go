package main

import (
	"fmt"

	cblog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	logginginfra "github.com/danrasband/reconcile/internal/infrastructure/logging"
)

type rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reconcile",
		Short:         "Plan and apply graph-state reconciliations from a scenario file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			infraOpts := logginginfra.Options{
				Level:     flags.logLevel,
				Layer:     "cli",
				Component: cmd.Name(),
			}
			if flags.logFormat == "json" {
				infraOpts.Formatter = cblog.JSONFormatter
			}

			appLogger, err := logginginfra.New(infraOpts)
			if err != nil {
				return fmt.Errorf("configure logger: %w", err)
			}

			cmd.SetContext(withAppLogger(cmd.Context(), appLogger))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log format (text|json)")

	cmd.AddCommand(newPlanCmd(flags))
	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newDashboardCmd(flags))

	return cmd
}
