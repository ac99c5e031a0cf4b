package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/crm/internal/logging"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "crmctl",
		Short:        "Browse customers and look up CEPs",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newListCmd(), newCEPCmd())
	return root
}
