package commands

import (
	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-archivebot/internal/dashboard"
	"github.com/qepting91/reddit-archivebot/internal/storage"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serves the dashboard over the archive database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		logger.Info("Starting Dashboard", "port", cfg.Port)
		return dashboard.StartServer(store, cfg.Port, logger)
	},
}
