package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donely-api/config"
	"github.com/donely-api/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := database.Open(cmd.Context(), cfg.DatabaseURL, cfg.DBLogLevel)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}
