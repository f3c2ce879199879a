package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donely-api/config"
	"github.com/donely-api/database"
	"github.com/donely-api/repositories"
	"github.com/donely-api/services"
)

var adminFlags struct {
	email    string
	password string
	name     string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := database.Open(cmd.Context(), cfg.DatabaseURL, cfg.DBLogLevel)
		if err != nil {
			return err
		}

		clients := services.NewClientService(repositories.NewProfileRepository(db), repositories.NewAccessRepository(db))
		admin, err := clients.CreateAdmin(cmd.Context(), adminFlags.email, adminFlags.name, adminFlags.password)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Admin %s created (%s)\n", admin.Email, admin.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "admin email address")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password (min 8 characters)")
	createAdminCmd.Flags().StringVar(&adminFlags.name, "name", "Administrator", "display name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
