package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/donely-api/config"
)

var rootCmd = &cobra.Command{
	Use:   "donely",
	Short: "Donely project delivery API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}
