package main

import (
	"zenith-store/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

// zenith-store migrate up
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, dbService, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()
		defer dbService.Close()

		return database.RunMigrations(dbService.DB(), log)
	},
}

// zenith-store migrate status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, dbService, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()
		defer dbService.Close()

		return database.MigrationStatus(dbService.DB())
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}
