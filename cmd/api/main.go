package main

import (
	"fmt"
	"os"

	"zenith-store/internal/config"
	"zenith-store/internal/database"
	"zenith-store/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "zenith-store",
	Short: "Zenith storefront and admin API",
	// Running without a subcommand starts the API server.
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json, toml or env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// boot loads configuration, builds the logger and opens the database
func boot() (*config.Config, *zap.Logger, database.Service, error) {
	cfg := config.Load(configFile)

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Sync()
		return nil, nil, nil, err
	}

	return cfg, log, dbService, nil
}
