package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"veritaslab/database"
	"veritaslab/internal/config"
	"veritaslab/internal/shared"
)

// migrate applies or reverts the embedded schema migrations without
// starting the API server.

var steps int

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the VeritasLab database schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
		return database.RunMigrations(cfg.DatabaseURL, shared.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat))
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the latest migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
		return database.RollbackMigrations(cfg.DatabaseURL, steps, shared.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat))
	},
}

func main() {
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")
	rootCmd.AddCommand(upCmd, downCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
