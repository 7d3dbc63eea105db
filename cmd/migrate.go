package main

import (
	"CompanyAPI/internal/db"

	"github.com/spf13/cobra"
)

var downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return db.MigrateUp(cfg.MigrationsDir, cfg.PostgresDSN)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return db.MigrateDown(cfg.MigrationsDir, cfg.PostgresDSN, downSteps)
	},
}

func init() {
	migrateDownCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "number of migrations to roll back; 0 rolls back all")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
