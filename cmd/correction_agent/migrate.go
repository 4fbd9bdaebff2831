package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/transcript-corrector/internal/db"
)

var migrateCommand = &cobra.Command{
	Use:   "migrate",
	Short: "Create the correction tables in the configured database",
	Long:  "Creates the correction_runs and artifacts tables if they do not exist. The run command does this automatically; migrate is for preparing a database before any run, so runs and review work immediately.",
	RunE:  migrateCmd,
}

var migrateDatabaseURL string

func init() {
	migrateCommand.Flags().StringVar(&migrateDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(migrateCommand)
}

func migrateCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := migrateDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required: pass --db-url or set DATABASE_URL")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	fmt.Println("Database schema is up to date.")
	return nil
}
