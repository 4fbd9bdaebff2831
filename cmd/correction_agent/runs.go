package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/transcript-corrector/internal/db"
)

var runsCommand = &cobra.Command{
	Use:   "runs",
	Short: "List persisted correction runs",
	RunE:  runsCmd,
}

var (
	runsDatabaseURL string
	runsLimit       int
)

func init() {
	runsCommand.Flags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runsCommand.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")

	rootCmd.AddCommand(runsCommand)
}

func runsCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := runsDatabaseURL
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

	runs, err := database.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No correction runs found.")
		return nil
	}

	fmt.Printf("%-36s  %-14s  %-20s  %s\n", "ID", "STATUS", "CREATED", "SOURCE")
	for _, run := range runs {
		fmt.Printf("%-36s  %-14s  %-20s  %s\n",
			run.ID, run.Status, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Source)
	}
	return nil
}
