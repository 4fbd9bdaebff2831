package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/transcript-corrector/internal/db"
	"github.com/jonathan/transcript-corrector/internal/review"
)

var reviewCommand = &cobra.Command{
	Use:   "review <run-id>",
	Short: "Print the flagged corrections of a persisted run",
	Args:  cobra.ExactArgs(1),
	RunE:  reviewCmd,
}

var reviewDatabaseURL string

func init() {
	reviewCommand.Flags().StringVar(&reviewDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(reviewCommand)
}

func reviewCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", args[0], err)
	}

	databaseURL := reviewDatabaseURL
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

	// Prefer the rendered review file; fall back to re-rendering from the
	// persisted summary for runs saved without one.
	text, err := database.GetReviewFileByRunID(ctx, runID)
	if err != nil {
		return err
	}
	if text == "" {
		summary, err := database.GetRunSummaryByRunID(ctx, runID)
		if err != nil {
			return err
		}
		if summary == nil {
			return fmt.Errorf("run not found: %s", runID)
		}
		text = review.Render(summary.ReviewFindings)
	}

	fmt.Print(text)
	return nil
}
