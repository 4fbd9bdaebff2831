package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/transcript-corrector/internal/llm"
	"github.com/jonathan/transcript-corrector/internal/pipeline"
	"github.com/jonathan/transcript-corrector/internal/types"
	"github.com/jonathan/transcript-corrector/internal/validation"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full correction loop on a transcript",
	Long: `Runs the iterative correction loop end-to-end: chunking -> detection -> validation -> replacement, repeated until the transcript converges or the loop stalls.

Ctrl-C stops the run between iterations; the last completed document is still written.`,
	RunE: runCorrectionCmd,
}

var (
	runInput         string
	runText          string
	runOutput        string
	runReviewFile    string
	runChunkSize     int
	runOverlap       int
	runConcurrency   int
	runMaxIterations int
	runTier          string
	runConservative  bool
	runVerbose       bool
	runAPIKey        string
	runDatabaseURL   string
)

func init() {
	runCommand.Flags().StringVarP(&runInput, "input", "i", "", "Path to transcript file (.txt, .html) (mutually exclusive with --text)")
	runCommand.Flags().StringVar(&runText, "text", "", "Inline transcript text (mutually exclusive with --input)")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Path for the corrected document (defaults to <input>.corrected.txt)")
	runCommand.Flags().StringVar(&runReviewFile, "review-file", "", "Path for the review file listing flagged corrections (defaults to <output>.review.txt)")
	runCommand.Flags().IntVar(&runChunkSize, "chunk-size", 0, "Words per chunk (default 3000)")
	runCommand.Flags().IntVar(&runOverlap, "overlap", 0, "Words of overlap between chunks (default 200)")
	runCommand.Flags().IntVar(&runConcurrency, "concurrency", 0, "Concurrent oracle calls per iteration (default 4)")
	runCommand.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "Iteration cap (default 5)")
	runCommand.Flags().StringVar(&runTier, "tier", "", "Model tier for detection: lite, standard, advanced (default standard)")
	runCommand.Flags().BoolVar(&runConservative, "conservative", false, "Apply high-confidence findings only")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runCorrectionCmd(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runInput == "" && runText == "" {
		return fmt.Errorf("either --input or --text is required")
	}
	if runInput != "" && runText != "" {
		return fmt.Errorf("--input and --text are mutually exclusive")
	}

	apiKey := runAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required: pass --api-key or set GEMINI_API_KEY")
	}

	databaseURL := runDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	output := runOutput
	if output == "" && runInput != "" {
		output = strings.TrimSuffix(runInput, ".txt") + ".corrected.txt"
	}
	if output == "" {
		output = "corrected.txt"
	}
	reviewFile := runReviewFile
	if reviewFile == "" {
		reviewFile = strings.TrimSuffix(output, ".txt") + ".review.txt"
	}

	policy := validation.DefaultPolicy()
	if runConservative {
		policy = validation.Policy{AutoApply: []types.Confidence{types.ConfidenceHigh}}
	}

	summary, err := pipeline.RunPipeline(ctx, pipeline.RunOptions{
		InputPath:     runInput,
		InputText:     runText,
		OutputPath:    output,
		ReviewPath:    reviewFile,
		APIKey:        apiKey,
		Tier:          llm.ModelTier(runTier),
		ChunkSize:     runChunkSize,
		Overlap:       runOverlap,
		Concurrency:   runConcurrency,
		MaxIterations: runMaxIterations,
		Policy:        policy,
		Verbose:       runVerbose,
		DatabaseURL:   databaseURL,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nRun finished: %s after %d iterations (%d corrections applied)\n",
		summary.Status, len(summary.Iterations), summary.TotalApplied)
	fmt.Printf("Corrected document: %s\n", output)
	if len(summary.ReviewFindings) > 0 {
		fmt.Printf("Review file:        %s (%d flagged corrections)\n", reviewFile, len(summary.ReviewFindings))
	}
	return nil
}
