// Package pipeline provides the high-level orchestration for a correction run.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/transcript-corrector/internal/chunking"
	"github.com/jonathan/transcript-corrector/internal/controller"
	"github.com/jonathan/transcript-corrector/internal/db"
	"github.com/jonathan/transcript-corrector/internal/detection"
	"github.com/jonathan/transcript-corrector/internal/ingestion"
	"github.com/jonathan/transcript-corrector/internal/llm"
	"github.com/jonathan/transcript-corrector/internal/metrics"
	"github.com/jonathan/transcript-corrector/internal/observability"
	"github.com/jonathan/transcript-corrector/internal/review"
	"github.com/jonathan/transcript-corrector/internal/types"
	"github.com/jonathan/transcript-corrector/internal/validation"
)

// Artifact categories
const (
	CategoryIngestion  = "ingestion"
	CategoryCorrection = "correction"
	CategoryOutput     = "output"
)

// ProgressEvent represents a progress update during a correction run
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for a correction run
type RunOptions struct {
	InputPath  string // transcript file; .html/.htm inputs are text-extracted
	InputText  string // inline transcript text, used when InputPath is empty
	OutputPath string // corrected document destination
	ReviewPath string // review file destination; empty disables the review file

	APIKey        string
	Tier          llm.ModelTier
	ChunkSize     int
	Overlap       int
	Concurrency   int
	MaxIterations int
	Policy        validation.Policy

	Verbose     bool
	DatabaseURL string
	OnProgress  ProgressCallback

	// Detector overrides the Gemini-backed detector. Used by tests.
	Detector detection.Detector
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID uuid.UUID, step, category, message string, content any) {
	if opts.OnProgress != nil {
		event := ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		}
		if runID != uuid.Nil {
			event.RunID = runID.String()
		}
		opts.OnProgress(event)
	}
}

func chunkingOptions(opts RunOptions) chunking.Options {
	return chunking.Options{ChunkSize: opts.ChunkSize, Overlap: opts.Overlap}
}

// RunPipeline executes a full correction run: ingest, iterate the correction
// loop, write outputs, and optionally persist artifacts.
func RunPipeline(ctx context.Context, opts RunOptions) (*types.RunSummary, error) {
	printer := observability.NewPrinter(os.Stdout)

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database = nil
		} else {
			defer database.Close()
			// A fresh database has no tables yet; bootstrap before the first
			// CreateRun rather than requiring out-of-band migration.
			if err := database.EnsureSchema(ctx); err != nil {
				fmt.Printf("Warning: Failed to ensure database schema: %v\n", err)
				fmt.Printf("Continuing without database persistence...\n")
				database = nil
			} else if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	// Step 1: Ingest the transcript
	var document string
	var source string
	var err error
	if opts.InputPath != "" {
		fmt.Printf("Step 1/4: Ingesting transcript from file: %s...\n", opts.InputPath)
		source = opts.InputPath
		document, err = ingestion.FromFile(opts.InputPath)
	} else {
		fmt.Printf("Step 1/4: Ingesting inline transcript...\n")
		source = "inline"
		document, err = ingestion.FromText(opts.InputText)
	}
	if err != nil {
		return nil, fmt.Errorf("transcript ingestion failed: %w", err)
	}

	if database != nil {
		if runID, err = database.CreateRun(ctx, source); err != nil {
			fmt.Printf("Warning: Failed to create run record: %v\n", err)
			database = nil
		} else {
			if err := database.SaveTextArtifact(ctx, runID, db.StepInputDocument, CategoryIngestion, document); err != nil {
				fmt.Printf("Warning: Failed to save input document: %v\n", err)
			}
		}
	}
	emitProgress(&opts, runID, db.StepInputDocument, CategoryIngestion,
		fmt.Sprintf("Ingested transcript from %s", source), nil)

	// Step 2: Build the detector
	fmt.Printf("Step 2/4: Preparing error detection...\n")
	detector := opts.Detector
	if detector == nil {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), opts.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
		detector = detection.NewLLMDetector(client, detection.Options{Tier: opts.Tier})
	}

	// Step 3: Run the correction loop
	fmt.Printf("Step 3/4: Running correction loop...\n")
	recorder := metrics.NewRecorder()
	ctrl := controller.New(detector, recorder, controller.Config{
		MaxIterations: opts.MaxIterations,
		Chunking:      chunkingOptions(opts),
		Concurrency:   opts.Concurrency,
		Policy:        opts.Policy,
		Progress: func(res types.IterationResult) {
			fmt.Printf("  iteration %d: found %d, applied %d, skipped %d\n",
				res.Iteration, res.ErrorsFound, res.ErrorsApplied, res.ErrorsSkipped)
			if opts.Verbose {
				printer.PrintIterationResult(&res)
			}
			if database != nil {
				if err := database.SaveArtifact(ctx, runID, db.IterationStep(res.Iteration), CategoryCorrection, res); err != nil {
					fmt.Printf("Warning: Failed to save iteration artifact: %v\n", err)
				}
			}
			emitProgress(&opts, runID, db.IterationStep(res.Iteration), CategoryCorrection,
				fmt.Sprintf("Iteration %d applied %d corrections", res.Iteration, res.ErrorsApplied), res)
		},
	})

	summary, err := ctrl.Run(ctx, document)
	if err != nil {
		if database != nil {
			_ = database.CompleteRun(ctx, runID, "failed")
		}
		return nil, fmt.Errorf("correction loop failed: %w", err)
	}

	// Step 4: Write outputs
	fmt.Printf("Step 4/4: Writing outputs...\n")
	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, []byte(summary.FinalDocument), 0644); err != nil {
			return nil, fmt.Errorf("failed to write corrected document: %w", err)
		}
	}
	var reviewText string
	if len(summary.ReviewFindings) > 0 {
		reviewText = review.Render(summary.ReviewFindings)
		if opts.ReviewPath != "" {
			if err := review.WriteFile(opts.ReviewPath, summary.ReviewFindings); err != nil {
				return nil, err
			}
		}
	}

	if opts.Verbose {
		printer.PrintRunSummary(summary)
	}
	if summary.Status == types.StatusStalled {
		printer.PrintStallDiagnostics(controller.Diagnose(summary.RemainingFindings))
	}

	if database != nil {
		if err := database.SaveTextArtifact(ctx, runID, db.StepFinalDocument, CategoryOutput, summary.FinalDocument); err != nil {
			fmt.Printf("Warning: Failed to save final document: %v\n", err)
		}
		if err := database.SaveArtifact(ctx, runID, db.StepRunSummary, CategoryOutput, summary); err != nil {
			fmt.Printf("Warning: Failed to save run summary: %v\n", err)
		}
		if reviewText != "" {
			if err := database.SaveTextArtifact(ctx, runID, db.StepReviewFile, CategoryOutput, reviewText); err != nil {
				fmt.Printf("Warning: Failed to save review file: %v\n", err)
			}
		}
		if err := database.CompleteRun(ctx, runID, string(summary.Status)); err != nil {
			fmt.Printf("Warning: Failed to complete run record: %v\n", err)
		}
	}
	emitProgress(&opts, runID, db.StepRunSummary, CategoryOutput,
		fmt.Sprintf("Run finished: %s after %d iterations", summary.Status, len(summary.Iterations)), summary)

	return summary, nil
}
