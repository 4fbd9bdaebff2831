package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/transcript-corrector/internal/types"
)

// GetRunSummaryByRunID loads the run summary for a persisted run
func (db *DB) GetRunSummaryByRunID(ctx context.Context, runID uuid.UUID) (*types.RunSummary, error) {
	content, err := db.GetArtifact(ctx, runID, StepRunSummary)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var summary types.RunSummary
	if err := json.Unmarshal(content, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}
	return &summary, nil
}

// GetIterationByRunID loads one iteration's result for a persisted run
func (db *DB) GetIterationByRunID(ctx context.Context, runID uuid.UUID, iteration int) (*types.IterationResult, error) {
	content, err := db.GetArtifact(ctx, runID, IterationStep(iteration))
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var res types.IterationResult
	if err := json.Unmarshal(content, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal iteration result: %w", err)
	}
	return &res, nil
}

// GetFinalDocumentByRunID loads the corrected document text for a persisted run
func (db *DB) GetFinalDocumentByRunID(ctx context.Context, runID uuid.UUID) (string, error) {
	return db.GetTextArtifact(ctx, runID, StepFinalDocument)
}

// GetReviewFileByRunID loads the rendered review file for a persisted run
func (db *DB) GetReviewFileByRunID(ctx context.Context, runID uuid.UUID) (string, error) {
	return db.GetTextArtifact(ctx, runID, StepReviewFile)
}
