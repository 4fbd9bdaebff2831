package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/transcript-corrector/internal/chunking"
	"github.com/jonathan/transcript-corrector/internal/detection"
	"github.com/jonathan/transcript-corrector/internal/ingestion"
	"github.com/jonathan/transcript-corrector/internal/llm"
	"github.com/jonathan/transcript-corrector/internal/validation"
)

var detectCommand = &cobra.Command{
	Use:   "detect",
	Short: "Run error detection on a single chunk and print the raw findings",
	Long:  "Sends one chunk of the transcript to the oracle and prints the raw findings as JSON. Useful for prompt debugging without running the full loop.",
	RunE:  detectCmd,
}

var (
	detectInput   string
	detectText    string
	detectChunkID int
	detectTier    string
	detectAPIKey  string
)

func init() {
	detectCommand.Flags().StringVarP(&detectInput, "input", "i", "", "Path to transcript file (mutually exclusive with --text)")
	detectCommand.Flags().StringVar(&detectText, "text", "", "Inline transcript text (mutually exclusive with --input)")
	detectCommand.Flags().IntVar(&detectChunkID, "chunk", 0, "Chunk index to detect on")
	detectCommand.Flags().StringVar(&detectTier, "tier", "", "Model tier: lite, standard, advanced (default standard)")
	detectCommand.Flags().StringVar(&detectAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(detectCommand)
}

func detectCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if detectInput == "" && detectText == "" {
		return fmt.Errorf("either --input or --text is required")
	}

	apiKey := detectAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required: pass --api-key or set GEMINI_API_KEY")
	}

	var document string
	var err error
	if detectInput != "" {
		document, err = ingestion.FromFile(detectInput)
	} else {
		document, err = ingestion.FromText(detectText)
	}
	if err != nil {
		return err
	}

	chunks := chunking.Split(document, chunking.Options{})
	if detectChunkID < 0 || detectChunkID >= len(chunks) {
		return fmt.Errorf("chunk %d out of range: document has %d chunks", detectChunkID, len(chunks))
	}
	chunk := chunks[detectChunkID]

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	detector := detection.NewLLMDetector(client, detection.Options{Tier: llm.ModelTier(detectTier)})
	result, err := detector.Detect(ctx, chunk)
	if err != nil {
		return err
	}

	fmt.Printf("chunk %d (words %d-%d): %d findings, %d in / %d out tokens\n",
		chunk.ID, chunk.StartWord, chunk.EndWord, len(result.Findings), result.Usage.InputTokens, result.Usage.OutputTokens)

	if len(result.Findings) == 0 {
		return nil
	}
	out, err := json.MarshalIndent(result.Findings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}
	fmt.Println(string(out))

	// Show what validation would do with these findings.
	accepted, rejected := validation.ValidateAll(result.Findings)
	fmt.Printf("\nvalidation: %d accepted, %d rejected\n", len(accepted), len(rejected))
	for _, r := range rejected {
		fmt.Printf("  rejected (%s): %s\n", r.Reason, r.Raw.OriginalText)
	}
	return nil
}
