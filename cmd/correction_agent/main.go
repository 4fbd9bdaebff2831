// Package main provides the transcript correction command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "correction_agent",
	Short: "Iterative transcript correction engine",
	Long:  "Correction agent repeatedly scans a transcript for transcription errors with an LLM oracle, verifies each candidate fix against the source text, and applies only the fixes that survive validation.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
