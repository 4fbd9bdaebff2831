package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/transcript-corrector/internal/chunking"
	"github.com/jonathan/transcript-corrector/internal/ingestion"
	"github.com/jonathan/transcript-corrector/internal/observability"
)

var chunkCommand = &cobra.Command{
	Use:   "chunk",
	Short: "Inspect chunk boundaries for a transcript without calling the oracle",
	RunE:  chunkCmd,
}

var (
	chunkInput    string
	chunkSize     int
	chunkOverlap  int
	chunkShowText bool
)

func init() {
	chunkCommand.Flags().StringVarP(&chunkInput, "input", "i", "", "Path to transcript file")
	chunkCommand.Flags().IntVar(&chunkSize, "chunk-size", 0, "Words per chunk (default 3000)")
	chunkCommand.Flags().IntVar(&chunkOverlap, "overlap", 0, "Words of overlap between chunks (default 200)")
	chunkCommand.Flags().BoolVar(&chunkShowText, "show-text", false, "Print the first line of each chunk")
	_ = chunkCommand.MarkFlagRequired("input")

	rootCmd.AddCommand(chunkCommand)
}

func chunkCmd(_ *cobra.Command, _ []string) error {
	document, err := ingestion.FromFile(chunkInput)
	if err != nil {
		return err
	}

	chunks := chunking.Split(document, chunking.Options{ChunkSize: chunkSize, Overlap: chunkOverlap})
	fmt.Printf("Document: %d words, %d chunks\n\n", chunking.WordCount(document), len(chunks))

	for _, c := range chunks {
		fmt.Printf("chunk %d: words %d-%d (%d words, %d bytes)\n", c.ID, c.StartWord, c.EndWord, c.WordCount(), len(c.Text))
		if chunkShowText {
			preview := c.Text
			if len(preview) > 80 {
				preview = preview[:77] + "..."
			}
			fmt.Printf("  %s\n", preview)
		}
	}

	observability.NewPrinter(os.Stdout).PrintChunkStats(chunks)
	return nil
}
