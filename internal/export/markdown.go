package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MarkdownWriter writes the human-readable study notes output.
type MarkdownWriter struct{}

// NewMarkdownWriter creates a markdown writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Extension returns the output file extension.
func (w *MarkdownWriter) Extension() string {
	return ".md"
}

// Write renders the result as a markdown document. The synthesis is the main
// body; for media runs the transcript is appended under its own header so the
// source material stays inspectable.
func (w *MarkdownWriter) Write(result Result, outputDir string) (string, error) {
	var doc strings.Builder

	if result.Synthesis != "" {
		doc.WriteString(result.Synthesis)
	}

	if result.Transcript != "" {
		if doc.Len() > 0 {
			doc.WriteString("\n\n---\n\n")
		}
		doc.WriteString("# Transcript\n\n")
		doc.WriteString(result.Transcript)
	}

	if doc.Len() == 0 {
		return "", fmt.Errorf("result has no transcript or synthesis to write")
	}
	doc.WriteString("\n")

	path := filepath.Join(outputDir, OutputStem(result.SourcePath)+w.Extension())
	if err := os.WriteFile(path, []byte(doc.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown output; %w", err)
	}

	return path, nil
}
