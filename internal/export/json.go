package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONWriter writes the machine-readable result envelope, including the
// per-chunk outcomes.
type JSONWriter struct{}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

// Extension returns the output file extension.
func (w *JSONWriter) Extension() string {
	return ".json"
}

// Write renders the full result as indented JSON.
func (w *JSONWriter) Write(result Result, outputDir string) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result; %w", err)
	}

	path := filepath.Join(outputDir, OutputStem(result.SourcePath)+w.Extension())
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON output; %w", err)
	}

	return path, nil
}
