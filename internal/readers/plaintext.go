package readers

import (
	"fmt"
	"os"
)

// PlainTextReader handles files that are already text.
type PlainTextReader struct{}

// Extensions returns the file extensions this reader handles.
func (r *PlainTextReader) Extensions() []string {
	return []string{".txt", ".md", ".markdown", ".text"}
}

// Read returns the file content unchanged.
func (r *PlainTextReader) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file; %w", err)
	}
	return string(data), nil
}
