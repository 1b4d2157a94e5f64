// Package export writes pipeline results to disk in the supported output
// formats.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/scribelab/mediascribe/internal/orchestrate"
)

// Result is the complete output of one pipeline run, ready for export.
type Result struct {
	// SourcePath is the input file the run processed.
	SourcePath string `json:"source_path"`

	// SourceType is "media" or "document".
	SourceType string `json:"source_type"`

	// RunID uniquely identifies the pipeline run.
	RunID string `json:"run_id"`

	// Transcript is the recombined transcript (media runs only).
	Transcript string `json:"transcript,omitempty"`

	// Synthesis is the combined synthesis document, empty when synthesis
	// was skipped.
	Synthesis string `json:"synthesis,omitempty"`

	// Chunks holds the per-chunk outcomes the combined outputs were built
	// from, in source order.
	Chunks []orchestrate.ChunkResult `json:"chunks"`

	// ProviderName and ModelName record which collaborator produced the
	// synthesis.
	ProviderName string `json:"provider_name,omitempty"`
	ModelName    string `json:"model_name,omitempty"`

	// GeneratedAt is when the run completed.
	GeneratedAt time.Time `json:"generated_at"`
}

// Writer renders a Result into one output file format.
type Writer interface {
	// Write renders result into outputDir and returns the written path.
	Write(result Result, outputDir string) (string, error)

	// Extension returns the output file extension including the dot.
	Extension() string
}

// Exporter dispatches results to format writers.
type Exporter struct {
	writers map[string]Writer
}

// NewExporter creates an exporter with the default formats registered.
func NewExporter() *Exporter {
	e := &Exporter{writers: make(map[string]Writer)}

	e.RegisterWriter("markdown", NewMarkdownWriter())
	e.RegisterWriter("json", NewJSONWriter())

	return e
}

// RegisterWriter registers a writer for a format name.
func (e *Exporter) RegisterWriter(name string, w Writer) {
	e.writers[name] = w
}

// Export writes result in the named format and returns the output path.
func (e *Exporter) Export(result Result, format, outputDir string) (string, error) {
	writer, ok := e.writers[format]
	if !ok {
		return "", fmt.Errorf("unknown format %q; available formats are %v", format, e.ListFormats())
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory; %w", err)
	}

	return writer.Write(result, outputDir)
}

// ListFormats returns available format names.
func (e *Exporter) ListFormats() []string {
	formats := make([]string, 0, len(e.writers))
	for name := range e.writers {
		formats = append(formats, name)
	}
	return formats
}

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9 _-]+`)

// OutputStem derives a filesystem-safe base name from the source path.
func OutputStem(sourcePath string) string {
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	stem = unsafeFilenameRe.ReplaceAllString(stem, "")
	stem = strings.TrimSpace(stem)
	stem = strings.ReplaceAll(stem, " ", "_")
	if stem == "" {
		stem = "output"
	}
	return stem
}
