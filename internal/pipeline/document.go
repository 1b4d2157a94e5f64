package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scribelab/mediascribe/internal/export"
	"github.com/scribelab/mediascribe/internal/readers"
)

// ProcessDocument runs the full document flow for the file at inputPath: read
// and extract the text, split it into bounded chunks, synthesize each chunk,
// combine the outputs, and export the result. Unlike media runs, synthesis is
// the whole point here, so a fully failed synthesis fails the run.
func (p *Pipeline) ProcessDocument(ctx context.Context, inputPath string) (*RunResult, error) {
	if p.synthesizer == nil {
		return nil, errors.New("document processing requires a synthesis provider")
	}

	runID := uuid.New().String()
	logger := p.logger.With("run_id", runID, "source", inputPath)
	logger.Info("document run started")

	text, err := readers.ReadDocument(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document; %w", err)
	}

	combined, chunkResults, err := p.synthesize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize document; %w", err)
	}

	result := export.Result{
		SourcePath:   inputPath,
		SourceType:   "document",
		RunID:        runID,
		Synthesis:    combined,
		Chunks:       chunkResults,
		ProviderName: p.synthesizer.Name(),
		ModelName:    p.synthesizer.ModelName(),
		GeneratedAt:  time.Now(),
	}

	outputPath, err := p.exporter.Export(result, p.outputFormat, p.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to export result; %w", err)
	}

	logger.Info("document run complete",
		"output", outputPath,
		"chunks", len(chunkResults),
		"document_chars", len(text))

	return &RunResult{RunID: runID, OutputPath: outputPath, Result: result}, nil
}
