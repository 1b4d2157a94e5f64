package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/scribelab/mediascribe/internal/chunkers"
	"github.com/scribelab/mediascribe/internal/export"
	"github.com/scribelab/mediascribe/internal/orchestrate"
	"github.com/scribelab/mediascribe/internal/recombine"
)

// ProcessMedia runs the full media flow for the audio or video file at
// inputPath: prepare a 16 kHz WAV, split when the recording exceeds the
// duration threshold, transcribe every segment, recombine the transcript,
// optionally synthesize study notes, and export the result.
//
// Per-segment transcription failures are tolerated as long as at least one
// segment succeeds; the gaps are recorded in the chunk results. A synthesis
// failure downgrades the run to transcript-only export instead of failing it.
func (p *Pipeline) ProcessMedia(ctx context.Context, inputPath string) (*RunResult, error) {
	if p.media == nil || p.transcriber == nil {
		return nil, errors.New("media processing requires a media service and a transcription provider")
	}
	if !p.transcriber.Available() {
		return nil, fmt.Errorf("transcription provider %s is not available", p.transcriber.Name())
	}

	runID := uuid.New().String()
	workDir := filepath.Join(p.tempRoot, "mediascribe", runID)
	defer os.RemoveAll(workDir)

	logger := p.logger.With("run_id", runID, "source", inputPath)
	logger.Info("media run started")

	prepared, err := p.media.PrepareAudio(ctx, inputPath, workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare audio; %w", err)
	}

	needsSplit, err := p.media.ShouldChunk(ctx, prepared, p.thresholdMinutes)
	if err != nil {
		return nil, err
	}

	var chunks []chunkers.Chunk
	if needsSplit {
		segments, err := p.media.SplitAudio(ctx, prepared, filepath.Join(workDir, "segments"), p.segmentSeconds)
		if err != nil {
			return nil, fmt.Errorf("failed to split audio; %w", err)
		}
		for _, seg := range segments {
			chunks = append(chunks, chunkers.Chunk{
				Index:    seg.Index,
				Content:  seg.Path,
				Size:     int(seg.Duration),
				Boundary: chunkers.BoundaryForced,
			})
		}
	} else {
		chunks = []chunkers.Chunk{{Index: 0, Content: prepared, Boundary: chunkers.BoundaryForced}}
	}

	// Providers enforce their own rate limits inside Transcribe.
	proc := orchestrate.ProcessorFunc(func(ctx context.Context, chunk chunkers.Chunk) (string, error) {
		return p.transcriber.Transcribe(ctx, chunk.Content)
	})

	agg := orchestrate.New(proc,
		orchestrate.WithWorkers(p.workers),
		orchestrate.WithObserver(p.observer),
		orchestrate.WithLogger(logger)).Run(ctx, chunks)

	if agg.SuccessCount == 0 {
		return nil, fmt.Errorf("transcription produced no usable output; all %d segments failed", len(chunks))
	}
	if agg.FailureCount > 0 {
		logger.Warn("transcript has gaps",
			"failed_segments", agg.FailureCount,
			"total_segments", len(chunks))
	}

	segments := make([]string, 0, agg.SuccessCount)
	for _, r := range agg.Results {
		if r.Succeeded() {
			segments = append(segments, r.Output)
		}
	}
	transcript := recombine.ConcatenateTranscripts(segments)

	result := export.Result{
		SourcePath:  inputPath,
		SourceType:  "media",
		RunID:       runID,
		Transcript:  transcript,
		Chunks:      tagStage(agg.Results, stageTranscription),
		GeneratedAt: time.Now(),
	}

	if p.synthesizer != nil {
		combined, synthResults, err := p.synthesize(ctx, transcript)
		result.Chunks = append(result.Chunks, synthResults...)
		if err != nil {
			logger.Warn("synthesis failed, exporting transcript only", "error", err)
		} else {
			result.Synthesis = combined
			result.ProviderName = p.synthesizer.Name()
			result.ModelName = p.synthesizer.ModelName()
		}
	}

	outputPath, err := p.exporter.Export(result, p.outputFormat, p.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to export result; %w", err)
	}

	logger.Info("media run complete",
		"output", outputPath,
		"transcript_chars", len(transcript),
		"synthesized", result.Synthesis != "")

	return &RunResult{RunID: runID, OutputPath: outputPath, Result: result}, nil
}
