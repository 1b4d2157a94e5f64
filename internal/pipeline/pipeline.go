// Package pipeline wires media preparation, document reading, chunking, model
// calls, and export into complete end-to-end runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/scribelab/mediascribe/internal/chunkers"
	"github.com/scribelab/mediascribe/internal/export"
	"github.com/scribelab/mediascribe/internal/media"
	"github.com/scribelab/mediascribe/internal/orchestrate"
	"github.com/scribelab/mediascribe/internal/providers"
	"github.com/scribelab/mediascribe/internal/providers/synthesis"
	"github.com/scribelab/mediascribe/internal/recombine"
)

// chunkStage labels a chunk result with the stage that produced it. Media
// runs carry both transcription and synthesis outcomes in one result set.
const (
	stageTranscription = "transcription"
	stageSynthesis     = "synthesis"
)

// Pipeline runs complete source-to-output processing for media files and
// documents. Collaborators are injected; a Pipeline holds no per-run state
// and is safe for sequential reuse across runs.
type Pipeline struct {
	media       *media.Service
	transcriber providers.TranscriptionProvider
	synthesizer providers.SynthesisProvider
	exporter    *export.Exporter

	maxChunkSize     int
	thresholdMinutes float64
	segmentSeconds   float64
	workers          int
	promptStyle      string
	outputFormat     string
	outputDir        string
	tempRoot         string
	observer         orchestrate.Observer
	logger           *slog.Logger
}

// RunResult summarizes one completed pipeline run.
type RunResult struct {
	// RunID uniquely identifies the run.
	RunID string

	// OutputPath is the exported file location.
	OutputPath string

	// Result is the full result the output was rendered from.
	Result export.Result
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMediaService sets the audio preparation and splitting service.
func WithMediaService(s *media.Service) Option {
	return func(p *Pipeline) {
		p.media = s
	}
}

// WithTranscriber sets the transcription provider.
func WithTranscriber(t providers.TranscriptionProvider) Option {
	return func(p *Pipeline) {
		p.transcriber = t
	}
}

// WithSynthesizer sets the synthesis provider. Media runs without one export
// the transcript alone.
func WithSynthesizer(s providers.SynthesisProvider) Option {
	return func(p *Pipeline) {
		p.synthesizer = s
	}
}

// WithMaxChunkSize sets the character budget per document chunk.
func WithMaxChunkSize(n int) Option {
	return func(p *Pipeline) {
		p.maxChunkSize = n
	}
}

// WithThresholdMinutes sets the audio duration above which recordings are
// segmented before transcription.
func WithThresholdMinutes(minutes float64) Option {
	return func(p *Pipeline) {
		p.thresholdMinutes = minutes
	}
}

// WithSegmentSeconds sets the duration of each audio segment.
func WithSegmentSeconds(seconds float64) Option {
	return func(p *Pipeline) {
		p.segmentSeconds = seconds
	}
}

// WithWorkers sets the number of chunks processed concurrently.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithPromptStyle selects the synthesis prompt style.
func WithPromptStyle(style string) Option {
	return func(p *Pipeline) {
		p.promptStyle = style
	}
}

// WithOutputFormat selects the export format.
func WithOutputFormat(format string) Option {
	return func(p *Pipeline) {
		p.outputFormat = format
	}
}

// WithOutputDir sets the directory exported files are written to.
func WithOutputDir(dir string) Option {
	return func(p *Pipeline) {
		p.outputDir = dir
	}
}

// WithTempRoot sets the root directory for run-scoped working directories.
func WithTempRoot(dir string) Option {
	return func(p *Pipeline) {
		p.tempRoot = dir
	}
}

// WithObserver sets a progress observer notified after each chunk completes.
func WithObserver(o orchestrate.Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// WithLogger sets the logger for the pipeline.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		exporter:         export.NewExporter(),
		maxChunkSize:     chunkers.DefaultMaxChunkSize,
		thresholdMinutes: media.DefaultThresholdMinutes,
		segmentSeconds:   media.DefaultSegmentSeconds,
		workers:          1,
		promptStyle:      synthesis.DefaultStyle,
		outputFormat:     "markdown",
		outputDir:        ".",
		tempRoot:         os.TempDir(),
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// synthesize splits text, runs every chunk through the synthesis provider,
// and combines the per-chunk outputs. Returns the combined document and the
// per-chunk outcomes it was built from. Only a fully failed run is an error;
// partial failures are tolerated and recorded in the chunk results.
func (p *Pipeline) synthesize(ctx context.Context, text string) (string, []orchestrate.ChunkResult, error) {
	if !p.synthesizer.Available() {
		return "", nil, fmt.Errorf("synthesis provider %s is not available", p.synthesizer.Name())
	}

	prompt, err := synthesis.Prompt(p.promptStyle)
	if err != nil {
		return "", nil, err
	}

	chunks := chunkers.SplitText(text, p.maxChunkSize)
	if len(chunks) == 0 {
		return "", nil, errors.New("no content to synthesize")
	}

	total := len(chunks)

	// Providers enforce their own rate limits inside Synthesize.
	proc := orchestrate.ProcessorFunc(func(ctx context.Context, chunk chunkers.Chunk) (string, error) {
		res, err := p.synthesizer.Synthesize(ctx, providers.SynthesisRequest{
			Prompt:      prompt,
			Content:     chunk.Content,
			ChunkIndex:  chunk.Index,
			TotalChunks: total,
		})
		if err != nil {
			return "", err
		}
		return res.Text, nil
	})

	agg := orchestrate.New(proc,
		orchestrate.WithWorkers(p.workers),
		orchestrate.WithObserver(p.observer),
		orchestrate.WithLogger(p.logger)).Run(ctx, chunks)

	results := tagStage(agg.Results, stageSynthesis)

	if agg.SuccessCount == 0 {
		return "", results, fmt.Errorf("synthesis produced no usable output; all %d chunks failed", total)
	}

	// A single chunk needs no combining pass; its output is the document.
	if total == 1 {
		return agg.Results[0].Output, results, nil
	}
	return recombine.CombineSyntheses(agg.Results), results, nil
}

// tagStage records the producing stage in each result's metadata.
func tagStage(results []orchestrate.ChunkResult, stage string) []orchestrate.ChunkResult {
	tagged := make([]orchestrate.ChunkResult, len(results))
	for i, r := range results {
		if r.Metadata == nil {
			r.Metadata = make(map[string]string, 1)
		}
		r.Metadata["stage"] = stage
		tagged[i] = r
	}
	return tagged
}
