// Package orchestrate drives a chunk sequence through an injected per-chunk
// processor, isolating failures per chunk and aggregating ordered results.
package orchestrate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/scribelab/mediascribe/internal/chunkers"
)

// Status is the outcome of processing a single chunk.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ChunkResult is the immutable outcome of processing one chunk.
type ChunkResult struct {
	ChunkIndex   int               `json:"chunk_index"`
	Status       Status            `json:"status"`
	Output       string            `json:"output,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Succeeded reports whether the chunk was processed successfully.
func (r ChunkResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// AggregateResult holds the ordered per-chunk results of one run. It is
// constructed once, after every chunk has been processed (or accounted for
// after cancellation), and always contains exactly one result per chunk.
type AggregateResult struct {
	Results        []ChunkResult `json:"results"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	CombinedOutput string        `json:"combined_output,omitempty"`
}

// Processor maps one chunk to its output. Implementations are typically bound
// to an external model call (transcribe a segment, synthesize from a text
// chunk). A returned error is recorded against the chunk and never aborts the
// run; retry policy, if any, belongs to the processor itself.
type Processor interface {
	Process(ctx context.Context, chunk chunkers.Chunk) (string, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, chunk chunkers.Chunk) (string, error)

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, chunk chunkers.Chunk) (string, error) {
	return f(ctx, chunk)
}

// ProgressEvent describes the completion of a single chunk.
type ProgressEvent struct {
	ChunkIndex  int
	TotalChunks int
	Completed   int
	Status      Status
	Elapsed     time.Duration
}

// Observer receives a progress notification after each chunk completes.
type Observer func(ProgressEvent)

// Orchestrator runs chunks through a processor.
type Orchestrator struct {
	processor Processor
	observer  Observer
	workers   int
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver sets the progress observer.
func WithObserver(o Observer) Option {
	return func(or *Orchestrator) {
		or.observer = o
	}
}

// WithWorkers enables bounded parallel processing with n concurrent workers.
// Results are still ordered by chunk index regardless of completion order.
func WithWorkers(n int) Option {
	return func(or *Orchestrator) {
		or.workers = n
	}
}

// WithLogger sets the logger for the orchestrator.
func WithLogger(l *slog.Logger) Option {
	return func(or *Orchestrator) {
		or.logger = l
	}
}

// New creates an Orchestrator around the given processor.
func New(processor Processor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		processor: processor,
		workers:   1,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.workers < 1 {
		o.workers = 1
	}

	return o
}

// Run processes every chunk in index order and returns the aggregate.
//
// A processor failure on one chunk is recorded as an error result and does not
// stop the remaining chunks. If ctx is cancelled mid-run, chunks that were not
// processed are recorded as failed with the context error, so the aggregate
// still carries exactly one result per chunk and results already produced stay
// usable.
func (o *Orchestrator) Run(ctx context.Context, chunks []chunkers.Chunk) AggregateResult {
	if len(chunks) == 0 {
		return AggregateResult{Results: []ChunkResult{}}
	}

	results := make([]ChunkResult, len(chunks))

	if o.workers == 1 {
		o.runSequential(ctx, chunks, results)
	} else {
		o.runParallel(ctx, chunks, results)
	}

	agg := AggregateResult{Results: results}
	for _, r := range results {
		if r.Succeeded() {
			agg.SuccessCount++
		} else {
			agg.FailureCount++
		}
	}

	return agg
}

func (o *Orchestrator) runSequential(ctx context.Context, chunks []chunkers.Chunk, results []ChunkResult) {
	completed := 0
	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			results[i] = cancelledResult(chunk, ctx.Err())
			continue
		default:
		}

		results[i] = o.processOne(ctx, chunk)
		completed++
		o.notify(ProgressEvent{
			ChunkIndex:  chunk.Index,
			TotalChunks: len(chunks),
			Completed:   completed,
			Status:      results[i].Status,
		})
	}
}

func (o *Orchestrator) runParallel(ctx context.Context, chunks []chunkers.Chunk, results []ChunkResult) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)

	sem := make(chan struct{}, o.workers)

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			results[i] = cancelledResult(chunk, ctx.Err())
			continue
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, chunk chunkers.Chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			// Re-ordering happens here: the result lands in the slot
			// matching the chunk index, not completion order.
			results[i] = o.processOne(ctx, chunk)

			mu.Lock()
			completed++
			o.notify(ProgressEvent{
				ChunkIndex:  chunk.Index,
				TotalChunks: len(chunks),
				Completed:   completed,
				Status:      results[i].Status,
			})
			mu.Unlock()
		}(i, chunk)
	}

	wg.Wait()
}

// processOne runs the processor for a single chunk, converting any failure
// into an error-status result.
func (o *Orchestrator) processOne(ctx context.Context, chunk chunkers.Chunk) ChunkResult {
	start := time.Now()

	output, err := o.processor.Process(ctx, chunk)
	if err != nil {
		o.logger.Warn("chunk processing failed",
			"chunk", chunk.Index,
			"error", err,
			"duration", time.Since(start))
		return ChunkResult{
			ChunkIndex:   chunk.Index,
			Status:       StatusError,
			ErrorMessage: err.Error(),
		}
	}

	o.logger.Debug("chunk processed",
		"chunk", chunk.Index,
		"output_chars", len(output),
		"duration", time.Since(start))

	return ChunkResult{
		ChunkIndex: chunk.Index,
		Status:     StatusSuccess,
		Output:     output,
	}
}

func (o *Orchestrator) notify(event ProgressEvent) {
	if o.observer != nil {
		o.observer(event)
	}
}

func cancelledResult(chunk chunkers.Chunk, err error) ChunkResult {
	msg := "run cancelled"
	if err != nil {
		msg = err.Error()
	}
	return ChunkResult{
		ChunkIndex:   chunk.Index,
		Status:       StatusError,
		ErrorMessage: msg,
	}
}
