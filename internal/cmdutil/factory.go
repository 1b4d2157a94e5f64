package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/scribelab/mediascribe/internal/config"
	"github.com/scribelab/mediascribe/internal/executor"
	"github.com/scribelab/mediascribe/internal/media"
	"github.com/scribelab/mediascribe/internal/pipeline"
	"github.com/scribelab/mediascribe/internal/providers"
	"github.com/scribelab/mediascribe/internal/providers/synthesis"
	"github.com/scribelab/mediascribe/internal/providers/transcription"
)

// NewTranscriptionProvider builds the configured transcription provider.
func NewTranscriptionProvider(cfg *config.Config) (providers.TranscriptionProvider, error) {
	switch cfg.Transcription.Provider {
	case "whisper-api":
		opts := []transcription.WhisperAPIOption{
			transcription.WithWhisperModel(cfg.Transcription.Model),
		}
		if key := cfg.Transcription.ResolveAPIKey(); key != "" {
			opts = append(opts, transcription.WithWhisperAPIKey(key))
		}
		return transcription.NewWhisperAPIProvider(opts...), nil

	case "whisper-local":
		return transcription.NewLocalWhisperProvider(cfg.Transcription.LocalModelPath), nil

	default:
		return nil, fmt.Errorf("unknown transcription provider %q", cfg.Transcription.Provider)
	}
}

// NewSynthesisProvider builds the configured synthesis provider. Returns
// (nil, nil) when synthesis is disabled.
func NewSynthesisProvider(cfg *config.Config) (providers.SynthesisProvider, error) {
	if !cfg.Synthesis.Enabled {
		return nil, nil
	}

	switch cfg.Synthesis.Provider {
	case "openai":
		opts := []synthesis.OpenAIOption{
			synthesis.WithOpenAIModel(cfg.Synthesis.Model),
			synthesis.WithOpenAIRateLimit(cfg.Synthesis.RateLimit),
		}
		if key := cfg.Synthesis.ResolveAPIKey(); key != "" {
			opts = append(opts, synthesis.WithOpenAIAPIKey(key))
		}
		return synthesis.NewOpenAIProvider(opts...), nil

	case "google":
		opts := []synthesis.GoogleOption{
			synthesis.WithGoogleModel(cfg.Synthesis.Model),
			synthesis.WithGoogleRateLimit(cfg.Synthesis.RateLimit),
		}
		if key := cfg.Synthesis.ResolveAPIKey(); key != "" {
			opts = append(opts, synthesis.WithGoogleAPIKey(key))
		}
		return synthesis.NewGoogleProvider(opts...), nil

	default:
		return nil, fmt.Errorf("unknown synthesis provider %q", cfg.Synthesis.Provider)
	}
}

// NewPipeline assembles a pipeline from configuration. Extra options are
// applied last so callers can override configured values with flag values.
func NewPipeline(cfg *config.Config, logger *slog.Logger, extra ...pipeline.Option) (*pipeline.Pipeline, error) {
	transcriber, err := NewTranscriptionProvider(cfg)
	if err != nil {
		return nil, err
	}

	synthesizer, err := NewSynthesisProvider(cfg)
	if err != nil {
		return nil, err
	}

	outputDir, err := ResolvePath(cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory; %w", err)
	}

	mediaSvc := media.NewService(executor.New(), media.WithLogger(logger))

	opts := []pipeline.Option{
		pipeline.WithMediaService(mediaSvc),
		pipeline.WithTranscriber(transcriber),
		pipeline.WithMaxChunkSize(cfg.Chunking.MaxChunkSize),
		pipeline.WithThresholdMinutes(cfg.Chunking.ThresholdMinutes),
		pipeline.WithSegmentSeconds(cfg.Chunking.SegmentSeconds),
		pipeline.WithWorkers(cfg.Chunking.Workers),
		pipeline.WithPromptStyle(cfg.Synthesis.PromptStyle),
		pipeline.WithOutputFormat(cfg.Output.Format),
		pipeline.WithOutputDir(outputDir),
		pipeline.WithLogger(logger),
	}
	if synthesizer != nil {
		opts = append(opts, pipeline.WithSynthesizer(synthesizer))
	}
	opts = append(opts, extra...)

	return pipeline.New(opts...), nil
}
