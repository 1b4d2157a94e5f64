package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

var validTranscriptionProviders = map[string]bool{
	"whisper-api":   true,
	"whisper-local": true,
}

var validSynthesisProviders = map[string]bool{
	"openai": true,
	"google": true,
}

var validOutputFormats = map[string]bool{
	"markdown": true,
	"json":     true,
}

var validPromptStyles = map[string]bool{
	"lecture_summary": true,
	"study_notes":     true,
	"key_concepts":    true,
}

// Validate checks the configuration for errors. Returns ValidationErrors
// listing every failure.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Chunking.MaxChunkSize < 1 {
		errs = append(errs, ValidationError{
			Field:   "chunking.max_chunk_size",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Chunking.MaxChunkSize),
		})
	}
	if cfg.Chunking.ThresholdMinutes <= 0 {
		errs = append(errs, ValidationError{
			Field:   "chunking.threshold_minutes",
			Message: fmt.Sprintf("must be positive, got %g", cfg.Chunking.ThresholdMinutes),
		})
	}
	if cfg.Chunking.SegmentSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "chunking.segment_seconds",
			Message: fmt.Sprintf("must be positive, got %g", cfg.Chunking.SegmentSeconds),
		})
	}
	if cfg.Chunking.Workers < 1 {
		errs = append(errs, ValidationError{
			Field:   "chunking.workers",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Chunking.Workers),
		})
	}

	if cfg.Transcription.Provider == "" {
		errs = append(errs, ValidationError{
			Field:   "transcription.provider",
			Message: "must not be empty",
		})
	} else if !validTranscriptionProviders[cfg.Transcription.Provider] {
		errs = append(errs, ValidationError{
			Field:   "transcription.provider",
			Message: fmt.Sprintf("must be one of: whisper-api, whisper-local; got %q", cfg.Transcription.Provider),
		})
	}
	if cfg.Transcription.Provider == "whisper-local" && cfg.Transcription.LocalModelPath == "" {
		errs = append(errs, ValidationError{
			Field:   "transcription.local_model_path",
			Message: "must be set when using the whisper-local provider",
		})
	}

	if cfg.Synthesis.Enabled {
		if !validSynthesisProviders[cfg.Synthesis.Provider] {
			errs = append(errs, ValidationError{
				Field:   "synthesis.provider",
				Message: fmt.Sprintf("must be one of: openai, google; got %q", cfg.Synthesis.Provider),
			})
		}
		if cfg.Synthesis.Model == "" {
			errs = append(errs, ValidationError{
				Field:   "synthesis.model",
				Message: "must not be empty when synthesis is enabled",
			})
		}
		if cfg.Synthesis.RateLimit < 1 {
			errs = append(errs, ValidationError{
				Field:   "synthesis.rate_limit",
				Message: fmt.Sprintf("must be at least 1, got %d", cfg.Synthesis.RateLimit),
			})
		}
		if cfg.Synthesis.PromptStyle != "" && !validPromptStyles[cfg.Synthesis.PromptStyle] {
			errs = append(errs, ValidationError{
				Field:   "synthesis.prompt_style",
				Message: fmt.Sprintf("must be one of: lecture_summary, study_notes, key_concepts; got %q", cfg.Synthesis.PromptStyle),
			})
		}
	}

	if cfg.Output.Dir == "" {
		errs = append(errs, ValidationError{
			Field:   "output.dir",
			Message: "must not be empty",
		})
	}
	if !validOutputFormats[cfg.Output.Format] {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("must be one of: markdown, json; got %q", cfg.Output.Format),
		})
	}

	if cfg.Watch.DebounceMs < 1 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce_ms",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Watch.DebounceMs),
		})
	}
	if cfg.Watch.DeleteGraceMs < 1 {
		errs = append(errs, ValidationError{
			Field:   "watch.delete_grace_ms",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Watch.DeleteGraceMs),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}
