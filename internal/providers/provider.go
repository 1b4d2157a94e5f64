// Package providers defines the model collaborator interfaces used for
// transcription and synthesis, plus shared rate limiting.
package providers

import (
	"context"
	"time"
)

// ProviderType represents the type of provider.
type ProviderType string

const (
	ProviderTypeTranscription ProviderType = "transcription"
	ProviderTypeSynthesis     ProviderType = "synthesis"
)

// Provider is the base interface for all providers.
type Provider interface {
	// Name returns the provider's unique identifier.
	Name() string

	// Type returns the provider type.
	Type() ProviderType

	// Available returns true if the provider is configured and ready.
	Available() bool

	// RateLimit returns the rate limit configuration for this provider.
	RateLimit() RateLimitConfig
}

// RateLimitConfig defines rate limiting parameters for a provider.
type RateLimitConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

// TranscriptionProvider converts an audio file into text.
type TranscriptionProvider interface {
	Provider

	// Transcribe returns the transcript of the audio file at path.
	Transcribe(ctx context.Context, path string) (string, error)
}

// SynthesisRequest carries one piece of source text through synthesis.
type SynthesisRequest struct {
	// Prompt is the instruction governing the synthesis.
	Prompt string

	// Content is the source text to synthesize from.
	Content string

	// ChunkIndex and TotalChunks identify the piece when the source was
	// split; TotalChunks is 1 for unsplit input.
	ChunkIndex  int
	TotalChunks int
}

// SynthesisResult contains the output of one synthesis call.
type SynthesisResult struct {
	// Text is the synthesized markdown output.
	Text string `json:"text"`

	// ProviderName is the name of the provider that generated this result.
	ProviderName string `json:"provider_name"`

	// ModelName is the specific model used.
	ModelName string `json:"model_name"`

	// TokensUsed is the number of tokens consumed.
	TokensUsed int `json:"tokens_used"`

	// GeneratedAt is when the synthesis was performed.
	GeneratedAt time.Time `json:"generated_at"`
}

// SynthesisProvider turns source text into structured study material.
type SynthesisProvider interface {
	Provider

	// Synthesize performs one synthesis call.
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)

	// ModelName returns the model identifier used by this provider.
	ModelName() string
}
