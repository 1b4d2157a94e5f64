// Package transcription implements TranscriptionProvider backends for the
// hosted Whisper API and a local whisper.cpp binary.
package transcription

import (
	"context"
	"fmt"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/scribelab/mediascribe/internal/providers"
)

// WhisperAPIProvider transcribes audio through OpenAI's hosted Whisper API.
type WhisperAPIProvider struct {
	apiKey      string
	model       string
	baseURL     string
	httpClient  *http.Client
	client      *openai.Client
	rateLimiter *providers.RateLimiter
}

// WhisperAPIOption configures the WhisperAPIProvider.
type WhisperAPIOption func(*WhisperAPIProvider)

// WithWhisperModel sets the transcription model to use.
func WithWhisperModel(model string) WhisperAPIOption {
	return func(p *WhisperAPIProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithWhisperAPIKey overrides the key read from OPENAI_API_KEY.
func WithWhisperAPIKey(key string) WhisperAPIOption {
	return func(p *WhisperAPIProvider) {
		p.apiKey = key
	}
}

// WithWhisperBaseURL overrides the API endpoint.
func WithWhisperBaseURL(url string) WhisperAPIOption {
	return func(p *WhisperAPIProvider) {
		p.baseURL = url
	}
}

// WithWhisperHTTPClient sets the HTTP client to use.
func WithWhisperHTTPClient(client *http.Client) WhisperAPIOption {
	return func(p *WhisperAPIProvider) {
		p.httpClient = client
	}
}

// NewWhisperAPIProvider creates a new hosted Whisper provider.
func NewWhisperAPIProvider(opts ...WhisperAPIOption) *WhisperAPIProvider {
	p := &WhisperAPIProvider{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  openai.Whisper1,
	}

	for _, opt := range opts {
		opt(p)
	}

	config := openai.DefaultConfig(p.apiKey)
	if p.baseURL != "" {
		config.BaseURL = p.baseURL
	}
	if p.httpClient != nil {
		config.HTTPClient = p.httpClient
	}
	p.client = openai.NewClientWithConfig(config)
	p.rateLimiter = providers.NewRateLimiter(p.RateLimit())

	return p
}

// Name returns the provider's unique identifier.
func (p *WhisperAPIProvider) Name() string {
	return "whisper-api"
}

// Type returns the provider type.
func (p *WhisperAPIProvider) Type() providers.ProviderType {
	return providers.ProviderTypeTranscription
}

// Available returns true if the provider is configured and ready.
func (p *WhisperAPIProvider) Available() bool {
	return p.apiKey != ""
}

// RateLimit returns the rate limit configuration.
func (p *WhisperAPIProvider) RateLimit() providers.RateLimitConfig {
	return providers.RateLimitConfig{
		RequestsPerMinute: 50,
		BurstSize:         5,
	}
}

// Transcribe uploads the audio file at path and returns its transcript.
func (p *WhisperAPIProvider) Transcribe(ctx context.Context, path string) (string, error) {
	if !p.Available() {
		return "", fmt.Errorf("whisper-api provider not available; OPENAI_API_KEY not set")
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed; %w", err)
	}

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: path,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed; %w", err)
	}

	return resp.Text, nil
}
