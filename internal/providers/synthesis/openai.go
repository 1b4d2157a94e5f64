// Package synthesis implements SynthesisProvider backends and the prompt
// styles they run.
package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/scribelab/mediascribe/internal/providers"
)

const (
	openaiDefaultBaseURL = "https://api.openai.com/v1"
	openaiDefaultModel   = "gpt-4o-mini"
)

// OpenAIProvider implements SynthesisProvider using OpenAI's chat API.
type OpenAIProvider struct {
	apiKey            string
	model             string
	baseURL           string
	httpClient        *http.Client
	requestsPerMinute int
	rateLimiter       *providers.RateLimiter
}

// OpenAIOption configures the OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithOpenAIModel sets the model to use.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithOpenAIAPIKey overrides the key read from OPENAI_API_KEY.
func WithOpenAIAPIKey(key string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.apiKey = key
	}
}

// WithOpenAIBaseURL overrides the API endpoint.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.baseURL = url
	}
}

// WithOpenAIHTTPClient sets the HTTP client to use.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.httpClient = client
	}
}

// WithOpenAIRateLimit overrides the default requests-per-minute limit.
func WithOpenAIRateLimit(requestsPerMinute int) OpenAIOption {
	return func(p *OpenAIProvider) {
		if requestsPerMinute > 0 {
			p.requestsPerMinute = requestsPerMinute
		}
	}
}

// NewOpenAIProvider creates a new OpenAI synthesis provider.
func NewOpenAIProvider(opts ...OpenAIOption) *OpenAIProvider {
	p := &OpenAIProvider{
		apiKey:            os.Getenv("OPENAI_API_KEY"),
		model:             openaiDefaultModel,
		baseURL:           openaiDefaultBaseURL,
		httpClient:        &http.Client{Timeout: 120 * time.Second},
		requestsPerMinute: 60,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.rateLimiter = providers.NewRateLimiter(p.RateLimit())

	return p
}

// Name returns the provider's unique identifier.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Type returns the provider type.
func (p *OpenAIProvider) Type() providers.ProviderType {
	return providers.ProviderTypeSynthesis
}

// Available returns true if the provider is configured and ready.
func (p *OpenAIProvider) Available() bool {
	return p.apiKey != ""
}

// RateLimit returns the rate limit configuration.
func (p *OpenAIProvider) RateLimit() providers.RateLimitConfig {
	burst := p.requestsPerMinute / 6
	if burst < 1 {
		burst = 1
	}
	return providers.RateLimitConfig{
		RequestsPerMinute: p.requestsPerMinute,
		BurstSize:         burst,
	}
}

// ModelName returns the model identifier used by this provider.
func (p *OpenAIProvider) ModelName() string {
	return p.model
}

// Synthesize performs one synthesis call against the chat completions API.
func (p *OpenAIProvider) Synthesize(ctx context.Context, req providers.SynthesisRequest) (*providers.SynthesisResult, error) {
	if !p.Available() {
		return nil, fmt.Errorf("openai provider not available; OPENAI_API_KEY not set")
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed; %w", err)
	}

	requestBody := map[string]any{
		"model": p.model,
		"messages": []map[string]any{
			{"role": "system", "content": req.Prompt},
			{"role": "user", "content": buildUserContent(req)},
		},
		"max_completion_tokens": 4096,
		"temperature":           0.3,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request; %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request; %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("API request failed; %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response; %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var apiResp openaiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response; %w", err)
	}

	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	return &providers.SynthesisResult{
		Text:         apiResp.Choices[0].Message.Content,
		ProviderName: p.Name(),
		ModelName:    p.model,
		TokensUsed:   apiResp.Usage.TotalTokens,
		GeneratedAt:  time.Now(),
	}, nil
}

// openaiResponse represents the OpenAI API response structure.
type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// buildUserContent frames the source text, noting its position when the
// source was split into multiple pieces.
func buildUserContent(req providers.SynthesisRequest) string {
	if req.TotalChunks > 1 {
		return fmt.Sprintf("Section %d of %d:\n\n%s", req.ChunkIndex+1, req.TotalChunks, req.Content)
	}
	return req.Content
}
