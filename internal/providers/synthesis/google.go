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
	googleDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	googleDefaultModel   = "gemini-2.0-flash"
)

// GoogleProvider implements SynthesisProvider using Google's Gemini API.
type GoogleProvider struct {
	apiKey          string
	model           string
	baseURL         string
	httpClient      *http.Client
	rateLimiter     *providers.RateLimiter
	rateLimitConfig *providers.RateLimitConfig
}

// GoogleOption configures the GoogleProvider.
type GoogleOption func(*GoogleProvider)

// WithGoogleModel sets the model to use.
func WithGoogleModel(model string) GoogleOption {
	return func(p *GoogleProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithGoogleAPIKey overrides the key read from GOOGLE_API_KEY.
func WithGoogleAPIKey(key string) GoogleOption {
	return func(p *GoogleProvider) {
		p.apiKey = key
	}
}

// WithGoogleBaseURL overrides the API endpoint.
func WithGoogleBaseURL(url string) GoogleOption {
	return func(p *GoogleProvider) {
		p.baseURL = url
	}
}

// WithGoogleHTTPClient sets the HTTP client to use.
func WithGoogleHTTPClient(client *http.Client) GoogleOption {
	return func(p *GoogleProvider) {
		p.httpClient = client
	}
}

// WithGoogleRateLimit sets a custom rate limit configuration.
func WithGoogleRateLimit(requestsPerMinute int) GoogleOption {
	return func(p *GoogleProvider) {
		p.rateLimitConfig = &providers.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			BurstSize:         max(1, requestsPerMinute/5),
		}
	}
}

// NewGoogleProvider creates a new Google synthesis provider.
func NewGoogleProvider(opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		apiKey:     os.Getenv("GOOGLE_API_KEY"),
		model:      googleDefaultModel,
		baseURL:    googleDefaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}

	for _, opt := range opts {
		opt(p)
	}

	p.rateLimiter = providers.NewRateLimiter(p.RateLimit())

	return p
}

// Name returns the provider's unique identifier.
func (p *GoogleProvider) Name() string {
	return "google"
}

// Type returns the provider type.
func (p *GoogleProvider) Type() providers.ProviderType {
	return providers.ProviderTypeSynthesis
}

// Available returns true if the provider is configured and ready.
func (p *GoogleProvider) Available() bool {
	return p.apiKey != ""
}

// RateLimit returns the rate limit configuration.
func (p *GoogleProvider) RateLimit() providers.RateLimitConfig {
	if p.rateLimitConfig != nil {
		return *p.rateLimitConfig
	}
	return providers.RateLimitConfig{
		RequestsPerMinute: 60,
		BurstSize:         10,
	}
}

// ModelName returns the model identifier used by this provider.
func (p *GoogleProvider) ModelName() string {
	return p.model
}

// Synthesize performs one synthesis call against the generateContent API.
func (p *GoogleProvider) Synthesize(ctx context.Context, req providers.SynthesisRequest) (*providers.SynthesisResult, error) {
	if !p.Available() {
		return nil, fmt.Errorf("google provider not available; GOOGLE_API_KEY not set")
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed; %w", err)
	}

	requestBody := map[string]any{
		"system_instruction": map[string]any{
			"parts": []map[string]string{{"text": req.Prompt}},
		},
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]string{{"text": buildUserContent(req)}},
			},
		},
		"generationConfig": map[string]any{
			"maxOutputTokens": 4096,
			"temperature":     0.3,
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request; %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request; %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

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

	var apiResp googleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response; %w", err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}

	return &providers.SynthesisResult{
		Text:         apiResp.Candidates[0].Content.Parts[0].Text,
		ProviderName: p.Name(),
		ModelName:    p.model,
		TokensUsed:   apiResp.UsageMetadata.TotalTokenCount,
		GeneratedAt:  time.Now(),
	}, nil
}

// googleResponse represents the Gemini API response structure.
type googleResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}
