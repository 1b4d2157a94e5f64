package transcription

import (
	"context"
	"fmt"
	"strings"

	"github.com/scribelab/mediascribe/internal/executor"
	"github.com/scribelab/mediascribe/internal/providers"
)

const defaultLocalBinary = "whisper-cli"

// LocalWhisperProvider transcribes audio with a whisper.cpp binary on this
// machine. No network access or API key is required, but a model file must be
// downloaded beforehand.
type LocalWhisperProvider struct {
	binary    string
	modelPath string
	exec      executor.Executor
}

// LocalWhisperOption configures the LocalWhisperProvider.
type LocalWhisperOption func(*LocalWhisperProvider)

// WithLocalBinary sets the whisper.cpp binary name or path.
func WithLocalBinary(binary string) LocalWhisperOption {
	return func(p *LocalWhisperProvider) {
		if binary != "" {
			p.binary = binary
		}
	}
}

// WithLocalExecutor sets the command executor to use.
func WithLocalExecutor(exec executor.Executor) LocalWhisperOption {
	return func(p *LocalWhisperProvider) {
		p.exec = exec
	}
}

// NewLocalWhisperProvider creates a local whisper.cpp provider using the
// given GGML model file.
func NewLocalWhisperProvider(modelPath string, opts ...LocalWhisperOption) *LocalWhisperProvider {
	p := &LocalWhisperProvider{
		binary:    defaultLocalBinary,
		modelPath: modelPath,
		exec:      executor.New(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the provider's unique identifier.
func (p *LocalWhisperProvider) Name() string {
	return "whisper-local"
}

// Type returns the provider type.
func (p *LocalWhisperProvider) Type() providers.ProviderType {
	return providers.ProviderTypeTranscription
}

// Available returns true if a model file is configured.
func (p *LocalWhisperProvider) Available() bool {
	return p.modelPath != ""
}

// RateLimit returns the rate limit configuration. Local transcription is
// bound by CPU, not by a quota, so it is unlimited.
func (p *LocalWhisperProvider) RateLimit() providers.RateLimitConfig {
	return providers.RateLimitConfig{}
}

// Transcribe runs the whisper.cpp binary on the audio file at path and
// returns the text it prints.
func (p *LocalWhisperProvider) Transcribe(ctx context.Context, path string) (string, error) {
	if !p.Available() {
		return "", fmt.Errorf("whisper-local provider not available; no model path configured")
	}

	out, err := p.exec.Execute(ctx, p.binary,
		"-m", p.modelPath,
		"-f", path,
		"--no-timestamps")
	if err != nil {
		if executor.LookupError(err) {
			return "", fmt.Errorf("whisper binary %q not found in PATH; %w", p.binary, err)
		}
		return "", fmt.Errorf("local transcription failed; %w", err)
	}

	return strings.TrimSpace(out), nil
}
