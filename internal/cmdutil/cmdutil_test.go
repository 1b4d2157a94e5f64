package cmdutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/scribelab/mediascribe/internal/config"
	"github.com/scribelab/mediascribe/internal/providers"
)

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"absolute", "/tmp/media", "/tmp/media"},
		{"tilde", "~/media", filepath.Join(home, "media")},
		{"cleans trailing slash", "/tmp/media/", "/tmp/media"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.in)
			if err != nil {
				t.Fatalf("ResolvePath(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewTranscriptionProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantName string
		wantErr  bool
	}{
		{"whisper api", "whisper-api", "whisper-api", false},
		{"whisper local", "whisper-local", "whisper-local", false},
		{"unknown", "deepgram", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			cfg.Transcription.Provider = tt.provider
			cfg.Transcription.LocalModelPath = "/models/ggml-base.bin"

			p, err := NewTranscriptionProvider(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTranscriptionProvider() error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
			if p.Type() != providers.ProviderTypeTranscription {
				t.Errorf("Type() = %q, want transcription", p.Type())
			}
		})
	}
}

func TestNewSynthesisProvider(t *testing.T) {
	t.Run("disabled returns nil", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.Synthesis.Enabled = false

		p, err := NewSynthesisProvider(cfg)
		if err != nil {
			t.Fatalf("NewSynthesisProvider() error: %v", err)
		}
		if p != nil {
			t.Errorf("expected nil provider when disabled, got %v", p.Name())
		}
	})

	t.Run("openai", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		p, err := NewSynthesisProvider(cfg)
		if err != nil {
			t.Fatalf("NewSynthesisProvider() error: %v", err)
		}
		if p.Name() != "openai" {
			t.Errorf("Name() = %q, want openai", p.Name())
		}
		if p.ModelName() != cfg.Synthesis.Model {
			t.Errorf("ModelName() = %q, want %q", p.ModelName(), cfg.Synthesis.Model)
		}
	})

	t.Run("google", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.Synthesis.Provider = "google"
		cfg.Synthesis.Model = "gemini-2.0-flash"

		p, err := NewSynthesisProvider(cfg)
		if err != nil {
			t.Fatalf("NewSynthesisProvider() error: %v", err)
		}
		if p.Name() != "google" {
			t.Errorf("Name() = %q, want google", p.Name())
		}
	})

	t.Run("unknown errors", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.Synthesis.Provider = "anthropic"

		if _, err := NewSynthesisProvider(cfg); err == nil {
			t.Fatal("expected error for unknown provider")
		}
	})
}

func TestNewPipeline(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Output.Dir = t.TempDir()

	p, err := NewPipeline(cfg, slog.Default())
	if err != nil {
		t.Fatalf("NewPipeline() error: %v", err)
	}
	if p == nil {
		t.Fatal("NewPipeline() returned nil pipeline")
	}
}

func TestNewPipelineBadProvider(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Transcription.Provider = "bogus"

	if _, err := NewPipeline(cfg, slog.Default()); err == nil {
		t.Fatal("expected error for bad transcription provider")
	}
}
