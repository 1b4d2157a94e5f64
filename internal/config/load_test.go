package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MEDIASCRIBE_CONFIG_DIR", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Chunking.MaxChunkSize != DefaultChunkingMaxChunkSize {
		t.Errorf("MaxChunkSize = %d, want %d", cfg.Chunking.MaxChunkSize, DefaultChunkingMaxChunkSize)
	}
	if cfg.Transcription.Provider != DefaultTranscriptionProvider {
		t.Errorf("Provider = %q, want %q", cfg.Transcription.Provider, DefaultTranscriptionProvider)
	}
	if cfg.Output.Format != DefaultOutputFormat {
		t.Errorf("Format = %q, want %q", cfg.Output.Format, DefaultOutputFormat)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
chunking:
  max_chunk_size: 8000
  workers: 4
transcription:
  provider: whisper-local
  local_model_path: /models/ggml-base.bin
synthesis:
  enabled: false
`)
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.Chunking.MaxChunkSize != 8000 {
		t.Errorf("MaxChunkSize = %d, want 8000", cfg.Chunking.MaxChunkSize)
	}
	if cfg.Chunking.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Chunking.Workers)
	}
	if cfg.Transcription.Provider != "whisper-local" {
		t.Errorf("Provider = %q, want whisper-local", cfg.Transcription.Provider)
	}
	if cfg.Synthesis.Enabled {
		t.Error("Synthesis.Enabled = true, want false")
	}
	// Unset keys take defaults.
	if cfg.Chunking.SegmentSeconds != DefaultChunkingSegmentSeconds {
		t.Errorf("SegmentSeconds = %g, want %g", cfg.Chunking.SegmentSeconds, DefaultChunkingSegmentSeconds)
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadFromPath() expected error for missing file, got nil")
	}
}

func TestLoadFromPathInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("transcription:\n  provider: bogus\n")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("LoadFromPath() expected validation error, got nil")
	}
	if !IsValidationError(err) {
		t.Errorf("IsValidationError() = false for %v", err)
	}
	if !strings.Contains(err.Error(), "transcription.provider") {
		t.Errorf("error = %q, want mention of transcription.provider", err.Error())
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("TEST_SYNTH_KEY", "from-env")

	literal := "literal-key"
	tests := []struct {
		name string
		cfg  SynthesisConfig
		want string
	}{
		{"literal key wins", SynthesisConfig{APIKey: &literal, APIKeyEnv: "TEST_SYNTH_KEY"}, "literal-key"},
		{"env fallback", SynthesisConfig{APIKeyEnv: "TEST_SYNTH_KEY"}, "from-env"},
		{"unset env", SynthesisConfig{APIKeyEnv: "TEST_SYNTH_KEY_MISSING"}, ""},
		{"nothing configured", SynthesisConfig{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveAPIKey(); got != tt.want {
				t.Errorf("ResolveAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
