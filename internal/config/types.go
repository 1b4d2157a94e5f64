package config

import "os"

// Config is the root configuration structure for the application.
type Config struct {
	LogLevel      string              `yaml:"log_level" mapstructure:"log_level"`
	LogFile       string              `yaml:"log_file" mapstructure:"log_file"`
	Chunking      ChunkingConfig      `yaml:"chunking" mapstructure:"chunking"`
	Transcription TranscriptionConfig `yaml:"transcription" mapstructure:"transcription"`
	Synthesis     SynthesisConfig     `yaml:"synthesis" mapstructure:"synthesis"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
	Library       LibraryConfig       `yaml:"library" mapstructure:"library"`
	Watch         WatchConfig         `yaml:"watch" mapstructure:"watch"`
	Anki          AnkiConfig          `yaml:"anki" mapstructure:"anki"`
}

// ChunkingConfig controls how oversized inputs are split.
type ChunkingConfig struct {
	// MaxChunkSize is the character budget per document chunk.
	MaxChunkSize int `yaml:"max_chunk_size" mapstructure:"max_chunk_size"`

	// ThresholdMinutes is the audio duration above which recordings are
	// segmented before transcription.
	ThresholdMinutes float64 `yaml:"threshold_minutes" mapstructure:"threshold_minutes"`

	// SegmentSeconds is the duration of each audio segment.
	SegmentSeconds float64 `yaml:"segment_seconds" mapstructure:"segment_seconds"`

	// Workers is the number of chunks processed concurrently; 1 keeps
	// processing sequential.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// TranscriptionConfig selects and configures the transcription provider.
type TranscriptionConfig struct {
	Provider       string  `yaml:"provider" mapstructure:"provider"`
	Model          string  `yaml:"model" mapstructure:"model"`
	LocalModelPath string  `yaml:"local_model_path" mapstructure:"local_model_path"`
	APIKey         *string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	APIKeyEnv      string  `yaml:"api_key_env" mapstructure:"api_key_env"`
}

// ResolveAPIKey returns the API key from config or falls back to the
// environment variable.
func (c *TranscriptionConfig) ResolveAPIKey() string {
	if c.APIKey != nil && *c.APIKey != "" {
		return *c.APIKey
	}
	return os.Getenv(c.APIKeyEnv)
}

// SynthesisConfig selects and configures the synthesis provider.
type SynthesisConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Model       string  `yaml:"model" mapstructure:"model"`
	PromptStyle string  `yaml:"prompt_style" mapstructure:"prompt_style"`
	RateLimit   int     `yaml:"rate_limit" mapstructure:"rate_limit"`
	APIKey      *string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	APIKeyEnv   string  `yaml:"api_key_env" mapstructure:"api_key_env"`
}

// ResolveAPIKey returns the API key from config or falls back to the
// environment variable.
func (c *SynthesisConfig) ResolveAPIKey() string {
	if c.APIKey != nil && *c.APIKey != "" {
		return *c.APIKey
	}
	return os.Getenv(c.APIKeyEnv)
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LibraryConfig holds the intake directory layout used by scan and watch.
type LibraryConfig struct {
	ScanDir     string `yaml:"scan_dir" mapstructure:"scan_dir"`
	AudioDir    string `yaml:"audio_dir" mapstructure:"audio_dir"`
	VideoDir    string `yaml:"video_dir" mapstructure:"video_dir"`
	DocumentDir string `yaml:"document_dir" mapstructure:"document_dir"`
}

// WatchConfig tunes the filesystem watcher.
type WatchConfig struct {
	DebounceMs    int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
	DeleteGraceMs int `yaml:"delete_grace_ms" mapstructure:"delete_grace_ms"`
}

// AnkiConfig controls flashcard deck generation.
type AnkiConfig struct {
	DeckName string `yaml:"deck_name" mapstructure:"deck_name"`
}
