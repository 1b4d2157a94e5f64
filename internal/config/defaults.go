package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultLogFile  = "~/.config/mediascribe/mediascribe.log"

	DefaultChunkingMaxChunkSize     = 15000
	DefaultChunkingThresholdMinutes = 25.0
	DefaultChunkingSegmentSeconds   = 600.0
	DefaultChunkingWorkers          = 1

	DefaultTranscriptionProvider  = "whisper-api"
	DefaultTranscriptionModel     = "whisper-1"
	DefaultTranscriptionAPIKeyEnv = "OPENAI_API_KEY"

	DefaultSynthesisEnabled     = true
	DefaultSynthesisProvider    = "openai"
	DefaultSynthesisModel       = "gpt-4o-mini"
	DefaultSynthesisPromptStyle = "study_notes"
	DefaultSynthesisRateLimit   = 60
	DefaultSynthesisAPIKeyEnv   = "OPENAI_API_KEY"

	DefaultOutputDir    = "~/.local/share/mediascribe/outputs"
	DefaultOutputFormat = "markdown"

	DefaultLibraryScanDir     = "~/Downloads"
	DefaultLibraryAudioDir    = "~/.local/share/mediascribe/audio"
	DefaultLibraryVideoDir    = "~/.local/share/mediascribe/videos"
	DefaultLibraryDocumentDir = "~/.local/share/mediascribe/documents"

	DefaultWatchDebounceMs    = 500
	DefaultWatchDeleteGraceMs = 5000

	DefaultAnkiDeckName = "Mediascribe Deck"
)

// NewDefaultConfig returns a Config populated with defaults.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Chunking: ChunkingConfig{
			MaxChunkSize:     DefaultChunkingMaxChunkSize,
			ThresholdMinutes: DefaultChunkingThresholdMinutes,
			SegmentSeconds:   DefaultChunkingSegmentSeconds,
			Workers:          DefaultChunkingWorkers,
		},
		Transcription: TranscriptionConfig{
			Provider:  DefaultTranscriptionProvider,
			Model:     DefaultTranscriptionModel,
			APIKeyEnv: DefaultTranscriptionAPIKeyEnv,
		},
		Synthesis: SynthesisConfig{
			Enabled:     DefaultSynthesisEnabled,
			Provider:    DefaultSynthesisProvider,
			Model:       DefaultSynthesisModel,
			PromptStyle: DefaultSynthesisPromptStyle,
			RateLimit:   DefaultSynthesisRateLimit,
			APIKeyEnv:   DefaultSynthesisAPIKeyEnv,
		},
		Output: OutputConfig{
			Dir:    DefaultOutputDir,
			Format: DefaultOutputFormat,
		},
		Library: LibraryConfig{
			ScanDir:     DefaultLibraryScanDir,
			AudioDir:    DefaultLibraryAudioDir,
			VideoDir:    DefaultLibraryVideoDir,
			DocumentDir: DefaultLibraryDocumentDir,
		},
		Watch: WatchConfig{
			DebounceMs:    DefaultWatchDebounceMs,
			DeleteGraceMs: DefaultWatchDeleteGraceMs,
		},
		Anki: AnkiConfig{
			DeckName: DefaultAnkiDeckName,
		},
	}
}

// setViperDefaults registers all default values with a viper instance.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)

	v.SetDefault("chunking.max_chunk_size", DefaultChunkingMaxChunkSize)
	v.SetDefault("chunking.threshold_minutes", DefaultChunkingThresholdMinutes)
	v.SetDefault("chunking.segment_seconds", DefaultChunkingSegmentSeconds)
	v.SetDefault("chunking.workers", DefaultChunkingWorkers)

	v.SetDefault("transcription.provider", DefaultTranscriptionProvider)
	v.SetDefault("transcription.model", DefaultTranscriptionModel)
	v.SetDefault("transcription.local_model_path", "")
	v.SetDefault("transcription.api_key_env", DefaultTranscriptionAPIKeyEnv)

	v.SetDefault("synthesis.enabled", DefaultSynthesisEnabled)
	v.SetDefault("synthesis.provider", DefaultSynthesisProvider)
	v.SetDefault("synthesis.model", DefaultSynthesisModel)
	v.SetDefault("synthesis.prompt_style", DefaultSynthesisPromptStyle)
	v.SetDefault("synthesis.rate_limit", DefaultSynthesisRateLimit)
	v.SetDefault("synthesis.api_key_env", DefaultSynthesisAPIKeyEnv)

	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.format", DefaultOutputFormat)

	v.SetDefault("library.scan_dir", DefaultLibraryScanDir)
	v.SetDefault("library.audio_dir", DefaultLibraryAudioDir)
	v.SetDefault("library.video_dir", DefaultLibraryVideoDir)
	v.SetDefault("library.document_dir", DefaultLibraryDocumentDir)

	v.SetDefault("watch.debounce_ms", DefaultWatchDebounceMs)
	v.SetDefault("watch.delete_grace_ms", DefaultWatchDeleteGraceMs)

	v.SetDefault("anki.deck_name", DefaultAnkiDeckName)
}
