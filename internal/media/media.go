// Package media prepares audio for transcription and splits long recordings
// into duration-bounded segment files via external ffmpeg/ffprobe tooling.
package media

import (
	"errors"
	"log/slog"

	"github.com/scribelab/mediascribe/internal/executor"
)

// Default chunking parameters, overridable through configuration.
const (
	// DefaultThresholdMinutes is the duration above which audio is split
	// before transcription.
	DefaultThresholdMinutes = 25.0

	// DefaultSegmentSeconds is the duration of each audio segment.
	DefaultSegmentSeconds = 600.0
)

var (
	// ErrProbeFailed indicates the source duration could not be measured.
	ErrProbeFailed = errors.New("media probe failed")

	// ErrUnsupportedMedia indicates the file is neither a known video nor
	// audio format.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// Service wraps the external transcoding and probing tools. It holds no
// cross-call state; its only side effect is writing prepared audio and
// segment files to caller-supplied directories.
type Service struct {
	exec   executor.Executor
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a media Service using the given command executor.
func NewService(exec executor.Executor, opts ...Option) *Service {
	s := &Service{
		exec:   exec,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
