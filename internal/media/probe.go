package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Duration returns the duration of a media file in seconds, measured with
// ffprobe. Failures wrap ErrProbeFailed.
func (s *Service) Duration(ctx context.Context, path string) (float64, error) {
	out, err := s.exec.Execute(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		return 0, fmt.Errorf("%w; %w", ErrProbeFailed, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("%w; invalid duration value %q", ErrProbeFailed, strings.TrimSpace(out))
	}
	if duration < 0 {
		return 0, fmt.Errorf("%w; negative duration %f", ErrProbeFailed, duration)
	}

	return duration, nil
}

// ShouldChunk reports whether audio at path exceeds the minute threshold and
// needs splitting before transcription. A thresholdMinutes of zero or less
// selects DefaultThresholdMinutes.
//
// A probe failure propagates as an error and blocks the operation; it is
// never treated as "small enough", since that would silently skip chunking on
// exactly the long files that need it.
func (s *Service) ShouldChunk(ctx context.Context, path string, thresholdMinutes float64) (bool, error) {
	if thresholdMinutes <= 0 {
		thresholdMinutes = DefaultThresholdMinutes
	}

	duration, err := s.Duration(ctx, path)
	if err != nil {
		return false, fmt.Errorf("failed to measure audio duration; %w", err)
	}

	return duration/60 > thresholdMinutes, nil
}
