package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Segment is one duration-bounded piece of a source recording. Segments tile
// [0, total duration) with no gaps or overlaps.
type Segment struct {
	// Index is the zero-based position in chronological order.
	Index int

	// Path is the segment file location. Filenames carry a zero-padded
	// index so lexicographic order equals chronological order.
	Path string

	// Start is the segment's offset into the source, in seconds.
	Start float64

	// Duration is the segment length in seconds. The final segment is
	// truncated at end of stream.
	Duration float64
}

// SplitAudio splits the recording at path into ceil(duration/segmentSeconds)
// segment files under outputDir and returns them in chronological order.
//
// Segment creation is all-or-nothing: a probe failure or a transcoder failure
// on any segment fails the whole split, because every boundary depends on the
// single duration measurement. Callers must supply a run-scoped outputDir;
// names are collision-free within one run but the directory is not protected
// against concurrent runs.
func (s *Service) SplitAudio(ctx context.Context, path, outputDir string, segmentSeconds float64) ([]Segment, error) {
	if segmentSeconds <= 0 {
		segmentSeconds = DefaultSegmentSeconds
	}

	duration, err := s.Duration(ctx, path)
	if err != nil {
		return nil, err
	}

	count := int(math.Ceil(duration / segmentSeconds))
	if count < 1 {
		count = 1
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create segment directory; %w", err)
	}

	s.logger.Info("splitting audio",
		"path", path,
		"duration_seconds", duration,
		"segments", count)

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	segments := make([]Segment, 0, count)

	for i := 0; i < count; i++ {
		start := float64(i) * segmentSeconds
		length := segmentSeconds
		if remaining := duration - start; remaining < length {
			length = remaining
		}

		outPath := filepath.Join(outputDir, fmt.Sprintf("%s_%03d.wav", stem, i))

		// -c copy avoids re-encoding; the container cut is close enough
		// for transcription segments.
		_, err := s.exec.Execute(ctx, "ffmpeg",
			"-ss", formatSeconds(start),
			"-t", formatSeconds(segmentSeconds),
			"-i", path,
			"-c", "copy",
			"-y",
			outPath)
		if err != nil {
			return nil, fmt.Errorf("failed to extract segment %d; %w", i, err)
		}

		segments = append(segments, Segment{
			Index:    i,
			Path:     outPath,
			Start:    start,
			Duration: length,
		})
	}

	return segments, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
