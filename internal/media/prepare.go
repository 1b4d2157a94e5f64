package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".flv": true, ".wmv": true,
}

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".flac": true,
	".aac": true, ".ogg": true, ".wma": true,
}

// IsMedia reports whether path has a recognized video or audio extension.
func IsMedia(path string) bool {
	return IsVideo(path) || IsAudio(path)
}

// IsVideo reports whether path has a recognized video extension.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsAudio reports whether path has a recognized audio extension.
func IsAudio(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// PrepareAudio produces a 16 kHz mono WAV file under outputDir suitable for
// transcription. Video inputs have their audio track extracted; non-WAV audio
// is converted; WAV input is copied through unchanged.
func (s *Service) PrepareAudio(ctx context.Context, inputPath, outputDir string) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("failed to stat input file; %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory; %w", err)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	switch {
	case videoExtensions[ext]:
		outPath := filepath.Join(outputDir, stem+"_extracted.wav")
		s.logger.Info("extracting audio from video", "path", inputPath)
		if err := s.transcodeToWAV(ctx, inputPath, outPath, true); err != nil {
			return "", fmt.Errorf("failed to extract audio from video; %w", err)
		}
		return outPath, nil

	case ext == ".wav":
		outPath := filepath.Join(outputDir, filepath.Base(inputPath))
		s.logger.Debug("audio already WAV, copying", "path", inputPath)
		if err := copyFile(inputPath, outPath); err != nil {
			return "", fmt.Errorf("failed to copy WAV file; %w", err)
		}
		return outPath, nil

	case audioExtensions[ext]:
		outPath := filepath.Join(outputDir, stem+"_converted.wav")
		s.logger.Info("converting audio to WAV", "path", inputPath)
		if err := s.transcodeToWAV(ctx, inputPath, outPath, false); err != nil {
			return "", fmt.Errorf("failed to convert audio to WAV; %w", err)
		}
		return outPath, nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, ext)
	}
}

// transcodeToWAV runs ffmpeg producing 16 kHz mono 16-bit PCM, the format
// Whisper models expect.
func (s *Service) transcodeToWAV(ctx context.Context, inPath, outPath string, dropVideo bool) error {
	args := []string{"-i", inPath}
	if dropVideo {
		args = append(args, "-vn")
	}
	args = append(args,
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outPath)

	_, err := s.exec.Execute(ctx, "ffmpeg", args...)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
