// Package scanner finds media and document files in a drop directory and
// sorts them into the library's intake directories.
package scanner

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/scribelab/mediascribe/internal/media"
	"github.com/scribelab/mediascribe/internal/readers"
)

// FileType classifies a scanned file.
type FileType string

const (
	FileTypeAudio    FileType = "audio"
	FileTypeVideo    FileType = "video"
	FileTypeDocument FileType = "document"
)

// Status describes the outcome for one scanned file.
type Status string

const (
	StatusCopied  Status = "copied"
	StatusSkipped Status = "skipped"
	StatusDryRun  Status = "dry_run"
	StatusError   Status = "error"
)

// ScanResult is the outcome for one scanned file.
type ScanResult struct {
	Path        string   `json:"path"`
	FileType    FileType `json:"file_type"`
	Destination string   `json:"destination,omitempty"`
	Status      Status   `json:"status"`
	Reason      string   `json:"reason,omitempty"`
	Size        int64    `json:"size,omitempty"`
}

// Scanner copies recognized files from a scan directory into per-type intake
// directories. Files already present at the destination are skipped, as are
// zero-byte files and in-progress download artifacts.
type Scanner struct {
	scanDir     string
	audioDir    string
	videoDir    string
	documentDir string
	dryRun      bool
	logger      *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger for the scanner.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// WithDryRun makes the scanner report what it would copy without copying.
func WithDryRun(dryRun bool) Option {
	return func(s *Scanner) {
		s.dryRun = dryRun
	}
}

// New creates a Scanner that sorts files from scanDir into the given intake
// directories.
func New(scanDir, audioDir, videoDir, documentDir string, opts ...Option) *Scanner {
	s := &Scanner{
		scanDir:     expandHome(scanDir),
		audioDir:    expandHome(audioDir),
		videoDir:    expandHome(videoDir),
		documentDir: expandHome(documentDir),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scan walks the top level of the scan directory once and returns a result
// per recognized file, in directory order.
func (s *Scanner) Scan() ([]ScanResult, error) {
	info, err := os.Stat(s.scanDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scan directory; %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path is not a directory: %s", s.scanDir)
	}

	entries, err := os.ReadDir(s.scanDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan directory; %w", err)
	}

	s.logger.Info("scanning directory", "path", s.scanDir, "entries", len(entries))

	var results []ScanResult
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(s.scanDir, entry.Name())
		fileType, ok := Classify(path)
		if !ok {
			continue
		}

		result := s.intake(path, fileType)
		results = append(results, result)

		switch result.Status {
		case StatusCopied:
			s.logger.Info("copied file",
				"type", fileType, "path", path, "dest", result.Destination, "bytes", result.Size)
		case StatusSkipped:
			s.logger.Info("skipped file", "type", fileType, "path", path, "reason", result.Reason)
		case StatusDryRun:
			s.logger.Info("would copy file", "type", fileType, "path", path, "dest", result.Destination)
		case StatusError:
			s.logger.Error("failed to intake file", "type", fileType, "path", path, "error", result.Reason)
		}
	}

	return results, nil
}

// Classify reports the intake category for path, if any. Hidden files and
// partial-download artifacts are never classified.
func Classify(path string) (FileType, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, ".part") ||
		strings.HasSuffix(name, ".tmp") ||
		strings.HasSuffix(name, ".crdownload") {
		return "", false
	}

	switch {
	case media.IsVideo(path):
		return FileTypeVideo, true
	case media.IsAudio(path):
		return FileTypeAudio, true
	case readers.IsDocument(path):
		return FileTypeDocument, true
	}
	return "", false
}

// intake copies one file into its destination directory.
func (s *Scanner) intake(path string, fileType FileType) ScanResult {
	result := ScanResult{Path: path, FileType: fileType}

	info, err := os.Stat(path)
	if err != nil {
		result.Status = StatusError
		result.Reason = err.Error()
		return result
	}
	result.Size = info.Size()

	if info.Size() == 0 {
		result.Status = StatusSkipped
		result.Reason = "file is zero bytes, likely an incomplete download"
		return result
	}

	destDir := s.destinationFor(fileType)
	dest := filepath.Join(destDir, filepath.Base(path))
	result.Destination = dest

	if _, err := os.Stat(dest); err == nil {
		result.Status = StatusSkipped
		result.Reason = "file already exists in destination"
		return result
	}

	if s.dryRun {
		result.Status = StatusDryRun
		return result
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		result.Status = StatusError
		result.Reason = err.Error()
		return result
	}
	if err := copyFile(path, dest); err != nil {
		result.Status = StatusError
		result.Reason = err.Error()
		return result
	}

	result.Status = StatusCopied
	return result
}

func (s *Scanner) destinationFor(fileType FileType) string {
	switch fileType {
	case FileTypeAudio:
		return s.audioDir
	case FileTypeVideo:
		return s.videoDir
	default:
		return s.documentDir
	}
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

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
