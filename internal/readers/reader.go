// Package readers extracts plain text from document files so they can be
// chunked and synthesized.
package readers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates no reader exists for the file's extension.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Reader extracts the text content of one document format.
type Reader interface {
	// Read returns the plain text of the document at path.
	Read(path string) (string, error)

	// Extensions returns the lowercase file extensions this reader handles.
	Extensions() []string
}

// IsDocument reports whether path has a readable document extension.
func IsDocument(path string) bool {
	_, err := ForPath(path)
	return err == nil
}

// ForPath returns the reader for the file's extension.
//
// MOBI files are rejected explicitly: the format is proprietary and poorly
// served by pure-Go extractors, so asking for .mobi produces a clear error
// instead of garbled text.
func ForPath(path string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".pdf":
		return &PDFReader{}, nil
	case ".epub":
		return &EPUBReader{}, nil
	case ".txt", ".md", ".markdown", ".text":
		return &PlainTextReader{}, nil
	case ".mobi":
		return nil, fmt.Errorf("%w: MOBI is not supported, convert to EPUB first", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ReadDocument extracts text from the document at path using the reader
// matching its extension.
func ReadDocument(path string) (string, error) {
	reader, err := ForPath(path)
	if err != nil {
		return "", err
	}
	return reader.Read(path)
}
