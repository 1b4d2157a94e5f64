// Package recombine assembles ordered per-chunk outputs into one artifact.
package recombine

import "strings"

// ConcatenateTranscripts joins transcript segments in chunk order into a
// single transcript. Segments are separated by a single space unless the
// preceding text already ends in whitespace, so sentence-final punctuation is
// neither run together with the next segment nor doubled up with separators.
// Blank segments contribute nothing.
func ConcatenateTranscripts(segments []string) string {
	var b strings.Builder

	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		if b.Len() > 0 && !endsInWhitespace(b.String()) {
			b.WriteByte(' ')
		}
		b.WriteString(segment)
	}

	return b.String()
}

func endsInWhitespace(s string) bool {
	switch s[len(s)-1] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
