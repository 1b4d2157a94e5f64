// Package chunkers splits oversized inputs into ordered, bounded-size chunks.
package chunkers

// Boundary records which split strategy produced a chunk.
type Boundary string

const (
	// BoundarySection marks a chunk cut at a header-style section boundary.
	BoundarySection Boundary = "section"

	// BoundaryParagraph marks a chunk cut at a blank-line paragraph boundary.
	BoundaryParagraph Boundary = "paragraph"

	// BoundaryForced marks a chunk cut at an arbitrary word or time offset.
	BoundaryForced Boundary = "forced"
)

// Chunk is one bounded-size unit of an oversized input.
// For text inputs Content holds the text span and Size its length in
// characters; for audio inputs Content holds a segment file path and Size the
// segment duration in seconds.
type Chunk struct {
	// Index is the zero-based position in the sequence. Indices are
	// contiguous and follow source order.
	Index int

	// Content is the chunk text or the audio segment path.
	Content string

	// Size is the chunk size (characters for text, seconds for audio).
	Size int

	// Boundary indicates which split strategy produced this chunk.
	Boundary Boundary
}

// DefaultMaxChunkSize is the character ceiling used when no limit is given.
// Sized to keep one chunk comfortably inside a model context window.
const DefaultMaxChunkSize = 15000
