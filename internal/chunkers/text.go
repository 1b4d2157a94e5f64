package chunkers

import (
	"regexp"
	"strings"
)

// degenerateSectionRatio marks a structural split as unusable when any single
// section still exceeds this fraction of the size limit.
const degenerateSectionRatio = 0.8

var (
	// Matches markdown-style headers (# to ###).
	headingLine = regexp.MustCompile(`^#{1,3}\s+\S`)

	// Matches setext-style title underlines (=== or ---).
	underlineLine = regexp.MustCompile(`^(?:={3,}|-{3,})\s*$`)

	blankLine = regexp.MustCompile(`\n[ \t]*\n`)
)

// SplitText splits text into ordered, size-bounded chunks.
//
// The split is tiered: header-style section boundaries are tried first, then
// blank-line paragraphs when the structural split is degenerate, and finally
// word-boundary splitting for any section that still exceeds maxSize. Source
// order is always preserved and no non-whitespace content is dropped. Every
// returned chunk fits within maxSize except the irreducible case of a single
// word longer than the limit.
//
// A maxSize of zero or less selects DefaultMaxChunkSize. Blank input yields no
// chunks; input already within the limit yields a single chunk equal to it.
func SplitText(text string, maxSize int) []Chunk {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= maxSize {
		return []Chunk{{Index: 0, Content: text, Size: len(text), Boundary: BoundarySection}}
	}

	sections := splitSections(text)
	boundary := BoundarySection
	if isDegenerateSplit(sections, maxSize) {
		sections = blankLine.Split(text, -1)
		boundary = BoundaryParagraph
	}

	var chunks []Chunk
	var buf strings.Builder

	flush := func() {
		content := strings.TrimSpace(buf.String())
		buf.Reset()
		if content == "" {
			return
		}
		chunks = append(chunks, Chunk{
			Index:    len(chunks),
			Content:  content,
			Size:     len(content),
			Boundary: boundary,
		})
	}

	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		// A section that can never fit is word-split in place. The pending
		// buffer flushes first so chunk order matches source order.
		if len(section) > maxSize {
			flush()
			for _, part := range splitWords(section, maxSize) {
				chunks = append(chunks, Chunk{
					Index:    len(chunks),
					Content:  part,
					Size:     len(part),
					Boundary: BoundaryForced,
				})
			}
			continue
		}

		if buf.Len() > 0 && buf.Len()+len(section)+2 > maxSize {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(section)
	}
	flush()

	// Safety pass: anything still oversized is forcibly word-split.
	final := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Size <= maxSize {
			c.Index = len(final)
			final = append(final, c)
			continue
		}
		for _, part := range splitWords(c.Content, maxSize) {
			final = append(final, Chunk{
				Index:    len(final),
				Content:  part,
				Size:     len(part),
				Boundary: BoundaryForced,
			})
		}
	}

	return final
}

// splitSections splits text at header-style boundaries, keeping the header
// line with the section it opens. Both markdown headers (# to ###) and
// title-plus-underline patterns start a new section.
func splitSections(text string) []string {
	lines := strings.Split(text, "\n")

	var sections []string
	var current []string

	for i, line := range lines {
		startsSection := headingLine.MatchString(line) ||
			(strings.TrimSpace(line) != "" &&
				!underlineLine.MatchString(line) &&
				i+1 < len(lines) && underlineLine.MatchString(lines[i+1]))

		if startsSection && len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
	}

	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}

	return sections
}

// isDegenerateSplit reports whether a structural split failed to produce a
// usable partition: a single section, or any section still close to the limit.
func isDegenerateSplit(sections []string, maxSize int) bool {
	if len(sections) <= 1 {
		return true
	}

	limit := int(float64(maxSize) * degenerateSectionRatio)
	for _, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}
		if len(section) > limit {
			return true
		}
	}
	return false
}

// splitWords packs whitespace-separated words into parts of at most maxSize
// characters. Words are never split; a single word longer than maxSize becomes
// its own part.
func splitWords(text string, maxSize int) []string {
	var parts []string
	var buf strings.Builder

	for _, word := range strings.Fields(text) {
		if buf.Len() > 0 && buf.Len()+len(word)+1 > maxSize {
			parts = append(parts, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(word)
	}

	if buf.Len() > 0 {
		parts = append(parts, buf.String())
	}

	return parts
}
