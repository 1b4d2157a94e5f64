package recombine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/scribelab/mediascribe/internal/orchestrate"
)

// FailureMarker is the fixed document returned when no chunk succeeded.
const FailureMarker = "# Synthesis Failed\n\nNo chunks were processed successfully."

// maxConcepts caps the deduplicated concept list in the combined document.
const maxConcepts = 20

var (
	conceptHeader = regexp.MustCompile(`(?m)^#{1,3}\s+(.+)$`)
	takeawaysSect = regexp.MustCompile(`(?is)key\s+takeaways[:\s]*(.*?)(?:\n\n|\z)`)
	markupPrefix  = regexp.MustCompile(`^[#*\-\s>]+`)
)

// CombineSyntheses assembles per-chunk synthesis outputs into one markdown
// document: a table of contents, a deduplicated concept list, the full
// per-chunk content for traceability, key takeaways labeled by source section,
// and a meta footer with processing counts.
//
// Only successful results contribute content. When every chunk failed the
// fixed FailureMarker document is returned instead; this function never
// errors. The assembly is deterministic and performs no additional model pass
// over the combined text.
func CombineSyntheses(results []orchestrate.ChunkResult) string {
	var succeeded []orchestrate.ChunkResult
	for _, r := range results {
		if r.Succeeded() {
			succeeded = append(succeeded, r)
		}
	}

	if len(succeeded) == 0 {
		return FailureMarker
	}

	var (
		concepts  []string
		takeaways []sectionTakeaways
		toc       []string
	)

	for i, r := range succeeded {
		text := strings.TrimSpace(r.Output)
		if text == "" {
			continue
		}

		toc = append(toc, fmt.Sprintf("%d. %s", i+1, firstLine(text)))

		for _, m := range conceptHeader.FindAllStringSubmatch(text, -1) {
			concepts = append(concepts, strings.TrimSpace(m[1]))
		}

		if m := takeawaysSect.FindStringSubmatch(text); m != nil {
			if body := strings.TrimSpace(m[1]); body != "" {
				takeaways = append(takeaways, sectionTakeaways{section: i + 1, body: body})
			}
		}
	}

	var b strings.Builder

	b.WriteString("# Study Notes\n\n")
	fmt.Fprintf(&b, "*Generated from %d chunks, %d processed successfully*\n\n", len(results), len(succeeded))

	b.WriteString("## Table of Contents\n\n")
	for _, entry := range toc {
		fmt.Fprintf(&b, "- %s\n", entry)
	}

	b.WriteString("\n## Core Concepts Covered\n\n")
	for _, concept := range dedupe(concepts, maxConcepts) {
		fmt.Fprintf(&b, "- %s\n", concept)
	}

	b.WriteString("\n## Comprehensive Summary\n")
	for i, r := range succeeded {
		fmt.Fprintf(&b, "\n### Section %d\n\n%s\n", i+1, strings.TrimSpace(r.Output))
	}

	if len(takeaways) > 0 {
		b.WriteString("\n## Key Takeaways Across All Sections\n")
		for _, tk := range takeaways {
			fmt.Fprintf(&b, "\n**From Section %d**:\n%s\n", tk.section, tk.body)
		}
	}

	b.WriteString("\n## Meta Information\n\n")
	fmt.Fprintf(&b, "- **Chunks Processed**: %d\n", len(results))
	fmt.Fprintf(&b, "- **Successful**: %d\n", len(succeeded))
	fmt.Fprintf(&b, "- **Failed**: %d\n", len(results)-len(succeeded))

	return b.String()
}

type sectionTakeaways struct {
	section int
	body    string
}

// firstLine returns the first non-empty line of text with leading markdown
// markup stripped, for use as a table-of-contents entry.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		cleaned := strings.TrimSpace(markupPrefix.ReplaceAllString(line, ""))
		if cleaned != "" {
			return cleaned
		}
	}
	return "(untitled section)"
}

// dedupe removes duplicates preserving first-seen order, keeping at most n.
func dedupe(items []string, n int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if len(out) == n {
			break
		}
	}
	return out
}
