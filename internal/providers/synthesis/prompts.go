package synthesis

import (
	"fmt"
	"sort"
)

// Prompt style names accepted by the document and process commands.
const (
	StyleLectureSummary = "lecture_summary"
	StyleStudyNotes     = "study_notes"
	StyleKeyConcepts    = "key_concepts"
)

// DefaultStyle is used when no prompt style is configured.
const DefaultStyle = StyleStudyNotes

var promptStyles = map[string]string{
	StyleLectureSummary: `You are an expert academic note-taker. Summarize the following lecture
transcript as structured markdown study notes.

Requirements:
- Start with a one-line summary of the material.
- Use "##" headers for each major topic covered.
- Under each topic, capture the key points as concise bullet lists.
- Preserve definitions, formulas, and concrete examples verbatim.
- End with a "Key Takeaways" section listing the 3-5 most important points.

Do not invent material that is not in the transcript.`,

	StyleStudyNotes: `You are an expert study-guide author. Convert the following source
material into markdown study notes.

Requirements:
- Start with a one-line summary of the material.
- Use "##" headers to name each core concept.
- Explain each concept in 2-4 sentences, then list supporting details.
- Include worked examples from the source where present.
- End with a "Key Takeaways" section listing the most important points.

Stay faithful to the source; do not add outside knowledge.`,

	StyleKeyConcepts: `You are an expert at distilling technical material. Extract the key
concepts from the following source material as markdown.

Requirements:
- One "##" header per concept, most important first.
- Under each header, a one-paragraph explanation in plain language.
- Note relationships between concepts where the source makes them explicit.
- End with a "Key Takeaways" section of one line per concept.

Limit yourself to concepts actually present in the source.`,
}

// Prompt returns the instruction text for a named style.
func Prompt(style string) (string, error) {
	if style == "" {
		style = DefaultStyle
	}

	text, ok := promptStyles[style]
	if !ok {
		return "", fmt.Errorf("unknown prompt style %q; valid styles are %v", style, Styles())
	}
	return text, nil
}

// Styles returns the available prompt style names in sorted order.
func Styles() []string {
	names := make([]string, 0, len(promptStyles))
	for name := range promptStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
