package chunkers

import (
	"strings"
	"testing"
)

func TestSplitText_SmallInput(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"blank", "", 0},
		{"whitespace only", "  \n\t\n  ", 0},
		{"short text", "just a short note", 1},
		{"exactly at limit", strings.Repeat("a", 100), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, 100)
			if len(chunks) != tt.want {
				t.Fatalf("SplitText returned %d chunks, want %d", len(chunks), tt.want)
			}
			if tt.want == 1 && chunks[0].Content != tt.text {
				t.Errorf("single chunk content = %q, want %q", chunks[0].Content, tt.text)
			}
		})
	}
}

func TestSplitText_SectionBoundaries(t *testing.T) {
	// Three roughly equal sections; each fits in the limit but the whole
	// document does not.
	section := strings.Repeat("lorem ipsum dolor sit amet ", 22) // ~594 chars
	text := "# One\n" + section + "\n## Two\n" + section + "\n### Three\n" + section

	chunks := SplitText(text, 1000)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, prefix := range []string{"# One", "## Two", "### Three"} {
		if !strings.HasPrefix(chunks[i].Content, prefix) {
			t.Errorf("chunk %d does not start with header %q: %q...", i, prefix, chunks[i].Content[:20])
		}
		if chunks[i].Boundary != BoundarySection {
			t.Errorf("chunk %d boundary = %q, want %q", i, chunks[i].Boundary, BoundarySection)
		}
	}
}

func TestSplitText_UnderlineHeaders(t *testing.T) {
	body := strings.Repeat("word ", 50)
	text := "First Title\n====\n" + body + "\nSecond Title\n----\n" + body

	chunks := SplitText(text, 400)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[0].Content, "First Title") {
		t.Errorf("chunk 0 starts with %q", chunks[0].Content[:20])
	}
	if !strings.HasPrefix(chunks[1].Content, "Second Title") {
		t.Errorf("chunk 1 starts with %q", chunks[1].Content[:20])
	}
}

func TestSplitText_ParagraphFallback(t *testing.T) {
	// No headers at all; must fall back to blank-line paragraph splitting.
	para := strings.Repeat("alpha beta gamma ", 20)
	text := para + "\n\n" + para + "\n\n" + para

	chunks := SplitText(text, 800)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Boundary != BoundaryParagraph {
			t.Errorf("chunk %d boundary = %q, want %q", i, c.Boundary, BoundaryParagraph)
		}
	}
}

func TestSplitText_ForcedWordSplit(t *testing.T) {
	// One giant paragraph with no internal boundaries.
	text := strings.Repeat("onewordhere ", 200)

	chunks := SplitText(text, 100)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Size > 100 {
			t.Errorf("chunk %d size %d exceeds limit", i, c.Size)
		}
		if c.Boundary != BoundaryForced {
			t.Errorf("chunk %d boundary = %q, want %q", i, c.Boundary, BoundaryForced)
		}
		for _, w := range strings.Fields(c.Content) {
			if w != "onewordhere" {
				t.Errorf("chunk %d contains split word %q", i, w)
			}
		}
	}
}

func TestSplitText_OversizedWordKeptWhole(t *testing.T) {
	long := strings.Repeat("x", 150)
	text := strings.Repeat("pad ", 50) + long + " " + strings.Repeat("pad ", 50)

	chunks := SplitText(text, 100)

	found := false
	for _, c := range chunks {
		if c.Content == long {
			found = true
		} else if c.Size > 100 {
			t.Errorf("chunk other than the oversized word exceeds limit: %d chars", c.Size)
		}
	}
	if !found {
		t.Error("oversized word was not kept whole in its own chunk")
	}
}

func TestSplitText_ContentPreserved(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
	}{
		{"sectioned", "# A\n" + strings.Repeat("aa bb cc ", 40) + "\n# B\n" + strings.Repeat("dd ee ff ", 40), 200},
		{"paragraphs", strings.Repeat("gg hh ", 30) + "\n\n" + strings.Repeat("ii jj ", 30), 100},
		{"forced", strings.Repeat("kk ", 300), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.max)

			var joined strings.Builder
			for _, c := range chunks {
				joined.WriteString(c.Content)
				joined.WriteString(" ")
			}

			got := strings.Join(strings.Fields(joined.String()), " ")
			want := strings.Join(strings.Fields(tt.text), " ")
			if got != want {
				t.Errorf("non-whitespace content not preserved\ngot:  %.80s\nwant: %.80s", got, want)
			}
		})
	}
}

func TestSplitText_IndicesContiguous(t *testing.T) {
	text := "# A\n" + strings.Repeat("word ", 100) + "\n# B\n" + strings.Repeat("word ", 100)

	chunks := SplitText(text, 300)

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk at position %d has index %d", i, c.Index)
		}
	}
}

func TestSplitText_ThreeSectionScenario(t *testing.T) {
	// A 30,000 character document with three roughly equal #-delimited
	// sections and a 15,000 character limit packs into 3 chunks with
	// headers preserved at chunk starts.
	section := strings.Repeat("study this concept carefully ", 340) // ~9860 chars
	text := "# Part One\n" + section + "\n# Part Two\n" + section + "\n# Part Three\n" + section

	if len(text) < 29000 || len(text) > 31000 {
		t.Fatalf("test document size drifted: %d chars", len(text))
	}

	chunks := SplitText(text, 15000)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Size > 15000 {
			t.Errorf("chunk %d size %d exceeds limit", i, c.Size)
		}
	}
	if !strings.HasPrefix(chunks[0].Content, "# Part One") {
		t.Error("first chunk does not start with the first header")
	}
}

func TestSplitText_DefaultMaxSize(t *testing.T) {
	chunks := SplitText("tiny", 0)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}
