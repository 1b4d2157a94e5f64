package recombine

import (
	"strings"
	"testing"

	"github.com/scribelab/mediascribe/internal/orchestrate"
)

func success(index int, output string) orchestrate.ChunkResult {
	return orchestrate.ChunkResult{ChunkIndex: index, Status: orchestrate.StatusSuccess, Output: output}
}

func failure(index int, msg string) orchestrate.ChunkResult {
	return orchestrate.ChunkResult{ChunkIndex: index, Status: orchestrate.StatusError, ErrorMessage: msg}
}

func TestCombineSyntheses_AllFailed(t *testing.T) {
	results := []orchestrate.ChunkResult{
		failure(0, "timeout"),
		failure(1, "rate limited"),
	}

	got := CombineSyntheses(results)
	if got != FailureMarker {
		t.Errorf("got %q, want failure marker", got)
	}
}

func TestCombineSyntheses_Empty(t *testing.T) {
	if got := CombineSyntheses(nil); got != FailureMarker {
		t.Errorf("got %q, want failure marker", got)
	}
}

func TestCombineSyntheses_Assembly(t *testing.T) {
	results := []orchestrate.ChunkResult{
		success(0, "# Goroutines\n\nA goroutine is a lightweight thread.\n\nKey Takeaways: always close channels you own."),
		failure(1, "model error"),
		success(2, "# Channels\n\nChannels connect goroutines.\n\n## Buffering\n\nBuffered channels decouple senders."),
	}

	doc := CombineSyntheses(results)

	t.Run("table of contents", func(t *testing.T) {
		if !strings.Contains(doc, "## Table of Contents") {
			t.Fatal("missing table of contents")
		}
		if !strings.Contains(doc, "1. Goroutines") {
			t.Error("missing TOC entry for first chunk")
		}
		if !strings.Contains(doc, "2. Channels") {
			t.Error("missing TOC entry for second successful chunk")
		}
	})

	t.Run("concepts stripped and deduplicated", func(t *testing.T) {
		if !strings.Contains(doc, "- Goroutines") {
			t.Error("missing concept from first chunk")
		}
		if !strings.Contains(doc, "- Buffering") {
			t.Error("missing sub-header concept")
		}
	})

	t.Run("full output preserved", func(t *testing.T) {
		if !strings.Contains(doc, "### Section 1") || !strings.Contains(doc, "### Section 2") {
			t.Error("missing per-section summaries")
		}
		if !strings.Contains(doc, "Buffered channels decouple senders.") {
			t.Error("chunk output not carried into combined document")
		}
	})

	t.Run("takeaways labeled by section", func(t *testing.T) {
		if !strings.Contains(doc, "**From Section 1**:") {
			t.Error("missing takeaways label")
		}
		if !strings.Contains(doc, "always close channels you own.") {
			t.Error("missing takeaways body")
		}
	})

	t.Run("meta footer", func(t *testing.T) {
		if !strings.Contains(doc, "**Chunks Processed**: 3") {
			t.Error("missing processed count")
		}
		if !strings.Contains(doc, "**Successful**: 2") {
			t.Error("missing success count")
		}
		if !strings.Contains(doc, "**Failed**: 1") {
			t.Error("missing failure count")
		}
	})
}

func TestCombineSyntheses_ConceptCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("# Concept ")
		b.WriteByte(byte('A' + i))
		b.WriteString("\ncontent\n")
	}

	doc := CombineSyntheses([]orchestrate.ChunkResult{success(0, b.String())})

	conceptSection := doc[strings.Index(doc, "## Core Concepts"):strings.Index(doc, "## Comprehensive Summary")]
	count := strings.Count(conceptSection, "\n- ")
	if count != maxConcepts {
		t.Errorf("concept list has %d entries, want %d", count, maxConcepts)
	}
}

func TestCombineSyntheses_DuplicateConcepts(t *testing.T) {
	results := []orchestrate.ChunkResult{
		success(0, "# Recursion\nbody"),
		success(1, "# Recursion\nmore body"),
	}

	doc := CombineSyntheses(results)

	if strings.Count(doc, "- Recursion\n") != 1 {
		t.Errorf("duplicate concept not deduplicated:\n%s", doc)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"header stripped", "## Memory Model\nbody", "Memory Model"},
		{"bullet stripped", "- point one\nrest", "point one"},
		{"skips blank lines", "\n\nActual Title", "Actual Title"},
		{"plain text", "No markup here", "No markup here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstLine(tt.text); got != tt.want {
				t.Errorf("firstLine(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
