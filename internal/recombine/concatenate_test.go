package recombine

import "testing"

func TestConcatenateTranscripts(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"empty", nil, ""},
		{"single", []string{"Hello."}, "Hello."},
		{"terminal punctuation", []string{"Hello.", "World"}, "Hello. World"},
		{"no punctuation", []string{"Hello", "World"}, "Hello World"},
		{"question mark", []string{"Ready?", "Go"}, "Ready? Go"},
		{"exclamation", []string{"Stop!", "Now"}, "Stop! Now"},
		{"trailing newline keeps single separator", []string{"First line.\n", "Second"}, "First line.\nSecond"},
		{"blank segments skipped", []string{"One.", "", "  ", "Two."}, "One. Two."},
		{"all blank", []string{"", "   "}, ""},
		{"three segments", []string{"A.", "B", "C!"}, "A. B C!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConcatenateTranscripts(tt.segments)
			if got != tt.want {
				t.Errorf("ConcatenateTranscripts(%q) = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}
