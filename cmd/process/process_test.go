package process

import (
	"os"
	"path/filepath"
	"testing"
)

func resetFlags() {
	processOutputDir = ""
	processFormat = ""
	processStyle = ""
	processWorkers = 0
	processNoSynthesis = false
	processQuiet = false
}

func TestValidateProcess(t *testing.T) {
	dir := t.TempDir()
	mediaFile := filepath.Join(dir, "lecture.mp4")
	if err := os.WriteFile(mediaFile, []byte("fake"), 0644); err != nil {
		t.Fatal(err)
	}
	textFile := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textFile, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		format  string
		style   string
		wantErr bool
	}{
		{"valid media file", []string{mediaFile}, "", "", false},
		{"missing file", []string{filepath.Join(dir, "nope.mp4")}, "", "", true},
		{"non-media file", []string{textFile}, "", "", true},
		{"valid format", []string{mediaFile}, "json", "", false},
		{"invalid format", []string{mediaFile}, "pdf", "", true},
		{"valid style", []string{mediaFile}, "", "key_concepts", false},
		{"invalid style", []string{mediaFile}, "", "haiku", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			processFormat = tt.format
			processStyle = tt.style

			err := validateProcess(ProcessCmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateProcess() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
