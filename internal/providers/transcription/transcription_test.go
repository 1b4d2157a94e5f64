package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWhisperAPITranscribe(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "segment_000.wav")
	if err := os.WriteFile(audio, []byte("RIFFdata"), 0644); err != nil {
		t.Fatalf("failed to write test file; %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Authorization header = %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hello from the lecture"})
	}))
	defer server.Close()

	p := NewWhisperAPIProvider(
		WithWhisperAPIKey("test-key"),
		WithWhisperBaseURL(server.URL),
	)

	text, err := p.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe returned error; %v", err)
	}
	if text != "hello from the lecture" {
		t.Errorf("transcript = %q", text)
	}
}

func TestWhisperAPIUnavailableWithoutKey(t *testing.T) {
	p := NewWhisperAPIProvider(WithWhisperAPIKey(""))

	if p.Available() {
		t.Error("provider without key should not be available")
	}

	_, err := p.Transcribe(context.Background(), "x.wav")
	if err == nil {
		t.Error("Transcribe without key should fail")
	}
}

// recordingExecutor captures the single command a local transcription runs.
type recordingExecutor struct {
	output string
	err    error
	name   string
	args   []string
}

func (r *recordingExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	r.name = name
	r.args = args
	if r.err != nil {
		return "", r.err
	}
	return r.output, nil
}

func TestLocalWhisperTranscribe(t *testing.T) {
	exec := &recordingExecutor{output: " transcript text \n"}
	p := NewLocalWhisperProvider("/models/ggml-base.bin", WithLocalExecutor(exec))

	text, err := p.Transcribe(context.Background(), "seg.wav")
	if err != nil {
		t.Fatalf("Transcribe returned error; %v", err)
	}
	if text != "transcript text" {
		t.Errorf("transcript = %q, want trimmed output", text)
	}

	if exec.name != "whisper-cli" {
		t.Errorf("binary = %q", exec.name)
	}
	joined := strings.Join(exec.args, " ")
	for _, want := range []string{"-m /models/ggml-base.bin", "-f seg.wav", "--no-timestamps"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
}

func TestLocalWhisperRequiresModel(t *testing.T) {
	p := NewLocalWhisperProvider("")

	if p.Available() {
		t.Error("provider without model path should not be available")
	}

	_, err := p.Transcribe(context.Background(), "seg.wav")
	if err == nil {
		t.Error("Transcribe without model should fail")
	}
}

func TestLocalWhisperCommandFailure(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("segfault")}
	p := NewLocalWhisperProvider("/models/m.bin", WithLocalExecutor(exec))

	_, err := p.Transcribe(context.Background(), "seg.wav")
	if err == nil {
		t.Fatal("expected command failure to propagate")
	}
	if !strings.Contains(err.Error(), "local transcription failed") {
		t.Errorf("error = %v", err)
	}
}
