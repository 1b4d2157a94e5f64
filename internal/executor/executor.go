// Package executor runs external commands with captured output.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs external commands. The indirection exists so callers that
// shell out to ffmpeg/ffprobe/whisper can be tested without the binaries.
type Executor interface {
	// Execute runs name with args and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

type implExecutor struct{}

// New creates an Executor backed by os/exec.
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command, folding stderr into the error on failure.
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("command %q failed; %w\nstderr: %s", name, err, stderrStr)
		}
		return "", fmt.Errorf("command %q failed; %w", name, err)
	}

	return stdout.String(), nil
}

// LookupError reports whether err indicates the binary was not found in PATH.
func LookupError(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}
