package initialize

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInitializeWritesConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	initializeForce = false

	var buf bytes.Buffer
	InitializeCmd.SetOut(&buf)

	if err := runInitialize(InitializeCmd, nil); err != nil {
		t.Fatalf("runInitialize() error: %v", err)
	}

	path := filepath.Join(home, ".config", "mediascribe", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "chunking:") {
		t.Error("written config missing chunking section")
	}
}

func TestRunInitializeRefusesOverwrite(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	initializeForce = false

	InitializeCmd.SetOut(new(bytes.Buffer))

	if err := runInitialize(InitializeCmd, nil); err != nil {
		t.Fatalf("first runInitialize() error: %v", err)
	}
	if err := runInitialize(InitializeCmd, nil); err == nil {
		t.Fatal("second runInitialize() should refuse to overwrite without --force")
	}

	initializeForce = true
	defer func() { initializeForce = false }()
	if err := runInitialize(InitializeCmd, nil); err != nil {
		t.Fatalf("runInitialize() with force error: %v", err)
	}
}
