package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := NewDefaultConfig()
	cfg.Chunking.MaxChunkSize = 9999
	cfg.Output.Format = "json"

	if err := Write(cfg, path); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Mediascribe configuration") {
		t.Error("written config missing header comment")
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.Chunking.MaxChunkSize != 9999 {
		t.Errorf("MaxChunkSize = %d, want 9999", loaded.Chunking.MaxChunkSize)
	}
	if loaded.Output.Format != "json" {
		t.Errorf("Format = %q, want json", loaded.Output.Format)
	}
}

func TestWritePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes not meaningful on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "secure", "config.yaml")

	if err := Write(NewDefaultConfig(), path); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}

	dirInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0700 {
		t.Errorf("dir mode = %o, want 0700", perm)
	}
}

func TestWriteExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := Write(NewDefaultConfig(), "~/conf/config.yaml"); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, "conf", "config.yaml")); err != nil {
		t.Errorf("expected config under home dir: %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	want := filepath.Join(home, ".config", "mediascribe", "config.yaml")
	if got := DefaultConfigPath(); got != want {
		t.Errorf("DefaultConfigPath() = %q, want %q", got, want)
	}

	if ConfigExists() {
		t.Error("ConfigExists() = true before writing")
	}
	if err := WriteDefault(NewDefaultConfig()); err != nil {
		t.Fatalf("WriteDefault() error: %v", err)
	}
	if !ConfigExists() {
		t.Error("ConfigExists() = false after WriteDefault")
	}
}
