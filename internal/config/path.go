package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// ConfigDir returns the default config directory path.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mediascribe")
}

// ConfigExists returns true if a config file exists at the default path.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigPath())
	return err == nil
}
