package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Write writes the configuration to the specified path. The directory is
// created with 0700 and the file written with 0600, since the file may hold
// API keys.
func Write(cfg *Config, path string) error {
	path = expandHome(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s; %w", dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config; %w", err)
	}

	header := fmt.Sprintf("# Mediascribe configuration\n# Generated: %s\n\n",
		time.Now().Format(time.RFC3339))
	content := append([]byte(header), data...)

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write config file %s; %w", path, err)
	}

	return nil
}

// WriteDefault writes the configuration to the default config path.
func WriteDefault(cfg *Config) error {
	return Write(cfg, DefaultConfigPath())
}
