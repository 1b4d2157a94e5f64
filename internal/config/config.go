// Package config loads, validates, and writes the application's YAML
// configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// configFilePath stores the path to the loaded config file.
var configFilePath string

// Init initializes the global configuration. It searches for config files in
// priority order:
//  1. Directory named by the MEDIASCRIBE_CONFIG_DIR environment variable
//  2. ~/.config/mediascribe/
//  3. Current working directory
//
// If no config file is found, defaults are used. A config file that exists
// but cannot be read or parsed is an error.
func Init() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("MEDIASCRIBE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setViperDefaults(viper.GetViper())

	if envPath := os.Getenv("MEDIASCRIBE_CONFIG_DIR"); envPath != "" {
		viper.AddConfigPath(envPath)
	}
	if home := os.Getenv("HOME"); home != "" {
		viper.AddConfigPath(filepath.Join(home, ".config", "mediascribe"))
	}
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			configFilePath = ""
			return nil
		}
		return fmt.Errorf("failed to read config; %w", err)
	}

	configFilePath = viper.ConfigFileUsed()
	slog.Debug("config initialized", "file", configFilePath)

	return nil
}

// ConfigFilePath returns the path to the loaded config file, or empty string
// if running on defaults only.
func ConfigFilePath() string {
	return configFilePath
}

// Reset clears the configuration state for testing purposes.
func Reset() {
	viper.Reset()
	configFilePath = ""
}

// GetString returns the string value for the given key.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns the integer value for the given key.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns the float value for the given key.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns the boolean value for the given key.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set sets a value for the given key, overriding defaults and config file
// values. Primarily used for testing and flag overrides.
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetPath returns the string value for the given key with ~ expanded to the
// user's home directory.
func GetPath(key string) string {
	return expandHome(viper.GetString(key))
}

// expandHome expands a leading ~ to the user's home directory. Only "~" and
// "~/..." are expanded; "~user" forms are returned unchanged.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	return filepath.Join(home, path[2:])
}
