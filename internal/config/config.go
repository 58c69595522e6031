// Package config handles the XDG configuration directory and the
// persisted settings file.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "mstodo"

	// SettingsFile is the persisted settings filename.
	SettingsFile = "settings.json"

	// TokenCacheFile is the serialized OAuth token cache filename.
	TokenCacheFile = "token_cache.json"

	// TaskCacheFile is the persisted task snapshot filename.
	TaskCacheFile = "task_cache.json"

	// EnvFile is the optional dotenv file holding client credentials.
	EnvFile = ".env"
)

// Config holds configuration paths and common flags.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/mstodo or
// $HOME/.config/mstodo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TokenCachePath returns the path to the serialized token cache.
func (c *Config) TokenCachePath() string {
	return filepath.Join(c.Dir, TokenCacheFile)
}

// TaskCachePath returns the path to the persisted task snapshot.
func (c *Config) TaskCachePath() string {
	return filepath.Join(c.Dir, TaskCacheFile)
}

// EnvPath returns the path to the optional .env file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasTokenCache checks if the token cache file exists.
func (c *Config) HasTokenCache() bool {
	_, err := os.Stat(c.TokenCachePath())
	return err == nil
}

// RemoveTokenCache deletes the token cache file.
func (c *Config) RemoveTokenCache() error {
	return os.Remove(c.TokenCachePath())
}
