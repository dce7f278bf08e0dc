// ABOUTME: Configuration management for stufflog with YAML config loading.
// ABOUTME: Resolves the storage directory, git sync settings, logging, and ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirEnvVar overrides the storage directory when set.
const DirEnvVar = "STUFFLOG_DIR"

// DefaultRemoteName is used when no remote name is configured.
const DefaultRemoteName = "origin"

// Config stores stufflog configuration loaded from ~/.config/stufflog/config.yaml.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Git     GitConfig     `yaml:"git"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig holds the optional storage directory override.
type StorageConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// GitConfig holds remote sync settings.
type GitConfig struct {
	RemoteName string `yaml:"remote_name,omitempty"`
	AutoSync   *bool  `yaml:"auto_sync,omitempty"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`  // optional rotating log file
}

// StorageDir returns the stufflog directory: $STUFFLOG_DIR, then storage.dir,
// then ~/.stufflog.
func (c *Config) StorageDir() (string, error) {
	if dir := os.Getenv(DirEnvVar); dir != "" {
		return ExpandPath(dir)
	}
	if c.Storage.Dir != "" {
		return ExpandPath(c.Storage.Dir)
	}
	return DefaultStorageDir()
}

// ConfiguredStorageDir returns storage.dir, or ~/.stufflog when it is unset.
// Unlike StorageDir it ignores $STUFFLOG_DIR, so it reflects the file alone.
func (c *Config) ConfiguredStorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return ExpandPath(c.Storage.Dir)
	}
	return DefaultStorageDir()
}

// RemoteName returns the preferred git remote name.
func (c *Config) RemoteName() string {
	if c.Git.RemoteName != "" {
		return c.Git.RemoteName
	}
	return DefaultRemoteName
}

// AutoSync reports whether reads pull and writes push when a remote exists.
func (c *Config) AutoSync() bool {
	if c.Git.AutoSync == nil {
		return true
	}
	return *c.Git.AutoSync
}

// LogFile returns the expanded log file path, or "" when logging to stderr.
func (c *Config) LogFile() (string, error) {
	return ExpandPath(c.Log.File)
}

// DefaultStorageDir returns ~/.stufflog.
func DefaultStorageDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".stufflog"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "stufflog", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
