package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/streamtap/streamtap/internal/constants"
)

// Loader handles loading configuration files.
type Loader struct {
	baseDir string
}

// NewLoader creates a new config loader. The base directory is resolved in
// this order:
//  1. STREAMTAP_CONFIG environment variable.
//  2. User home directory.
//  3. /tmp/streamtap-fallback (containerized environments without a home dir).
//
// The loader never returns an error: when no config file exists, Load
// returns defaults.
func NewLoader() *Loader {
	if baseDir := os.Getenv("STREAMTAP_CONFIG"); baseDir != "" {
		return &Loader{baseDir: baseDir}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return &Loader{baseDir: homeDir}
	}

	return &Loader{baseDir: "/tmp/streamtap-fallback"}
}

// Path returns the path to the config file.
func (l *Loader) Path() string {
	return filepath.Join(l.baseDir, constants.DefaultDir, constants.ConfigFile)
}

// Load reads the configuration, returning defaults when the file does not
// exist. The loaded config is validated before it is returned.
func (l *Loader) Load() (*Config, error) {
	path := l.Path()

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		//nolint:gosec // G304: Path is from trusted config directory.
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the loader's config path, creating the
// directory if needed.
func (l *Loader) Save(cfg *Config) error {
	path := l.Path()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
