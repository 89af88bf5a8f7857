// Package config provides configuration loading and management.
package config

import (
	"github.com/streamtap/streamtap/internal/constants"
)

// Config is the engine configuration, loaded from YAML.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Bus      BusConfig      `yaml:"bus"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// BusConfig controls peering with remote instances.
type BusConfig struct {
	// Peers are ws:// or wss:// URLs of remote brokers to connect to.
	Peers []string `yaml:"peers"`

	// QueueSize bounds each peer's outbound message queue.
	QueueSize int `yaml:"queue_size"`
}

// AnalysisConfig controls which analyzers are attached to announced files.
type AnalysisConfig struct {
	// Digests names the digest analyzers to attach per file.
	Digests []string `yaml:"digests"`

	// ChunkSize is the delivery chunk size for locally fed files.
	ChunkSize int `yaml:"chunk_size"`

	// ExtractDir, when set, attaches an extract analyzer writing
	// reproduced files into this directory.
	ExtractDir string `yaml:"extract_dir"`
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
		Bus: BusConfig{
			QueueSize: constants.DefaultPeerQueueSize,
		},
		Analysis: AnalysisConfig{
			Digests:   append([]string(nil), constants.DefaultDigests...),
			ChunkSize: constants.DefaultChunkSize,
		},
	}
}
