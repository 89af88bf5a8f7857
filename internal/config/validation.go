package config

import (
	"fmt"
	"strings"
)

var validLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for values that cannot work at runtime.
// Analyzer names are not validated here; attaching an unknown kind surfaces
// as an error from the analysis manager.
func (c *Config) Validate() error {
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	if c.Bus.QueueSize <= 0 {
		return fmt.Errorf("bus queue_size must be positive, got %d", c.Bus.QueueSize)
	}
	for _, peer := range c.Bus.Peers {
		if !strings.HasPrefix(peer, "ws://") && !strings.HasPrefix(peer, "wss://") {
			return fmt.Errorf("bus peer %q must be a ws:// or wss:// URL", peer)
		}
	}

	if c.Analysis.ChunkSize <= 0 {
		return fmt.Errorf("analysis chunk_size must be positive, got %d", c.Analysis.ChunkSize)
	}
	return nil
}
