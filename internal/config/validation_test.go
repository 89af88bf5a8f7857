package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty level allowed", func(c *Config) { c.Logging.Level = "" }, false},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"zero chunk size", func(c *Config) { c.Analysis.ChunkSize = 0 }, true},
		{"negative queue size", func(c *Config) { c.Bus.QueueSize = -1 }, true},
		{"ws peer", func(c *Config) { c.Bus.Peers = []string{"ws://host:1/bus"} }, false},
		{"wss peer", func(c *Config) { c.Bus.Peers = []string{"wss://host:1/bus"} }, false},
		{"http peer rejected", func(c *Config) { c.Bus.Peers = []string{"http://host:1"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
