// Package constants defines shared configuration constants.
package constants

import "time"

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".streamtap"
)

const (
	// DefaultChunkSize is the chunk size used when feeding local files
	// through the analysis pipeline.
	DefaultChunkSize = 64 * 1024

	// DefaultPeerQueueSize bounds each bus peer's outbound queue;
	// best-effort sends drop when it is full.
	DefaultPeerQueueSize = 256

	// DefaultPeerDialTimeout is how long to wait for a bus peer handshake.
	DefaultPeerDialTimeout = 10 * time.Second
)

// DefaultDigests are the digest analyzers attached to a file when the
// configuration does not name any.
var DefaultDigests = []string{"md5", "sha1", "sha256"}
