package fileanalysis

// Analyzer consumes one file's byte stream and produces at most one result
// field. Implementations hold no stream-position state beyond what they need
// for their own result; the owning file tracks offsets and gaps.
//
// Calls arrive in non-decreasing offset order. EndOfFile is terminal and is
// invoked exactly once, after which no further DeliverStream or Undelivered
// calls occur.
type Analyzer interface {
	// DeliverStream feeds the next chunk of the file's content. Returning
	// false signals that the analyzer no longer needs further bytes; the
	// file stops forwarding subsequent chunks and gaps to it.
	DeliverStream(data []byte) bool

	// Undelivered reports a byte range that is permanently unavailable.
	// The return value indicates whether the analyzer incorporated the
	// gap into its own state; it does not affect further delivery.
	Undelivered(offset, length uint64) bool

	// EndOfFile signals that no more content will arrive. Returning false
	// means the analyzer wants no further delivery events (the common
	// case; there are no restart semantics for the built-in analyzers).
	EndOfFile() bool

	// Finalize computes and records the analyzer's result, writing its
	// result field at most once. An analyzer that never observed valid,
	// deliverable bytes writes nothing.
	Finalize()
}

// Kind identifies a registered analyzer variant. The digest kinds double as
// the default result field name for the analyzer.
type Kind string

const (
	KindMD5     Kind = "md5"
	KindSHA1    Kind = "sha1"
	KindSHA256  Kind = "sha256"
	KindSHA3    Kind = "sha3-256"
	KindXXH3    Kind = "xxh3"
	KindBLAKE3  Kind = "blake3"
	KindExtract Kind = "extract"

	// KindDataEvent forwards chunks and gaps to caller-supplied callbacks
	// instead of computing anything itself.
	KindDataEvent Kind = "data-event"
)

// AnalyzerConfig carries per-attachment options. Only the fields relevant to
// the requested kind are consulted.
type AnalyzerConfig struct {
	// Field overrides the result field the analyzer writes. Empty means
	// the kind name. The field must exist in the file's schema; a missing
	// field is a fatal binding error, not a runtime condition.
	Field string

	// OutputPath is where an extract analyzer writes the reproduced file.
	OutputPath string

	// OnChunk and OnGap are the delivery callbacks for a data-event
	// analyzer. OnChunk returning false stops further delivery to this
	// analyzer only.
	OnChunk ChunkFunc
	OnGap   GapFunc
}
