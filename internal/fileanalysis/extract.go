package fileanalysis

import (
	"os"

	"github.com/rs/zerolog"
)

// ExtractResult is the value an extract analyzer writes into its result
// field. Partial is set when any gap was reported while extracting: the
// output file then has zero-filled holes where the gaps were.
type ExtractResult struct {
	Path    string
	Partial bool
}

// Extract reproduces a file's delivered bytes on local disk. It tracks its
// own write cursor from the delivery sequence: chunks advance it by their
// length, gaps skip it forward, so bytes land at their original offsets.
type Extract struct {
	rec     *Record
	slot    int
	path    string
	out     *os.File // nil when the output file failed to open
	pos     uint64
	partial bool
	wrote   bool
	logger  zerolog.Logger
}

// NewExtract creates an extract analyzer writing the reproduced content to
// path. A failed open behaves like an invalid digest handle: bytes are
// silently refused and no result is written.
func NewExtract(path string, rec *Record, slot int, logger zerolog.Logger) *Extract {
	e := &Extract{
		rec:    rec,
		slot:   slot,
		path:   path,
		logger: logger.With().Str("component", "extract").Str("path", path).Logger(),
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to open extraction output, withholding result")
		return e
	}
	e.out = out
	return e
}

func (e *Extract) DeliverStream(data []byte) bool {
	if e.out == nil {
		return false
	}
	if _, err := e.out.WriteAt(data, int64(e.pos)); err != nil {
		e.logger.Warn().Err(err).Uint64("offset", e.pos).Msg("Extraction write failed, stopping")
		e.close()
		return false
	}
	if len(data) > 0 {
		e.wrote = true
	}
	e.pos += uint64(len(data))
	return true
}

// Undelivered skips the write cursor past the gap, leaving a hole in the
// output file, and marks the extraction partial.
func (e *Extract) Undelivered(offset, length uint64) bool {
	if e.out == nil {
		return false
	}
	e.partial = true
	e.pos = offset + length
	return false
}

func (e *Extract) EndOfFile() bool {
	e.Finalize()
	return false
}

// Finalize closes the output file and records where the extraction landed.
// Nothing is written when the output never opened or no bytes arrived.
func (e *Extract) Finalize() {
	if e.out == nil {
		return
	}
	e.close()
	if !e.wrote {
		return
	}
	e.rec.Assign(e.slot, ExtractResult{Path: e.path, Partial: e.partial})
}

func (e *Extract) close() {
	if err := e.out.Close(); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to close extraction output")
	}
	e.out = nil
}
