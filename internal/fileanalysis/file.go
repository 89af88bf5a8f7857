package fileanalysis

import "github.com/rs/zerolog"

// gapRange is a byte range reported as permanently undeliverable.
type gapRange struct {
	offset uint64
	length uint64
}

// File is the context for one actively-analyzed file: the attached analyzer
// set, the shared results record, and the delivery bookkeeping. Its record
// is mutated only by the analyzers attached to it.
type File struct {
	id        string
	record    *Record
	analyzers analyzerSet
	delivered uint64 // highest contiguous offset delivered or gapped over
	gaps      []gapRange
	eof       bool
	logger    zerolog.Logger
}

func newFile(id string, schema Schema, logger zerolog.Logger) *File {
	return &File{
		id:     id,
		record: newRecord(schema),
		logger: logger.With().Str("file_id", id).Logger(),
	}
}

// deliverStream fans a chunk out to the attached analyzers and advances the
// contiguous-delivery marker when the chunk lines up with it. Chunks beyond
// the marker are forwarded as-is: gaps are explicit, never implied.
func (f *File) deliverStream(offset uint64, data []byte) {
	if f.eof {
		f.logger.Warn().Uint64("offset", offset).Msg("Chunk delivered after end of file, dropping")
		return
	}
	if offset == f.delivered {
		f.delivered += uint64(len(data))
	}
	f.analyzers.deliverStream(data)
}

// reportGap records a permanently undeliverable range and notifies the
// attached analyzers. Gaps are reported once and never re-delivered.
func (f *File) reportGap(offset, length uint64) {
	if f.eof {
		f.logger.Warn().Uint64("offset", offset).Msg("Gap reported after end of file, dropping")
		return
	}
	f.gaps = append(f.gaps, gapRange{offset: offset, length: length})
	if offset == f.delivered {
		f.delivered += length
	}
	f.analyzers.undelivered(offset, length)
}

// endOfFile delivers the terminal event to every attached analyzer. It is
// idempotent so that EndOfFile reaches each analyzer exactly once.
func (f *File) endOfFile() {
	if f.eof {
		return
	}
	f.eof = true
	f.analyzers.endOfFile()
}

// Degraded reports whether any byte range of the file was permanently
// undeliverable. Results computed for a degraded file cover only the bytes
// actually seen.
func (f *File) Degraded() bool {
	return len(f.gaps) > 0
}

// DeliveredContiguous returns the highest offset up to which content was
// delivered, or explicitly gapped over, without holes.
func (f *File) DeliveredContiguous() uint64 {
	return f.delivered
}
