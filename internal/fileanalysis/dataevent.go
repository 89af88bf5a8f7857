package fileanalysis

// ChunkFunc receives one delivered chunk. Returning false stops further
// delivery to the data-event analyzer that owns the callback; other
// analyzers on the same file are unaffected.
type ChunkFunc func(data []byte) bool

// GapFunc receives one undeliverable range. The return value is advisory.
type GapFunc func(offset, length uint64) bool

// DataEvent forwards a file's chunks and gaps to caller-supplied callbacks,
// letting the event layer observe content without a dedicated analyzer. Its
// result field records how many chunk events were forwarded.
type DataEvent struct {
	rec     *Record
	slot    int
	onChunk ChunkFunc
	onGap   GapFunc
	chunks  uint64
}

// NewDataEvent creates a data-event analyzer. With a nil chunk callback the
// analyzer refuses delivery from the start.
func NewDataEvent(onChunk ChunkFunc, onGap GapFunc, rec *Record, slot int) *DataEvent {
	return &DataEvent{
		rec:     rec,
		slot:    slot,
		onChunk: onChunk,
		onGap:   onGap,
	}
}

func (d *DataEvent) DeliverStream(data []byte) bool {
	if d.onChunk == nil {
		return false
	}
	d.chunks++
	return d.onChunk(data)
}

func (d *DataEvent) Undelivered(offset, length uint64) bool {
	if d.onGap == nil {
		return false
	}
	return d.onGap(offset, length)
}

func (d *DataEvent) EndOfFile() bool {
	d.Finalize()
	return false
}

// Finalize records the forwarded chunk count, or nothing if no chunk was
// ever forwarded.
func (d *DataEvent) Finalize() {
	if d.chunks == 0 {
		return
	}
	d.rec.Assign(d.slot, d.chunks)
}
