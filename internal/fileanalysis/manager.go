package fileanalysis

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ResultSink receives a file's completed results once EndOfFile has run
// through every attached analyzer. The file is already removed from the
// manager when the sink runs, so a sink may synchronously start analysis of
// a new file without nesting inside live bookkeeping. Sinks that publish to
// the messaging layer should enqueue rather than block.
type ResultSink func(fileID string, degraded bool, results map[string]any)

// Manager owns the set of actively-analyzed files. It consumes byte-range
// events from the reassembly layer and exposes analyzer attachment and
// result retrieval to the event layer. All methods must be called from a
// single goroutine; events for different files may be interleaved freely.
type Manager struct {
	logger zerolog.Logger
	files  map[string]*File
	sink   ResultSink
}

// NewManager creates a manager handing completed results to sink. A nil sink
// discards them; results remain retrievable via GetResults until EndOfFile.
func NewManager(logger zerolog.Logger, sink ResultSink) *Manager {
	return &Manager{
		logger: logger.With().Str("component", "fileanalysis").Logger(),
		files:  make(map[string]*File),
		sink:   sink,
	}
}

// NewFile announces a file. The schema fixes the result fields analyzers can
// bind to for this file's lifetime.
func (m *Manager) NewFile(fileID string, schema Schema) error {
	if _, ok := m.files[fileID]; ok {
		return fmt.Errorf("file %q already under analysis", fileID)
	}
	m.files[fileID] = newFile(fileID, schema, m.logger)
	m.logger.Debug().Str("file_id", fileID).Int("schema_fields", len(schema)).Msg("File announced")
	return nil
}

// AttachAnalyzer binds a new analyzer of the given kind to the file and
// returns its handle. Attaching during active delivery is allowed; the
// analyzer observes events only from this point onward, with no replay of
// the prefix that already passed.
//
// A result field that does not exist in the file's schema is a fatal
// binding error: it can only come from misbuilt analyzer registrations,
// never from network input, so the process aborts rather than degrades.
func (m *Manager) AttachAnalyzer(fileID string, kind Kind, cfg AnalyzerConfig) (uuid.UUID, error) {
	f, ok := m.files[fileID]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown file %q", fileID)
	}
	if !knownKind(kind) {
		return uuid.Nil, fmt.Errorf("unknown analyzer kind %q", kind)
	}

	field := cfg.Field
	if field == "" {
		field = string(kind)
	}
	slot := f.record.schema.FieldIndex(field)
	if slot < 0 {
		m.logger.Panic().
			Str("file_id", fileID).
			Str("kind", string(kind)).
			Str("field", field).
			Msg("Analyzer bound to a result field missing from the schema")
	}

	handle := f.analyzers.attach(kind, m.newAnalyzer(kind, cfg, f, slot))
	m.logger.Debug().
		Str("file_id", fileID).
		Str("kind", string(kind)).
		Str("field", field).
		Str("handle", handle.String()).
		Msg("Analyzer attached")
	return handle, nil
}

func knownKind(kind Kind) bool {
	switch kind {
	case KindMD5, KindSHA1, KindSHA256, KindSHA3, KindXXH3, KindBLAKE3, KindExtract, KindDataEvent:
		return true
	default:
		return false
	}
}

func (m *Manager) newAnalyzer(kind Kind, cfg AnalyzerConfig, f *File, slot int) Analyzer {
	switch kind {
	case KindExtract:
		return NewExtract(cfg.OutputPath, f.record, slot, f.logger)
	case KindDataEvent:
		return NewDataEvent(cfg.OnChunk, cfg.OnGap, f.record, slot)
	default:
		return NewHash(string(kind), f.record, slot)
	}
}

// Deliver forwards a chunk of file content at the given offset.
func (m *Manager) Deliver(fileID string, offset uint64, data []byte) error {
	f, ok := m.files[fileID]
	if !ok {
		return fmt.Errorf("unknown file %q", fileID)
	}
	f.deliverStream(offset, data)
	return nil
}

// ReportGap marks a byte range of the file as permanently undeliverable.
func (m *Manager) ReportGap(fileID string, offset, length uint64) error {
	f, ok := m.files[fileID]
	if !ok {
		return fmt.Errorf("unknown file %q", fileID)
	}
	f.reportGap(offset, length)
	return nil
}

// EndOfFile signals that no more content will arrive for the file. Every
// attached analyzer sees EndOfFile exactly once, the file is torn down, and
// the completed results go to the sink. The file is removed from the table
// before the sink runs, so sink code observes a consistent manager.
func (m *Manager) EndOfFile(fileID string) error {
	f, ok := m.files[fileID]
	if !ok {
		return fmt.Errorf("unknown file %q", fileID)
	}
	f.endOfFile()

	results := f.record.Fields()
	degraded := f.Degraded()
	delete(m.files, fileID)

	m.logger.Debug().
		Str("file_id", fileID).
		Bool("degraded", degraded).
		Int("result_fields", len(results)).
		Uint64("contiguous_bytes", f.DeliveredContiguous()).
		Msg("File analysis complete")

	if m.sink != nil {
		m.sink(fileID, degraded, results)
	}
	return nil
}

// GetResults returns the possibly partially filled results for a file still
// under analysis. Fields no analyzer has written are absent from the map.
func (m *Manager) GetResults(fileID string) (map[string]any, error) {
	f, ok := m.files[fileID]
	if !ok {
		return nil, fmt.Errorf("unknown file %q", fileID)
	}
	return f.record.Fields(), nil
}

// ActiveFiles returns the number of files currently under analysis.
func (m *Manager) ActiveFiles() int {
	return len(m.files)
}
