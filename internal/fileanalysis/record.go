package fileanalysis

// Schema is the ordered list of result field names for a file. It is fixed
// when the file is announced and sizes the results record up front; field
// locators are slot indexes into it, resolved once at attachment time.
type Schema []string

// FieldIndex returns the slot for the named field, or -1 if the schema does
// not contain it.
func (s Schema) FieldIndex(name string) int {
	for i, f := range s {
		if f == name {
			return i
		}
	}
	return -1
}

// DefaultSchema returns a schema with one field per built-in analyzer kind.
func DefaultSchema() Schema {
	return Schema{
		string(KindMD5),
		string(KindSHA1),
		string(KindSHA256),
		string(KindSHA3),
		string(KindXXH3),
		string(KindBLAKE3),
		string(KindExtract),
		string(KindDataEvent),
	}
}

// Record is the per-file results aggregate that attached analyzers write
// into. Each slot accepts at most one write; the first write wins and later
// writes are rejected. A slot never written retains its absent state, which
// consumers must read as "analyzer ran but produced no result".
type Record struct {
	schema  Schema
	values  []any
	written []bool
}

func newRecord(schema Schema) *Record {
	s := make(Schema, len(schema))
	copy(s, schema)
	return &Record{
		schema:  s,
		values:  make([]any, len(s)),
		written: make([]bool, len(s)),
	}
}

// Assign writes v into the given slot. It reports whether the write took
// effect; a second write to the same slot is rejected.
func (r *Record) Assign(slot int, v any) bool {
	if r.written[slot] {
		return false
	}
	r.values[slot] = v
	r.written[slot] = true
	return true
}

// Value returns the slot's value and whether it has been written.
func (r *Record) Value(slot int) (any, bool) {
	return r.values[slot], r.written[slot]
}

// Fields returns the written fields keyed by name. Unwritten fields are
// absent from the map.
func (r *Record) Fields() map[string]any {
	out := make(map[string]any, len(r.schema))
	for i, name := range r.schema {
		if r.written[i] {
			out[name] = r.values[i]
		}
	}
	return out
}
