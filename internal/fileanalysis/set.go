package fileanalysis

import "github.com/google/uuid"

// attachedAnalyzer pairs an analyzer with its per-file delivery bookkeeping.
// interested starts true and is cleared when the analyzer returns false from
// DeliverStream (or EndOfFile); an uninterested analyzer receives no further
// chunk or gap events for this file, but still sees EndOfFile exactly once.
type attachedAnalyzer struct {
	handle     uuid.UUID
	kind       Kind
	analyzer   Analyzer
	interested bool
}

// analyzerSet holds one file's attached analyzers in attachment order.
// Fan-out honors each analyzer's interest independently: one analyzer opting
// out never affects delivery to the others.
type analyzerSet struct {
	members []*attachedAnalyzer
}

func (s *analyzerSet) attach(kind Kind, a Analyzer) uuid.UUID {
	m := &attachedAnalyzer{
		handle:     uuid.New(),
		kind:       kind,
		analyzer:   a,
		interested: true,
	}
	s.members = append(s.members, m)
	return m.handle
}

func (s *analyzerSet) deliverStream(data []byte) {
	for _, m := range s.members {
		if !m.interested {
			continue
		}
		m.interested = m.analyzer.DeliverStream(data)
	}
}

// undelivered forwards a gap to every still-interested analyzer. The return
// value of Undelivered is advisory (did the analyzer incorporate the gap)
// and does not toggle interest; a digest that ignores gaps must keep
// receiving the bytes that follow them.
func (s *analyzerSet) undelivered(offset, length uint64) {
	for _, m := range s.members {
		if !m.interested {
			continue
		}
		m.analyzer.Undelivered(offset, length)
	}
}

// endOfFile invokes EndOfFile on every attached analyzer, including ones
// that opted out of delivery. The caller guarantees it runs at most once.
func (s *analyzerSet) endOfFile() {
	for _, m := range s.members {
		m.interested = m.analyzer.EndOfFile()
	}
}
