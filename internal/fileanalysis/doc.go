// Package fileanalysis re-derives files from reassembled network traffic
// and runs each file's byte stream through the analyzers attached to it.
//
// The upstream reassembly layer decides where file boundaries lie and pushes
// byte ranges into a [Manager] via NewFile, Deliver, ReportGap, and
// EndOfFile. The Manager fans every event out to the analyzers attached to
// that file and aggregates their results into a per-file record that is
// handed to a [ResultSink] once the file is complete.
//
// Delivery is streaming-only: an analyzer attached after part of the stream
// has passed observes events only from the point of attachment onward. Gaps
// are explicit (ReportGap), never implied by omission, and are not
// re-delivered. All calls for a single file must come from one goroutine;
// the package holds no locks of its own.
package fileanalysis
