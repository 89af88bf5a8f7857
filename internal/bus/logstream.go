package bus

import "strings"

// LogWriter forwards log records written to it over the bus under
// logs/<streamID>, but only while the stream is enabled on the broker. It
// implements io.Writer so it can sit inside a zerolog.MultiLevelWriter next
// to the local log output; writes always succeed locally regardless of the
// stream toggle.
type LogWriter struct {
	broker *Broker
	stream string
}

// NewLogWriter creates a writer bound to one log stream ID.
func NewLogWriter(broker *Broker, streamID string) *LogWriter {
	return &LogWriter{broker: broker, stream: streamID}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	w.broker.mu.Lock()
	flags, enabled := w.broker.remoteLogs[w.stream]
	w.broker.mu.Unlock()

	if enabled {
		env := envelope{
			Kind:    kindLog,
			Topic:   "logs/" + w.stream,
			Message: strings.TrimRight(string(p), "\n"),
			Stream:  w.stream,
		}
		w.broker.publish(env, flags)
	}
	return len(p), nil
}
