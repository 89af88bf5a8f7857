package bus

// Guarantee selects the delivery guarantee for messages forwarded to peers.
type Guarantee int

const (
	// BestEffort drops the message when a peer's send queue is full.
	BestEffort Guarantee = iota

	// Reliable blocks until the message is queued to every peer.
	Reliable
)

// SendFlags configures how a single publish is forwarded. The zero value is
// an asynchronous best-effort send.
type SendFlags struct {
	Guarantee Guarantee

	// Synchronous waits for the network write to complete instead of
	// returning once the message is queued.
	Synchronous bool
}
