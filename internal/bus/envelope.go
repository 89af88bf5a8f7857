package bus

import "github.com/fxamacker/cbor/v2"

// Envelope kinds on the wire.
const (
	kindPrint uint8 = iota + 1
	kindEvent
	kindLog
)

// envelope is the unit exchanged between peers, CBOR-encoded with integer
// keys to keep the framing small.
type envelope struct {
	Kind    uint8  `cbor:"1,keyasint"`
	Topic   string `cbor:"2,keyasint"`
	Message string `cbor:"3,keyasint,omitempty"`
	Event   string `cbor:"4,keyasint,omitempty"`
	Args    []any  `cbor:"5,keyasint,omitempty"`
	Stream  string `cbor:"6,keyasint,omitempty"`
}

func (e envelope) encode() ([]byte, error) {
	return cbor.Marshal(e)
}

func decodeEnvelope(data []byte) (envelope, error) {
	var e envelope
	err := cbor.Unmarshal(data, &e)
	return e, err
}
