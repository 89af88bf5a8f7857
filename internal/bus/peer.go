package bus

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/streamtap/streamtap/internal/constants"
)

// outMsg is one queued wire message. done, when non-nil, is closed after the
// network write completes (synchronous sends wait on it).
type outMsg struct {
	data []byte
	done chan struct{}
}

// Peer is a websocket connection to one remote instance. Writes are
// serialized through a single writer goroutine; gorilla connections do not
// support concurrent writers.
type Peer struct {
	addr   string
	conn   *websocket.Conn
	send   chan outMsg
	logger zerolog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// DialPeer connects to a remote broker at a ws:// or wss:// URL.
func DialPeer(url string, queueSize int, logger zerolog.Logger) (*Peer, error) {
	dialer := websocket.Dialer{HandshakeTimeout: constants.DefaultPeerDialTimeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial peer %s: %w", url, err)
	}
	return NewPeer(url, conn, queueSize, logger), nil
}

// NewPeer wraps an established websocket connection (dialed or accepted)
// and starts its writer goroutine.
func NewPeer(addr string, conn *websocket.Conn, queueSize int, logger zerolog.Logger) *Peer {
	p := &Peer{
		addr:   addr,
		conn:   conn,
		send:   make(chan outMsg, queueSize),
		logger: logger.With().Str("component", "bus_peer").Str("peer", addr).Logger(),
	}
	p.closed = make(chan struct{})
	go p.writeLoop()
	return p
}

// Addr returns the peer's address as given at connection time.
func (p *Peer) Addr() string {
	return p.addr
}

// enqueue hands a wire message to the writer goroutine according to flags.
// It reports whether the message was accepted (best-effort sends return
// false when the queue is full or the peer is closed).
func (p *Peer) enqueue(data []byte, flags SendFlags) bool {
	select {
	case <-p.closed:
		return false
	default:
	}

	msg := outMsg{data: data}
	if flags.Synchronous {
		msg.done = make(chan struct{})
	}

	if flags.Guarantee == Reliable || flags.Synchronous {
		select {
		case p.send <- msg:
		case <-p.closed:
			return false
		}
	} else {
		select {
		case p.send <- msg:
		case <-p.closed:
			return false
		default:
			p.logger.Debug().Msg("Peer queue full, dropping best-effort message")
			return false
		}
	}

	if msg.done != nil {
		select {
		case <-msg.done:
		case <-p.closed:
			return false
		}
	}
	return true
}

func (p *Peer) writeLoop() {
	for {
		select {
		case msg := <-p.send:
			err := p.conn.WriteMessage(websocket.BinaryMessage, msg.data)
			if msg.done != nil {
				close(msg.done)
			}
			if err != nil {
				p.logger.Warn().Err(err).Msg("Peer write failed, closing connection")
				p.shutdown()
				return
			}
		case <-p.closed:
			return
		}
	}
}

// readLoop decodes incoming envelopes and hands them to the callback until
// the connection drops. Run it on its own goroutine.
func (p *Peer) readLoop(onEnvelope func(envelope)) {
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			p.logger.Debug().Err(err).Msg("Peer read loop ended")
			p.shutdown()
			return
		}
		env, err := decodeEnvelope(data)
		if err != nil {
			p.logger.Warn().Err(err).Msg("Dropping undecodable envelope from peer")
			continue
		}
		onEnvelope(env)
	}
}

func (p *Peer) shutdown() {
	p.closeOnce.Do(func() {
		close(p.closed)
		if err := p.conn.Close(); err != nil {
			p.logger.Debug().Err(err).Msg("Peer connection close failed")
		}
	})
}

// Close tears the connection down and releases any blocked senders.
func (p *Peer) Close() error {
	p.shutdown()
	return nil
}
