package bus

import (
	"sync"

	"github.com/rs/zerolog"
)

// EventHandler consumes one locally dispatched or remotely received event.
type EventHandler func(args []any)

// PrintHandler consumes one print message received from a peer.
type PrintHandler func(topic, message string)

// EventArgs names an event and carries its arguments on the wire.
type EventArgs struct {
	Name string
	Args []any
}

// Broker routes topic-addressed messages between local consumers and remote
// peers. Peer read loops run on their own goroutines, so the broker guards
// its tables with a mutex even though the analysis core itself is
// single-threaded.
type Broker struct {
	logger zerolog.Logger

	mu            sync.Mutex
	subscriptions []string
	handlers      map[string][]EventHandler
	autoEvents    map[string]map[string]SendFlags // event name -> topic -> flags
	remoteLogs    map[string]SendFlags            // stream ID -> flags
	peers         []*Peer
	onPrint       PrintHandler
}

// NewBroker creates a broker with no peers and no subscriptions.
func NewBroker(logger zerolog.Logger) *Broker {
	return &Broker{
		logger:     logger.With().Str("component", "bus").Logger(),
		handlers:   make(map[string][]EventHandler),
		autoEvents: make(map[string]map[string]SendFlags),
		remoteLogs: make(map[string]SendFlags),
	}
}

// AddPeer registers a connected peer and starts consuming its envelopes.
func (b *Broker) AddPeer(p *Peer) {
	b.mu.Lock()
	b.peers = append(b.peers, p)
	b.mu.Unlock()
	go p.readLoop(b.handleEnvelope)
	b.logger.Info().Str("peer", p.Addr()).Msg("Peer added")
}

// OnPrint sets the handler for print messages received from peers.
func (b *Broker) OnPrint(h PrintHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPrint = h
}

// RegisterHandler adds a local handler for the named event. Handlers run for
// locally dispatched events and for matching events received from peers.
func (b *Broker) RegisterHandler(event string, h EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], h)
}

// Subscribe adds a topic prefix to the local subscription set. It reports
// false when the prefix is already subscribed.
func (b *Broker) Subscribe(prefix string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subscriptions {
		if s == prefix {
			return false
		}
	}
	b.subscriptions = append(b.subscriptions, prefix)
	b.logger.Debug().Str("prefix", prefix).Msg("Subscribed")
	return true
}

// Unsubscribe removes a previously subscribed prefix. It reports false when
// the prefix was not subscribed.
func (b *Broker) Unsubscribe(prefix string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subscriptions {
		if s == prefix {
			b.subscriptions = append(b.subscriptions[:i], b.subscriptions[i+1:]...)
			b.logger.Debug().Str("prefix", prefix).Msg("Unsubscribed")
			return true
		}
	}
	return false
}

func (b *Broker) subscribedLocked(topic string) bool {
	for _, s := range b.subscriptions {
		if MatchesPrefix(s, topic) {
			return true
		}
	}
	return false
}

// Print publishes a text message under a topic to all peers. It reports
// whether every peer accepted the message.
func (b *Broker) Print(topic, message string, flags SendFlags) bool {
	return b.publish(envelope{Kind: kindPrint, Topic: topic, Message: message}, flags)
}

// Event publishes an event under a topic to all peers.
func (b *Broker) Event(topic string, ev EventArgs, flags SendFlags) bool {
	return b.publish(envelope{Kind: kindEvent, Topic: topic, Event: ev.Name, Args: ev.Args}, flags)
}

// Dispatch runs the local handlers for an event and forwards it to peers
// under every topic registered for it via AutoEvent.
func (b *Broker) Dispatch(ev EventArgs) {
	b.mu.Lock()
	handlers := append([]EventHandler(nil), b.handlers[ev.Name]...)
	var topics []string
	var topicFlags []SendFlags
	for topic, flags := range b.autoEvents[ev.Name] {
		topics = append(topics, topic)
		topicFlags = append(topicFlags, flags)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(ev.Args)
	}
	for i, topic := range topics {
		b.Event(topic, ev, topicFlags[i])
	}
}

// AutoEvent enables forwarding of the named event to peers under topic
// whenever it is dispatched locally. It reports false when that forwarding
// rule already exists.
func (b *Broker) AutoEvent(topic, event string, flags SendFlags) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	byTopic, ok := b.autoEvents[event]
	if !ok {
		byTopic = make(map[string]SendFlags)
		b.autoEvents[event] = byTopic
	}
	if _, exists := byTopic[topic]; exists {
		return false
	}
	byTopic[topic] = flags
	return true
}

// AutoEventStop disables a forwarding rule installed by AutoEvent. It
// reports false when no such rule exists.
func (b *Broker) AutoEventStop(topic, event string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	byTopic, ok := b.autoEvents[event]
	if !ok {
		return false
	}
	if _, exists := byTopic[topic]; !exists {
		return false
	}
	delete(byTopic, topic)
	if len(byTopic) == 0 {
		delete(b.autoEvents, event)
	}
	return true
}

// EnableRemoteLogs starts forwarding records written to the named log stream
// to peers. Enabling an already-enabled stream updates its flags.
func (b *Broker) EnableRemoteLogs(streamID string, flags SendFlags) bool {
	if streamID == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remoteLogs[streamID] = flags
	return true
}

// DisableRemoteLogs stops forwarding the named log stream. It reports false
// when the stream was not enabled.
func (b *Broker) DisableRemoteLogs(streamID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.remoteLogs[streamID]; !ok {
		return false
	}
	delete(b.remoteLogs, streamID)
	return true
}

// RemoteLogsEnabled reports whether the named log stream is being forwarded.
func (b *Broker) RemoteLogsEnabled(streamID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.remoteLogs[streamID]
	return ok
}

// publish encodes an envelope and hands it to every peer. It reports whether
// all peers accepted it; publishing with no peers connected succeeds.
func (b *Broker) publish(env envelope, flags SendFlags) bool {
	data, err := env.encode()
	if err != nil {
		b.logger.Error().Err(err).Str("topic", env.Topic).Msg("Failed to encode envelope")
		return false
	}

	b.mu.Lock()
	peers := append([]*Peer(nil), b.peers...)
	b.mu.Unlock()

	ok := true
	for _, p := range peers {
		if !p.enqueue(data, flags) {
			ok = false
		}
	}
	return ok
}

// handleEnvelope dispatches an envelope received from a peer. Envelopes
// whose topic falls under no subscribed prefix are dropped. Remote events
// run local handlers directly, without re-triggering auto-event forwarding,
// so two mutually peered brokers do not loop.
func (b *Broker) handleEnvelope(env envelope) {
	b.mu.Lock()
	if !b.subscribedLocked(env.Topic) {
		b.mu.Unlock()
		return
	}
	onPrint := b.onPrint
	handlers := append([]EventHandler(nil), b.handlers[env.Event]...)
	b.mu.Unlock()

	switch env.Kind {
	case kindPrint, kindLog:
		if onPrint != nil {
			onPrint(env.Topic, env.Message)
		}
	case kindEvent:
		for _, h := range handlers {
			h(env.Args)
		}
	default:
		b.logger.Warn().Uint8("kind", env.Kind).Msg("Dropping envelope of unknown kind")
	}
}
