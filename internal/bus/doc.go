// Package bus is the topic-addressed publish/subscribe layer that forwards
// analysis events, prints, and log streams between peer instances.
//
// A [Broker] holds the local subscription set, the per-event handler table,
// auto-event forwarding rules, and the remote log stream toggles. Peers are
// websocket connections carrying CBOR-encoded envelopes; incoming envelopes
// are dispatched to local handlers when their topic falls under a subscribed
// prefix.
//
// Topics are hierarchical, slash-delimited strings. A subscription prefix
// matches any topic sharing it as a leading segment sequence: "" matches
// everything, "files" matches "files/analysis" but not "filesystem".
package bus
