package bus

import "strings"

// MatchesPrefix reports whether topic falls under the given hierarchical
// prefix. The empty prefix matches every topic; otherwise the prefix must
// equal the topic or be a leading sequence of its slash-delimited segments,
// so "a" matches "a" and "a/b" but neither "ab" nor "b".
func MatchesPrefix(prefix, topic string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return true
	}
	if topic == prefix {
		return true
	}
	return strings.HasPrefix(topic, prefix+"/")
}
