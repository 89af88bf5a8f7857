package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		topic  string
		want   bool
	}{
		// The empty prefix matches every topic.
		{"", "a/b", true},
		{"", "x", true},
		// A prefix matches any topic sharing it as a leading segment sequence.
		{"a", "a/b", true},
		{"a", "a", true},
		{"a", "b", false},
		{"a", "ab", false},
		{"a/b", "a/b/c", true},
		{"a/b", "a/bc", false},
		{"a/b", "a", false},
		// A trailing slash on the prefix is ignored.
		{"a/", "a/b", true},
		{"a/", "ab", false},
	}

	for _, tt := range tests {
		got := MatchesPrefix(tt.prefix, tt.topic)
		assert.Equal(t, tt.want, got, "MatchesPrefix(%q, %q)", tt.prefix, tt.topic)
	}
}
