package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOriginHost(t *testing.T) {
	assert.Equal(t, "solstice.example", extractOriginHost("https://solstice.example"))
	assert.Equal(t, "localhost:3000", extractOriginHost("http://localhost:3000"))
	assert.Equal(t, "not a url", extractOriginHost("not a url"))
}

func TestMatchOriginPattern(t *testing.T) {
	tests := []struct {
		pattern string
		host    string
		want    bool
	}{
		{"solstice.example", "solstice.example", true},
		{"solstice.example", "evil.example", false},
		{"*.solstice.example", "www.solstice.example", true},
		{"*.solstice.example", "solstice.example.evil.com", false},
		{"localhost:*", "localhost:3000", true},
		{"localhost:*", "remotehost:3000", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchOriginPattern(tt.pattern, tt.host),
			"pattern=%s host=%s", tt.pattern, tt.host)
	}
}
