package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSelectionKey_RoundTrip checks that parsing a key formatted by
// SerializeSelectionKey always recovers the original server/id pair.
func TestSelectionKey_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		server string
		id     string
	}{
		{"github", "create_issue"},
		{"files", "files://docs/a:b.md"},
		{"a", ""},
	}

	for _, tt := range tests {
		key := SerializeSelectionKey(tt.server, tt.id)
		gotServer, gotID, ok := ParseSelectionKey(key)
		assert.True(t, ok)
		assert.Equal(t, tt.server, gotServer)
		assert.Equal(t, tt.id, gotID)
	}
}

func TestParseSelectionKey_SplitsOnFirstColonOnly(t *testing.T) {
	t.Parallel()

	server, id, ok := ParseSelectionKey("files:files://docs/a:b.md")
	assert.True(t, ok)
	assert.Equal(t, "files", server)
	assert.Equal(t, "files://docs/a:b.md", id)
}

func TestParseSelectionKey_NoColonFails(t *testing.T) {
	t.Parallel()

	_, _, ok := ParseSelectionKey("no-colon-here")
	assert.False(t, ok)
}
