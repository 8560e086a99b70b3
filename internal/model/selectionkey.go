package model

import "strings"

// SerializeSelectionKey builds the "<serverName>:<id>" selection key used by
// admin-facing browsers and internal routing.
func SerializeSelectionKey(serverName, id string) string {
	return serverName + ":" + id
}

// ParseSelectionKey splits a selection key on the first ':' only, so ids
// containing colons (e.g. resource URIs) round-trip correctly.
func ParseSelectionKey(key string) (serverName, id string, ok bool) {
	idx := strings.Index(key, ":")
	if idx < 0 {
		return "", "", false
	}
	return key[:idx], key[idx+1:], true
}
