package cache

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// GenerateKey creates a cache key with prefix and ID.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// SanitizeKey maps a key to a filesystem-safe token. A key made only of
// [A-Za-z0-9_-] is returned as is. Otherwise every other rune becomes an
// underscore and a dot plus the key's hash is appended, so distinct keys
// never share a token.
func SanitizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 17)
	changed := false
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
			changed = true
		}
	}
	if !changed {
		return b.String()
	}
	fmt.Fprintf(&b, ".%016x", xxhash.Sum64String(key))
	return b.String()
}

// BuildPattern creates a Redis pattern for key matching.
func BuildPattern(prefix string) string {
	return fmt.Sprintf("%s*", prefix)
}
