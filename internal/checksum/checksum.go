// Package checksum derives HTTP entity tags from snapshot payloads.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ETag returns a strong, quoted entity tag for data.
// The first 16 bytes of the SHA-256 digest are enough to tell snapshots apart.
func ETag(data []byte) string {
	h := sha256.Sum256(data)
	return `"` + hex.EncodeToString(h[:16]) + `"`
}

// Matches reports whether an If-None-Match header value selects etag.
// Weak tags compare equal to their strong form and "*" matches anything.
func Matches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
