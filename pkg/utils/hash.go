package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CacheKey builds a stable key from the given parts.
// The result only contains [0-9a-f] and is usable as file name and KV key.
func CacheKey(parts ...string) string {
	hasher := sha256.New()
	hasher.Write([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hasher.Sum(nil))
}
