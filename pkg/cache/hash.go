package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a key of the form prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 digest of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
