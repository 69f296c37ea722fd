package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken derives the cache-scope key for a bearer token. The raw
// token never appears in cache keys or logs.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
