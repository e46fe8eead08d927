package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// InputHash fingerprints raw input bytes together with the format they were
// read as, so the same file parsed two ways caches separately.
func InputHash(format string, raw []byte) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}
