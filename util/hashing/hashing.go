package hashing

import (
	"crypto/sha256"
	"encoding/hex"
)

// GenerateStringHash returns the hex-encoded sha256 digest of data.
func GenerateStringHash(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}
