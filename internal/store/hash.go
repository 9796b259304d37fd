package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// domainRender namespaces cache keys. The version suffix enables future
// algorithm migration without colliding with old rows.
const domainRender = "bbhtml/render/v1"

// InputHash computes the content-addressed cache key for raw markup.
// Format: SHA256(domain + 0x00 + input); the null separator prevents
// domain/data boundary ambiguity.
func InputHash(input string) string {
	h := sha256.New()
	h.Write([]byte(domainRender))
	h.Write([]byte{0x00})
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
