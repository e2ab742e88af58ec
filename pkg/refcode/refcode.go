package refcode

import (
	"crypto/rand"
	"encoding/hex"
)

// New returns a public application reference code: exactly 32 lowercase
// hex characters, no separators or prefixes.
func New() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
