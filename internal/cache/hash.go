package cache

import (
	"encoding/hex"
	"fmt"
	"unicode/utf16"

	"github.com/zeebo/blake3"
)

// FNV-1a 32-bit parameters
const (
	fingerprintSeed  uint32 = 0x811C9DC5
	fingerprintPrime uint32 = 0x01000193
)

// Fingerprint hashes a source path with FNV-1a over its UTF-16 code units.
// Hashing code units rather than UTF-8 bytes keeps object names identical
// to those produced by earlier JavaScript tooling for non-ASCII paths.
func Fingerprint(path string) uint32 {
	h := fingerprintSeed
	for _, unit := range utf16.Encode([]rune(path)) {
		h ^= uint32(unit)
		h *= fingerprintPrime
	}

	return h
}

// FingerprintHex renders Fingerprint as an 8-digit lowercase hex token
func FingerprintHex(path string) string {
	return fmt.Sprintf("%08x", Fingerprint(path))
}

// Digest returns the hex BLAKE3 digest of data, used to identify
// object snapshots in logs
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
