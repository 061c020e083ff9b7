package converters

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Hasher replaces a rendered value with a one-way fingerprint.
type Hasher interface {
	// Hash returns the hex-encoded digest of plaintext.
	Hash(plaintext []byte) (string, error)
}

// digestHasher fingerprints values with a hash.Hash constructor.
type digestHasher struct {
	newHash func() (hash.Hash, error)
}

func (h *digestHasher) Hash(plaintext []byte) (string, error) {
	d, err := h.newHash()
	if err != nil {
		return "", fmt.Errorf("init digest: %w", err)
	}
	d.Write(plaintext)
	return hex.EncodeToString(d.Sum(nil)), nil
}

// SHA256Hasher returns a SHA-256 hasher (64 hex chars).
func SHA256Hasher() Hasher {
	return &digestHasher{newHash: func() (hash.Hash, error) { return sha256.New(), nil }}
}

// SHA512Hasher returns a SHA-512 hasher (128 hex chars).
func SHA512Hasher() Hasher {
	return &digestHasher{newHash: func() (hash.Hash, error) { return sha512.New(), nil }}
}

// BLAKE2bHasher returns an unkeyed BLAKE2b-256 hasher (64 hex chars).
func BLAKE2bHasher() Hasher {
	return BLAKE2bKeyedHasher(nil)
}

// BLAKE2bKeyedHasher returns a BLAKE2b-256 MAC keyed with key. Keys longer
// than 64 bytes fail on first use.
func BLAKE2bKeyedHasher(key []byte) Hasher {
	return &digestHasher{newHash: func() (hash.Hash, error) { return blake2b.New256(key) }}
}

// builtinHashers returns the default hasher registry.
func builtinHashers() map[HashAlgo]Hasher {
	return map[HashAlgo]Hasher{
		HashSHA256:  SHA256Hasher(),
		HashSHA512:  SHA512Hasher(),
		HashBLAKE2b: BLAKE2bHasher(),
	}
}
