package converters

// HashAlgo represents a supported fingerprint algorithm.
// Use these constants in struct tags: `marshal.hash:"sha256"`
type HashAlgo string

const (
	// HashSHA256 uses SHA-256 (hex, 64 chars).
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 uses SHA-512 (hex, 128 chars).
	HashSHA512 HashAlgo = "sha512"

	// HashBLAKE2b uses BLAKE2b-256 (hex, 64 chars).
	HashBLAKE2b HashAlgo = "blake2b"
)

// EncryptAlgo represents a supported encryption scheme.
// Use these constants in struct tags: `marshal.encrypt:"aes"`
type EncryptAlgo string

const (
	// EncryptAES seals values with AES-GCM.
	EncryptAES EncryptAlgo = "aes"

	// EncryptEnvelope seals values with a per-value data key wrapped by a master key.
	EncryptEnvelope EncryptAlgo = "envelope"
)

// validEncryptAlgos contains all valid encryption schemes for tag validation.
var validEncryptAlgos = map[EncryptAlgo]bool{
	EncryptAES:      true,
	EncryptEnvelope: true,
}

// validHashAlgos contains all valid hash algorithms for tag validation.
var validHashAlgos = map[HashAlgo]bool{
	HashSHA256:  true,
	HashSHA512:  true,
	HashBLAKE2b: true,
}

// validMaskTypes contains all valid mask types for tag validation.
var validMaskTypes = map[MaskType]bool{
	MaskSSN:   true,
	MaskEmail: true,
	MaskPhone: true,
	MaskCard:  true,
	MaskIP:    true,
	MaskUUID:  true,
	MaskIBAN:  true,
	MaskName:  true,
}

// IsValidHashAlgo returns true if the algorithm is a known hash algorithm.
func IsValidHashAlgo(algo HashAlgo) bool {
	return validHashAlgos[algo]
}

// IsValidEncryptAlgo returns true if the algorithm is a known encryption scheme.
func IsValidEncryptAlgo(algo EncryptAlgo) bool {
	return validEncryptAlgos[algo]
}

// IsValidMaskType returns true if the type is a known mask type.
func IsValidMaskType(mt MaskType) bool {
	return validMaskTypes[mt]
}
