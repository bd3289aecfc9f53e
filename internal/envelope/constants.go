package envelope

const (
	// FormatVersion is the only envelope format version this codec accepts.
	FormatVersion = 1

	// SaltSize is the size of the per-encryption KDF salt in bytes.
	SaltSize = 16
	// IVSize is the size of an AES-GCM nonce in bytes.
	IVSize = 12
	// KeySize is the size of an AES-256 key in bytes.
	KeySize = 32
	// MACSize is the size of the HMAC-SHA256 tag in bytes.
	MACSize = 32
	// GCMTagSize is the size of the AES-GCM authentication tag in bytes.
	GCMTagSize = 16

	// IdentitySize is the size of the derived bucket identifier in bytes.
	IdentitySize = 16

	// PBKDF2Iterations is the fixed iteration count for passphrase stretching.
	PBKDF2Iterations = 200_000
	// StretchedKeySize is the size of the PBKDF2 intermediate key in bytes.
	StretchedKeySize = 32
)

// Derivation labels. Each label yields key material computationally
// unrelated to the others, so compromise of one derived key does not
// reveal the rest.
const (
	LabelIdentity   = "id"
	LabelEncryption = "enc"
	LabelMAC        = "mac"
)

// identityContext seeds the fixed salt used for bucket identity derivation.
// The string is versioned so a future scheme change can re-key buckets.
const identityContext = "statesync:identity:v1"
