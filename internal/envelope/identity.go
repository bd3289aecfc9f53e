package envelope

import "crypto/sha256"

// identitySalt returns the fixed salt used for bucket identity derivation.
// Unlike encryption salts, the identity salt is deterministic: it is the
// truncated SHA-256 of a versioned context string, so the same passphrase
// always addresses the same remote bucket.
func identitySalt() []byte {
	sum := sha256.Sum256([]byte(identityContext))
	return sum[:SaltSize]
}

// DeriveIdentity derives the stable bucket identifier for a passphrase,
// encoded as URL-safe base64 without padding.
func DeriveIdentity(passphrase string) (string, error) {
	id, err := Derive(passphrase, LabelIdentity, IdentitySize, identitySalt())
	if err != nil {
		return "", err
	}
	return ToBase64URL(id), nil
}
