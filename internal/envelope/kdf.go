package envelope

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// Derive produces length bytes of key material from a passphrase and salt.
//
// The passphrase is first stretched with PBKDF2-HMAC-SHA256 at a fixed,
// high iteration count to resist brute-force guessing of low-entropy
// passphrases. The stretched key is then expanded with HKDF-SHA256 using
// the same salt and the label as the info string, so the same stretched
// key yields unrelated outputs per label.
//
// Derive is pure: identical inputs always produce identical output.
func Derive(passphrase, label string, length int, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, &DerivationError{Reason: "empty passphrase"}
	}
	if length <= 0 {
		return nil, &DerivationError{Reason: "non-positive output length"}
	}

	stretched := pbkdf2.Key([]byte(passphrase), salt, PBKDF2Iterations, StretchedKeySize, sha256.New)

	reader := hkdf.New(sha256.New, stretched, salt, []byte(label))
	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, &DerivationError{Reason: err.Error()}
	}

	return out, nil
}

// deriveKeys derives the encryption and MAC keys for a given salt.
func deriveKeys(passphrase string, salt []byte) (encKey, macKey []byte, err error) {
	encKey, err = Derive(passphrase, LabelEncryption, KeySize, salt)
	if err != nil {
		return nil, nil, err
	}
	macKey, err = Derive(passphrase, LabelMAC, KeySize, salt)
	if err != nil {
		return nil, nil, err
	}
	return encKey, macKey, nil
}
