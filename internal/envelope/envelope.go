package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"io"
	"time"
)

// randReader is the random source for salts and IVs. It defaults to
// crypto/rand and can be overridden for testing.
var randReader = rand.Reader

// timeNow returns the current time. Overridable for testing.
var timeNow = time.Now

// Envelope is the versioned, authenticated container for an encrypted JSON
// value. Byte fields are encoded as URL-safe base64 without padding on the
// wire. An envelope is created fresh on every save and never mutated.
type Envelope struct {
	// V is the format version; only FormatVersion is accepted.
	V int `json:"v"`
	// TS is the creation time in epoch milliseconds. It is also the
	// version key under which the envelope is stored remotely.
	TS int64 `json:"ts"`
	// Salt is the per-encryption key derivation salt.
	Salt Bytes `json:"salt"`
	// IV is the AES-GCM nonce, unique per encryption.
	IV Bytes `json:"iv"`
	// CT is the AES-GCM ciphertext including the authentication tag.
	CT Bytes `json:"ct"`
	// MAC is the HMAC-SHA256 over salt||iv||ct, independent of the GCM tag.
	MAC Bytes `json:"mac"`
}

// Encrypt serializes value to JSON and seals it into a fresh envelope under
// the given passphrase. The salt and IV are freshly random on every call and
// never reused, even for the same passphrase.
func Encrypt(value any, passphrase string) (*Envelope, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return nil, &FormatError{Reason: "value is not JSON-serializable: " + err.Error()}
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return nil, &DerivationError{Reason: "read random salt: " + err.Error()}
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(randReader, iv); err != nil {
		return nil, &DerivationError{Reason: "read random IV: " + err.Error()}
	}

	encKey, macKey, err := deriveKeys(passphrase, salt)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(encKey)
	if err != nil {
		return nil, err
	}
	ct := gcm.Seal(nil, iv, plaintext, nil)

	return &Envelope{
		V:    FormatVersion,
		TS:   timeNow().UnixMilli(),
		Salt: salt,
		IV:   iv,
		CT:   ct,
		MAC:  computeMAC(macKey, salt, iv, ct),
	}, nil
}

// Decrypt verifies and opens an envelope, returning the JSON plaintext.
//
// The standalone MAC is verified in constant time before any AEAD
// decryption is attempted; on mismatch the ciphertext is never touched.
// MAC and AEAD failures both surface as IntegrityError with no
// distinguishing detail.
func Decrypt(env *Envelope, passphrase string) (json.RawMessage, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}

	encKey, macKey, err := deriveKeys(passphrase, env.Salt)
	if err != nil {
		return nil, err
	}

	expected := computeMAC(macKey, env.Salt, env.IV, env.CT)
	if !hmac.Equal(expected, env.MAC) {
		return nil, &IntegrityError{}
	}

	gcm, err := newGCM(encKey)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, env.IV, env.CT, nil)
	if err != nil {
		// The GCM tag is independent of the MAC, so this can fail even
		// after a MAC match.
		return nil, &IntegrityError{}
	}

	if !json.Valid(plaintext) {
		return nil, &FormatError{Reason: "plaintext is not valid JSON"}
	}

	return json.RawMessage(plaintext), nil
}

// validate checks the structural invariants of a wire envelope.
func (e *Envelope) validate() error {
	if e == nil {
		return &FormatError{Reason: "nil envelope"}
	}
	if e.V != FormatVersion {
		return &FormatError{Field: "v", Reason: "unsupported format version"}
	}
	if e.TS <= 0 {
		return &FormatError{Field: "ts", Reason: "missing or non-positive timestamp"}
	}
	if len(e.Salt) != SaltSize {
		return &FormatError{Field: "salt", Reason: "wrong length"}
	}
	if len(e.IV) != IVSize {
		return &FormatError{Field: "iv", Reason: "wrong length"}
	}
	if len(e.CT) < GCMTagSize {
		return &FormatError{Field: "ct", Reason: "shorter than authentication tag"}
	}
	if len(e.MAC) != MACSize {
		return &FormatError{Field: "mac", Reason: "wrong length"}
	}
	return nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &DerivationError{Reason: "create cipher: " + err.Error()}
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, &DerivationError{Reason: "create GCM: " + err.Error()}
	}
	return gcm, nil
}

// computeMAC computes HMAC-SHA256 over the raw salt||iv||ct bytes, before
// any transport encoding.
func computeMAC(macKey, salt, iv, ct []byte) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(salt)
	mac.Write(iv)
	mac.Write(ct)
	return mac.Sum(nil)
}
