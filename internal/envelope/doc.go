// Package envelope implements the authenticated-encryption envelope format
// used to protect synchronized state at rest.
//
// An envelope wraps a JSON value with AES-256-GCM under keys derived from a
// user passphrase. Key material is produced by PBKDF2-HMAC-SHA256 stretching
// followed by HKDF-SHA256 expansion, with distinct labels for the bucket
// identity, the encryption key, and the MAC key. A standalone HMAC-SHA256
// over the envelope body is verified before any AEAD decryption is attempted.
package envelope
