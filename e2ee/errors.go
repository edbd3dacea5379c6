package e2ee

import "errors"

var (
	// ErrDecode is returned for malformed base64 input
	ErrDecode = errors.New("malformed base64")

	// ErrKeyImport is returned when key material can't be parsed as a P-256 key
	ErrKeyImport = errors.New("invalid key material")

	// ErrDecryption is returned when the AEAD tag does not verify (wrong key, tampered or corrupt input).
	// Wrong key and tampering are intentionally not distinguished.
	ErrDecryption = errors.New("decryption failed")
)
