package e2ee

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// NonceSize is the AES-GCM nonce length prefixed to every ciphertext
	NonceSize = 12
	keySize   = 32
	tagSize   = 16
)

// sharedKey derives the AES-256 key from an ECDH exchange.
// The raw 32-byte P-256 shared secret is the key, which matches WebCrypto deriveKey(ECDH, AES-GCM 256).
func sharedKey(priv *ecdh.PrivateKey, pub *ecdh.PublicKey) ([]byte, error) {
	secret, err := priv.ECDH(pub)
	if err != nil {
		return nil, err
	}
	if len(secret) != keySize {
		return nil, fmt.Errorf("unexpected shared secret length %d", len(secret))
	}
	return secret, nil
}

// seal encrypts plaintext and returns nonce || ciphertext || tag
func seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	out := make([]byte, 0, NonceSize+len(plaintext)+tagSize)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// open reverses seal. Every failure is reported as ErrDecryption.
func open(key, data []byte) ([]byte, error) {
	if len(data) < NonceSize+tagSize {
		return nil, fmt.Errorf("%w: input too short", ErrDecryption)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecryption, err.Error())
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecryption, err.Error())
	}
	plaintext, err := gcm.Open(nil, data[:NonceSize], data[NonceSize:], nil)
	if err != nil {
		return nil, ErrDecryption
	}
	return plaintext, nil
}
