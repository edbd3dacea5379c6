package e2ee

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

var (
	scryptN    = 32768 // N = CPU/memory cost parameter
	scryptR    = 8     // r and p must satisfy r * p < 2^30
	scryptP    = 1
	saltLength = 16
)

// SealPrivateKey encrypts an exported private key under a passphrase (scrypt + AES-256-GCM).
// Output: base64(salt || nonce || ciphertext || tag)
func SealPrivateKey(passphrase, privateKey string) (string, error) {
	if passphrase == "" {
		return "", fmt.Errorf("empty passphrase")
	}
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return "", err
	}
	sealed, err := seal(key, []byte(privateKey))
	if err != nil {
		return "", err
	}
	return BytesToBase64(append(salt, sealed...)), nil
}

// OpenPrivateKey reverses SealPrivateKey. A wrong passphrase returns ErrDecryption.
func OpenPrivateKey(passphrase, sealedKey string) (string, error) {
	data, err := Base64ToBytes(sealedKey)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryption, err.Error())
	}
	if len(data) < saltLength {
		return "", fmt.Errorf("%w: input too short", ErrDecryption)
	}
	key, err := scrypt.Key([]byte(passphrase), data[:saltLength], scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return "", err
	}
	plaintext, err := open(key, data[saltLength:])
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
