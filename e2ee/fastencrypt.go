package e2ee

import (
	"crypto/ecdh"
	"fmt"
)

// FastEncryptResult holds the two values that, with the message uid, make up a FEID payload
type FastEncryptResult struct {
	EphemeralPublicKey string `json:"ephemeral_public_key"`
	Ciphertext         string `json:"encrypted_data"`
}

// FastEncrypt encrypts plaintext against the system public key with a single-use ephemeral key pair.
// The ephemeral private key never leaves this function.
func FastEncrypt(plaintext, systemPublicKey string) (*FastEncryptResult, error) {
	systemPub, err := ImportPublicKey(systemPublicKey)
	if err != nil {
		return nil, err
	}

	key, ephemeralPub, err := ephemeralSharedKey(systemPub)
	if err != nil {
		return nil, err
	}

	sealed, err := seal(key, []byte(plaintext))
	if err != nil {
		return nil, err
	}
	exported, err := ExportPublicKey(ephemeralPub)
	if err != nil {
		return nil, err
	}
	return &FastEncryptResult{
		EphemeralPublicKey: exported,
		Ciphertext:         BytesToBase64(sealed),
	}, nil
}

func ephemeralSharedKey(systemPub *ecdh.PublicKey) ([]byte, *ecdh.PublicKey, error) {
	ephemeral, err := GenerateKeyPair()
	if err != nil {
		return nil, nil, err
	}
	key, err := sharedKey(ephemeral, systemPub)
	if err != nil {
		return nil, nil, err
	}
	return key, ephemeral.PublicKey(), nil
}

// FastDecrypt is the server side mirror of FastEncrypt (system private + ephemeral public)
func FastDecrypt(systemPriv *ecdh.PrivateKey, ephemeralPublicKey, ciphertext string) (string, error) {
	ephemeralPub, err := ImportPublicKey(ephemeralPublicKey)
	if err != nil {
		return "", err
	}
	data, err := Base64ToBytes(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryption, err.Error())
	}
	key, err := sharedKey(systemPriv, ephemeralPub)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryption, err.Error())
	}
	plaintext, err := open(key, data)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
