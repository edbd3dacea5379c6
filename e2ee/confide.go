package e2ee

import (
	"crypto/ecdh"
	"fmt"
)

// EncryptMessage encrypts plaintext for the owner of recipientPub using the sender's static key.
// Static-static ECDH: the two public keys alone fix the shared key, so there is no forward secrecy.
func EncryptMessage(plaintext string, recipientPub *ecdh.PublicKey, ownPriv *ecdh.PrivateKey) (string, error) {
	key, err := sharedKey(ownPriv, recipientPub)
	if err != nil {
		return "", err
	}
	sealed, err := seal(key, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return BytesToBase64(sealed), nil
}

// DecryptMessage reverses EncryptMessage. It holds no state and may be called any number of times.
func DecryptMessage(ciphertext string, senderPub *ecdh.PublicKey, ownPriv *ecdh.PrivateKey) (string, error) {
	data, err := Base64ToBytes(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryption, err.Error())
	}
	key, err := sharedKey(ownPriv, senderPub)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryption, err.Error())
	}
	plaintext, err := open(key, data)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
