package util

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zingerfi/zingerfi-server/types"
)

// Generated ed25519 signing key pair and returns base64 public key, private key
// returns publicKey, privateKey, error
func GenerateEd25519KeyPair() (*string, *string, error) {
	pubKey, privKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, nil, err
	}

	pubKeyBase64 := base64.StdEncoding.EncodeToString(pubKey)
	privKeyBase64 := base64.StdEncoding.EncodeToString(privKey)
	return &pubKeyBase64, &privKeyBase64, nil
}

// LoadServerKeys reads the token signing keys file (see `zingerfi keys`)
func LoadServerKeys(path string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	serverKeysBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var serverKeys types.ServerKeys
	if err := json.Unmarshal(serverKeysBytes, &serverKeys); err != nil {
		return nil, nil, err
	}
	decodedPrivBytes, err := base64.StdEncoding.DecodeString(serverKeys.PrivateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode servers private key: %w", err)
	}
	if len(decodedPrivBytes) != ed25519.PrivateKeySize {
		return nil, nil, fmt.Errorf("invalid private key length %d", len(decodedPrivBytes))
	}
	privateKey := ed25519.PrivateKey(decodedPrivBytes)
	// The public key is the last 32 bytes of the private key
	return privateKey.Public().(ed25519.PublicKey), privateKey, nil
}
