package e2ee

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/x509"
	"fmt"
)

// GenerateKeyPair creates a fresh P-256 ECDH key pair
func GenerateKeyPair() (*ecdh.PrivateKey, error) {
	return ecdh.P256().GenerateKey(rand.Reader)
}

// ExportPublicKey serializes the public key as SPKI DER, base64 encoded
func ExportPublicKey(key *ecdh.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", err
	}
	return BytesToBase64(der), nil
}

// ExportPrivateKey serializes the private key as PKCS8 DER, base64 encoded
func ExportPrivateKey(key *ecdh.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", err
	}
	return BytesToBase64(der), nil
}

// ImportPublicKey parses a base64 SPKI P-256 public key
func ImportPublicKey(spkiBase64 string) (*ecdh.PublicKey, error) {
	der, err := Base64ToBytes(spkiBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyImport, err.Error())
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyImport, err.Error())
	}
	var pub *ecdh.PublicKey
	switch k := parsed.(type) {
	case *ecdsa.PublicKey:
		pub, err = k.ECDH()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrKeyImport, err.Error())
		}
	case *ecdh.PublicKey:
		pub = k
	default:
		return nil, fmt.Errorf("%w: unsupported key type %T", ErrKeyImport, parsed)
	}
	if pub.Curve() != ecdh.P256() {
		return nil, fmt.Errorf("%w: not a P-256 key", ErrKeyImport)
	}
	return pub, nil
}

// ImportPrivateKey parses a base64 PKCS8 P-256 private key
func ImportPrivateKey(pkcs8Base64 string) (*ecdh.PrivateKey, error) {
	der, err := Base64ToBytes(pkcs8Base64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyImport, err.Error())
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyImport, err.Error())
	}
	var priv *ecdh.PrivateKey
	switch k := parsed.(type) {
	case *ecdsa.PrivateKey:
		priv, err = k.ECDH()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrKeyImport, err.Error())
		}
	case *ecdh.PrivateKey:
		priv = k
	default:
		return nil, fmt.Errorf("%w: unsupported key type %T", ErrKeyImport, parsed)
	}
	if priv.Curve() != ecdh.P256() {
		return nil, fmt.Errorf("%w: not a P-256 key", ErrKeyImport)
	}
	return priv, nil
}
