package types

const (
	// ActiveKeyPairDocID is the pointer document holding the active system key pair version
	ActiveKeyPairDocID = "active"
)

// SystemKeyPair is one version of the server-held FastEncrypt key pair.
// Versions are never deleted: pending messages reference them by version.
type SystemKeyPair struct {
	BaseDocument        `json:",inline"`
	Version             int    `json:"version"`
	PublicKey           string `json:"publicKey"`           // SPKI base64
	EncryptedPrivateKey string `json:"encryptedPrivateKey"` // sealed PKCS8 base64
	IsActive            bool   `json:"isActive"`
	Created             int64  `json:"created"`
}

// ActiveKeyPair points at the active SystemKeyPair version
type ActiveKeyPair struct {
	BaseDocument `json:",inline"`
	Version      int   `json:"version"`
	Modified     int64 `json:"modified"`
}
