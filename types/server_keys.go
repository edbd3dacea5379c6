package types

// ServerKeys is the file format of the Ed25519 keys that sign and verify bearer tokens
type ServerKeys struct {
	Type       string `json:"type"`
	PublicKey  string `json:"publicKey,omitempty"`
	PrivateKey string `json:"privateKey"`
	Created    int64  `json:"created"`
}
