package types

// ConfideKey is a user's published Confide public key, with an optional sealed copy of the private key
type ConfideKey struct {
	BaseDocument        `json:",inline"` // _id is the user id
	UserID              string           `json:"userId"`
	Email               string           `json:"email"`
	PublicKey           string           `json:"publicKey" validate:"required"`
	EncryptedPrivateKey string           `json:"encryptedPrivateKey,omitempty"` // opaque to the server
	Created             int64            `json:"created"`
	Modified            int64            `json:"modified,omitempty"`
}
