package types

// InputFastEncryptInit requests a message uid and the system public key
type InputFastEncryptInit struct {
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
}

// InputFastEncryptDecrypt is the body of the decrypt function
type InputFastEncryptDecrypt struct {
	MessageUID         string `json:"message_uid" validate:"required"`
	EphemeralPublicKey string `json:"ephemeral_public_key" validate:"required"`
	EncryptedData      string `json:"encrypted_data" validate:"required"`
}

// InputConfideKey publishes the caller's Confide public key
type InputConfideKey struct {
	PublicKey           string `json:"publicKey" validate:"required"`
	EncryptedPrivateKey string `json:"encryptedPrivateKey,omitempty"`
}
