package types

// EncryptedMessage is the server record of a FastEncrypt message.
// It never holds plaintext or ciphertext; IsDecrypted flips false->true exactly once.
type EncryptedMessage struct {
	BaseDocument   `json:",inline"` // _id is the message uid
	SenderID       string           `json:"senderId"`
	SenderEmail    string           `json:"senderEmail,omitempty"`
	RecipientEmail string           `json:"recipientEmail"` // normalized (lowercase)
	KeyPairVersion int              `json:"keypairVersion"`
	IsDecrypted    bool             `json:"isDecrypted"`
	DecryptedAt    int64            `json:"decryptedAt,omitempty"`
	Created        int64            `json:"created"`
}
