package types

type OutputFastEncryptInit struct {
	MessageUID      string `json:"message_uid"`
	SystemPublicKey string `json:"system_public_key"`
	KeyPairVersion  int    `json:"keypair_version"`
}

type OutputFastEncryptDecrypt struct {
	DecryptedMessage string `json:"decrypted_message"`
}

type OutputSystemPublicKey struct {
	PublicKey string `json:"public_key"`
	Version   int    `json:"version"`
}

// OutputSentMessage is the sender's view of a FastEncrypt record
type OutputSentMessage struct {
	MessageUID     string `json:"message_uid"`
	RecipientEmail string `json:"recipient_email"`
	IsDecrypted    bool   `json:"is_decrypted"`
	DecryptedAt    int64  `json:"decrypted_at,omitempty"`
	Created        int64  `json:"created"`
}

// OutputReceivedMessage is the recipient's view of a FastEncrypt record
type OutputReceivedMessage struct {
	MessageUID  string `json:"message_uid"`
	SenderEmail string `json:"sender_email"`
	IsDecrypted bool   `json:"is_decrypted"`
	DecryptedAt int64  `json:"decrypted_at,omitempty"`
	Created     int64  `json:"created"`
}

// OutputConfidePublicKey never includes the encrypted private key
type OutputConfidePublicKey struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	PublicKey string `json:"publicKey"`
}

// OutputError is the body of every failed request
type OutputError struct {
	Error string    `json:"error"`
	Kind  ErrorKind `json:"kind"`
}
