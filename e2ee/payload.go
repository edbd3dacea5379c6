package e2ee

import (
	"strings"

	"github.com/google/uuid"
)

// PayloadPrefix tags a shareable FastEncrypt payload
const PayloadPrefix = "FEID:"

// Payload is the parsed form of FEID:<messageUid>:<ephemeralPublicKey>:<ciphertext>
type Payload struct {
	MessageUID         string `json:"message_uid"`
	EphemeralPublicKey string `json:"ephemeral_public_key"`
	Ciphertext         string `json:"encrypted_data"`
}

// NewMessageUID returns a canonical UUID v4. Message uids must never contain a colon.
func NewMessageUID() string {
	return uuid.NewString()
}

// FormatPayload joins the fields into the shareable string. Arguments are not validated.
func FormatPayload(messageUID, ephemeralPublicKey, ciphertext string) string {
	return PayloadPrefix + messageUID + ":" + ephemeralPublicKey + ":" + ciphertext
}

// ParsePayload splits a shareable payload into its fields.
// Returns false if the prefix is missing, a field is missing or any field is empty.
func ParsePayload(payload string) (*Payload, bool) {
	trimmed := strings.TrimSpace(payload)
	if !strings.HasPrefix(trimmed, PayloadPrefix) {
		return nil, false
	}
	fields := strings.SplitN(strings.TrimPrefix(trimmed, PayloadPrefix), ":", 3)
	if len(fields) < 3 {
		return nil, false
	}
	for _, f := range fields {
		if f == "" {
			return nil, false
		}
	}
	return &Payload{
		MessageUID:         fields[0],
		EphemeralPublicKey: fields[1],
		Ciphertext:         fields[2],
	}, true
}
