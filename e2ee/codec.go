package e2ee

import (
	"encoding/base64"
	"fmt"
)

// BytesToBase64 encodes b with the standard (padded) base64 alphabet
func BytesToBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64ToBytes decodes standard base64. Invalid alphabet or padding returns ErrDecode.
func Base64ToBytes(text string) ([]byte, error) {
	decoded, err := base64.StdEncoding.Strict().DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecode, err.Error())
	}
	return decoded, nil
}
