package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zingerfi/zingerfi-server/e2ee"
	"github.com/zingerfi/zingerfi-server/types"
)

func (c *Client) InitFastEncrypt(ctx context.Context, recipientEmail string) (*types.OutputFastEncryptInit, error) {
	var out types.OutputFastEncryptInit
	if err := c.Invoke(ctx, "fastencrypt-init", &types.InputFastEncryptInit{RecipientEmail: recipientEmail}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DecryptFastEncrypt(ctx context.Context, payload *e2ee.Payload) (string, error) {
	input := &types.InputFastEncryptDecrypt{
		MessageUID:         payload.MessageUID,
		EphemeralPublicKey: payload.EphemeralPublicKey,
		EncryptedData:      payload.Ciphertext,
	}
	var out types.OutputFastEncryptDecrypt
	if err := c.Invoke(ctx, "fastencrypt-decrypt", input, &out); err != nil {
		return "", err
	}
	return out.DecryptedMessage, nil
}

// SendFastEncrypt registers a message for recipientEmail and returns the FEID payload to share
func (c *Client) SendFastEncrypt(ctx context.Context, recipientEmail, plaintext string) (string, error) {
	init, err := c.InitFastEncrypt(ctx, recipientEmail)
	if err != nil {
		return "", err
	}
	result, err := e2ee.FastEncrypt(plaintext, init.SystemPublicKey)
	if err != nil {
		return "", err
	}
	return e2ee.FormatPayload(init.MessageUID, result.EphemeralPublicKey, result.Ciphertext), nil
}

// OpenFastEncrypt decrypts a shared FEID payload. A payload can be opened once.
func (c *Client) OpenFastEncrypt(ctx context.Context, payload string) (string, error) {
	parsed, ok := e2ee.ParsePayload(payload)
	if !ok {
		return "", fmt.Errorf("%w: not a FEID payload", types.ErrBadRequest)
	}
	return c.DecryptFastEncrypt(ctx, parsed)
}

func (c *Client) GetSystemPublicKey(ctx context.Context) (*types.OutputSystemPublicKey, error) {
	var out types.OutputSystemPublicKey
	if err := c.do(ctx, http.MethodGet, "/api/v1/fastencrypt/system-key", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSent(ctx context.Context) ([]*types.OutputSentMessage, error) {
	out := []*types.OutputSentMessage{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/fastencrypt/sent", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListReceived(ctx context.Context) ([]*types.OutputReceivedMessage, error) {
	out := []*types.OutputReceivedMessage{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/fastencrypt/received", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
