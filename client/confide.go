package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/zingerfi/zingerfi-server/types"
)

// PublishConfideKey stores the caller's public key and, optionally, its sealed private key
func (c *Client) PublishConfideKey(ctx context.Context, publicKey, encryptedPrivateKey string) (*types.ConfideKey, error) {
	var out types.ConfideKey
	input := &types.InputConfideKey{PublicKey: publicKey, EncryptedPrivateKey: encryptedPrivateKey}
	if err := c.do(ctx, http.MethodPut, "/api/v1/confide/keys", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetConfidePublicKey(ctx context.Context, userID string) (*types.OutputConfidePublicKey, error) {
	var out types.OutputConfidePublicKey
	if err := c.do(ctx, http.MethodGet, "/api/v1/confide/keys/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOwnConfideKey(ctx context.Context) (*types.ConfideKey, error) {
	var out types.ConfideKey
	if err := c.do(ctx, http.MethodGet, "/api/v1/confide/keys/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
