package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zingerfi/zingerfi-server/e2ee"
	"github.com/zingerfi/zingerfi-server/types"
)

func TestConfideKeyDirectory(t *testing.T) {
	_, _, service := newTestServices()
	ctx := context.Background()

	priv, _ := e2ee.GenerateKeyPair()
	pub, _ := e2ee.ExportPublicKey(priv.PublicKey())
	exportedPriv, _ := e2ee.ExportPrivateKey(priv)
	sealed, err := e2ee.SealPrivateKey("passphrase", exportedPriv)
	require.NoError(t, err)

	saved, err := service.SaveKey(ctx, alice, &types.InputConfideKey{PublicKey: pub, EncryptedPrivateKey: sealed})
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, saved.ID)

	public, err := service.GetPublicKey(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, pub, public.PublicKey)
	assert.Equal(t, alice.Email, public.Email)

	own, err := service.GetOwnKey(ctx, alice.UserID)
	require.NoError(t, err)
	opened, err := e2ee.OpenPrivateKey("passphrase", own.EncryptedPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, exportedPriv, opened)

	// republishing without a private key keeps the mirrored one
	_, err = service.SaveKey(ctx, alice, &types.InputConfideKey{PublicKey: pub})
	require.NoError(t, err)
	own, _ = service.GetOwnKey(ctx, alice.UserID)
	assert.Equal(t, sealed, own.EncryptedPrivateKey)
	assert.NotZero(t, own.Modified)
}

func TestConfideKeyValidation(t *testing.T) {
	_, _, service := newTestServices()
	ctx := context.Background()

	_, err := service.SaveKey(ctx, alice, &types.InputConfideKey{PublicKey: "bm90IGEga2V5"})
	assert.True(t, errors.Is(err, types.ErrInvalidPublicKey))
	_, err = service.SaveKey(ctx, nil, &types.InputConfideKey{PublicKey: "x"})
	assert.True(t, errors.Is(err, types.ErrUnauthorized))
	_, err = service.GetPublicKey(ctx, "nobody")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}
