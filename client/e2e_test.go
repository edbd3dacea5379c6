package client

import (
	"context"
	"crypto/ed25519"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zingerfi/zingerfi-server/api/interceptors"
	"github.com/zingerfi/zingerfi-server/apiroutes"
	"github.com/zingerfi/zingerfi-server/e2ee"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/repository"
	"github.com/zingerfi/zingerfi-server/types"
)

func startServer(t *testing.T) (string, ed25519.PrivateKey) {
	gin.SetMode(gin.TestMode)
	global.Conf.FastEncrypt.KeyEncryptionSecret = "client-e2e-secret"

	selector := repository.NewMemorySelector()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	srv := httptest.NewServer(apiroutes.ConfigRoutes(gin.New(), selector, types.NewEnvironment(nil), pub))
	t.Cleanup(srv.Close)
	return srv.URL, priv
}

func clientFor(t *testing.T, url string, priv ed25519.PrivateKey, userID, email string) *Client {
	token, err := interceptors.GenerateJWSToken(priv, userID, email, time.Hour)
	require.NoError(t, err)
	return New(url, token)
}

func TestFastEncryptEndToEnd(t *testing.T) {
	url, priv := startServer(t)
	ctx := context.Background()
	alice := clientFor(t, url, priv, "alice-id", "alice@gmail.com")
	bob := clientFor(t, url, priv, "bob-id", "Bob@Gmail.com")
	eve := clientFor(t, url, priv, "eve-id", "eve@gmail.com")

	payload, err := alice.SendFastEncrypt(ctx, "bob@gmail.com", "meet at noon")
	require.NoError(t, err)

	_, err = eve.OpenFastEncrypt(ctx, payload)
	assert.True(t, IsKind(err, types.KindForbidden))

	plaintext, err := bob.OpenFastEncrypt(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "meet at noon", plaintext)

	_, err = bob.OpenFastEncrypt(ctx, payload)
	assert.True(t, IsKind(err, types.KindConflict))

	sent, err := alice.ListSent(ctx)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.True(t, sent[0].IsDecrypted)

	received, err := bob.ListReceived(ctx)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "alice@gmail.com", received[0].SenderEmail)

	received, err = eve.ListReceived(ctx)
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestConfideEndToEnd(t *testing.T) {
	url, priv := startServer(t)
	ctx := context.Background()
	alice := clientFor(t, url, priv, "alice-id", "alice@gmail.com")
	bob := clientFor(t, url, priv, "bob-id", "bob@gmail.com")

	alicePriv, err := e2ee.GenerateKeyPair()
	require.NoError(t, err)
	bobPriv, err := e2ee.GenerateKeyPair()
	require.NoError(t, err)
	alicePub, _ := e2ee.ExportPublicKey(alicePriv.PublicKey())
	bobPub, _ := e2ee.ExportPublicKey(bobPriv.PublicKey())

	_, err = alice.PublishConfideKey(ctx, alicePub, "")
	require.NoError(t, err)
	_, err = bob.PublishConfideKey(ctx, bobPub, "")
	require.NoError(t, err)

	bobKey, err := alice.GetConfidePublicKey(ctx, "bob-id")
	require.NoError(t, err)
	bobImported, err := e2ee.ImportPublicKey(bobKey.PublicKey)
	require.NoError(t, err)
	ciphertext, err := e2ee.EncryptMessage("hi bob", bobImported, alicePriv)
	require.NoError(t, err)

	aliceKey, err := bob.GetConfidePublicKey(ctx, "alice-id")
	require.NoError(t, err)
	aliceImported, err := e2ee.ImportPublicKey(aliceKey.PublicKey)
	require.NoError(t, err)
	plaintext, err := e2ee.DecryptMessage(ciphertext, aliceImported, bobPriv)
	require.NoError(t, err)
	assert.Equal(t, "hi bob", plaintext)

	_, err = alice.GetConfidePublicKey(ctx, "nobody")
	assert.True(t, IsKind(err, types.KindNotFound))
}
