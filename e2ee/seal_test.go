package e2ee

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenPrivateKey(t *testing.T) {
	priv, _ := GenerateKeyPair()
	exported, _ := ExportPrivateKey(priv)

	sealed, err := SealPrivateKey("correct horse", exported)
	require.NoError(t, err)
	assert.NotContains(t, sealed, exported)

	opened, err := OpenPrivateKey("correct horse", sealed)
	require.NoError(t, err)
	assert.Equal(t, exported, opened)

	_, err = OpenPrivateKey("battery staple", sealed)
	assert.True(t, errors.Is(err, ErrDecryption))

	_, err = SealPrivateKey("", exported)
	assert.Error(t, err)
}
