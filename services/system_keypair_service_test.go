package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zingerfi/zingerfi-server/e2ee"
)

func TestGetOrCreateActiveKeyPairCreatesOnce(t *testing.T) {
	keyPairService, _, _ := newTestServices()
	ctx := context.Background()

	first, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.True(t, first.IsActive)

	second, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.PublicKey, second.PublicKey)
}

func TestGetOrCreateActiveKeyPairConcurrent(t *testing.T) {
	keyPairService, _, _ := newTestServices()
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pair, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
			if assert.NoError(t, err) {
				results[i] = pair.PublicKey
			}
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}

func TestSystemPrivateKeyMatchesPublicKey(t *testing.T) {
	keyPairService, _, _ := newTestServices()
	ctx := context.Background()

	pair, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)
	stored, err := keyPairService.GetKeyPair(ctx, pair.Version)
	require.NoError(t, err)
	priv, err := keyPairService.PrivateKey(stored)
	require.NoError(t, err)

	exported, err := e2ee.ExportPublicKey(priv.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, pair.PublicKey, exported)
}

func TestRotateKeepsOldVersions(t *testing.T) {
	keyPairService, _, _ := newTestServices()
	ctx := context.Background()

	v1, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)
	v2, err := keyPairService.Rotate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)
	assert.NotEqual(t, v1.PublicKey, v2.PublicKey)

	active, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, active.Version)

	old, err := keyPairService.GetKeyPair(ctx, 1)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
	_, err = keyPairService.PrivateKey(old)
	assert.NoError(t, err)
}

func TestRotateWithoutActiveCreatesFirst(t *testing.T) {
	keyPairService, _, _ := newTestServices()
	pair, err := keyPairService.Rotate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pair.Version)
}

func TestRotateScheduled(t *testing.T) {
	keyPairService, _, _ := newTestServices()
	ctx := context.Background()

	first, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)

	keyPairService.RotateScheduled()

	active, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Version+1, active.Version)
}

func TestRotateAdoptsUnreferencedNextVersion(t *testing.T) {
	keyPairService, _, _ := newTestServices()
	ctx := context.Background()

	_, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)

	// v2 stored, pointer never moved
	orphan, err := keyPairService.createVersion(ctx, 2)
	require.NoError(t, err)

	rotated, err := keyPairService.Rotate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rotated.Version)
	assert.Equal(t, orphan.PublicKey, rotated.PublicKey)

	active, err := keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, active.Version)

	old, err := keyPairService.GetKeyPair(ctx, 1)
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	// rotation keeps working afterwards
	keyPairService.RotateScheduled()
	active, err = keyPairService.GetOrCreateActiveKeyPair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, active.Version)
}
