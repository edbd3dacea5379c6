package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zingerfi/zingerfi-server/types"
)

func TestMemoryCreateIfNone(t *testing.T) {
	repo := NewMemoryRepository("test")
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a", &types.ActiveKeyPair{Version: 1}))
	err := repo.Save(ctx, "a", &types.ActiveKeyPair{Version: 2})
	assert.True(t, errors.Is(err, types.ErrConflict))

	res, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	var active types.ActiveKeyPair
	require.NoError(t, MapToObject(res, &active))
	assert.Equal(t, 1, active.Version)
	assert.Equal(t, "a", active.ID)
	assert.NotEmpty(t, active.Rev)
}

func TestMemoryConditionalUpdate(t *testing.T) {
	repo := NewMemoryRepository("test")
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "m", &types.EncryptedMessage{RecipientEmail: "bob@gmail.com"}))

	res, _ := repo.GetByID(ctx, "m")
	var msg types.EncryptedMessage
	require.NoError(t, MapToObject(res, &msg))

	// concurrent writers holding the same revision: exactly one wins
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			update := msg
			update.IsDecrypted = true
			if err := repo.Save(ctx, "m", &update); err == nil {
				atomic.AddInt32(&wins, 1)
			} else {
				assert.True(t, errors.Is(err, types.ErrConflict))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestMemoryFindAndDelete(t *testing.T) {
	repo := NewMemoryRepository("test")
	ctx := context.Background()
	_ = repo.Save(ctx, "1", &types.EncryptedMessage{SenderID: "alice"})
	_ = repo.Save(ctx, "2", &types.EncryptedMessage{SenderID: "alice"})
	_ = repo.Save(ctx, "3", &types.EncryptedMessage{SenderID: "carol"})

	docs, err := repo.Find(ctx, map[string]interface{}{"senderId": "alice"}, nil, 10)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	require.NoError(t, repo.Delete(ctx, "1"))
	_, err = repo.GetByID(ctx, "1")
	assert.True(t, errors.Is(err, types.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, "1"), types.ErrNotFound))
}

func TestSelector(t *testing.T) {
	selector := NewCouchDBSelector()
	selector.AddDB(NewMemoryRepository(EncryptedMessages))

	db, err := selector.ChooseDB(EncryptedMessages)
	require.NoError(t, err)
	assert.Equal(t, EncryptedMessages, db.GetDBName())

	_, err = selector.ChooseDB("unknown")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestMemorySelectorHasAllDatabases(t *testing.T) {
	selector := NewMemorySelector()
	for _, name := range AllDatabases {
		repo, err := selector.ChooseDB(name)
		require.NoError(t, err)
		assert.Equal(t, name, repo.GetDBName())
	}
}

func TestMemoryFindSortsBeforeLimit(t *testing.T) {
	repo := NewMemoryRepository("test")
	ctx := context.Background()
	for i := 1; i <= 20; i++ {
		_ = repo.Save(ctx, fmt.Sprintf("m%02d", i), &types.EncryptedMessage{SenderID: "alice", Created: int64(1000 + i)})
	}
	_ = repo.Save(ctx, "other", &types.EncryptedMessage{SenderID: "carol", Created: 5000})

	docs, err := repo.Find(ctx, map[string]interface{}{"senderId": "alice"}, SentMessagesSort, 5)
	require.NoError(t, err)
	require.Len(t, docs, 5)

	var created []int64
	for _, doc := range docs {
		var msg types.EncryptedMessage
		require.NoError(t, MapToObject(doc, &msg))
		assert.Equal(t, "alice", msg.SenderID)
		created = append(created, msg.Created)
	}
	assert.Equal(t, []int64{1020, 1019, 1018, 1017, 1016}, created)
}
