package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/zapsync/internal/client/storage"
)

func TestStorage_Snapshot(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Снимка ещё нет
	_, err := store.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)

	require.NoError(t, store.SaveSnapshot(ctx, "z1:first"))
	require.NoError(t, store.SaveSnapshot(ctx, "z1:second"))

	// Последняя запись побеждает
	text, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "z1:second", text)

	require.NoError(t, store.DeleteSnapshot(ctx))
	_, err = store.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)

	// Удаление отсутствующего снимка не ошибка
	assert.NoError(t, store.DeleteSnapshot(ctx))
}

func TestStorage_Snapshot_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := t.TempDir() + "/client.db"

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(ctx, `{"clientState":{}}`))
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	text, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"clientState":{}}`, text)
}

func TestStorage_Snapshot_Closed(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, t.TempDir()+"/client.db")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.SaveSnapshot(ctx, "x"), storage.ErrStorageClosed)
	assert.ErrorIs(t, store.DeleteSnapshot(ctx), storage.ErrStorageClosed)
}
