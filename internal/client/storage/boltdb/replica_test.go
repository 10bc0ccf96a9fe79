package boltdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/zapsync/internal/client/storage"
	"github.com/iudanet/zapsync/internal/models"
)

func createTestState() *models.DocumentState {
	return &models.DocumentState{
		Type: models.DocumentTypeContact,
		ID:   "c1",
		Registers: []*models.Register{
			{Key: "name", NodeID: "node-a", Value: json.RawMessage(`"Ana"`), Timestamp: 1},
			{Key: "phone", NodeID: "node-a", Timestamp: 2, Deleted: true},
		},
		Clock: 2,
	}
}

func TestReplica_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	r, err := store.OpenReplica(ctx, models.DocumentTypeContact, "c1")
	require.NoError(t, err)

	// Пустая реплика
	_, err = r.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrReplicaNotFound)

	state := createTestState()
	require.NoError(t, r.Save(ctx, state))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, got)

	// Файл назван по типу и ID документа
	_, err = os.Stat(filepath.Join(store.replicaDir, "crdt-contact.c1.db"))
	assert.NoError(t, err)
}

func TestReplica_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	r, err := store.OpenReplica(ctx, "contact", "c1")
	require.NoError(t, err)
	require.NoError(t, r.Save(ctx, createTestState()))
	require.NoError(t, r.Close())
	assert.Equal(t, 0, store.OpenReplicaCount())

	r, err = store.OpenReplica(ctx, "contact", "c1")
	require.NoError(t, err)

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, createTestState(), got)
}

func TestReplica_OpenSameDocumentTwice(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	r1, err := store.OpenReplica(ctx, "contact", "c1")
	require.NoError(t, err)
	r2, err := store.OpenReplica(ctx, "contact", "c1")
	require.NoError(t, err)

	assert.Same(t, r1, r2)
	assert.Equal(t, 1, store.OpenReplicaCount())

	// Другие документы изолированы
	r3, err := store.OpenReplica(ctx, "contact", "c2")
	require.NoError(t, err)
	_, err = r3.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrReplicaNotFound)
}

func TestReplica_InvalidIdentifiers(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	tests := []struct {
		name    string
		docType string
		id      string
	}{
		{name: "empty type", docType: "", id: "c1"},
		{name: "empty id", docType: "contact", id: ""},
		{name: "path traversal", docType: "contact", id: "../../etc"},
		{name: "separator", docType: "contact", id: "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.OpenReplica(ctx, tt.docType, tt.id)
			assert.Error(t, err)
		})
	}
}

func TestReplica_CloseIdempotent(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	r, err := store.OpenReplica(ctx, "contact", "c1")
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	assert.ErrorIs(t, r.Save(ctx, createTestState()), storage.ErrStorageClosed)
	_, err = r.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestReplica_Remove(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	r, err := store.OpenReplica(ctx, "automation", "a1")
	require.NoError(t, err)
	require.NoError(t, r.Save(ctx, createTestState()))

	require.NoError(t, r.Remove())
	assert.Equal(t, 0, store.OpenReplicaCount())

	_, err = os.Stat(filepath.Join(store.replicaDir, "crdt-automation.a1.db"))
	assert.True(t, os.IsNotExist(err))

	// Повторное открытие даёт пустую реплику
	r, err = store.OpenReplica(ctx, "automation", "a1")
	require.NoError(t, err)
	_, err = r.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrReplicaNotFound)
}

func TestStorage_RemoveReplicas_SkipsOpen(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	closed, err := store.OpenReplica(ctx, "contact", "closed")
	require.NoError(t, err)
	require.NoError(t, closed.Save(ctx, createTestState()))
	require.NoError(t, closed.Close())

	open, err := store.OpenReplica(ctx, "contact", "open")
	require.NoError(t, err)
	require.NoError(t, open.Save(ctx, createTestState()))

	names, err := store.ListReplicas()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"crdt-contact.closed", "crdt-contact.open"}, names)

	require.NoError(t, store.RemoveReplicas(ctx))

	names, err = store.ListReplicas()
	require.NoError(t, err)
	assert.Equal(t, []string{"crdt-contact.open"}, names)

	// Открытая реплика продолжает работать
	_, err = open.Load(ctx)
	assert.NoError(t, err)
}

func TestReplicaFileName_Unambiguous(t *testing.T) {
	assert.Equal(t, "crdt-contact.c1.db", ReplicaFileName("contact", "c1"))
	assert.NotEqual(t, ReplicaFileName("contact-x", "1"), ReplicaFileName("contact", "x-1"))
	assert.NotEqual(t, ReplicaFileName("a_b", "c"), ReplicaFileName("a", "b_c"))
}
