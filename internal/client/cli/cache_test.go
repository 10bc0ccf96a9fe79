package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/zapsync/internal/cache/persist"
	"github.com/iudanet/zapsync/internal/cache/policy"
	"github.com/iudanet/zapsync/internal/client/storage/boltdb"
)

// newTestCache открывает кэш запросов поверх BoltDB; повторный вызов
// с тем же store имитирует перезапуск процесса
func newTestCache(t *testing.T, store *boltdb.Storage) *persist.Store {
	t.Helper()

	cache := persist.New(store, policy.DefaultTable(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, cache.Init(context.Background()))
	return cache
}

func newCacheStorage(t *testing.T) *boltdb.Storage {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestCli_RunCachePut_PersistsDehydratedSnapshot(t *testing.T) {
	store := newCacheStorage(t)
	now := time.Now()
	ctx := context.Background()

	mockIO, out := newOutputIO()
	cli := New(Deps{IO: mockIO, Cache: newTestCache(t, store), Now: func() time.Time { return now }})

	require.NoError(t, cli.RunCachePut(ctx, []string{"contacts", "c1", `{"id":"c1","name":"Ana","notes":"private"}`}))
	require.NoError(t, cli.RunCachePut(ctx, []string{"analytics", `{"opens":42}`}))
	assert.Contains(t, out.String(), "Cached contacts/c1")
	assert.Contains(t, out.String(), "Cached analytics")

	// Новый процесс видит только сохраняемые домены с отфильтрованными полями
	mockIO, out = newOutputIO()
	cli = New(Deps{IO: mockIO, Cache: newTestCache(t, store), Now: func() time.Time { return now }})

	require.NoError(t, cli.RunCacheGet(ctx, []string{"contacts", "c1"}))
	assert.Contains(t, out.String(), "Updated: "+time.UnixMilli(now.UnixMilli()).Format(time.RFC3339))

	var data map[string]any
	require.NoError(t, json.Unmarshal(out.raw, &data))
	assert.Equal(t, map[string]any{"id": "c1", "name": "Ana"}, data)

	assert.Error(t, cli.RunCacheGet(ctx, []string{"analytics"}), "analytics is not persisted")
}

func TestCli_RunCachePut_ReplacesRecord(t *testing.T) {
	store := newCacheStorage(t)
	cache := newTestCache(t, store)
	mockIO, out := newOutputIO()
	cli := New(Deps{IO: mockIO, Cache: cache})
	ctx := context.Background()

	require.NoError(t, cli.RunCachePut(ctx, []string{"automations", `[{"id":"a1"}]`}))
	require.NoError(t, cli.RunCachePut(ctx, []string{"automations", `[{"id":"a1"},{"id":"a2"}]`}))
	assert.Len(t, cache.Snapshot().ClientState.Queries, 1)

	out.raw = nil
	require.NoError(t, cli.RunCacheGet(ctx, []string{"automations"}))
	assert.JSONEq(t, `[{"id":"a1"},{"id":"a2"}]`, string(out.raw))
}

type failingCache struct {
	QueryCache
	putErr     error
	persistErr error
}

func (f failingCache) Put(key []string, data json.RawMessage, updatedAt time.Time) error {
	return f.putErr
}

func (f failingCache) Persist(ctx context.Context) error { return f.persistErr }

func TestCli_RunCachePut_Errors(t *testing.T) {
	ctx := context.Background()
	mockIO, _ := newOutputIO()

	cli := New(Deps{IO: mockIO, Cache: failingCache{}})
	assert.Error(t, cli.RunCachePut(ctx, []string{`{"id":1}`}), "key is required")
	assert.Error(t, cli.RunCachePut(ctx, []string{"contacts", "{"}), "data must be JSON")
	assert.Error(t, cli.RunCacheGet(ctx, nil))

	cli = New(Deps{IO: mockIO, Cache: failingCache{putErr: persist.ErrNotInitialized}})
	assert.ErrorIs(t, cli.RunCachePut(ctx, []string{"contacts", `{}`}), persist.ErrNotInitialized)

	diskErr := errors.New("disk full")
	cli = New(Deps{IO: mockIO, Cache: failingCache{persistErr: diskErr}})
	assert.ErrorIs(t, cli.RunCachePut(ctx, []string{"contacts", `{}`}), diskErr)
}
