package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/zapsync/internal/client/document"
	"github.com/iudanet/zapsync/internal/client/storage/boltdb"
)

func newTestRegistry(t *testing.T, remote document.Remote, online bool) *document.Registry {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return document.NewRegistry(document.Deps{
		Replicas: store,
		Remote:   remote,
		Online:   staticOnline(online),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func offlineRemote() *document.RemoteMock {
	return &document.RemoteMock{
		SyncDocumentFunc: func(ctx context.Context, docType, id string, update []byte) error {
			return errors.New("unexpected call")
		},
		FetchDocumentFunc: func(ctx context.Context, docType, id string) ([]byte, error) {
			return nil, errors.New("unexpected call")
		},
	}
}

func TestCli_RunDocSet_Offline_ThenGet(t *testing.T) {
	registry := newTestRegistry(t, offlineRemote(), false)
	mockIO, out := newOutputIO()
	cli := New(Deps{IO: mockIO, Docs: registry, Online: staticOnline(false)})
	ctx := context.Background()

	err := cli.RunDocSet(ctx, []string{"settings", "main", "theme=dark", "limit=10", `tags=["a","b"]`})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Saved settings/main locally")
	assert.Contains(t, text, "Offline: the change will be sent when the network is back")
	assert.Equal(t, 0, registry.Len(), "command releases the document")

	mockIO, out = newOutputIO()
	cli = New(Deps{IO: mockIO, Docs: registry, Online: staticOnline(false)})
	require.NoError(t, cli.RunDocGet(ctx, []string{"settings", "main"}))

	var data map[string]any
	require.NoError(t, json.Unmarshal(out.raw, &data))
	assert.Equal(t, "dark", data["theme"])
	assert.Equal(t, float64(10), data["limit"])
	assert.Equal(t, []any{"a", "b"}, data["tags"])
}

func TestCli_RunDocSet_DeletesField(t *testing.T) {
	registry := newTestRegistry(t, offlineRemote(), false)
	mockIO, out := newOutputIO()
	cli := New(Deps{IO: mockIO, Docs: registry, Online: staticOnline(false)})
	ctx := context.Background()

	require.NoError(t, cli.RunDocSet(ctx, []string{"settings", "main", "theme=dark", "lang=pt"}))
	require.NoError(t, cli.RunDocSet(ctx, []string{"settings", "main", "theme="}))

	out.raw = nil
	require.NoError(t, cli.RunDocGet(ctx, []string{"settings", "main"}))

	var data map[string]any
	require.NoError(t, json.Unmarshal(out.raw, &data))
	assert.Equal(t, map[string]any{"lang": "pt"}, data)
}

func TestCli_RunDocSet_Pushes(t *testing.T) {
	pushed := make(chan []byte, 10)
	remote := &document.RemoteMock{
		SyncDocumentFunc: func(ctx context.Context, docType, id string, update []byte) error {
			pushed <- update
			return nil
		},
	}
	registry := newTestRegistry(t, remote, true)
	mockIO, out := newOutputIO()
	cli := New(Deps{IO: mockIO, Docs: registry, Online: staticOnline(true)})

	require.NoError(t, cli.RunDocSet(context.Background(), []string{"settings", "main", "theme=dark"}))

	assert.Contains(t, out.String(), "Synced with server")
	assert.Len(t, pushed, 1, "state is sent once")
	assert.Len(t, remote.SyncDocumentCalls(), 1)
}

func TestCli_RunDocSet_PushFails(t *testing.T) {
	remote := &document.RemoteMock{
		SyncDocumentFunc: func(ctx context.Context, docType, id string, update []byte) error {
			return errors.New("bad gateway")
		},
	}
	registry := newTestRegistry(t, remote, true)
	mockIO, out := newOutputIO()
	cli := New(Deps{IO: mockIO, Docs: registry, Online: staticOnline(true)})

	require.NoError(t, cli.RunDocSet(context.Background(), []string{"settings", "main", "theme=dark"}))
	assert.Contains(t, out.String(), "Saved settings/main locally")
	assert.Contains(t, out.String(), "Not synced yet")
}

func TestCli_RunDocGet_PullsServerState(t *testing.T) {
	// Состояние "сервера" готовится отдельной репликой
	serverRegistry := newTestRegistry(t, offlineRemote(), false)
	serverDoc, err := serverRegistry.Open(context.Background(), "contacts", "c1")
	require.NoError(t, err)
	require.NoError(t, serverDoc.Set("name", "Ana"))
	serverState, err := serverDoc.Encode()
	require.NoError(t, err)
	require.NoError(t, serverDoc.Destroy())

	remote := &document.RemoteMock{
		SyncDocumentFunc: func(ctx context.Context, docType, id string, update []byte) error {
			return nil
		},
		FetchDocumentFunc: func(ctx context.Context, docType, id string) ([]byte, error) {
			assert.Equal(t, "contacts", docType)
			assert.Equal(t, "c1", id)
			return serverState, nil
		},
	}
	registry := newTestRegistry(t, remote, true)
	mockIO, out := newOutputIO()
	cli := New(Deps{IO: mockIO, Docs: registry, Online: staticOnline(true)})

	require.NoError(t, cli.RunDocGet(context.Background(), []string{"contacts", "c1", "name"}))
	assert.Equal(t, "\"Ana\"\n", string(out.raw))
}

func TestCli_RunDocGet_ServerUnavailable(t *testing.T) {
	remote := &document.RemoteMock{
		FetchDocumentFunc: func(ctx context.Context, docType, id string) ([]byte, error) {
			return nil, errors.New("connection refused")
		},
	}
	registry := newTestRegistry(t, remote, true)
	mockIO, out := newOutputIO()
	cli := New(Deps{IO: mockIO, Docs: registry, Online: staticOnline(true)})

	require.NoError(t, cli.RunDocGet(context.Background(), []string{"contacts", "c1"}))
	assert.Contains(t, out.String(), "Showing local copy, server is unavailable")
	assert.Equal(t, "{}\n", string(out.raw))
}

func TestCli_RunDocGet_Errors(t *testing.T) {
	registry := newTestRegistry(t, offlineRemote(), false)
	mockIO, _ := newOutputIO()
	cli := New(Deps{IO: mockIO, Docs: registry, Online: staticOnline(false)})
	ctx := context.Background()

	assert.Error(t, cli.RunDocGet(ctx, []string{"contacts"}))
	assert.Error(t, cli.RunDocGet(ctx, []string{"contacts", "c1", "missing"}))
	assert.Error(t, cli.RunDocGet(ctx, []string{"bad type", "c1"}))
	assert.Error(t, cli.RunDocSet(ctx, []string{"contacts", "c1"}))
	assert.Error(t, cli.RunDocSet(ctx, []string{"contacts", "c1", "novalue"}))
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantUpdate  map[string]any
		wantDeletes []string
		wantErr     bool
	}{
		{
			name:       "json values",
			args:       []string{"n=1", "ok=true", `obj={"a":1}`, "nil=null"},
			wantUpdate: map[string]any{"n": float64(1), "ok": true, "obj": map[string]any{"a": float64(1)}, "nil": nil},
		},
		{
			name:       "plain string",
			args:       []string{"name=Ana Maria"},
			wantUpdate: map[string]any{"name": "Ana Maria"},
		},
		{
			name:       "value with equals sign",
			args:       []string{"expr=a=b"},
			wantUpdate: map[string]any{"expr": "a=b"},
		},
		{
			name:        "delete",
			args:        []string{"old="},
			wantUpdate:  map[string]any{},
			wantDeletes: []string{"old"},
		},
		{name: "missing equals", args: []string{"name"}, wantErr: true},
		{name: "empty key", args: []string{"=1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, deletes, err := parseAssignments(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdate, update)
			assert.Equal(t, tt.wantDeletes, deletes)
		})
	}
}
