package document

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/zapsync/internal/client/events"
	"github.com/iudanet/zapsync/internal/client/storage"
	"github.com/iudanet/zapsync/internal/client/storage/boltdb"
	"github.com/iudanet/zapsync/internal/crdt"
	"github.com/iudanet/zapsync/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStorage(t *testing.T) *boltdb.Storage {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// recordingRemote возвращает мок сервера, который пишет отправленные update в канал
func recordingRemote(result error) (*RemoteMock, chan []byte) {
	sent := make(chan []byte, 100)
	remote := &RemoteMock{
		SyncDocumentFunc: func(ctx context.Context, docType, id string, update []byte) error {
			sent <- update
			return result
		},
		FetchDocumentFunc: func(ctx context.Context, docType, id string) ([]byte, error) {
			return nil, nil
		},
	}
	return remote, sent
}

func onlineState(online bool) *ConnectivityMock {
	var state atomic.Bool
	state.Store(online)
	return &ConnectivityMock{
		IsOnlineFunc: func() bool {
			return state.Load()
		},
	}
}

func openTestDocument(t *testing.T, deps Deps) *Document {
	t.Helper()

	if deps.Logger == nil {
		deps.Logger = testLogger()
	}
	d, err := Open(context.Background(), models.DocumentTypeContact, "c1", deps)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = d.Destroy()
	})
	return d
}

func waitSent(t *testing.T, sent chan []byte) []byte {
	t.Helper()

	select {
	case update := <-sent:
		return update
	case <-time.After(2 * time.Second):
		t.Fatal("document was not synced")
		return nil
	}
}

func assertNothingSent(t *testing.T, sent chan []byte) {
	t.Helper()

	select {
	case <-sent:
		t.Fatal("unexpected sync request")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestOpen_InvalidDocument(t *testing.T) {
	store := newTestStorage(t)

	_, err := Open(context.Background(), "contact", "../x", Deps{Replicas: store, Logger: testLogger()})
	assert.Error(t, err)

	_, err = Open(context.Background(), "", "c1", Deps{Replicas: store, Logger: testLogger()})
	assert.Error(t, err)
}

func TestDocument_SetGetData(t *testing.T) {
	remote, _ := recordingRemote(nil)
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote})

	require.NoError(t, d.Set("name", "Ana"))
	require.NoError(t, d.Set("tags", []string{"vip", "lead"}))

	name, ok := d.Get("name")
	require.True(t, ok)
	assert.Equal(t, "Ana", name)

	assert.Equal(t, map[string]any{
		"name": "Ana",
		"tags": []any{"vip", "lead"},
	}, d.Data())

	var tags []string
	ok, err := d.GetInto("tags", &tags)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"vip", "lead"}, tags)

	require.NoError(t, d.Delete("tags"))
	_, ok = d.Get("tags")
	assert.False(t, ok)

	assert.Error(t, d.Set("", 1))
	assert.Error(t, d.Set("bad", func() {}))
}

func TestDocument_ObserversBeforeSync(t *testing.T) {
	synced := make(chan struct{}, 10)
	var observed atomic.Int32

	remote := &RemoteMock{
		SyncDocumentFunc: func(ctx context.Context, docType, id string, update []byte) error {
			// Наблюдатель вызван до отправки
			assert.Equal(t, int32(1), observed.Load())
			synced <- struct{}{}
			return nil
		},
	}
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote})

	var changes []Change
	d.OnUpdate(func(c Change) {
		// Изменение уже видно наблюдателю
		value, _ := d.Get("status")
		assert.Equal(t, "active", value)
		changes = append(changes, c)
		observed.Add(1)
	})

	require.NoError(t, d.Set("status", "active"))

	// Наблюдатель вызван синхронно
	require.Len(t, changes, 1)
	assert.Equal(t, Change{Origin: OriginLocal, Keys: []string{"status"}}, changes[0])

	select {
	case <-synced:
	case <-time.After(2 * time.Second):
		t.Fatal("document was not synced")
	}
}

func TestDocument_SyncSendsFullState(t *testing.T) {
	remote, sent := recordingRemote(nil)
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote, NodeID: "node-a"})

	require.NoError(t, d.Set("name", "Ana"))
	update := waitSent(t, sent)

	state, err := crdt.DecodeState(update)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentTypeContact, state.Type)
	assert.Equal(t, "c1", state.ID)
	require.Len(t, state.Registers, 1)
	assert.Equal(t, "node-a", state.Registers[0].NodeID)

	calls := remote.SyncDocumentCalls()
	require.NotEmpty(t, calls)
	assert.Equal(t, models.DocumentTypeContact, calls[0].DocType)
	assert.Equal(t, "c1", calls[0].Id)
}

func TestDocument_OfflineSkipsNetwork(t *testing.T) {
	remote, sent := recordingRemote(nil)
	online := onlineState(false)
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote, Online: online})

	var notified int
	d.OnUpdate(func(Change) { notified++ })

	require.NoError(t, d.Update(map[string]any{"name": "Ana", "phone": "+55"}))

	// Изменение видно локально, сеть не используется
	assert.Equal(t, 1, notified)
	assert.Equal(t, map[string]any{"name": "Ana", "phone": "+55"}, d.Data())
	assertNothingSent(t, sent)
	assert.Empty(t, remote.SyncDocumentCalls())

	assert.ErrorIs(t, d.Pull(context.Background()), ErrOffline)
	assert.Empty(t, remote.FetchDocumentCalls())
}

func TestDocument_SyncFailureKeepsLocalState(t *testing.T) {
	remote, sent := recordingRemote(errors.New("502 bad gateway"))
	bus := events.NewBus()

	failed := make(chan events.DocumentSync, 10)
	bus.Subscribe(events.EventDocumentSyncFailed, func(e events.Event) {
		failed <- e.Payload.(events.DocumentSync)
	})

	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote, Bus: bus})

	require.NoError(t, d.Set("name", "Ana"))
	waitSent(t, sent)

	select {
	case payload := <-failed:
		assert.Equal(t, "c1", payload.ID)
		assert.Error(t, payload.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("failure event not published")
	}

	value, ok := d.Get("name")
	require.True(t, ok)
	assert.Equal(t, "Ana", value, "failed sync never rolls back")
}

func TestDocument_BackoffGate(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)

	sent := make(chan []byte, 100)
	remote := &RemoteMock{
		SyncDocumentFunc: func(ctx context.Context, docType, id string, update []byte) error {
			sent <- update
			if fail.Load() {
				return errors.New("unavailable")
			}
			return nil
		},
	}

	var nowMs atomic.Int64
	d := openTestDocument(t, Deps{
		Replicas: newTestStorage(t),
		Remote:   remote,
		Now:      func() time.Time { return time.UnixMilli(nowMs.Load()) },
		NewBackoff: func() retry.Backoff {
			return retry.NewConstant(10 * time.Second)
		},
	})

	require.NoError(t, d.Set("a", 1))
	waitSent(t, sent)

	// Пока пауза не истекла, отправка пропускается
	require.NoError(t, d.Set("b", 2))
	assertNothingSent(t, sent)

	// После паузы отправка возобновляется
	nowMs.Store(10_000)
	fail.Store(false)
	require.NoError(t, d.Set("c", 3))
	update := waitSent(t, sent)

	state, err := crdt.DecodeState(update)
	require.NoError(t, err)
	assert.Len(t, state.Registers, 3, "full state includes changes made during backoff")
}

func TestDocument_FlushBypassesBackoff(t *testing.T) {
	remote, sent := recordingRemote(errors.New("unavailable"))
	d := openTestDocument(t, Deps{
		Replicas:   newTestStorage(t),
		Remote:     remote,
		Now:        func() time.Time { return time.UnixMilli(0) },
		NewBackoff: func() retry.Backoff { return retry.NewConstant(time.Hour) },
	})

	require.NoError(t, d.Set("a", 1))
	waitSent(t, sent)

	require.NoError(t, d.Set("b", 2))
	assertNothingSent(t, sent)

	d.Flush()
	waitSent(t, sent)
}

func TestDocument_CoalescesBurst(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 10)
	var calls atomic.Int32

	remote := &RemoteMock{
		SyncDocumentFunc: func(ctx context.Context, docType, id string, update []byte) error {
			calls.Add(1)
			started <- struct{}{}
			<-release
			return nil
		},
	}
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote})

	require.NoError(t, d.Set("n", 0))
	<-started

	// Пока идет первая отправка, накапливаем изменения
	for i := 1; i <= 20; i++ {
		require.NoError(t, d.Set("n", i))
	}

	close(release)
	<-started

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load(), "burst is coalesced into a single follow-up sync")

	value, _ := d.Get("n")
	assert.Equal(t, float64(20), value)
}

func TestDocument_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	remote, _ := recordingRemote(nil)

	d, err := Open(ctx, "automation", "a1", Deps{Replicas: store, Remote: remote, Logger: testLogger()})
	require.NoError(t, err)
	require.NoError(t, d.Update(map[string]any{"name": "Welcome flow", "enabled": true}))
	require.NoError(t, d.Delete("enabled"))
	require.NoError(t, d.Destroy())

	// Открытие читает только локальную реплику
	fetchCalls := len(remote.FetchDocumentCalls())
	d, err = Open(ctx, "automation", "a1", Deps{Replicas: store, Remote: remote, Logger: testLogger()})
	require.NoError(t, err)
	defer d.Destroy()

	assert.Equal(t, map[string]any{"name": "Welcome flow"}, d.Data())
	assert.Equal(t, fetchCalls, len(remote.FetchDocumentCalls()))

	// Новые записи перекрывают загруженные
	require.NoError(t, d.Set("name", "Renamed"))
	value, _ := d.Get("name")
	assert.Equal(t, "Renamed", value)
}

func TestDocument_Merge(t *testing.T) {
	remote, _ := recordingRemote(nil)
	offline := onlineState(false)

	a, err := Open(context.Background(), "contact", "c1", Deps{
		Replicas: newTestStorage(t), Remote: remote, Online: offline, NodeID: "node-a", Logger: testLogger(),
	})
	require.NoError(t, err)
	defer a.Destroy()

	b, err := Open(context.Background(), "contact", "c1", Deps{
		Replicas: newTestStorage(t), Remote: remote, Online: offline, NodeID: "node-b", Logger: testLogger(),
	})
	require.NoError(t, err)
	defer b.Destroy()

	require.NoError(t, a.Set("name", "Ana"))
	require.NoError(t, b.Set("phone", "+55"))

	var changes []Change
	b.OnUpdate(func(c Change) { changes = append(changes, c) })

	update, err := a.Encode()
	require.NoError(t, err)
	require.NoError(t, b.Merge(update))

	require.Len(t, changes, 1)
	assert.Equal(t, Change{Origin: OriginRemote, Keys: []string{"name"}}, changes[0])

	// Повторное слияние ничего не меняет и не уведомляет
	require.NoError(t, b.Merge(update))
	assert.Len(t, changes, 1)

	updateB, err := b.Encode()
	require.NoError(t, err)
	require.NoError(t, a.Merge(updateB))

	assert.Equal(t, a.Data(), b.Data())
	assert.Equal(t, map[string]any{"name": "Ana", "phone": "+55"}, a.Data())
}

func TestDocument_MergeRejectsForeignUpdate(t *testing.T) {
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t)})

	foreign, err := crdt.EncodeState(&models.DocumentState{Type: "automation", ID: "a1"})
	require.NoError(t, err)

	assert.ErrorIs(t, d.Merge(foreign), crdt.ErrInvalidUpdate)
	assert.ErrorIs(t, d.Merge([]byte("garbage")), crdt.ErrInvalidUpdate)
}

func TestDocument_Pull(t *testing.T) {
	other := crdt.NewLWWMap(crdt.NewLamportClockWithNodeID("server"))
	other.Set("name", []byte(`"From server"`))
	serverState, err := crdt.EncodeState(other.State("contact", "c1"))
	require.NoError(t, err)

	remote := &RemoteMock{
		FetchDocumentFunc: func(ctx context.Context, docType, id string) ([]byte, error) {
			assert.Equal(t, "contact", docType)
			assert.Equal(t, "c1", id)
			return serverState, nil
		},
	}
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote})

	require.NoError(t, d.Pull(context.Background()))
	value, ok := d.Get("name")
	require.True(t, ok)
	assert.Equal(t, "From server", value)
}

func TestDocument_Unsubscribe(t *testing.T) {
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t)})

	calls := 0
	unsubscribe := d.OnUpdate(func(Change) { calls++ })

	require.NoError(t, d.Set("a", 1))
	unsubscribe()
	require.NoError(t, d.Set("a", 2))

	assert.Equal(t, 1, calls)
}

func TestDocument_Destroy(t *testing.T) {
	remote, sent := recordingRemote(nil)
	store := newTestStorage(t)

	d, err := Open(context.Background(), "contact", "c1", Deps{Replicas: store, Remote: remote, Logger: testLogger()})
	require.NoError(t, err)

	calls := 0
	d.OnUpdate(func(Change) { calls++ })

	require.NoError(t, d.Destroy())
	assert.True(t, d.Destroyed())
	assert.Equal(t, 0, store.OpenReplicaCount(), "replica handle released")

	assert.ErrorIs(t, d.Set("a", 1), ErrDestroyed)
	assert.ErrorIs(t, d.Delete("a"), ErrDestroyed)
	assert.ErrorIs(t, d.Merge([]byte(`{"registers":[{"key":"a","timestamp":9,"value":1}]}`)), ErrDestroyed)
	assert.ErrorIs(t, d.Pull(context.Background()), ErrDestroyed)
	d.Flush()

	assert.Zero(t, calls, "no observer callbacks after destroy")
	assertNothingSent(t, sent)

	// Повторный Destroy безопасен
	assert.NoError(t, d.Destroy())

	// Подписка после Destroy ничего не делает
	d.OnUpdate(func(Change) { calls++ })()
}

func TestDocument_DestroyFromObserver(t *testing.T) {
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t)})

	var second int
	d.OnUpdate(func(Change) {
		_ = d.Destroy()
	})
	d.OnUpdate(func(Change) { second++ })

	require.NoError(t, d.Set("a", 1))
	assert.Zero(t, second)
}

func TestDocument_Purge(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	d, err := Open(ctx, "campaign", "x1", Deps{Replicas: store, Logger: testLogger()})
	require.NoError(t, err)
	require.NoError(t, d.Set("title", "Black Friday"))
	require.NoError(t, d.Purge())

	names, err := store.ListReplicas()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDocument_PersistFailureKeepsMutation(t *testing.T) {
	replica := &storage.ReplicaMock{
		LoadFunc: func(ctx context.Context) (*models.DocumentState, error) {
			return nil, storage.ErrReplicaNotFound
		},
		SaveFunc: func(ctx context.Context, state *models.DocumentState) error {
			return errors.New("disk full")
		},
		CloseFunc: func() error { return nil },
	}
	opener := &storage.ReplicaOpenerMock{
		OpenReplicaFunc: func(ctx context.Context, docType, id string) (storage.Replica, error) {
			return replica, nil
		},
	}

	d := openTestDocument(t, Deps{Replicas: opener})

	require.NoError(t, d.Set("a", 1))
	value, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, float64(1), value)
	assert.Len(t, replica.SaveCalls(), 1)
}

func TestOpen_ReplicaErrors(t *testing.T) {
	openErr := errors.New("locked")
	opener := &storage.ReplicaOpenerMock{
		OpenReplicaFunc: func(ctx context.Context, docType, id string) (storage.Replica, error) {
			return nil, openErr
		},
	}
	_, err := Open(context.Background(), "contact", "c1", Deps{Replicas: opener, Logger: testLogger()})
	assert.ErrorIs(t, err, openErr)

	loadErr := errors.New("corrupted")
	replica := &storage.ReplicaMock{
		LoadFunc: func(ctx context.Context) (*models.DocumentState, error) {
			return nil, loadErr
		},
		CloseFunc: func() error { return nil },
	}
	opener = &storage.ReplicaOpenerMock{
		OpenReplicaFunc: func(ctx context.Context, docType, id string) (storage.Replica, error) {
			return replica, nil
		},
	}
	_, err = Open(context.Background(), "contact", "c1", Deps{Replicas: opener, Logger: testLogger()})
	assert.ErrorIs(t, err, loadErr)
	assert.Len(t, replica.CloseCalls(), 1)
}

func TestDocument_Push(t *testing.T) {
	remote, sent := recordingRemote(nil)
	online := onlineState(false)
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote, Online: online})

	require.NoError(t, d.Set("name", "Ana"))
	assert.ErrorIs(t, d.Push(context.Background()), ErrOffline)
	assertNothingSent(t, sent)

	online.IsOnlineFunc = func() bool { return true }
	require.NoError(t, d.Push(context.Background()))

	update := waitSent(t, sent)
	state, err := crdt.DecodeState(update)
	require.NoError(t, err)
	require.Len(t, state.Registers, 1)
	assert.Equal(t, "name", state.Registers[0].Key)
}

func TestDocument_PushError(t *testing.T) {
	pushErr := errors.New("bad gateway")
	remote, _ := recordingRemote(pushErr)
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote, Online: onlineState(false)})

	require.NoError(t, d.Set("name", "Ana"))
	d.online = onlineState(true)

	assert.ErrorIs(t, d.Push(context.Background()), pushErr)
	value, _ := d.Get("name")
	assert.Equal(t, "Ana", value)
}

func TestDocument_DistinctPairsDoNotShareReplica(t *testing.T) {
	store := newTestStorage(t)
	deps := Deps{Replicas: store, Logger: testLogger(), Online: onlineState(false)}
	ctx := context.Background()

	first, err := Open(ctx, "contact-x", "1", deps)
	require.NoError(t, err)
	require.NoError(t, first.Set("secret", "from contact-x/1"))
	require.NoError(t, first.Destroy())

	second, err := Open(ctx, "contact", "x-1", deps)
	require.NoError(t, err)
	defer func() {
		_ = second.Destroy()
	}()
	assert.Empty(t, second.Data())

	names, err := store.ListReplicas()
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestDocument_OpenRejectsForeignReplica(t *testing.T) {
	replica := &storage.ReplicaMock{
		LoadFunc: func(ctx context.Context) (*models.DocumentState, error) {
			return &models.DocumentState{Type: "contact-x", ID: "1"}, nil
		},
		CloseFunc: func() error { return nil },
	}
	opener := &storage.ReplicaOpenerMock{
		OpenReplicaFunc: func(ctx context.Context, docType, id string) (storage.Replica, error) {
			return replica, nil
		},
	}

	_, err := Open(context.Background(), "contact", "x-1", Deps{Replicas: opener, Logger: testLogger()})
	assert.ErrorIs(t, err, ErrReplicaMismatch)
	assert.Len(t, replica.CloseCalls(), 1)
}

func TestDocument_Stage(t *testing.T) {
	remote, sent := recordingRemote(nil)
	d := openTestDocument(t, Deps{Replicas: newTestStorage(t), Remote: remote, Online: onlineState(true)})

	require.NoError(t, d.Set("phone", "+55"))
	waitSent(t, sent)

	var changes []Change
	d.OnUpdate(func(c Change) { changes = append(changes, c) })

	require.NoError(t, d.Stage(map[string]any{"name": "Ana", "email": "a@x"}, []string{"phone"}))

	// Stage не запускает фоновую отправку
	assertNothingSent(t, sent)

	require.Len(t, changes, 1)
	assert.Equal(t, []string{"email", "name", "phone"}, changes[0].Keys)
	assert.Equal(t, map[string]any{"name": "Ana", "email": "a@x"}, d.Data())

	require.NoError(t, d.Push(context.Background()))
	state, err := crdt.DecodeState(waitSent(t, sent))
	require.NoError(t, err)
	assert.Len(t, state.Registers, 3, "tombstone of phone is sent too")

	assert.Error(t, d.Stage(nil, []string{""}))
	assert.NoError(t, d.Stage(nil, nil))
}
