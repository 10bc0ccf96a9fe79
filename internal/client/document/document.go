// Package document реализует CRDT документы сущностей (контакты, автоматизации,
// кампании, шаблоны) с локальной репликой и best-effort синхронизацией.
//
// Локальная реплика является источником правды: изменения применяются и
// видны наблюдателям сразу, отправка на сервер идет в фоне и никогда не
// откатывает локальное изменение.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/zapsync/internal/client/events"
	"github.com/iudanet/zapsync/internal/client/storage"
	"github.com/iudanet/zapsync/internal/crdt"
	"github.com/iudanet/zapsync/internal/validation"
)

var (
	// ErrDestroyed возвращается при обращении к уничтоженному документу
	ErrDestroyed = errors.New("document destroyed")

	// ErrOffline возвращается операциями, которым нужна сеть
	ErrOffline = errors.New("network is offline")

	// ErrReplicaMismatch локальная реплика принадлежит другому документу
	ErrReplicaMismatch = errors.New("replica belongs to another document")
)

//go:generate moq -out remote_mock.go . Remote Connectivity

// Remote серверная сторона синхронизации документов
type Remote interface {
	SyncDocument(ctx context.Context, docType, id string, update []byte) error
	FetchDocument(ctx context.Context, docType, id string) ([]byte, error)
}

// Connectivity сообщает доступность сети
type Connectivity interface {
	IsOnline() bool
}

// Origin источник изменения документа
type Origin string

const (
	OriginLocal  Origin = "local"  // изменение через Set/Update/Delete
	OriginRemote Origin = "remote" // слияние с другой репликой
)

// Change описывает изменение документа для наблюдателей
type Change struct {
	Origin Origin
	Keys   []string // Keys ключи, видимое значение которых изменилось
}

// Observer вызывается синхронно после каждого изменения документа
type Observer func(Change)

// Deps зависимости документа
type Deps struct {
	Replicas storage.ReplicaOpener
	Remote   Remote
	Online   Connectivity // Online nil означает, что сеть считается доступной
	Bus      *events.Bus  // Bus опционально, для событий синхронизации
	Logger   *slog.Logger

	NodeID     string               // NodeID идентификатор реплики, по умолчанию UUID
	NewBackoff func() retry.Backoff // NewBackoff политика паузы после неудачной отправки
	Now        func() time.Time
}

// DefaultBackoff экспоненциальная пауза 1s, 2s, 4s, ... не более минуты
func DefaultBackoff() retry.Backoff {
	return retry.WithCappedDuration(time.Minute, retry.NewExponential(time.Second))
}

// Document CRDT документ одной сущности
type Document struct {
	replica   storage.Replica
	remote    Remote
	online    Connectivity
	bus       *events.Bus
	logger    *slog.Logger
	m         *crdt.LWWMap
	observers map[uint64]Observer
	now       func() time.Time
	onDestroy func()
	sync      *syncWorker
	docType   string
	id        string
	nextObs   uint64
	destroyed bool
	mu        sync.Mutex
}

// Open открывает или создает документ (docType, id) и загружает локальную реплику.
// Сеть не используется.
func Open(ctx context.Context, docType, id string, deps Deps) (*Document, error) {
	if err := validation.ValidateDocument(docType, id); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewBackoff == nil {
		deps.NewBackoff = DefaultBackoff
	}

	clock := crdt.NewLamportClock()
	if deps.NodeID != "" {
		clock = crdt.NewLamportClockWithNodeID(deps.NodeID)
	}

	replica, err := deps.Replicas.OpenReplica(ctx, docType, id)
	if err != nil {
		return nil, fmt.Errorf("failed to open replica: %w", err)
	}

	d := &Document{
		replica:   replica,
		remote:    deps.Remote,
		online:    deps.Online,
		bus:       deps.Bus,
		logger:    deps.Logger.With("doc_type", docType, "doc_id", id),
		m:         crdt.NewLWWMap(clock),
		observers: make(map[uint64]Observer),
		now:       deps.Now,
		docType:   docType,
		id:        id,
	}

	// Гидратация из локальной реплики
	state, err := replica.Load(ctx)
	switch {
	case err == nil:
		if (state.Type != "" && state.Type != docType) || (state.ID != "" && state.ID != id) {
			_ = replica.Close()
			return nil, fmt.Errorf("%w: %s/%s opened as %s/%s",
				ErrReplicaMismatch, state.Type, state.ID, docType, id)
		}
		d.m.Merge(state)
	case errors.Is(err, storage.ErrReplicaNotFound):
		// Новый документ
	default:
		_ = replica.Close()
		return nil, fmt.Errorf("failed to load replica: %w", err)
	}

	d.sync = newSyncWorker(d, deps.NewBackoff)
	d.sync.start()

	return d, nil
}

// Type возвращает тип документа
func (d *Document) Type() string { return d.docType }

// ID возвращает идентификатор документа
func (d *Document) ID() string { return d.id }

// Data возвращает поверхностную копию текущего состояния документа
func (d *Document) Data() map[string]any {
	raw := d.m.Data()
	data := make(map[string]any, len(raw))
	for key, value := range raw {
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			d.logger.Warn("Skipping undecodable field", "key", key, "error", err)
			continue
		}
		data[key] = v
	}
	return data
}

// Get возвращает значение поля
func (d *Document) Get(key string) (any, bool) {
	raw, ok := d.m.Get(key)
	if !ok {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// GetInto декодирует значение поля в target
func (d *Document) GetInto(key string, target any) (bool, error) {
	raw, ok := d.m.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return true, fmt.Errorf("failed to decode field %q: %w", key, err)
	}
	return true, nil
}

// Set записывает значение поля
func (d *Document) Set(key string, value any) error {
	return d.Update(map[string]any{key: value})
}

// Update записывает несколько полей за одно изменение.
// Поля применяются в порядке сортировки ключей.
func (d *Document) Update(partial map[string]any) error {
	return d.apply(partial, nil, true)
}

// Delete удаляет поле
func (d *Document) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("field key cannot be empty")
	}
	return d.apply(nil, []string{key}, true)
}

// Stage записывает и удаляет поля одним локальным изменением без фоновой
// отправки. Отправить состояние вызывающий должен сам через Push.
func (d *Document) Stage(partial map[string]any, deletes []string) error {
	for _, key := range deletes {
		if key == "" {
			return fmt.Errorf("field key cannot be empty")
		}
	}
	return d.apply(partial, deletes, false)
}

// apply кодирует значения до применения: изменение применяется целиком или не применяется.
// Записи идут в порядке сортировки ключей, затем удаления в порядке вызова.
func (d *Document) apply(partial map[string]any, deletes []string, schedule bool) error {
	if len(partial) == 0 && len(deletes) == 0 {
		return nil
	}

	keys := make([]string, 0, len(partial))
	values := make(map[string]json.RawMessage, len(partial))
	for key, value := range partial {
		if key == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode field %q: %w", key, err)
		}
		keys = append(keys, key)
		values[key] = raw
	}
	sort.Strings(keys)

	changed := append(append([]string(nil), keys...), deletes...)
	return d.mutate(changed, schedule, func() {
		for _, key := range keys {
			d.m.Set(key, values[key])
		}
		for _, key := range deletes {
			d.m.Delete(key)
		}
	})
}

// mutate применяет локальное изменение, сохраняет реплику, уведомляет
// наблюдателей и только затем запрашивает фоновую отправку (если schedule)
func (d *Document) mutate(keys []string, schedule bool, apply func()) error {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrDestroyed
	}
	apply()
	d.persistLocked()
	observers := d.observersLocked()
	d.mu.Unlock()

	d.notify(observers, Change{Origin: OriginLocal, Keys: keys})
	if schedule {
		d.sync.request()
	}
	return nil
}

// Merge применяет бинарный update другой реплики.
// Наблюдатели вызываются только если видимое состояние изменилось.
func (d *Document) Merge(update []byte) error {
	state, err := crdt.DecodeState(update)
	if err != nil {
		return err
	}
	if (state.Type != "" && state.Type != d.docType) || (state.ID != "" && state.ID != d.id) {
		return fmt.Errorf("%w: update for %s/%s applied to %s/%s",
			crdt.ErrInvalidUpdate, state.Type, state.ID, d.docType, d.id)
	}

	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrDestroyed
	}
	changed := d.m.Merge(state)
	if len(changed) == 0 {
		d.mu.Unlock()
		return nil
	}
	d.persistLocked()
	observers := d.observersLocked()
	d.mu.Unlock()

	d.notify(observers, Change{Origin: OriginRemote, Keys: changed})
	return nil
}

// Pull получает состояние документа с сервера и сливает его с локальным
func (d *Document) Pull(ctx context.Context) error {
	if d.isDestroyed() {
		return ErrDestroyed
	}
	if !d.isOnline() {
		return ErrOffline
	}
	if d.remote == nil {
		return fmt.Errorf("remote is not configured")
	}

	update, err := d.remote.FetchDocument(ctx, d.docType, d.id)
	if err != nil {
		return fmt.Errorf("failed to fetch document: %w", err)
	}
	if len(update) == 0 {
		return nil
	}
	return d.Merge(update)
}

// Push синхронно отправляет полное состояние документа.
// Используется там, где процесс не живет достаточно долго для фоновой отправки.
// Ошибка отправки не откатывает локальное состояние.
func (d *Document) Push(ctx context.Context) error {
	if d.isDestroyed() {
		return ErrDestroyed
	}
	if !d.isOnline() {
		return ErrOffline
	}
	if d.remote == nil {
		return fmt.Errorf("remote is not configured")
	}

	update, err := d.Encode()
	if err != nil {
		return err
	}
	if err := d.remote.SyncDocument(ctx, d.docType, d.id, update); err != nil {
		return fmt.Errorf("failed to push document: %w", err)
	}

	d.sync.resetBackoff()
	return nil
}

// Flush запрашивает отправку немедленно, без ожидания паузы после ошибки.
// Используется после восстановления сети.
func (d *Document) Flush() {
	if d.isDestroyed() {
		return
	}
	d.sync.resetBackoff()
	d.sync.request()
}

// Encode возвращает бинарный update с полным состоянием документа
func (d *Document) Encode() ([]byte, error) {
	return crdt.EncodeState(d.m.State(d.docType, d.id))
}

// OnUpdate регистрирует наблюдателя. Возвращает функцию отписки.
func (d *Document) OnUpdate(observer Observer) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destroyed {
		return func() {}
	}

	d.nextObs++
	id := d.nextObs
	d.observers[id] = observer

	return func() {
		d.mu.Lock()
		delete(d.observers, id)
		d.mu.Unlock()
	}
}

// Destroy останавливает синхронизацию и закрывает реплику.
// Уничтоженный документ не уведомляет наблюдателей и отклоняет изменения.
func (d *Document) Destroy() error {
	return d.destroy(false)
}

// Purge уничтожает документ и удаляет его локальную реплику
func (d *Document) Purge() error {
	return d.destroy(true)
}

func (d *Document) destroy(remove bool) error {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return nil
	}
	d.destroyed = true
	d.observers = nil
	onDestroy := d.onDestroy
	d.mu.Unlock()

	d.sync.stop()

	if onDestroy != nil {
		onDestroy()
	}

	if remove {
		if err := d.replica.Remove(); err != nil {
			return fmt.Errorf("failed to remove replica: %w", err)
		}
		return nil
	}
	if err := d.replica.Close(); err != nil {
		return fmt.Errorf("failed to close replica: %w", err)
	}
	return nil
}

// Destroyed сообщает, был ли документ уничтожен
func (d *Document) Destroyed() bool {
	return d.isDestroyed()
}

func (d *Document) isDestroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}

func (d *Document) isOnline() bool {
	return d.online == nil || d.online.IsOnline()
}

// persistLocked сохраняет состояние в реплику. Ошибка не откатывает
// изменение: документ остается доступным в памяти.
func (d *Document) persistLocked() {
	state := d.m.State(d.docType, d.id)
	if err := d.replica.Save(context.Background(), state); err != nil {
		d.logger.Error("Failed to persist document replica", "error", err)
	}
}

func (d *Document) observersLocked() []Observer {
	ids := make([]uint64, 0, len(d.observers))
	for id := range d.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	observers := make([]Observer, 0, len(ids))
	for _, id := range ids {
		observers = append(observers, d.observers[id])
	}
	return observers
}

func (d *Document) notify(observers []Observer, change Change) {
	for _, observer := range observers {
		// Destroy из наблюдателя прекращает дальнейшие уведомления
		if d.isDestroyed() {
			return
		}
		observer(change)
	}
}
