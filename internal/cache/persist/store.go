// Package persist держит кэш запросов в памяти и сохраняет его снимок
// в локальное хранилище с учетом политик доменов.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/zapsync/internal/cache/codec"
	"github.com/iudanet/zapsync/internal/cache/policy"
	"github.com/iudanet/zapsync/internal/client/events"
	"github.com/iudanet/zapsync/internal/client/storage"
	"github.com/iudanet/zapsync/internal/models"
)

// DefaultMaxAge максимальный возраст снимка, который восстанавливается при старте
const DefaultMaxAge = 24 * time.Hour

// ErrNotInitialized возвращается при обращении к Store до Init
var ErrNotInitialized = errors.New("query cache is not initialized")

// Store кэш запросов с явным жизненным циклом Init/Reset.
// Снимок в хранилище один на клиента и перезаписывается целиком.
type Store struct {
	storage     storage.SnapshotStorage
	table       *policy.Table
	bus         *events.Bus
	logger      *slog.Logger
	now         func() time.Time
	snapshot    *models.Snapshot
	buster      string
	maxAge      time.Duration
	initialized bool
	mu          sync.RWMutex
}

// Option настраивает Store
type Option func(*Store)

// WithBuster задает токен версии кэша. Снимок с другим токеном отбрасывается.
func WithBuster(buster string) Option {
	return func(s *Store) {
		s.buster = buster
	}
}

// WithMaxAge задает максимальный возраст восстанавливаемого снимка
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithBus включает публикацию EventCacheChanged
func WithBus(bus *events.Bus) Option {
	return func(s *Store) {
		s.bus = bus
	}
}

// New creates a query cache store
func New(snapshots storage.SnapshotStorage, table *policy.Table, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		storage: snapshots,
		table:   table,
		logger:  logger,
		now:     time.Now,
		maxAge:  DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init восстанавливает кэш из хранилища. Повторный вызов ничего не делает.
// Ошибка чтения хранилища не мешает работе: кэш стартует пустым.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.snapshot = s.emptySnapshot()
	s.initialized = true
	s.mu.Unlock()

	if _, err := s.Restore(ctx); err != nil {
		s.logger.Warn("Failed to restore query cache, starting empty", "error", err)
	}
	return nil
}

// Initialized сообщает, был ли вызван Init
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Put добавляет или заменяет запись запроса
func (s *Store) Put(key []string, data json.RawMessage, updatedAt time.Time) error {
	if len(key) == 0 {
		return fmt.Errorf("query key cannot be empty")
	}

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}

	record := models.NewQueryRecord(append([]string(nil), key...), data, updatedAt)
	queries := s.snapshot.ClientState.Queries
	replaced := false
	for i := range queries {
		if queries[i].QueryHash == record.QueryHash {
			queries[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		s.snapshot.ClientState.Queries = append(queries, record)
	}
	count := len(s.snapshot.ClientState.Queries)
	s.mu.Unlock()

	s.publish("put", count)
	return nil
}

// Get возвращает запись по ключу
func (s *Store) Get(key []string) (models.QueryRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return models.QueryRecord{}, false
	}

	hash := models.HashQueryKey(key)
	for _, q := range s.snapshot.ClientState.Queries {
		if q.QueryHash == hash {
			return q, true
		}
	}
	return models.QueryRecord{}, false
}

// Snapshot возвращает копию текущего состояния кэша
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil
	}
	return s.snapshot.Clone()
}

// Persist сохраняет обезвоженный снимок кэша в хранилище
func (s *Store) Persist(ctx context.Context) error {
	s.mu.RLock()
	if !s.initialized {
		s.mu.RUnlock()
		return ErrNotInitialized
	}
	dehydrated := Dehydrate(s.snapshot, s.table)
	s.mu.RUnlock()

	dehydrated.Buster = s.buster
	dehydrated.Timestamp = s.now().UnixMilli()

	if err := s.storage.SaveSnapshot(ctx, codec.Serialize(dehydrated)); err != nil {
		return fmt.Errorf("failed to persist query cache: %w", err)
	}

	s.logger.Debug("Query cache persisted", "queries", len(dehydrated.ClientState.Queries))
	s.publish("persist", len(dehydrated.ClientState.Queries))
	return nil
}

// Restore загружает снимок из хранилища в память.
// Нечитаемый, устаревший или снимок с другим buster удаляется из хранилища.
// Возвращает количество восстановленных записей.
func (s *Store) Restore(ctx context.Context) (int, error) {
	text, err := s.storage.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load query cache: %w", err)
	}

	snapshot := codec.Deserialize(text)
	if reason := s.discardReason(snapshot); reason != "" {
		s.logger.Info("Discarding persisted query cache", "reason", reason)
		if err := s.storage.DeleteSnapshot(ctx); err != nil {
			return 0, fmt.Errorf("failed to delete stale query cache: %w", err)
		}
		return 0, nil
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.initialized = true
	count := len(snapshot.ClientState.Queries)
	s.mu.Unlock()

	s.publish("restore", count)
	return count, nil
}

func (s *Store) discardReason(snapshot *models.Snapshot) string {
	switch {
	case snapshot == nil:
		return "unreadable"
	case snapshot.Buster != s.buster:
		return "buster mismatch"
	case s.now().Sub(time.UnixMilli(snapshot.Timestamp)) > s.maxAge:
		return "expired"
	default:
		return ""
	}
}

// Reset очищает кэш в памяти и в хранилище
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.snapshot = s.emptySnapshot()
	s.mu.Unlock()

	if err := s.storage.DeleteSnapshot(ctx); err != nil {
		return fmt.Errorf("failed to delete query cache: %w", err)
	}

	s.publish("reset", 0)
	return nil
}

func (s *Store) emptySnapshot() *models.Snapshot {
	return &models.Snapshot{
		Buster: s.buster,
		ClientState: models.ClientState{
			Queries:   []models.QueryRecord{},
			Mutations: []models.MutationRecord{},
		},
	}
}

func (s *Store) publish(reason string, queries int) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.EventCacheChanged, events.CacheChanged{Reason: reason, Queries: queries})
}

// Dehydrate готовит снимок к сохранению: удаляет записи доменов с
// Persist = false и обрезает payload до разрешенных полей.
// Записи неизвестных доменов сохраняются без изменений.
func Dehydrate(snapshot *models.Snapshot, table *policy.Table) *models.Snapshot {
	if snapshot == nil {
		return nil
	}

	result := snapshot.Clone()
	kept := make([]models.QueryRecord, 0, len(snapshot.ClientState.Queries))

	for _, q := range snapshot.ClientState.Queries {
		class := table.Classify(q.QueryKey)
		if !class.Known {
			kept = append(kept, q)
			continue
		}
		if !class.Policy.Persist {
			continue
		}
		q.State.Data = class.Policy.Project(q.State.Data)
		kept = append(kept, q)
	}

	result.ClientState.Queries = kept
	return result
}
