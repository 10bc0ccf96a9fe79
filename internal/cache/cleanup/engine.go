package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/zapsync/internal/cache/codec"
	"github.com/iudanet/zapsync/internal/cache/policy"
	"github.com/iudanet/zapsync/internal/client/storage"
)

// DefaultInterval период повторной очистки
const DefaultInterval = 24 * time.Hour

// Engine применяет Cleanup к сохраненному снимку кэша
type Engine struct {
	store    storage.SnapshotStorage
	metadata storage.MetadataStorage
	table    *policy.Table
	logger   *slog.Logger
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration
	mu       sync.Mutex
}

// Option настраивает Engine
type Option func(*Engine)

// WithInterval задает период повторной очистки
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithMetadata включает запись времени последней очистки
func WithMetadata(metadata storage.MetadataStorage) Option {
	return func(e *Engine) {
		e.metadata = metadata
	}
}

// NewEngine creates a cleanup engine
func NewEngine(store storage.SnapshotStorage, table *policy.Table, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		table:    table,
		logger:   logger,
		now:      time.Now,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunOnce выполняет один проход очистки сохраненного снимка.
// Отсутствующий, пустой или нечитаемый снимок не меняется.
// Снимок перезаписывается, только если что-то было удалено.
func (e *Engine) RunOnce(ctx context.Context) (*Report, error) {
	text, err := e.store.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			return &Report{Removed: map[policy.Domain]int{}}, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snapshot := codec.Deserialize(text)
	if snapshot.IsEmpty() {
		if snapshot == nil {
			e.logger.Warn("Cache snapshot is unreadable, skipping cleanup")
		}
		e.recordRun(ctx)
		return &Report{Removed: map[policy.Domain]int{}}, nil
	}

	cleaned, report := cleanup(snapshot, e.table, e.now())

	if report.RemovedTotal() > 0 {
		if err := e.store.SaveSnapshot(ctx, codec.Serialize(cleaned)); err != nil {
			return nil, fmt.Errorf("failed to save cleaned snapshot: %w", err)
		}
	}

	e.recordRun(ctx)

	e.logger.Info("Cache cleanup completed",
		"before", report.Before,
		"after", report.After,
		"removed", report.RemovedTotal())

	return report, nil
}

func (e *Engine) recordRun(ctx context.Context) {
	if e.metadata == nil {
		return
	}
	if err := e.metadata.SaveLastCleanupTimestamp(ctx, e.now().UnixMilli()); err != nil {
		e.logger.Warn("Failed to save last cleanup timestamp", "error", err)
	}
}

// Schedule запускает очистку немедленно и затем с периодом interval,
// пока не отменен ctx или не вызван Stop. Активен только один цикл:
// повторный вызов останавливает предыдущий.
func (e *Engine) Schedule(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done

	go e.loop(loopCtx, done)
}

// Stop останавливает запланированную очистку и ждет завершения цикла
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.cancel == nil {
		return
	}
	e.cancel()
	<-e.done
	e.cancel, e.done = nil, nil
}

func (e *Engine) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		// Ошибки хранилища логируются и не прерывают цикл
		if _, err := e.RunOnce(ctx); err != nil {
			e.logger.Error("Scheduled cache cleanup failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
