// Package connectivity отслеживает доступность сети и сигнализирует,
// когда пора воспроизвести офлайн-мутации.
package connectivity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/zapsync/internal/client/events"
)

//go:generate moq -out pending_mock.go . PendingCounter

// PendingCounter источник количества мутаций в офлайн-очереди
type PendingCounter interface {
	PendingCount(ctx context.Context) (int, error)
}

// Monitor хранит состояние IsOnline/WasOffline.
// При возврате в онлайн после офлайна публикует ровно одно EventSyncRequested.
// Сам Monitor мутации не выполняет.
type Monitor struct {
	bus        *events.Bus
	pending    PendingCounter
	logger     *slog.Logger
	online     bool
	wasOffline bool
	mu         sync.RWMutex
}

// NewMonitor создает монитор. До первого сигнала сеть считается доступной.
func NewMonitor(bus *events.Bus, pending PendingCounter, logger *slog.Logger) *Monitor {
	return &Monitor{
		bus:     bus,
		pending: pending,
		logger:  logger,
		online:  true,
	}
}

// Run применяет изменения доступности из signal, пока не отменен ctx
// или signal не закрыт. nil signal означает, что источник недоступен:
// сеть считается доступной, переходы не отслеживаются.
func (m *Monitor) Run(ctx context.Context, signal <-chan bool) error {
	if signal == nil {
		m.mu.Lock()
		m.online = true
		m.wasOffline = false
		m.mu.Unlock()

		m.logger.Debug("Connectivity signal unavailable, assuming online")
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case online, ok := <-signal:
			if !ok {
				return nil
			}
			m.SetOnline(online)
		}
	}
}

// SetOnline применяет одно изменение доступности сети
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}

	m.online = online
	syncRequested := false
	if !online {
		m.wasOffline = true
	} else if m.wasOffline {
		m.wasOffline = false
		syncRequested = true
	}
	m.mu.Unlock()

	m.logger.Info("Connectivity changed", "online", online)

	// Публикуем вне блокировки: обработчики могут читать состояние монитора
	if m.bus != nil {
		m.bus.Publish(events.EventOnlineChanged, events.OnlineChanged{Online: online})
		if syncRequested {
			m.bus.Publish(events.EventSyncRequested, nil)
		}
	}
}

// IsOnline сообщает текущую доступность сети
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// WasOffline сообщает, был ли офлайн после последнего запроса синхронизации
func (m *Monitor) WasOffline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wasOffline
}

// PendingCount возвращает количество мутаций в офлайн-очереди
func (m *Monitor) PendingCount(ctx context.Context) (int, error) {
	if m.pending == nil {
		return 0, nil
	}
	count, err := m.pending.PendingCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending mutations: %w", err)
	}
	return count, nil
}

// NeedsAttention сообщает, что пользователю стоит показать индикатор:
// сеть недоступна или есть невоспроизведенные мутации
func (m *Monitor) NeedsAttention(ctx context.Context) (bool, error) {
	if !m.IsOnline() {
		return true, nil
	}
	count, err := m.PendingCount(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
