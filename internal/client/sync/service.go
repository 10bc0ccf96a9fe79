// Package sync воспроизводит офлайн-мутации на сервере и отправляет
// накопленные изменения открытых CRDT документов после восстановления сети.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	httpClient "github.com/iudanet/zapsync/internal/client/api"
	"github.com/iudanet/zapsync/internal/client/events"
	"github.com/iudanet/zapsync/internal/client/storage"
	"github.com/iudanet/zapsync/internal/models"
	"github.com/iudanet/zapsync/pkg/api"
)

//go:generate moq -out service_mock.go . Service Flusher

// Service определяет интерфейс для sync.Service
type Service interface {
	// Enqueue ставит мутацию в офлайн-очередь
	Enqueue(ctx context.Context, kind string, payload json.RawMessage) (*models.PendingMutation, error)

	// Replay воспроизводит очередь мутаций на сервере в порядке FIFO
	Replay(ctx context.Context) (*ReplayResult, error)

	// GetPendingCount возвращает количество мутаций, ожидающих воспроизведения
	GetPendingCount(ctx context.Context) (int, error)
}

// Flusher отправляет накопленные изменения открытых документов.
// Реализуется document.Registry.
type Flusher interface {
	FlushAll() int
}

// ReplayResult contains replay operation results
type ReplayResult struct {
	FailedID  string // FailedID мутация, на которой воспроизведение остановилось
	Replayed  int    // количество воспроизведенных мутаций
	Duplicate int    // количество мутаций, уже примененных сервером ранее
	Remaining int    // количество мутаций, оставшихся в очереди
	Flushed   int    // количество документов, которым запрошена отправка
}

const replayKey = "replay"

type service struct {
	apiClient       httpClient.ClientAPI
	queue           storage.MutationQueue
	metadataStorage storage.MetadataStorage
	flusher         Flusher
	logger          *slog.Logger
	now             func() time.Time
	group           singleflight.Group
}

// NewService creates a new replay service. flusher может быть nil.
func NewService(
	apiClient httpClient.ClientAPI,
	queue storage.MutationQueue,
	metadataStorage storage.MetadataStorage,
	flusher Flusher,
	logger *slog.Logger,
) Service {
	return &service{
		apiClient:       apiClient,
		queue:           queue,
		metadataStorage: metadataStorage,
		flusher:         flusher,
		logger:          logger,
		now:             time.Now,
	}
}

// Enqueue создает мутацию с новым идемпотентным ID
func (s *service) Enqueue(ctx context.Context, kind string, payload json.RawMessage) (*models.PendingMutation, error) {
	if kind == "" {
		return nil, fmt.Errorf("mutation kind cannot be empty")
	}
	if len(payload) > 0 && !json.Valid(payload) {
		return nil, fmt.Errorf("mutation payload is not valid JSON")
	}

	m := &models.PendingMutation{
		ID:      uuid.NewString(),
		Kind:    kind,
		Payload: payload,
	}
	if err := s.queue.Enqueue(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	s.logger.Debug("Mutation enqueued", "mutation_id", m.ID, "kind", kind, "seq", m.Seq)
	return m, nil
}

// Replay воспроизводит очередь. Параллельные вызовы схлопываются
// в одно воспроизведение и получают общий результат.
func (s *service) Replay(ctx context.Context) (*ReplayResult, error) {
	v, err, shared := s.group.Do(replayKey, func() (interface{}, error) {
		return s.replay(ctx)
	})
	if shared {
		s.logger.Debug("Joined in-flight replay")
	}

	result, _ := v.(*ReplayResult)
	return result, err
}

// replay
// 1. Запрашивает отправку всех открытых документов
// 2. Воспроизводит мутации по одной, в порядке постановки в очередь
// 3. Останавливается на первой ошибке, чтобы не нарушить порядок
func (s *service) replay(ctx context.Context) (*ReplayResult, error) {
	result := &ReplayResult{}

	if s.flusher != nil {
		result.Flushed = s.flusher.FlushAll()
	}

	pending, err := s.queue.Pending(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending mutations: %w", err)
	}

	s.logger.Info("Starting mutation replay", "pending", len(pending), "documents", result.Flushed)

	for i, m := range pending {
		resp, err := s.apiClient.ReplayMutation(ctx, api.MutationRequest{
			ID:        m.ID,
			Kind:      m.Kind,
			Payload:   m.Payload,
			CreatedAt: m.CreatedAt,
		})
		if err != nil {
			result.FailedID = m.ID
			result.Remaining = len(pending) - i

			if markErr := s.queue.MarkFailed(ctx, m.ID, err.Error()); markErr != nil {
				s.logger.Warn("Failed to record replay failure", "mutation_id", m.ID, "error", markErr)
			}
			s.logger.Warn("Mutation replay failed, stopping",
				"mutation_id", m.ID,
				"kind", m.Kind,
				"attempts", m.Attempts+1,
				"remaining", result.Remaining,
				"error", err)

			return result, fmt.Errorf("failed to replay mutation %s: %w", m.ID, err)
		}

		if resp != nil && !resp.Applied {
			result.Duplicate++
		}

		if err := s.queue.MarkDone(ctx, m.ID); err != nil && !errors.Is(err, storage.ErrMutationNotFound) {
			// Сервер принял мутацию, повторная отправка будет идемпотентной
			result.Remaining = len(pending) - i - 1
			return result, fmt.Errorf("failed to remove replayed mutation %s: %w", m.ID, err)
		}
		result.Replayed++
	}

	if err := s.metadataStorage.SaveLastSyncTimestamp(ctx, s.now().UnixMilli()); err != nil {
		s.logger.Warn("Failed to save last sync timestamp", "error", err)
	}

	s.logger.Info("Mutation replay completed",
		"replayed", result.Replayed,
		"duplicate", result.Duplicate,
		"flushed", result.Flushed)

	return result, nil
}

// GetPendingCount возвращает количество мутаций в очереди
func (s *service) GetPendingCount(ctx context.Context) (int, error) {
	count, err := s.queue.PendingCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending mutations: %w", err)
	}
	return count, nil
}

// Listen запускает воспроизведение на каждое EventSyncRequested.
// Обработчик не блокирует публикующего: воспроизведение идет в отдельной горутине
// с контекстом ctx. Возвращает функцию отписки.
func Listen(ctx context.Context, bus *events.Bus, svc Service, logger *slog.Logger) (unsubscribe func()) {
	return bus.Subscribe(events.EventSyncRequested, func(events.Event) {
		go func() {
			if ctx.Err() != nil {
				return
			}
			if _, err := svc.Replay(ctx); err != nil {
				logger.Warn("Replay after reconnect failed", "error", err)
			}
		}()
	})
}
