package connectivity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/zapsync/internal/client/api"
)

// DefaultProbeInterval период проверки доступности backend
const DefaultProbeInterval = 15 * time.Second

//go:generate moq -out checker_mock.go . HealthChecker

// HealthChecker проверяет доступность backend
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Prober периодически проверяет backend и выдает изменения доступности.
// Это источник сигнала для Monitor.
type Prober struct {
	checker  HealthChecker
	logger   *slog.Logger
	interval time.Duration
}

// NewProber creates a connectivity prober
func NewProber(checker HealthChecker, interval time.Duration, logger *slog.Logger) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Prober{
		checker:  checker,
		interval: interval,
		logger:   logger,
	}
}

// Run запускает проверки и возвращает канал изменений доступности.
// Первый результат отправляется всегда, далее только изменения.
// Канал закрывается после отмены ctx.
func (p *Prober) Run(ctx context.Context) <-chan bool {
	out := make(chan bool, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var (
			last  bool
			first = true
		)
		for {
			online := p.Probe(ctx)
			if ctx.Err() != nil {
				return
			}

			if first || online != last {
				select {
				case out <- online:
				case <-ctx.Done():
					return
				}
				first = false
				last = online
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

// Probe выполняет одну проверку. Ответ backend с кодом < 500
// означает, что сеть доступна, даже если запрос отклонен.
func (p *Prober) Probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	err := p.checker.Health(probeCtx)
	if err == nil {
		return true
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
		return true
	}

	p.logger.Debug("Backend unreachable", "error", err)
	return false
}
