package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/iudanet/zapsync/internal/cache/cleanup"
	"github.com/iudanet/zapsync/internal/cache/persist"
	"github.com/iudanet/zapsync/internal/client/api"
	"github.com/iudanet/zapsync/internal/client/auth"
	"github.com/iudanet/zapsync/internal/client/cli"
	"github.com/iudanet/zapsync/internal/client/connectivity"
	"github.com/iudanet/zapsync/internal/client/document"
	"github.com/iudanet/zapsync/internal/client/events"
	"github.com/iudanet/zapsync/internal/client/iocli"
	"github.com/iudanet/zapsync/internal/client/storage/boltdb"
	"github.com/iudanet/zapsync/internal/client/storage/sqlite"
	"github.com/iudanet/zapsync/internal/client/sync"
	"github.com/iudanet/zapsync/internal/config"
)

// app собирает зависимости клиента для одного запуска команды
type app struct {
	auth    auth.Service
	sync    sync.Service
	cfg     *config.Config
	logger  *slog.Logger
	bolt    *boltdb.Storage
	queue   *sqlite.Storage
	bus     *events.Bus
	api     *api.Client
	cache   *persist.Store
	engine  *cleanup.Engine
	monitor *connectivity.Monitor
	prober  *connectivity.Prober
	docs    *document.Registry
	cli     *cli.Cli
}

func newApp(ctx context.Context, configPath, envFile string) (*app, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}

	table, err := cfg.PolicyTable()
	if err != nil {
		return nil, err
	}

	logger := cfg.Log.NewLogger(os.Stderr)

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, bus: events.NewBus()}

	a.bolt, err = boltdb.New(ctx, cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a.queue, err = sqlite.New(ctx, cfg.QueuePath())
	if err != nil {
		_ = a.bolt.Close()
		return nil, fmt.Errorf("failed to open mutation queue: %w", err)
	}

	a.cache = persist.New(a.bolt, table, logger,
		persist.WithBuster(cfg.Cache.Buster),
		persist.WithMaxAge(cfg.Cache.MaxAge),
		persist.WithBus(a.bus),
	)

	// Выход из сессии удаляет все локальные данные
	a.auth = auth.NewService(a.bolt, logger,
		auth.WithCleanup("query cache", a.cache.Reset),
		auth.WithCleanup("mutation queue", a.queue.Clear),
		auth.WithCleanup("document replicas", a.bolt.RemoveReplicas),
	)

	a.api = api.NewClient(cfg.API.URL, logger,
		api.WithTimeout(cfg.API.Timeout),
		api.WithTokenSource(auth.TokenSource(a.auth)),
	)

	if err := a.cache.Init(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.engine = cleanup.NewEngine(a.bolt, table, logger,
		cleanup.WithInterval(cfg.Cache.CleanupInterval),
		cleanup.WithMetadata(a.bolt),
	)

	a.monitor = connectivity.NewMonitor(a.bus, a.queue, logger)
	a.prober = connectivity.NewProber(a.api, cfg.Network.ProbeInterval, logger)

	a.docs = document.NewRegistry(document.Deps{
		Replicas: a.bolt,
		Remote:   a.api,
		Online:   a.monitor,
		Bus:      a.bus,
		Logger:   logger,
	})

	a.sync = sync.NewService(a.api, a.queue, a.bolt, a.docs, logger)

	a.cli = cli.New(cli.Deps{
		IO:       iocli.NewStdio(),
		Auth:     a.auth,
		Sync:     a.sync,
		Queue:    a.queue,
		Metadata: a.bolt,
		Cache:    a.cache,
		Cleaner:  a.engine,
		Docs:     a.docs,
		Online:   a.monitor,
	})

	return a, nil
}

// probe проверяет доступность сервера один раз
// для команд, которые не держат соединение
func (a *app) probe(ctx context.Context) {
	a.monitor.SetOnline(a.prober.Probe(ctx))
}

// Close освобождает ресурсы в обратном порядке открытия
func (a *app) Close() {
	var errs []error
	if a.engine != nil {
		a.engine.Stop()
	}
	if a.docs != nil {
		errs = append(errs, a.docs.Close())
	}
	if a.queue != nil {
		errs = append(errs, a.queue.Close())
	}
	if a.bolt != nil {
		errs = append(errs, a.bolt.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Error("Failed to close local storage", "error", err)
	}
}
