package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/zapsync/internal/client/cli"
	"github.com/iudanet/zapsync/internal/client/sync"
)

// newRootCommand возвращает корневую команду и функцию освобождения ресурсов.
// Функцию освобождения вызывают и после ошибки команды.
func newRootCommand() (*cobra.Command, func()) {
	var (
		a          *app
		configPath string
		envFile    string
	)

	root := &cobra.Command{
		Use:           "zapsync",
		Short:         "Offline-first cache and document sync for the dashboard client",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(cmd.Context(), configPath, envFile)
			return err
		},
	}
	root.SetVersionTemplate(versionString())
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to .env file (default .env if present)")

	// Команды получают app после PersistentPreRunE
	current := func() *app { return a }

	root.AddCommand(
		newStatusCommand(current),
		newTokenCommand(current),
		newCleanupCommand(current),
		newClearCommand(current),
		newDocCommand(current),
		newCacheCommand(current),
		newQueueCommand(current),
		newWatchCommand(current),
	)

	closeApp := func() {
		if a != nil {
			a.Close()
		}
	}
	return root, closeApp
}

func newStatusCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, connectivity, queue and cache state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			a.probe(cmd.Context())
			return a.cli.RunStatus(cmd.Context())
		},
	}
}

func newTokenCommand(current func() *app) *cobra.Command {
	var sources cli.TokenSources

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Save the access token for API requests",
		Long: "Save the access token for API requests.\n\n" +
			"The token is read from " + cli.TokenEnv + ", --token-file, --token " +
			"or an interactive prompt, in that order.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().cli.RunToken(cmd.Context(), sources)
		},
	}
	cmd.Flags().StringVar(&sources.FromFile, "token-file", "", "Read token from file")
	cmd.Flags().StringVar(&sources.FromArgs, "token", "", "Token value (visible in shell history)")
	return cmd
}

func newCleanupCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Evict expired and excess cached queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().cli.RunCleanup(cmd.Context())
		},
	}
}

func newClearCommand(current func() *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Sign out and remove all local data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().cli.RunClear(cmd.Context(), force)
		},
	}
	cmd.Flags().BoolVarP(&force, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newDocCommand(current func() *app) *cobra.Command {
	doc := &cobra.Command{
		Use:   "doc",
		Short: "Read and edit synced documents",
	}

	doc.AddCommand(
		&cobra.Command{
			Use:   "get <type> <id> [field]",
			Short: "Print a document or one of its fields as JSON",
			Args:  cobra.RangeArgs(2, 3),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := current()
				a.probe(cmd.Context())
				return a.cli.RunDocGet(cmd.Context(), args)
			},
		},
		&cobra.Command{
			Use:   "set <type> <id> <key=value>...",
			Short: "Set document fields (key= removes a field)",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := current()
				a.probe(cmd.Context())
				return a.cli.RunDocSet(cmd.Context(), args)
			},
		},
	)
	return doc
}

func newCacheCommand(current func() *app) *cobra.Command {
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Write and read the persisted query cache",
	}

	cache.AddCommand(
		&cobra.Command{
			Use:   "put <domain> [key...] <json>",
			Short: "Cache a query result and persist the snapshot",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return current().cli.RunCachePut(cmd.Context(), args)
			},
		},
		&cobra.Command{
			Use:   "get <domain> [key...]",
			Short: "Print a cached query result",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return current().cli.RunCacheGet(cmd.Context(), args)
			},
		},
	)
	return cache
}

func newQueueCommand(current func() *app) *cobra.Command {
	queue := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and replay the offline mutation queue",
	}

	queue.AddCommand(
		&cobra.Command{
			Use:   "add <kind> [json-payload]",
			Short: "Queue a mutation for replay",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return current().cli.RunQueueAdd(cmd.Context(), args)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List pending mutations in replay order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return current().cli.RunQueueList(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "replay",
			Short: "Replay pending mutations now",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := current()
				a.probe(cmd.Context())
				return a.cli.RunQueueReplay(cmd.Context())
			},
		},
	)
	return queue
}

func newWatchCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Track connectivity, replay the queue on reconnect and run scheduled cleanup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), current())
		},
	}
}

// runWatch работает до SIGINT/SIGTERM
func runWatch(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	unsubscribeEvents := a.bus.Subscribe("", a.cli.PrintEvent)
	defer unsubscribeEvents()

	unsubscribeReplay := sync.Listen(ctx, a.bus, a.sync, a.logger)
	defer unsubscribeReplay()

	// Мутации, оставшиеся с прошлого запуска, воспроизводим сразу
	if a.prober.Probe(ctx) {
		if _, err := a.sync.Replay(ctx); err != nil {
			a.logger.Warn("Initial replay failed", "error", err)
		}
	} else {
		a.monitor.SetOnline(false)
	}

	a.engine.Schedule(ctx)
	defer a.engine.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.monitor.Run(gctx, a.prober.Run(gctx))
	})

	a.logger.Info("Watching", "api", a.cfg.API.URL, "data_dir", a.cfg.Storage.DataDir)

	err := g.Wait()
	if ctx.Err() != nil {
		// Остановка по сигналу
		return nil
	}
	return err
}
