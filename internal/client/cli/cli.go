// Package cli реализует команды клиента поверх сервисов кэша, сессии,
// документов и офлайн-очереди. Вывод идет через iocli.IO.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iudanet/zapsync/internal/cache/cleanup"
	"github.com/iudanet/zapsync/internal/client/auth"
	"github.com/iudanet/zapsync/internal/client/document"
	"github.com/iudanet/zapsync/internal/client/iocli"
	"github.com/iudanet/zapsync/internal/client/storage"
	"github.com/iudanet/zapsync/internal/client/sync"
	"github.com/iudanet/zapsync/internal/models"
)

// TokenEnv переменная окружения с bearer токеном
const TokenEnv = "ZAPSYNC_TOKEN"

// QueryCache кэш запросов с персистентным снимком
type QueryCache interface {
	Snapshot() *models.Snapshot
	Get(key []string) (models.QueryRecord, bool)
	Put(key []string, data json.RawMessage, updatedAt time.Time) error
	Persist(ctx context.Context) error
}

// Cleaner выполняет один проход очистки кэша
type Cleaner interface {
	RunOnce(ctx context.Context) (*cleanup.Report, error)
}

// DocumentOpener открывает CRDT документы
type DocumentOpener interface {
	Open(ctx context.Context, docType, id string) (*document.Document, error)
}

// Connectivity состояние сети
type Connectivity interface {
	IsOnline() bool
}

// Deps зависимости команд. Незаданные зависимости отключают соответствующие команды.
type Deps struct {
	IO       iocli.IO
	Auth     auth.Service
	Sync     sync.Service
	Queue    storage.MutationQueue
	Metadata storage.MetadataStorage
	Cache    QueryCache
	Cleaner  Cleaner
	Docs     DocumentOpener
	Online   Connectivity
	Now      func() time.Time
}

type Cli struct {
	io          iocli.IO
	authService auth.Service
	syncService sync.Service
	queue       storage.MutationQueue
	metadata    storage.MetadataStorage
	cache       QueryCache
	cleaner     Cleaner
	docs        DocumentOpener
	online      Connectivity
	now         func() time.Time
}

func New(deps Deps) *Cli {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Cli{
		io:          deps.IO,
		authService: deps.Auth,
		syncService: deps.Sync,
		queue:       deps.Queue,
		metadata:    deps.Metadata,
		cache:       deps.Cache,
		cleaner:     deps.Cleaner,
		docs:        deps.Docs,
		online:      deps.Online,
		now:         deps.Now,
	}
}

// TokenSources источники bearer токена для команды token
type TokenSources struct {
	FromFile string
	FromArgs string
}

// getToken retrieves bearer token from various sources with priority:
// 1. Environment variable ZAPSYNC_TOKEN
// 2. File specified in FromFile
// 3. Command-line parameter FromArgs
// 4. Interactive prompt (fallback)
func (c *Cli) getToken(sources TokenSources) (string, error) {
	// Priority 1: Environment variable
	if envToken := os.Getenv(TokenEnv); envToken != "" {
		return envToken, nil
	}

	// Priority 2: File
	if sources.FromFile != "" {
		content, err := os.ReadFile(sources.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		token := strings.TrimSpace(string(content))
		if token == "" {
			return "", fmt.Errorf("token file is empty")
		}
		return token, nil
	}

	// Priority 3: CLI parameter
	if sources.FromArgs != "" {
		return sources.FromArgs, nil
	}

	// Priority 4: Interactive prompt (fallback)
	token, err := c.io.ReadPassword("Access token: ")
	if err != nil {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}

	return token, nil
}

func (c *Cli) isOnline() bool {
	return c.online == nil || c.online.IsOnline()
}
