package boltdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketAuth     = []byte("auth")
	bucketCache    = []byte("cache")
	bucketMetadata = []byte("metadata")
)

// openTimeout ограничивает ожидание file lock, если база открыта другим процессом
const openTimeout = time.Second

// Storage represents BoltDB storage implementation for client.
// The main database holds the session, the encoded cache snapshot and metadata.
// CRDT documents live in separate database files under replicaDir.
type Storage struct {
	db         *bbolt.DB
	open       map[string]*replica
	replicaDir string
	mu         sync.Mutex
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file; document replicas are
// stored in the "replicas" directory next to it
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{
		db:         db,
		open:       make(map[string]*replica),
		replicaDir: filepath.Join(filepath.Dir(dbPath), "replicas"),
	}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	if err := os.MkdirAll(storage.replicaDir, 0700); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create replica directory: %w", err)
	}

	return storage, nil
}

// Close closes the database connection and all open replicas
func (s *Storage) Close() error {
	s.mu.Lock()
	replicas := make([]*replica, 0, len(s.open))
	for _, r := range s.open {
		replicas = append(replicas, r)
	}
	s.mu.Unlock()

	// Реплики удаляют себя из s.open в Close, поэтому закрываем вне блокировки
	for _, r := range replicas {
		_ = r.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketCache, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}
