package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/iudanet/zapsync/internal/client/storage"
	"github.com/iudanet/zapsync/internal/models"
	"github.com/iudanet/zapsync/internal/validation"
)

var (
	// bucketDocument хранит состояние документа внутри файла реплики
	bucketDocument = []byte("document")
	stateKey       = []byte("state")
)

const (
	replicaPrefix = "crdt-"
	replicaSuffix = ".db"
	// replicaSeparator не входит в алфавит идентификаторов,
	// иначе (a-b, c) и (a, b-c) дали бы одно имя файла
	replicaSeparator = "."
)

// replica is a CRDT document stored in its own BoltDB file
type replica struct {
	db     *bbolt.DB
	owner  *Storage
	name   string
	closed bool
	mu     sync.Mutex
}

// ReplicaFileName returns the file name of the replica for (docType, id)
func ReplicaFileName(docType, id string) string {
	return replicaPrefix + docType + replicaSeparator + id + replicaSuffix
}

// OpenReplica opens or creates the replica for (docType, id).
// Repeated opens of the same document return the already open handle.
func (s *Storage) OpenReplica(ctx context.Context, docType, id string) (storage.Replica, error) {
	if err := validation.ValidateDocument(docType, id); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	name := ReplicaFileName(docType, id)
	if r, ok := s.open[name]; ok {
		return r, nil
	}

	db, err := bbolt.Open(filepath.Join(s.replicaDir, name), 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open replica %s: %w", name, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDocument)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create document bucket: %w", err)
	}

	r := &replica{db: db, owner: s, name: name}
	s.open[name] = r

	return r, nil
}

// RemoveReplicas deletes all replica files that are not currently open
func (s *Storage) RemoveReplicas(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := filepath.Glob(filepath.Join(s.replicaDir, replicaPrefix+"*"+replicaSuffix))
	if err != nil {
		return fmt.Errorf("failed to list replicas: %w", err)
	}

	for _, path := range files {
		name := filepath.Base(path)
		// Открытые реплики удаляет их владелец (Destroy)
		if _, ok := s.open[name]; ok {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove replica %s: %w", name, err)
		}
	}

	return nil
}

// OpenReplicaCount returns the number of replicas currently open
func (s *Storage) OpenReplicaCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

// ListReplicas returns file names of all replicas on disk
func (s *Storage) ListReplicas() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.replicaDir, replicaPrefix+"*"+replicaSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list replicas: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, path := range files {
		names = append(names, strings.TrimSuffix(filepath.Base(path), replicaSuffix))
	}
	return names, nil
}

// Load returns the persisted document state
func (r *replica) Load(ctx context.Context) (*models.DocumentState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, storage.ErrStorageClosed
	}

	var state *models.DocumentState

	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketDocument)
		if bucket == nil {
			return storage.ErrReplicaNotFound
		}

		data := bucket.Get(stateKey)
		if data == nil {
			return storage.ErrReplicaNotFound
		}

		// Десериализуем
		state = &models.DocumentState{}
		if err := json.Unmarshal(data, state); err != nil {
			return fmt.Errorf("failed to unmarshal document state: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return state, nil
}

// Save replaces the persisted document state
func (r *replica) Save(ctx context.Context, state *models.DocumentState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return storage.ErrStorageClosed
	}

	// Сериализуем состояние в JSON
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal document state: %w", err)
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketDocument)
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		if err := bucket.Put(stateKey, data); err != nil {
			return fmt.Errorf("failed to save document state: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// Close releases the file handle. Close is idempotent.
func (r *replica) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	r.owner.mu.Lock()
	delete(r.owner.open, r.name)
	r.owner.mu.Unlock()

	return r.db.Close()
}

// Remove closes the replica and deletes its file
func (r *replica) Remove() error {
	path := r.db.Path()
	if err := r.Close(); err != nil {
		return fmt.Errorf("failed to close replica: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove replica file: %w", err)
	}
	return nil
}
