package boltdb

import (
	"context"
	"fmt"

	"github.com/iudanet/zapsync/internal/client/storage"
)

// snapshotKey фиксированный ключ, под которым хранится весь снимок кэша
var snapshotKey = []byte("zapsync-query-cache")

// LoadSnapshot returns the encoded cache snapshot or ErrSnapshotNotFound
func (s *Storage) LoadSnapshot(ctx context.Context) (string, error) {
	data, err := s.getValue(bucketCache, snapshotKey)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", storage.ErrSnapshotNotFound
	}
	return string(data), nil
}

// SaveSnapshot replaces the encoded cache snapshot
func (s *Storage) SaveSnapshot(ctx context.Context, text string) error {
	if err := s.putValue(bucketCache, snapshotKey, []byte(text)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// DeleteSnapshot removes the encoded cache snapshot. Missing snapshot is not an error.
func (s *Storage) DeleteSnapshot(ctx context.Context) error {
	_, err := s.deleteValue(bucketCache, snapshotKey)
	return err
}
