package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
)

var (
	keyLastSyncTimestamp    = []byte("last_sync_timestamp")
	keyLastCleanupTimestamp = []byte("last_cleanup_timestamp")
)

// SaveLastSyncTimestamp saves the time of the last successful mutation replay
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	return s.saveTimestamp(keyLastSyncTimestamp, timestamp)
}

// GetLastSyncTimestamp retrieves the time of the last successful mutation replay
// Returns 0 if no replay has been performed yet
func (s *Storage) GetLastSyncTimestamp(ctx context.Context) (int64, error) {
	ts, err := s.getTimestamp(keyLastSyncTimestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to get last sync timestamp: %w", err)
	}
	return ts, nil
}

// SaveLastCleanupTimestamp saves the time of the last cache cleanup run
func (s *Storage) SaveLastCleanupTimestamp(ctx context.Context, timestamp int64) error {
	return s.saveTimestamp(keyLastCleanupTimestamp, timestamp)
}

// GetLastCleanupTimestamp retrieves the time of the last cache cleanup run
// Returns 0 if cleanup never ran
func (s *Storage) GetLastCleanupTimestamp(ctx context.Context) (int64, error) {
	ts, err := s.getTimestamp(keyLastCleanupTimestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to get last cleanup timestamp: %w", err)
	}
	return ts, nil
}

// Временные метки хранятся как big-endian uint64 (unix ms)
func (s *Storage) saveTimestamp(key []byte, timestamp int64) error {
	value := binary.BigEndian.AppendUint64(nil, uint64(timestamp))
	return s.putValue(bucketMetadata, key, value)
}

func (s *Storage) getTimestamp(key []byte) (int64, error) {
	value, err := s.getValue(bucketMetadata, key)
	if err != nil {
		return 0, err
	}
	if value == nil {
		return 0, nil
	}
	if len(value) != 8 {
		return 0, fmt.Errorf("corrupted %s value: %d bytes", key, len(value))
	}
	return int64(binary.BigEndian.Uint64(value)), nil
}
