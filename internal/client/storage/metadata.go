package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastSyncTimestamp saves the time (unix ms) of the last successful mutation replay
	SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error

	// GetLastSyncTimestamp retrieves the time of the last successful replay
	// Returns 0 if no replay has been performed yet
	GetLastSyncTimestamp(ctx context.Context) (int64, error)

	// SaveLastCleanupTimestamp saves the time (unix ms) of the last cache cleanup run
	SaveLastCleanupTimestamp(ctx context.Context, timestamp int64) error

	// GetLastCleanupTimestamp retrieves the time of the last cache cleanup run
	// Returns 0 if cleanup never ran
	GetLastCleanupTimestamp(ctx context.Context) (int64, error)
}
