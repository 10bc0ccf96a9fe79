package storage

import "context"

//go:generate moq -out snapshot_mock.go . SnapshotStorage

// SnapshotStorage stores the encoded query cache snapshot under a single fixed key.
// The storage works with already encoded text and does not interpret it.
type SnapshotStorage interface {
	// LoadSnapshot returns the encoded snapshot
	// Returns ErrSnapshotNotFound if no snapshot was saved
	LoadSnapshot(ctx context.Context) (string, error)

	// SaveSnapshot replaces the encoded snapshot (last write wins)
	SaveSnapshot(ctx context.Context, text string) error

	// DeleteSnapshot removes the snapshot. Deleting a missing snapshot is not an error.
	DeleteSnapshot(ctx context.Context) error
}
