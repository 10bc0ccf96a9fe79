package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no session data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrSnapshotNotFound indicates that no persisted cache snapshot exists
	ErrSnapshotNotFound = errors.New("cache snapshot not found")

	// ErrReplicaNotFound indicates that a document replica has no persisted state yet
	ErrReplicaNotFound = errors.New("document replica not found")

	// ErrMutationNotFound indicates that queued mutation was not found
	ErrMutationNotFound = errors.New("mutation not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
