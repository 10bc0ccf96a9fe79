package storage

import (
	"context"

	"github.com/iudanet/zapsync/internal/models"
)

//go:generate moq -out replica_mock.go . Replica ReplicaOpener

// Replica is a local durable copy of a single CRDT document.
// Each (type, id) pair has its own replica.
type Replica interface {
	// Load returns the persisted document state
	// Returns ErrReplicaNotFound if nothing was persisted yet
	Load(ctx context.Context) (*models.DocumentState, error)

	// Save replaces the persisted document state
	Save(ctx context.Context, state *models.DocumentState) error

	// Close releases the storage handle. Close is idempotent.
	Close() error

	// Remove closes the replica and deletes its persisted data
	Remove() error
}

// ReplicaOpener opens per-document replicas
type ReplicaOpener interface {
	// OpenReplica opens or creates the replica for (docType, id)
	OpenReplica(ctx context.Context, docType, id string) (Replica, error)

	// RemoveReplicas deletes all replicas that are not currently open
	// Used on sign-out
	RemoveReplicas(ctx context.Context) error
}
