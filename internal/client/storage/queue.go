package storage

import (
	"context"

	"github.com/iudanet/zapsync/internal/models"
)

//go:generate moq -out queue_mock.go . MutationQueue

// MutationQueue is a durable FIFO of mutations made while offline
type MutationQueue interface {
	// Enqueue appends a mutation to the tail of the queue
	Enqueue(ctx context.Context, m *models.PendingMutation) error

	// Pending returns up to limit queued mutations in FIFO order (limit <= 0 means all)
	Pending(ctx context.Context, limit int) ([]*models.PendingMutation, error)

	// PendingCount returns the number of queued mutations
	PendingCount(ctx context.Context) (int, error)

	// MarkDone removes a replayed mutation from the queue
	// Returns ErrMutationNotFound if mutation doesn't exist
	MarkDone(ctx context.Context, id string) error

	// MarkFailed records a failed replay attempt
	// Returns ErrMutationNotFound if mutation doesn't exist
	MarkFailed(ctx context.Context, id string, reason string) error

	// Clear removes all queued mutations (sign-out)
	Clear(ctx context.Context) error
}
