package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/zapsync/internal/client/storage"
	"github.com/iudanet/zapsync/internal/models"
)

var _ storage.MutationQueue = (*Storage)(nil)

// Enqueue appends a mutation to the tail of the queue
func (s *Storage) Enqueue(ctx context.Context, m *models.PendingMutation) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO pending_mutations (id, kind, payload, attempts, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		m.ID,
		m.Kind,
		[]byte(m.Payload),
		m.Attempts,
		m.LastError,
		m.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get mutation seq: %w", err)
	}
	m.Seq = seq

	return nil
}

// Pending returns up to limit queued mutations in FIFO order
// limit <= 0 returns all mutations
func (s *Storage) Pending(ctx context.Context, limit int) ([]*models.PendingMutation, error) {
	query := `
		SELECT seq, id, kind, payload, attempts, last_error, created_at
		FROM pending_mutations
		ORDER BY seq ASC
		LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending mutations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var mutations []*models.PendingMutation

	for rows.Next() {
		var (
			m         models.PendingMutation
			payload   []byte
			createdAt int64
		)
		if err := rows.Scan(&m.Seq, &m.ID, &m.Kind, &payload, &m.Attempts, &m.LastError, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan mutation: %w", err)
		}
		m.Payload = payload
		m.CreatedAt = time.UnixMilli(createdAt)
		mutations = append(mutations, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mutations: %w", err)
	}

	return mutations, nil
}

// PendingCount returns the number of queued mutations
func (s *Storage) PendingCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_mutations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending mutations: %w", err)
	}
	return count, nil
}

// MarkDone removes a replayed mutation from the queue
func (s *Storage) MarkDone(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_mutations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mutation: %w", err)
	}
	return checkAffected(res.RowsAffected())
}

// MarkFailed records a failed replay attempt
func (s *Storage) MarkFailed(ctx context.Context, id string, reason string) error {
	query := `
		UPDATE pending_mutations
		SET attempts = attempts + 1, last_error = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query, reason, id)
	if err != nil {
		return fmt.Errorf("failed to update mutation: %w", err)
	}
	return checkAffected(res.RowsAffected())
}

// Clear removes all queued mutations
func (s *Storage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pending_mutations`); err != nil {
		return fmt.Errorf("failed to clear mutations: %w", err)
	}
	return nil
}

func checkAffected(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrMutationNotFound
	}
	return nil
}
