package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/zapsync/internal/client/storage"
)

// sessionKey единственная сессия клиента
var sessionKey = []byte("bearer")

// SaveAuth replaces the stored session
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	data, err := json.Marshal(auth)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.putValue(bucketAuth, sessionKey, data)
}

// GetAuth returns the stored session or ErrAuthNotFound
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	data, err := s.getValue(bucketAuth, sessionKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, storage.ErrAuthNotFound
	}

	auth := &storage.AuthData{}
	if err := json.Unmarshal(data, auth); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return auth, nil
}

// DeleteAuth removes the session; ErrAuthNotFound if there was none
func (s *Storage) DeleteAuth(ctx context.Context) error {
	existed, err := s.deleteValue(bucketAuth, sessionKey)
	if err != nil {
		return err
	}
	if !existed {
		return storage.ErrAuthNotFound
	}
	return nil
}

// IsAuthenticated reports whether a session with a token exists and has not expired
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// ExpiresAt = 0 означает, что срок действия неизвестен
	if auth.ExpiresAt != 0 && time.Now().Unix() >= auth.ExpiresAt {
		return false, nil
	}
	return auth.AccessToken != "", nil
}
