package boltdb

import (
	"bytes"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/zapsync/internal/client/storage"
)

// getValue возвращает копию значения или nil, если ключа нет
func (s *Storage) getValue(bucket, key []byte) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucket)
		}
		// Данные bbolt валидны только внутри транзакции
		if v := b.Get(key); v != nil {
			value = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Storage) putValue(bucket, key, value []byte) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucket)
		}
		if err := b.Put(key, value); err != nil {
			return fmt.Errorf("failed to write %s/%s: %w", bucket, key, err)
		}
		return nil
	})
}

// deleteValue удаляет ключ и сообщает, существовал ли он
func (s *Storage) deleteValue(bucket, key []byte) (bool, error) {
	if s.db == nil {
		return false, storage.ErrStorageClosed
	}

	var existed bool
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("%s bucket not found", bucket)
		}
		existed = b.Get(key) != nil
		if err := b.Delete(key); err != nil {
			return fmt.Errorf("failed to delete %s/%s: %w", bucket, key, err)
		}
		return nil
	})
	return existed, err
}
