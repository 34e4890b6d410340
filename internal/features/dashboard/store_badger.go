package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "blob:"

// BadgerStore persists the collection blob in the embedded Badger store,
// suitable for single-node deployments without a Mongo instance.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) LoadAll(ctx context.Context) ([]Dashboard, error) {
	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + storeKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get blob: %w", err)
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return []Dashboard{}, nil
	}
	return decodeCollection(data)
}

func (s *BadgerStore) SaveAll(ctx context.Context, dashboards []Dashboard) error {
	data, err := encodeCollection(dashboards)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(badgerKeyPrefix+storeKey), data); err != nil {
			return fmt.Errorf("set blob: %w", err)
		}
		return nil
	})
}
