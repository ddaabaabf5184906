package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Badger is an embedded key-value store alternative for deployments without
// a Redis server, and for integration-style tests (in-memory mode).
type Badger struct {
	db *badger.DB
}

func NewBadger(path string, inMemory bool) (*Badger, error) {
	options := badger.DefaultOptions(path).WithLogger(nil)
	if inMemory {
		options = options.WithInMemory(true).WithDir("").WithValueDir("")
	}
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Set(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *Badger) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}
