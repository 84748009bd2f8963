package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/Serophos/freeradius-server/valuebox"
)

// Store is a named-value store backed by BadgerDB. Names are arbitrary
// byte strings; each name maps to one boxed value.
type Store struct {
	db  *badger.DB
	log *zap.Logger
}

// Options configures a Store.
type Options struct {
	// Path is the database directory. Empty selects an in-memory
	// database, which is what the tests use.
	Path string

	// Logger receives store diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// Open opens or creates a store.
func Open(opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	bopts := badger.DefaultOptions(opts.Path)
	bopts.Logger = nil // badger's own logging is too chatty
	if opts.Path == "" {
		bopts = bopts.WithInMemory(true)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	log.Info("value store opened", zap.String("path", opts.Path))
	return &Store{db: db, log: log}, nil
}

// Put stores a value under name, replacing any previous value.
func (s *Store) Put(name string, v *valuebox.Value) error {
	record, err := encodeValue(v)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(name), record)
	})
	if err != nil {
		return fmt.Errorf("failed to store %q: %w", name, err)
	}

	s.log.Debug("stored value",
		zap.String("name", name),
		zap.Stringer("kind", v.Kind()),
		zap.Bool("tainted", v.Tainted()))
	return nil
}

// Get retrieves the value stored under name. A missing name reports
// badger.ErrKeyNotFound.
func (s *Store) Get(name string) (*valuebox.Value, error) {
	var v *valuebox.Value
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(name))
		if err != nil {
			return err
		}
		return item.Value(func(data []byte) error {
			v, err = decodeValue(data)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", name, err)
	}
	return v, nil
}

// Delete removes the value stored under name. Deleting a missing name
// is not an error.
func (s *Store) Delete(name string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", name, err)
	}
	return nil
}

// Names returns every stored name with the given prefix, in key order.
func (s *Store) Names(prefix string) ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, string(it.Item().Key()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan names: %w", err)
	}
	return names, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	s.log.Info("value store closed")
	return s.db.Close()
}
