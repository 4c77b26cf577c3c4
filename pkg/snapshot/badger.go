package snapshot

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-faster/errors"
)

const badgerKeyPrefix = "snapshot:"

// BadgerStore keeps blobs in a badger key-value store.
type BadgerStore struct {
	db *badger.DB
}

// BadgerOptions configure OpenBadgerStore.
type BadgerOptions struct {
	// Dir is the database directory; ignored when InMemory is set.
	Dir string

	// InMemory keeps all data in memory.
	InMemory bool

	// SyncWrites syncs every write to disk before returning.
	SyncWrites bool
}

// OpenBadgerStore opens (or creates) a badger-backed store.
func OpenBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	badgerOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else if opts.Dir == "" {
		return nil, errors.New("badger store directory not given")
	}
	if opts.SyncWrites {
		badgerOpts = badgerOpts.WithSyncWrites(true)
	}
	// Quiet; errors are returned to callers.
	badgerOpts = badgerOpts.WithLogger(nil)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open badger store")
	}
	return &BadgerStore{db: db}, nil
}

func badgerKey(name string) []byte { return []byte(badgerKeyPrefix + name) }

func (s *BadgerStore) Put(ctx context.Context, name string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := CheckName(name); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(name), blob)
	})
}

func (s *BadgerStore) Get(ctx context.Context, name string) (blob []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(name))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrNotFound, "%q", name)
		}
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	return blob, err
}

func (s *BadgerStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(name))
	})
}

func (s *BadgerStore) List(ctx context.Context) (names []string, err error) {
	prefix := []byte(badgerKeyPrefix)
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			names = append(names, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return names, err
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error { return s.db.Close() }
