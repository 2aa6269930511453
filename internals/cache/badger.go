package cache

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/cockroachdb/errors"
	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps entries in badger with native per-entry TTL.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens a store at dir, or an in-memory store when dir is empty.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger cache")
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(_ context.Context, key Key) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cache get %s", key)
	}
	return out, nil
}

func (s *BadgerStore) Set(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key.String()), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	return errors.Wrapf(err, "cache set %s", key)
}

func (s *BadgerStore) Delete(_ context.Context, key Key) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key.String()))
	})
	return errors.Wrapf(err, "cache delete %s", key)
}

func (s *BadgerStore) Generation(_ context.Context, ns Namespace) (uint64, error) {
	var gen uint64
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		gen, err = readGeneration(txn, ns)
		return err
	})
	return gen, errors.Wrapf(err, "cache generation %s", ns)
}

// Invalidate increments the stored generation. Concurrent bumps conflict in
// badger and are retried so none is lost.
func (s *BadgerStore) Invalidate(_ context.Context, ns Namespace) error {
	for {
		err := s.db.Update(func(txn *badger.Txn) error {
			gen, err := readGeneration(txn, ns)
			if err != nil {
				return err
			}
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], gen+1)
			return txn.Set(ns.generationKey(), buf[:])
		})
		if !errors.Is(err, badger.ErrConflict) {
			return errors.Wrapf(err, "cache invalidate %s", ns)
		}
	}
}

func readGeneration(txn *badger.Txn, ns Namespace) (uint64, error) {
	item, err := txn.Get(ns.generationKey())
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var gen uint64
	err = item.Value(func(v []byte) error {
		if len(v) != 8 {
			return errors.Newf("corrupt generation for %s", ns)
		}
		gen = binary.BigEndian.Uint64(v)
		return nil
	})
	return gen, err
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
