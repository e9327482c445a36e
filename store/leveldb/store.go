/*
Package leveldb provides a persistent CommitKVStore backed by goleveldb.

Writes reach the database only through a cache wrap, so that a transaction
either lands as a single atomic leveldb batch or not at all. Every commit
chains the digest of all batches written since the previous commit into the
state hash.
*/
package leveldb

import (
	"hash"
	"sync"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/crypto/blake2b"
)

// commitKey holds the latest CommitID. It sorts before all account keys.
var commitKey = []byte("_c:commit")

// Store is a CommitKVStore that keeps its data in a leveldb database.
type Store struct {
	db *leveldb.DB

	mu      sync.Mutex
	pending hash.Hash
}

var _ swap.CommitKVStore = (*Store)(nil)

// Open opens or creates a database in the given directory.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", dir, err)
	}
	return newStore(db)
}

// OpenMemory returns a store that keeps all data in memory. Useful for tests.
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return newStore(db)
}

func newStore(db *leveldb.DB) (*Store, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return &Store{db: db, pending: h}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Get returns nil iff key doesn't exist.
func (s *Store) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, nil
}

// Has checks if a key exists.
func (s *Store) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set writes a single value. Prefer writing through CacheWrap.
func (s *Store) Set(key, value []byte) error {
	b := s.NewBatch()
	if err := b.Set(key, value); err != nil {
		return err
	}
	return b.Write()
}

// Delete removes a single value. Prefer writing through CacheWrap.
func (s *Store) Delete(key []byte) error {
	b := s.NewBatch()
	if err := b.Delete(key); err != nil {
		return err
	}
	return b.Write()
}

// Iterator over a domain of keys in ascending order.
func (s *Store) Iterator(start, end []byte) (swap.Iterator, error) {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &dbIter{it: it}, nil
}

// NewBatch returns an atomic leveldb batch.
func (s *Store) NewBatch() swap.Batch {
	return &batch{store: s, b: new(leveldb.Batch)}
}

// CacheWrap returns a cache that is written to the database as one atomic
// batch.
func (s *Store) CacheWrap() swap.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

type commitInfo struct {
	Version int64
	Hash    []byte
}

// Commit closes the current version. The new hash commits to the previous
// hash and every write done since the previous commit.
func (s *Store) Commit() (swap.CommitID, error) {
	last, err := s.LatestVersion()
	if err != nil {
		return swap.CommitID{}, err
	}

	s.mu.Lock()
	digest := s.pending.Sum(nil)
	s.pending.Reset()
	s.mu.Unlock()

	h, _ := blake2b.New256(nil)
	h.Write(last.Hash)
	h.Write(digest)
	next := commitInfo{Version: last.Version + 1, Hash: h.Sum(nil)}

	raw, err := bin.MarshalBorsh(next)
	if err != nil {
		return swap.CommitID{}, errors.Wrap(errors.ErrHuman, err.Error())
	}
	if err := s.db.Put(commitKey, raw, nil); err != nil {
		return swap.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return swap.CommitID{Version: next.Version, Hash: next.Hash}, nil
}

// LatestVersion returns the last committed version. A fresh database is at
// version zero with an empty hash.
func (s *Store) LatestVersion() (swap.CommitID, error) {
	raw, err := s.Get(commitKey)
	if err != nil || raw == nil {
		return swap.CommitID{}, err
	}
	var info commitInfo
	if err := bin.UnmarshalBorsh(&info, raw); err != nil {
		return swap.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return swap.CommitID{Version: info.Version, Hash: info.Hash}, nil
}

type batch struct {
	store *Store
	b     *leveldb.Batch
	ops   [][]byte
}

func (b *batch) Set(key, value []byte) error {
	b.b.Put(key, value)
	b.ops = append(b.ops, []byte{1}, key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	b.ops = append(b.ops, []byte{2}, key)
	return nil
}

func (b *batch) Write() error {
	if err := b.store.db.Write(b.b, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	b.store.mu.Lock()
	for _, op := range b.ops {
		b.store.pending.Write(op)
	}
	b.store.mu.Unlock()
	b.b.Reset()
	b.ops = nil
	return nil
}

type dbIter struct {
	it iterator.Iterator
}

func (d *dbIter) Next() ([]byte, []byte, error) {
	if !d.it.Next() {
		if err := d.it.Error(); err != nil {
			return nil, nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "leveldb")
	}
	// leveldb reuses the buffers between calls
	key := append([]byte(nil), d.it.Key()...)
	value := append([]byte(nil), d.it.Value()...)
	return key, value, nil
}

func (d *dbIter) Release() {
	d.it.Release()
}
