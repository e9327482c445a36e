package store

import (
	"testing"

	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/swaptest/assert"
)

func makeMemStore() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeStore(t *testing.T) {
	suite := NewTestSuite(makeMemStore)

	t.Run("TransactionCache", suite.TransactionCache)
	t.Run("PrefixScan", suite.PrefixScan)
	t.Run("Accounts", suite.Accounts)
}

func TestSliceIterator(t *testing.T) {
	const size = 10

	ks := make([][]byte, size)
	vs := make([][]byte, size)
	models := make([]Model, size)
	for i := 0; i < size; i++ {
		ks[i], vs[i] = randBytes(8), randBytes(40)
		models[i] = Pair(ks[i], vs[i])
	}

	iter := NewSliceIterator(models)
	for i := 0; i < size; i++ {
		k, v, err := iter.Next()
		assert.Nil(t, err)
		assert.Equal(t, ks[i], k)
		assert.Equal(t, vs[i], v)
	}
	_, _, err := iter.Next()
	assert.IsErr(t, errors.ErrIteratorDone, err)

	released := NewSliceIterator(models)
	released.Release()
	_, _, err = released.Next()
	assert.IsErr(t, errors.ErrIteratorDone, err)
}

func TestBatchShowOps(t *testing.T) {
	base := EmptyKVStore{}
	batch := NewNonAtomicBatch(base)
	assert.Nil(t, batch.Set([]byte("a"), []byte("1")))
	assert.Nil(t, batch.Delete([]byte("b")))
	assert.Equal(t, []Op{SetOp([]byte("a"), []byte("1")), DelOp([]byte("b"))}, batch.ShowOps())

	assert.Nil(t, batch.Write())
	assert.Equal(t, 0, len(batch.ShowOps()))
}

func TestCacheWrapDiscard(t *testing.T) {
	base := MemStore()
	assert.Nil(t, base.Set([]byte("escrow"), []byte("open")))

	cache := base.CacheWrap()
	assert.Nil(t, cache.Delete([]byte("escrow")))
	assert.Nil(t, cache.Set([]byte("temp"), []byte("closed")))
	cache.Discard()

	got, err := base.Get([]byte("escrow"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("open"), got)
	has, err := base.Has([]byte("temp"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}
