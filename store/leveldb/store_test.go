package leveldb

import (
	"testing"

	"github.com/iov-one/swap/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStore(t *testing.T) func() (store.CacheableKVStore, func()) {
	return func() (store.CacheableKVStore, func()) {
		s, err := OpenMemory()
		require.NoError(t, err)
		return s, func() { s.Close() }
	}
}

func TestLevelDBStore(t *testing.T) {
	suite := store.NewTestSuite(makeStore(t))

	t.Run("TransactionCache", suite.TransactionCache)
	t.Run("PrefixScan", suite.PrefixScan)
	t.Run("Accounts", suite.Accounts)
}

func TestCommitChainsWrites(t *testing.T) {
	s, err := OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	zero, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), zero.Version)
	assert.Empty(t, zero.Hash)

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("acct:alice"), []byte{1}))
	require.NoError(t, cache.Write())

	first, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.Len(t, first.Hash, 32)

	latest, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, first, latest)

	// the same writes on a fresh database produce the same hash
	other, err := OpenMemory()
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, other.Set([]byte("acct:alice"), []byte{1}))
	otherFirst, err := other.Commit()
	require.NoError(t, err)
	assert.Equal(t, first.Hash, otherFirst.Hash)

	// an empty commit still moves the chain forward
	second, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set([]byte("acct:bob"), []byte("funds")))
	_, err = s.Commit()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get([]byte("acct:bob"))
	require.NoError(t, err)
	assert.Equal(t, []byte("funds"), got)
	v, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Version)
}
