package store

import (
	"crypto/rand"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/swaptest/assert"
)

// TestSuite runs the behaviour the ledger relies on against any
// CacheableKVStore. The ledger wraps the store once per transaction, then
// writes the cache on success or discards it on failure, and lists account
// records by key prefix.
//
// It is shared by the in-memory btree store and the leveldb store.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// TransactionCache checks that writes made through a cache stay invisible to
// the store until the cache is written, and are dropped on discard.
func (s *TestSuite) TransactionCache(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	escrow, temp := []byte("acct:escrow"), []byte("acct:temp")
	assert.Nil(t, base.Set(escrow, []byte("open")))

	failed := base.CacheWrap()
	s.AssertGetHas(t, failed, escrow, []byte("open"), true)
	assert.Nil(t, failed.Delete(escrow))
	assert.Nil(t, failed.Set(temp, []byte("funded")))
	s.AssertGetHas(t, failed, escrow, nil, false)
	s.AssertGetHas(t, failed, temp, []byte("funded"), true)
	s.AssertGetHas(t, base, temp, nil, false)
	failed.Discard()
	s.AssertGetHas(t, base, escrow, []byte("open"), true)
	s.AssertGetHas(t, base, temp, nil, false)

	ok := base.CacheWrap()
	assert.Nil(t, ok.Set(escrow, []byte("closed")))
	assert.Nil(t, ok.Set(temp, []byte("empty")))
	s.AssertGetHas(t, base, escrow, []byte("open"), true)
	assert.Nil(t, ok.Write())
	s.AssertGetHas(t, base, escrow, []byte("closed"), true)
	s.AssertGetHas(t, base, temp, []byte("empty"), true)

	closing := base.CacheWrap()
	assert.Nil(t, closing.Delete(temp))
	assert.Nil(t, closing.Write())
	s.AssertGetHas(t, base, temp, nil, false)
}

// PrefixScan checks that iterating a cache merges its writes with the
// parent content in ascending key order.
func (s *TestSuite) PrefixScan(t *testing.T) {
	a, b, c := Pair([]byte("acct:a"), []byte("1")), Pair([]byte("acct:b"), []byte("2")), Pair([]byte("acct:c"), []byte("3"))
	b2 := Pair(b.Key, []byte("22"))
	other := Pair([]byte("hist:1"), []byte("x"))

	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []Model
	}{
		"child only": {
			child: []Op{SetOp(c.Key, c.Value), SetOp(a.Key, a.Value)},
			want:  []Model{a, c},
		},
		"parent only": {
			parent: []Op{SetOp(b.Key, b.Value), SetOp(a.Key, a.Value), SetOp(other.Key, other.Value)},
			want:   []Model{a, b},
		},
		"child interleaves with parent": {
			parent: []Op{SetOp(a.Key, a.Value), SetOp(c.Key, c.Value)},
			child:  []Op{SetOp(b.Key, b.Value)},
			want:   []Model{a, b, c},
		},
		"child value shadows parent": {
			parent: []Op{SetOp(a.Key, a.Value), SetOp(b.Key, b.Value)},
			child:  []Op{SetOp(b.Key, b2.Value)},
			want:   []Model{a, b2},
		},
		"child delete hides parent": {
			parent: []Op{SetOp(a.Key, a.Value), SetOp(b.Key, b.Value), SetOp(c.Key, c.Value)},
			child:  []Op{DelOp(a.Key), DelOp(c.Key)},
			want:   []Model{b},
		},
		"delete of a missing key is skipped": {
			child: []Op{DelOp(a.Key), SetOp(b.Key, b.Value)},
			want:  []Model{b},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			for _, op := range tc.parent {
				assert.Nil(t, op.Apply(base))
			}
			child := base.CacheWrap()
			for _, op := range tc.child {
				assert.Nil(t, op.Apply(child))
			}

			iter, err := child.Iterator([]byte("acct:"), []byte("acct;"))
			assert.Nil(t, err)
			defer iter.Release()
			for i, m := range tc.want {
				key, value, err := iter.Next()
				assert.Nil(t, err)
				if string(key) != string(m.Key) {
					t.Fatalf("entry %d: want key %q, got %q", i, m.Key, key)
				}
				assert.Equal(t, m.Value, value)
			}
			_, _, err = iter.Next()
			assert.IsErr(t, errors.ErrIteratorDone, err)
		})
	}
}

// Accounts checks that ledger accounts can be persisted, listed and removed
// through the store.
func (s *TestSuite) Accounts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	addrs := make([]solana.PublicKey, 3)
	for i := range addrs {
		addrs[i] = solana.PublicKeyFromBytes(randBytes(32))
		acc := &swap.Account{
			Lamports: uint64(i + 1),
			Owner:    solana.SystemProgramID,
			Data:     randBytes(i * 10),
		}
		assert.Nil(t, swap.StoreAccount(base, addrs[i], acc))
	}

	got, err := swap.LoadAccount(base, addrs[2])
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), got.Lamports)
	assert.Equal(t, 20, len(got.Data))

	// an account without lamports is removed
	got.Lamports = 0
	assert.Nil(t, swap.StoreAccount(base, addrs[2], got))
	missing, err := swap.LoadAccount(base, addrs[2])
	assert.Nil(t, err)
	assert.Equal(t, true, missing.IsZero())

	iter, err := base.Iterator([]byte("acct:"), []byte("acct;"))
	assert.Nil(t, err)
	defer iter.Release()
	var found int
	for {
		key, _, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		assert.Nil(t, err)
		addr, err := swap.AccountAddress(key)
		assert.Nil(t, err)
		if addr != addrs[0] && addr != addrs[1] {
			t.Fatalf("unexpected account %s", addr)
		}
		found++
	}
	assert.Equal(t, 2, found)
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	rand.Read(res)
	return res
}
