package store

import "github.com/iov-one/swap"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = swap.ReadOnlyKVStore
	SetDeleter       = swap.SetDeleter
	KVStore          = swap.KVStore
	Batch            = swap.Batch
	Iterator         = swap.Iterator
	CacheableKVStore = swap.CacheableKVStore
	KVCacheWrap      = swap.KVCacheWrap
	CommitKVStore    = swap.CommitKVStore
	CommitID         = swap.CommitID
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}
