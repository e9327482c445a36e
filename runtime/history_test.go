package runtime

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/swaptest/assert"
)

func TestHistoryGenesis(t *testing.T) {
	db := store.MemStore()
	h, err := loadHistory(db)
	assert.Nil(t, err)
	assert.Equal(t, false, h.Initialized)

	assert.IsErr(t, errors.ErrInput, h.genesis(db, ""))
	assert.IsErr(t, errors.ErrInput, h.genesis(db, "bad;id"))
	assert.Nil(t, h.genesis(db, "testchain"))

	loaded, err := loadHistory(db)
	assert.Nil(t, err)
	assert.Equal(t, h, loaded)
	assert.Nil(t, loaded.checkBlockhash(db, loaded.Blockhash))

	assert.IsErr(t, errors.ErrUnauthorized, loaded.genesis(db, "other"))
}

func TestHistoryBlockhashExpiry(t *testing.T) {
	db := store.MemStore()
	var h history
	assert.Nil(t, h.genesis(db, "testchain"))
	first := h.Blockhash

	var second solana.Hash
	for i := 0; i < MaxRecentBlockhashes-1; i++ {
		assert.Nil(t, h.advance(db, solana.Signature{byte(i)}))
		if i == 0 {
			second = h.Blockhash
		}
	}
	assert.Equal(t, uint64(MaxRecentBlockhashes-1), h.Slot)
	assert.Nil(t, h.checkBlockhash(db, first))

	assert.Nil(t, h.advance(db, solana.Signature{0xff}))
	assert.IsErr(t, errors.ErrExpired, h.checkBlockhash(db, first))
	assert.Nil(t, h.checkBlockhash(db, second))
	assert.Nil(t, h.checkBlockhash(db, h.Blockhash))

	assert.IsErr(t, errors.ErrExpired, h.checkBlockhash(db, solana.Hash{1}))
}

func TestHistoryAdvanceDependsOnSignature(t *testing.T) {
	a, b := history{}, history{}
	dba, dbb := store.MemStore(), store.MemStore()
	assert.Nil(t, a.genesis(dba, "testchain"))
	assert.Nil(t, b.genesis(dbb, "testchain"))
	assert.Equal(t, a.Blockhash, b.Blockhash)

	assert.Nil(t, a.advance(dba, solana.Signature{1}))
	assert.Nil(t, b.advance(dbb, solana.Signature{2}))
	if a.Blockhash.Equals(b.Blockhash) {
		t.Fatal("different transactions must produce different blockhashes")
	}
}

func TestSignatureRecord(t *testing.T) {
	db := store.MemStore()
	sig := solana.Signature{9, 9, 9}

	_, ok, err := loadSignature(db, sig)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	assert.Nil(t, saveSignature(db, sig, 42))
	slot, ok, err := loadSignature(db, sig)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint64(42), slot)
}
