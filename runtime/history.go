package runtime

import (
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"golang.org/x/crypto/blake2b"
)

// MaxRecentBlockhashes is the number of slots a blockhash can be used as the
// recent blockhash of a transaction.
const MaxRecentBlockhashes = 150

// _sw: is a prefix for ledger internal data
const (
	historyKey      = "_sw:history"
	blockhashPrefix = "_sw:bh:"
	slotPrefix      = "_sw:slot:"
	signaturePrefix = "_sw:sig:"
)

// history is the ledger progress. Each successful transaction produces a new
// slot and blockhash.
type history struct {
	Initialized bool
	ChainID     string
	Slot        uint64
	Blockhash   solana.Hash
}

func loadHistory(db swap.ReadOnlyKVStore) (*history, error) {
	raw, err := db.Get([]byte(historyKey))
	if err != nil {
		return nil, errors.Wrap(err, "load history")
	}
	var h history
	if raw == nil {
		return &h, nil
	}
	if err := bin.UnmarshalBorsh(&h, raw); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &h, nil
}

func (h *history) save(db swap.SetDeleter) error {
	raw, err := bin.MarshalBorsh(*h)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return db.Set([]byte(historyKey), raw)
}

func slotKey(slot uint64) []byte {
	key := make([]byte, len(slotPrefix)+8)
	copy(key, slotPrefix)
	binary.BigEndian.PutUint64(key[len(slotPrefix):], slot)
	return key
}

func blockhashKey(hash solana.Hash) []byte {
	return append([]byte(blockhashPrefix), hash[:]...)
}

func encodeSlot(slot uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, slot)
	return raw
}

func decodeSlot(raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrDatabase, "invalid slot encoding of %d bytes", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// genesis initializes the history of a new ledger.
func (h *history) genesis(db swap.KVStore, chainID string) error {
	if h.Initialized {
		return errors.Wrapf(errors.ErrUnauthorized, "ledger already initialized for chain %q", h.ChainID)
	}
	if !swap.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "invalid chain id %q", chainID)
	}
	h.Initialized = true
	h.ChainID = chainID
	h.Slot = 0
	h.Blockhash = solana.Hash(blake2b.Sum256([]byte(chainID)))
	if err := h.recordBlockhash(db); err != nil {
		return err
	}
	return h.save(db)
}

// checkBlockhash returns an error unless hash is one of the recent
// blockhashes.
func (h *history) checkBlockhash(db swap.ReadOnlyKVStore, hash solana.Hash) error {
	raw, err := db.Get(blockhashKey(hash))
	if err != nil {
		return errors.Wrap(err, "load blockhash")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrExpired, "blockhash %s not found", hash)
	}
	slot, err := decodeSlot(raw)
	if err != nil {
		return err
	}
	if h.Slot-slot >= MaxRecentBlockhashes {
		return errors.Wrapf(errors.ErrExpired, "blockhash %s from slot %d", hash, slot)
	}
	return nil
}

// advance moves to the next slot. The new blockhash depends on the previous
// one and on the signature of the transaction that produced the slot.
func (h *history) advance(db swap.KVStore, sig solana.Signature) error {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	hasher.Write(h.Blockhash[:])
	hasher.Write(sig[:])
	copy(h.Blockhash[:], hasher.Sum(nil))
	h.Slot++

	if h.Slot >= MaxRecentBlockhashes {
		if err := forgetSlot(db, h.Slot-MaxRecentBlockhashes); err != nil {
			return err
		}
	}
	if err := h.recordBlockhash(db); err != nil {
		return err
	}
	return h.save(db)
}

func (h *history) recordBlockhash(db swap.SetDeleter) error {
	if err := db.Set(blockhashKey(h.Blockhash), encodeSlot(h.Slot)); err != nil {
		return errors.Wrap(err, "save blockhash")
	}
	return db.Set(slotKey(h.Slot), h.Blockhash[:])
}

func forgetSlot(db swap.KVStore, slot uint64) error {
	raw, err := db.Get(slotKey(slot))
	if err != nil {
		return errors.Wrap(err, "load slot")
	}
	if raw == nil {
		return nil
	}
	if err := db.Delete(slotKey(slot)); err != nil {
		return err
	}
	return db.Delete(append([]byte(blockhashPrefix), raw...))
}

func signatureKey(sig solana.Signature) []byte {
	return append([]byte(signaturePrefix), sig[:]...)
}

func saveSignature(db swap.SetDeleter, sig solana.Signature, slot uint64) error {
	return db.Set(signatureKey(sig), encodeSlot(slot))
}

func loadSignature(db swap.ReadOnlyKVStore, sig solana.Signature) (uint64, bool, error) {
	raw, err := db.Get(signatureKey(sig))
	if err != nil {
		return 0, false, errors.Wrap(err, "load signature")
	}
	if raw == nil {
		return 0, false, nil
	}
	slot, err := decodeSlot(raw)
	return slot, err == nil, err
}
