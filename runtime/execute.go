package runtime

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// Execute verifies and runs a signed transaction. Either all instructions
// succeed and their effects are committed or the ledger is left unchanged.
// The first signature identifies the transaction and is returned on success.
func (l *Ledger) Execute(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, errors.Wrap(err, "execute")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	sig, err := l.execute(ctx, tx)
	l.metrics.transaction(time.Since(start), err)
	if err != nil {
		l.logger.Info("Transaction failed", "err", errors.Redact(err, l.debug))
		return solana.Signature{}, errors.Redact(err, l.debug)
	}
	return sig, nil
}

func (l *Ledger) execute(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, signers, err := verifySignatures(tx)
	if err != nil {
		return sig, err
	}

	cache := l.store.CacheWrap()
	h, err := loadHistory(cache)
	if err != nil {
		cache.Discard()
		return sig, err
	}
	if !h.Initialized {
		cache.Discard()
		return sig, errors.Wrap(errors.ErrState, "ledger not initialized")
	}
	if _, seen, err := loadSignature(cache, sig); err != nil {
		cache.Discard()
		return sig, err
	} else if seen {
		cache.Discard()
		return sig, errors.Wrapf(errors.ErrDuplicate, "transaction %s already processed", sig)
	}
	if err := h.checkBlockhash(cache, tx.Message.RecentBlockhash); err != nil {
		cache.Discard()
		return sig, err
	}

	ctx = swap.WithLogger(ctx, l.logger)
	ctx = swap.WithSlot(ctx, h.Slot+1)
	ctx = swap.WithSignature(ctx, sig)
	ctx = swap.WithLogInfo(ctx, "call", "execute", "signature", sig.String())

	exec := &execution{
		ledger:   l,
		accounts: make(map[solana.PublicKey]*swap.Account, len(tx.Message.AccountKeys)),
	}
	if err := l.run(ctx, exec, cache, tx, signers); err != nil {
		cache.Discard()
		return sig, err
	}
	if err := saveSignature(cache, sig, h.Slot+1); err != nil {
		cache.Discard()
		return sig, err
	}
	if err := h.advance(cache, sig); err != nil {
		cache.Discard()
		return sig, err
	}
	if err := cache.Write(); err != nil {
		return sig, errors.Wrap(err, "write cache")
	}
	if c, ok := l.store.(swap.Committer); ok {
		if _, err := c.Commit(); err != nil {
			return sig, errors.Wrap(err, "commit")
		}
	}
	swap.GetLogger(ctx).Info("Transaction processed", "slot", h.Slot, "instructions", exec.instructions)
	return sig, nil
}

// verifySignatures returns the first signature and the set of accounts that
// signed the message.
func verifySignatures(tx *solana.Transaction) (solana.Signature, map[solana.PublicKey]bool, error) {
	header := tx.Message.Header
	required := int(header.NumRequiredSignatures)
	if required == 0 {
		return solana.Signature{}, nil, errors.Wrap(errors.ErrSignature, "transaction must be signed")
	}
	if len(tx.Signatures) != required {
		return solana.Signature{}, nil, errors.Wrapf(errors.ErrSignature, "want %d signatures, got %d", required, len(tx.Signatures))
	}
	if len(tx.Message.AccountKeys) < required {
		return solana.Signature{}, nil, errors.Wrap(errors.ErrInput, "fewer account keys than signatures")
	}
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return solana.Signature{}, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	signers := make(map[solana.PublicKey]bool, required)
	for i, sig := range tx.Signatures {
		key := tx.Message.AccountKeys[i]
		if !sig.Verify(key, msg) {
			return solana.Signature{}, nil, errors.Wrapf(errors.ErrSignature, "signature %d does not match %s", i, key)
		}
		signers[key] = true
	}
	return tx.Signatures[0], signers, nil
}

// writable returns true if the message grants write access to the account at
// index i. Builtin accounts are never writable.
func (l *Ledger) writable(msg *solana.Message, i int) bool {
	if _, ok := l.builtin(msg.AccountKeys[i]); ok {
		return false
	}
	h := msg.Header
	if i < int(h.NumRequiredSignatures) {
		return i < int(h.NumRequiredSignatures)-int(h.NumReadonlySignedAccounts)
	}
	return i < len(msg.AccountKeys)-int(h.NumReadonlyUnsignedAccounts)
}

// run loads all accounts, executes every instruction in order and stores the
// resulting accounts in db.
func (l *Ledger) run(ctx context.Context, exec *execution, db swap.KVStore, tx *solana.Transaction, signers map[solana.PublicKey]bool) error {
	msg := &tx.Message
	keys := msg.AccountKeys
	writable := make([]bool, len(keys))
	for i, key := range keys {
		if _, ok := exec.accounts[key]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "account %s listed twice", key)
		}
		writable[i] = l.writable(msg, i)
		if acc, ok := l.builtin(key); ok {
			exec.accounts[key] = acc
			continue
		}
		acc, err := swap.LoadAccount(db, key)
		if err != nil {
			return err
		}
		exec.accounts[key] = acc
	}

	for n, ci := range msg.Instructions {
		if int(ci.ProgramIDIndex) >= len(keys) {
			return errors.Wrapf(errors.ErrInput, "instruction %d: program index out of range", n)
		}
		metas := make([]meta, len(ci.Accounts))
		for j, idx := range ci.Accounts {
			if int(idx) >= len(keys) {
				return errors.Wrapf(errors.ErrInput, "instruction %d: account index out of range", n)
			}
			key := keys[idx]
			metas[j] = meta{Key: key, IsSigner: signers[key], IsWritable: writable[idx]}
		}
		programID := keys[ci.ProgramIDIndex]
		if err := exec.process(ctx, programID, metas, ci.Data, 0); err != nil {
			return errors.Wrapf(err, "instruction %d", n)
		}
	}

	for i, key := range keys {
		if !writable[i] {
			continue
		}
		acc := exec.accounts[key]
		if acc.Lamports != 0 && len(acc.Data) != 0 && !l.rent.IsExempt(acc.Lamports, len(acc.Data)) {
			return errors.Wrapf(errors.ErrNotRentExempt, "account %s holds %d lamports for %d bytes", key, acc.Lamports, len(acc.Data))
		}
		if err := swap.StoreAccount(db, key, acc); err != nil {
			return err
		}
	}
	return nil
}
