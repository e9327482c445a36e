package client

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/runtime"
)

// Conn is the access to a ledger needed to run a swap.
type Conn interface {
	// GetAccountInfo returns the account stored under the address or
	// ErrNotFound.
	GetAccountInfo(ctx context.Context, addr solana.PublicKey) (*swap.Account, error)
	// GetMinimumBalanceForRentExemption returns the balance an account
	// with size bytes of data must hold.
	GetMinimumBalanceForRentExemption(ctx context.Context, size int) (uint64, error)
	// GetLatestBlockhash returns a blockhash new transactions can
	// reference.
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	// SendTransaction returns once the transaction was processed.
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// LocalConn is a Conn to an in process ledger.
type LocalConn struct {
	ledger *runtime.Ledger
}

var _ Conn = (*LocalConn)(nil)

// NewLocalConn returns a connection to the given ledger.
func NewLocalConn(l *runtime.Ledger) *LocalConn {
	return &LocalConn{ledger: l}
}

// GetAccountInfo implements Conn.
func (c *LocalConn) GetAccountInfo(ctx context.Context, addr solana.PublicKey) (*swap.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	acc, err := c.ledger.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	return acc, nil
}

// GetMinimumBalanceForRentExemption implements Conn.
func (c *LocalConn) GetMinimumBalanceForRentExemption(ctx context.Context, size int) (uint64, error) {
	return c.ledger.Rent().MinimumBalance(size), nil
}

// GetLatestBlockhash implements Conn.
func (c *LocalConn) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	h, _, err := c.ledger.LatestBlockhash()
	return h, err
}

// SendTransaction implements Conn.
func (c *LocalConn) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return c.ledger.Execute(ctx, tx)
}

// Send builds a transaction paid by payer from the given instructions, signs
// it with payer and signers and submits it.
func Send(ctx context.Context, conn Conn, payer solana.PrivateKey, ixs []solana.Instruction, signers ...solana.PrivateKey) (solana.Signature, error) {
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, err
	}
	hash, err := conn.GetLatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "blockhash")
	}
	tx, err := solana.NewTransaction(ixs, hash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		return solana.Signature{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	keys := append([]solana.PrivateKey{payer}, signers...)
	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		for i := range keys {
			if keys[i].PublicKey().Equals(pk) {
				return &keys[i]
			}
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, errors.Wrap(errors.ErrSignature, err.Error())
	}
	return conn.SendTransaction(ctx, tx)
}

// batch collects the instructions of one transaction. Builders report
// missing parameters as errors; the first one is kept.
type batch struct {
	ixs []solana.Instruction
	err error
}

func (b *batch) add(ix solana.Instruction, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = errors.Wrap(errors.ErrInput, err.Error())
		return
	}
	b.ixs = append(b.ixs, ix)
}

// send submits the collected instructions unless building one of them
// failed.
func (b *batch) send(ctx context.Context, conn Conn, payer solana.PrivateKey, signers ...solana.PrivateKey) (solana.Signature, error) {
	if b.err != nil {
		return solana.Signature{}, b.err
	}
	return Send(ctx, conn, payer, b.ixs, signers...)
}
