package client

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// DefaultPollInterval is how often RPCConn asks for the status of a sent
// transaction.
const DefaultPollInterval = 500 * time.Millisecond

// RPCConn is a Conn to a cluster node reached over JSON-RPC.
type RPCConn struct {
	client       *rpc.Client
	commitment   rpc.CommitmentType
	pollInterval time.Duration
}

var _ Conn = (*RPCConn)(nil)

// NewRPCConn returns a connection to the node listening at endpoint. All
// reads and confirmations use the confirmed commitment level.
func NewRPCConn(endpoint string) *RPCConn {
	return &RPCConn{
		client:       rpc.New(endpoint),
		commitment:   rpc.CommitmentConfirmed,
		pollInterval: DefaultPollInterval,
	}
}

// GetAccountInfo implements Conn.
func (c *RPCConn) GetAccountInfo(ctx context.Context, addr solana.PublicKey) (*swap.Account, error) {
	res, err := c.client.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if err == rpc.ErrNotFound {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "get account %s: %s", addr, err)
	}
	if res.Value == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	acc := &swap.Account{
		Lamports:   res.Value.Lamports,
		Owner:      res.Value.Owner,
		Executable: res.Value.Executable,
	}
	if res.Value.Data != nil {
		acc.Data = res.Value.Data.GetBinary()
	}
	return acc, nil
}

// GetMinimumBalanceForRentExemption implements Conn.
func (c *RPCConn) GetMinimumBalanceForRentExemption(ctx context.Context, size int) (uint64, error) {
	lamports, err := c.client.GetMinimumBalanceForRentExemption(ctx, uint64(size), c.commitment)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrNetwork, "rent exemption: %s", err)
	}
	return lamports, nil
}

// GetLatestBlockhash implements Conn.
func (c *RPCConn) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	res, err := c.client.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, errors.Wrapf(errors.ErrNetwork, "latest blockhash: %s", err)
	}
	return res.Value.Blockhash, nil
}

// SendTransaction implements Conn. The transaction is simulated before it
// is sent and SendTransaction blocks until it is confirmed, failed or the
// context is done.
func (c *RPCConn) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, errors.Wrapf(errors.ErrNetwork, "send transaction: %s", err)
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		done, err := c.confirmed(ctx, sig)
		if err != nil || done {
			return sig, err
		}
		select {
		case <-ctx.Done():
			return sig, errors.Wrapf(ctx.Err(), "transaction %s not confirmed", sig)
		case <-ticker.C:
		}
	}
}

func (c *RPCConn) confirmed(ctx context.Context, sig solana.Signature) (bool, error) {
	res, err := c.client.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		return false, errors.Wrapf(errors.ErrNetwork, "signature status: %s", err)
	}
	if len(res.Value) == 0 || res.Value[0] == nil {
		return false, nil
	}
	status := res.Value[0]
	if status.Err != nil {
		return true, errors.Wrapf(errors.ErrState, "transaction %s failed: %v", sig, status.Err)
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return true, nil
	}
	return false, nil
}
