package client

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/escrow"
)

// VerifyInitializedEscrow checks that the escrow records the given deal and
// that its temporary account holds the offered tokens under the program
// authority.
func VerifyInitializedEscrow(ctx context.Context, conn Conn, programID solana.PublicKey, init *InitEscrowResult, initializer, receiving solana.PublicKey, terms Terms) error {
	state, err := LoadEscrow(ctx, conn, programID, init.Escrow)
	if err != nil {
		return err
	}
	if !state.Initializer.Equals(initializer) {
		return errors.Wrapf(errors.ErrState, "initializer is %s, want %s", state.Initializer, initializer)
	}
	if !state.TempTokenAccount.Equals(init.Temp) {
		return errors.Wrapf(errors.ErrState, "temp account is %s, want %s", state.TempTokenAccount, init.Temp)
	}
	if !state.InitializerReceivingAccount.Equals(receiving) {
		return errors.Wrapf(errors.ErrState, "receiving account is %s, want %s", state.InitializerReceivingAccount, receiving)
	}
	if state.ExpectedAmount != terms.InitializerExpectedAmount {
		return errors.Wrapf(errors.ErrState, "expected amount is %d, want %d", state.ExpectedAmount, terms.InitializerExpectedAmount)
	}

	temp, err := LoadTokenAccount(ctx, conn, init.Temp)
	if err != nil {
		return errors.Wrap(err, "temp account")
	}
	if temp.Amount != terms.TakerExpectedAmount {
		return errors.Wrapf(errors.ErrState, "temp account holds %d, want %d", temp.Amount, terms.TakerExpectedAmount)
	}
	authority, _, err := escrow.Authority(programID)
	if err != nil {
		return err
	}
	if !temp.Owner.Equals(authority) {
		return errors.Wrapf(errors.ErrState, "temp account owned by %s, want %s", temp.Owner, authority)
	}
	return nil
}

// Balances are the token balances of both receiving accounts.
type Balances struct {
	InitializerReceiving uint64
	TakerReceiving       uint64
}

// ReceivingBalances returns the current balances of both receiving
// accounts.
func ReceivingBalances(ctx context.Context, conn Conn, initializerReceiving, takerReceiving solana.PublicKey) (Balances, error) {
	var b Balances
	var err error
	if b.InitializerReceiving, err = TokenBalance(ctx, conn, initializerReceiving); err != nil {
		return b, err
	}
	if b.TakerReceiving, err = TokenBalance(ctx, conn, takerReceiving); err != nil {
		return b, err
	}
	return b, nil
}

// VerifyExchange checks that the escrow and its temporary account were
// closed and that both receiving accounts were credited according to the
// terms since the start balances were taken.
func VerifyExchange(ctx context.Context, conn Conn, init *InitEscrowResult, initializerReceiving, takerReceiving solana.PublicKey, start Balances, terms Terms) error {
	for _, addr := range []solana.PublicKey{init.Escrow, init.Temp} {
		_, err := conn.GetAccountInfo(ctx, addr)
		switch {
		case err == nil:
			return errors.Wrapf(errors.ErrState, "account %s not closed", addr)
		case !errors.ErrNotFound.Is(err):
			return err
		}
	}
	now, err := ReceivingBalances(ctx, conn, initializerReceiving, takerReceiving)
	if err != nil {
		return err
	}
	if want := start.InitializerReceiving + terms.InitializerExpectedAmount; now.InitializerReceiving != want {
		return errors.Wrapf(errors.ErrState, "initializer holds %d, want %d", now.InitializerReceiving, want)
	}
	if want := start.TakerReceiving + terms.TakerExpectedAmount; now.TakerReceiving != want {
		return errors.Wrapf(errors.ErrState, "taker holds %d, want %d", now.TakerReceiving, want)
	}
	return nil
}
