package client

import (
	"context"

	"github.com/gagliardetto/solana-go"
	systemprog "github.com/gagliardetto/solana-go/programs/system"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/escrow"
	"github.com/iov-one/swap/x/token"
)

// InitEscrowParams configures InitEscrow.
type InitEscrowParams struct {
	ProgramID   solana.PublicKey
	Initializer solana.PrivateKey
	// Mint of the offered tokens.
	Mint solana.PublicKey
	// Sending is the initializer token account the offered tokens are
	// taken from.
	Sending solana.PublicKey
	// Receiving is the initializer token account that is credited by
	// the exchange.
	Receiving solana.PublicKey
	Terms     Terms
}

// InitEscrowResult holds the addresses created by InitEscrow.
type InitEscrowResult struct {
	Escrow    solana.PublicKey
	Temp      solana.PublicKey
	Signature solana.Signature
}

// InitEscrow moves TakerExpectedAmount tokens into a new temporary token
// account and records the deal in a new escrow account. Both accounts are
// created, funded and initialized in one transaction paid by the
// initializer.
func InitEscrow(ctx context.Context, conn Conn, p InitEscrowParams) (*InitEscrowResult, error) {
	if err := p.Terms.Validate(); err != nil {
		return nil, err
	}
	tempRent, err := conn.GetMinimumBalanceForRentExemption(ctx, token.AccountSize)
	if err != nil {
		return nil, err
	}
	escrowRent, err := conn.GetMinimumBalanceForRentExemption(ctx, escrow.StateSize)
	if err != nil {
		return nil, err
	}
	temp, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	escrowKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}

	initializer := p.Initializer.PublicKey()
	var b batch
	b.add(systemprog.NewCreateAccountInstruction(tempRent, token.AccountSize, solana.TokenProgramID, initializer, temp.PublicKey()).ValidateAndBuild())
	b.add(tokenprog.NewInitializeAccountInstruction(temp.PublicKey(), p.Mint, initializer, solana.SysVarRentPubkey).ValidateAndBuild())
	b.add(tokenprog.NewTransferInstruction(p.Terms.TakerExpectedAmount, p.Sending, temp.PublicKey(), initializer, nil).ValidateAndBuild())
	b.add(systemprog.NewCreateAccountInstruction(escrowRent, escrow.StateSize, p.ProgramID, initializer, escrowKey.PublicKey()).ValidateAndBuild())
	b.add(escrow.NewInitEscrowInstruction(p.ProgramID, initializer, temp.PublicKey(), p.Receiving, escrowKey.PublicKey(), p.Terms.InitializerExpectedAmount), nil)
	sig, err := b.send(ctx, conn, p.Initializer, temp, escrowKey)
	if err != nil {
		return nil, errors.Wrap(err, "init escrow")
	}
	swap.GetLogger(ctx).Info("Escrow initialized",
		"escrow", escrowKey.PublicKey().String(),
		"temp", temp.PublicKey().String(),
		"signature", sig.String())
	return &InitEscrowResult{
		Escrow:    escrowKey.PublicKey(),
		Temp:      temp.PublicKey(),
		Signature: sig,
	}, nil
}

// ExchangeParams configures Exchange. Initializer and
// InitializerReceiving are the counterparty the taker expects to find in
// the escrow.
type ExchangeParams struct {
	ProgramID solana.PublicKey
	Taker     solana.PrivateKey
	// Sending is the taker token account debited with
	// InitializerExpectedAmount.
	Sending solana.PublicKey
	// Receiving is the taker token account credited with the escrowed
	// tokens.
	Receiving            solana.PublicKey
	Escrow               solana.PublicKey
	Initializer          solana.PublicKey
	InitializerReceiving solana.PublicKey
	Terms                Terms
}

// Exchange settles the escrow. The escrow is loaded first and the exchange
// is not sent unless the escrow describes the expected deal.
func Exchange(ctx context.Context, conn Conn, p ExchangeParams) (solana.Signature, error) {
	state, err := LoadEscrow(ctx, conn, p.ProgramID, p.Escrow)
	if err != nil {
		return solana.Signature{}, err
	}
	if !state.Initializer.Equals(p.Initializer) {
		return solana.Signature{}, errors.Wrapf(ErrCounterparty, "escrow initialized by %s", state.Initializer)
	}
	if !state.InitializerReceivingAccount.Equals(p.InitializerReceiving) {
		return solana.Signature{}, errors.Wrapf(ErrCounterparty, "escrow pays to %s", state.InitializerReceivingAccount)
	}
	if state.ExpectedAmount != p.Terms.InitializerExpectedAmount {
		return solana.Signature{}, errors.Wrapf(ErrCounterparty, "escrow expects %d tokens, not %d", state.ExpectedAmount, p.Terms.InitializerExpectedAmount)
	}
	held, err := TokenBalance(ctx, conn, state.TempTokenAccount)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "temp account")
	}
	if held != p.Terms.TakerExpectedAmount {
		return solana.Signature{}, errors.Wrapf(ErrCounterparty, "escrow holds %d tokens, not %d", held, p.Terms.TakerExpectedAmount)
	}

	ix, err := escrow.NewExchangeInstruction(p.ProgramID, escrow.ExchangeParams{
		Taker:                p.Taker.PublicKey(),
		TakerSending:         p.Sending,
		TakerReceiving:       p.Receiving,
		Temp:                 state.TempTokenAccount,
		Initializer:          state.Initializer,
		InitializerReceiving: state.InitializerReceivingAccount,
		Escrow:               p.Escrow,
	}, state.ExpectedAmount)
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := Send(ctx, conn, p.Taker, []solana.Instruction{ix})
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "exchange")
	}
	swap.GetLogger(ctx).Info("Escrow exchanged", "escrow", p.Escrow.String(), "signature", sig.String())
	return sig, nil
}

// LoadEscrow returns the initialized escrow stored under addr.
func LoadEscrow(ctx context.Context, conn Conn, programID, addr solana.PublicKey) (*escrow.State, error) {
	acc, err := conn.GetAccountInfo(ctx, addr)
	if err != nil {
		return nil, errors.Wrap(err, "escrow")
	}
	if !acc.Owner.Equals(programID) {
		return nil, errors.Wrapf(errors.ErrOwner, "escrow %s is owned by %s", addr, acc.Owner)
	}
	state, err := escrow.Unpack(acc.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "escrow %s", addr)
	}
	if !state.IsInitialized {
		return nil, errors.Wrapf(errors.ErrUninitialized, "escrow %s", addr)
	}
	return state, nil
}

// TokenBalance returns the amount held by a token account.
func TokenBalance(ctx context.Context, conn Conn, addr solana.PublicKey) (uint64, error) {
	acc, err := LoadTokenAccount(ctx, conn, addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// LoadTokenAccount returns the token account stored under addr.
func LoadTokenAccount(ctx context.Context, conn Conn, addr solana.PublicKey) (*token.Account, error) {
	acc, err := conn.GetAccountInfo(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !acc.Owner.Equals(solana.TokenProgramID) {
		return nil, errors.Wrapf(errors.ErrOwner, "token account %s is owned by %s", addr, acc.Owner)
	}
	return token.UnpackAccount(acc.Data)
}
