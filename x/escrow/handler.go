package escrow

import (
	"context"

	"github.com/gagliardetto/solana-go"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/token"
)

// Program is the escrow program.
type Program struct{}

var _ swap.Program = Program{}

// RegisterProgram registers the escrow program under the given address.
func RegisterProgram(r swap.Registry, programID solana.PublicKey) {
	r.Register(programID, Program{})
}

// Process implements swap.Program.
func (Program) Process(ctx context.Context, rt swap.Invoker, programID solana.PublicKey, accounts []*swap.AccountInfo, data []byte) error {
	ix, err := UnpackInstruction(data)
	if err != nil {
		return err
	}
	switch ix.Op {
	case OpInitEscrow:
		swap.GetLogger(ctx).Info("Instruction: InitEscrow", "amount", ix.Amount)
		a, err := ParseInitEscrowAccounts(accounts)
		if err != nil {
			return err
		}
		return initEscrow(ctx, rt, programID, a, ix.Amount)
	case OpExchange:
		swap.GetLogger(ctx).Info("Instruction: Exchange", "amount", ix.Amount)
		a, err := ParseExchangeAccounts(accounts)
		if err != nil {
			return err
		}
		return exchange(ctx, rt, programID, a, ix.Amount)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled op %s", ix.Op)
	}
}

func initEscrow(ctx context.Context, rt swap.Invoker, programID solana.PublicKey, a *InitEscrowAccounts, amount uint64) error {
	if !a.Receiving.Owner.Equals(solana.TokenProgramID) {
		return errors.Wrapf(errors.ErrProgramID, "receiving account %s is owned by %s", a.Receiving.Key, a.Receiving.Owner)
	}
	if !a.TokenProgram.Key.Equals(solana.TokenProgramID) {
		return errors.Wrapf(errors.ErrProgramID, "%s is not the token program", a.TokenProgram.Key)
	}
	if !a.Escrow.Owner.Equals(programID) {
		return errors.Wrapf(errors.ErrOwner, "escrow account %s is owned by %s", a.Escrow.Key, a.Escrow.Owner)
	}
	if !rt.Rent().IsExempt(a.Escrow.Lamports, len(a.Escrow.Data)) {
		return errors.Wrapf(errors.ErrNotRentExempt, "escrow account %s", a.Escrow.Key)
	}
	state, err := Unpack(a.Escrow.Data)
	if err != nil {
		return err
	}
	if state.IsInitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "escrow account %s", a.Escrow.Key)
	}
	for _, b := range a.Escrow.Data {
		if b != 0 {
			return errors.Wrapf(errors.ErrAccountData, "escrow account %s is not zeroed", a.Escrow.Key)
		}
	}

	state = &State{
		IsInitialized:               true,
		Initializer:                 a.Initializer.Key,
		TempTokenAccount:            a.Temp.Key,
		InitializerReceivingAccount: a.Receiving.Key,
		ExpectedAmount:              amount,
	}
	if err := state.PackInto(a.Escrow.Data); err != nil {
		return err
	}

	authority, _, err := Authority(programID)
	if err != nil {
		return err
	}
	swap.GetLogger(ctx).Debug("Calling the token program to transfer token account ownership", "authority", authority)
	setOwner := tokenprog.NewSetAuthorityInstruction(tokenprog.AuthorityAccountOwner, authority, a.Temp.Key, a.Initializer.Key, nil).Build()
	return errors.Wrap(rt.Invoke(ctx, setOwner), "move custody")
}

func exchange(ctx context.Context, rt swap.Invoker, programID solana.PublicKey, a *ExchangeAccounts, amount uint64) error {
	if !a.Escrow.Owner.Equals(programID) {
		return errors.Wrapf(errors.ErrOwner, "escrow account %s is owned by %s", a.Escrow.Key, a.Escrow.Owner)
	}
	state, err := Unpack(a.Escrow.Data)
	if err != nil {
		return err
	}
	if !state.IsInitialized {
		return errors.Wrapf(errors.ErrUninitialized, "escrow account %s", a.Escrow.Key)
	}
	if amount != state.ExpectedAmount {
		return errors.Wrapf(ErrExpectedAmountMismatch, "want %d, got %d", state.ExpectedAmount, amount)
	}
	if err := matchRecorded("temporary token account", state.TempTokenAccount, a.Temp); err != nil {
		return err
	}
	if err := matchRecorded("initializer", state.Initializer, a.Initializer); err != nil {
		return err
	}
	if err := matchRecorded("initializer receiving account", state.InitializerReceivingAccount, a.InitializerReceiving); err != nil {
		return err
	}
	if !a.TokenProgram.Key.Equals(solana.TokenProgramID) {
		return errors.Wrapf(errors.ErrProgramID, "%s is not the token program", a.TokenProgram.Key)
	}
	authority, bump, err := Authority(programID)
	if err != nil {
		return err
	}
	if !a.Authority.Key.Equals(authority) {
		return errors.Wrapf(errors.ErrInput, "authority must be %s, got %s", authority, a.Authority.Key)
	}
	if !a.Temp.Owner.Equals(solana.TokenProgramID) {
		return errors.Wrapf(errors.ErrOwner, "temporary token account %s is owned by %s", a.Temp.Key, a.Temp.Owner)
	}
	temp, err := token.UnpackAccount(a.Temp.Data)
	if err != nil {
		return errors.Wrap(err, "temporary token account")
	}
	seeds := authoritySeeds(bump)
	log := swap.GetLogger(ctx)

	log.Debug("Calling the token program to transfer tokens to the escrow's initializer", "amount", state.ExpectedAmount)
	pay := tokenprog.NewTransferInstruction(state.ExpectedAmount, a.TakerSending.Key, a.InitializerReceiving.Key, a.Taker.Key, nil).Build()
	if err := rt.Invoke(ctx, pay); err != nil {
		return errors.Wrap(err, "pay initializer")
	}

	log.Debug("Calling the token program to transfer tokens to the taker", "amount", temp.Amount)
	release := tokenprog.NewTransferInstruction(temp.Amount, a.Temp.Key, a.TakerReceiving.Key, authority, nil).Build()
	if err := rt.InvokeSigned(ctx, release, seeds); err != nil {
		return errors.Wrap(err, "release custody")
	}

	log.Debug("Calling the token program to close the temporary token account")
	closeTemp := tokenprog.NewCloseAccountInstruction(a.Temp.Key, a.Initializer.Key, authority, nil).Build()
	if err := rt.InvokeSigned(ctx, closeTemp, seeds); err != nil {
		return errors.Wrap(err, "close custody")
	}

	log.Debug("Closing the escrow account")
	if a.Initializer.Lamports+a.Escrow.Lamports < a.Initializer.Lamports {
		return errors.Wrap(errors.ErrOverflow, "refund escrow rent")
	}
	a.Initializer.Lamports += a.Escrow.Lamports
	a.Escrow.Lamports = 0
	for i := range a.Escrow.Data {
		a.Escrow.Data[i] = 0
	}
	return nil
}

func matchRecorded(what string, want solana.PublicKey, got *swap.AccountInfo) error {
	if !want.Equals(got.Key) {
		return errors.Wrapf(ErrAccountMismatch, "%s: want %s, got %s", what, want, got.Key)
	}
	return nil
}
