package system

import (
	"context"

	"github.com/gagliardetto/solana-go"
	systemprog "github.com/gagliardetto/solana-go/programs/system"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// Program is the system program. Register it under solana.SystemProgramID.
type Program struct{}

var _ swap.Program = Program{}

// RegisterProgram registers the system program under its well known id.
func RegisterProgram(r swap.Registry) {
	r.Register(solana.SystemProgramID, Program{})
}

// Process implements swap.Program.
func (Program) Process(ctx context.Context, rt swap.Invoker, programID solana.PublicKey, accounts []*swap.AccountInfo, data []byte) error {
	ix, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	log := swap.GetLogger(ctx)
	switch ix := ix.(type) {
	case *systemprog.CreateAccount:
		log.Debug("Instruction: CreateAccount", "space", *ix.Space, "lamports", *ix.Lamports)
		return createAccount(*ix.Lamports, *ix.Space, *ix.Owner, accounts)
	case *systemprog.Assign:
		log.Debug("Instruction: Assign", "owner", *ix.Owner)
		return assign(*ix.Owner, accounts)
	case *systemprog.Transfer:
		log.Debug("Instruction: Transfer", "lamports", *ix.Lamports)
		return transfer(*ix.Lamports, accounts)
	default:
		return errors.Wrapf(errors.ErrHuman, "unhandled instruction %T", ix)
	}
}

func createAccount(lamports, space uint64, owner solana.PublicKey, accounts []*swap.AccountInfo) error {
	if err := swap.RequireAccounts(accounts, 2); err != nil {
		return err
	}
	funder, acc := accounts[0], accounts[1]
	if err := requireSignedWritable(funder, acc); err != nil {
		return err
	}
	if space > MaxAccountDataSize {
		return errors.Wrapf(errors.ErrInput, "space %d exceeds %d", space, MaxAccountDataSize)
	}
	if acc.Lamports != 0 || len(acc.Data) != 0 || !acc.Owner.Equals(solana.SystemProgramID) {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "account %s already in use", acc.Key)
	}
	if err := debit(funder, lamports); err != nil {
		return err
	}
	acc.Lamports = lamports
	acc.Data = make([]byte, space)
	acc.Owner = owner
	return nil
}

func assign(owner solana.PublicKey, accounts []*swap.AccountInfo) error {
	if err := swap.RequireAccounts(accounts, 1); err != nil {
		return err
	}
	acc := accounts[0]
	if err := requireSignedWritable(acc); err != nil {
		return err
	}
	if acc.Owner.Equals(owner) {
		return nil
	}
	if !acc.Owner.Equals(solana.SystemProgramID) {
		return errors.Wrapf(errors.ErrOwner, "account %s is owned by %s", acc.Key, acc.Owner)
	}
	acc.Owner = owner
	return nil
}

func transfer(lamports uint64, accounts []*swap.AccountInfo) error {
	if err := swap.RequireAccounts(accounts, 2); err != nil {
		return err
	}
	from, to := accounts[0], accounts[1]
	if err := requireSignedWritable(from); err != nil {
		return err
	}
	if err := swap.RequireWritable(to); err != nil {
		return err
	}
	if len(from.Data) != 0 {
		return errors.Wrapf(errors.ErrInput, "from %s must not carry data", from.Key)
	}
	if to.Lamports+lamports < to.Lamports {
		return errors.Wrapf(errors.ErrOverflow, "credit %s", to.Key)
	}
	if err := debit(from, lamports); err != nil {
		return err
	}
	to.Lamports += lamports
	return nil
}

func requireSignedWritable(accounts ...*swap.AccountInfo) error {
	for _, a := range accounts {
		if err := swap.RequireSigner(a); err != nil {
			return err
		}
		if err := swap.RequireWritable(a); err != nil {
			return err
		}
	}
	return nil
}

func debit(a *swap.AccountInfo, lamports uint64) error {
	if a.Lamports < lamports {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s has %d lamports, need %d", a.Key, a.Lamports, lamports)
	}
	a.Lamports -= lamports
	return nil
}
