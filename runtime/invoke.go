package runtime

import (
	"bytes"
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// MaxInvokeDepth limits nested cross program calls.
const MaxInvokeDepth = 4

// meta is an account reference of an instruction being executed, with the
// privileges actually granted.
type meta struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// execution holds the state of one transaction. Every account is loaded
// once and shared by all instructions.
type execution struct {
	ledger   *Ledger
	accounts map[solana.PublicKey]*swap.Account
	// instructions counts all processed instructions, including nested ones.
	instructions int
}

// frame is a single program invocation.
type frame struct {
	exec      *execution
	programID solana.PublicKey
	depth     int
	accounts  []*swap.AccountInfo
	pre       map[solana.PublicKey]*swap.Account
}

var _ swap.Invoker = (*frame)(nil)

// process runs the program with the given accounts and verifies the account
// rules afterwards.
func (e *execution) process(ctx context.Context, programID solana.PublicKey, metas []meta, data []byte, depth int) error {
	program, ok := e.ledger.programs[programID]
	if !ok {
		return errors.Wrapf(errors.ErrProgramID, "no program registered under %s", programID)
	}
	e.instructions++
	e.ledger.metrics.instruction(programID)

	f := &frame{
		exec:      e,
		programID: programID,
		depth:     depth,
		accounts:  make([]*swap.AccountInfo, len(metas)),
	}
	for i, m := range metas {
		acc, ok := e.accounts[m.Key]
		if !ok {
			return errors.Wrapf(errors.ErrNotEnoughAccounts, "account %s not loaded", m.Key)
		}
		f.accounts[i] = &swap.AccountInfo{
			Key:        m.Key,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Account:    acc,
		}
	}
	f.snapshot()

	ctx = swap.WithProgram(ctx, programID)
	ctx = swap.WithLogInfo(ctx, "program", programID.String(), "depth", depth)
	swap.GetLogger(ctx).Debug("Program invoke")
	if err := f.run(ctx, program, data); err != nil {
		swap.GetLogger(ctx).Debug("Program failed", "err", err)
		return err
	}
	return f.verify()
}

// run calls the program, turning a panic into an error.
func (f *frame) run(ctx context.Context, program swap.Program, data []byte) (err error) {
	defer errors.Recover(&err)
	return program.Process(ctx, f, f.programID, f.accounts, data)
}

// snapshot records the state of all accounts of the frame. Changes are
// verified against it.
func (f *frame) snapshot() {
	f.pre = make(map[solana.PublicKey]*swap.Account, len(f.accounts))
	for _, a := range f.accounts {
		if _, ok := f.pre[a.Key]; !ok {
			f.pre[a.Key] = a.Account.Copy()
		}
	}
}

func (f *frame) writable(key solana.PublicKey) bool {
	for _, a := range f.accounts {
		if a.Key.Equals(key) && a.IsWritable {
			return true
		}
	}
	return false
}

func (f *frame) signer(key solana.PublicKey) bool {
	for _, a := range f.accounts {
		if a.Key.Equals(key) && a.IsSigner {
			return true
		}
	}
	return false
}

// verify checks every change made since the last snapshot against the
// account rules.
func (f *frame) verify() error {
	var preSum, postSum uint64
	for key, pre := range f.pre {
		post := f.exec.accounts[key]
		preSum += pre.Lamports
		postSum += post.Lamports

		changed := pre.Lamports != post.Lamports ||
			!pre.Owner.Equals(post.Owner) ||
			pre.Executable != post.Executable ||
			!bytes.Equal(pre.Data, post.Data)
		if !changed {
			continue
		}
		if !f.writable(key) {
			return errors.Wrapf(errors.ErrReadonly, "%s modified a read only account %s", f.programID, key)
		}
		if pre.Executable != post.Executable {
			return errors.Wrapf(errors.ErrOwner, "%s changed executable flag of %s", f.programID, key)
		}
		owned := pre.Owner.Equals(f.programID)
		if !pre.Owner.Equals(post.Owner) {
			if !owned {
				return errors.Wrapf(errors.ErrOwner, "%s assigned %s which it does not own", f.programID, key)
			}
			if !zeroed(post.Data) {
				return errors.Wrapf(errors.ErrOwner, "%s assigned %s with initialized data", f.programID, key)
			}
		}
		if !bytes.Equal(pre.Data, post.Data) && !owned {
			return errors.Wrapf(errors.ErrOwner, "%s modified data of %s owned by %s", f.programID, key, pre.Owner)
		}
		if post.Lamports < pre.Lamports && !owned {
			return errors.Wrapf(errors.ErrOwner, "%s debited %s owned by %s", f.programID, key, pre.Owner)
		}
	}
	if preSum != postSum {
		return errors.Wrapf(errors.ErrState, "%s changed the lamport total from %d to %d", f.programID, preSum, postSum)
	}
	return nil
}

func zeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Rent implements swap.Invoker.
func (f *frame) Rent() swap.Rent {
	return f.exec.ledger.rent
}

// Invoke implements swap.Invoker.
func (f *frame) Invoke(ctx context.Context, ix solana.Instruction) error {
	return f.InvokeSigned(ctx, ix, nil)
}

// InvokeSigned implements swap.Invoker.
func (f *frame) InvokeSigned(ctx context.Context, ix solana.Instruction, signerSeeds [][][]byte) error {
	if f.depth+1 > MaxInvokeDepth {
		return errors.Wrapf(errors.ErrState, "invoke depth %d exceeds %d", f.depth+1, MaxInvokeDepth)
	}
	// Changes made so far are checked with the privileges of the caller.
	if err := f.verify(); err != nil {
		return err
	}

	derived := make(map[solana.PublicKey]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := solana.CreateProgramAddress(seeds, f.programID)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "signer seeds: %s", err)
		}
		derived[addr] = true
	}

	programID := ix.ProgramID()
	if _, ok := f.pre[programID]; !ok {
		return errors.Wrapf(errors.ErrNotEnoughAccounts, "program %s was not passed to %s", programID, f.programID)
	}
	var metas []meta
	for _, m := range ix.Accounts() {
		if _, ok := f.pre[m.PublicKey]; !ok {
			return errors.Wrapf(errors.ErrNotEnoughAccounts, "account %s was not passed to %s", m.PublicKey, f.programID)
		}
		if m.IsWritable && !f.writable(m.PublicKey) {
			return errors.Wrapf(errors.ErrReadonly, "%s cannot grant write access to %s", f.programID, m.PublicKey)
		}
		if m.IsSigner && !f.signer(m.PublicKey) && !derived[m.PublicKey] {
			return errors.Wrapf(errors.ErrUnauthorized, "%s cannot sign for %s", f.programID, m.PublicKey)
		}
		metas = append(metas, meta{Key: m.PublicKey, IsSigner: m.IsSigner, IsWritable: m.IsWritable})
	}
	data, err := ix.Data()
	if err != nil {
		return errors.Wrap(errors.ErrInstruction, err.Error())
	}

	err = f.exec.process(ctx, programID, metas, data, f.depth+1)
	// The callee changes were verified with its own privileges.
	f.snapshot()
	return err
}
