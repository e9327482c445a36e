package swaptest

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
)

// Program is a configurable program that counts how many times it was
// called.
type Program struct {
	calls int
	// Fn if set is called for every instruction. Its error is returned.
	Fn func(ctx context.Context, rt swap.Invoker, accounts []*swap.AccountInfo, data []byte) error
	// Err if set is returned after Fn succeeded.
	Err error
}

var _ swap.Program = (*Program)(nil)

// Process implements swap.Program.
func (p *Program) Process(ctx context.Context, rt swap.Invoker, programID solana.PublicKey, accounts []*swap.AccountInfo, data []byte) error {
	p.calls++
	if p.Fn != nil {
		if err := p.Fn(ctx, rt, accounts, data); err != nil {
			return err
		}
	}
	return p.Err
}

// CallCount returns the number of processed instructions.
func (p *Program) CallCount() int {
	return p.calls
}
