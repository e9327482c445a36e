package swap

import (
	"context"
	"encoding/json"

	"github.com/gagliardetto/solana-go"
)

// Program is the on-ledger code that processes instructions addressed to its
// program id. A program can only change data of accounts it owns and can
// only debit lamports from accounts it owns. Any other change made by a
// program fails the whole transaction.
type Program interface {
	Process(ctx context.Context, rt Invoker, programID solana.PublicKey, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ctx context.Context, rt Invoker, programID solana.PublicKey, accounts []*AccountInfo, data []byte) error

// Process implements Program.
func (fn ProgramFunc) Process(ctx context.Context, rt Invoker, programID solana.PublicKey, accounts []*AccountInfo, data []byte) error {
	return fn(ctx, rt, programID, accounts, data)
}

// Invoker is the runtime as seen by an executing program.
type Invoker interface {
	// Rent returns the rent parameters of the ledger.
	Rent() Rent

	// Invoke calls another program with the signer privileges of the
	// current instruction. Every account referenced by the instruction
	// must have been passed to the calling program.
	Invoke(ctx context.Context, ix solana.Instruction) error

	// InvokeSigned works like Invoke, but additionally grants signer
	// privilege to every program derived address created from the
	// given seeds and the calling program id.
	InvokeSigned(ctx context.Context, ix solana.Instruction, signerSeeds [][][]byte) error
}

// Registry is an interface to register your program, the setup side of a
// runtime.
type Registry interface {
	Register(programID solana.PublicKey, p Program)
}

// Options are the ledger genesis options.
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
