package escrow

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// DefaultProgramID is the address the escrow program is registered under
// unless configured otherwise.
var DefaultProgramID = solana.MustPublicKeyFromBase58("nvvx9WSXyYFPxa4q7m5Y1jJZ9DLyx6sF4MncUrGESPz")

// Op selects the escrow operation.
type Op uint8

const (
	OpInitEscrow Op = 0
	OpExchange   Op = 1
)

func (o Op) String() string {
	switch o {
	case OpInitEscrow:
		return "InitEscrow"
	case OpExchange:
		return "Exchange"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// InstructionSize is the length of every escrow instruction payload.
const InstructionSize = 1 + 8

// Instruction is the decoded escrow instruction payload.
//
// For InitEscrow, Amount is what the initializer expects in return. For
// Exchange, Amount must be equal to the amount recorded in the escrow.
type Instruction struct {
	Op     Op
	Amount uint64
}

// Pack returns the 9 byte wire form of the instruction.
func (ix Instruction) Pack() []byte {
	raw := make([]byte, InstructionSize)
	raw[0] = byte(ix.Op)
	binary.LittleEndian.PutUint64(raw[1:], ix.Amount)
	return raw
}

// UnpackInstruction decodes an escrow instruction payload.
func UnpackInstruction(data []byte) (*Instruction, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInstruction, "empty instruction")
	}
	op := Op(data[0])
	if op != OpInitEscrow && op != OpExchange {
		return nil, errors.Wrapf(errors.ErrInstruction, "unknown opcode %d", data[0])
	}
	if len(data) != InstructionSize {
		return nil, errors.Wrapf(errors.ErrInstruction, "%s must be %d bytes, got %d", op, InstructionSize, len(data))
	}
	return &Instruction{Op: op, Amount: binary.LittleEndian.Uint64(data[1:])}, nil
}

// InitEscrowAccounts is the ordered account list of InitEscrow.
type InitEscrowAccounts struct {
	Initializer  *swap.AccountInfo // signer
	Temp         *swap.AccountInfo // writable, holds the offered tokens
	Receiving    *swap.AccountInfo // initializer token account for the expected mint
	Escrow       *swap.AccountInfo // writable, program owned, StateSize bytes
	TokenProgram *swap.AccountInfo
}

// ParseInitEscrowAccounts binds the positional account list of InitEscrow.
func ParseInitEscrowAccounts(accounts []*swap.AccountInfo) (*InitEscrowAccounts, error) {
	if err := swap.RequireAccounts(accounts, 5); err != nil {
		return nil, err
	}
	a := InitEscrowAccounts{
		Initializer:  accounts[0],
		Temp:         accounts[1],
		Receiving:    accounts[2],
		Escrow:       accounts[3],
		TokenProgram: accounts[4],
	}
	if err := swap.RequireSigner(a.Initializer); err != nil {
		return nil, err
	}
	if err := swap.RequireWritable(a.Temp); err != nil {
		return nil, err
	}
	if err := swap.RequireWritable(a.Escrow); err != nil {
		return nil, err
	}
	return &a, nil
}

// ExchangeAccounts is the ordered account list of Exchange.
type ExchangeAccounts struct {
	Taker                *swap.AccountInfo // signer
	TakerSending         *swap.AccountInfo // taker token account of the expected mint
	TakerReceiving       *swap.AccountInfo // taker token account of the offered mint
	Temp                 *swap.AccountInfo
	Initializer          *swap.AccountInfo // receives the rent of both closed accounts
	InitializerReceiving *swap.AccountInfo
	Escrow               *swap.AccountInfo
	TokenProgram         *swap.AccountInfo
	Authority            *swap.AccountInfo // program derived address
}

// ParseExchangeAccounts binds the positional account list of Exchange.
func ParseExchangeAccounts(accounts []*swap.AccountInfo) (*ExchangeAccounts, error) {
	if err := swap.RequireAccounts(accounts, 9); err != nil {
		return nil, err
	}
	a := ExchangeAccounts{
		Taker:                accounts[0],
		TakerSending:         accounts[1],
		TakerReceiving:       accounts[2],
		Temp:                 accounts[3],
		Initializer:          accounts[4],
		InitializerReceiving: accounts[5],
		Escrow:               accounts[6],
		TokenProgram:         accounts[7],
		Authority:            accounts[8],
	}
	if err := swap.RequireSigner(a.Taker); err != nil {
		return nil, err
	}
	for _, w := range []*swap.AccountInfo{a.TakerSending, a.TakerReceiving, a.Temp, a.Initializer, a.InitializerReceiving, a.Escrow} {
		if err := swap.RequireWritable(w); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

// NewInitEscrowInstruction returns the instruction recording a new escrow.
// The temporary token account must already hold the offered tokens.
func NewInitEscrowInstruction(programID, initializer, temp, receiving, escrowAccount solana.PublicKey, expectedAmount uint64) solana.Instruction {
	data := Instruction{Op: OpInitEscrow, Amount: expectedAmount}.Pack()
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(initializer, true, true),
		solana.NewAccountMeta(temp, true, false),
		solana.NewAccountMeta(receiving, false, false),
		solana.NewAccountMeta(escrowAccount, true, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}, data)
}

// ExchangeParams lists the accounts taking part in an exchange.
type ExchangeParams struct {
	Taker                solana.PublicKey
	TakerSending         solana.PublicKey
	TakerReceiving       solana.PublicKey
	Temp                 solana.PublicKey
	Initializer          solana.PublicKey
	InitializerReceiving solana.PublicKey
	Escrow               solana.PublicKey
}

// NewExchangeInstruction returns the instruction settling an escrow. amount
// must be equal to the amount recorded in the escrow.
func NewExchangeInstruction(programID solana.PublicKey, p ExchangeParams, amount uint64) (solana.Instruction, error) {
	authority, _, err := Authority(programID)
	if err != nil {
		return nil, err
	}
	data := Instruction{Op: OpExchange, Amount: amount}.Pack()
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(p.Taker, true, true),
		solana.NewAccountMeta(p.TakerSending, true, false),
		solana.NewAccountMeta(p.TakerReceiving, true, false),
		solana.NewAccountMeta(p.Temp, true, false),
		solana.NewAccountMeta(p.Initializer, true, false),
		solana.NewAccountMeta(p.InitializerReceiving, true, false),
		solana.NewAccountMeta(p.Escrow, true, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(authority, false, false),
	}, data), nil
}
