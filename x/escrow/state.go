package escrow

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
)

// StateSize is the length of the escrow account data.
const StateSize = 1 + 32 + 32 + 32 + 8

const (
	offsetInitializer = 1
	offsetTemp        = offsetInitializer + 32
	offsetReceiving   = offsetTemp + 32
	offsetAmount      = offsetReceiving + 32
)

// State is the content of an escrow account. Once initialized it does not
// change until the account is closed.
type State struct {
	IsInitialized bool
	// Initializer created the escrow and receives all rent back.
	Initializer solana.PublicKey
	// TempTokenAccount holds the offered tokens under the program authority.
	TempTokenAccount solana.PublicKey
	// InitializerReceivingAccount is credited with ExpectedAmount tokens.
	InitializerReceivingAccount solana.PublicKey
	ExpectedAmount              uint64
}

// Pack returns the 105 byte representation of the state.
func (s *State) Pack() []byte {
	raw := make([]byte, StateSize)
	if s.IsInitialized {
		raw[0] = 1
	}
	copy(raw[offsetInitializer:], s.Initializer[:])
	copy(raw[offsetTemp:], s.TempTokenAccount[:])
	copy(raw[offsetReceiving:], s.InitializerReceivingAccount[:])
	binary.LittleEndian.PutUint64(raw[offsetAmount:], s.ExpectedAmount)
	return raw
}

// PackInto writes the state into dst, which must be exactly StateSize long.
func (s *State) PackInto(dst []byte) error {
	if len(dst) != StateSize {
		return errors.Wrapf(errors.ErrAccountData, "escrow account must be %d bytes, got %d", StateSize, len(dst))
	}
	copy(dst, s.Pack())
	return nil
}

// Unpack decodes escrow account data. An all zero buffer decodes into an
// uninitialized state.
func Unpack(raw []byte) (*State, error) {
	if len(raw) != StateSize {
		return nil, errors.Wrapf(errors.ErrAccountData, "escrow account must be %d bytes, got %d", StateSize, len(raw))
	}
	var s State
	switch raw[0] {
	case 0:
	case 1:
		s.IsInitialized = true
	default:
		return nil, errors.Wrapf(errors.ErrAccountData, "invalid initialized flag %d", raw[0])
	}
	s.Initializer = solana.PublicKeyFromBytes(raw[offsetInitializer:offsetTemp])
	s.TempTokenAccount = solana.PublicKeyFromBytes(raw[offsetTemp:offsetReceiving])
	s.InitializerReceivingAccount = solana.PublicKeyFromBytes(raw[offsetReceiving:offsetAmount])
	s.ExpectedAmount = binary.LittleEndian.Uint64(raw[offsetAmount:])
	return &s, nil
}
