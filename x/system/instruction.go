package system

import (
	bin "github.com/gagliardetto/binary"
	systemprog "github.com/gagliardetto/solana-go/programs/system"
	"github.com/iov-one/swap/errors"
)

// MaxAccountDataSize is the largest allocation a single CreateAccount can
// request.
const MaxAccountDataSize = 10 * 1024 * 1024

// DecodeInstruction decodes system instruction data with the cluster codec.
// The result is one of *systemprog.CreateAccount, *systemprog.Assign or
// *systemprog.Transfer. Other instructions and trailing bytes are rejected.
func DecodeInstruction(data []byte) (interface{}, error) {
	if len(data) < 4 {
		return nil, errors.Wrap(errors.ErrInstruction, "missing discriminator")
	}
	var ix systemprog.Instruction
	dec := bin.NewBinDecoder(data)
	if err := dec.Decode(&ix); err != nil {
		return nil, errors.Wrap(errors.ErrInstruction, err.Error())
	}
	if dec.HasRemaining() {
		return nil, errors.Wrapf(errors.ErrInstruction, "%d trailing bytes", dec.Remaining())
	}
	switch impl := ix.Impl.(type) {
	case *systemprog.CreateAccount, *systemprog.Assign, *systemprog.Transfer:
		return impl, nil
	default:
		return nil, errors.Wrapf(errors.ErrInstruction, "%s is not supported", systemprog.InstructionIDToName(ix.TypeID.Uint32()))
	}
}
