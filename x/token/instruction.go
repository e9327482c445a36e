package token

import (
	bin "github.com/gagliardetto/binary"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/iov-one/swap/errors"
)

// DecodeInstruction decodes token instruction data with the cluster codec.
// Only the instructions the swap relies on are accepted, and the data must
// be consumed entirely. The result is one of *tokenprog.InitializeMint,
// *tokenprog.InitializeAccount, *tokenprog.Transfer, *tokenprog.SetAuthority,
// *tokenprog.MintTo or *tokenprog.CloseAccount.
func DecodeInstruction(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInstruction, "missing discriminator")
	}
	var ix tokenprog.Instruction
	dec := bin.NewBinDecoder(data)
	if err := dec.Decode(&ix); err != nil {
		return nil, errors.Wrap(errors.ErrInstruction, err.Error())
	}
	if dec.HasRemaining() {
		return nil, errors.Wrapf(errors.ErrInstruction, "%d trailing bytes", dec.Remaining())
	}
	switch impl := ix.Impl.(type) {
	case *tokenprog.InitializeMint, *tokenprog.InitializeAccount, *tokenprog.Transfer, *tokenprog.MintTo, *tokenprog.CloseAccount:
		return impl, nil
	case *tokenprog.SetAuthority:
		if *impl.AuthorityType > tokenprog.AuthorityCloseAccount {
			return nil, errors.Wrapf(errors.ErrInstruction, "unknown authority type %d", *impl.AuthorityType)
		}
		return impl, nil
	default:
		return nil, errors.Wrapf(errors.ErrInstruction, "%s is not supported", tokenprog.InstructionIDToName(ix.TypeID.Uint8()))
	}
}

// AuthorityName returns a human readable name of the authority type.
func AuthorityName(t tokenprog.AuthorityType) string {
	switch t {
	case tokenprog.AuthorityMintTokens:
		return "MintTokens"
	case tokenprog.AuthorityFreezeAccount:
		return "FreezeAccount"
	case tokenprog.AuthorityAccountOwner:
		return "AccountOwner"
	case tokenprog.AuthorityCloseAccount:
		return "CloseAccount"
	default:
		return "Unknown"
	}
}
