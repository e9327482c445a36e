package token

import (
	bin "github.com/gagliardetto/binary"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/iov-one/swap/errors"
)

const (
	// MintSize is the length of the mint account data.
	MintSize = 82
	// AccountSize is the length of the holding account data.
	AccountSize = 165
)

// Mint describes a token type.
type Mint = tokenprog.Mint

// Account holds a balance of a single mint on behalf of its owner.
type Account = tokenprog.Account

// byte offsets of the flags the cluster codec reads leniently
const (
	mintInitializedOffset = 45
	accountStateOffset    = 108
)

// Offsets of the four byte option tags. The cluster codec treats any tag
// other than 1 as absent; a stored tag must be 0 or 1.
var (
	mintOptionOffsets    = []int{0, 46}
	accountOptionOffsets = []int{72, 109, 129}
)

// IsInitialized returns true once the holding account was initialized.
func IsInitialized(a *Account) bool {
	return a.State != tokenprog.Uninitialized
}

// UnpackMint decodes mint account data.
func UnpackMint(raw []byte) (*Mint, error) {
	if len(raw) != MintSize {
		return nil, errors.Wrapf(errors.ErrAccountData, "mint must be %d bytes, got %d", MintSize, len(raw))
	}
	if raw[mintInitializedOffset] > 1 {
		return nil, errors.Wrap(errors.ErrAccountData, "invalid mint initialized flag")
	}
	if err := checkOptionTags(raw, mintOptionOffsets); err != nil {
		return nil, err
	}
	var m Mint
	if err := bin.NewBinDecoder(raw).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrAccountData, err.Error())
	}
	return &m, nil
}

// UnpackAccount decodes holding account data.
func UnpackAccount(raw []byte) (*Account, error) {
	if len(raw) != AccountSize {
		return nil, errors.Wrapf(errors.ErrAccountData, "token account must be %d bytes, got %d", AccountSize, len(raw))
	}
	if tokenprog.AccountState(raw[accountStateOffset]) > tokenprog.Frozen {
		return nil, errors.Wrap(errors.ErrAccountData, "invalid account state")
	}
	if err := checkOptionTags(raw, accountOptionOffsets); err != nil {
		return nil, err
	}
	var a Account
	if err := bin.NewBinDecoder(raw).Decode(&a); err != nil {
		return nil, errors.Wrap(errors.ErrAccountData, err.Error())
	}
	return &a, nil
}

// MarshalMint returns the 82 byte representation of the mint.
func MarshalMint(m *Mint) ([]byte, error) {
	raw, err := bin.MarshalBin(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrAccountData, err.Error())
	}
	return raw, nil
}

// MarshalAccount returns the 165 byte representation of the holding
// account.
func MarshalAccount(a *Account) ([]byte, error) {
	raw, err := bin.MarshalBin(a)
	if err != nil {
		return nil, errors.Wrap(errors.ErrAccountData, err.Error())
	}
	return raw, nil
}

func checkOptionTags(raw []byte, offsets []int) error {
	for _, off := range offsets {
		tag := bin.LE.Uint32(raw[off : off+4])
		if tag > 1 {
			return errors.Wrapf(errors.ErrAccountData, "invalid option tag %d at %d", tag, off)
		}
	}
	return nil
}
