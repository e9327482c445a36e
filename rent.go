package swap

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap/errors"
)

// AccountStorageOverhead is the number of bytes every account occupies in
// addition to its data.
const AccountStorageOverhead = 128

// DefaultRent holds the cluster default rent parameters.
var DefaultRent = Rent{
	LamportsPerByteYear: 3480,
	ExemptionThreshold:  2.0,
	BurnPercent:         50,
}

// Rent describes how much an account must hold to be allowed to keep its
// data.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	BurnPercent         uint8
}

// MinimumBalance returns the smallest balance for an account with dataLen
// bytes of data to be rent exempt.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := uint64(dataLen) + AccountStorageOverhead
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt returns true if the balance is enough to keep dataLen bytes of
// data forever.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// Marshal returns the content of the rent sysvar account.
func (r Rent) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(r)
}

// Unmarshal loads rent parameters from the content of the rent sysvar
// account.
func (r *Rent) Unmarshal(raw []byte) error {
	if err := bin.UnmarshalBorsh(r, raw); err != nil {
		return errors.Wrap(errors.ErrAccountData, err.Error())
	}
	return nil
}
