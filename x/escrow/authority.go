package escrow

import (
	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
)

// AuthoritySeed is the seed of the program derived address that owns all
// temporary token accounts.
var AuthoritySeed = []byte("escrow")

// Authority returns the program derived address of the given escrow program
// together with its bump seed.
func Authority(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress([][]byte{AuthoritySeed}, programID)
	if err != nil {
		return solana.PublicKey{}, 0, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return addr, bump, nil
}

// authoritySeeds returns the signer seeds used when the program signs as its
// authority.
func authoritySeeds(bump uint8) [][][]byte {
	return [][][]byte{{AuthoritySeed, {bump}}}
}
