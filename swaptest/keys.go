package swaptest

import (
	"github.com/gagliardetto/solana-go"
)

// NewKey returns a new random private key. It panics if the system random
// source fails.
func NewKey() solana.PrivateKey {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		panic(err)
	}
	return key
}

// NewAddress returns the address of a new random key.
func NewAddress() solana.PublicKey {
	return NewKey().PublicKey()
}
