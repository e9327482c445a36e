package escrow

import (
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/swaptest/assert"
)

func TestStatePacking(t *testing.T) {
	initializer := solana.NewWallet().PublicKey()
	temp := solana.NewWallet().PublicKey()
	receiving := solana.NewWallet().PublicKey()

	cases := map[string]State{
		"zero": {},
		"initialized": {
			IsInitialized:               true,
			Initializer:                 initializer,
			TempTokenAccount:            temp,
			InitializerReceivingAccount: receiving,
			ExpectedAmount:              50,
		},
		"max amount": {
			IsInitialized:               true,
			Initializer:                 initializer,
			TempTokenAccount:            temp,
			InitializerReceivingAccount: receiving,
			ExpectedAmount:              math.MaxUint64,
		},
	}
	for testName, s := range cases {
		t.Run(testName, func(t *testing.T) {
			raw := s.Pack()
			assert.Equal(t, StateSize, len(raw))
			got, err := Unpack(raw)
			assert.Nil(t, err)
			assert.Equal(t, s, *got)
		})
	}
}

func TestStateLayout(t *testing.T) {
	s := State{
		IsInitialized:               true,
		Initializer:                 solana.NewWallet().PublicKey(),
		TempTokenAccount:            solana.NewWallet().PublicKey(),
		InitializerReceivingAccount: solana.NewWallet().PublicKey(),
		ExpectedAmount:              0x0807060504030201,
	}
	raw := s.Pack()
	assert.Equal(t, 105, len(raw))
	assert.Equal(t, byte(1), raw[0])
	assert.Equal(t, s.Initializer[:], raw[1:33])
	assert.Equal(t, s.TempTokenAccount[:], raw[33:65])
	assert.Equal(t, s.InitializerReceivingAccount[:], raw[65:97])
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, raw[97:105])
}

func TestUnpackInvalidState(t *testing.T) {
	_, err := Unpack(make([]byte, StateSize-1))
	assert.IsErr(t, errors.ErrAccountData, err)

	_, err = Unpack(nil)
	assert.IsErr(t, errors.ErrAccountData, err)

	raw := make([]byte, StateSize)
	raw[0] = 2
	_, err = Unpack(raw)
	assert.IsErr(t, errors.ErrAccountData, err)

	s := State{ExpectedAmount: 1}
	assert.IsErr(t, errors.ErrAccountData, s.PackInto(make([]byte, 10)))
}
