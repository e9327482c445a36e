package token

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/iov-one/swap/errors"
	"github.com/stretchr/testify/require"
)

func data(t *testing.T, ix solana.Instruction) []byte {
	t.Helper()
	raw, err := ix.Data()
	require.NoError(t, err)
	return raw
}

func TestInstructionWireFormat(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()
	c := solana.NewWallet().PublicKey()

	raw := data(t, tokenprog.NewTransferInstruction(0x0102, a, b, c, nil).Build())
	require.Equal(t, []byte{3, 2, 1, 0, 0, 0, 0, 0, 0}, raw)

	raw = data(t, tokenprog.NewSetAuthorityInstruction(tokenprog.AuthorityAccountOwner, b, a, c, nil).Build())
	require.Len(t, raw, 35)
	require.Equal(t, []byte{6, 2, 1}, raw[:3])
	require.Equal(t, b[:], raw[3:])

	raw = data(t, tokenprog.NewInitializeMintInstructionBuilder().
		SetDecimals(0).
		SetMintAuthority(b).
		SetMintAccount(a).
		Build())
	require.Len(t, raw, 35)
	require.Equal(t, byte(0), raw[34])

	raw = data(t, tokenprog.NewCloseAccountInstruction(a, b, c, nil).Build())
	require.Equal(t, []byte{9}, raw)
}

func TestDecodeInstruction(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	cases := map[string]struct {
		data    []byte
		check   func(t *testing.T, ix interface{})
		wantErr *errors.Error
	}{
		"transfer": {
			data: data(t, tokenprog.NewTransferInstruction(7, a, a, a, nil).Build()),
			check: func(t *testing.T, ix interface{}) {
				require.Equal(t, uint64(7), *ix.(*tokenprog.Transfer).Amount)
			},
		},
		"mint to": {
			data: data(t, tokenprog.NewMintToInstruction(50, a, a, a, nil).Build()),
			check: func(t *testing.T, ix interface{}) {
				require.Equal(t, uint64(50), *ix.(*tokenprog.MintTo).Amount)
			},
		},
		"initialize mint with freeze authority": {
			data: data(t, tokenprog.NewInitializeMintInstruction(2, a, b, a, solana.SysVarRentPubkey).Build()),
			check: func(t *testing.T, ix interface{}) {
				m := ix.(*tokenprog.InitializeMint)
				require.Equal(t, uint8(2), *m.Decimals)
				require.Equal(t, a, *m.MintAuthority)
				require.Equal(t, b, *m.FreezeAuthority)
			},
		},
		"remove close authority": {
			data: data(t, tokenprog.NewSetAuthorityInstructionBuilder().
				SetAuthorityType(tokenprog.AuthorityCloseAccount).
				SetSubjectAccount(a).
				SetAuthorityAccount(a).
				Build()),
			check: func(t *testing.T, ix interface{}) {
				s := ix.(*tokenprog.SetAuthority)
				require.Equal(t, tokenprog.AuthorityCloseAccount, *s.AuthorityType)
				require.Nil(t, s.NewAuthority)
			},
		},
		"empty": {
			data:    nil,
			wantErr: errors.ErrInstruction,
		},
		"unknown tag": {
			data:    []byte{42},
			wantErr: errors.ErrInstruction,
		},
		"not supported": {
			data:    data(t, tokenprog.NewRevokeInstruction(a, a, nil).Build()),
			wantErr: errors.ErrInstruction,
		},
		"short amount": {
			data:    []byte{tokenprog.Instruction_Transfer, 1, 2},
			wantErr: errors.ErrInstruction,
		},
		"trailing bytes": {
			data:    []byte{tokenprog.Instruction_CloseAccount, 0},
			wantErr: errors.ErrInstruction,
		},
		"unknown authority type": {
			data:    []byte{tokenprog.Instruction_SetAuthority, 9, 0},
			wantErr: errors.ErrInstruction,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := DecodeInstruction(tc.data)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "want %v, got %+v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, got)
		})
	}
}
