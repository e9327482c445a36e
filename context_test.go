package swap

import (
	"context"
	"os"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// slot - uninitialized
	slot, ok := GetSlot(ctx)
	assert.Equal(t, uint64(0), slot)
	assert.False(t, ok)
	ctx = WithSlot(ctx, 7)
	slot, ok = GetSlot(ctx)
	assert.Equal(t, uint64(7), slot)
	assert.True(t, ok)

	// changing the info, should modify the logger, but not the slot
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	slot, _ = GetSlot(ctx2)
	assert.Equal(t, uint64(7), slot)

	_, ok = GetSignature(ctx)
	assert.False(t, ok)
	sig := solana.Signature{1, 2, 3}
	got, ok := GetSignature(WithSignature(ctx, sig))
	assert.True(t, ok)
	assert.Equal(t, sig, got)

	programID := solana.TokenProgramID
	pid, ok := GetProgram(WithProgram(ctx, programID))
	assert.True(t, ok)
	assert.Equal(t, programID, pid)
}

func TestChainID(t *testing.T) {
	cases := []struct {
		chainID string
		valid   bool
	}{
		{"", false},
		{"foo", false},
		{"special", true},
		{"wish-YOU-88", true},
		{"invalid;;chars", false},
		{"this-chain-id-is-way-too-long", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, IsValidChainID(tc.chainID), tc.chainID)
	}
}
