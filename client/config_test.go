package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/swaptest"
	"github.com/iov-one/swap/x/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyFile(t *testing.T, path string) solana.PrivateKey {
	t.Helper()
	key := swaptest.NewKey()
	raw := make([]int, len(key))
	for i, b := range key {
		raw[i] = int(b)
	}
	content, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content, 0600))
	return key
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swap.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
rpc = "http://localhost:8899"

[terms]
initializer_expected_amount = 3

[keys]
initializer = "alice.json"
`), 0600))

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, escrow.DefaultProgramID, conf.ProgramID)
	assert.Equal(t, "http://localhost:8899", conf.RPC)
	assert.Equal(t, Terms{InitializerExpectedAmount: 3, TakerExpectedAmount: 50}, conf.Terms)
	assert.Equal(t, "alice.json", conf.Keys.Initializer)
	assert.Equal(t, "taker.json", conf.Keys.Taker)

	alice := writeKeyFile(t, filepath.Join(dir, "alice.json"))
	key, err := conf.Key(conf.Keys.Initializer)
	require.NoError(t, err)
	assert.Equal(t, alice.PublicKey(), key.PublicKey())

	_, err = conf.Key(conf.Keys.Taker)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestConfigSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swap.toml")
	conf := DefaultConfig()
	conf.Accounts.MintX = swaptest.NewAddress()
	conf.Accounts.Escrow = swaptest.NewAddress()
	conf.Accounts.Initializer = swaptest.NewAddress()
	require.NoError(t, conf.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, conf.Accounts, loaded.Accounts)
	assert.True(t, loaded.Accounts.Temp.IsZero())
	assert.Equal(t, conf.Terms, loaded.Terms)
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]struct {
		conf      func() Config
		wantField string
		wantErr   *errors.Error
	}{
		"default": {
			conf: DefaultConfig,
		},
		"no program": {
			conf: func() Config {
				c := DefaultConfig()
				c.ProgramID = solana.PublicKey{}
				return c
			},
			wantField: "ProgramID",
			wantErr:   errors.ErrEmpty,
		},
		"no amount": {
			conf: func() Config {
				c := DefaultConfig()
				c.Terms.TakerExpectedAmount = 0
				return c
			},
			wantField: "TakerExpectedAmount",
			wantErr:   errors.ErrAmount,
		},
		"no payer key": {
			conf: func() Config {
				c := DefaultConfig()
				c.Keys.Payer = ""
				return c
			},
			wantField: "Keys.Payer",
			wantErr:   errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.conf().Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			errs := errors.FieldErrors(err, tc.wantField)
			require.Len(t, errs, 1)
			assert.True(t, tc.wantErr.Is(errs[0]))
		})
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swap.toml")
	require.NoError(t, os.WriteFile(path, []byte(`program_id = "not an address"`), 0600))
	_, err := LoadConfig(path)
	assert.True(t, errors.ErrInput.Is(err))
}
