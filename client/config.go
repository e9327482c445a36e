package client

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/escrow"
)

// Config describes a swap between two parties. Paths of key files are
// relative to the directory of the configuration file.
type Config struct {
	ProgramID solana.PublicKey `toml:"program_id"`
	// RPC is the address of a cluster node. An empty value selects the
	// local ledger.
	RPC      string   `toml:"rpc"`
	Terms    Terms    `toml:"terms"`
	Keys     KeyFiles `toml:"keys"`
	Accounts Accounts `toml:"accounts"`

	dir string
}

// KeyFiles lists the solana-keygen JSON key files of every party.
type KeyFiles struct {
	// Payer funds the setup and is the mint authority of both mints.
	Payer       string `toml:"payer"`
	Initializer string `toml:"initializer"`
	Taker       string `toml:"taker"`
}

// Accounts are the addresses created while the swap progresses. Unknown
// addresses are left zero.
type Accounts struct {
	MintX        solana.PublicKey `toml:"mint_x"`
	MintY        solana.PublicKey `toml:"mint_y"`
	InitializerX solana.PublicKey `toml:"initializer_x"`
	InitializerY solana.PublicKey `toml:"initializer_y"`
	TakerX       solana.PublicKey `toml:"taker_x"`
	TakerY       solana.PublicKey `toml:"taker_y"`
	Escrow       solana.PublicKey `toml:"escrow"`
	Temp         solana.PublicKey `toml:"temp"`
	// Initializer is the party that created the escrow. The taker needs
	// only this address, not the initializer key file.
	Initializer solana.PublicKey `toml:"initializer"`
}

// DefaultConfig returns the configuration of a 50 for 50 swap on the local
// ledger.
func DefaultConfig() Config {
	return Config{
		ProgramID: escrow.DefaultProgramID,
		Terms: Terms{
			InitializerExpectedAmount: 50,
			TakerExpectedAmount:       50,
		},
		Keys: KeyFiles{
			Payer:       "payer.json",
			Initializer: "initializer.json",
			Taker:       "taker.json",
		},
	}
}

// LoadConfig reads the configuration file. Missing values are taken from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "config %s: %s", path, err)
	}
	conf.dir = filepath.Dir(path)
	return conf, conf.Validate()
}

// Save writes the configuration to path.
func (c Config) Save(path string) error {
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "open config")
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(c); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return fd.Close()
}

// Validate returns an error if the configuration cannot describe a swap.
func (c Config) Validate() error {
	var errs error
	if c.ProgramID.IsZero() {
		errs = errors.AppendField(errs, "ProgramID", errors.ErrEmpty)
	}
	errs = errors.Append(errs, c.Terms.Validate())
	if c.Keys.Payer == "" {
		errs = errors.AppendField(errs, "Keys.Payer", errors.ErrEmpty)
	}
	if c.Keys.Initializer == "" {
		errs = errors.AppendField(errs, "Keys.Initializer", errors.ErrEmpty)
	}
	if c.Keys.Taker == "" {
		errs = errors.AppendField(errs, "Keys.Taker", errors.ErrEmpty)
	}
	return errs
}

// Key reads the key file of a party.
func (c Config) Key(file string) (solana.PrivateKey, error) {
	if !filepath.IsAbs(file) {
		file = filepath.Join(c.dir, file)
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(file)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "key %s: %s", file, err)
	}
	return key, nil
}

// WithDir sets the directory relative key paths are resolved against.
func (c Config) WithDir(dir string) Config {
	c.dir = dir
	return c
}
