package runtime

import (
	"encoding/json"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// Genesis is the content of a genesis file.
type Genesis struct {
	ChainID    string       `json:"chain_id"`
	AppOptions swap.Options `json:"app_options"`
}

// LoadGenesis reads a genesis file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "loading genesis file")
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &gen, nil
}

// InitChain loads the genesis state into an empty ledger. Every initializer
// is given the application options and writes directly to the store.
func (l *Ledger) InitChain(gen *Genesis, inits ...swap.Initializer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cache := l.store.CacheWrap()
	h, err := loadHistory(cache)
	if err != nil {
		cache.Discard()
		return err
	}
	if err := h.genesis(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := ChainInitializers(inits...).FromGenesis(gen.AppOptions, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write cache")
	}
	if c, ok := l.store.(swap.Committer); ok {
		if _, err := c.Commit(); err != nil {
			return errors.Wrap(err, "commit")
		}
	}
	l.logger.Info("Ledger initialized", "chain_id", gen.ChainID, "blockhash", h.Blockhash.String())
	return nil
}

// Initialized returns true once InitChain succeeded on the underlying store.
func (l *Ledger) Initialized() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, err := loadHistory(l.store)
	if err != nil {
		return false, err
	}
	return h.Initialized, nil
}

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...swap.Initializer) swap.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []swap.Initializer
}

// FromGenesis will pass opts to all Initializers in the list, aborting at
// the first error.
func (c chainInitializer) FromGenesis(opts swap.Options, kv swap.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

// GenesisAccount is an account created at genesis. Owner defaults to the
// system program.
type GenesisAccount struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
	Owner    string `json:"owner,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// AccountsInitializer creates the accounts listed under the "accounts"
// genesis option.
type AccountsInitializer struct{}

var _ swap.Initializer = AccountsInitializer{}

// FromGenesis implements swap.Initializer.
func (AccountsInitializer) FromGenesis(opts swap.Options, kv swap.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for i, ga := range accounts {
		addr, err := solana.PublicKeyFromBase58(ga.Address)
		if err != nil {
			return errors.Field("address", errors.ErrInput, "account %d: %s", i, err)
		}
		owner := solana.SystemProgramID
		if ga.Owner != "" {
			if owner, err = solana.PublicKeyFromBase58(ga.Owner); err != nil {
				return errors.Field("owner", errors.ErrInput, "account %d: %s", i, err)
			}
		}
		if ga.Lamports == 0 {
			return errors.Field("lamports", errors.ErrEmpty, "account %d", i)
		}
		exists, err := kv.Has(swap.AccountKey(addr))
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
		}
		acc := &swap.Account{Lamports: ga.Lamports, Owner: owner, Data: ga.Data}
		if err := swap.StoreAccount(kv, addr, acc); err != nil {
			return err
		}
	}
	return nil
}
