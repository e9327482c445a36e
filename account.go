package swap

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
)

// NativeLoaderID owns all programs built into the runtime.
var NativeLoaderID = solana.MustPublicKeyFromBase58("NativeLoader1111111111111111111111111111111")

// accountPrefix namespaces account records in the key value store.
const accountPrefix = "acct:"

// AccountKey returns the store key under which the account with the given
// address is persisted.
func AccountKey(addr solana.PublicKey) []byte {
	return append([]byte(accountPrefix), addr[:]...)
}

// AccountAddress is the reverse of AccountKey.
func AccountAddress(key []byte) (solana.PublicKey, error) {
	if !bytes.HasPrefix(key, []byte(accountPrefix)) || len(key) != len(accountPrefix)+len(solana.PublicKey{}) {
		return solana.PublicKey{}, errors.Wrapf(errors.ErrInput, "not an account key: %q", key)
	}
	return solana.PublicKeyFromBytes(key[len(accountPrefix):]), nil
}

// Account is the state stored under an address. An account with no lamports
// does not exist.
type Account struct {
	Lamports   uint64
	Owner      solana.PublicKey
	Executable bool
	Data       []byte
}

// Marshal serializes the account for the store.
func (a *Account) Marshal() ([]byte, error) {
	raw, err := bin.MarshalBorsh(*a)
	if err != nil {
		return nil, errors.Wrap(errors.ErrAccountData, err.Error())
	}
	return raw, nil
}

// Unmarshal loads the account from its store representation.
func (a *Account) Unmarshal(raw []byte) error {
	if err := bin.UnmarshalBorsh(a, raw); err != nil {
		return errors.Wrap(errors.ErrAccountData, err.Error())
	}
	return nil
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// IsZero returns true if the account does not exist on the ledger.
func (a *Account) IsZero() bool {
	return a == nil || (a.Lamports == 0 && len(a.Data) == 0 && !a.Executable)
}

// LoadAccount reads the account stored under the given address. Missing
// accounts are returned as empty accounts owned by the system program.
func LoadAccount(db ReadOnlyKVStore, addr solana.PublicKey) (*Account, error) {
	raw, err := db.Get(AccountKey(addr))
	if err != nil {
		return nil, errors.Wrap(err, "load account")
	}
	if raw == nil {
		return &Account{Owner: solana.SystemProgramID}, nil
	}
	var a Account
	if err := a.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &a, nil
}

// StoreAccount persists the account under the given address. An account
// without lamports is deleted.
func StoreAccount(db SetDeleter, addr solana.PublicKey, a *Account) error {
	if a.Lamports == 0 {
		return db.Delete(AccountKey(addr))
	}
	raw, err := a.Marshal()
	if err != nil {
		return errors.Wrapf(err, "account %s", addr)
	}
	return db.Set(AccountKey(addr), raw)
}

// AccountInfo is the view of an account given to a program while it processes
// an instruction. All AccountInfo instances for the same address within a
// transaction share the same Account.
type AccountInfo struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
	*Account
}

// RequireAccounts returns an error if fewer than n accounts were provided.
func RequireAccounts(accounts []*AccountInfo, n int) error {
	if len(accounts) < n {
		return errors.Wrapf(errors.ErrNotEnoughAccounts, "want %d, got %d", n, len(accounts))
	}
	return nil
}

// RequireSigner returns an error unless the account signed the instruction.
func RequireSigner(a *AccountInfo) error {
	if !a.IsSigner {
		return errors.Wrapf(errors.ErrUnauthorized, "%s must sign", a.Key)
	}
	return nil
}

// RequireWritable returns an error unless the account was passed as
// writable.
func RequireWritable(a *AccountInfo) error {
	if !a.IsWritable {
		return errors.Wrapf(errors.ErrReadonly, "%s", a.Key)
	}
	return nil
}
