package runtime

import (
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// SysvarOwnerID owns all sysvar accounts.
var SysvarOwnerID = solana.MustPublicKeyFromBase58("Sysvar1111111111111111111111111111111111111")

// Ledger is an in process ledger. It is safe for concurrent use;
// transactions are executed one at a time.
type Ledger struct {
	mu sync.Mutex

	logger  log.Logger
	metrics *Metrics
	debug   bool

	store    swap.CacheableKVStore
	rent     swap.Rent
	programs map[solana.PublicKey]swap.Program
}

var _ swap.Registry = (*Ledger)(nil)

// New returns a ledger working on the given store. Register all programs
// before executing the first transaction.
func New(store swap.CacheableKVStore) *Ledger {
	return &Ledger{
		logger:   log.NewNopLogger(),
		store:    store,
		rent:     swap.DefaultRent,
		programs: make(map[solana.PublicKey]swap.Program),
	}
}

// WithLogger sets the logger on the ledger and returns it, to make it easy
// to chain in initialization.
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.logger = logger
	return l
}

// WithMetrics enables instrumentation of executed transactions.
func (l *Ledger) WithMetrics(m *Metrics) *Ledger {
	l.metrics = m
	return l
}

// WithRent overrides the default rent parameters.
func (l *Ledger) WithRent(r swap.Rent) *Ledger {
	l.rent = r
	return l
}

// WithDebug makes returned errors carry their full description. Otherwise
// internal errors are redacted.
func (l *Ledger) WithDebug(debug bool) *Ledger {
	l.debug = debug
	return l
}

// Logger returns the ledger base logger.
func (l *Ledger) Logger() log.Logger {
	return l.logger
}

// Register implements swap.Registry. It panics if an address is registered
// twice.
func (l *Ledger) Register(programID solana.PublicKey, p swap.Program) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.programs[programID]; ok {
		panic("program already registered: " + programID.String())
	}
	l.programs[programID] = p
}

// Rent returns the rent parameters of the ledger.
func (l *Ledger) Rent() swap.Rent {
	return l.rent
}

// GetAccount returns the committed account stored under the address. It
// returns nil if the account does not exist.
func (l *Ledger) GetAccount(addr solana.PublicKey) (*swap.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if acc, ok := l.builtin(addr); ok {
		return acc, nil
	}
	acc, err := swap.LoadAccount(l.store, addr)
	if err != nil {
		return nil, err
	}
	if acc.IsZero() {
		return nil, nil
	}
	return acc, nil
}

// LatestBlockhash returns the most recent blockhash and the slot it was
// produced in.
func (l *Ledger) LatestBlockhash() (solana.Hash, uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, err := loadHistory(l.store)
	if err != nil {
		return solana.Hash{}, 0, err
	}
	if !h.Initialized {
		return solana.Hash{}, 0, errors.Wrap(errors.ErrState, "ledger not initialized")
	}
	return h.Blockhash, h.Slot, nil
}

// SignatureStatus returns the slot in which the transaction with the given
// signature was processed. Only successful transactions are recorded.
func (l *Ledger) SignatureStatus(sig solana.Signature) (uint64, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return loadSignature(l.store, sig)
}

// builtin returns the accounts that are not kept in the store: the rent
// sysvar and registered programs.
func (l *Ledger) builtin(addr solana.PublicKey) (*swap.Account, bool) {
	if addr.Equals(solana.SysVarRentPubkey) {
		data, err := l.rent.Marshal()
		if err != nil {
			// Rent has a fixed size encoding.
			panic(err)
		}
		return &swap.Account{
			Lamports: l.rent.MinimumBalance(len(data)),
			Owner:    SysvarOwnerID,
			Data:     data,
		}, true
	}
	if _, ok := l.programs[addr]; ok {
		return &swap.Account{
			Lamports:   1,
			Owner:      swap.NativeLoaderID,
			Executable: true,
		}, true
	}
	return nil, false
}
