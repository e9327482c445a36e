package swaptest

import (
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/runtime"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/store/leveldb"
	"github.com/iov-one/swap/x/escrow"
	"github.com/iov-one/swap/x/system"
	"github.com/iov-one/swap/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

// FundAmount is the balance of every account funded by Ledger.
const FundAmount uint64 = 10 * 1000000000

// ChainID is used by all test ledgers.
const ChainID = "swap-test"

// Ledger returns an initialized in memory ledger with the system, token and
// escrow programs registered. Every given address is funded with
// FundAmount lamports.
func Ledger(t testing.TB, funded ...solana.PublicKey) *runtime.Ledger {
	t.Helper()
	return initLedger(t, store.MemStore(), funded)
}

// PersistentLedger works like Ledger, but the state is kept in a leveldb
// database inside of a temporary directory.
func PersistentLedger(t testing.TB, funded ...solana.PublicKey) *runtime.Ledger {
	t.Helper()
	db, err := leveldb.Open(t.TempDir())
	if err != nil {
		t.Fatalf("cannot open leveldb: %s", err)
	}
	t.Cleanup(func() { db.Close() })
	return initLedger(t, db, funded)
}

func initLedger(t testing.TB, db swap.CacheableKVStore, funded []solana.PublicKey) *runtime.Ledger {
	t.Helper()
	l := runtime.New(db).WithLogger(log.TestingLogger()).WithDebug(true)
	RegisterPrograms(l)

	var accounts []runtime.GenesisAccount
	for _, addr := range funded {
		accounts = append(accounts, runtime.GenesisAccount{
			Address:  addr.String(),
			Lamports: FundAmount,
		})
	}
	raw, err := json.Marshal(accounts)
	if err != nil {
		t.Fatalf("cannot serialize genesis accounts: %s", err)
	}
	gen := &runtime.Genesis{
		ChainID:    ChainID,
		AppOptions: swap.Options{"accounts": raw},
	}
	if err := l.InitChain(gen, runtime.AccountsInitializer{}); err != nil {
		t.Fatalf("cannot initialize ledger: %+v", err)
	}
	return l
}

// RegisterPrograms registers all programs of this repository with their
// default addresses.
func RegisterPrograms(r swap.Registry) {
	system.RegisterProgram(r)
	token.RegisterProgram(r)
	escrow.RegisterProgram(r, escrow.DefaultProgramID)
}
