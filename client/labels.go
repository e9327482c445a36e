package client

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Labels maps addresses to human readable names for diagnostic output.
type Labels struct {
	mu    sync.Mutex
	names map[solana.PublicKey]string
}

// NewLabels returns an empty set of labels.
func NewLabels() *Labels {
	return &Labels{names: make(map[solana.PublicKey]string)}
}

// Add names the address. It returns the labels to allow chaining.
func (l *Labels) Add(addr solana.PublicKey, name string) *Labels {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names[addr] = name
	return l
}

// Label returns the name of the address followed by the first characters of
// the address, or the address alone if it was not labeled.
func (l *Labels) Label(addr solana.PublicKey) string {
	l.mu.Lock()
	name, ok := l.names[addr]
	l.mu.Unlock()
	s := addr.String()
	if !ok {
		return s
	}
	return name + " (" + s[:8] + ")"
}

// Reset removes all labels.
func (l *Labels) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = make(map[solana.PublicKey]string)
}

// Log writes all labels sorted by name.
func (l *Labels) Log(logger log.Logger) {
	for _, e := range l.entries() {
		logger.Debug("Label", "name", e.name, "address", e.addr)
	}
}

// MarshalJSON returns an object with addresses as keys and labels as
// values.
func (l *Labels) MarshalJSON() ([]byte, error) {
	m := make(map[string]string)
	for _, e := range l.entries() {
		m[e.addr] = e.name
	}
	return json.Marshal(m)
}

type labelEntry struct {
	name string
	addr string
}

func (l *Labels) entries() []labelEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := make([]labelEntry, 0, len(l.names))
	for addr, name := range l.names {
		res = append(res, labelEntry{name: name, addr: addr.String()})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].name < res[j].name })
	return res
}

// LogTokenAmounts logs the balance of every given token account. Closed
// accounts are reported as such.
func LogTokenAmounts(ctx context.Context, conn Conn, logger log.Logger, labels *Labels, addrs ...solana.PublicKey) error {
	for _, addr := range addrs {
		amount, err := TokenBalance(ctx, conn, addr)
		switch {
		case errors.ErrNotFound.Is(err):
			logger.Info("Token account closed", "account", labels.Label(addr))
		case err != nil:
			return errors.Wrapf(err, "account %s", labels.Label(addr))
		default:
			logger.Info("Token amount", "account", labels.Label(addr), "amount", amount)
		}
	}
	return nil
}

// LabelAccounts names all known accounts of a swap.
func (l *Labels) LabelAccounts(a Accounts) *Labels {
	for _, e := range []struct {
		addr solana.PublicKey
		name string
	}{
		{a.MintX, "Mint X"},
		{a.MintY, "Mint Y"},
		{a.InitializerX, "Initializer X"},
		{a.InitializerY, "Initializer Y"},
		{a.TakerX, "Taker X"},
		{a.TakerY, "Taker Y"},
		{a.Escrow, "Escrow"},
		{a.Temp, "Temp X"},
		{a.Initializer, "Initializer"},
	} {
		if !e.addr.IsZero() {
			l.Add(e.addr, e.name)
		}
	}
	return l
}
