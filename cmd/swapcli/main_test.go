package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/client"
	"github.com/iov-one/swap/swaptest"
)

// workspace returns the flags selecting a fresh configuration and ledger
// with key files for all parties.
func workspace(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	conf := client.DefaultConfig()
	for _, name := range []string{conf.Keys.Payer, conf.Keys.Initializer, conf.Keys.Taker} {
		key := swaptest.NewKey()
		raw := make([]int, len(key))
		for i, b := range key {
			raw[i] = int(b)
		}
		content, err := json.Marshal(raw)
		if err != nil {
			t.Fatalf("cannot serialize key: %s", err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), content, 0600); err != nil {
			t.Fatalf("cannot write key: %s", err)
		}
	}
	return []string{
		"-config", filepath.Join(dir, "swap.toml"),
		"-home", filepath.Join(dir, "home"),
		"-log-level", "error",
	}
}

func TestSwap(t *testing.T) {
	flags := workspace(t)
	var out bytes.Buffer

	steps := []struct {
		name string
		cmd  func([]string) error
		want string
	}{
		{"init", func(a []string) error { return cmdInit(nil, &out, a) }, "swap-local"},
		{"setup", func(a []string) error { return cmdSetup(nil, &out, a) }, "MintX"},
		{"init-escrow", func(a []string) error { return cmdInitEscrow(nil, &out, a) }, "escrow\t"},
		{"verify", func(a []string) error { return cmdVerify(nil, &out, a) }, "ok"},
		{"exchange", func(a []string) error { return cmdExchange(nil, &out, a) }, "signature\t"},
		{"show", func(a []string) error { return cmdShow(nil, &out, a) }, "Initializer Y"},
	}
	for _, s := range steps {
		out.Reset()
		if err := s.cmd(flags); err != nil {
			t.Fatalf("%s: %s", s.name, err)
		}
		if !strings.Contains(out.String(), s.want) {
			t.Fatalf("%s: want %q in output, got %q", s.name, s.want, out.String())
		}
	}

	// The escrow is closed, so it cannot be exchanged again.
	if err := cmdExchange(nil, &out, flags); err == nil {
		t.Fatal("second exchange must fail")
	}

	conf, err := client.LoadConfig(flags[1])
	if err != nil {
		t.Fatalf("cannot load configuration: %s", err)
	}
	if conf.Accounts.Escrow.IsZero() || conf.Accounts.TakerX.IsZero() {
		t.Fatalf("accounts not saved: %+v", conf.Accounts)
	}
}

func TestExchangeWithoutInitializerKey(t *testing.T) {
	flags := workspace(t)
	var out bytes.Buffer
	if err := cmdInit(nil, &out, flags); err != nil {
		t.Fatalf("init: %s", err)
	}
	if err := cmdSetup(nil, &out, flags); err != nil {
		t.Fatalf("setup: %s", err)
	}
	if err := cmdInitEscrow(nil, &out, flags); err != nil {
		t.Fatalf("init-escrow: %s", err)
	}

	// The taker runs the rest and never sees the initializer secret.
	dir := filepath.Dir(flags[1])
	if err := os.Remove(filepath.Join(dir, client.DefaultConfig().Keys.Initializer)); err != nil {
		t.Fatalf("cannot remove initializer key: %s", err)
	}
	steps := []struct {
		name string
		cmd  func(io.Reader, io.Writer, []string) error
		want string
	}{
		{"verify", cmdVerify, "ok"},
		{"exchange", cmdExchange, "signature\t"},
	}
	for _, s := range steps {
		out.Reset()
		if err := s.cmd(nil, &out, flags); err != nil {
			t.Fatalf("%s: %s", s.name, err)
		}
		if !strings.Contains(out.String(), s.want) {
			t.Fatalf("%s: want %q in output, got %q", s.name, s.want, out.String())
		}
	}
}

func TestExchangeRequiresEscrow(t *testing.T) {
	flags := workspace(t)
	var out bytes.Buffer
	if err := cmdInit(nil, &out, flags); err != nil {
		t.Fatalf("init: %s", err)
	}
	err := cmdExchange(nil, &out, flags)
	if err == nil || !strings.Contains(err.Error(), "run init-escrow first") {
		t.Fatalf("want init-escrow error, got %v", err)
	}
}

func TestMetricsDump(t *testing.T) {
	flags := workspace(t)
	var out bytes.Buffer
	if err := cmdInit(nil, &out, flags); err != nil {
		t.Fatalf("init: %s", err)
	}
	dest := filepath.Join(filepath.Dir(flags[1]), "metrics.txt")
	if err := cmdSetup(nil, &out, append(flags, "-metrics", dest)); err != nil {
		t.Fatalf("setup: %s", err)
	}
	raw, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("cannot read metrics: %s", err)
	}
	for _, want := range []string{
		`swap_ledger_transactions_total{code="ok"}`,
		"swap_ledger_instructions_total",
		"swap_ledger_transaction_duration_seconds_count",
	} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("want %q in metrics, got %q", want, raw)
		}
	}
}

func TestCommandsRequireInit(t *testing.T) {
	flags := workspace(t)
	if err := client.DefaultConfig().Save(flags[1]); err != nil {
		t.Fatalf("cannot write configuration: %s", err)
	}
	var out bytes.Buffer
	err := cmdSetup(nil, &out, flags)
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("want not initialized error, got %v", err)
	}
}

func TestInitTwice(t *testing.T) {
	flags := workspace(t)
	var out bytes.Buffer
	if err := cmdInit(nil, &out, flags); err != nil {
		t.Fatalf("init: %s", err)
	}
	if err := cmdInit(nil, &out, flags); err == nil {
		t.Fatal("second init must fail")
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	if err := cmdVersion(nil, &out, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != swap.Version() {
		t.Fatalf("want %q, got %q", swap.Version(), got)
	}
}
