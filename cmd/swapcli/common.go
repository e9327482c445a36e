package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/client"
	"github.com/iov-one/swap/runtime"
	"github.com/iov-one/swap/store/leveldb"
	"github.com/iov-one/swap/x/escrow"
	"github.com/iov-one/swap/x/system"
	"github.com/iov-one/swap/x/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/tendermint/tendermint/libs/log"
)

// commonFlags are accepted by every command that talks to a ledger.
type commonFlags struct {
	config   *string
	home     *string
	logLevel *string
	metrics  *string
}

func registerCommonFlags(fl *flag.FlagSet) commonFlags {
	return commonFlags{
		config: fl.String("config", env("SWAPCLI_CONFIG", "swap.toml"),
			"Path to the swap configuration file. You can use SWAPCLI_CONFIG environment variable to set it."),
		home: fl.String("home", env("SWAPCLI_HOME", filepath.Join(os.Getenv("HOME"), ".swap")),
			"Directory of the local ledger. Ignored when the configuration points to a cluster. You can use SWAPCLI_HOME environment variable to set it."),
		logLevel: fl.String("log-level", env("SWAPCLI_LOG_LEVEL", "info"),
			"Logging level: debug, info, error or none."),
		metrics: fl.String("metrics", env("SWAPCLI_METRICS", ""),
			"Write the local ledger metrics in Prometheus text format to this file once the command is done. Use - for stderr. You can use SWAPCLI_METRICS environment variable to set it."),
	}
}

func (f commonFlags) logger() (log.Logger, error) {
	opt, err := log.AllowLevel(*f.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", err)
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), opt), nil
}

// session is everything a command needs to run a part of the swap.
type session struct {
	ctx  context.Context
	conf client.Config
	conn client.Conn
	// close releases the local ledger, if one was opened.
	close func() error
}

// open loads the configuration and connects to the ledger it describes.
func (f commonFlags) open() (*session, error) {
	logger, err := f.logger()
	if err != nil {
		return nil, err
	}
	conf, err := client.LoadConfig(*f.config)
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %s", err)
	}
	s := &session{
		ctx:   swap.WithLogger(context.Background(), logger),
		conf:  conf,
		close: func() error { return nil },
	}
	if conf.RPC != "" {
		s.conn = client.NewRPCConn(conf.RPC)
		return s, nil
	}

	l, db, err := openLedger(*f.home, conf, logger)
	if err != nil {
		return nil, err
	}
	ok, err := l.Initialized()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot read ledger: %s", err)
	}
	if !ok {
		db.Close()
		return nil, fmt.Errorf("ledger in %s is not initialized, run init first", *f.home)
	}
	s.conn = client.NewLocalConn(l)
	s.close = db.Close
	if *f.metrics != "" {
		reg := prometheus.NewRegistry()
		l.WithMetrics(runtime.NewMetrics(reg))
		dest := *f.metrics
		s.close = func() error {
			if err := dumpMetrics(reg, dest); err != nil {
				db.Close()
				return err
			}
			return db.Close()
		}
	}
	return s, nil
}

// dumpMetrics writes all metrics gathered by reg to the file at dest, or to
// stderr when dest is "-".
func dumpMetrics(reg prometheus.Gatherer, dest string) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("cannot gather metrics: %s", err)
	}
	var w io.Writer = os.Stderr
	if dest != "-" {
		fd, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("cannot create metrics file: %s", err)
		}
		defer fd.Close()
		w = fd
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("cannot write metrics: %s", err)
		}
	}
	return nil
}

// openLedger opens the local ledger kept in home and registers all
// programs.
func openLedger(home string, conf client.Config, logger log.Logger) (*runtime.Ledger, *leveldb.Store, error) {
	if err := os.MkdirAll(home, 0700); err != nil {
		return nil, nil, fmt.Errorf("cannot create home directory: %s", err)
	}
	db, err := leveldb.Open(filepath.Join(home, "data"))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open ledger: %s", err)
	}
	l := runtime.New(db).WithLogger(logger.With("module", "ledger"))
	system.RegisterProgram(l)
	token.RegisterProgram(l)
	escrow.RegisterProgram(l, conf.ProgramID)
	return l, db, nil
}
