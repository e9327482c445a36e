package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/client"
	"github.com/iov-one/swap/runtime"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a new local ledger.

If the configuration file does not exist, a default one is written. The key
files it references must be created beforehand, for example with
solana-keygen. Unless a genesis file is given, the payer is the only funded
account of the new ledger.
`)
		fl.PrintDefaults()
	}
	var (
		common    = registerCommonFlags(fl)
		chainIDFl = fl.String("chain-id", "swap-local", "Chain ID of the new ledger.")
		fundFl    = fl.Uint64("lamports", 100*1000000000, "Balance of the payer.")
		genesisFl = fl.String("genesis", "", "Path to a genesis file to use instead of funding the payer.")
	)
	fl.Parse(args)

	logger, err := common.logger()
	if err != nil {
		return err
	}

	if _, err := os.Stat(*common.config); os.IsNotExist(err) {
		if err := client.DefaultConfig().Save(*common.config); err != nil {
			return fmt.Errorf("cannot write configuration: %s", err)
		}
		logger.Info("Configuration written", "path", *common.config)
	}
	conf, err := client.LoadConfig(*common.config)
	if err != nil {
		return fmt.Errorf("cannot load configuration: %s", err)
	}
	if conf.RPC != "" {
		return errors.New("configuration points to a cluster, there is no local ledger to initialize")
	}

	var gen *runtime.Genesis
	if *genesisFl != "" {
		if gen, err = runtime.LoadGenesis(*genesisFl); err != nil {
			return fmt.Errorf("cannot load genesis: %s", err)
		}
	} else {
		payer, err := conf.Key(conf.Keys.Payer)
		if err != nil {
			return fmt.Errorf("cannot load payer key: %s", err)
		}
		raw, err := json.Marshal([]runtime.GenesisAccount{
			{Address: payer.PublicKey().String(), Lamports: *fundFl},
		})
		if err != nil {
			return fmt.Errorf("cannot serialize genesis: %s", err)
		}
		gen = &runtime.Genesis{
			ChainID:    *chainIDFl,
			AppOptions: swap.Options{"accounts": raw},
		}
	}

	l, db, err := openLedger(*common.home, conf, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := l.InitChain(gen, runtime.AccountsInitializer{}); err != nil {
		return fmt.Errorf("cannot initialize ledger: %s", err)
	}
	hash, _, err := l.LatestBlockhash()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s\t%s\n", gen.ChainID, hash)
	return err
}
