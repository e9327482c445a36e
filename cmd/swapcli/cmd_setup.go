package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/swap/client"
)

func cmdSetup(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create mints X and Y, a token account of each mint for both parties and mint
the start amount of X to the initializer and of Y to the taker.

All accounts are paid by the payer. Created addresses are written back to the
configuration file and printed.
`)
		fl.PrintDefaults()
	}
	var (
		common   = registerCommonFlags(fl)
		amountFl = fl.Uint64("amount", client.DefaultStartAmount, "Number of tokens minted to each party.")
		fundFl   = fl.Uint64("lamports", 1000000000, "Lamports transferred from the payer to each party.")
	)
	fl.Parse(args)

	s, err := common.open()
	if err != nil {
		return err
	}
	defer s.close()

	payer, err := s.conf.Key(s.conf.Keys.Payer)
	if err != nil {
		return err
	}
	initializer, err := s.conf.Key(s.conf.Keys.Initializer)
	if err != nil {
		return err
	}
	taker, err := s.conf.Key(s.conf.Keys.Taker)
	if err != nil {
		return err
	}

	accounts, err := client.Setup(s.ctx, s.conn, client.SetupParams{
		Payer:       payer,
		Initializer: initializer.PublicKey(),
		Taker:       taker.PublicKey(),
		StartAmount: *amountFl,
		Lamports:    *fundFl,
	})
	if err != nil {
		return fmt.Errorf("cannot set up accounts: %s", err)
	}
	s.conf.Accounts = *accounts
	if err := s.conf.Save(*common.config); err != nil {
		return fmt.Errorf("cannot save configuration: %s", err)
	}

	pretty, err := json.MarshalIndent(accounts, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}
