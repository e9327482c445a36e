package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/client"
)

func cmdInitEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Offer the initializer X tokens for Y tokens.

The offered tokens are moved into a temporary account controlled by the
escrow program and the deal terms are recorded in a new escrow account. Both
addresses are written back to the configuration file and printed.
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	fl.Parse(args)

	s, err := common.open()
	if err != nil {
		return err
	}
	defer s.close()

	a := s.conf.Accounts
	if a.MintX.IsZero() || a.InitializerX.IsZero() || a.InitializerY.IsZero() {
		return errors.New("token accounts are not configured, run setup first")
	}
	initializer, err := s.conf.Key(s.conf.Keys.Initializer)
	if err != nil {
		return err
	}

	res, err := client.InitEscrow(s.ctx, s.conn, client.InitEscrowParams{
		ProgramID:   s.conf.ProgramID,
		Initializer: initializer,
		Mint:        a.MintX,
		Sending:     a.InitializerX,
		Receiving:   a.InitializerY,
		Terms:       s.conf.Terms,
	})
	if err != nil {
		return fmt.Errorf("cannot initialize escrow: %s", err)
	}
	if err := client.VerifyInitializedEscrow(s.ctx, s.conn, s.conf.ProgramID, res, initializer.PublicKey(), a.InitializerY, s.conf.Terms); err != nil {
		return fmt.Errorf("escrow verification failed: %s", err)
	}

	s.conf.Accounts.Escrow = res.Escrow
	s.conf.Accounts.Temp = res.Temp
	s.conf.Accounts.Initializer = initializer.PublicKey()
	if err := s.conf.Save(*common.config); err != nil {
		return fmt.Errorf("cannot save configuration: %s", err)
	}
	_, err = fmt.Fprintf(output, "escrow\t%s\ntemp\t%s\nsignature\t%s\n", res.Escrow, res.Temp, res.Signature)
	return err
}

func cmdExchange(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Take the offer recorded in the configured escrow.

The escrow is checked against the configured terms and initializer before
the taker Y tokens are sent. Balances of both receiving accounts are verified
after the exchange.
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	fl.Parse(args)

	s, err := common.open()
	if err != nil {
		return err
	}
	defer s.close()

	a := s.conf.Accounts
	if a.Escrow.IsZero() || a.Initializer.IsZero() {
		return errors.New("escrow is not configured, run init-escrow first")
	}
	taker, err := s.conf.Key(s.conf.Keys.Taker)
	if err != nil {
		return err
	}

	start, err := client.ReceivingBalances(s.ctx, s.conn, a.InitializerY, a.TakerX)
	if err != nil {
		return fmt.Errorf("cannot read balances: %s", err)
	}
	sig, err := client.Exchange(s.ctx, s.conn, client.ExchangeParams{
		ProgramID:            s.conf.ProgramID,
		Taker:                taker,
		Sending:              a.TakerY,
		Receiving:            a.TakerX,
		Escrow:               a.Escrow,
		Initializer:          a.Initializer,
		InitializerReceiving: a.InitializerY,
		Terms:                s.conf.Terms,
	})
	if err != nil {
		return fmt.Errorf("cannot exchange: %s", err)
	}
	init := &client.InitEscrowResult{Escrow: a.Escrow, Temp: a.Temp}
	if err := client.VerifyExchange(s.ctx, s.conn, init, a.InitializerY, a.TakerX, start, s.conf.Terms); err != nil {
		return fmt.Errorf("exchange verification failed: %s", err)
	}
	_, err = fmt.Fprintf(output, "signature\t%s\n", sig)
	return err
}

func cmdVerify(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Verify that the configured escrow records the configured deal and that its
temporary account holds the offered tokens.
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	fl.Parse(args)

	s, err := common.open()
	if err != nil {
		return err
	}
	defer s.close()

	a := s.conf.Accounts
	if a.Escrow.IsZero() || a.Initializer.IsZero() {
		return errors.New("escrow is not configured, run init-escrow first")
	}
	init := &client.InitEscrowResult{Escrow: a.Escrow, Temp: a.Temp}
	if err := client.VerifyInitializedEscrow(s.ctx, s.conn, s.conf.ProgramID, init, a.Initializer, a.InitializerY, s.conf.Terms); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, "ok")
	return err
}

// partyKeys returns the public keys of all parties that have a key file.
func partyKeys(conf client.Config) map[string]solana.PublicKey {
	keys := make(map[string]solana.PublicKey)
	for name, file := range map[string]string{
		"Payer":       conf.Keys.Payer,
		"Initializer": conf.Keys.Initializer,
		"Taker":       conf.Keys.Taker,
	} {
		if key, err := conf.Key(file); err == nil {
			keys[name] = key.PublicKey()
		}
	}
	return keys
}
