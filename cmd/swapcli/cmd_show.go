package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/client"
)

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Log the token amount of every configured token account and print the labels
of all known addresses as a JSON object.
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

	labels := client.NewLabels().LabelAccounts(s.conf.Accounts)
	for name, key := range partyKeys(s.conf) {
		labels.Add(key, name)
	}
	logger := swap.GetLogger(s.ctx)
	labels.Log(logger)

	a := s.conf.Accounts
	var tokens []solana.PublicKey
	for _, addr := range []solana.PublicKey{a.InitializerX, a.InitializerY, a.TakerX, a.TakerY, a.Temp} {
		if !addr.IsZero() {
			tokens = append(tokens, addr)
		}
	}
	if err := client.LogTokenAmounts(s.ctx, s.conn, logger, labels, tokens...); err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(labels, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}
