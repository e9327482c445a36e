package client

import (
	"context"

	"github.com/gagliardetto/solana-go"
	systemprog "github.com/gagliardetto/solana-go/programs/system"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/token"
)

// DefaultStartAmount is the number of tokens minted for each party by Setup.
const DefaultStartAmount = 50

// SetupParams configures Setup.
type SetupParams struct {
	// Payer pays for all created accounts and is the mint authority of
	// both mints.
	Payer       solana.PrivateKey
	Initializer solana.PublicKey
	Taker       solana.PublicKey
	// StartAmount is minted to the initializer in mint X and to the
	// taker in mint Y. Zero means DefaultStartAmount.
	StartAmount uint64
	// Lamports if set is transferred from the payer to both parties so
	// that they can pay for the accounts of the swap.
	Lamports uint64
}

// Setup creates mints X and Y with a token account for each party and mints
// the start amount of X to the initializer and of Y to the taker.
func Setup(ctx context.Context, conn Conn, p SetupParams) (*Accounts, error) {
	if p.StartAmount == 0 {
		p.StartAmount = DefaultStartAmount
	}
	log := swap.GetLogger(ctx).With("call", "setup")

	if p.Lamports > 0 {
		var b batch
		b.add(systemprog.NewTransferInstruction(p.Lamports, p.Payer.PublicKey(), p.Initializer).ValidateAndBuild())
		b.add(systemprog.NewTransferInstruction(p.Lamports, p.Payer.PublicKey(), p.Taker).ValidateAndBuild())
		if _, err := b.send(ctx, conn, p.Payer); err != nil {
			return nil, errors.Wrap(err, "fund parties")
		}
		log.Info("Parties funded", "lamports", p.Lamports)
	}

	var accounts Accounts
	x, err := setupMint(ctx, conn, p.Payer, p.Initializer, p.Taker, p.Initializer, p.StartAmount)
	if err != nil {
		return nil, errors.Wrap(err, "mint X")
	}
	accounts.MintX, accounts.InitializerX, accounts.TakerX = x.mint, x.initializer, x.taker
	log.Info("Mint X created", "mint", x.mint.String())

	y, err := setupMint(ctx, conn, p.Payer, p.Initializer, p.Taker, p.Taker, p.StartAmount)
	if err != nil {
		return nil, errors.Wrap(err, "mint Y")
	}
	accounts.MintY, accounts.InitializerY, accounts.TakerY = y.mint, y.initializer, y.taker
	log.Info("Mint Y created", "mint", y.mint.String())
	return &accounts, nil
}

type mintAccounts struct {
	mint        solana.PublicKey
	initializer solana.PublicKey
	taker       solana.PublicKey
}

// setupMint creates a mint and token accounts for both parties in a single
// transaction. The tokens are minted to the account owned by holder.
func setupMint(ctx context.Context, conn Conn, payer solana.PrivateKey, initializer, taker, holder solana.PublicKey, amount uint64) (*mintAccounts, error) {
	mintRent, err := conn.GetMinimumBalanceForRentExemption(ctx, token.MintSize)
	if err != nil {
		return nil, err
	}
	accountRent, err := conn.GetMinimumBalanceForRentExemption(ctx, token.AccountSize)
	if err != nil {
		return nil, err
	}

	mint, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	initializerAcc, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	takerAcc, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}

	res := &mintAccounts{
		mint:        mint.PublicKey(),
		initializer: initializerAcc.PublicKey(),
		taker:       takerAcc.PublicKey(),
	}
	dst := res.initializer
	if holder.Equals(taker) {
		dst = res.taker
	}
	var b batch
	b.add(systemprog.NewCreateAccountInstruction(mintRent, token.MintSize, solana.TokenProgramID, payer.PublicKey(), res.mint).ValidateAndBuild())
	b.add(tokenprog.NewInitializeMintInstructionBuilder().
		SetDecimals(0).
		SetMintAuthority(payer.PublicKey()).
		SetMintAccount(res.mint).
		ValidateAndBuild())
	for _, acc := range []struct{ key, owner solana.PublicKey }{
		{res.initializer, initializer},
		{res.taker, taker},
	} {
		b.add(systemprog.NewCreateAccountInstruction(accountRent, token.AccountSize, solana.TokenProgramID, payer.PublicKey(), acc.key).ValidateAndBuild())
		b.add(tokenprog.NewInitializeAccountInstruction(acc.key, res.mint, acc.owner, solana.SysVarRentPubkey).ValidateAndBuild())
	}
	b.add(tokenprog.NewMintToInstruction(amount, res.mint, dst, payer.PublicKey(), nil).ValidateAndBuild())
	if _, err := b.send(ctx, conn, payer, mint, initializerAcc, takerAcc); err != nil {
		return nil, err
	}
	return res, nil
}
