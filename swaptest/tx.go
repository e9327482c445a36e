package swaptest

import (
	"testing"

	"github.com/gagliardetto/solana-go"
)

// SignTx builds a transaction paid by payer and signs it with payer and all
// additional signers.
func SignTx(t testing.TB, blockhash solana.Hash, payer solana.PrivateKey, ixs []solana.Instruction, signers ...solana.PrivateKey) *solana.Transaction {
	t.Helper()
	tx, err := solana.NewTransaction(ixs, blockhash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		t.Fatalf("cannot build transaction: %s", err)
	}
	keys := append([]solana.PrivateKey{payer}, signers...)
	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		for i := range keys {
			if keys[i].PublicKey().Equals(pk) {
				return &keys[i]
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("cannot sign transaction: %s", err)
	}
	return tx
}
