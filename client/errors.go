package client

import "github.com/iov-one/swap/errors"

// ErrCounterparty is returned when the escrow found on the ledger does not
// describe the deal the caller agreed to.
var ErrCounterparty = errors.Register(300, "counterparty mismatch")
