package escrow

import (
	"github.com/iov-one/swap/errors"
)

// Escrow program errors use codes in the 100 range.
var (
	ErrExpectedAmountMismatch = errors.Register(100, "expected amount mismatch")
	ErrAccountMismatch        = errors.Register(101, "account does not match the escrow record")
)
