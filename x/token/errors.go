package token

import (
	"github.com/iov-one/swap/errors"
)

// Token program specific errors. Codes in the 200 range are reserved for this
// package.
var (
	ErrMintMismatch        = errors.Register(200, "account not associated with this mint")
	ErrOwnerMismatch       = errors.Register(201, "owner does not match")
	ErrAccountFrozen       = errors.Register(202, "account is frozen")
	ErrNonNativeHasBalance = errors.Register(203, "non-native account can only be closed if its balance is zero")
	ErrAuthorityType       = errors.Register(204, "authority type not supported for this account")
	ErrFixedSupply         = errors.Register(205, "mint has no mint authority")
)
