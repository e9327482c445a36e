package client

import "github.com/iov-one/swap/errors"

// Terms is the deal both parties agree to. The initializer offers
// TakerExpectedAmount tokens of one mint and wants
// InitializerExpectedAmount tokens of another mint in return.
type Terms struct {
	InitializerExpectedAmount uint64 `toml:"initializer_expected_amount"`
	TakerExpectedAmount       uint64 `toml:"taker_expected_amount"`
}

// Validate returns an error unless both amounts are set.
func (t Terms) Validate() error {
	var errs error
	if t.InitializerExpectedAmount == 0 {
		errs = errors.AppendField(errs, "InitializerExpectedAmount", errors.ErrAmount)
	}
	if t.TakerExpectedAmount == 0 {
		errs = errors.AppendField(errs, "TakerExpectedAmount", errors.ErrAmount)
	}
	return errs
}
