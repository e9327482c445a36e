package errors

import (
	"fmt"
	"io"
	"testing"
)

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"nil":                  {err: nil, want: SuccessCode},
		"typed nil":            {err: (*Error)(nil), want: SuccessCode},
		"registered":           {err: ErrNotFound, want: ErrNotFound.code},
		"wrapped twice":        {err: Wrap(Wrap(ErrInsufficientFunds, "temp"), "exchange"), want: ErrInsufficientFunds.code},
		"field error":          {err: Field("Amount", ErrAmount, "zero"), want: ErrAmount.code},
		"group reports first":  {err: Append(ErrNotRentExempt, ErrEmpty), want: ErrNotRentExempt.code},
		"stdlib":               {err: io.EOF, want: InternalCode},
		"wrapped stdlib":       {err: Wrap(io.EOF, "cannot read account"), want: InternalCode},
		"program defined code": {err: Register(99901, "custom"), want: 99901},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Errorf("want %d code, got %d", tc.want, got)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(nil, false); err != nil {
		t.Errorf("want nil, got %v", err)
	}
	if err := Redact(ErrPanic, false); ErrPanic.Is(err) {
		t.Error("recovered panic must be hidden")
	}
	if err := Redact(ErrPanic, true); !ErrPanic.Is(err) {
		t.Error("recovered panic must be kept in debug mode")
	}
	if err := Redact(Wrap(ErrUnauthorized, "taker"), false); !ErrUnauthorized.Is(err) {
		t.Error("registered error must be kept")
	}

	serr := fmt.Errorf("leveldb: closed")
	err := Redact(Wrap(serr, "load"), false)
	if err.Error() != "internal error" {
		t.Errorf("want internal error, got %q", err)
	}
	if err := Redact(serr, true); err != serr {
		t.Error("stdlib error must be kept in debug mode")
	}
}
