package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Declare errors upfront so that DeepEqual can be used for comparison.
	var (
		unauthorizedNameErr = Field("Name", ErrUnauthorized, "a")
		humanNameErr        = Field("Name", ErrHuman, "b")
		emptyAmountErr      = Field("Amount", ErrEmpty, "amount is required")
		termsMultiErr       = Field("Terms", Append(
			humanNameErr,
			Append(emptyAmountErr, ErrState),
		), "terms invalid")

		emptyAmountWrapErr = Field("Amount", emptyAmountErr, "outer")
	)

	cases := map[string]struct {
		Err   error
		Field string
		Want  []error
	}{
		"a single error found by the name": {
			Err:   unauthorizedNameErr,
			Field: "Name",
			Want:  []error{unauthorizedNameErr},
		},
		"two error found by the name": {
			Err:   Append(unauthorizedNameErr, humanNameErr),
			Field: "Name",
			Want:  []error{unauthorizedNameErr, humanNameErr},
		},
		"field can contain a group of errors": {
			Err:   termsMultiErr,
			Field: "Terms",
			Want:  []error{termsMultiErr},
		},
		"field can inspect errors tree to find match": {
			Err:   termsMultiErr,
			Field: "Amount",
			Want:  []error{emptyAmountErr},
		},
		"the outer field error is returned": {
			Err:   emptyAmountWrapErr,
			Field: "Amount",
			Want:  []error{emptyAmountWrapErr},
		},
		"field not found": {
			Err:   termsMultiErr,
			Field: "Owner",
			Want:  nil,
		},
		"nil error": {
			Err:   nil,
			Field: "Owner",
			Want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.Err, tc.Field)
			if !reflect.DeepEqual(got, tc.Want) {
				for i, e := range got {
					t.Logf("got %d: %v", i, e)
				}
				t.Fatalf("unexpected result")
			}
		})
	}
}

func TestFieldMessage(t *testing.T) {
	err := Field("ExpectedAmount", ErrAmount, "must be %d", 50)
	want := `field "ExpectedAmount": must be 50: invalid amount`
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if Field("ExpectedAmount", nil, "ignored") != nil {
		t.Fatal("nil error must produce nil field error")
	}
}
