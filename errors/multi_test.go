package errors

import (
	"reflect"
	"testing"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs []error
		want error
	}{
		"nothing": {
			errs: nil,
			want: nil,
		},
		"only nil values": {
			errs: []error{nil, nil},
			want: nil,
		},
		"single error is returned as is": {
			errs: []error{nil, ErrNotFound},
			want: ErrNotFound,
		},
		"two errors": {
			errs: []error{ErrNotFound, ErrState},
			want: multiErr{ErrNotFound, ErrState},
		},
		"groups are flattened": {
			errs: []error{Append(ErrNotFound, ErrState), ErrEmpty},
			want: multiErr{ErrNotFound, ErrState, ErrEmpty},
		},
		"duplicates are kept": {
			errs: []error{ErrNotFound, ErrNotFound},
			want: multiErr{ErrNotFound, ErrNotFound},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Append(tc.errs...); !reflect.DeepEqual(tc.want, got) {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestMultiErrCode(t *testing.T) {
	if got := Code(multiErr{}); got != SuccessCode {
		t.Fatalf("empty group must have success code, got %d", got)
	}
	if got := Code(Append(Wrap(ErrAmount, "x"), ErrState)); got != ErrAmount.code {
		t.Fatalf("want first error code, got %d", got)
	}
}
