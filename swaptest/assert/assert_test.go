package assert

import (
	"testing"

	"github.com/iov-one/swap/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.ErrEmpty,
			WantFail: false,
		},
		"compared to nil": {
			ErrWant:  nil,
			ErrGot:   errors.ErrEmpty,
			WantFail: true,
		},
		"both nil": {
			ErrWant:  nil,
			ErrGot:   nil,
			WantFail: false,
		},
		"wrapped": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.Wrap(errors.ErrEmpty, "test"),
			WantFail: false,
		},
		"different kind": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.ErrState,
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			IsErr(mock, tc.ErrWant, tc.ErrGot)
			if failed := mock.failcalls > 0; tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	cases := map[string]struct {
		Err      error
		Name     string
		WantErr  *errors.Error
		WantFail bool
	}{
		"ensure a single error exists and is found": {
			Err:     errors.Field("Amount", errors.ErrAmount, "too low"),
			Name:    "Amount",
			WantErr: errors.ErrAmount,
		},
		"use nil to ensure no error was found": {
			Err:     errors.Field("Amount", errors.ErrAmount, "too low"),
			Name:    "Owner",
			WantErr: nil,
		},
		"nil fails when an error is present": {
			Err:      errors.Field("Owner", errors.ErrEmpty, "required"),
			Name:     "Owner",
			WantErr:  nil,
			WantFail: true,
		},
		"wrong kind fails": {
			Err:      errors.Field("Owner", errors.ErrEmpty, "required"),
			Name:     "Owner",
			WantErr:  errors.ErrAmount,
			WantFail: true,
		},
		"found in a group": {
			Err: errors.Append(
				errors.Field("Owner", errors.ErrEmpty, "required"),
				errors.Field("Amount", errors.ErrAmount, "too low"),
			),
			Name:    "Amount",
			WantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			FieldError(mock, tc.Err, tc.Name, tc.WantErr)
			if failed := mock.failcalls > 0; tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestNilAndEqual(t *testing.T) {
	mock := &tmock{TB: t}
	Nil(mock, nil)
	Nil(mock, (*int)(nil))
	Equal(mock, []byte("a"), []byte("a"))
	if mock.failcalls != 0 {
		t.Fatalf("unexpected failures: %d", mock.failcalls)
	}
	Nil(mock, 1)
	Equal(mock, 1, 2)
	if mock.failcalls != 2 {
		t.Fatalf("want 2 failures, got %d", mock.failcalls)
	}
}

// tmock records failures instead of stopping the test.
type tmock struct {
	testing.TB
	failcalls int
}

func (m *tmock) Fatal(args ...interface{}) {
	m.failcalls++
}

func (m *tmock) Fatalf(format string, args ...interface{}) {
	m.failcalls++
}
