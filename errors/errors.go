package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is used whenever an account that must sign an
	// instruction did not.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrInput stands for general input problems indication.
	ErrInput = Register(4, "invalid input")

	// ErrInstruction is returned whenever instruction data cannot be
	// decoded or carries an unknown opcode.
	ErrInstruction = Register(5, "invalid instruction data")

	// ErrAccountData is returned when the content of an account cannot be
	// decoded into the expected layout.
	ErrAccountData = Register(6, "invalid account data")

	// ErrDuplicate is returned when there is a record already that has the
	// same unique key, for example an already processed transaction.
	ErrDuplicate = Register(7, "duplicate")

	// ErrHuman is returned when application reaches a code path which
	// should not ever be reached if the code was written as expected.
	ErrHuman = Register(8, "coding error")

	// ErrReadonly is returned when an instruction modifies an account that
	// was not passed as writable.
	ErrReadonly = Register(9, "account is read only")

	// ErrEmpty is returned when a value fails a not empty assertion.
	ErrEmpty = Register(10, "value is empty")

	// ErrState is returned when an object is in invalid state.
	ErrState = Register(11, "invalid state")

	// ErrUninitialized is returned when an operation requires an
	// initialized account.
	ErrUninitialized = Register(12, "account not initialized")

	// ErrAlreadyInitialized is returned when an account is initialized for
	// the second time.
	ErrAlreadyInitialized = Register(13, "account already initialized")

	// ErrInsufficientFunds is returned when a balance, native or token, is
	// too low for the requested transfer.
	ErrInsufficientFunds = Register(14, "insufficient funds")

	// ErrAmount stands for invalid amount of whatever.
	ErrAmount = Register(15, "invalid amount")

	// ErrExpired stands for expired entities, for example a transaction
	// referencing a blockhash that is no longer recent.
	ErrExpired = Register(16, "expired")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(17, "an operation cannot be completed due to value overflow")

	// ErrProgramID is returned when an account is not owned by, or is not,
	// the program it is expected to be.
	ErrProgramID = Register(18, "incorrect program id")

	// ErrOwner is returned when a program modifies an account it does not
	// own.
	ErrOwner = Register(19, "illegal owner")

	// ErrNotRentExempt is returned when an account balance does not cover
	// the rent exemption minimum for its size.
	ErrNotRentExempt = Register(20, "account not rent exempt")

	// ErrNotEnoughAccounts is returned when an instruction was given fewer
	// accounts than it requires.
	ErrNotEnoughAccounts = Register(21, "not enough account keys")

	// ErrSignature is returned when a transaction signature does not
	// verify.
	ErrSignature = Register(22, "invalid signature")

	// ErrDatabase is returned when the storage layer fails.
	ErrDatabase = Register(23, "database")

	// ErrNetwork is returned when a remote cluster cannot be reached or
	// returns an unexpected response.
	ErrNetwork = Register(24, "network")

	// ErrIteratorDone is returned by an iterator once there are no more
	// values to read.
	ErrIteratorDone = Register(25, "iterator done")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but programs may want to
// declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	// Error code 1 is restricted for errors that were not created by this
	// package and must not be used.
	1: nil,
}

// Error represents a root error.
//
// Root errors categorize issues. Each instance created during the runtime
// should wrap one of the declared root errors. This allows error tests and
// returning all errors to the client in a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the unique code this error was registered with.
func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		// If this is a collection of errors, this function must return
		// true if at least one from the group match.
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				if kind.Is(e) {
					return true
				}
			}
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide a Code method (ie. stdlib errors),
// it will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap allows the standard library errors.Is and errors.As to walk the
// chain.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType is a helper to augment an error with a corresponding type message
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

// unpacker is implemented by errors that group several errors together.
type unpacker interface {
	Unpack() []error
}
