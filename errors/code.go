package errors

import (
	"errors"
	"reflect"
)

const (
	// SuccessCode is reported for a transaction that executed.
	SuccessCode uint32 = 0
	// InternalCode is reported for any failure without a registered code.
	InternalCode uint32 = 1

	redacted = "internal error"
)

// coder is implemented by registered errors and by groups of errors.
type coder interface {
	Code() uint32
}

// Code returns the registered code carried by err or by any error it wraps.
// The ledger reports it to clients and labels metrics with it.
func Code(err error) uint32 {
	if isNil(err) {
		return SuccessCode
	}
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return InternalCode
}

// Redact hides everything but registered failures from a transaction
// submitter. A recovered panic or an error with InternalCode becomes a
// plain "internal error". With debug set err is returned as is.
func Redact(err error, debug bool) error {
	if debug || isNil(err) {
		return err
	}
	if ErrPanic.Is(err) || Code(err) == InternalCode {
		return errors.New(redacted)
	}
	return err
}

// isNil also catches a typed nil pointer stored in the error interface.
func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
