package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors or only nil values are given, nil is returned. If only one
// non-nil error is given, that error is returned unchanged.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNil(e) {
			continue
		}
		// Flatten so that a group never contains another group.
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr is a group of errors returned together, for example all field
// validation failures of a single configuration.
type multiErr []error

func (m multiErr) Error() string {
	points := make([]string, len(m))
	for i, err := range m {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m), strings.Join(points, "\n\t"))
}

// Unpack implements the unpacker interface.
func (m multiErr) Unpack() []error {
	return []error(m)
}

// Code returns the code of the first error, consistent with the fail-fast
// approach of reporting.
func (m multiErr) Code() uint32 {
	if len(m) == 0 {
		return SuccessCode
	}
	return Code(m[0])
}

var _ unpacker = multiErr(nil)
var _ coder = multiErr(nil)
