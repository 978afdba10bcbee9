package errcode

import (
	"github.com/pkg/errors"
)

// ProjectError carries a reject code plus the canonical short reject reason
// (e.g. "bad-txns-vout-negative").
type ProjectError struct {
	Code RejectCode
	Desc string
}

func (e ProjectError) Error() string {
	return e.Code.String() + ": " + e.Desc
}

func NewError(code RejectCode, desc string) error {
	return ProjectError{Code: code, Desc: desc}
}

// Wrap annotates err with call-site context while keeping the ProjectError
// reachable via errors.Cause.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

func IsRejectCode(err error, code RejectCode) bool {
	e, ok := errors.Cause(err).(ProjectError)
	return ok && e.Code == code
}

// RejectReason extracts the short reject reason from err, or err.Error()
// when it is not a ProjectError.
func RejectReason(err error) string {
	if e, ok := errors.Cause(err).(ProjectError); ok {
		return e.Desc
	}
	return err.Error()
}
