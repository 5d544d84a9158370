package errors

import (
	"github.com/gostdlib/base/errors"
	pkgerrors "github.com/pkg/errors"
)

// Wrappers around the stdlib errors package, so callers inside barejson only ever
// import this package.

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Unwrap returns the result of calling the Unwrap method on err, if err's
// type contains an Unwrap method returning error. Otherwise, Unwrap returns nil.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target, and if so, sets
// target to that error value and returns true.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors. Any nil error values are discarded.
func Join(err ...error) error {
	return errors.Join(err...)
}

// Wrapf annotates err with a formatted message. The result still matches err with Is.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// Errorf formats an error that records the stack at the point it was called.
func Errorf(format string, args ...any) error {
	return pkgerrors.Errorf(format, args...)
}
