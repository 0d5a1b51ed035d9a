// Package rec turns panics into errors at call boundaries.
package rec

import (
	"fmt"
	"runtime/debug"
)

// recover only stops a panic when called directly by the deferred function,
// so Error and Wrap call it themselves and hand the value to panicError.
func panicError(r any) error {
	switch t := r.(type) {
	case error:
		return fmt.Errorf("recovered panic: %w\n%s", t, debug.Stack())
	default:
		return fmt.Errorf("recovered panic: %v\n%s", r, debug.Stack())
	}
}

// Error recovers a panic and assigns it to the provided error.
func Error(err *error) {
	if r := recover(); r != nil {
		*err = panicError(r)
	}
}

// Wrap recovers a panic with the provided format and arguments
// and assigns it to the provided error.
// The recovered panic is appended to the end of the arguments.
// If no panic was recovered, but the error is not nil, it is wrapped
// with the provided format and arguments as well.
func Wrap(err *error, format string, a ...any) {
	if r := recover(); r != nil {
		*err = fmt.Errorf(format, append(a, panicError(r))...)
	} else if *err != nil {
		*err = fmt.Errorf(format, append(a, *err)...)
	}
}
