// Package errext classifies pipeline failures by stage and attaches
// exit codes and user hints to errors.
package errext

import (
	"errors"

	"github.com/ochairo/update-chrome-driver/internal/errext/exitcodes"
)

// HasExitCode is implemented by errors that decide the process exit status
type HasExitCode interface {
	error
	ExitCode() exitcodes.ExitCode
}

// codedError pins an exit code on an otherwise unclassified error
type codedError struct {
	err  error
	code exitcodes.ExitCode
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }
func (e *codedError) ExitCode() exitcodes.ExitCode { return e.code }

// WithExitCodeIfNone gives err the exit code code, unless something in its
// chain already decides one. A nil error stays nil.
func WithExitCodeIfNone(err error, code exitcodes.ExitCode) error {
	if err == nil {
		return nil
	}
	if _, ok := exitCoder(err); ok {
		return err
	}
	return &codedError{err: err, code: code}
}

// ExitCodeOf maps err to the process exit status: Success for nil, the
// attached code when there is one, Generic otherwise.
func ExitCodeOf(err error) exitcodes.ExitCode {
	if err == nil {
		return exitcodes.Success
	}
	if coder, ok := exitCoder(err); ok {
		return coder.ExitCode()
	}
	return exitcodes.Generic
}

func exitCoder(err error) (HasExitCode, bool) {
	var coder HasExitCode
	ok := errors.As(err, &coder)
	return coder, ok
}
