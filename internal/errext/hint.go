package errext

import (
	"errors"
	"fmt"
)

// HasHint is implemented by errors carrying advice for the user, e.g. how
// to fix the invocation
type HasHint interface {
	error
	Hint() string
}

type hintedError struct {
	err  error
	hint string
}

// WithHint attaches hint to err. Hints already present further down the
// chain are kept in parentheses. A nil error stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hintedError{err: err, hint: hint}
}

func (e *hintedError) Error() string { return e.err.Error() }
func (e *hintedError) Unwrap() error { return e.err }

func (e *hintedError) Hint() string {
	var inner HasHint
	if !errors.As(e.err, &inner) {
		return e.hint
	}
	return fmt.Sprintf("%s (%s)", e.hint, inner.Hint())
}
