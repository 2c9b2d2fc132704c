package errext

import "errors"

// Format returns the message of err and its hint, if any
func Format(err error) (msg string, hint string) {
	if err == nil {
		return "", ""
	}
	var herr HasHint
	if errors.As(err, &herr) {
		hint = herr.Hint()
	}
	return err.Error(), hint
}
