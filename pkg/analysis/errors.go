// Package analysis contains the error classes shared by the analysis
// components. The components itself live in the sub packages.
package analysis

import "errors"

var (
	// ErrDataUnavailable is used when a session or layout can't be loaded at all.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInsufficientData is used when the session loaded but lacks usable laps.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDriverDataUnavailable is used when a requested driver has no quick laps.
	ErrDriverDataUnavailable = errors.New("driver data unavailable")
	// ErrInvalidInput is used for malformed request parameters.
	ErrInvalidInput = errors.New("invalid input")
)

// DiagnosticError carries a message suitable for end users together with
// one of the error classes above.
type DiagnosticError struct {
	Kind error
	Msg  string
}

func (e *DiagnosticError) Error() string {
	return e.Msg
}

func (e *DiagnosticError) Unwrap() error {
	return e.Kind
}

func Diagnostic(kind error, msg string) error {
	return &DiagnosticError{Kind: kind, Msg: msg}
}
