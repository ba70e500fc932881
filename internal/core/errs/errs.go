// Package errs defines the error taxonomy shared by the sync engine and the
// state store. Callers classify failures with errors.Is against the four
// sentinel values.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInput marks a malformed or out-of-order event record. A sync skips
	// and logs these; it never aborts for one bad record and never folds one
	// into an aggregate.
	ErrInput = errors.New("input error")

	// ErrStateCorruption marks a persisted invariant violation. Fatal: a sync
	// refuses to proceed until the store is rebuilt.
	ErrStateCorruption = errors.New("state corruption")

	// ErrPrecondition marks an operation whose preconditions do not hold
	// (e.g. prestige below the level cap). No state is mutated.
	ErrPrecondition = errors.New("precondition failed")

	// ErrConcurrency marks a sync attempted while another holds the store
	// lock. No partial state is written; the caller should retry later.
	ErrConcurrency = errors.New("store busy")
)

// Inputf wraps ErrInput with a formatted detail message.
func Inputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInput, fmt.Sprintf(format, args...))
}

// Corruptionf wraps ErrStateCorruption with a formatted detail message.
func Corruptionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrStateCorruption, fmt.Sprintf(format, args...))
}

// Preconditionf wraps ErrPrecondition with a formatted detail message.
func Preconditionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

// Concurrencyf wraps ErrConcurrency with a formatted detail message.
func Concurrencyf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConcurrency, fmt.Sprintf(format, args...))
}
