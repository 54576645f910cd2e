// Package oracle defines the validity oracle consumed by the bisection
// engine, plus the concrete oracles shipped with faultline: a structural
// verifier for the rule language and a Mangle compile check.
//
// An oracle judges an arbitrary text blob as accepted or rejected and, on
// rejection, supplies a message for the first detected issue. How it arrives
// at the verdict is its own business; the engine treats it as a black box.
package oracle

import "context"

// Oracle is the single capability the localization engine consumes from its
// environment. Implementations must be safe for concurrent use if callers run
// independent localizations concurrently.
type Oracle interface {
	// IsValid reports whether src is free of errors. A non-nil error means
	// the oracle itself failed to produce a verdict (the engine treats that
	// as invalid, fail-closed).
	IsValid(ctx context.Context, src string) (bool, error)

	// FirstError returns a human-readable message for the first detected
	// issue in src, or "" when src is valid. A non-nil error means the oracle
	// crashed while producing the message; the engine substitutes the error
	// text for the diagnostic.
	FirstError(ctx context.Context, src string) (string, error)
}

// Funcs adapts two plain functions into an Oracle. Handy for tests and for
// wrapping external compilers.
type Funcs struct {
	Valid func(ctx context.Context, src string) (bool, error)
	First func(ctx context.Context, src string) (string, error)
}

func (f Funcs) IsValid(ctx context.Context, src string) (bool, error) {
	return f.Valid(ctx, src)
}

func (f Funcs) FirstError(ctx context.Context, src string) (string, error) {
	return f.First(ctx, src)
}
