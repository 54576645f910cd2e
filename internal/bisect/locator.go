// Package bisect localizes the line responsible for a compile failure by
// binary search over completed prefixes of the source.
//
// The engine never needs the oracle to expose an error location: it tests
// syntactically-closed prefixes of increasing length and reports the lowest
// line index whose inclusion flips the oracle's verdict from valid to
// invalid. One call, at most one fault location.
package bisect

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"faultline/internal/oracle"
	"faultline/internal/rulelang"
)

// ErrBlankSource is returned when the source text is empty or whitespace
// only. It is the only hard failure the engine surfaces; everything the
// oracle does wrong is absorbed into the report.
var ErrBlankSource = errors.New("source text is empty or blank")

// UnknownCompilationError is the diagnostic used when the oracle rejects a
// prefix but produces no message, so callers never see an empty diagnostic.
const UnknownCompilationError = "Unknown compilation error"

// Locator drives the bisection. It holds no state across calls; independent
// localizations may run concurrently as long as the oracle tolerates it.
type Locator struct {
	oracle    oracle.Oracle
	completer rulelang.Completer
	log       *zap.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithCompleter selects the prefix completion strategy. The default is the
// structure-aware completer.
func WithCompleter(c rulelang.Completer) Option {
	return func(l *Locator) { l.completer = c }
}

// WithLogger attaches a logger for probe-level tracing.
func WithLogger(log *zap.Logger) Option {
	return func(l *Locator) { l.log = log }
}

// NewLocator builds a Locator around the given oracle.
func NewLocator(o oracle.Oracle, opts ...Option) *Locator {
	l := &Locator{
		oracle:    o,
		completer: rulelang.StructuredCompleter{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FindFaultyLine returns the earliest offending line of src, or nil when src
// already validates. It fails only on blank input.
func (l *Locator) FindFaultyLine(ctx context.Context, src string) (*FaultLocation, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrBlankSource
	}

	if l.probeValid(ctx, src) {
		l.log.Debug("source validates as a whole, no fault")
		return nil, nil
	}

	lines := strings.Split(src, "\n")
	if len(lines) == 1 {
		return l.report(ctx, lines, 0), nil
	}
	return l.search(ctx, lines, 0, len(lines)-1), nil
}

// search narrows [start, end] to the lowest index whose completed prefix is
// invalid. A valid midpoint pushes the search right; an invalid one pulls it
// left, midpoint included. The range strictly shrinks every step.
func (l *Locator) search(ctx context.Context, lines []string, start, end int) *FaultLocation {
	if start == end {
		return l.report(ctx, lines, end)
	}
	mid := start + (end-start)/2
	if l.probeValid(ctx, l.completer.Complete(lines, mid)) {
		if mid+1 <= end {
			return l.search(ctx, lines, mid+1, end)
		}
		return l.report(ctx, lines, end)
	}
	return l.search(ctx, lines, start, mid)
}

// probeValid asks the oracle for a verdict. An oracle that crashes narrows
// the search the same way a reported error would: fail-closed, the candidate
// counts as invalid.
func (l *Locator) probeValid(ctx context.Context, candidate string) bool {
	ok, err := l.oracle.IsValid(ctx, candidate)
	if err != nil {
		l.log.Debug("oracle crashed on probe, treating as invalid", zap.Error(err))
		return false
	}
	return ok
}

// report builds the terminal FaultLocation for line idx. The diagnostic comes
// from the minimal failing completed prefix; a crashing oracle contributes
// its own error text, and an empty message falls back to a fixed string.
func (l *Locator) report(ctx context.Context, lines []string, idx int) *FaultLocation {
	prefix := l.completer.Complete(lines, idx)
	msg, err := l.oracle.FirstError(ctx, prefix)
	if err != nil {
		msg = err.Error()
	}
	if strings.TrimSpace(msg) == "" {
		msg = UnknownCompilationError
	}
	loc := &FaultLocation{
		Content: strings.TrimSpace(lines[idx]),
		Line:    idx + 1,
		Message: msg,
	}
	l.log.Debug("fault isolated",
		zap.Int("line", loc.Line),
		zap.String("message", loc.Message))
	return loc
}
