package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/parse"
)

// Mangle judges source text with the official Mangle (Datalog) frontend:
// parse, then single-unit semantic analysis. Any parse or analysis error is a
// rejection; the error text is the diagnostic.
//
// The parser is not hardened against arbitrary truncated input, so both
// probes recover panics and surface them as oracle failures rather than
// crashing the engine.
type Mangle struct{}

func (Mangle) IsValid(_ context.Context, src string) (valid bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
			err = fmt.Errorf("mangle oracle panic: %v", r)
		}
	}()
	return compileErr(src) == nil, nil
}

func (Mangle) FirstError(_ context.Context, src string) (msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			msg = ""
			err = fmt.Errorf("mangle oracle panic: %v", r)
		}
	}()
	if cerr := compileErr(src); cerr != nil {
		return cerr.Error(), nil
	}
	return "", nil
}

func compileErr(src string) error {
	unit, err := parse.Unit(strings.NewReader(src))
	if err != nil {
		return err
	}
	if _, err := analysis.AnalyzeOneUnit(unit, nil); err != nil {
		return err
	}
	return nil
}
