package oracle

import (
	"context"
	"fmt"
	"strings"

	"faultline/internal/rulelang"
)

// Structural is a self-contained verifier for the block-structured rule
// language. It runs line-level diagnostics (balanced delimiters, keyword
// placement) and block-level diagnostics (regions left open at end of input)
// without a full parser, so faultline works on .rule files with no external
// compiler in the loop.
//
// It deliberately reports only the first issue found: the localization engine
// needs a verdict and one message, nothing more.
type Structural struct{}

func (Structural) IsValid(_ context.Context, src string) (bool, error) {
	_, found := firstIssue(src)
	return !found, nil
}

func (Structural) FirstError(_ context.Context, src string) (string, error) {
	msg, found := firstIssue(src)
	if !found {
		return "", nil
	}
	return msg, nil
}

// firstIssue scans src top to bottom and returns the first diagnostic.
// Placement checks run against the tracker state before the line is observed,
// so "end" is judged by the blocks open above it.
func firstIssue(src string) (string, bool) {
	var tracker rulelang.Tracker
	lines := strings.Split(src, "\n")

	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		lower := strings.ToLower(trimmed)

		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			tracker.Observe(raw)
			continue
		}

		if strings.Count(trimmed, `"`)%2 != 0 {
			return fmt.Sprintf("line %d: unterminated string literal", i+1), true
		}
		opens := strings.Count(trimmed, "(")
		closes := strings.Count(trimmed, ")")
		if opens != closes {
			return fmt.Sprintf("line %d: unbalanced parentheses (%d open, %d close)", i+1, opens, closes), true
		}

		open := tracker.Open()
		var top *rulelang.Region
		if len(open) > 0 {
			top = &open[len(open)-1]
		}
		inFunction := top != nil && top.Kind == rulelang.RegionFunction

		switch {
		case inFunction:
			// Function bodies are opaque except for the delimiter checks above.
		case lower == "end":
			if top == nil {
				return fmt.Sprintf("line %d: unexpected 'end' outside any block", i+1), true
			}
		case lower == "when":
			if top == nil || top.Kind != rulelang.RegionRule {
				return fmt.Sprintf("line %d: 'when' outside a rule", i+1), true
			}
		case lower == "then":
			if top == nil || top.Kind != rulelang.RegionRule {
				return fmt.Sprintf("line %d: 'then' outside a rule", i+1), true
			}
			if !top.HasWhen {
				return fmt.Sprintf("line %d: 'then' before 'when'", i+1), true
			}
		case isOpener(lower):
			// Only a function may open inside another block; rule, query and
			// declare are top-level constructs.
			if top != nil && !strings.HasPrefix(lower, "function ") {
				return fmt.Sprintf("line %d: '%s' begins before the enclosing %s is closed",
					i+1, openerKeyword(lower), top.Kind), true
			}
		}

		tracker.Observe(raw)
	}

	if open := tracker.Open(); len(open) > 0 {
		top := open[len(open)-1]
		return fmt.Sprintf("unexpected end of input: %s opened at line %d is never closed",
			top.Kind, top.Line+1), true
	}
	return "", false
}

func isOpener(lower string) bool {
	return strings.HasPrefix(lower, "rule ") ||
		strings.HasPrefix(lower, "query ") ||
		strings.HasPrefix(lower, "function ") ||
		strings.HasPrefix(lower, "declare ")
}

func openerKeyword(lower string) string {
	if idx := strings.IndexByte(lower, ' '); idx > 0 {
		return lower[:idx]
	}
	return lower
}
