// Package rulelang models the block structure of rule-authoring source files.
//
// The language has four top-level block kinds:
//   - rule <name> ... when ... then ... end
//   - query <name> ... end
//   - function <signature> { ... }
//   - declare <type> ... end
//
// The Tracker walks a prefix of source lines and maintains a stack of open
// regions; the Completer uses that stack to synthesize the closing tokens a
// truncated prefix needs before it can be judged by a compiler.
package rulelang

import "strings"

// RegionKind identifies one of the four recognized block kinds.
type RegionKind int

const (
	RegionRule RegionKind = iota
	RegionQuery
	RegionFunction
	RegionDeclare
)

// String returns the keyword that opens the region.
func (k RegionKind) String() string {
	switch k {
	case RegionRule:
		return "rule"
	case RegionQuery:
		return "query"
	case RegionFunction:
		return "function"
	case RegionDeclare:
		return "declare"
	}
	return "unknown"
}

// Region is one open block on the tracker stack.
type Region struct {
	Kind RegionKind
	Line int // 0-based line index of the opener

	// Rule regions only.
	HasWhen bool
	HasThen bool

	// Function regions only.
	BraceDepth int
	SawBrace   bool
}

// Tracker accumulates block structure over a sequence of lines.
// Regions nest: a function opened inside a rule consequence is pushed on top
// of the rule and popped when its braces balance, leaving the rule open.
// The zero value is ready to use.
type Tracker struct {
	stack []Region
	line  int
}

// Open returns the currently open regions, outermost first.
func (t *Tracker) Open() []Region {
	out := make([]Region, len(t.stack))
	copy(out, t.stack)
	return out
}

// Depth returns the number of open regions.
func (t *Tracker) Depth() int { return len(t.stack) }

// Scan observes lines[0..k] in order. k is clamped to the last line.
func (t *Tracker) Scan(lines []string, k int) {
	if k >= len(lines) {
		k = len(lines) - 1
	}
	for i := 0; i <= k; i++ {
		t.Observe(lines[i])
	}
}

// Observe feeds a single line to the tracker.
func (t *Tracker) Observe(raw string) {
	defer func() { t.line++ }()
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	// Inside a function body only braces matter; keywords are ordinary code.
	if top := t.top(); top != nil && top.Kind == RegionFunction {
		countBraces(top, raw)
		if top.closed() {
			t.pop()
		}
		return
	}

	switch {
	case strings.HasPrefix(lower, "rule "):
		t.push(Region{Kind: RegionRule, Line: t.line})
	case strings.HasPrefix(lower, "query "):
		t.push(Region{Kind: RegionQuery, Line: t.line})
	case strings.HasPrefix(lower, "declare "):
		t.push(Region{Kind: RegionDeclare, Line: t.line})
	case strings.HasPrefix(lower, "function "):
		fn := Region{Kind: RegionFunction, Line: t.line}
		countBraces(&fn, raw)
		// A one-line function ("function int f() { return 1 }") opens and
		// closes on the same line; nothing is left to track.
		if !fn.closed() {
			t.push(fn)
		}
	case lower == "when":
		if top := t.top(); top != nil && top.Kind == RegionRule {
			top.HasWhen = true
		}
	case lower == "then":
		if top := t.top(); top != nil && top.Kind == RegionRule {
			top.HasThen = true
		}
	case lower == "end":
		if top := t.top(); top != nil && top.Kind != RegionFunction {
			t.pop()
		}
	}
}

// countBraces updates a function region's depth from one line. The SawBrace
// guard keeps a signature line with no body yet from being treated as a
// completed function.
func countBraces(fn *Region, raw string) {
	opens := strings.Count(raw, "{")
	closes := strings.Count(raw, "}")
	if opens+closes > 0 {
		fn.SawBrace = true
	}
	fn.BraceDepth += opens - closes
}

func (r *Region) closed() bool {
	return r.Kind == RegionFunction && r.SawBrace && r.BraceDepth <= 0
}

func (t *Tracker) push(r Region) { t.stack = append(t.stack, r) }

func (t *Tracker) pop() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

func (t *Tracker) top() *Region {
	if len(t.stack) == 0 {
		return nil
	}
	return &t.stack[len(t.stack)-1]
}
