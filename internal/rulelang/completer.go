package rulelang

import "strings"

// Completer turns the line range [0, k] into a candidate document a compiler
// can judge without tripping over truncation.
type Completer interface {
	// Complete returns the text of lines[0..k] plus whatever closing tokens
	// the strategy decides to append.
	Complete(lines []string, k int) string
}

// StructuredCompleter closes every region left open at line k, innermost
// first. For a rule that is missing clauses it appends "when" and "then"
// before "end" so the compiler sees a structurally whole rule and reports
// only genuine content faults. This is a heuristic closure, not a proof of
// well-formedness.
type StructuredCompleter struct{}

func (StructuredCompleter) Complete(lines []string, k int) string {
	if k >= len(lines) {
		k = len(lines) - 1
	}
	var tracker Tracker
	tracker.Scan(lines, k)

	var sb strings.Builder
	for i := 0; i <= k; i++ {
		sb.WriteString(lines[i])
		sb.WriteString("\n")
	}

	open := tracker.Open()
	for i := len(open) - 1; i >= 0; i-- {
		closeRegion(&sb, open[i])
	}
	return sb.String()
}

func closeRegion(sb *strings.Builder, r Region) {
	switch r.Kind {
	case RegionRule:
		if !r.HasWhen {
			sb.WriteString("when\n")
		}
		if !r.HasThen {
			sb.WriteString("then\n")
		}
		sb.WriteString("end\n")
	case RegionQuery, RegionDeclare:
		sb.WriteString("end\n")
	case RegionFunction:
		if !r.SawBrace {
			// Signature only, body never opened.
			sb.WriteString("{ }\n")
			return
		}
		for d := r.BraceDepth; d > 0; d-- {
			sb.WriteString("}\n")
		}
	}
}

// NaiveCompleter concatenates the raw prefix with no synthesized closure.
// It reproduces the behavior of the older line-concatenation localizer and is
// selectable by configuration for compatibility.
type NaiveCompleter struct{}

func (NaiveCompleter) Complete(lines []string, k int) string {
	if k >= len(lines) {
		k = len(lines) - 1
	}
	return strings.Join(lines[:k+1], "\n")
}
