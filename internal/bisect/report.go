package bisect

import "fmt"

// FaultLocation describes the single line a localization run pinned the
// failure on. It is constructed once, at the terminal step of the search, and
// never mutated afterwards.
type FaultLocation struct {
	// Content is the trimmed text of the offending line.
	Content string
	// Line is the 1-based line number in the original source.
	Line int
	// Message is the oracle's first-error text for the minimal failing
	// completed prefix, never empty.
	Message string
}

// String renders the location for display.
func (f *FaultLocation) String() string {
	return fmt.Sprintf("line %d: %s\n  >> %s", f.Line, f.Message, f.Content)
}
