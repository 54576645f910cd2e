package rulelang

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scan(t *testing.T, src string) *Tracker {
	t.Helper()
	lines := strings.Split(src, "\n")
	var tr Tracker
	tr.Scan(lines, len(lines)-1)
	return &tr
}

func TestTracker_EmptyInput(t *testing.T) {
	tr := scan(t, "")
	if tr.Depth() != 0 {
		t.Fatalf("empty input should leave no open regions, got %d", tr.Depth())
	}
}

func TestTracker_RuleLifecycle(t *testing.T) {
	tr := scan(t, "rule \"discount\"")
	want := []Region{{Kind: RegionRule, Line: 0}}
	if diff := cmp.Diff(want, tr.Open()); diff != "" {
		t.Errorf("after opener (-want +got):\n%s", diff)
	}

	tr = scan(t, "rule \"discount\"\nwhen\n    order(Total)\nthen")
	want = []Region{{Kind: RegionRule, Line: 0, HasWhen: true, HasThen: true}}
	if diff := cmp.Diff(want, tr.Open()); diff != "" {
		t.Errorf("after when/then (-want +got):\n%s", diff)
	}

	tr = scan(t, "rule \"discount\"\nwhen\nthen\nend")
	if tr.Depth() != 0 {
		t.Fatalf("end should close the rule, got depth %d", tr.Depth())
	}
}

func TestTracker_QueryAndDeclareCloseOnEnd(t *testing.T) {
	for _, src := range []string{
		"query \"open orders\"\n    order(X)\nend",
		"declare Order\n    total : int\nend",
	} {
		tr := scan(t, src)
		if tr.Depth() != 0 {
			t.Errorf("%q: expected closed block, got depth %d", src, tr.Depth())
		}
	}
}

func TestTracker_KeywordsAreCaseInsensitive(t *testing.T) {
	tr := scan(t, "RULE \"shout\"\nWHEN\nTHEN\nEND")
	if tr.Depth() != 0 {
		t.Fatalf("upper-case keywords should track the same, got depth %d", tr.Depth())
	}
}

func TestTracker_FunctionBraceCounting(t *testing.T) {
	tr := scan(t, "function int size()\n{\n    return 1")
	want := []Region{{Kind: RegionFunction, Line: 0, BraceDepth: 1, SawBrace: true}}
	if diff := cmp.Diff(want, tr.Open()); diff != "" {
		t.Errorf("open body (-want +got):\n%s", diff)
	}

	tr = scan(t, "function int size()\n{\n    return 1\n}")
	if tr.Depth() != 0 {
		t.Fatalf("balanced braces should close the function, got depth %d", tr.Depth())
	}
}

func TestTracker_OneLineFunctionNeverOpens(t *testing.T) {
	tr := scan(t, "function int one() { return 1 }")
	if tr.Depth() != 0 {
		t.Fatalf("one-line function should not stay open, got depth %d", tr.Depth())
	}
}

func TestTracker_FunctionSignatureWithoutBodyStaysOpen(t *testing.T) {
	// A signature line with no brace yet must not count as a closed function.
	tr := scan(t, "function int pending()")
	want := []Region{{Kind: RegionFunction, Line: 0}}
	if diff := cmp.Diff(want, tr.Open()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTracker_KeywordsInsideFunctionBodyAreOpaque(t *testing.T) {
	// "end" and "when" inside a function body are ordinary code.
	tr := scan(t, "function void log()\n{\n    end\n    when\n}")
	if tr.Depth() != 0 {
		t.Fatalf("body keywords must not perturb tracking, got depth %d", tr.Depth())
	}
}

func TestTracker_FunctionNestedInRuleConsequence(t *testing.T) {
	src := `rule "cleanup"
when
    item(X)
then
function void log()
{
    emit(X)
}
end`
	lines := strings.Split(src, "\n")

	// Mid-scan, both the rule and the inner function are open.
	var mid Tracker
	mid.Scan(lines, 6)
	want := []Region{
		{Kind: RegionRule, Line: 0, HasWhen: true, HasThen: true},
		{Kind: RegionFunction, Line: 4, BraceDepth: 1, SawBrace: true},
	}
	if diff := cmp.Diff(want, mid.Open()); diff != "" {
		t.Errorf("mid-scan stack (-want +got):\n%s", diff)
	}

	// Closing the function must leave the rule open, not desynchronize.
	var afterFn Tracker
	afterFn.Scan(lines, 7)
	want = []Region{{Kind: RegionRule, Line: 0, HasWhen: true, HasThen: true}}
	if diff := cmp.Diff(want, afterFn.Open()); diff != "" {
		t.Errorf("after inner close (-want +got):\n%s", diff)
	}

	var full Tracker
	full.Scan(lines, len(lines)-1)
	if full.Depth() != 0 {
		t.Fatalf("fully closed document should leave no open regions, got %d", full.Depth())
	}
}

func TestTracker_ScanClampsRange(t *testing.T) {
	lines := []string{"rule \"r\""}
	var tr Tracker
	tr.Scan(lines, 99)
	if tr.Depth() != 1 {
		t.Fatalf("clamped scan should still observe the opener, got depth %d", tr.Depth())
	}
}
