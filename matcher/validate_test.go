// ABOUTME: Tests for the structural validator's abstract stack interpretation over the graph.
// ABOUTME: Covers clean templates, all three diagnostic kinds, recovery, ordering, and determinism.
package matcher

import (
	"strings"
	"testing"
)

// validateSource builds and validates template-body source.
func validateSource(t *testing.T, src string) []Diagnostic {
	t.Helper()
	g := buildSource(t, src)
	diags, err := Validate(g)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	return diags
}

// hasKind reports whether any diagnostic has the given kind.
func hasKind(diags []Diagnostic, kind DiagnosticKind) bool {
	for _, d := range diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func TestValidate_CleanTemplates(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"text only", "hello {$name}"},
		{"simple element", "<div></div>"},
		{"nesting", "<ul><li>a</li><li>b</li></ul>"},
		{"void tags", "<div><br><img></div>"},
		{"text-only branch", "<span>{if $cond1}Content1{/if}</span>"},
		{"balanced branch", "<p>{if $a}<b>x</b>{/if}</p>"},
		{"balanced else", "{if $a}<b></b>{else}<i></i>{/if}"},
		{"rebalancing branch", "<div>{if $cond1}</div><div>Content1{/if}</div>"},
		{"rebalancing both arms", "<div>{if $a}</div><div>{else}</div><div>{/if}</div>"},
		{"nested chains", "<p>{if $a}{if $b}<br>{/if}{/if}</p>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			diags := validateSource(t, tc.src)
			if len(diags) != 0 {
				t.Errorf("got %d diagnostics, want 0: %v", len(diags), diags)
			}
		})
	}
}

func TestValidate_MismatchedCloseTag(t *testing.T) {
	diags := validateSource(t, "<div>{if $cond1}</span>{/if}</div>")

	if !hasKind(diags, MismatchedCloseTag) {
		t.Fatalf("want MismatchedCloseTag, got %v", diags)
	}
	found := false
	for _, d := range diags {
		if d.Kind == MismatchedCloseTag &&
			strings.Contains(d.Message, "</span>") && strings.Contains(d.Message, "<div>") {
			found = true
		}
	}
	if !found {
		t.Errorf("mismatch message should name </span> and <div>, got %v", diags)
	}
}

func TestValidate_CloseWithNoOpenTag(t *testing.T) {
	diags := validateSource(t, "</div>")

	if len(diags) != 1 || diags[0].Kind != MismatchedCloseTag {
		t.Fatalf("got %v, want one MismatchedCloseTag", diags)
	}
	if !strings.Contains(diags[0].Message, "no open tag") {
		t.Errorf("message = %q, want it to mention no open tag", diags[0].Message)
	}
}

func TestValidate_UnclosedTagAtEnd(t *testing.T) {
	diags := validateSource(t, "{if $cond1}<div>{/if}")

	if !hasKind(diags, UnclosedTagAtEndOfTemplate) {
		t.Fatalf("want UnclosedTagAtEndOfTemplate, got %v", diags)
	}
	// The branch leaves [div] open and the no-branch path leaves [];
	// the join must also flag the disagreement.
	if !hasKind(diags, InconsistentBranchStructure) {
		t.Errorf("want InconsistentBranchStructure at the join, got %v", diags)
	}
	for _, d := range diags {
		if d.Kind == UnclosedTagAtEndOfTemplate && !strings.Contains(d.Message, "div") {
			t.Errorf("unclosed message should name div, got %q", d.Message)
		}
	}
}

func TestValidate_UnconditionallyUnclosed(t *testing.T) {
	diags := validateSource(t, "<section><div></div>")

	if len(diags) != 1 || diags[0].Kind != UnclosedTagAtEndOfTemplate {
		t.Fatalf("got %v, want one UnclosedTagAtEndOfTemplate", diags)
	}
	if !strings.Contains(diags[0].Message, "section") {
		t.Errorf("message = %q, want it to name section", diags[0].Message)
	}
}

func TestValidate_InconsistentBranchStructure(t *testing.T) {
	// The true branch leaves <b> open; the else branch leaves <i> open.
	// Both stacks have the same depth but different names.
	diags := validateSource(t, "{if $a}<b>{else}<i>{/if}</b>")

	if !hasKind(diags, InconsistentBranchStructure) {
		t.Fatalf("want InconsistentBranchStructure, got %v", diags)
	}
	found := false
	for _, d := range diags {
		if d.Kind == InconsistentBranchStructure &&
			strings.Contains(d.Message, "[b]") && strings.Contains(d.Message, "[i]") {
			found = true
		}
	}
	if !found {
		t.Errorf("join message should show both stacks [b] and [i], got %v", diags)
	}
}

func TestValidate_ContinuesWithCanonicalStackAfterJoinMismatch(t *testing.T) {
	// After the join disagreement, traversal continues with the
	// first-seen stack [b], so </b> matches and only the join error
	// remains.
	diags := validateSource(t, "{if $a}<b>{else}<i>{/if}</b>")

	for _, d := range diags {
		if d.Kind != InconsistentBranchStructure {
			t.Errorf("unexpected extra diagnostic %v", d)
		}
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	// One mismatch and one unclosed tag in the same template; the
	// validator must not stop at the first finding.
	diags := validateSource(t, "<div><p></span>")

	if !hasKind(diags, MismatchedCloseTag) {
		t.Errorf("want MismatchedCloseTag, got %v", diags)
	}
	if !hasKind(diags, UnclosedTagAtEndOfTemplate) {
		t.Errorf("want UnclosedTagAtEndOfTemplate, got %v", diags)
	}
}

func TestValidate_RecoveryPopsBestMatch(t *testing.T) {
	// </div> arrives while <span> is on top but <div> is open deeper.
	// Recovery removes the deeper <div>, so only one mismatch and one
	// unclosed-span finding remain.
	diags := validateSource(t, "<div><span></div>")

	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics %v, want 2", len(diags), diags)
	}
	if !hasKind(diags, MismatchedCloseTag) || !hasKind(diags, UnclosedTagAtEndOfTemplate) {
		t.Fatalf("got %v, want one mismatch and one unclosed finding", diags)
	}
	for _, d := range diags {
		if d.Kind == UnclosedTagAtEndOfTemplate && !strings.Contains(d.Message, "span") {
			t.Errorf("unclosed message = %q, want it to name span", d.Message)
		}
	}
}

func TestValidate_OrderedBySourcePosition(t *testing.T) {
	// Both arms contain a mismatch; the diagnostics must come out in
	// source order regardless of traversal order.
	diags := validateSource(t, "{if $a}</b>{else}x</c>{/if}")

	if len(diags) < 2 {
		t.Fatalf("got %v, want at least 2 diagnostics", diags)
	}
	for i := 1; i < len(diags); i++ {
		prev, cur := diags[i-1].Loc, diags[i].Loc
		if cur.Before(prev) {
			t.Errorf("diagnostic %d (%v) sorts before %d (%v)", i, cur, i-1, prev)
		}
	}
}

func TestValidate_Deterministic(t *testing.T) {
	const src = "<div>{if $a}</span>{elseif $b}<p>{/if}</div>"

	first := validateSource(t, src)
	for i := 0; i < 10; i++ {
		again := validateSource(t, src)
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d diagnostics, want %d", i, len(again), len(first))
		}
		for j := range first {
			if first[j] != again[j] {
				t.Errorf("run %d: diagnostic %d = %v, want %v", i, j, again[j], first[j])
			}
		}
	}
}

func TestValidate_DuplicateFindingsCollapse(t *testing.T) {
	// The mismatch sits after the join, where only the canonical path
	// traverses; but a defective close inside a shared suffix reached by
	// construction is reported once, not once per incoming path.
	g := buildSource(t, "{if $a}x{/if}</div>")
	diags, err := Validate(g)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if len(diags) != 1 {
		t.Errorf("got %d diagnostics %v, want exactly 1", len(diags), diags)
	}
}

func TestValidate_RootlessGraphIsClean(t *testing.T) {
	g := NewGraph()
	diags, err := Validate(g)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("got %v, want none", diags)
	}
}

func TestValidate_ConditionMissingEdgeIsInternalFault(t *testing.T) {
	g := NewGraph()
	cond := g.AddCondition("$a", testLoc(1, 1))
	open := g.AddOpenTag("div", testLoc(1, 5))
	if err := g.SetSuccessor(cond, EdgeTrue, open); err != nil {
		t.Fatalf("SetSuccessor: %v", err)
	}
	// FALSE edge deliberately left unset.

	if _, err := Validate(g); err == nil {
		t.Error("Validate succeeded on a condition with a missing edge, want internal fault")
	}
}
