// ABOUTME: Diagnostic kinds and the collector that accumulates structural errors.
// ABOUTME: Deduplicates identical findings and orders them by source position for stable output.
package matcher

import (
	"fmt"
	"sort"

	"github.com/frond-lang/frond/template"
)

// DiagnosticKind classifies a structural error found by the validator.
type DiagnosticKind int

const (
	// MismatchedCloseTag: a close tag does not match the innermost open tag
	// on its control-flow path.
	MismatchedCloseTag DiagnosticKind = iota

	// InconsistentBranchStructure: two paths reconverging at a join point
	// disagree on unclosed-tag structure.
	InconsistentBranchStructure

	// UnclosedTagAtEndOfTemplate: the outermost path terminates with a
	// non-empty tag stack.
	UnclosedTagAtEndOfTemplate
)

// String returns a stable identifier for the diagnostic kind.
func (k DiagnosticKind) String() string {
	switch k {
	case MismatchedCloseTag:
		return "MISMATCHED_CLOSE_TAG"
	case InconsistentBranchStructure:
		return "INCONSISTENT_BRANCH_STRUCTURE"
	case UnclosedTagAtEndOfTemplate:
		return "UNCLOSED_TAG_AT_END_OF_TEMPLATE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// Diagnostic is one structural error. Diagnostics are produced only by the
// validator, never by the builder, and are never used as control flow.
type Diagnostic struct {
	Kind    DiagnosticKind
	Loc     template.SourceLocation
	Message string
}

// String renders the diagnostic as "file:line:col: KIND: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Loc, d.Kind, d.Message)
}

// collector accumulates diagnostics during a validation walk. Identical
// findings (same kind, location, and message) are recorded once; separate
// control-flow paths can revisit the same defective node.
type collector struct {
	seen  map[Diagnostic]bool
	diags []Diagnostic
}

func newCollector() *collector {
	return &collector{seen: make(map[Diagnostic]bool)}
}

// add records a diagnostic unless an identical one was already seen.
func (c *collector) add(d Diagnostic) {
	if c.seen[d] {
		return
	}
	c.seen[d] = true
	c.diags = append(c.diags, d)
}

// list returns the collected diagnostics ordered by source position, with
// discovery order breaking ties. The ordering is what makes repeated runs
// over the same graph byte-for-byte reproducible.
func (c *collector) list() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Loc.Before(out[j].Loc)
	})
	return out
}
