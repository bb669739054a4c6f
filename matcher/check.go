// ABOUTME: Top-level check pass that builds the control-flow graph and runs structural validation.
// ABOUTME: Non-empty diagnostics gate downstream code generation; errors are internal faults only.
package matcher

import (
	"errors"
	"fmt"

	"github.com/frond-lang/frond/template"
)

// ErrParse marks front-end failures from CheckSource so callers can tell
// malformed source apart from internal faults.
var ErrParse = errors.New("parse error")

// Result is the output of the check pass: the immutable graph and the
// ordered diagnostic list. When Diagnostics is non-empty the compiler
// pipeline must not run code generation for this template; when it is empty
// the graph may be reused by downstream passes instead of recomputed.
type Result struct {
	Graph       *Graph
	Diagnostics []Diagnostic
}

// OK reports whether the template's markup is structurally well-formed on
// every control-flow path.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Check runs the full pass over an already-parsed template body. The error
// return carries internal faults (builder defects, nesting-depth violations),
// never user-level structural problems.
func Check(body []template.Node) (*Result, error) {
	g, err := Build(body)
	if err != nil {
		return nil, err
	}
	diags, err := Validate(g)
	if err != nil {
		return nil, err
	}
	return &Result{Graph: g, Diagnostics: diags}, nil
}

// CheckSource parses template-body source and runs the check pass on it.
// Parse errors come back wrapped; they are front-end failures, distinct from
// both diagnostics and internal faults.
func CheckSource(file, src string, opts ...template.Option) (*Result, error) {
	body, err := template.Parse(file, src, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return Check(body)
}
