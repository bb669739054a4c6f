// ABOUTME: Abstract stack interpretation over the control-flow graph to prove markup well-formedness.
// ABOUTME: Forks at conditions, enforces canonical stacks at join points, and collects ordered diagnostics.
package matcher

import (
	"fmt"
	"strings"

	"github.com/frond-lang/frond/template"
)

// stackEntry is one currently-unclosed tag on a path's structural stack. The
// open location rides along so end-of-template diagnostics can point at the
// tag that was never closed.
type stackEntry struct {
	name string
	loc  template.SourceLocation
}

// tagStack is the abstract per-path state: the ordered sequence of
// currently-unclosed tag names, innermost last.
type tagStack []stackEntry

// clone returns an independent copy. The copy's capacity equals its length,
// so a later push on either side cannot alias the other.
func (s tagStack) clone() tagStack {
	if len(s) == 0 {
		return nil
	}
	out := make(tagStack, len(s))
	copy(out, s)
	return out
}

// equal reports whether two stacks hold the same names in the same order.
// Open locations are deliberately ignored: reopening the same tag name in a
// different branch yields consistent structure.
func (s tagStack) equal(other tagStack) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i].name != other[i].name {
			return false
		}
	}
	return true
}

// String renders the stack as "[div, span]", outermost first.
func (s tagStack) String() string {
	names := make([]string, len(s))
	for i, e := range s {
		names[i] = e.name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// frame is one pending traversal continuation.
type frame struct {
	id    NodeID
	stack tagStack
}

// Validate walks every control-flow path through the graph and reports all
// structural errors it finds; it never stops at the first. The walk always
// terminates: conditions fork, but a join node is traversed past at most
// once (the first arrival), and the graph is acyclic by construction.
//
// The returned error reports internal faults only — a condition node missing
// an edge, or a dangling node reference — which indicate a builder defect
// and abort the pass.
func Validate(g *Graph) ([]Diagnostic, error) {
	diags := newCollector()

	root, ok := g.Root()
	if !ok {
		// No markup-affecting nodes: nothing to prove.
		return nil, nil
	}

	// canonical records, per accumulator, the stack presented by the first
	// arriving path. Later arrivals are compared against it and never
	// traversed further.
	canonical := make(map[NodeID]tagStack)

	// Explicit work stack instead of recursion; forks push the FALSE
	// continuation first so the TRUE path is explored first, keeping
	// discovery order aligned with source order.
	work := []frame{{id: root, stack: nil}}

	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		node, err := g.Node(f.id)
		if err != nil {
			return nil, err
		}
		stack := f.stack

		switch node.Kind {
		case KindOpenTag:
			stack = append(stack, stackEntry{name: node.Tag, loc: node.Loc})

		case KindCloseTag:
			stack = closeTag(stack, node, diags)

		case KindVoidTag:
			// No stack effect.

		case KindCondition:
			trueNext, okTrue := g.Successor(f.id, EdgeTrue)
			falseNext, okFalse := g.Successor(f.id, EdgeFalse)
			if !okTrue || !okFalse {
				return nil, fmt.Errorf("internal: condition node %d reached validation with a missing edge", f.id)
			}
			work = append(work,
				frame{id: falseNext, stack: stack.clone()},
				frame{id: trueNext, stack: stack},
			)
			continue

		case KindAccumulator:
			canon, seen := canonical[f.id]
			if seen {
				if !stack.equal(canon) {
					diags.add(Diagnostic{
						Kind: InconsistentBranchStructure,
						Loc:  node.Loc,
						Message: fmt.Sprintf("conditional branches disagree on open tags: %s vs %s",
							canon, stack),
					})
				}
				// Traversal past this join already happened with the
				// canonical stack; do not fork again.
				continue
			}
			// Store an independent copy: the continuing path mutates its
			// stack in place and must not corrupt the canonical record.
			canonical[f.id] = stack.clone()

		default:
			return nil, fmt.Errorf("internal: unknown node kind %d at node %d", node.Kind, f.id)
		}

		next, ok := g.Successor(f.id, EdgeTrue)
		if !ok {
			// Path terminus. Joins guarantee this is the end of the
			// outermost block, where everything must be closed.
			if len(stack) > 0 {
				diags.add(Diagnostic{
					Kind:    UnclosedTagAtEndOfTemplate,
					Loc:     stack[0].loc,
					Message: fmt.Sprintf("template ends with unclosed tags %s", stack),
				})
			}
			continue
		}
		work = append(work, frame{id: next, stack: stack})
	}

	return diags.list(), nil
}

// closeTag applies a close-tag node to the stack, emitting a mismatch
// diagnostic when the innermost open tag disagrees. Recovery pops the best
// available match so the walk surfaces further errors instead of aborting:
// the innermost occurrence of the closed name if one is open anywhere, the
// top of the stack otherwise.
func closeTag(stack tagStack, node GraphNode, diags *collector) tagStack {
	if len(stack) == 0 {
		diags.add(Diagnostic{
			Kind:    MismatchedCloseTag,
			Loc:     node.Loc,
			Message: fmt.Sprintf("close tag </%s> with no open tag", node.Tag),
		})
		return stack
	}

	top := stack[len(stack)-1]
	if top.name == node.Tag {
		return stack[:len(stack)-1]
	}

	diags.add(Diagnostic{
		Kind:    MismatchedCloseTag,
		Loc:     node.Loc,
		Message: fmt.Sprintf("close tag </%s> does not match open tag <%s>", node.Tag, top.name),
	})

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == node.Tag {
			return append(stack[:i], stack[i+1:]...)
		}
	}
	return stack[:len(stack)-1]
}
