// ABOUTME: Single-pass graph builder that walks the markup-relevant AST in source order.
// ABOUTME: Wires sequential TRUE edges, chains conditions via FALSE edges, and backpatches branch joins.
package matcher

import (
	"fmt"

	"github.com/frond-lang/frond/template"
)

// maxNestingDepth bounds builder recursion. Template nesting depth is
// author-controlled input, so pathological nesting must fail cleanly instead
// of exhausting the call stack.
const maxNestingDepth = 500

// pendingEdge is an unresolved outgoing edge slot, queued until the node it
// must point at has been allocated.
type pendingEdge struct {
	from NodeID
	kind EdgeKind
}

// builder carries the construction state: the graph under construction and
// the set of dangling edge slots that the next appended node must resolve.
// There is normally exactly one dangling slot (the previous node's TRUE
// edge); zero at the very start, and several transiently while a conditional
// chain's branches await their shared accumulator.
type builder struct {
	g        *Graph
	dangling []pendingEdge
}

// Build constructs the control-flow graph for one template body in a single
// top-to-bottom traversal. Non-markup nodes pass through without effect. The
// returned error reports internal faults and depth-limit violations only;
// structural problems in the markup are the validator's job.
func Build(body []template.Node) (*Graph, error) {
	b := &builder{g: NewGraph()}
	if err := b.walk(body, 0); err != nil {
		return nil, err
	}
	return b.g, nil
}

// walk builds the sub-graph for a node sequence, leaving the sequence's exit
// slots in b.dangling for the caller to resolve.
func (b *builder) walk(nodes []template.Node, depth int) error {
	if depth > maxNestingDepth {
		return fmt.Errorf("conditional nesting exceeds %d levels", maxNestingDepth)
	}

	for _, n := range nodes {
		switch n := n.(type) {
		case *template.OpenTagNode:
			if err := b.appendNode(b.g.AddOpenTag(n.Name, n.Loc)); err != nil {
				return err
			}
		case *template.CloseTagNode:
			if err := b.appendNode(b.g.AddCloseTag(n.Name, n.Loc)); err != nil {
				return err
			}
		case *template.VoidTagNode:
			if err := b.appendNode(b.g.AddVoidTag(n.Name, n.Loc)); err != nil {
				return err
			}
		case *template.IfNode:
			if err := b.walkIf(n, depth); err != nil {
				return err
			}
		default:
			// Text, print commands, and anything else that cannot affect
			// markup structure.
		}
	}
	return nil
}

// appendNode links all dangling slots to id and makes id's TRUE edge the new
// dangling slot.
func (b *builder) appendNode(id NodeID) error {
	if err := b.resolve(b.dangling, id); err != nil {
		return err
	}
	b.dangling = []pendingEdge{{from: id, kind: EdgeTrue}}
	return nil
}

// resolve backpatches every queued edge slot to point at target.
func (b *builder) resolve(pending []pendingEdge, target NodeID) error {
	for _, p := range pending {
		if err := b.g.SetSuccessor(p.from, p.kind, target); err != nil {
			return err
		}
	}
	return nil
}

// walkIf builds one if/elseif/else chain. Each tested branch gets a
// Condition node; consecutive conditions are chained by FALSE edges in
// source order. Every branch's exit slots are queued and backpatched to a
// single fresh Accumulator once all branches are built, and the chain's
// FALSE fall-through joins there too when no else branch exists. A branch
// with no markup-affecting content degenerates to a condition edge aimed
// straight at the accumulator.
func (b *builder) walkIf(n *template.IfNode, depth int) error {
	var join []pendingEdge

	for _, br := range n.Branches {
		cond := b.g.AddCondition(br.Expr, br.Loc)

		// The chain entry inherits the outer dangling slots; later
		// conditions hang off the previous condition's FALSE edge.
		if err := b.resolve(b.dangling, cond); err != nil {
			return err
		}

		b.dangling = []pendingEdge{{from: cond, kind: EdgeTrue}}
		if err := b.walk(br.Body, depth+1); err != nil {
			return err
		}
		join = append(join, b.dangling...)

		b.dangling = []pendingEdge{{from: cond, kind: EdgeFalse}}
	}

	// b.dangling now holds the final condition's FALSE edge: either the else
	// branch entry or the no-branch-taken path.
	if n.Else != nil {
		if err := b.walk(n.Else, depth+1); err != nil {
			return err
		}
	}
	join = append(join, b.dangling...)

	acc := b.g.AddAccumulator(n.Loc)
	if err := b.resolve(join, acc); err != nil {
		return err
	}
	b.dangling = []pendingEdge{{from: acc, kind: EdgeTrue}}
	return nil
}
