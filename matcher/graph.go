// ABOUTME: Arena-backed control-flow graph model for markup structure checking.
// ABOUTME: Defines NodeKind/EdgeKind enums, the GraphNode variant, and the edge side table.
package matcher

import (
	"fmt"

	"github.com/frond-lang/frond/template"
)

// NodeID is an index into the graph's node arena.
type NodeID int

// EdgeKind labels an outgoing edge. Every node has at most one EdgeTrue
// successor (the sequential continuation); only condition nodes also have
// an EdgeFalse successor.
type EdgeKind int

const (
	EdgeTrue EdgeKind = iota
	EdgeFalse
)

// String returns a human-readable name for the edge kind.
func (k EdgeKind) String() string {
	switch k {
	case EdgeTrue:
		return "TRUE"
	case EdgeFalse:
		return "FALSE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// NodeKind discriminates the GraphNode variant. The set is closed: both the
// builder and the validator switch exhaustively over it, so a new
// markup-affecting construct must update both.
type NodeKind int

const (
	KindOpenTag NodeKind = iota
	KindCloseTag
	KindVoidTag
	KindCondition
	KindAccumulator
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindOpenTag:
		return "OPEN_TAG"
	case KindCloseTag:
		return "CLOSE_TAG"
	case KindVoidTag:
		return "VOID_TAG"
	case KindCondition:
		return "CONDITION"
	case KindAccumulator:
		return "ACCUMULATOR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// GraphNode is one tagged variant in the control-flow graph. Tag is set for
// the three tag kinds, Expr for conditions. Accumulators carry neither; their
// Loc points at the owning conditional chain so diagnostics raised at the
// join can reference source.
type GraphNode struct {
	Kind NodeKind
	Tag  string
	Expr string
	Loc  template.SourceLocation
}

// Label renders a short description of the node for DOT output and errors.
func (n GraphNode) Label() string {
	switch n.Kind {
	case KindOpenTag:
		return "<" + n.Tag + ">"
	case KindCloseTag:
		return "</" + n.Tag + ">"
	case KindVoidTag:
		return "<" + n.Tag + "/>"
	case KindCondition:
		return "if " + n.Expr
	case KindAccumulator:
		return "join"
	default:
		return n.Kind.String()
	}
}

// edgeKey identifies one outgoing edge slot.
type edgeKey struct {
	from NodeID
	kind EdgeKind
}

// Graph is the control-flow graph over a template's markup-affecting nodes.
// Nodes live in a flat arena; edges live in a side table keyed by
// (node, edge kind), so the graph has no embedded references and no
// ownership cycles. Nodes and edges are only ever appended, never removed.
type Graph struct {
	nodes []GraphNode
	edges map[edgeKey]NodeID
	root  NodeID // -1 while no markup-affecting node exists
}

// NewGraph returns an empty graph with no root.
func NewGraph() *Graph {
	return &Graph{
		edges: make(map[edgeKey]NodeID),
		root:  -1,
	}
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Root returns the entry node of the graph. ok is false for a template that
// produced no markup-affecting nodes.
func (g *Graph) Root() (NodeID, bool) {
	if g.root < 0 {
		return 0, false
	}
	return g.root, true
}

// Node returns the node stored at id. An out-of-range id is an internal
// fault: ids are only minted by this graph, so a bad one means a builder or
// caller defect, never a property of user input.
func (g *Graph) Node(id NodeID) (GraphNode, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return GraphNode{}, fmt.Errorf("internal: node id %d out of range (arena size %d)", id, len(g.nodes))
	}
	return g.nodes[id], nil
}

// Successor returns the target of the (id, kind) edge, if set.
func (g *Graph) Successor(id NodeID, kind EdgeKind) (NodeID, bool) {
	to, ok := g.edges[edgeKey{from: id, kind: kind}]
	return to, ok
}

// SetSuccessor wires the (from, kind) edge to point at to. Setting a slot
// twice, putting a FALSE edge on a non-condition node, or referencing an
// out-of-range node is an internal fault that aborts the pass.
func (g *Graph) SetSuccessor(from NodeID, kind EdgeKind, to NodeID) error {
	fromNode, err := g.Node(from)
	if err != nil {
		return err
	}
	if _, err := g.Node(to); err != nil {
		return err
	}
	if kind == EdgeFalse && fromNode.Kind != KindCondition {
		return fmt.Errorf("internal: FALSE edge on %s node %d", fromNode.Kind, from)
	}

	key := edgeKey{from: from, kind: kind}
	if prev, exists := g.edges[key]; exists {
		return fmt.Errorf("internal: %s edge of node %d already set to %d", kind, from, prev)
	}
	g.edges[key] = to
	return nil
}

// add appends a node to the arena, making it the root if none exists yet.
func (g *Graph) add(n GraphNode) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	if g.root < 0 {
		g.root = id
	}
	return id
}

// AddOpenTag appends an open-tag node.
func (g *Graph) AddOpenTag(name string, loc template.SourceLocation) NodeID {
	return g.add(GraphNode{Kind: KindOpenTag, Tag: name, Loc: loc})
}

// AddCloseTag appends a close-tag node.
func (g *Graph) AddCloseTag(name string, loc template.SourceLocation) NodeID {
	return g.add(GraphNode{Kind: KindCloseTag, Tag: name, Loc: loc})
}

// AddVoidTag appends a void-tag node.
func (g *Graph) AddVoidTag(name string, loc template.SourceLocation) NodeID {
	return g.add(GraphNode{Kind: KindVoidTag, Tag: name, Loc: loc})
}

// AddCondition appends a condition node for one test of an if/elseif chain.
func (g *Graph) AddCondition(expr string, loc template.SourceLocation) NodeID {
	return g.add(GraphNode{Kind: KindCondition, Expr: expr, Loc: loc})
}

// AddAccumulator appends a join node. loc points at the owning chain.
func (g *Graph) AddAccumulator(loc template.SourceLocation) NodeID {
	return g.add(GraphNode{Kind: KindAccumulator, Loc: loc})
}
