// ABOUTME: Serializer that renders a matcher control-flow graph as a Graphviz DOT digraph.
// ABOUTME: Deterministic output with kind-based shapes, solid TRUE edges, and dashed labeled FALSE edges.
package dot

import (
	"fmt"
	"strings"

	"github.com/frond-lang/frond/matcher"
)

// kindShapes maps node kinds to DOT shapes for visualization.
var kindShapes = map[matcher.NodeKind]string{
	matcher.KindOpenTag:     "box",
	matcher.KindCloseTag:    "box",
	matcher.KindVoidTag:     "oval",
	matcher.KindCondition:   "diamond",
	matcher.KindAccumulator: "point",
}

// Serialize renders the control-flow graph as a DOT digraph. Nodes are
// emitted in arena order and ids are stable, so the same graph always
// serializes to the same bytes.
func Serialize(g *matcher.Graph) string {
	var b strings.Builder

	b.WriteString("digraph markup {\n")
	b.WriteString("  rankdir=TB\n")

	if root, ok := g.Root(); ok {
		fmt.Fprintf(&b, "  // root: n%d\n", root)
	}
	b.WriteString("\n")

	for id := matcher.NodeID(0); int(id) < g.Len(); id++ {
		node, err := g.Node(id)
		if err != nil {
			// Unreachable inside the arena bounds.
			continue
		}
		shape := kindShapes[node.Kind]
		fmt.Fprintf(&b, "  n%d [label=%s, shape=%s]\n", id, quoteValue(node.Label()), shape)
	}

	b.WriteString("\n")

	for id := matcher.NodeID(0); int(id) < g.Len(); id++ {
		if to, ok := g.Successor(id, matcher.EdgeTrue); ok {
			fmt.Fprintf(&b, "  n%d -> n%d\n", id, to)
		}
		if to, ok := g.Successor(id, matcher.EdgeFalse); ok {
			fmt.Fprintf(&b, "  n%d -> n%d [label=false, style=dashed]\n", id, to)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// quoteValue returns a DOT-safe representation of a value. Bare identifiers
// are returned as-is; everything else is double-quoted with escaping.
func quoteValue(val string) string {
	if val == "" {
		return `""`
	}

	if isBareIdentifier(val) {
		return val
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, ch := range val {
		switch ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(ch)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// isBareIdentifier reports whether a value can appear unquoted in DOT:
// letters, digits, and underscores, not starting with a digit.
func isBareIdentifier(val string) bool {
	for i, ch := range val {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
