// ABOUTME: AST types for the markup-relevant subset of the frond template language.
// ABOUTME: Defines tag, text, print, and conditional nodes, each carrying a source location.
package template

import "fmt"

// SourceLocation identifies a position in template source, used by diagnostics.
type SourceLocation struct {
	File string
	Line int
	Col  int
}

// String renders the location as "file:line:col". An unknown location
// (zero value) renders as "<unknown>".
func (l SourceLocation) String() string {
	if l.Line == 0 {
		return "<unknown>"
	}
	file := l.File
	if file == "" {
		file = "<template>"
	}
	return fmt.Sprintf("%s:%d:%d", file, l.Line, l.Col)
}

// Before reports whether l appears before other in source order.
// Locations in different files compare by file name.
func (l SourceLocation) Before(other SourceLocation) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Col < other.Col
}

// Node is a template AST node. The matcher pass consumes OpenTagNode,
// CloseTagNode, VoidTagNode, and IfNode; every other node kind is opaque
// pass-through content with no effect on markup structure.
type Node interface {
	Location() SourceLocation
}

// OpenTagNode is an opening markup tag: <div>. Attributes are irrelevant to
// structural validation and are not retained.
type OpenTagNode struct {
	Name string
	Loc  SourceLocation
}

// CloseTagNode is a closing markup tag: </div>.
type CloseTagNode struct {
	Name string
	Loc  SourceLocation
}

// VoidTagNode is a self-closing or HTML void tag: <br>, <img/>. It never
// affects the structural tag stack.
type VoidTagNode struct {
	Name string
	Loc  SourceLocation
}

// TextNode is raw template text, opaque to structural validation.
type TextNode struct {
	Text string
	Loc  SourceLocation
}

// PrintNode is a print command {$expr} or any non-structural brace command.
// Its output is treated as text and never as markup structure.
type PrintNode struct {
	Expr string
	Loc  SourceLocation
}

// ConditionalBranch is one tested arm of an if/elseif chain.
type ConditionalBranch struct {
	Expr string
	Body []Node
	Loc  SourceLocation
}

// IfNode is a full {if}...{elseif}...{else}...{/if} chain. Branches holds
// the tested arms in source order; Else is nil when no {else} is present.
type IfNode struct {
	Branches []ConditionalBranch
	Else     []Node
	Loc      SourceLocation
}

func (n *OpenTagNode) Location() SourceLocation  { return n.Loc }
func (n *CloseTagNode) Location() SourceLocation { return n.Loc }
func (n *VoidTagNode) Location() SourceLocation  { return n.Loc }
func (n *TextNode) Location() SourceLocation     { return n.Loc }
func (n *PrintNode) Location() SourceLocation    { return n.Loc }
func (n *IfNode) Location() SourceLocation       { return n.Loc }

// voidElements lists the HTML5 void elements, which cannot have closing tags
// and therefore never push onto the structural stack.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether name is an HTML5 void element. Matching is
// case-insensitive at the lexer level; name must already be lowercased.
func IsVoidElement(name string) bool {
	return voidElements[name]
}
