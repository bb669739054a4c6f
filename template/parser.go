// ABOUTME: Recursive descent parser that turns a frond token stream into the markup-relevant AST.
// ABOUTME: Handles tag classification (open/close/void) and balanced if/elseif/else/if-end chains.
package template

import (
	"fmt"
)

// Option configures parsing.
type Option func(*parser)

// WithVoidElements marks additional tag names as void elements for this
// parse, on top of the standard HTML5 set. Names match case-insensitively.
func WithVoidElements(names ...string) Option {
	return func(p *parser) {
		for _, n := range names {
			p.extraVoid[lowerASCII(n)] = true
		}
	}
}

// parser holds the state of the recursive descent parser.
type parser struct {
	file      string
	tokens    []Token
	pos       int
	extraVoid map[string]bool
}

// Parse parses template-body source into a list of AST nodes. The file name
// is only used to populate source locations.
func Parse(file, input string, opts ...Option) ([]Node, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, fmt.Errorf("%s: lex error: %w", file, err)
	}

	p := &parser{
		file:      file,
		tokens:    tokens,
		extraVoid: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	// parseBody stops at branch delimiters; at top level any leftover
	// delimiter is unmatched.
	if tok := p.current(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("%s: unmatched {%s} at line %d, col %d",
			file, commandName(tok.Type), tok.Line, tok.Col)
	}

	return body, nil
}

// current returns the current token.
func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token and returns the consumed token.
func (p *parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// loc builds a SourceLocation for the given token.
func (p *parser) loc(tok Token) SourceLocation {
	return SourceLocation{File: p.file, Line: tok.Line, Col: tok.Col}
}

// parseBody parses nodes until EOF or a branch delimiter ({elseif}, {else},
// {/if}), which is left unconsumed for the caller.
func (p *parser) parseBody() ([]Node, error) {
	var nodes []Node

	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF, TokenElseif, TokenElse, TokenIfEnd:
			return nodes, nil

		case TokenText:
			p.advance()
			if tok.Value != "" {
				nodes = append(nodes, &TextNode{Text: tok.Value, Loc: p.loc(tok)})
			}

		case TokenPrint:
			p.advance()
			nodes = append(nodes, &PrintNode{Expr: tok.Value, Loc: p.loc(tok)})

		case TokenOpenTag:
			p.advance()
			if p.isVoid(tok.Value) {
				nodes = append(nodes, &VoidTagNode{Name: tok.Value, Loc: p.loc(tok)})
			} else {
				nodes = append(nodes, &OpenTagNode{Name: tok.Value, Loc: p.loc(tok)})
			}

		case TokenSelfTag:
			p.advance()
			nodes = append(nodes, &VoidTagNode{Name: tok.Value, Loc: p.loc(tok)})

		case TokenCloseTag:
			p.advance()
			nodes = append(nodes, &CloseTagNode{Name: tok.Value, Loc: p.loc(tok)})

		case TokenIf:
			ifNode, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, ifNode)

		default:
			return nil, fmt.Errorf("%s: unexpected token %v at line %d, col %d",
				p.file, tok.Type, tok.Line, tok.Col)
		}
	}
}

// parseIf parses a full {if}...{elseif}...{else}...{/if} chain. The current
// token must be TokenIf.
func (p *parser) parseIf() (*IfNode, error) {
	ifTok := p.advance()
	node := &IfNode{Loc: p.loc(ifTok)}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	node.Branches = append(node.Branches, ConditionalBranch{
		Expr: ifTok.Value,
		Body: body,
		Loc:  p.loc(ifTok),
	})

	for p.current().Type == TokenElseif {
		elseifTok := p.advance()
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		node.Branches = append(node.Branches, ConditionalBranch{
			Expr: elseifTok.Value,
			Body: body,
			Loc:  p.loc(elseifTok),
		})
	}

	if p.current().Type == TokenElse {
		p.advance()
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		if body == nil {
			// A present-but-empty {else} still suppresses the implicit
			// no-branch-taken path, so it must not collapse to nil.
			body = []Node{}
		}
		node.Else = body

		if p.current().Type == TokenElse || p.current().Type == TokenElseif {
			tok := p.current()
			return nil, fmt.Errorf("%s: {%s} after {else} at line %d, col %d",
				p.file, commandName(tok.Type), tok.Line, tok.Col)
		}
	}

	if tok := p.current(); tok.Type != TokenIfEnd {
		return nil, fmt.Errorf("%s: missing {/if} for {if} at line %d, col %d",
			p.file, ifTok.Line, ifTok.Col)
	}
	p.advance() // consume {/if}

	return node, nil
}

// isVoid reports whether a tag name denotes a void element under the
// standard HTML5 set plus any configured extras.
func (p *parser) isVoid(name string) bool {
	return IsVoidElement(name) || p.extraVoid[name]
}

// commandName maps a delimiter token type to its source spelling.
func commandName(t TokenType) string {
	switch t {
	case TokenElseif:
		return "elseif"
	case TokenElse:
		return "else"
	case TokenIfEnd:
		return "/if"
	default:
		return t.String()
	}
}

// lowerASCII lowercases ASCII letters without allocating for the common
// already-lowercase case.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
