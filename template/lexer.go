// ABOUTME: Tokenizer for frond template source that splits text, markup tags, and brace commands.
// ABOUTME: Tracks line and column per token and reports unterminated tags, commands, and strings.
package template

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF      TokenType = iota
	TokenText               // raw text run
	TokenOpenTag            // <name ...>
	TokenCloseTag           // </name>
	TokenSelfTag            // <name ... /> (explicit self-closing)
	TokenIf                 // {if expr}
	TokenElseif             // {elseif expr}
	TokenElse               // {else}
	TokenIfEnd              // {/if}
	TokenPrint              // {$expr} or any other brace command
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenText:
		return "TEXT"
	case TokenOpenTag:
		return "OPEN_TAG"
	case TokenCloseTag:
		return "CLOSE_TAG"
	case TokenSelfTag:
		return "SELF_TAG"
	case TokenIf:
		return "IF"
	case TokenElseif:
		return "ELSEIF"
	case TokenElse:
		return "ELSE"
	case TokenIfEnd:
		return "IF_END"
	case TokenPrint:
		return "PRINT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Token represents a single lexical token. For tag tokens Value holds the
// lowercased tag name; for command tokens it holds the expression text.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// lexer holds the state of the template scanner.
type lexer struct {
	input  []rune
	pos    int
	line   int
	col    int
	tokens []Token
}

// Lex tokenizes template-body source into a token stream ending with EOF.
func Lex(input string) ([]Token, error) {
	l := &lexer{
		input:  []rune(input),
		pos:    0,
		line:   1,
		col:    1,
		tokens: make([]Token, 0),
	}

	if err := l.scan(); err != nil {
		return nil, err
	}

	return l.tokens, nil
}

// scan processes the whole input, alternating between text runs, markup
// tags, and brace commands.
func (l *lexer) scan() error {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '<':
			if err := l.lexTag(); err != nil {
				return err
			}
		case '{':
			if err := l.lexCommand(); err != nil {
				return err
			}
		default:
			l.lexText()
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Line: l.line, Col: l.col})
	return nil
}

// advance moves the position forward by one character, tracking line and column.
func (l *lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

// lexText reads a run of characters up to the next '<' or '{'.
func (l *lexer) lexText() {
	startLine := l.line
	startCol := l.col
	var sb strings.Builder

	for l.pos < len(l.input) && l.input[l.pos] != '<' && l.input[l.pos] != '{' {
		sb.WriteRune(l.input[l.pos])
		l.advance()
	}

	l.tokens = append(l.tokens, Token{Type: TokenText, Value: sb.String(), Line: startLine, Col: startCol})
}

// lexTag reads a markup tag: <name ...>, </name>, or <name ... />.
// A '<' not followed by a tag name or '/' is treated as literal text.
func (l *lexer) lexTag() error {
	startLine := l.line
	startCol := l.col

	// Peek past '<' to decide whether this is really a tag.
	next := l.pos + 1
	closing := false
	if next < len(l.input) && l.input[next] == '/' {
		closing = true
		next++
	}
	if next >= len(l.input) || !isNameStart(l.input[next]) {
		// Literal '<' in text.
		var sb strings.Builder
		sb.WriteRune(l.input[l.pos])
		l.advance()
		l.tokens = append(l.tokens, Token{Type: TokenText, Value: sb.String(), Line: startLine, Col: startCol})
		return nil
	}

	l.advance() // consume '<'
	if closing {
		l.advance() // consume '/'
	}

	name := l.lexName()

	// Skip attributes and whitespace up to the closing '>'. Quoted attribute
	// values may contain '>' and must be skipped as a unit.
	selfClosing := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '"' || ch == '\'' {
			if err := l.skipQuoted(ch); err != nil {
				return err
			}
			continue
		}
		if ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '>' {
			selfClosing = true
			l.advance()
			l.advance()
			break
		}
		if ch == '>' {
			l.advance()
			break
		}
		l.advance()
	}
	if l.pos >= len(l.input) && l.input[l.pos-1] != '>' {
		return fmt.Errorf("unterminated tag <%s at line %d, col %d", name, startLine, startCol)
	}

	typ := TokenOpenTag
	if closing {
		typ = TokenCloseTag
	} else if selfClosing {
		typ = TokenSelfTag
	}
	l.tokens = append(l.tokens, Token{Type: typ, Value: name, Line: startLine, Col: startCol})
	return nil
}

// lexName reads a tag name and lowercases it; markup tag names match
// case-insensitively.
func (l *lexer) lexName() string {
	var sb strings.Builder
	for l.pos < len(l.input) && isNameChar(l.input[l.pos]) {
		sb.WriteRune(l.input[l.pos])
		l.advance()
	}
	return strings.ToLower(sb.String())
}

// skipQuoted skips a quoted attribute value, including the closing quote.
func (l *lexer) skipQuoted(quote rune) error {
	startLine := l.line
	startCol := l.col
	l.advance() // opening quote
	for l.pos < len(l.input) {
		if l.input[l.pos] == quote {
			l.advance()
			return nil
		}
		l.advance()
	}
	return fmt.Errorf("unterminated attribute value at line %d, col %d", startLine, startCol)
}

// lexCommand reads a brace command: {if expr}, {elseif expr}, {else},
// {/if}, or any other command which is emitted as an opaque print token.
func (l *lexer) lexCommand() error {
	startLine := l.line
	startCol := l.col
	l.advance() // consume '{'

	var sb strings.Builder
	for l.pos < len(l.input) && l.input[l.pos] != '}' {
		sb.WriteRune(l.input[l.pos])
		l.advance()
	}
	if l.pos >= len(l.input) {
		return fmt.Errorf("unterminated command starting at line %d, col %d", startLine, startCol)
	}
	l.advance() // consume '}'

	body := strings.TrimSpace(sb.String())
	tok := Token{Line: startLine, Col: startCol}

	switch {
	case body == "/if":
		tok.Type = TokenIfEnd
	case body == "else":
		tok.Type = TokenElse
	case body == "if" || (strings.HasPrefix(body, "if") && hasCommandBreak(body, 2)):
		tok.Type = TokenIf
		tok.Value = strings.TrimSpace(body[2:])
	case body == "elseif" || (strings.HasPrefix(body, "elseif") && hasCommandBreak(body, 6)):
		tok.Type = TokenElseif
		tok.Value = strings.TrimSpace(body[6:])
	default:
		tok.Type = TokenPrint
		tok.Value = body
	}

	if (tok.Type == TokenIf || tok.Type == TokenElseif) && tok.Value == "" {
		return fmt.Errorf("missing condition expression at line %d, col %d", startLine, startCol)
	}

	l.tokens = append(l.tokens, tok)
	return nil
}

// hasCommandBreak reports whether the command keyword ending at index idx is
// followed by whitespace, so that "{iffy}" is not mistaken for "{if fy}".
func hasCommandBreak(body string, idx int) bool {
	if len(body) <= idx {
		return false
	}
	return unicode.IsSpace(rune(body[idx]))
}

func isNameStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isNameChar(ch rune) bool {
	return ch == '_' || ch == '-' || ch == ':' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
