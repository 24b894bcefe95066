// Package parser turns filter tokens into an AST using precedence
// climbing. Parse never panics; syntax problems surface as errors wrapping
// ErrSyntax.
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jacoelho/jx/internal/lexer"
	"github.com/jacoelho/jx/internal/value"
)

// ErrSyntax indicates a filter syntax error.
var ErrSyntax = errors.New("parser: syntax error")

// Parse lexes and parses filter source.
func Parse(input string) (Node, error) {
	return New(lexer.Tokenize(input)).Parse()
}

// Parser consumes a token stream.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New returns a Parser over tokens.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) expect(t lexer.Type) error {
	if cur := p.current(); cur.Type != t {
		return fmt.Errorf("%w: expected %q at line %d column %d, got %q",
			ErrSyntax, t, cur.Line, cur.Column, cur.Literal)
	}
	p.advance()
	return nil
}

// Parse consumes the whole token stream and returns the root node.
func (p *Parser) Parse() (Node, error) {
	if tok := p.current(); tok.Type == lexer.Error {
		return nil, fmt.Errorf("%w: unrecognized character %q at line %d column %d",
			ErrSyntax, tok.Literal, tok.Line, tok.Column)
	}

	root, err := p.parsePipe()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != lexer.EOF {
		if tok.Type == lexer.Error {
			return nil, fmt.Errorf("%w: unrecognized character %q at line %d column %d",
				ErrSyntax, tok.Literal, tok.Line, tok.Column)
		}
		return nil, fmt.Errorf("%w: unexpected token %q after expression at line %d column %d",
			ErrSyntax, tok.Literal, tok.Line, tok.Column)
	}
	return root, nil
}

// pipe ::= comma ('|' comma)*
func (p *Parser) parsePipe() (Node, error) {
	left, err := p.parseComma()
	if err != nil {
		return nil, err
	}

	for p.current().Type == lexer.Pipe {
		p.advance()
		right, err := p.parseComma()
		if err != nil {
			return nil, err
		}
		left = &Pipe{Left: left, Right: right}
	}

	return left, nil
}

// comma ::= alt (',' alt)*
func (p *Parser) parseComma() (Node, error) {
	left, err := p.parseAlternative()
	if err != nil {
		return nil, err
	}

	if p.current().Type != lexer.Comma {
		return left, nil
	}

	node := &Comma{Children: []Node{left}}
	for p.current().Type == lexer.Comma {
		p.advance()
		child, err := p.parseAlternative()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// alt ::= cmp ('//' cmp)*
func (p *Parser) parseAlternative() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.current().Type == lexer.Alt {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &Alternative{Left: left, Right: right}
	}

	return left, nil
}

// cmp ::= add (('==' | '!=' | '<' | '<=' | '>' | '>=') add)*
func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for isComparison(p.current().Type) {
		op := p.current().Literal
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}

	return left, nil
}

// add ::= mul (('+' | '-') mul)*
func (p *Parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.current().Type == lexer.Plus || p.current().Type == lexer.Minus {
		op := p.current().Literal
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}

	return left, nil
}

// mul ::= postfix (('*' | '/' | '%') postfix)*
func (p *Parser) parseMultiplicative() (Node, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	for p.current().Type == lexer.Star || p.current().Type == lexer.Slash || p.current().Type == lexer.Percent {
		op := p.current().Literal
		p.advance()
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}

	return left, nil
}

// postfix ::= primary ('.' ident | '.' '[' ... ']' | '[' ... ']')*
func (p *Parser) parsePostfix() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.current().Type {
		case lexer.Dot:
			p.advance()
			switch p.current().Type {
			case lexer.Identifier:
				field := &Field{Name: p.current().Literal}
				p.advance()
				base = &Pipe{Left: base, Right: field}
			case lexer.LBracket:
				access, err := p.parseBracketAccess()
				if err != nil {
					return nil, err
				}
				base = &Pipe{Left: base, Right: access}
			default:
				base = &Pipe{Left: base, Right: &Identity{}}
			}
		case lexer.LBracket:
			access, err := p.parseBracketAccess()
			if err != nil {
				return nil, err
			}
			base = &Pipe{Left: base, Right: access}
		default:
			return base, nil
		}
	}
}

// parseBracketAccess handles `[]`, `[expr]` and `[start:end]` with the
// opening bracket still pending.
func (p *Parser) parseBracketAccess() (Node, error) {
	if err := p.expect(lexer.LBracket); err != nil {
		return nil, err
	}

	if p.current().Type == lexer.RBracket {
		p.advance()
		return &Iterator{}, nil
	}

	start, err := p.parsePipe()
	if err != nil {
		return nil, err
	}

	if p.current().Type == lexer.Colon {
		p.advance()
		end, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		return &Slice{Start: start, End: end}, nil
	}

	if err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return &Index{Child: start}, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case lexer.Number:
		p.advance()
		n, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number literal %q at line %d column %d",
				ErrSyntax, tok.Literal, tok.Line, tok.Column)
		}
		return &Literal{Value: value.Number(n)}, nil

	case lexer.String:
		p.advance()
		return &Literal{Value: value.String(tok.Literal)}, nil

	case lexer.True:
		p.advance()
		return &Literal{Value: value.Bool(true)}, nil

	case lexer.False:
		p.advance()
		return &Literal{Value: value.Bool(false)}, nil

	case lexer.Null:
		p.advance()
		return &Literal{Value: value.Null()}, nil

	case lexer.Dot:
		p.advance()
		switch p.current().Type {
		case lexer.Identifier:
			field := &Field{Name: p.current().Literal}
			p.advance()
			return field, nil
		case lexer.LBracket:
			return p.parseBracketAccess()
		default:
			return &Identity{}, nil
		}

	case lexer.Recursive:
		p.advance()
		return &Recursive{}, nil

	case lexer.LParen:
		p.advance()
		inner, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.LBracket:
		return p.parseArray()

	case lexer.LBrace:
		return p.parseObject()

	case lexer.Identifier:
		name := tok.Literal
		p.advance()
		if p.current().Type == lexer.LParen {
			return p.parseCallArgs(name)
		}
		return &Call{Name: name}, nil

	case lexer.Minus:
		p.advance()
		operand, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "-", Operand: operand}, nil

	case lexer.Not:
		p.advance()
		operand, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "not", Operand: operand}, nil
	}

	return nil, fmt.Errorf("%w: unexpected token %q at line %d column %d",
		ErrSyntax, tok.Literal, tok.Line, tok.Column)
}

// parseArray parses the `[...]` constructor with an optional body.
func (p *Parser) parseArray() (Node, error) {
	if err := p.expect(lexer.LBracket); err != nil {
		return nil, err
	}

	node := &Array{}
	if p.current().Type != lexer.RBracket {
		body, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		node.Body = body
	}

	if err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return node, nil
}

// parseObject parses the `{...}` constructor. Keys are strings,
// identifiers, or parenthesized expressions.
func (p *Parser) parseObject() (Node, error) {
	if err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}

	node := &Object{}
	for p.current().Type != lexer.RBrace && p.current().Type != lexer.EOF {
		var key Node
		switch tok := p.current(); tok.Type {
		case lexer.String, lexer.Identifier:
			key = &Literal{Value: value.String(tok.Literal)}
			p.advance()
		case lexer.LParen:
			p.advance()
			inner, err := p.parsePipe()
			if err != nil {
				return nil, err
			}
			if err := p.expect(lexer.RParen); err != nil {
				return nil, err
			}
			key = inner
		default:
			return nil, fmt.Errorf("%w: unexpected object key %q at line %d column %d",
				ErrSyntax, tok.Literal, tok.Line, tok.Column)
		}

		if err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}

		// A value may contain pipes but not a bare comma, which separates
		// entries.
		val, err := p.parseAlternative()
		if err != nil {
			return nil, err
		}
		for p.current().Type == lexer.Pipe {
			p.advance()
			right, err := p.parseAlternative()
			if err != nil {
				return nil, err
			}
			val = &Pipe{Left: val, Right: right}
		}
		node.Entries = append(node.Entries, ObjectEntry{Key: key, Value: val})

		if p.current().Type != lexer.Comma {
			break
		}
		p.advance()
	}

	if err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return node, nil
}

// parseCallArgs parses `( pipe (';' pipe)* )` after a function name.
func (p *Parser) parseCallArgs(name string) (Node, error) {
	if err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	node := &Call{Name: name}
	if p.current().Type != lexer.RParen {
		arg, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, arg)

		for p.current().Type == lexer.Semicolon {
			p.advance()
			arg, err := p.parsePipe()
			if err != nil {
				return nil, err
			}
			node.Args = append(node.Args, arg)
		}
	}

	if err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return node, nil
}

func isComparison(t lexer.Type) bool {
	switch t {
	case lexer.Eq, lexer.Ne, lexer.Lt, lexer.Le, lexer.Gt, lexer.Ge:
		return true
	}
	return false
}
