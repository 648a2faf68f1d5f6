package formula

import (
	"io"
	"strconv"
	"strings"
)

// expression = term { ("+" | "-") term }
// term       = factor { ("*" | "/") factor }
// factor     = number | "(" expression ")" | ident "(" expression ")" | "-" factor

// Expr is a parsed formula that can be evaluated by an Evaluator.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// parser holds the state of a single parse. It is discarded when Parse
// returns.
type parser struct {
	scan *lexer
	// tok is the lookahead token.
	tok Token
}

// Parse parses a single expression from src.
//
// Parsing stops at the first token that cannot continue the expression. That
// token and anything after it are ignored, so "2+2 garbage" parses as "2+2".
// The token itself must still be valid: "2+2 &" is an error.
func Parse(src io.RuneScanner) (*Expr, error) {
	p := parser{scan: lex(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// advance scans the next lookahead token.
func (p *parser) advance() error {
	tok, err := p.scan.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// expect advances past the lookahead token if it is of the given kind.
func (p *parser) expect(kind TokenKind) error {
	if p.tok.Kind != kind {
		return &UnexpectedTokenError{Want: kind, Got: p.tok}
	}
	return p.advance()
}

func (p *parser) expression() (*node, error) {
	n, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokenPlus || p.tok.Kind == TokenMinus {
		op := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeBinary, op: op.Text[0], pos: op.Pos, left: n, right: rhs}
	}
	return n, nil
}

func (p *parser) term() (*node, error) {
	n, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokenMultiply || p.tok.Kind == TokenDivide {
		op := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeBinary, op: op.Text[0], pos: op.Pos, left: n, right: rhs}
	}
	return n, nil
}

func (p *parser) factor() (*node, error) {
	tok := p.tok
	switch tok.Kind {
	case TokenNumber:
		if err := p.expect(TokenNumber); err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &NumericLiteralError{Col: tok.Pos, Text: tok.Text, Err: err}
		}
		return &node{kind: nodeNum, num: v, text: tok.Text, pos: tok.Pos}, nil
	case TokenLParen:
		if err := p.expect(TokenLParen); err != nil {
			return nil, err
		}
		n, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return n, nil
	case TokenIdentifier:
		if err := p.expect(TokenIdentifier); err != nil {
			return nil, err
		}
		// Calls take exactly one argument, so there is no argument list.
		if err := p.expect(TokenLParen); err != nil {
			return nil, err
		}
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, text: tok.Text, pos: tok.Pos, left: arg}, nil
	case TokenMinus:
		if err := p.expect(TokenMinus); err != nil {
			return nil, err
		}
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeNeg, op: '-', pos: tok.Pos, left: operand}, nil
	default:
		return nil, &InvalidFactorError{Token: tok}
	}
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	return e.n.String()
}
