package formula

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a single lexical unit of a formula.
type Token struct {
	// Kind is the kind of the token.
	Kind TokenKind
	// Text is the lexeme. It is empty only for TokenEndOfInput.
	Text string
	// Pos is the number of runes up to and including the first rune of the
	// token.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the kind of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenEndOfInput indicates the end of the input.
	TokenEndOfInput
	// TokenNumber is a run of decimal digits and points.
	TokenNumber
	// TokenIdentifier is a function name.
	TokenIdentifier

	// Single-rune tokens, in the same order as Operators.
	TokenPlus
	TokenMinus
	TokenMultiply
	TokenDivide
	TokenLParen
	TokenRParen
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=TokenKind -trimprefix=Token

// Operators contains the runes that each form a token by themselves. The rune
// at byte position k has the kind TokenPlus+k.
const Operators = "+-*/()"

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// col is the number of runes read from src.
	col int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// next scans the next token from the input. At the end of the input, the
// result is an end of input token, as many times as next is called.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Token{Kind: TokenEndOfInput, Pos: l.col + 1}, nil
			}
			return Token{Pos: l.col}, err
		}
		pos := l.col
		switch {
		case unicode.IsSpace(r):
			continue
		case isDigit(r):
			l.buf.WriteRune(r)
			if err := l.scanWhile(isNumeric); err != nil {
				return Token{Pos: pos}, err
			}
			return Token{Kind: TokenNumber, Text: l.buf.String(), Pos: pos}, nil
		case isLetter(r):
			l.buf.WriteRune(r)
			if err := l.scanWhile(isLetter); err != nil {
				return Token{Pos: pos}, err
			}
			return Token{Kind: TokenIdentifier, Text: l.buf.String(), Pos: pos}, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				return Token{Kind: TokenPlus + TokenKind(k), Text: Operators[k : k+1], Pos: pos}, nil
			}
			return Token{Pos: pos}, &UnknownCharacterError{Char: r, Col: pos}
		}
	}
}

// scanWhile appends runes to the buffer for as long as they satisfy ok. The
// first rune that does not is left unread.
func (l *lexer) scanWhile(ok func(rune) bool) error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !ok(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isNumeric reports whether r can continue a number literal. There is no
// check for more than one point; that is left to the parser.
func isNumeric(r rune) bool {
	return isDigit(r) || r == '.'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// UnknownCharacterError indicates a character that cannot begin any token. It
// implements InputError.
type UnknownCharacterError struct {
	// Char is the offending character.
	Char rune
	// Col is the position of the character.
	Col int
}

func (err *UnknownCharacterError) Error() string {
	return errpos(err.Col, "unknown character "+strconv.QuoteRune(err.Char))
}

func (err *UnknownCharacterError) Pos() int {
	return err.Col
}
