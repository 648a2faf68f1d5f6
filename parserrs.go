package formula

import "strconv"

// NumericLiteralError is an error indicating a number token that does not
// hold a valid floating-point literal, e.g. "1.2.3". It implements InputError.
type NumericLiteralError struct {
	// Col is the position of the number.
	Col int
	// Text is the number token.
	Text string
	// Err is the error from strconv.ParseFloat.
	Err error
}

func (err *NumericLiteralError) Error() string {
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text))
}

func (err *NumericLiteralError) Unwrap() error {
	return err.Err
}

func (err *NumericLiteralError) Pos() int {
	return err.Col
}

// UnexpectedTokenError is an error indicating a token of the wrong kind where
// the grammar requires a particular one, e.g. a function name not followed by
// an open bracket. It implements InputError.
type UnexpectedTokenError struct {
	// Want is the kind of token the parser required.
	Want TokenKind
	// Got is the token found instead.
	Got Token
}

func (err *UnexpectedTokenError) Error() string {
	return errpos(err.Got.Pos, "expected "+err.Want.String()+", got "+describe(err.Got))
}

func (err *UnexpectedTokenError) Pos() int {
	return err.Got.Pos
}

// InvalidFactorError is an error indicating a token that cannot begin an
// operand: anything other than a number, an open bracket, a function name, or
// a minus sign. It implements InputError.
type InvalidFactorError struct {
	// Token is the token where an operand was expected.
	Token Token
}

func (err *InvalidFactorError) Error() string {
	return errpos(err.Token.Pos, "invalid factor: "+describe(err.Token))
}

func (err *InvalidFactorError) Pos() int {
	return err.Token.Pos
}

// describe names a token for an error message.
func describe(tok Token) string {
	if tok.Kind == TokenEndOfInput {
		return tok.Kind.String()
	}
	return tok.Kind.String() + " " + strconv.Quote(tok.Text)
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*UnknownCharacterError)(nil)
	_ InputError = (*NumericLiteralError)(nil)
	_ InputError = (*UnexpectedTokenError)(nil)
	_ InputError = (*InvalidFactorError)(nil)
	_ InputError = (*DivisionByZeroError)(nil)
	_ InputError = (*UnknownFunctionError)(nil)
)
