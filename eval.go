package formula

import (
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Evaluator evaluates parsed expressions. It holds only configuration, so it
// is safe to use concurrently, and evaluating never changes it.
type Evaluator struct {
	prec uint
}

// Option is an option used when creating an evaluator.
type Option interface {
	evalOption(*Evaluator)
}

type precopt uint

func (o precopt) evalOption(ev *Evaluator) {
	if o != 0 {
		ev.prec = uint(o)
	}
}

// Prec sets the precision in bits of calculations done by EvalBig. A
// precision of 0 selects the default, 64.
func Prec(prec uint) Option {
	return precopt(prec)
}

// NewEvaluator creates a new evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	ev := Evaluator{prec: 64}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.evalOption(&ev)
	}
	return &ev
}

// Prec returns the precision used by EvalBig.
func (ev *Evaluator) Prec() uint {
	return ev.prec
}

// Eval evaluates an expression using float64 arithmetic.
func (ev *Evaluator) Eval(e *Expr) (float64, error) {
	return e.n.eval()
}

// EvalBig evaluates an expression using big.Float arithmetic at the
// evaluator's precision. Functions that have no arbitrary-precision
// implementation are computed in float64 and widened.
func (ev *Evaluator) EvalBig(e *Expr) (*big.Float, error) {
	return e.n.evalBig(ev.prec)
}

func (n *node) eval() (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeBinary:
		l, err := n.left.eval()
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval()
		if err != nil {
			return 0, err
		}
		switch n.op {
		case '+':
			return l + r, nil
		case '-':
			return l - r, nil
		case '*':
			return l * r, nil
		case '/':
			if r == 0 {
				return 0, &DivisionByZeroError{Col: n.pos}
			}
			return l / r, nil
		}
	case nodeNeg:
		v, err := n.left.eval()
		if err != nil {
			return 0, err
		}
		return -v, nil
	case nodeCall:
		// The argument is evaluated before the name is resolved.
		x, err := n.left.eval()
		if err != nil {
			return 0, err
		}
		fn := globalfuncs[n.text]
		if fn == nil {
			return 0, &UnknownFunctionError{Name: n.text, Col: n.pos}
		}
		return fn.f(x), nil
	}
	return 0, &InvalidNodeError{Kind: n.kind.String(), Op: n.op}
}

func (n *node) evalBig(prec uint) (*big.Float, error) {
	switch n.kind {
	case nodeNum:
		r, ok := new(big.Float).SetPrec(prec).SetString(n.text)
		if !ok {
			// The parser has already accepted the text as a float64, so
			// this is unlikely, but the float value is still good.
			r = new(big.Float).SetPrec(prec).SetFloat64(n.num)
		}
		return r, nil
	case nodeBinary:
		l, err := n.left.evalBig(prec)
		if err != nil {
			return nil, err
		}
		r, err := n.right.evalBig(prec)
		if err != nil {
			return nil, err
		}
		switch n.op {
		case '+':
			return arith("+", l, r, (*big.Float).Add)
		case '-':
			return arith("-", l, r, (*big.Float).Sub)
		case '*':
			return arith("*", l, r, (*big.Float).Mul)
		case '/':
			if r.Sign() == 0 {
				return nil, &DivisionByZeroError{Col: n.pos}
			}
			return arith("/", l, r, (*big.Float).Quo)
		}
	case nodeNeg:
		v, err := n.left.evalBig(prec)
		if err != nil {
			return nil, err
		}
		return v.Neg(v), nil
	case nodeCall:
		x, err := n.left.evalBig(prec)
		if err != nil {
			return nil, err
		}
		fn := globalfuncs[n.text]
		if fn == nil {
			return nil, &UnknownFunctionError{Name: n.text, Col: n.pos}
		}
		return fn.callBig(n.text, new(big.Float).SetPrec(prec), x)
	}
	return nil, &InvalidNodeError{Kind: n.kind.String(), Op: n.op}
}

// arith computes l op r into l. Operations with no defined result, like
// Inf - Inf, are reported as domain errors.
func arith(op string, l, r *big.Float, f func(z, x, y *big.Float) *big.Float) (z *big.Float, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); !ok {
			panic(p)
		}
		z, err = nil, &DomainError{X: r, Func: op}
	}()
	return f(l, l, r), nil
}

// Evaluate parses a formula and evaluates it using float64 arithmetic. Each
// call uses its own scanner and parser, so Evaluate is safe to call
// concurrently.
func Evaluate(formula string) (float64, error) {
	return Eval(strings.NewReader(formula))
}

// Eval is a shortcut to parse an expression and evaluate it using float64
// arithmetic.
func Eval(src io.RuneScanner) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return defaultEvaluator.Eval(e)
}

// EvaluateBig is a shortcut to parse a formula and evaluate it using
// big.Float arithmetic.
func EvaluateBig(formula string, opts ...Option) (*big.Float, error) {
	e, err := ParseString(formula)
	if err != nil {
		return nil, err
	}
	return NewEvaluator(opts...).EvalBig(e)
}

var defaultEvaluator = NewEvaluator()

// DivisionByZeroError is an error from a division whose divisor evaluates to
// exactly zero. It implements InputError.
type DivisionByZeroError struct {
	// Col is the position of the division operator.
	Col int
}

func (err *DivisionByZeroError) Error() string {
	return errpos(err.Col, "division by zero")
}

func (err *DivisionByZeroError) Pos() int {
	return err.Col
}

// UnknownFunctionError is an error from a call to a function that does not
// exist. It implements InputError.
type UnknownFunctionError struct {
	// Name is the name that was called.
	Name string
	// Col is the position of the name.
	Col int
}

func (err *UnknownFunctionError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *UnknownFunctionError) Pos() int {
	return err.Col
}

// InvalidNodeError is an error from evaluating a syntax tree node that the
// evaluator does not understand. Trees created by Parse never contain such
// nodes.
type InvalidNodeError struct {
	// Kind names the kind of the node.
	Kind string
	// Op is the node's operator, if it has one.
	Op byte
}

func (err *InvalidNodeError) Error() string {
	if err.Op != 0 {
		return "invalid AST node " + err.Kind + " with operator " + strconv.QuoteRune(rune(err.Op))
	}
	return "invalid AST node " + err.Kind
}
