package formula

import (
	"math"
	"math/big"
)

// function is a function from reals to reals of exactly one argument.
type function struct {
	// f computes the function in float64.
	f func(x float64) float64
	// big sets z to the function of x at the precision of z and returns z.
	// If x is outside the function's domain, big panics with big.ErrNaN.
	big func(z, x *big.Float) *big.Float
}

var globalfuncs = map[string]*function{
	"sqrt": {f: math.Sqrt, big: (*big.Float).Sqrt},
	"pow":  {f: square, big: bigsquare},

	// no arbitrary-precision trig in math/big
	"sin": {f: math.Sin, big: widen(math.Sin)},
	"cos": {f: math.Cos, big: widen(math.Cos)},
	"tan": {f: math.Tan, big: widen(math.Tan)},
}

// square is pow. Calls have one argument, so the exponent is always 2.
func square(x float64) float64 {
	return x * x
}

// bigsquare sets z to x*x, rounded once at the precision of z.
func bigsquare(z, x *big.Float) *big.Float {
	return z.Mul(x, x)
}

// widen adapts a float64 function to big.Float. The result has float64
// accuracy regardless of the precision of z.
func widen(f func(float64) float64) func(z, x *big.Float) *big.Float {
	return func(z, x *big.Float) *big.Float {
		v, _ := x.Float64()
		// SetFloat64 panics with big.ErrNaN when the result is NaN.
		return z.SetFloat64(f(v))
	}
}

// callBig calls the function on x, storing the result in z.
func (fn *function) callBig(name string, z, x *big.Float) (r *big.Float, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); !ok {
			panic(p)
		}
		r, err = nil, &DomainError{X: x, Func: name}
	}()
	return fn.big(z, x), nil
}

// DomainError is an error returned when a function is called on an argument
// outside its domain. Only arbitrary-precision evaluation returns DomainError;
// float64 evaluation produces NaN instead.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}
