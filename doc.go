// Package formula implements a small arithmetic formula calculator.
//
// A formula is made of decimal numbers, the operators + - * /, unary minus,
// round brackets, and calls of the one-argument functions sin, cos, tan, sqrt,
// and pow. "pow(x)" is the square of x. There are no variables: a bare name is
// a syntax error.
//
// Formulas are parsed into a syntax tree and evaluated either in float64 or,
// for the arbitrary-precision evaluator, in big.Float. Parsing and evaluation
// keep no state between calls.
package formula
