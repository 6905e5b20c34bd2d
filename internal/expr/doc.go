// Package expr parses and evaluates the right-hand side f(t, y) of an ODE.
//
// The language is deliberately small:
//
//	numbers    1, 2.5, .5, 1e-3
//	operators  + - * / ^ (right-associative), unary - and +
//	functions  sin cos tan exp log sqrt abs   (log is natural)
//	constants  pi e
//	variables  any other identifier, bound at evaluation time
//
// A parsed [Expression] is immutable and may be evaluated from many
// goroutines at once with different bindings.
//
// # Errors
//
// [Parse] reports malformed input as a [*ParseError] carrying the byte
// offset of the offending token. [Expression.Eval] never returns NaN or Inf:
// an unbound variable or any operation whose result is not finite (division
// by zero, log of a non-positive number, overflow) yields an [*EvalError].
package expr
