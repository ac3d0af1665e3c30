// Package nimbus evaluates algebraic expressions in one variable, x.
//
// Expressions use the usual operators + - * / ^ with parentheses, the
// constants pi and e, and the functions sin, cos, tan, sqrt, log, ln, exp,
// and abs, each called with exactly one parenthesized argument. log is the
// natural logarithm, like ln. Multiplication is always explicit: "2x" and
// "2(x+1)" are errors. "^" is right-associative and binds more tightly than
// negation, so "-2^2" is "-(2^2)" and "2^-1" is "2^(-1)".
//
// Parse an expression once and evaluate it for many values of x. Every failure
// is reported as an error of a distinct type: *LexError for characters outside
// the expression alphabet, *ParseError for malformed expressions and unknown
// names, and *EvalError for division by zero, domain errors, and results that
// are not finite.
//
// The plot subpackage maps expressions onto a pannable, zoomable view, and the
// history subpackage keeps an encrypted record of evaluated expressions.
package nimbus
