// Package curves evaluates real functions of one variable for plotting.
//
// The syntax of expressions is intended to be similar to math you'd write in
// your notes. "2x + 3" is the same as "2*x + 3", and "-2^2^x" is the same as
// "-(2^(2^x))", where "a^b" is exponentiation. A term written next to another
// groups with it before an explicit division to its left, so "1/2x" is
// "1/(2x)", not "(1/2)x". Functions take their argument in brackets or as a
// bare term: "sin(2x)" and "sin 2x" are the same.
//
// Parse an expression once, then evaluate it for many inputs with Expr.Eval,
// or sample it over a Domain with Sample, Points, or a Sampler. Evaluation
// never maps a failure to a number: division by zero, domain errors such as
// sqrt(-1), and overflow are reported as conditions of the Outcome, so a
// plot can leave a gap instead of drawing a false value.
package curves
