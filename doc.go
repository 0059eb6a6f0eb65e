// Package formula validates and evaluates short arithmetic formulas over named
// variables and constants.
//
// A formula like "sqrt($a^2 + $b^2) * #scale" refers to variables with $ and
// to constants with #. Validate tokenizes the formula, applies a fixed,
// ordered list of syntax rules and reports only the first one broken, then
// replaces every symbol with its value and evaluates the result in float64
// arithmetic. The outcome is either the rewritten formula with its value or an
// error kind, a message, and possibly a suggestion for a misspelled name.
//
// Everything that decides an outcome is data in this package: the rule order
// (Rules), the function table (Functions), and the message texts. Any
// implementation that agrees with the conformance vectors produces
// byte-identical outcomes.
package formula
