package formula

import (
	"fmt"
	"strconv"
)

// ErrorKind is the class of a validation or evaluation failure. The set of
// kinds is closed.
type ErrorKind int8

const (
	KindNone ErrorKind = iota
	EmptyFormula
	UnbalancedParentheses
	EmptyParentheses
	LeadingOperator
	TrailingOperator
	DoubleOperator
	InvalidSymbolSyntax
	MissingOperator
	UnknownFunction
	UndefinedSymbol
	DuplicateSymbol
	DivisionByZero
	DomainError
	Internal
)

var kindNames = [...]string{
	KindNone:              "",
	EmptyFormula:          "EmptyFormula",
	UnbalancedParentheses: "UnbalancedParentheses",
	EmptyParentheses:      "EmptyParentheses",
	LeadingOperator:       "LeadingOperator",
	TrailingOperator:      "TrailingOperator",
	DoubleOperator:        "DoubleOperator",
	InvalidSymbolSyntax:   "InvalidSymbolSyntax",
	MissingOperator:       "MissingOperator",
	UnknownFunction:       "UnknownFunction",
	UndefinedSymbol:       "UndefinedSymbol",
	DuplicateSymbol:       "DuplicateSymbol",
	DivisionByZero:        "DivisionByZero",
	DomainError:           "DomainError",
	Internal:              "Internal",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// MarshalText encodes the kind as its name.
func (k ErrorKind) MarshalText() ([]byte, error) {
	if k <= KindNone || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("formula: invalid error kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind from its name.
func (k *ErrorKind) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range kindNames {
		if i != int(KindNone) && name == s {
			*k = ErrorKind(i)
			return nil
		}
	}
	return fmt.Errorf("formula: unknown error kind %q", s)
}

// Kinds returns every error kind in declaration order.
func Kinds() []ErrorKind {
	r := make([]ErrorKind, 0, len(kindNames)-1)
	for k := EmptyFormula; k <= Internal; k++ {
		r = append(r, k)
	}
	return r
}

// Error is the reason a formula was rejected. Its Message is stable text and
// part of the output contract; two conforming validators produce the same
// Message for the same input.
type Error struct {
	// Kind is the class of failure.
	Kind ErrorKind
	// Message describes the failure, prefixed with the column where it was
	// detected if there is one.
	Message string
	// Suggestion is a symbol or function the user may have meant, including
	// its sigil. It is empty if there is no suggestion.
	Suggestion string
	// Col is the 1-based rune column of the token that caused the error, or 0
	// if the error has no position.
	Col int
}

func (err *Error) Error() string {
	return err.Kind.String() + ": " + err.Message
}

// Pos returns the column of the error.
func (err *Error) Pos() int {
	return err.Col
}

// errAt creates an error positioned at tok.
func errAt(kind ErrorKind, tok Token, msg string) *Error {
	return &Error{Kind: kind, Message: errpos(tok.Col, msg), Col: tok.Col}
}

// errNoPos creates an error with no position.
func errNoPos(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// quote formats token text for messages. Quoting keeps messages valid UTF-8
// even when the formula is not.
func quote(s string) string {
	return strconv.Quote(s)
}
