package formula

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Token is a lexical token of a formula.
type Token struct {
	// Kind is the token's classification.
	Kind TokenKind
	// Text is the exact source text of the token.
	Text string
	// Start and End are the byte offsets of the token in the formula. End is
	// exclusive.
	Start, End int
	// Col is the 1-based rune column of the start of the token.
	Col int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Col)
}

// TokenKind classifies tokens.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNumber is a decimal number with optional fraction and exponent.
	TokenNumber
	// TokenOperator is one of the binary operators in Operators. Whether a -
	// is unary is decided by its position, not by the tokenizer.
	TokenOperator
	// TokenLParen is (.
	TokenLParen
	// TokenRParen is ).
	TokenRParen
	// TokenComma separates function arguments.
	TokenComma
	// TokenIdentifier is a name without a sigil, e.g. a function name.
	TokenIdentifier
	// TokenVariable is $ followed by a bare name.
	TokenVariable
	// TokenConstant is # followed by a bare name.
	TokenConstant
	// TokenBadSymbol is a sigil that is not followed by a valid bare name.
	TokenBadSymbol
	// TokenUnknown is any character that starts no other token.
	TokenUnknown
	// TokenEOF ends every token stream.
	TokenEOF
)

var tokenKindNames = [...]string{
	TokenNone:       "None",
	TokenNumber:     "Number",
	TokenOperator:   "Operator",
	TokenLParen:     "LParen",
	TokenRParen:     "RParen",
	TokenComma:      "Comma",
	TokenIdentifier: "Identifier",
	TokenVariable:   "Variable",
	TokenConstant:   "Constant",
	TokenBadSymbol:  "BadSymbol",
	TokenUnknown:    "Unknown",
	TokenEOF:        "EOF",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the binary operator characters.
const Operators = "+-*/%^"

// Sigils introducing variables and constants.
const (
	VariableSigil = '$'
	ConstantSigil = '#'
)

type lexer struct {
	src string
	// off is the byte offset of the next rune.
	off int
	// col is the rune column of the next rune.
	col int
}

// Tokenize scans a formula into tokens. Whitespace is discarded. The result
// always ends with a TokenEOF token. Tokenize never fails: characters which
// begin no token become TokenUnknown tokens so that validation can report
// them with their positions.
func Tokenize(src string) []Token {
	l := lexer{src: src, col: 1}
	var toks []Token
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

// peek decodes the rune at the lexer's position without consuming it. At the
// end of input, sz is 0.
func (l *lexer) peek() (r rune, sz int) {
	if l.off >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.off:])
}

// advance consumes sz bytes forming one rune.
func (l *lexer) advance(sz int) {
	l.off += sz
	l.col++
}

func (l *lexer) next() Token {
	for {
		r, sz := l.peek()
		if sz == 0 {
			return Token{Kind: TokenEOF, Start: l.off, End: l.off, Col: l.col}
		}
		if !unicode.IsSpace(r) {
			break
		}
		l.advance(sz)
	}
	tok := Token{Start: l.off, Col: l.col}
	r, sz := l.peek()
	switch {
	case '0' <= r && r <= '9', r == '.':
		if !l.scanNum() {
			// A lone dot.
			l.advance(sz)
			tok.Kind = TokenUnknown
			break
		}
		tok.Kind = TokenNumber
	case isNameStart(r):
		l.scanName()
		tok.Kind = TokenIdentifier
	case r == VariableSigil, r == ConstantSigil:
		l.advance(sz)
		n, _ := l.peek()
		switch {
		case isNameStart(n):
			l.scanName()
			tok.Kind = TokenVariable
			if r == ConstantSigil {
				tok.Kind = TokenConstant
			}
		default:
			// Keep the digits or letters that follow so that the error shows
			// the whole malformed name, e.g. $1x.
			l.scanName()
			tok.Kind = TokenBadSymbol
		}
	case r == '(':
		l.advance(sz)
		tok.Kind = TokenLParen
	case r == ')':
		l.advance(sz)
		tok.Kind = TokenRParen
	case r == ',':
		l.advance(sz)
		tok.Kind = TokenComma
	case isOperator(r):
		l.advance(sz)
		tok.Kind = TokenOperator
	default:
		l.advance(sz)
		tok.Kind = TokenUnknown
	}
	tok.End = l.off
	tok.Text = l.src[tok.Start:tok.End]
	return tok
}

// scanNum scans a number starting at the lexer's position. It reports false
// without consuming anything if there is no digit before the exponent.
func (l *lexer) scanNum() bool {
	start, col := l.off, l.col
	dig := l.scanDigits()
	if r, sz := l.peek(); r == '.' {
		l.advance(sz)
		if l.scanDigits() {
			dig = true
		}
	}
	if !dig {
		l.off, l.col = start, col
		return false
	}
	// The exponent belongs to the number only if it has digits. Otherwise the
	// e starts the next token.
	if r, sz := l.peek(); r == 'e' || r == 'E' {
		off, c := l.off, l.col
		l.advance(sz)
		if r, sz := l.peek(); r == '+' || r == '-' {
			l.advance(sz)
		}
		if !l.scanDigits() {
			l.off, l.col = off, c
		}
	}
	return true
}

// scanDigits consumes a run of ASCII digits and reports whether it was
// non-empty.
func (l *lexer) scanDigits() bool {
	ok := false
	for {
		r, sz := l.peek()
		if sz == 0 || r < '0' || r > '9' {
			return ok
		}
		l.advance(sz)
		ok = true
	}
}

// scanName consumes a run of letters, digits, and underscores.
func (l *lexer) scanName() {
	for {
		r, sz := l.peek()
		if sz == 0 || !isNameRune(r) {
			return
		}
		l.advance(sz)
	}
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isOperator(r rune) bool {
	for _, c := range Operators {
		if r == c {
			return true
		}
	}
	return false
}

// IsBareName reports whether s is usable as the bare name of a symbol, i.e.
// whether $s tokenizes as one variable.
func IsBareName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isNameStart(r) || !isNameRune(r) {
			return false
		}
	}
	return true
}
