package formula

import (
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		src    string
		tokens []Token
	}{
		// spaces
		{"", nil},
		{" \t \r\n ", nil},
		// numbers
		{"0", []Token{{Kind: TokenNumber, Text: "0", Start: 0, End: 1, Col: 1}}},
		{"9876543210", []Token{{Kind: TokenNumber, Text: "9876543210", Start: 0, End: 10, Col: 1}}},
		{"1 0", []Token{{Kind: TokenNumber, Text: "1", Start: 0, End: 1, Col: 1}, {Kind: TokenNumber, Text: "0", Start: 2, End: 3, Col: 3}}},
		{"1.0", []Token{{Kind: TokenNumber, Text: "1.0", Start: 0, End: 3, Col: 1}}},
		{"1.", []Token{{Kind: TokenNumber, Text: "1.", Start: 0, End: 2, Col: 1}}},
		{".5", []Token{{Kind: TokenNumber, Text: ".5", Start: 0, End: 2, Col: 1}}},
		{"1e1", []Token{{Kind: TokenNumber, Text: "1e1", Start: 0, End: 3, Col: 1}}},
		{"1e+21", []Token{{Kind: TokenNumber, Text: "1e+21", Start: 0, End: 5, Col: 1}}},
		{"1E-7", []Token{{Kind: TokenNumber, Text: "1E-7", Start: 0, End: 4, Col: 1}}},
		{"1e", []Token{{Kind: TokenNumber, Text: "1", Start: 0, End: 1, Col: 1}, {Kind: TokenIdentifier, Text: "e", Start: 1, End: 2, Col: 2}}},
		{"1e+", []Token{
			{Kind: TokenNumber, Text: "1", Start: 0, End: 1, Col: 1},
			{Kind: TokenIdentifier, Text: "e", Start: 1, End: 2, Col: 2},
			{Kind: TokenOperator, Text: "+", Start: 2, End: 3, Col: 3},
		}},
		{"1.2.3", []Token{{Kind: TokenNumber, Text: "1.2", Start: 0, End: 3, Col: 1}, {Kind: TokenNumber, Text: ".3", Start: 3, End: 5, Col: 4}}},
		{".", []Token{{Kind: TokenUnknown, Text: ".", Start: 0, End: 1, Col: 1}}},
		// operators
		{"-1", []Token{{Kind: TokenOperator, Text: "-", Start: 0, End: 1, Col: 1}, {Kind: TokenNumber, Text: "1", Start: 1, End: 2, Col: 2}}},
		{"++", []Token{{Kind: TokenOperator, Text: "+", Start: 0, End: 1, Col: 1}, {Kind: TokenOperator, Text: "+", Start: 1, End: 2, Col: 2}}},
		{"%^", []Token{{Kind: TokenOperator, Text: "%", Start: 0, End: 1, Col: 1}, {Kind: TokenOperator, Text: "^", Start: 1, End: 2, Col: 2}}},
		// punctuation
		{"(,)", []Token{
			{Kind: TokenLParen, Text: "(", Start: 0, End: 1, Col: 1},
			{Kind: TokenComma, Text: ",", Start: 1, End: 2, Col: 2},
			{Kind: TokenRParen, Text: ")", Start: 2, End: 3, Col: 3},
		}},
		// identifiers and symbols
		{"sqrt(", []Token{{Kind: TokenIdentifier, Text: "sqrt", Start: 0, End: 4, Col: 1}, {Kind: TokenLParen, Text: "(", Start: 4, End: 5, Col: 5}}},
		{"_a1", []Token{{Kind: TokenIdentifier, Text: "_a1", Start: 0, End: 3, Col: 1}}},
		{"$a", []Token{{Kind: TokenVariable, Text: "$a", Start: 0, End: 2, Col: 1}}},
		{"$ab_1", []Token{{Kind: TokenVariable, Text: "$ab_1", Start: 0, End: 5, Col: 1}}},
		{"#pi", []Token{{Kind: TokenConstant, Text: "#pi", Start: 0, End: 3, Col: 1}}},
		{"$π", []Token{{Kind: TokenVariable, Text: "$π", Start: 0, End: 3, Col: 1}}},
		{"$a+$ab", []Token{
			{Kind: TokenVariable, Text: "$a", Start: 0, End: 2, Col: 1},
			{Kind: TokenOperator, Text: "+", Start: 2, End: 3, Col: 3},
			{Kind: TokenVariable, Text: "$ab", Start: 3, End: 6, Col: 4},
		}},
		// malformed symbols
		{"$", []Token{{Kind: TokenBadSymbol, Text: "$", Start: 0, End: 1, Col: 1}}},
		{"$1x", []Token{{Kind: TokenBadSymbol, Text: "$1x", Start: 0, End: 3, Col: 1}}},
		{"#$a", []Token{{Kind: TokenBadSymbol, Text: "#", Start: 0, End: 1, Col: 1}, {Kind: TokenVariable, Text: "$a", Start: 1, End: 3, Col: 2}}},
		{"$ ", []Token{{Kind: TokenBadSymbol, Text: "$", Start: 0, End: 1, Col: 1}}},
		// unknown characters
		{"2 & 3", []Token{
			{Kind: TokenNumber, Text: "2", Start: 0, End: 1, Col: 1},
			{Kind: TokenUnknown, Text: "&", Start: 2, End: 3, Col: 3},
			{Kind: TokenNumber, Text: "3", Start: 4, End: 5, Col: 5},
		}},
		{"\xff1", []Token{{Kind: TokenUnknown, Text: "\xff", Start: 0, End: 1, Col: 1}, {Kind: TokenNumber, Text: "1", Start: 1, End: 2, Col: 2}}},
		{"π×2", []Token{
			{Kind: TokenIdentifier, Text: "π", Start: 0, End: 2, Col: 1},
			{Kind: TokenUnknown, Text: "×", Start: 2, End: 4, Col: 2},
			{Kind: TokenNumber, Text: "2", Start: 4, End: 5, Col: 3},
		}},
	}
	for _, c := range cases {
		got := Tokenize(c.src)
		if len(got) == 0 || got[len(got)-1].Kind != TokenEOF {
			t.Errorf("scanning %q: no EOF token in %v", c.src, got)
			continue
		}
		eof := got[len(got)-1]
		if eof.Start != len(c.src) || eof.End != len(c.src) {
			t.Errorf("scanning %q: EOF at %d:%d, want %d", c.src, eof.Start, eof.End, len(c.src))
		}
		got = got[:len(got)-1]
		if len(got) != len(c.tokens) {
			t.Errorf("scanning %q: want %v, got %v", c.src, c.tokens, got)
			continue
		}
		for i, want := range c.tokens {
			if got[i] != want {
				t.Errorf("scanning %q: token %d: want %v %d:%d, got %v %d:%d", c.src, i, want, want.Start, want.End, got[i], got[i].Start, got[i].End)
			}
		}
	}
}

func TestTokenSpansCoverText(t *testing.T) {
	srcs := []string{"sqrt($a^2 + $b^2)", "  max( #c ,2.5e3)-$x ", "$$ & 1e", "\xfe\xff$"}
	for _, src := range srcs {
		for _, tok := range Tokenize(src) {
			if src[tok.Start:tok.End] != tok.Text {
				t.Errorf("%q: token %v has span text %q", src, tok, src[tok.Start:tok.End])
			}
		}
	}
}

func TestIsBareName(t *testing.T) {
	cases := []struct {
		s  string
		ok bool
	}{
		{"a", true},
		{"_", true},
		{"temperature_2", true},
		{"π", true},
		{"", false},
		{"1a", false},
		{"a-b", false},
		{"$a", false},
		{"a b", false},
	}
	for _, c := range cases {
		if got := IsBareName(c.s); got != c.ok {
			t.Errorf("IsBareName(%q): want %t, got %t", c.s, c.ok, got)
		}
	}
}
