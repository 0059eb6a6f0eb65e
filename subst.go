package formula

import (
	"math"
	"strconv"
	"strings"
)

// formatNum renders a value as the shortest decimal text that parses back to
// the same float64.
func formatNum(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Substitute replaces the span of every variable and constant token in src
// with the decimal text of its value. Everything between symbols is copied
// unchanged, so the result keeps the formula's spacing. toks must be the
// tokens of src and must have passed Check with the same tables.
func Substitute(src string, toks []Token, vars, consts *Table) (string, *Error) {
	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, tok := range toks {
		var t *Table
		switch tok.Kind {
		case TokenVariable:
			t = vars
		case TokenConstant:
			t = consts
		default:
			continue
		}
		v, ok := t.Lookup(tok.Text[1:])
		if !ok {
			return "", errNoPos(Internal, "substituting undefined symbol "+quote(tok.Text))
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "", errNoPos(DomainError, "value of "+tok.Text+" is not a finite number")
		}
		b.WriteString(src[last:tok.Start])
		b.WriteString(formatNum(v))
		last = tok.End
	}
	b.WriteString(src[last:])
	return b.String(), nil
}
