package formula_test

import (
	"math"
	"strings"
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzValidate(f *testing.F) {
	f.Add("2 + 3")
	f.Add("sqrt($a^2 + $b^2)")
	f.Add("max(#c, $a, -(-2)) % 3")
	f.Add("$temp")
	f.Add("1×2")
	f.Add("(((")
	f.Add("round($a / 7, 3) ^ -$b")
	vars := []formula.Symbol{{ID: "a", Value: 3}, {ID: "b", Value: -4}, {ID: "temperature", Value: 1e21}}
	consts := []formula.Symbol{{ID: "c", Value: 0.1}}
	f.Fuzz(func(t *testing.T, s string) {
		req := formula.Request{Formula: s, Variables: vars, Constants: consts}
		out := formula.Validate(req)
		if !out.Valid {
			if out.Err == nil || out.Err.Kind == formula.KindNone {
				t.Fatalf("%q: invalid outcome without an error kind: %+v", s, out)
			}
			// The only Internal error a checked formula can reach is the
			// nesting limit.
			if out.Err.Kind == formula.Internal && !strings.Contains(out.Err.Message, "nested deeper") {
				t.Fatalf("%q: %v", s, out.Err)
			}
			return
		}
		if math.IsInf(out.Result, 0) || math.IsNaN(out.Result) {
			t.Fatalf("%q: non-finite result %v", s, out.Result)
		}
		r, err := formula.Evaluate(out.EvaluatedFormula)
		if err != nil {
			t.Fatalf("%q: evaluated formula %q fails: %v", s, out.EvaluatedFormula, err)
		}
		if r != out.Result && !(r == 0 && out.Result == 0) {
			t.Fatalf("%q: evaluated formula %q gives %v, not %v", s, out.EvaluatedFormula, r, out.Result)
		}
	})
}

func FuzzTokenize(f *testing.F) {
	f.Add("sqrt($a^2 + $b^2)")
	f.Add("$1x # 2.5e+3e")
	f.Add("\xff\xfe π×2")
	f.Fuzz(func(t *testing.T, s string) {
		toks := formula.Tokenize(s)
		if len(toks) == 0 || toks[len(toks)-1].Kind != formula.TokenEOF {
			t.Fatalf("%q: token stream does not end with EOF: %v", s, toks)
		}
		end := 0
		for _, tok := range toks {
			if tok.Start < end || tok.End < tok.Start || tok.End > len(s) {
				t.Fatalf("%q: bad span for %v", s, tok)
			}
			if strings.TrimSpace(s[end:tok.Start]) != "" {
				t.Fatalf("%q: text skipped before %v", s, tok)
			}
			if s[tok.Start:tok.End] != tok.Text {
				t.Fatalf("%q: token %v has span text %q", s, tok, s[tok.Start:tok.End])
			}
			end = tok.End
		}
	})
}
