package formula

// rule is one syntax check. Rules run in table order and the first failure is
// the result of validation.
type rule struct {
	kind  ErrorKind
	check func(v *validation) *Error
}

var rules = [...]rule{
	{EmptyFormula, (*validation).empty},
	{UnbalancedParentheses, (*validation).balanced},
	{EmptyParentheses, (*validation).emptyParens},
	{LeadingOperator, (*validation).leading},
	{TrailingOperator, (*validation).trailing},
	{DoubleOperator, (*validation).double},
	{InvalidSymbolSyntax, (*validation).symbols},
	{MissingOperator, (*validation).missing},
	{UnknownFunction, (*validation).calls},
	{UndefinedSymbol, (*validation).defined},
}

// Rules returns the error kinds of the syntax rules in the order they are
// checked. When a formula breaks several rules, the earliest one is reported.
func Rules() []ErrorKind {
	r := make([]ErrorKind, len(rules))
	for i, c := range rules {
		r[i] = c.kind
	}
	return r
}

type validation struct {
	toks   []Token
	vars   *Table
	consts *Table
	// commas counts the top-level commas inside each parenthesis pair, keyed
	// by the index of its "(". It is filled once parentheses are known to
	// balance.
	commas map[int]int
}

// Check applies the syntax rules to a token stream produced by Tokenize. The
// result is nil if the formula is valid and every symbol it uses is defined.
// vars and consts may be nil to mean no symbols.
func Check(toks []Token, vars, consts *Table) *Error {
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
		return errNoPos(Internal, "token stream does not end with EOF")
	}
	v := validation{toks: toks, vars: vars, consts: consts}
	for _, r := range rules {
		if err := r.check(&v); err != nil {
			return err
		}
	}
	return nil
}

// prev returns the kind of the token before i, or TokenNone at the start.
func (v *validation) prev(i int) TokenKind {
	if i == 0 {
		return TokenNone
	}
	return v.toks[i-1].Kind
}

// isCall reports whether the token at i is an identifier naming a call.
func (v *validation) isCall(i int) bool {
	return v.toks[i].Kind == TokenIdentifier && v.toks[i+1].Kind == TokenLParen
}

func (v *validation) empty() *Error {
	if v.toks[0].Kind == TokenEOF {
		return errNoPos(EmptyFormula, "formula is empty")
	}
	return nil
}

func (v *validation) balanced() *Error {
	var open []int
	commas := make(map[int]int)
	for i, tok := range v.toks {
		switch tok.Kind {
		case TokenLParen:
			open = append(open, i)
		case TokenRParen:
			if len(open) == 0 {
				return errAt(UnbalancedParentheses, tok, "\")\" has no matching \"(\"")
			}
			open = open[:len(open)-1]
		case TokenComma:
			if len(open) != 0 {
				commas[open[len(open)-1]]++
			}
		}
	}
	if len(open) != 0 {
		return errAt(UnbalancedParentheses, v.toks[open[0]], "\"(\" is never closed")
	}
	v.commas = commas
	return nil
}

func (v *validation) emptyParens() *Error {
	for i, tok := range v.toks {
		if tok.Kind == TokenLParen && v.toks[i+1].Kind == TokenRParen {
			return errAt(EmptyParentheses, tok, "empty parentheses")
		}
	}
	return nil
}

func (v *validation) leading() *Error {
	for i, tok := range v.toks {
		switch p := v.prev(i); {
		case p != TokenNone && p != TokenLParen && p != TokenComma:
			continue
		case tok.Kind == TokenComma:
			return errAt(LeadingOperator, tok, "\",\" has no argument before it")
		case tok.Kind == TokenOperator && tok.Text != "-":
			return errAt(LeadingOperator, tok, "operator "+quote(tok.Text)+" has no left operand")
		}
	}
	return nil
}

func (v *validation) trailing() *Error {
	for i, tok := range v.toks {
		if tok.Kind != TokenOperator && tok.Kind != TokenComma {
			continue
		}
		switch v.toks[i+1].Kind {
		case TokenEOF, TokenRParen, TokenComma:
			if tok.Kind == TokenComma {
				return errAt(TrailingOperator, tok, "\",\" has no argument after it")
			}
			return errAt(TrailingOperator, tok, "operator "+quote(tok.Text)+" has no right operand")
		}
	}
	return nil
}

func (v *validation) double() *Error {
	for i, tok := range v.toks[:len(v.toks)-1] {
		next := v.toks[i+1]
		if tok.Kind == TokenOperator && next.Kind == TokenOperator && next.Text != "-" {
			return errAt(DoubleOperator, next, "operator "+quote(next.Text)+" follows operator "+quote(tok.Text))
		}
	}
	return nil
}

func (v *validation) symbols() *Error {
	for _, tok := range v.toks {
		switch tok.Kind {
		case TokenBadSymbol:
			return errAt(InvalidSymbolSyntax, tok, "invalid symbol "+quote(tok.Text)+": a name must start with a letter or underscore")
		case TokenUnknown:
			return errAt(InvalidSymbolSyntax, tok, "unexpected character "+quote(tok.Text))
		}
	}
	return nil
}

// endsValue reports whether a token of kind k can end an operand.
func endsValue(k TokenKind) bool {
	switch k {
	case TokenNumber, TokenVariable, TokenConstant, TokenRParen:
		return true
	}
	return false
}

// startsValue reports whether a token of kind k can start an operand.
func startsValue(k TokenKind) bool {
	switch k {
	case TokenNumber, TokenVariable, TokenConstant, TokenIdentifier, TokenLParen:
		return true
	}
	return false
}

func (v *validation) missing() *Error {
	// calls records, for each open parenthesis, whether it belongs to a call.
	var calls []bool
	for i, tok := range v.toks {
		if endsValue(v.prev(i)) && startsValue(tok.Kind) {
			p := v.toks[i-1]
			return errAt(MissingOperator, tok, "missing operator between "+quote(p.Text)+" and "+quote(tok.Text))
		}
		switch tok.Kind {
		case TokenLParen:
			calls = append(calls, v.prev(i) == TokenIdentifier)
		case TokenRParen:
			calls = calls[:len(calls)-1]
		case TokenComma:
			if len(calls) == 0 || !calls[len(calls)-1] {
				return errAt(MissingOperator, tok, "\",\" outside a function call")
			}
		}
	}
	return nil
}

// arity counts the arguments of the call whose name is at i.
func (v *validation) arity(i int) int {
	return v.commas[i+1] + 1
}

func (v *validation) calls() *Error {
	for i, tok := range v.toks {
		if !v.isCall(i) {
			continue
		}
		f, ok := lookupFunc(tok.Text)
		if !ok {
			err := errAt(UnknownFunction, tok, "unknown function "+quote(tok.Text))
			if k := Suggest(tok.Text, funcNames()); k >= 0 {
				err.Suggestion = funcNames()[k]
			}
			return err
		}
		if n := v.arity(i); !f.sig.Accepts(n) {
			return errAt(UnknownFunction, tok, "function "+quote(tok.Text)+" takes "+f.sig.String()+", got "+plural(n, "argument"))
		}
	}
	return nil
}

func (v *validation) defined() *Error {
	for i, tok := range v.toks {
		switch tok.Kind {
		case TokenVariable, TokenConstant:
			t := v.vars
			ns := Variables
			if tok.Kind == TokenConstant {
				t, ns = v.consts, Constants
			}
			name := tok.Text[1:]
			if _, ok := t.Lookup(name); ok {
				continue
			}
			err := errAt(UndefinedSymbol, tok, "undefined "+ns.String()+" "+quote(tok.Text))
			names := t.Names()
			if k := Suggest(name, names); k >= 0 {
				err.Suggestion = string(ns.Sigil()) + names[k]
			}
			return err
		case TokenIdentifier:
			if v.isCall(i) {
				continue
			}
			err := errAt(UndefinedSymbol, tok, "undefined name "+quote(tok.Text)+": variables start with $ and constants with #")
			vn, cn := v.vars.Names(), v.consts.Names()
			if k := Suggest(tok.Text, append(vn, cn...)); k >= 0 {
				if k < len(vn) {
					err.Suggestion = string(VariableSigil) + vn[k]
				} else {
					err.Suggestion = string(ConstantSigil) + cn[k-len(vn)]
				}
			}
			return err
		}
	}
	return nil
}
