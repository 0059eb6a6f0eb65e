package formula

import (
	"errors"
	"math"
	"strconv"
)

// Expr = Unary { binop Unary }
// Unary = { '-' } Primary
// Primary = num | Call | '(' Expr ')'
// Call = funcname '(' Expr { ',' Expr } ')'
//
// Unary minus binds tighter than every binary operator, so -2^2 is 4.

// MaxDepth is the deepest nesting of parentheses, calls, and exponentiations
// that Parse accepts. Deeper expressions are an Internal error.
const MaxDepth = 128

// Expr is a parsed expression containing only numbers, operators, and calls.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

type parser struct {
	toks  []Token
	pos   int
	depth int
}

// Parse parses a formula in which every symbol has been substituted. Symbols,
// unknown functions, and malformed structure are Internal errors because
// Check rejects them before substitution.
func Parse(src string) (*Expr, *Error) {
	p := parser{toks: Tokenize(src)}
	n, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, unexpected(tok)
	}
	return &Expr{n: n}, nil
}

// String creates a fully parenthesized representation of the expression.
func (e *Expr) String() string {
	return e.n.String()
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

// parseterm parses operands joined by operators more binding than until.
func (p *parser) parseterm(until operator) (*node, *Error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		return nil, errNoPos(Internal, "expression nested deeper than "+strconv.Itoa(MaxDepth)+" levels")
	}
	n, err := p.parselhs()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != TokenOperator {
			return n, nil
		}
		prec := binop(tok.Text)
		if prec.op == nodeNone {
			return nil, unexpected(tok)
		}
		if !prec.moreBinding(until) {
			return n, nil
		}
		p.next()
		rhs, err := p.parseterm(prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, left: n, right: rhs}
	}
}

// parselhs parses a unary operand: any number of negations applied to a
// primary.
func (p *parser) parselhs() (*node, *Error) {
	neg := false
	for tok := p.peek(); tok.Kind == TokenOperator && tok.Text == "-"; tok = p.peek() {
		neg = !neg
		p.next()
	}
	n, err := p.parseprimary()
	if err != nil {
		return nil, err
	}
	if neg {
		n = &node{kind: nodeNeg, left: n}
	}
	return n, nil
}

func (p *parser) parseprimary() (*node, *Error) {
	tok := p.next()
	switch tok.Kind {
	case TokenNumber:
		v, err := strconv.ParseFloat(tok.Text, 64)
		switch {
		case err == nil:
		case errors.Is(err, strconv.ErrRange) && !math.IsInf(v, 0):
			// Underflow to zero or a subnormal is fine.
		case errors.Is(err, strconv.ErrRange):
			return nil, errNoPos(DomainError, "number "+tok.Text+" is out of range")
		default:
			return nil, unexpected(tok)
		}
		return &node{kind: nodeNum, num: v}, nil
	case TokenIdentifier:
		return p.parsecall(tok)
	case TokenLParen:
		n, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		if end := p.next(); end.Kind != TokenRParen {
			return nil, unexpected(end)
		}
		return n, nil
	default:
		return nil, unexpected(tok)
	}
}

// parsecall parses the parenthesized argument list of a call to the function
// named by name.
func (p *parser) parsecall(name Token) (*node, *Error) {
	f, ok := lookupFunc(name.Text)
	if !ok {
		return nil, unexpected(name)
	}
	if open := p.next(); open.Kind != TokenLParen {
		return nil, unexpected(open)
	}
	var args node
	l := &args
	count := 0
	for {
		rhs, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		l.right = &node{kind: nodeArg, left: rhs}
		l = l.right
		count++
		switch end := p.next(); end.Kind {
		case TokenComma:
			continue
		case TokenRParen:
		default:
			return nil, unexpected(end)
		}
		break
	}
	if !f.fn.CanCall(count) {
		return nil, errNoPos(Internal, "cannot call "+name.Text+" with "+plural(count, "argument"))
	}
	return &node{kind: nodeCall, name: name.Text, fn: f.fn, right: args.right}, nil
}

// unexpected creates the error for a token the evaluator cannot handle.
func unexpected(tok Token) *Error {
	if tok.Kind == TokenEOF {
		return errNoPos(Internal, "unexpected end of expression")
	}
	return errNoPos(Internal, "unexpected "+tok.Kind.String()+" "+quote(tok.Text)+" at column "+strconv.Itoa(tok.Col))
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "%":
		return operator{5, false, nodeMod}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
