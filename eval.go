package formula

import (
	"math"
)

// Eval evaluates the expression in IEEE-754 double precision. Division or
// remainder by zero is a DivisionByZero error; arguments outside a function's
// domain and results that are not finite are DomainError.
func (e *Expr) Eval() (float64, *Error) {
	return e.n.eval()
}

// Evaluate parses and evaluates a substituted formula.
func Evaluate(src string) (float64, *Error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return e.Eval()
}

func (n *node) eval() (float64, *Error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeNeg:
		x, err := n.left.eval()
		if err != nil {
			return 0, err
		}
		return -x, nil
	case nodeCall:
		var args []float64
		for a := n.right; a != nil; a = a.right {
			x, err := a.left.eval()
			if err != nil {
				return 0, err
			}
			args = append(args, x)
		}
		r, err := n.fn.Call(args)
		if err != nil {
			return 0, err
		}
		return finite(n.name, r)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		l, err := n.left.eval()
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval()
		if err != nil {
			return 0, err
		}
		return binary(n.kind, l, r)
	case nodeArg:
		panic("formula: eval on nodeArg")
	default:
		panic("formula: invalid AST node " + n.kind.String())
	}
}

// binary applies a binary operator to finite operands.
func binary(op nodeKind, l, r float64) (float64, *Error) {
	switch op {
	case nodeAdd:
		return finite("addition", l+r)
	case nodeSub:
		return finite("subtraction", l-r)
	case nodeMul:
		return finite("multiplication", l*r)
	case nodeDiv:
		if r == 0 {
			return 0, errNoPos(DivisionByZero, "division by zero: "+formatNum(l)+" / 0")
		}
		return finite("division", l/r)
	case nodeMod:
		if r == 0 {
			return 0, errNoPos(DivisionByZero, "division by zero: "+formatNum(l)+" % 0")
		}
		return math.Mod(l, r), nil
	case nodePow:
		v, err := pow(l, r)
		if err != nil {
			return 0, err
		}
		return finite("power", v)
	default:
		panic("formula: invalid binary operator " + op.String())
	}
}

// finite checks that the result of an operation is a finite number.
func finite(what string, x float64) (float64, *Error) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, errNoPos(DomainError, "result of "+what+" is not a finite number")
	}
	return x, nil
}
