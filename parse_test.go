package formula

import (
	"fmt"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.num != m.num {
			return n, m
		}
	case nodeCall:
		if n.name != m.name {
			return n, m
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	case nodeNeg:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeArg, nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

func num(x float64) *node {
	return &node{kind: nodeNum, num: x}
}

func bin(op nodeKind, l, r *node) *node {
	return &node{kind: op, left: l, right: r}
}

func neg(x *node) *node {
	return &node{kind: nodeNeg, left: x}
}

func call(name string, args ...*node) *node {
	var head node
	l := &head
	for _, a := range args {
		l.right = &node{kind: nodeArg, left: a}
		l = l.right
	}
	return &node{kind: nodeCall, name: name, right: head.right}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		ast  *node
	}{
		{"num", "2", num(2)},
		{"paren", "((2))", num(2)},
		{"add", "2 + 3", bin(nodeAdd, num(2), num(3))},
		{"add-left", "1 - 2 + 3", bin(nodeAdd, bin(nodeSub, num(1), num(2)), num(3))},
		{"mul-over-add", "2 + 3 * 4", bin(nodeAdd, num(2), bin(nodeMul, num(3), num(4)))},
		{"group", "(2 + 3) * 4", bin(nodeMul, bin(nodeAdd, num(2), num(3)), num(4))},
		{"div-left", "8 / 4 / 2", bin(nodeDiv, bin(nodeDiv, num(8), num(4)), num(2))},
		{"mod-mul", "7 % 3 * 2", bin(nodeMul, bin(nodeMod, num(7), num(3)), num(2))},
		{"pow-right", "2 ^ 3 ^ 2", bin(nodePow, num(2), bin(nodePow, num(3), num(2)))},
		{"pow-over-mul", "2 * 3 ^ 2", bin(nodeMul, num(2), bin(nodePow, num(3), num(2)))},
		{"neg", "-2", neg(num(2))},
		{"neg-neg", "--2", num(2)},
		{"neg-neg-neg", "---2", neg(num(2))},
		{"neg-pow", "-2 ^ 2", bin(nodePow, neg(num(2)), num(2))},
		{"pow-neg", "2 ^ -1", bin(nodePow, num(2), neg(num(1)))},
		{"sub-neg", "2 - -3", bin(nodeSub, num(2), neg(num(3)))},
		{"neg-group", "-(2 + 3)", neg(bin(nodeAdd, num(2), num(3)))},
		{"call", "sqrt(4)", call("sqrt", num(4))},
		{"call-args", "max(1, 2 + 3, -4)", call("max", num(1), bin(nodeAdd, num(2), num(3)), neg(num(4)))},
		{"call-nested", "pow(min(1, 2), 3)", call("pow", call("min", num(1), num(2)), num(3))},
		{"call-in-expr", "1 + sqrt(4) * 2", bin(nodeAdd, num(1), bin(nodeMul, call("sqrt", num(4)), num(2)))},
		{"exponent", "1e+3 * 2.5E-1", bin(nodeMul, num(1000), num(0.25))},
		{"underflow", "1e-400", num(0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ex, err := Parse(c.src)
			if err != nil {
				t.Fatalf("%q: unexpected error: %v", c.src, err)
			}
			if d, e := ex.n.diff(c.ast); d != nil || e != nil {
				t.Errorf("%q: wrong parse:\nwant %v\ngot  %v\nat %v vs %v", c.src, c.ast, ex, d, e)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"2 + 3", "((2) + (3))"},
		{"2 + 3 * 4", "((2) + ((3) * (4)))"},
		{"2^3^2", "((2) ^ ((3) ^ (2)))"},
		{"-2^2", "((-(2)) ^ (2))"},
		{"sqrt(4) + max(1, 2, 3)", "((sqrt[(4)]) + (max[(1), (2), (3)]))"},
		{"0.1 % 1e21", "((0.1) % (1e+21))"},
	}
	for _, c := range cases {
		e, err := Parse(c.src)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.src, err)
			continue
		}
		if got := e.String(); got != c.want {
			t.Errorf("%q: want %s, got %s", c.src, c.want, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind ErrorKind
	}{
		{"symbol", "$a + 1", Internal},
		{"unknown-func", "foo(1)", Internal},
		{"bare-name", "x", Internal},
		{"arity", "sqrt(1, 2)", Internal},
		{"unclosed", "(1", Internal},
		{"trailing", "1 +", Internal},
		{"extra", "1 2", Internal},
		{"out-of-range", "1e400", DomainError},
		{"too-deep-parens", strings.Repeat("(", MaxDepth+1) + "1" + strings.Repeat(")", MaxDepth+1), Internal},
		{"too-deep-calls", strings.Repeat("abs(", MaxDepth+1) + "1" + strings.Repeat(")", MaxDepth+1), Internal},
		{"too-deep-pow", "2" + strings.Repeat("^2", MaxDepth+1), Internal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.src)
			if err == nil {
				t.Fatalf("%q: expected error, got %v", c.src, e)
			}
			if err.Kind != c.kind {
				t.Errorf("%q: want %v, got %v", c.src, c.kind, err)
			}
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	// MaxDepth-1 parentheses plus the outermost term is exactly MaxDepth.
	src := strings.Repeat("(", MaxDepth-1) + "1" + strings.Repeat(")", MaxDepth-1)
	if _, err := Parse(src); err != nil {
		t.Errorf("nesting at the limit failed: %v", err)
	}
}
