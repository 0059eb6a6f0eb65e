package formula

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// num is the value of a nodeNum.
	num float64
	// name is the function name of a nodeCall.
	name string
	fn   Func

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push num
	nodeCall // fn is Func to call, right is link to nodeArg
	nodeArg  // eval left, right is link to next arg

	nodeNeg // evaluate left, then negate
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodeMod // evaluate left, remainder by right
	nodePow // evaluate left, exp by right
)

var nodeKindNames = [...]string{
	nodeNone: "None",
	nodeNum:  "Num",
	nodeCall: "Call",
	nodeArg:  "Arg",
	nodeNeg:  "Neg",
	nodeAdd:  "Add",
	nodeSub:  "Sub",
	nodeMul:  "Mul",
	nodeDiv:  "Div",
	nodeMod:  "Mod",
	nodePow:  "Pow",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

var binsyms = [...]string{
	nodeAdd: " + ",
	nodeSub: " - ",
	nodeMul: " * ",
	nodeDiv: " / ",
	nodeMod: " % ",
	nodePow: " ^ ",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node fully parenthesized.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNum:
		b.WriteString(formatNum(n.num))
	case nodeCall:
		b.WriteString(n.name)
		b.WriteByte('[')
		for a := n.right; a != nil; a = a.right {
			if a != n.right {
				b.WriteString(", ")
			}
			a.left.fmt(b)
		}
		b.WriteByte(']')
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		n.left.fmt(b)
		b.WriteString(binsyms[n.kind])
		n.right.fmt(b)
	default:
		panic("formula: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
