package nimbus

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// num is the value of a nodeNum or nodeConst.
	num float64
	// name is the source text of a number, constant, or function name.
	name string
	fn   *function

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum   // num
	nodeVar   // x
	nodeConst // num, resolved from name at parse time
	nodeCall  // fn(left)

	nodeNeg // -left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right
)

var nodeKindNames = [...]string{
	nodeNone:  "None",
	nodeNum:   "Num",
	nodeVar:   "Var",
	nodeConst: "Const",
	nodeCall:  "Call",
	nodeNeg:   "Neg",
	nodeAdd:   "Add",
	nodeSub:   "Sub",
	nodeMul:   "Mul",
	nodeDiv:   "Div",
	nodePow:   "Pow",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node fully parenthesized. The output parses back to the same
// tree.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeNum:
		if n.name != "" {
			b.WriteString(n.name)
			break
		}
		b.WriteString(strconv.FormatFloat(n.num, 'f', -1, 64))
	case nodeVar:
		b.WriteString(VarName)
	case nodeConst:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.left.fmt(b)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteByte(binsym[n.kind])
		b.WriteByte(' ')
		n.right.fmt(b)
	default:
		panic("nimbus: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

var binsym = [...]byte{
	nodeAdd: '+',
	nodeSub: '-',
	nodeMul: '*',
	nodeDiv: '/',
	nodePow: '^',
}
