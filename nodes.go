package curves

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// val is the value of a constant.
	val float64
	// name is the literal text of a number, the name of the variable, or the
	// name of a called function or constant.
	name string
	fn   Func

	args  []*node
	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // constant val
	nodeVar  // the free variable
	nodeCall // call fn with args; constants are niladic calls

	nodeNeg // negate left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right
	nodeNop // left
)

var nodeNames = [...]string{
	nodeNone: "None",
	nodeNum:  "Num",
	nodeVar:  "Var",
	nodeCall: "Call",
	nodeNeg:  "Neg",
	nodeAdd:  "Add",
	nodeSub:  "Sub",
	nodeMul:  "Mul",
	nodeDiv:  "Div",
	nodePow:  "Pow",
	nodeNop:  "Nop",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeNames[k]
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false, false)
	return b.String()
}

// fmt writes the node fully bracketed, alternating between round and square
// brackets at each level.
func (n *node) fmt(b *strings.Builder, square, alt bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNum, nodeVar:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		if len(n.args) == 0 {
			return
		}
		b.WriteByte(l)
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b, !square, alt)
		}
		b.WriteByte(r)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square, alt)
	case nodeNop:
		b.WriteByte('+')
		n.left.fmt(b, !square, alt)
	case nodeAdd:
		n.fmtbin(b, " + ", square, alt)
	case nodeSub:
		n.fmtbin(b, " - ", square, alt)
	case nodeMul:
		if alt {
			n.fmtbin(b, " × ", square, alt)
		} else {
			n.fmtbin(b, " * ", square, alt)
		}
	case nodeDiv:
		if alt {
			n.fmtbin(b, " ÷ ", square, alt)
		} else {
			n.fmtbin(b, " / ", square, alt)
		}
	case nodePow:
		n.fmtbin(b, " ^ ", square, alt)
	default:
		panic("curves: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtbin(b *strings.Builder, op string, square, alt bool) {
	n.left.fmt(b, !square, alt)
	b.WriteString(op)
	n.right.fmt(b, !square, alt)
}

// equal reports whether two trees have the same structure. Constants compare
// by value, so 2.0 and 2 are equal.
func (n *node) equal(m *node) bool {
	if n == nil || m == nil {
		return n == m
	}
	if n.kind != m.kind {
		return false
	}
	switch n.kind {
	case nodeNum:
		return n.val == m.val
	case nodeVar:
		return n.name == m.name
	case nodeCall:
		if n.name != m.name || len(n.args) != len(m.args) {
			return false
		}
		for i := range n.args {
			if !n.args[i].equal(m.args[i]) {
				return false
			}
		}
		return true
	default:
		return n.left.equal(m.left) && n.right.equal(m.right)
	}
}
