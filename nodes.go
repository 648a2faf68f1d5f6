package formula

import (
	"strings"
)

// node is a node in the abstract syntax tree of a formula. Each node owns its
// children; no node is reachable from two parents.
type node struct {
	kind nodeKind

	// num is the value of a nodeNum.
	num float64
	// text is the lexeme of a nodeNum or the function name of a nodeCall.
	text string
	// op is the operator of a nodeBinary or nodeNeg.
	op byte
	// pos is the position of the token that created the node.
	pos int

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum    // num
	nodeBinary // evaluate left, apply op with right
	nodeNeg    // evaluate left, then negate
	nodeCall   // text is the function to call, left is the argument
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNum:
		b.WriteString(n.text)
	case nodeBinary:
		n.left.fmt(b, !square)
		b.WriteByte(' ')
		b.WriteByte(n.op)
		b.WriteByte(' ')
		n.right.fmt(b, !square)
	case nodeNeg:
		b.WriteByte(n.op)
		n.left.fmt(b, !square)
	case nodeCall:
		b.WriteString(n.text)
		n.left.fmt(b, !square)
	default:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		b.WriteString(n.kind.String())
		b.WriteByte('$')
	}
}
