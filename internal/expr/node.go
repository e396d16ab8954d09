// Package expr compiles already-built arithmetic expression trees into
// stack-machine instructions.
//
// A tree is made of three node variants: *Literal and *VarRef leaves and
// *Binary arithmetic operators. Every node resolves its numeric type without
// side effects and compiles by appending its value-producing instructions to
// the Context's stream. A binary node emits its left operand, then its right
// operand, then exactly one arithmetic instruction chosen from the operator's
// dispatch table for the promoted operand type.
package expr

import (
	"fmt"
	"strconv"

	"exprc/internal/arith"
	"exprc/internal/numeric"
	"exprc/internal/types"
)

// Node is an expression tree node. The set of implementations is closed:
// *Literal, *VarRef and *Binary.
type Node interface {
	// ResolveType returns the numeric type the node's value has. It never
	// emits and may be called any number of times.
	ResolveType(ctx *Context) (numeric.Type, error)
	// Compile appends the node's value-producing instructions to ctx.Out.
	Compile(ctx *Context) error
	String() string

	isNode()
}

// Literal is a constant of a fixed static type.
type Literal struct {
	Type  types.Type
	Int   int64 // int, long
	Float float64
	Str   string
	Bool  bool
}

// VarRef reads a declared variable.
type VarRef struct {
	Name string
}

// Binary applies an arithmetic operator to two operands.
type Binary struct {
	Op    arith.Op
	Left  Node
	Right Node
}

func (*Literal) isNode() {}
func (*VarRef) isNode()  {}
func (*Binary) isNode()  {}

// Constructors ---------------------------------------------------------------

// IntLit returns an int literal.
func IntLit(v int32) *Literal {
	return &Literal{Type: types.MakeInt(types.Width32), Int: int64(v)}
}

// LongLit returns a long literal.
func LongLit(v int64) *Literal {
	return &Literal{Type: types.MakeInt(types.Width64), Int: v}
}

// FloatLit returns a float literal.
func FloatLit(v float32) *Literal {
	return &Literal{Type: types.MakeFloat(types.Width32), Float: float64(v)}
}

// DoubleLit returns a double literal.
func DoubleLit(v float64) *Literal {
	return &Literal{Type: types.MakeFloat(types.Width64), Float: v}
}

// StringLit returns a string literal. It has no numeric type.
func StringLit(v string) *Literal {
	return &Literal{Type: types.String(), Str: v}
}

// BoolLit returns a boolean literal. It has no numeric type.
func BoolLit(v bool) *Literal {
	return &Literal{Type: types.Bool(), Bool: v}
}

// NullLit returns the null literal.
func NullLit() *Literal {
	return &Literal{Type: types.Null()}
}

// Var references a variable declared in the symbol table.
func Var(name string) *VarRef {
	return &VarRef{Name: name}
}

// NewBinary applies op to left and right.
func NewBinary(op arith.Op, left, right Node) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

// Shorthands for NewBinary with a fixed operator.
func Add(left, right Node) *Binary { return NewBinary(arith.Add, left, right) }
func Sub(left, right Node) *Binary { return NewBinary(arith.Sub, left, right) }
func Mul(left, right Node) *Binary { return NewBinary(arith.Mul, left, right) }
func Div(left, right Node) *Binary { return NewBinary(arith.Div, left, right) }
func Rem(left, right Node) *Binary { return NewBinary(arith.Rem, left, right) }

// Printing -------------------------------------------------------------------

func (l *Literal) String() string {
	switch l.Type.Kind {
	case types.KindInt:
		if l.Type.Width == types.Width64 {
			return strconv.FormatInt(l.Int, 10) + "L"
		}
		return strconv.FormatInt(l.Int, 10)
	case types.KindFloat:
		if l.Type.Width == types.Width32 {
			return strconv.FormatFloat(l.Float, 'g', -1, 32) + "f"
		}
		s := strconv.FormatFloat(l.Float, 'g', -1, 64)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			s += ".0"
		}
		return s
	case types.KindString:
		return strconv.Quote(l.Str)
	case types.KindBool:
		return strconv.FormatBool(l.Bool)
	case types.KindNull:
		return "null"
	default:
		return fmt.Sprintf("<%s literal>", l.Type)
	}
}

func (v *VarRef) String() string { return v.Name }

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op.Symbol(), b.Right)
}

// Walk visits n and its descendants depth-first, left before right.
// Returning false from fn skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if b, ok := n.(*Binary); ok {
		Walk(b.Left, fn)
		Walk(b.Right, fn)
	}
}

// Paths names every node of the tree rooted at n with a dotted path:
// the root gets root, operands get root.left and root.right, and so on.
func Paths(n Node, root string) map[Node]string {
	out := make(map[Node]string)
	var visit func(Node, string)
	visit = func(n Node, path string) {
		if n == nil {
			return
		}
		out[n] = path
		if b, ok := n.(*Binary); ok {
			visit(b.Left, path+".left")
			visit(b.Right, path+".right")
		}
	}
	visit(n, root)
	return out
}
