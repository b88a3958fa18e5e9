// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// An Expr is an expression.
type Expr interface {
	Node
	expr()
	// ValueType returns the type of the expression, set by the
	// checker, or nil before checking.
	ValueType() *DataType
	SetValueType(t *DataType)
	// Target returns the type the context expects, or nil.
	Target() *DataType
	SetTarget(t *DataType)
}

func (*Literal) expr()        {}
func (*NameExpr) expr()       {}
func (*CallExpr) expr()       {}
func (*ObjectCreation) expr() {}
func (*ArrayCreation) expr()  {}
func (*UnaryExpr) expr()      {}
func (*PostfixExpr) expr()    {}
func (*BinaryExpr) expr()     {}
func (*AssignExpr) expr()     {}
func (*ElementAccess) expr()  {}
func (*CastExpr) expr()       {}

// ExprNode holds the state common to all expressions.
type ExprNode struct {
	CodeNode
	typ *DataType

	// TargetType is the type the context expects, if known.
	TargetType *DataType
}

func (x *ExprNode) ValueType() *DataType     { return x.typ }
func (x *ExprNode) SetValueType(t *DataType) { x.typ = t }
func (x *ExprNode) Target() *DataType        { return x.TargetType }
func (x *ExprNode) SetTarget(t *DataType)    { x.TargetType = t }

// LitKind discriminates literals.
type LitKind uint8

const (
	NullLit LitKind = iota
	BoolLit
	IntLit
	RealLit
	StringLit
	CharLit
)

// A Literal is a constant. Value holds nil, bool, int64, float64,
// string or rune according to Kind.
type Literal struct {
	ExprNode
	Kind  LitKind
	Value interface{}
}

func NewNullLiteral(pos Range) *Literal {
	return &Literal{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Kind: NullLit}
}

func NewBoolLiteral(v bool, pos Range) *Literal {
	return &Literal{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Kind: BoolLit, Value: v}
}

func NewIntLiteral(v int64, pos Range) *Literal {
	return &Literal{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Kind: IntLit, Value: v}
}

func NewRealLiteral(v float64, pos Range) *Literal {
	return &Literal{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Kind: RealLit, Value: v}
}

func NewStringLiteral(v string, pos Range) *Literal {
	return &Literal{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Kind: StringLit, Value: v}
}

func NewCharLiteral(v rune, pos Range) *Literal {
	return &Literal{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Kind: CharLit, Value: v}
}

// BoolValue reports whether x is a boolean literal, and its value.
func BoolValue(x Expr) (value, ok bool) {
	if lit, isLit := x.(*Literal); isLit && lit.Kind == BoolLit {
		return lit.Value.(bool), true
	}
	return false, false
}

// A NameExpr is a simple name, or a member access Inner.Name when
// Inner is non-nil.
type NameExpr struct {
	ExprNode
	Inner    Expr
	Name     string
	TypeArgs []*DataType

	Symbol Symbol // resolved by the checker; weak
}

func NewNameExpr(inner Expr, name string, pos Range) *NameExpr {
	x := &NameExpr{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Inner: inner, Name: name}
	if inner != nil {
		inner.Base().parent = x
	}
	return x
}

// IsThis reports whether x is the keyword this.
func (x *NameExpr) IsThis() bool { return x.Inner == nil && x.Name == "this" }

// A CallExpr is a method invocation Fn(Args).
type CallExpr struct {
	ExprNode
	Fn   Expr
	Args []Expr
}

func NewCallExpr(fn Expr, args []Expr, pos Range) *CallExpr {
	x := &CallExpr{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Fn: fn, Args: args}
	fn.Base().parent = x
	for _, a := range args {
		a.Base().parent = x
	}
	return x
}

// An ObjectCreation is "new Type.Name(Args)". An empty Name selects
// the default creation method.
type ObjectCreation struct {
	ExprNode
	Type *DataType
	Name string
	Args []Expr

	Ctor *CreationMethod // resolved by the checker; weak
}

func NewObjectCreation(typ *DataType, name string, args []Expr, pos Range) *ObjectCreation {
	x := &ObjectCreation{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Type: typ, Name: name, Args: args}
	for _, a := range args {
		a.Base().parent = x
	}
	return x
}

// An ArrayCreation is "new Elem[Sizes...]" or "{ Init... }".
type ArrayCreation struct {
	ExprNode
	Elem  *DataType // nil for an untyped initializer list
	Rank  int
	Sizes []Expr
	Init  []Expr
}

func NewArrayCreation(elem *DataType, rank int, sizes, init []Expr, pos Range) *ArrayCreation {
	if rank < 1 {
		rank = 1
	}
	x := &ArrayCreation{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Elem: elem, Rank: rank, Sizes: sizes, Init: init}
	for _, e := range sizes {
		e.Base().parent = x
	}
	for _, e := range init {
		e.Base().parent = x
	}
	return x
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	Not UnaryOp = iota
	Neg
	Plus
	BitNot
	PreInc
	PreDec
)

var unaryOps = [...]string{
	Not:    "!",
	Neg:    "-",
	Plus:   "+",
	BitNot: "~",
	PreInc: "++",
	PreDec: "--",
}

func (op UnaryOp) String() string { return unaryOps[op] }

// ParseUnaryOp returns the operator spelled s.
func ParseUnaryOp(s string) (UnaryOp, bool) {
	for op, t := range unaryOps {
		if t == s {
			return UnaryOp(op), true
		}
	}
	return 0, false
}

// A UnaryExpr is "Op X".
type UnaryExpr struct {
	ExprNode
	Op UnaryOp
	X  Expr
}

func NewUnaryExpr(op UnaryOp, x Expr, pos Range) *UnaryExpr {
	u := &UnaryExpr{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Op: op, X: x}
	x.Base().parent = u
	return u
}

// A PostfixExpr is "X++" or "X--".
type PostfixExpr struct {
	ExprNode
	X   Expr
	Inc bool
}

func NewPostfixExpr(x Expr, inc bool, pos Range) *PostfixExpr {
	p := &PostfixExpr{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, X: x, Inc: inc}
	x.Base().parent = p
	return p
}

// BinaryOp is an infix operator. The zero value denotes plain
// assignment in an AssignExpr and is invalid in a BinaryExpr.
type BinaryOp uint8

const (
	NoOp BinaryOp = iota
	Add
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	BitAnd
	BitOr
	BitXor
	Lt
	Gt
	Le
	Ge
	Eq
	Ne
	And
	Or
)

var binaryOps = [...]string{
	NoOp:   "",
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Mod:    "%",
	Shl:    "<<",
	Shr:    ">>",
	BitAnd: "&",
	BitOr:  "|",
	BitXor: "^",
	Lt:     "<",
	Gt:     ">",
	Le:     "<=",
	Ge:     ">=",
	Eq:     "==",
	Ne:     "!=",
	And:    "&&",
	Or:     "||",
}

func (op BinaryOp) String() string { return binaryOps[op] }

// ParseBinaryOp returns the operator spelled s.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for op, t := range binaryOps {
		if t == s && op != int(NoOp) {
			return BinaryOp(op), true
		}
	}
	return NoOp, false
}

// IsComparison reports whether op yields a boolean from two operands
// of the same kind.
func (op BinaryOp) IsComparison() bool { return op >= Lt && op <= Ne }

// IsLogical reports whether op is && or ||.
func (op BinaryOp) IsLogical() bool { return op == And || op == Or }

// A BinaryExpr is "X Op Y".
type BinaryExpr struct {
	ExprNode
	Op BinaryOp
	X  Expr
	Y  Expr
}

func NewBinaryExpr(op BinaryOp, x, y Expr, pos Range) *BinaryExpr {
	b := &BinaryExpr{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Op: op, X: x, Y: y}
	x.Base().parent = b
	y.Base().parent = b
	return b
}

// An AssignExpr is "LHS = RHS" or, for a non-zero Op, "LHS Op= RHS".
type AssignExpr struct {
	ExprNode
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

func NewAssignExpr(op BinaryOp, lhs, rhs Expr, pos Range) *AssignExpr {
	a := &AssignExpr{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Op: op, LHS: lhs, RHS: rhs}
	lhs.Base().parent = a
	rhs.Base().parent = a
	return a
}

// An ElementAccess is "X[Index...]".
type ElementAccess struct {
	ExprNode
	X     Expr
	Index []Expr
}

func NewElementAccess(x Expr, index []Expr, pos Range) *ElementAccess {
	e := &ElementAccess{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, X: x, Index: index}
	x.Base().parent = e
	for _, i := range index {
		i.Base().parent = e
	}
	return e
}

// A CastExpr is "(Type) X", or "X as Type" when Soft is set.
type CastExpr struct {
	ExprNode
	X    Expr
	Type *DataType
	Soft bool
}

func NewCastExpr(x Expr, typ *DataType, soft bool, pos Range) *CastExpr {
	c := &CastExpr{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, X: x, Type: typ, Soft: soft}
	x.Base().parent = c
	return c
}

// CloneExpr returns an unchecked deep copy of x with the same
// positions. The copy has no parent.
func CloneExpr(x Expr) Expr {
	if x == nil {
		return nil
	}
	pos := x.Span()
	switch x := x.(type) {
	case *Literal:
		return &Literal{ExprNode: ExprNode{CodeNode: CodeNode{Pos: pos}}, Kind: x.Kind, Value: x.Value}
	case *NameExpr:
		c := NewNameExpr(CloneExpr(x.Inner), x.Name, pos)
		for _, t := range x.TypeArgs {
			c.TypeArgs = append(c.TypeArgs, t.Copy())
		}
		return c
	case *CallExpr:
		return NewCallExpr(CloneExpr(x.Fn), cloneExprs(x.Args), pos)
	case *ObjectCreation:
		return NewObjectCreation(x.Type.Copy(), x.Name, cloneExprs(x.Args), pos)
	case *ArrayCreation:
		return NewArrayCreation(x.Elem.Copy(), x.Rank, cloneExprs(x.Sizes), cloneExprs(x.Init), pos)
	case *UnaryExpr:
		return NewUnaryExpr(x.Op, CloneExpr(x.X), pos)
	case *PostfixExpr:
		return NewPostfixExpr(CloneExpr(x.X), x.Inc, pos)
	case *BinaryExpr:
		return NewBinaryExpr(x.Op, CloneExpr(x.X), CloneExpr(x.Y), pos)
	case *AssignExpr:
		return NewAssignExpr(x.Op, CloneExpr(x.LHS), CloneExpr(x.RHS), pos)
	case *ElementAccess:
		return NewElementAccess(CloneExpr(x.X), cloneExprs(x.Index), pos)
	case *CastExpr:
		return NewCastExpr(CloneExpr(x.X), x.Type.Copy(), x.Soft, pos)
	}
	panic(fmt.Sprintf("unexpected expression %T", x))
}

func cloneExprs(list []Expr) []Expr {
	if list == nil {
		return nil
	}
	res := make([]Expr, len(list))
	for i, x := range list {
		res[i] = CloneExpr(x)
	}
	return res
}

// ExprString returns the source form of x, with full parentheses
// around nested operators.
func ExprString(x Expr) string {
	var buf strings.Builder
	writeExpr(&buf, x)
	return buf.String()
}

func writeExpr(buf *strings.Builder, x Expr) {
	switch x := x.(type) {
	case nil:
		buf.WriteString("<nil>")
	case *Literal:
		buf.WriteString(LiteralString(x))
	case *NameExpr:
		if x.Inner != nil {
			writeOperand(buf, x.Inner)
			buf.WriteByte('.')
		}
		buf.WriteString(x.Name)
		if len(x.TypeArgs) > 0 {
			buf.WriteByte('<')
			for i, t := range x.TypeArgs {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.WriteString(t.String())
			}
			buf.WriteByte('>')
		}
	case *CallExpr:
		writeOperand(buf, x.Fn)
		writeArgs(buf, x.Args)
	case *ObjectCreation:
		buf.WriteString("new ")
		buf.WriteString(x.Type.String())
		if x.Name != "" {
			buf.WriteByte('.')
			buf.WriteString(x.Name)
		}
		writeArgs(buf, x.Args)
	case *ArrayCreation:
		if x.Elem != nil {
			buf.WriteString("new ")
			buf.WriteString(x.Elem.String())
			buf.WriteByte('[')
			for i, s := range x.Sizes {
				if i > 0 {
					buf.WriteByte(',')
				}
				writeExpr(buf, s)
			}
			buf.WriteByte(']')
		}
		if x.Init != nil || x.Elem == nil {
			buf.WriteString("{")
			for i, e := range x.Init {
				if i > 0 {
					buf.WriteString(", ")
				}
				writeExpr(buf, e)
			}
			buf.WriteString("}")
		}
	case *UnaryExpr:
		buf.WriteString(x.Op.String())
		writeOperand(buf, x.X)
	case *PostfixExpr:
		writeOperand(buf, x.X)
		if x.Inc {
			buf.WriteString("++")
		} else {
			buf.WriteString("--")
		}
	case *BinaryExpr:
		writeOperand(buf, x.X)
		buf.WriteByte(' ')
		buf.WriteString(x.Op.String())
		buf.WriteByte(' ')
		writeOperand(buf, x.Y)
	case *AssignExpr:
		writeExpr(buf, x.LHS)
		buf.WriteByte(' ')
		buf.WriteString(x.Op.String())
		buf.WriteString("= ")
		writeExpr(buf, x.RHS)
	case *ElementAccess:
		writeOperand(buf, x.X)
		buf.WriteByte('[')
		for i, e := range x.Index {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeExpr(buf, e)
		}
		buf.WriteByte(']')
	case *CastExpr:
		if x.Soft {
			writeOperand(buf, x.X)
			buf.WriteString(" as ")
			buf.WriteString(x.Type.String())
		} else {
			buf.WriteByte('(')
			buf.WriteString(x.Type.String())
			buf.WriteString(") ")
			writeOperand(buf, x.X)
		}
	default:
		panic(fmt.Sprintf("unexpected expression %T", x))
	}
}

// writeOperand parenthesizes operator expressions.
func writeOperand(buf *strings.Builder, x Expr) {
	switch x.(type) {
	case *BinaryExpr, *AssignExpr, *CastExpr, *UnaryExpr:
		buf.WriteByte('(')
		writeExpr(buf, x)
		buf.WriteByte(')')
	default:
		writeExpr(buf, x)
	}
}

func writeArgs(buf *strings.Builder, args []Expr) {
	buf.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeExpr(buf, a)
	}
	buf.WriteByte(')')
}

// LiteralString returns the canonical source form of a literal.
// Literals with the same value have the same canonical form.
func LiteralString(x *Literal) string {
	switch x.Kind {
	case NullLit:
		return "null"
	case BoolLit:
		return strconv.FormatBool(x.Value.(bool))
	case IntLit:
		return strconv.FormatInt(x.Value.(int64), 10)
	case RealLit:
		return strconv.FormatFloat(x.Value.(float64), 'g', -1, 64)
	case StringLit:
		return strconv.Quote(x.Value.(string))
	case CharLit:
		return strconv.QuoteRune(x.Value.(rune))
	}
	panic(fmt.Sprintf("unexpected literal kind %d", x.Kind))
}
