// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides the code tree of a compilation unit: symbols,
// scopes, data types, statements and expressions.
//
// Trees are built already linked: every symbol is declared in its
// owning scope and every node knows its parent. The checker mutates
// flags on the nodes and may replace statements within their blocks.
package syntax

// A Stmt is a statement.
type Stmt interface {
	Node
	stmt()
}

func (*Block) stmt()           {}
func (*IfStmt) stmt()          {}
func (*SwitchStmt) stmt()      {}
func (*LoopStmt) stmt()        {}
func (*WhileStmt) stmt()       {}
func (*DoStmt) stmt()          {}
func (*ForStmt) stmt()         {}
func (*ForeachStmt) stmt()     {}
func (*TryStmt) stmt()         {}
func (*ThrowStmt) stmt()       {}
func (*ReturnStmt) stmt()      {}
func (*BreakStmt) stmt()       {}
func (*ContinueStmt) stmt()    {}
func (*LockStmt) stmt()        {}
func (*UnlockStmt) stmt()      {}
func (*DeclarationStmt) stmt() {}
func (*ExprStmt) stmt()        {}

// A Block is a brace-delimited statement list. It opens a scope for
// the local variables it declares.
type Block struct {
	CodeNode
	Stmts  []Stmt
	Locals []*LocalVariable

	scope *Scope
}

// NewBlock returns a block containing stmts.
func NewBlock(pos Range, stmts ...Stmt) *Block {
	b := &Block{CodeNode: CodeNode{Pos: pos}}
	b.scope = newBlockScope(b)
	for _, s := range stmts {
		b.AddStatement(s)
	}
	return b
}

// Scope returns the scope of the block's local variables.
func (b *Block) Scope() *Scope { return b.scope }

// AddStatement appends s to the block.
func (b *Block) AddStatement(s Stmt) {
	b.Stmts = append(b.Stmts, s)
	s.Base().parent = b
}

// InsertStatement inserts s before the i'th statement.
func (b *Block) InsertStatement(i int, s Stmt) {
	b.Stmts = append(b.Stmts, nil)
	copy(b.Stmts[i+1:], b.Stmts[i:])
	b.Stmts[i] = s
	s.Base().parent = b
}

// ReplaceStatement puts repl in the slot occupied by old and unlinks
// old. It reports whether old was found.
func (b *Block) ReplaceStatement(old, repl Stmt) bool {
	for i, s := range b.Stmts {
		if s == old {
			b.Stmts[i] = repl
			repl.Base().parent = b
			old.Base().parent = nil
			return true
		}
	}
	return false
}

// AddLocal declares v in the block's scope.
func (b *Block) AddLocal(v *LocalVariable) {
	b.Locals = append(b.Locals, v)
	b.scope.Add(v.Name, v)
}

// ReplaceInParent replaces old with repl in the block that contains
// it. It reports false if old is not directly inside a block.
func ReplaceInParent(old, repl Stmt) bool {
	b, ok := old.Base().parent.(*Block)
	if !ok {
		return false
	}
	return b.ReplaceStatement(old, repl)
}

// An IfStmt is a conditional: if (Cond) Then else Else.
type IfStmt struct {
	CodeNode
	Cond Expr
	Then *Block
	Else *Block // may be nil
}

func NewIfStmt(cond Expr, then, els *Block, pos Range) *IfStmt {
	s := &IfStmt{CodeNode: CodeNode{Pos: pos}, Cond: cond, Then: then, Else: els}
	cond.Base().parent = s
	then.parent = s
	if els != nil {
		els.parent = s
	}
	return s
}

// A SwitchStmt selects one of its sections by the value of Expr.
type SwitchStmt struct {
	CodeNode
	Expr     Expr
	Sections []*SwitchSection
}

func NewSwitchStmt(x Expr, pos Range) *SwitchStmt {
	s := &SwitchStmt{CodeNode: CodeNode{Pos: pos}, Expr: x}
	x.Base().parent = s
	return s
}

// AddSection appends a section.
func (s *SwitchStmt) AddSection(sec *SwitchSection) {
	s.Sections = append(s.Sections, sec)
	sec.parent = s
}

// A SwitchSection is a list of case labels and the block they select.
type SwitchSection struct {
	CodeNode
	Labels []*SwitchLabel
	Block  *Block
}

func NewSwitchSection(body *Block, pos Range) *SwitchSection {
	sec := &SwitchSection{CodeNode: CodeNode{Pos: pos}, Block: body}
	body.parent = sec
	return sec
}

// AddLabel appends a case label.
func (sec *SwitchSection) AddLabel(l *SwitchLabel) {
	sec.Labels = append(sec.Labels, l)
	l.parent = sec
}

// HasDefault reports whether the section has a default label.
func (sec *SwitchSection) HasDefault() bool {
	for _, l := range sec.Labels {
		if l.Expr == nil {
			return true
		}
	}
	return false
}

// A SwitchLabel is "case Expr:" or, if Expr is nil, "default:".
type SwitchLabel struct {
	CodeNode
	Expr Expr
}

func NewSwitchLabel(x Expr, pos Range) *SwitchLabel {
	l := &SwitchLabel{CodeNode: CodeNode{Pos: pos}, Expr: x}
	if x != nil {
		x.Base().parent = l
	}
	return l
}

// A LoopStmt repeats Body forever. It is left only by break, return
// or throw.
type LoopStmt struct {
	CodeNode
	Body *Block
}

func NewLoopStmt(body *Block, pos Range) *LoopStmt {
	s := &LoopStmt{CodeNode: CodeNode{Pos: pos}, Body: body}
	body.parent = s
	return s
}

// A WhileStmt is "while (Cond) Body". Checking lowers it to a LoopStmt.
type WhileStmt struct {
	CodeNode
	Cond Expr
	Body *Block
}

func NewWhileStmt(cond Expr, body *Block, pos Range) *WhileStmt {
	s := &WhileStmt{CodeNode: CodeNode{Pos: pos}, Cond: cond, Body: body}
	cond.Base().parent = s
	body.parent = s
	return s
}

// A DoStmt is "do Body while (Cond)". Checking lowers it to a LoopStmt.
type DoStmt struct {
	CodeNode
	Body *Block
	Cond Expr
}

func NewDoStmt(body *Block, cond Expr, pos Range) *DoStmt {
	s := &DoStmt{CodeNode: CodeNode{Pos: pos}, Body: body, Cond: cond}
	cond.Base().parent = s
	body.parent = s
	return s
}

// A ForStmt is "for (Init; Cond; Iter) Body".
// Checking lowers it to a LoopStmt.
type ForStmt struct {
	CodeNode
	Init []Stmt // declarations or expression statements
	Cond Expr   // may be nil
	Iter []Expr
	Body *Block
}

func NewForStmt(init []Stmt, cond Expr, iter []Expr, body *Block, pos Range) *ForStmt {
	s := &ForStmt{CodeNode: CodeNode{Pos: pos}, Init: init, Cond: cond, Iter: iter, Body: body}
	for _, i := range init {
		i.Base().parent = s
	}
	if cond != nil {
		cond.Base().parent = s
	}
	for _, x := range iter {
		x.Base().parent = s
	}
	body.parent = s
	return s
}

// A ForeachStmt is "foreach (VarType VarName in Collection) Body".
// A nil VarType means the element type is inferred.
// Checking lowers it according to the collection's protocol.
type ForeachStmt struct {
	CodeNode
	VarType    *DataType
	VarName    string
	Collection Expr
	Body       *Block
}

func NewForeachStmt(typ *DataType, name string, coll Expr, body *Block, pos Range) *ForeachStmt {
	s := &ForeachStmt{CodeNode: CodeNode{Pos: pos}, VarType: typ, VarName: name, Collection: coll, Body: body}
	coll.Base().parent = s
	body.parent = s
	return s
}

// A TryStmt is "try Body catch... finally Finally".
type TryStmt struct {
	CodeNode
	Body    *Block
	Catches []*CatchClause
	Finally *Block // may be nil
}

func NewTryStmt(body *Block, finally *Block, pos Range) *TryStmt {
	s := &TryStmt{CodeNode: CodeNode{Pos: pos}, Body: body, Finally: finally}
	body.parent = s
	if finally != nil {
		finally.parent = s
	}
	return s
}

// AddCatch appends a catch clause.
func (s *TryStmt) AddCatch(c *CatchClause) {
	s.Catches = append(s.Catches, c)
	c.parent = s
}

// A CatchClause handles errors of ErrorType, or of any type if
// ErrorType is nil. The caught error is bound to VarName, if set,
// within Body.
type CatchClause struct {
	CodeNode
	ErrorType *DataType
	VarName   string
	Body      *Block

	Var *LocalVariable // set by the checker
}

func NewCatchClause(typ *DataType, name string, body *Block, pos Range) *CatchClause {
	c := &CatchClause{CodeNode: CodeNode{Pos: pos}, ErrorType: typ, VarName: name, Body: body}
	body.parent = c
	return c
}

// A ThrowStmt raises the error value Err.
type ThrowStmt struct {
	CodeNode
	Err Expr
}

func NewThrowStmt(x Expr, pos Range) *ThrowStmt {
	s := &ThrowStmt{CodeNode: CodeNode{Pos: pos}, Err: x}
	x.Base().parent = s
	return s
}

// A ReturnStmt leaves the enclosing callable.
type ReturnStmt struct {
	CodeNode
	Result Expr // may be nil
}

func NewReturnStmt(x Expr, pos Range) *ReturnStmt {
	s := &ReturnStmt{CodeNode: CodeNode{Pos: pos}, Result: x}
	if x != nil {
		x.Base().parent = s
	}
	return s
}

// A BreakStmt leaves the innermost loop or switch.
type BreakStmt struct{ CodeNode }

func NewBreakStmt(pos Range) *BreakStmt { return &BreakStmt{CodeNode{Pos: pos}} }

// A ContinueStmt starts the next iteration of the innermost loop.
type ContinueStmt struct{ CodeNode }

func NewContinueStmt(pos Range) *ContinueStmt { return &ContinueStmt{CodeNode{Pos: pos}} }

// A LockStmt is "lock (Resource) Body". With a nil Body it acquires
// the lock without releasing it.
type LockStmt struct {
	CodeNode
	Resource Expr
	Body     *Block
}

func NewLockStmt(res Expr, body *Block, pos Range) *LockStmt {
	s := &LockStmt{CodeNode: CodeNode{Pos: pos}, Resource: res, Body: body}
	res.Base().parent = s
	if body != nil {
		body.parent = s
	}
	return s
}

// An UnlockStmt releases a lock acquired by a LockStmt without body.
type UnlockStmt struct {
	CodeNode
	Resource Expr
}

func NewUnlockStmt(res Expr, pos Range) *UnlockStmt {
	s := &UnlockStmt{CodeNode: CodeNode{Pos: pos}, Resource: res}
	res.Base().parent = s
	return s
}

// A DeclarationStmt declares a local variable. The variable is added
// to the enclosing block's scope when the statement is checked.
type DeclarationStmt struct {
	CodeNode
	Var *LocalVariable
}

func NewDeclarationStmt(v *LocalVariable, pos Range) *DeclarationStmt {
	s := &DeclarationStmt{CodeNode: CodeNode{Pos: pos}, Var: v}
	v.parent = s
	return s
}

// An ExprStmt evaluates X for its side effects.
type ExprStmt struct {
	CodeNode
	X Expr
}

func NewExprStmt(x Expr, pos Range) *ExprStmt {
	s := &ExprStmt{CodeNode: CodeNode{Pos: pos}, X: x}
	x.Base().parent = s
	return s
}
