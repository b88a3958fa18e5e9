// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"fmt"

	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

// stmt checks a statement. Statements that are lowered replace
// themselves in their block and check the replacement.
func (c *checker) stmt(s syntax.Stmt) bool {
	if debug {
		fmt.Printf("check %T at %s\n", s, s.Span())
	}
	switch s := s.(type) {
	case *syntax.Block:
		return c.block(s)
	case *syntax.IfStmt:
		return c.ifStmt(s)
	case *syntax.SwitchStmt:
		return c.switchStmt(s)
	case *syntax.LoopStmt:
		return c.loopStmt(s)
	case *syntax.WhileStmt:
		return c.whileStmt(s)
	case *syntax.DoStmt:
		return c.doStmt(s)
	case *syntax.ForStmt:
		return c.forStmt(s)
	case *syntax.ForeachStmt:
		return c.foreachStmt(s)
	case *syntax.TryStmt:
		return c.tryStmt(s)
	case *syntax.ThrowStmt:
		return c.throwStmt(s)
	case *syntax.ReturnStmt:
		return c.returnStmt(s)
	case *syntax.BreakStmt:
		return c.jumpStmt(s, true)
	case *syntax.ContinueStmt:
		return c.jumpStmt(s, false)
	case *syntax.LockStmt:
		return c.lockStmt(s)
	case *syntax.UnlockStmt:
		return c.unlockStmt(s)
	case *syntax.DeclarationStmt:
		return c.declaration(s)
	case *syntax.ExprStmt:
		return c.exprStmt(s)
	}
	panic(fmt.Sprintf("unexpected statement %T", s))
}

// block checks each statement in turn. A statement may replace
// itself while being checked; the block then collects the error
// types of the replacement.
func (c *checker) block(b *syntax.Block) bool {
	if b.Checked {
		return !b.Error
	}
	b.Checked = true
	for i := 0; i < len(b.Stmts); i++ {
		if !c.stmt(b.Stmts[i]) {
			b.Error = true
		}
		propagate(b, b.Stmts[i])
	}
	return !b.Error
}

// condition checks a boolean condition.
func (c *checker) condition(x syntax.Expr) bool {
	setTarget(x, c.ctx.BoolType())
	if !c.expr(x) {
		return false
	}
	if !types.IsBoolean(x.ValueType()) {
		c.errorf(x, "Condition must be boolean")
		return false
	}
	return true
}

func (c *checker) ifStmt(s *syntax.IfStmt) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true
	if !c.condition(s.Cond) {
		s.Error = true
	}
	if !c.block(s.Then) {
		s.Error = true
	}
	if s.Else != nil && !c.block(s.Else) {
		s.Error = true
	}
	propagate(s, s.Cond)
	propagate(s, s.Then)
	if s.Else != nil {
		propagate(s, s.Else)
	}
	return !s.Error
}

func (c *checker) switchStmt(s *syntax.SwitchStmt) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true

	if !c.expr(s.Expr) {
		s.Error = true
		return false
	}
	t := s.Expr.ValueType()
	if !types.IsInteger(t) && !types.IsEnum(t) && !c.compatible(t, c.ctx.StringType()) {
		c.errorf(s.Expr, "Integer or string expression expected")
		s.Error = true
		return false
	}
	propagate(s, s.Expr)

	labels := make(map[string]bool)
	for _, sec := range s.Sections {
		sec.Checked = true
		for _, l := range sec.Labels {
			if !c.switchLabel(l, t) {
				s.Error = true
				continue
			}
			if l.Expr == nil {
				continue
			}
			if key, ok := labelKey(l.Expr); ok {
				if labels[key] {
					c.errorf(l.Expr, "Switch statement already contains this label")
					s.Error = true
				}
				labels[key] = true
			}
		}
		if !c.block(sec.Block) {
			sec.Error = true
			s.Error = true
		}
		propagate(sec, sec.Block)
		propagate(s, sec)
	}
	return !s.Error
}

func (c *checker) switchLabel(l *syntax.SwitchLabel, t *syntax.DataType) bool {
	if l.Checked {
		return !l.Error
	}
	l.Checked = true
	if l.Expr == nil {
		return true
	}
	setTarget(l.Expr, t)
	if !c.expr(l.Expr) {
		l.Error = true
		return false
	}
	if !c.compatible(l.Expr.ValueType(), t) {
		c.errorf(l.Expr, "Cannot convert from `%s' to `%s'", l.Expr.ValueType(), t)
		l.Error = true
	}
	return !l.Error
}

// labelKey returns the canonical text of a constant case label, used
// to detect duplicates.
func labelKey(x syntax.Expr) (string, bool) {
	if lit, ok := x.(*syntax.Literal); ok {
		return syntax.LiteralString(lit), true
	}
	if isConstant(x) {
		return syntax.ExprString(x), true
	}
	return "", false
}

func (c *checker) loopStmt(s *syntax.LoopStmt) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true
	if !c.block(s.Body) {
		s.Error = true
	}
	propagate(s, s.Body)
	return !s.Error
}

// jumpStmt checks that break is inside a loop or switch, and that
// continue is inside a loop, within the current callable.
func (c *checker) jumpStmt(s syntax.Stmt, isBreak bool) bool {
	b := s.Base()
	if b.Checked {
		return !b.Error
	}
	b.Checked = true
outer:
	for n := b.Parent(); n != nil; n = n.Base().Parent() {
		switch n.(type) {
		case *syntax.LoopStmt, *syntax.WhileStmt, *syntax.DoStmt, *syntax.ForStmt, *syntax.ForeachStmt:
			return true
		case *syntax.SwitchStmt:
			if isBreak {
				return true
			}
		case syntax.Symbol:
			break outer
		}
	}
	if isBreak {
		c.errorf(s, "break statement not within loop or switch")
	} else {
		c.errorf(s, "continue statement not within loop")
	}
	return false
}

func (c *checker) returnStmt(s *syntax.ReturnStmt) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true

	want := c.returnType()
	if want == nil {
		c.errorf(s, "Return not allowed in this context")
		return false
	}
	if s.Result == nil {
		if !want.IsVoid() {
			c.errorf(s, "Return without value in non-void function")
			return false
		}
		return true
	}
	if want.IsVoid() {
		c.errorf(s, "Return with value in void function")
		return false
	}
	setTarget(s.Result, want)
	if !c.expr(s.Result) {
		s.Error = true
		return false
	}
	propagate(s, s.Result)
	got := s.Result.ValueType()
	if got == nil {
		c.errorf(s, "Invalid expression in return value")
		return false
	}
	if !c.compatible(got, want) {
		c.errorf(s, "Return: Cannot convert from `%s' to `%s'", got, want)
		return false
	}
	if got.IsDisposable() && !want.ValueOwned && want.Kind != syntax.PointerType {
		c.errorf(s, "Return value transfers ownership but method return type hasn't been declared to transfer ownership")
		return false
	}
	return true
}

// declaration checks a local variable declaration and adds the
// variable to the enclosing block's scope.
func (c *checker) declaration(s *syntax.DeclarationStmt) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true
	v := s.Var
	v.Checked = true

	b, ok := s.Parent().(*syntax.Block)
	if !ok {
		c.internalf(s, "declaration of `%s' outside a block", v.Name)
		return false
	}
	if prev, ok := b.Scope().Lookup(v.Name).(*syntax.LocalVariable); ok && prev != v && sameCallable(prev, v, b) {
		c.errorf(s, "Local variable `%s' conflicts with a local variable or constant declared in a parent scope", v.Name)
		v.Error = true
	}
	b.AddLocal(v)
	v.SetParent(s)

	if v.Type != nil {
		if !c.dataType(v.Type, s) {
			v.Error = true
		} else if v.Type.IsVoid() {
			c.errorf(s, "'void' not supported as variable type")
			v.Error = true
		}
	}
	if init := v.Initializer; init != nil {
		setTarget(init, v.Type)
		if !c.expr(init) {
			v.Error = true
		}
		propagate(s, init)
	}
	if v.Type == nil {
		switch {
		case v.Initializer == nil:
			c.errorf(s, "var declaration not allowed without initializer")
			v.Error = true
		case v.Initializer.ValueType() == nil || v.Initializer.ValueType().Kind == syntax.NullType:
			c.errorf(s, "var declaration not allowed with non-typed initializer")
			v.Error = true
		default:
			v.Type = v.Initializer.ValueType().Copy()
			v.Type.ValueOwned = true
		}
		if v.Error {
			v.Type = syntax.NewInvalidType()
		}
	}
	if v.Initializer != nil && !v.Error && !c.assignable(s, v.Initializer, v.Type) {
		v.Error = true
	}
	if v.Error {
		s.Error = true
	}
	return !s.Error
}

// sameCallable reports whether the earlier local prev is visible from
// block b without leaving the callable that declares v.
func sameCallable(prev, v *syntax.LocalVariable, b *syntax.Block) bool {
	return syntax.EnclosingSymbol(prev) == syntax.EnclosingSymbol(b)
}

func (c *checker) exprStmt(s *syntax.ExprStmt) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true
	if !c.expr(s.X) {
		s.Error = true
	}
	propagate(s, s.X)
	return !s.Error
}

// lockStmt checks a lock statement. A lock with a body is first
// rewritten into a bodiless lock followed by a try statement whose
// finally block unlocks a copy of the resource.
func (c *checker) lockStmt(s *syntax.LockStmt) bool {
	if s.Body != nil {
		return c.lowerLock(s)
	}
	if s.Checked {
		return !s.Error
	}
	s.Checked = true
	if !c.lockable(s, s.Resource) {
		s.Error = true
	}
	return !s.Error
}

func (c *checker) unlockStmt(s *syntax.UnlockStmt) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true
	if !c.lockable(s, s.Resource) {
		s.Error = true
	}
	return !s.Error
}

// lockable checks that res denotes an instance field or property of
// the current class.
func (c *checker) lockable(s syntax.Stmt, res syntax.Expr) bool {
	if !c.expr(res) {
		return false
	}
	name, ok := res.(*syntax.NameExpr)
	var member syntax.Symbol
	var binding syntax.Binding
	if ok {
		switch sym := name.Symbol.(type) {
		case *syntax.Field:
			member, binding = sym, sym.Binding
		case *syntax.Property:
			member, binding = sym, sym.Binding
		}
	}
	if member == nil {
		c.errorf(res, "Expression is either not a member access or does not denote a lockable member")
		return false
	}
	cl := c.currentClass()
	if cl == nil || member.Sym().ParentSymbol() != syntax.Symbol(cl) || binding != syntax.InstanceBinding {
		c.errorf(res, "Only instance members of the current class are lockable")
		return false
	}
	if cl.IsCompact {
		c.errorf(res, "Only members of non-compact classes are lockable")
		return false
	}
	return true
}
