// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

// This file lowers while, do, for and lock statements. Each rewrite
// builds the replacement from the original's parts, splices it into
// the original's slot in the enclosing block and checks the
// replacement in place of the original. The original is then
// detached and is not read again; only its Checked and Error flags
// record the outcome.
//
//	while (c) B       =>  loop { if (!c) break; B }
//	do B while (c)    =>  { bool f = true; loop { if (!f) { if (!c) break; } f = false; B } }
//	for (I; c; S) B   =>  { I; bool f = true; loop { if (!f) { S } f = false; if (!c) break; B } }
//	lock (r) B        =>  { lock (r); try { B } finally { unlock (r'); } }
//
// A literally true condition adds no test; a literally false one
// becomes an unconditional break. r' is a fresh copy of r.

import (
	"go.rcsema.net/syntax"
)

// replace splices repl into the slot of old and checks it.
func (c *checker) replace(old, repl syntax.Stmt) bool {
	old.Base().Checked = true
	if !syntax.ReplaceInParent(old, repl) {
		c.internalf(old, "cannot rewrite %T outside a block", old)
		return false
	}
	ok := c.stmt(repl)
	old.Base().Error = !ok
	return ok
}

// breakUnless returns "if (!cond) break;".
func breakUnless(cond syntax.Expr) syntax.Stmt {
	pos := cond.Span()
	not := syntax.NewUnaryExpr(syntax.Not, cond, pos)
	return syntax.NewIfStmt(not, syntax.NewBlock(pos, syntax.NewBreakStmt(pos)), nil, pos)
}

// exitTest returns the statement that leaves a loop when cond is
// false, or nil if cond is literally true.
func exitTest(cond syntax.Expr) syntax.Stmt {
	if cond == nil {
		return nil
	}
	if v, ok := syntax.BoolValue(cond); ok {
		if v {
			return nil
		}
		return syntax.NewBreakStmt(cond.Span())
	}
	return breakUnless(cond)
}

func ident(n string, pos syntax.Range) *syntax.NameExpr { return syntax.NewNameExpr(nil, n, pos) }

// firstFlag declares a fresh boolean that is true until the first
// iteration has started.
func (c *checker) firstFlag(pos syntax.Range) (string, syntax.Stmt) {
	flag := c.ctx.TempName()
	v := syntax.NewLocalVariable(flag, c.ctx.BoolType(), syntax.NewBoolLiteral(true, pos), pos)
	return flag, syntax.NewDeclarationStmt(v, pos)
}

// clearFlag returns "flag = false;".
func clearFlag(flag string, pos syntax.Range) syntax.Stmt {
	return syntax.NewExprStmt(syntax.NewAssignExpr(syntax.NoOp, ident(flag, pos), syntax.NewBoolLiteral(false, pos), pos), pos)
}

// unlessFirst returns "if (!flag) { stmts }".
func unlessFirst(flag string, pos syntax.Range, stmts ...syntax.Stmt) syntax.Stmt {
	not := syntax.NewUnaryExpr(syntax.Not, ident(flag, pos), pos)
	return syntax.NewIfStmt(not, syntax.NewBlock(pos, stmts...), nil, pos)
}

func (c *checker) whileStmt(s *syntax.WhileStmt) bool {
	if s.Checked {
		return !s.Error
	}
	body := s.Body
	if test := exitTest(s.Cond); test != nil {
		body.InsertStatement(0, test)
	}
	return c.replace(s, syntax.NewLoopStmt(body, s.Pos))
}

func (c *checker) doStmt(s *syntax.DoStmt) bool {
	if s.Checked {
		return !s.Error
	}
	body, pos := s.Body, s.Pos
	if v, ok := syntax.BoolValue(s.Cond); ok && v {
		return c.replace(s, syntax.NewLoopStmt(body, pos))
	}

	flag, decl := c.firstFlag(pos)
	// The condition is tested at the top of every iteration but the
	// first, so continue in the body still reaches it.
	body.InsertStatement(0, unlessFirst(flag, pos, exitTest(s.Cond)))
	body.InsertStatement(1, clearFlag(flag, pos))
	block := syntax.NewBlock(pos, decl, syntax.NewLoopStmt(body, pos))
	return c.replace(s, block)
}

func (c *checker) forStmt(s *syntax.ForStmt) bool {
	if s.Checked {
		return !s.Error
	}
	body, pos := s.Body, s.Pos
	block := syntax.NewBlock(pos)
	for _, init := range s.Init {
		block.AddStatement(init)
	}
	if test := exitTest(s.Cond); test != nil {
		body.InsertStatement(0, test)
	}

	flag, decl := c.firstFlag(pos)
	block.AddStatement(decl)
	var iters []syntax.Stmt
	for _, x := range s.Iter {
		iters = append(iters, syntax.NewExprStmt(x, x.Span()))
	}
	body.InsertStatement(0, unlessFirst(flag, pos, iters...))
	body.InsertStatement(1, clearFlag(flag, pos))
	block.AddStatement(syntax.NewLoopStmt(body, pos))
	return c.replace(s, block)
}

func (c *checker) lowerLock(s *syntax.LockStmt) bool {
	if s.Checked {
		return !s.Error
	}
	pos := s.Pos
	res := s.Resource
	unlock := syntax.NewUnlockStmt(syntax.CloneExpr(res), pos)
	try := syntax.NewTryStmt(s.Body, syntax.NewBlock(pos, unlock), pos)
	block := syntax.NewBlock(pos, syntax.NewLockStmt(res, nil, pos), try)
	return c.replace(s, block)
}
