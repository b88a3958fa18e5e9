// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

// A body is text, a list, or a mapping. Text holds simple statements
// separated by semicolons:
//
//	return x;  throw e;  break;  continue;  lock (r);  unlock (r);
//	var x = e;  T x = e;  T x;  e;
//
// A list holds text items and compound statements. A compound
// statement is a mapping whose keys select its kind:
//
//	{if: cond, then: body, else: body}
//	{while: cond, body: body}
//	{do: body, while: cond}
//	{for: "init; cond; iter", body: body}
//	{foreach: "T x in e", body: body}
//	{switch: e, cases: [{case: [e...], default: true, body: body}]}
//	{try: body, catch: [{type: T, var: name, body: body}], finally: body}
//	{lock: r, body: body}
//	{loop: body}
//	{block: body}

import (
	"gopkg.in/yaml.v3"

	"go.rcsema.net/syntax"
)

// block builds a block from a body. Type names in the body are
// resolved in the scope of at.
func (l *loader) block(n *yaml.Node, at syntax.Symbol) *syntax.Block {
	b := syntax.NewBlock(l.rng(n))
	l.addBody(b, n, at)
	return b
}

// optBlock is block for an optional body, which is empty if absent.
func (l *loader) optBlock(n *yaml.Node, at syntax.Symbol, def *yaml.Node) *syntax.Block {
	if n == nil {
		return syntax.NewBlock(l.rng(def))
	}
	return l.block(n, at)
}

func (l *loader) addBody(b *syntax.Block, n *yaml.Node, at syntax.Symbol) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return
		}
		l.parse(n, at, func(p *parser) {
			for _, s := range p.stmts() {
				b.AddStatement(s)
			}
		})
	case yaml.SequenceNode:
		for _, item := range n.Content {
			l.addBody(b, item, at)
		}
	case yaml.MappingNode:
		if s := l.compound(n, at); s != nil {
			b.AddStatement(s)
		}
	default:
		l.errorf(l.pos(n), "got %s, want statements", kindName(n))
	}
}

// compound builds the compound statement described by mapping n.
func (l *loader) compound(n *yaml.Node, at syntax.Symbol) syntax.Stmt {
	m := l.mapping(n)
	defer m.done()
	pos := l.rng(n)
	cond := func(key string) syntax.Expr {
		x := l.exprOf(m.required(key), at)
		if x == nil {
			x = syntax.NewBoolLiteral(false, pos)
		}
		return x
	}

	switch {
	case m.has("if"):
		then := l.optBlock(m.node("then"), at, n)
		var els *syntax.Block
		if e := m.node("else"); e != nil {
			els = l.block(e, at)
		}
		return syntax.NewIfStmt(cond("if"), then, els, pos)

	case m.has("do"):
		body := l.block(m.node("do"), at)
		if !m.has("while") {
			l.errorf(l.pos(n), "do statement without while")
			return nil
		}
		return syntax.NewDoStmt(body, cond("while"), pos)

	case m.has("while"):
		return syntax.NewWhileStmt(cond("while"), l.optBlock(m.node("body"), at, n), pos)

	case m.has("for"):
		var (
			init []syntax.Stmt
			c    syntax.Expr
			iter []syntax.Expr
		)
		if !l.parse(m.node("for"), at, func(p *parser) { init, c, iter = p.forHeader() }) {
			return nil
		}
		return syntax.NewForStmt(init, c, iter, l.optBlock(m.node("body"), at, n), pos)

	case m.has("foreach"):
		var (
			typ  *syntax.DataType
			name string
			coll syntax.Expr
		)
		if !l.parse(m.node("foreach"), at, func(p *parser) { typ, name, coll = p.foreachHeader() }) {
			return nil
		}
		return syntax.NewForeachStmt(typ, name, coll, l.optBlock(m.node("body"), at, n), pos)

	case m.has("switch"):
		s := syntax.NewSwitchStmt(cond("switch"), pos)
		for _, item := range m.list("cases") {
			s.AddSection(l.switchSection(item, at))
		}
		return s

	case m.has("try"):
		var finally *syntax.Block
		if f := m.node("finally"); f != nil {
			finally = l.block(f, at)
		}
		s := syntax.NewTryStmt(l.block(m.node("try"), at), finally, pos)
		for _, item := range m.list("catch") {
			s.AddCatch(l.catchClause(item, at))
		}
		return s

	case m.has("lock"):
		return syntax.NewLockStmt(cond("lock"), l.optBlock(m.node("body"), at, n), pos)

	case m.has("loop"):
		return syntax.NewLoopStmt(l.block(m.node("loop"), at), pos)

	case m.has("block"):
		return l.block(m.node("block"), at)
	}
	l.errorf(l.pos(n), "unknown statement")
	return nil
}

func (l *loader) switchSection(n *yaml.Node, at syntax.Symbol) *syntax.SwitchSection {
	m := l.mapping(n)
	sec := syntax.NewSwitchSection(l.optBlock(m.node("body"), at, n), l.rng(n))
	for _, item := range m.list("case") {
		if x := l.exprOf(item, at); x != nil {
			sec.AddLabel(syntax.NewSwitchLabel(x, l.rng(item)))
		}
	}
	if d := m.node("default"); d != nil && m.bool("default") {
		sec.AddLabel(syntax.NewSwitchLabel(nil, l.rng(d)))
	}
	m.done()
	return sec
}

func (l *loader) catchClause(n *yaml.Node, at syntax.Symbol) *syntax.CatchClause {
	m := l.mapping(n)
	var typ *syntax.DataType
	if t := m.node("type"); t != nil {
		typ = l.typeOf(t, at, true)
	}
	cc := syntax.NewCatchClause(typ, m.str("var"), l.optBlock(m.node("body"), at, n), l.rng(n))
	m.done()
	return cc
}

// -- simple statements --

// stmts parses simple statements separated by semicolons.
func (p *parser) stmts() []syntax.Stmt {
	var list []syntax.Stmt
	for {
		for p.accept(";") {
		}
		if p.atEOF() {
			return list
		}
		list = append(list, p.simpleStmt())
		if !p.atEOF() {
			p.expect(";")
		}
	}
}

func (p *parser) simpleStmt() syntax.Stmt {
	tok := p.peek()
	r := p.rng(tok)
	if tok.kind == tIdent {
		switch tok.text {
		case "return":
			p.next()
			if p.atEOF() || p.is(";") {
				return syntax.NewReturnStmt(nil, r)
			}
			return syntax.NewReturnStmt(p.expr(), r)
		case "throw":
			p.next()
			return syntax.NewThrowStmt(p.expr(), r)
		case "break":
			p.next()
			return syntax.NewBreakStmt(r)
		case "continue":
			p.next()
			return syntax.NewContinueStmt(r)
		case "lock", "unlock":
			p.next()
			p.expect("(")
			x := p.expr()
			p.expect(")")
			if tok.text == "lock" {
				return syntax.NewLockStmt(x, nil, r)
			}
			return syntax.NewUnlockStmt(x, r)
		case "var":
			p.next()
			name := p.ident()
			p.expect("=")
			v := syntax.NewLocalVariable(name.text, nil, p.expr(), p.rng(name))
			return syntax.NewDeclarationStmt(v, r)
		}
	}
	if t, name, init, ok := p.varDecl(true); ok {
		v := syntax.NewLocalVariable(name.text, t, init, p.rng(name))
		return syntax.NewDeclarationStmt(v, r)
	}
	return syntax.NewExprStmt(p.expr(), r)
}

// forHeader parses "init; cond; iter". Each part may be empty; the
// initializer and iterator may list several items separated by
// commas.
func (p *parser) forHeader() (init []syntax.Stmt, cond syntax.Expr, iter []syntax.Expr) {
	for !p.is(";") {
		if len(init) > 0 {
			p.expect(",")
		}
		init = append(init, p.simpleStmt())
	}
	p.expect(";")
	if !p.is(";") {
		cond = p.expr()
	}
	p.expect(";")
	for !p.atEOF() {
		if len(iter) > 0 {
			p.expect(",")
		}
		iter = append(iter, p.expr())
	}
	return init, cond, iter
}

// foreachHeader parses "T x in e" or "var x in e".
func (p *parser) foreachHeader() (*syntax.DataType, string, syntax.Expr) {
	var t *syntax.DataType
	if !p.accept("var") {
		t = p.mustType(true)
	}
	name := p.ident()
	p.expect("in")
	return t, name.text, p.expr()
}
