// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

// This file parses the text embedded in a unit description: types,
// expressions, parameters and simple statements. Type names are not
// resolved here; each named type is a placeholder recorded with the
// loader and linked once the whole unit is declared.
//
// Expression grammar, lowest precedence first:
//
//	assignment = binary [assignop assignment]
//	binary     = unary {binop unary} | binary 'as' type
//	unary      = unop unary | '(' type ')' unary | postfix
//	postfix    = primary {'.' name [typeargs] | '(' args ')' | '[' args ']' | '++' | '--'}
//	primary    = literal | name [typeargs] | 'this' | 'new' creation | '(' expr ')' | '{' args '}'

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"go.rcsema.net/syntax"
)

// A parser consumes the tokens of one embedded text.
type parser struct {
	l    *loader
	toks []token
	i    int
	text textPos
	at   syntax.Symbol // scope in which type names are resolved
}

// A parseError aborts parsing of one text.
type parseError struct {
	pos syntax.Position
	msg string
}

// reserved words cannot begin a type.
var reserved = map[string]bool{
	"as": true, "break": true, "continue": true, "false": true, "in": true,
	"lock": true, "new": true, "null": true, "return": true, "this": true,
	"throw": true, "true": true, "unlock": true, "var": true,
}

var binaryPrec = map[string]struct {
	prec int
	op   syntax.BinaryOp
}{
	"||": {1, syntax.Or},
	"&&": {2, syntax.And},
	"|":  {3, syntax.BitOr},
	"^":  {4, syntax.BitXor},
	"&":  {5, syntax.BitAnd},
	"==": {6, syntax.Eq},
	"!=": {6, syntax.Ne},
	"<":  {7, syntax.Lt},
	">":  {7, syntax.Gt},
	"<=": {7, syntax.Le},
	">=": {7, syntax.Ge},
	"<<": {8, syntax.Shl},
	">>": {8, syntax.Shr},
	"+":  {9, syntax.Add},
	"-":  {9, syntax.Sub},
	"*":  {10, syntax.Mul},
	"/":  {10, syntax.Div},
	"%":  {10, syntax.Mod},
}

const castPrec = 7

var assignOps = map[string]syntax.BinaryOp{
	"=":   syntax.NoOp,
	"+=":  syntax.Add,
	"-=":  syntax.Sub,
	"*=":  syntax.Mul,
	"/=":  syntax.Div,
	"%=":  syntax.Mod,
	"&=":  syntax.BitAnd,
	"|=":  syntax.BitOr,
	"^=":  syntax.BitXor,
	"<<=": syntax.Shl,
	">>=": syntax.Shr,
}

// -- tokens --

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) peekAt(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tEOF {
		p.i++
	}
	return tok
}

func (p *parser) atEOF() bool { return p.peek().kind == tEOF }

// is reports whether the next token is the operator or word text.
func (p *parser) is(text string) bool {
	tok := p.peek()
	return (tok.kind == tOp || tok.kind == tIdent) && tok.text == text
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	if !p.is(text) {
		p.errorf(p.peek(), "got %s, want %q", p.peek(), text)
	}
	return p.next()
}

func (p *parser) ident() token {
	tok := p.peek()
	if tok.kind != tIdent || reserved[tok.text] {
		p.errorf(tok, "got %s, want identifier", tok)
	}
	return p.next()
}

func (p *parser) pos(tok token) syntax.Position { return p.text.at(tok.line, tok.col) }

func (p *parser) rng(tok token) syntax.Range { return syntax.MakeRange(p.pos(tok)) }

func (p *parser) errorf(tok token, format string, args ...interface{}) {
	panic(parseError{p.pos(tok), fmt.Sprintf(format, args...)})
}

// A mark is a parser state to which parsing can return.
type mark struct{ i, refs int }

func (p *parser) mark() mark { return mark{p.i, len(p.l.refs)} }

// reset returns to m, forgetting the type references recorded since.
func (p *parser) reset(m mark) {
	p.i = m.i
	p.l.refs = p.l.refs[:m.refs]
}

// -- types --

// typ parses a type. An unqualified type is owned if def is set.
// It reports false, without consuming input, if no type follows.
func (p *parser) typ(def bool) (*syntax.DataType, bool) {
	m := p.mark()
	t, ok := p.typ1(def)
	if !ok {
		p.reset(m)
	}
	return t, ok
}

func (p *parser) typ1(def bool) (*syntax.DataType, bool) {
	owned, explicit, dynamic := def, false, false
	for {
		switch {
		case p.accept("owned"):
			owned, explicit = true, true
			continue
		case p.accept("unowned"), p.accept("weak"):
			owned, explicit = false, true
			continue
		case p.accept("dynamic"):
			dynamic = true
			continue
		}
		break
	}

	var t *syntax.DataType
	start := p.peek()
	if p.accept("void") {
		t = syntax.NewVoidType()
		t.Pos = p.rng(start)
	} else {
		if start.kind != tIdent || reserved[start.text] {
			return nil, false
		}
		name := p.next().text
		for p.is(".") && p.peekAt(1).kind == tIdent {
			p.next()
			name += "." + p.next().text
		}
		t = p.placeholder(name, start)
		if p.is("<") {
			args, ok := p.typeArgs()
			if !ok {
				return nil, false
			}
			t.Args = args
		}
	}
	t.Dynamic = dynamic

	for {
		switch {
		case p.is("[") && (p.peekAt(1).text == "]" || p.peekAt(1).text == ","):
			p.next()
			rank := 1
			for p.accept(",") {
				rank++
			}
			if !p.accept("]") {
				return nil, false
			}
			t.ValueOwned = t.Kind != syntax.VoidType
			t = syntax.NewArrayType(t, rank)
			t.Pos = p.rng(start)
			continue
		case p.is("*"):
			p.next()
			t = syntax.NewPointerType(t)
			t.Pos = p.rng(start)
			continue
		case p.is("?"):
			p.next()
			t.Nullable = true
			continue
		}
		break
	}
	switch t.Kind {
	case syntax.VoidType:
	case syntax.PointerType:
		t.ValueOwned = explicit && owned
	default:
		t.ValueOwned = owned
	}
	return t, true
}

// placeholder returns an unresolved type named name and records it
// for linking.
func (p *parser) placeholder(name string, tok token) *syntax.DataType {
	t := &syntax.DataType{Kind: syntax.InvalidType, Pos: p.rng(tok)}
	p.l.refs = append(p.l.refs, &typeRef{t: t, name: name, at: p.at, pos: p.pos(tok)})
	return t
}

// typeArgs parses "<T, U>". Type arguments are owned by default.
func (p *parser) typeArgs() ([]*syntax.DataType, bool) {
	p.expect("<")
	var args []*syntax.DataType
	for {
		a, ok := p.typ1(true)
		if !ok {
			return nil, false
		}
		args = append(args, a)
		if p.accept(",") {
			continue
		}
		if p.is(">>") {
			p.splitShift()
		}
		if !p.accept(">") {
			return nil, false
		}
		return args, true
	}
}

// splitShift splits a ">>" token that closes two type argument lists.
func (p *parser) splitShift() {
	tok := p.toks[p.i]
	first, second := tok, tok
	first.text, second.text = ">", ">"
	second.col++
	rest := append([]token{first, second}, p.toks[p.i+1:]...)
	p.toks = append(p.toks[:p.i], rest...)
}

// mustType parses a type or fails.
func (p *parser) mustType(def bool) *syntax.DataType {
	t, ok := p.typ(def)
	if !ok {
		p.errorf(p.peek(), "got %s, want type", p.peek())
	}
	return t
}

// -- expressions --

func (p *parser) expr() syntax.Expr {
	x := p.binary(1)
	tok := p.peek()
	if op, ok := assignOps[tok.text]; ok && tok.kind == tOp {
		p.next()
		y := p.expr()
		return syntax.NewAssignExpr(op, x, y, x.Span())
	}
	return x
}

func (p *parser) binary(prec int) syntax.Expr {
	x := p.unary()
	for {
		tok := p.peek()
		if tok.kind == tIdent && tok.text == "as" && prec <= castPrec {
			p.next()
			x = syntax.NewCastExpr(x, p.mustType(false), true, x.Span())
			continue
		}
		b, ok := binaryPrec[tok.text]
		if tok.kind != tOp || !ok || b.prec < prec {
			return x
		}
		p.next()
		y := p.binary(b.prec + 1)
		x = syntax.NewBinaryExpr(b.op, x, y, x.Span())
	}
}

func (p *parser) unary() syntax.Expr {
	tok := p.peek()
	if tok.kind == tOp {
		switch tok.text {
		case "!", "-", "+", "~", "++", "--":
			p.next()
			op, _ := syntax.ParseUnaryOp(tok.text)
			return syntax.NewUnaryExpr(op, p.unary(), p.rng(tok))
		case "(":
			if x := p.cast(); x != nil {
				return x
			}
		}
	}
	return p.postfix(p.primary())
}

// cast parses "(T) x", or returns nil without consuming input if the
// parenthesis does not begin a cast.
func (p *parser) cast() syntax.Expr {
	m := p.mark()
	open := p.next()
	if t, ok := p.typ(false); ok && p.accept(")") && startsOperand(p.peek()) {
		return syntax.NewCastExpr(p.unary(), t, false, p.rng(open))
	}
	p.reset(m)
	return nil
}

func startsOperand(tok token) bool {
	switch tok.kind {
	case tIdent:
		return tok.text != "as" && tok.text != "in"
	case tInt, tReal, tString, tChar:
		return true
	case tOp:
		return tok.text == "(" || tok.text == "!" || tok.text == "~"
	}
	return false
}

func (p *parser) primary() syntax.Expr {
	tok := p.next()
	r := p.rng(tok)
	switch tok.kind {
	case tInt:
		v, err := strconv.ParseInt(tok.text, 0, 64)
		if err != nil {
			p.errorf(tok, "invalid integer literal %s", tok.text)
		}
		return syntax.NewIntLiteral(v, r)
	case tReal:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			p.errorf(tok, "invalid real literal %s", tok.text)
		}
		return syntax.NewRealLiteral(v, r)
	case tString:
		s, err := strconv.Unquote(tok.text)
		if err != nil {
			p.errorf(tok, "invalid string literal %s", tok.text)
		}
		return syntax.NewStringLiteral(s, r)
	case tChar:
		s, err := strconv.Unquote(tok.text)
		if err != nil || utf8.RuneCountInString(s) != 1 {
			p.errorf(tok, "invalid character literal %s", tok.text)
		}
		c, _ := utf8.DecodeRuneInString(s)
		return syntax.NewCharLiteral(c, r)
	case tIdent:
		switch tok.text {
		case "true", "false":
			return syntax.NewBoolLiteral(tok.text == "true", r)
		case "null":
			return syntax.NewNullLiteral(r)
		case "new":
			return p.creation(tok)
		}
		if reserved[tok.text] && tok.text != "this" {
			p.errorf(tok, "unexpected %s", tok)
		}
		x := syntax.NewNameExpr(nil, tok.text, r)
		p.callTypeArgs(x)
		return x
	case tOp:
		switch tok.text {
		case "(":
			x := p.expr()
			p.expect(")")
			return x
		case "{":
			return syntax.NewArrayCreation(nil, 1, nil, p.exprList("}"), r)
		}
	}
	p.errorf(tok, "unexpected %s", tok)
	panic("unreachable")
}

func (p *parser) postfix(x syntax.Expr) syntax.Expr {
	for {
		tok := p.peek()
		switch {
		case p.is("."):
			p.next()
			name := p.ident()
			nx := syntax.NewNameExpr(x, name.text, p.rng(name))
			p.callTypeArgs(nx)
			x = nx
		case p.is("("):
			p.next()
			x = syntax.NewCallExpr(x, p.exprList(")"), x.Span())
		case p.is("["):
			p.next()
			x = syntax.NewElementAccess(x, p.exprList("]"), x.Span())
		case p.is("++"), p.is("--"):
			p.next()
			x = syntax.NewPostfixExpr(x, tok.text == "++", x.Span())
		default:
			return x
		}
	}
}

// callTypeArgs attaches explicit type arguments "name<T>(" to x.
// A '<' that does not begin such a list is left alone.
func (p *parser) callTypeArgs(x *syntax.NameExpr) {
	if !p.is("<") {
		return
	}
	m := p.mark()
	if args, ok := p.typeArgs(); ok && p.is("(") {
		x.TypeArgs = args
		return
	}
	p.reset(m)
}

// exprList parses comma-separated expressions up to and including
// the closing token.
func (p *parser) exprList(close string) []syntax.Expr {
	var list []syntax.Expr
	for !p.accept(close) {
		if len(list) > 0 {
			p.expect(",")
		}
		list = append(list, p.expr())
	}
	return list
}

// creation parses the rest of "new T(args)", "new T.name(args)",
// "new T[n]" or "new T[] { init }".
func (p *parser) creation(newTok token) syntax.Expr {
	r := p.rng(newTok)
	start := p.ident()
	name := start.text
	for p.is(".") {
		p.next()
		name += "." + p.ident().text
	}
	var args []*syntax.DataType
	if p.is("<") {
		var ok bool
		if args, ok = p.typeArgs(); !ok {
			p.errorf(p.peek(), "invalid type arguments of %s", name)
		}
	}

	if p.accept("[") {
		elem := p.placeholder(name, start)
		elem.Args = args
		elem.ValueOwned = true
		rank := 1
		var sizes []syntax.Expr
		if !p.is("]") && !p.is(",") {
			sizes = append(sizes, p.expr())
		}
		for p.accept(",") {
			rank++
			if !p.is("]") && !p.is(",") {
				sizes = append(sizes, p.expr())
			}
		}
		p.expect("]")
		var init []syntax.Expr
		if p.accept("{") {
			init = p.exprList("}")
		}
		return syntax.NewArrayCreation(elem, rank, sizes, init, r)
	}

	t := p.placeholder(name, start)
	t.Args = args
	ref := p.l.refs[len(p.l.refs)-1]
	p.expect("(")
	x := syntax.NewObjectCreation(t, "", p.exprList(")"), r)
	ref.creation = x
	return x
}

// -- declarations --

// param parses "[params] [out|ref] T name [= default]" or "...".
func (p *parser) param() *syntax.Parameter {
	start := p.peek()
	if p.accept("...") {
		param := syntax.NewParameter("", nil, p.rng(start))
		param.Ellipsis = true
		return param
	}
	isArray := p.accept("params")
	dir := syntax.In
	switch {
	case p.accept("out"):
		dir = syntax.Out
	case p.accept("ref"):
		dir = syntax.Ref
	}
	t := p.mustType(false)
	name := p.ident()
	param := syntax.NewParameter(name.text, t, p.rng(name))
	param.Direction = dir
	param.ParamsArray = isArray
	if p.accept("=") {
		param.SetDefault(p.expr())
	}
	return param
}

// varDecl parses "T name [= init]" and reports false, without
// consuming input, if the text does not begin a declaration.
func (p *parser) varDecl(def bool) (*syntax.DataType, token, syntax.Expr, bool) {
	m := p.mark()
	t, ok := p.typ(def)
	if !ok {
		return nil, token{}, nil, false
	}
	name := p.peek()
	after := p.peekAt(1)
	if name.kind != tIdent || reserved[name.text] ||
		!(after.kind == tEOF || after.text == "=" || after.text == ";" || after.text == ",") {
		p.reset(m)
		return nil, token{}, nil, false
	}
	p.next()
	var init syntax.Expr
	if p.accept("=") {
		init = p.expr()
	}
	return t, name, init, true
}

// nameValue parses "NAME [= expr]".
func (p *parser) nameValue() (token, syntax.Expr) {
	name := p.ident()
	var value syntax.Expr
	if p.accept("=") {
		value = p.expr()
	}
	return name, value
}

func (p *parser) done() {
	if !p.atEOF() {
		p.errorf(p.peek(), "unexpected %s", p.peek())
	}
}
