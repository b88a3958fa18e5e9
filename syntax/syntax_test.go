// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"go.rcsema.net/syntax"
)

var nopos syntax.Range

func name(s string) *syntax.NameExpr { return syntax.NewNameExpr(nil, s, nopos) }

func TestScopeLookup(t *testing.T) {
	ctx := syntax.NewCodeContext()
	c := syntax.NewClass("Foo", nopos, syntax.Public)
	ctx.Root.AddType(c)
	f := syntax.NewField("count", ctx.IntType(), nopos, syntax.Private)
	syntax.AddMember(c, f)
	m := syntax.NewMethod("run", nil, nopos, syntax.Public)
	m.AddParam(syntax.NewParameter("n", ctx.IntType(), nopos))
	syntax.AddMember(c, m)

	body := syntax.NewBlock(nopos)
	m.SetBody(body)
	inner := syntax.NewBlock(nopos)
	body.AddStatement(inner)
	v := syntax.NewLocalVariable("i", ctx.IntType(), nil, nopos)
	decl := syntax.NewDeclarationStmt(v, nopos)
	inner.AddStatement(decl)
	inner.AddLocal(v)

	sc := inner.Scope()
	be.Equal(t, sc.Lookup("i"), syntax.Symbol(v))
	be.Equal(t, sc.Lookup("n"), syntax.Symbol(m.Params[0]))
	be.Equal(t, sc.Lookup("count"), syntax.Symbol(f))
	be.Equal(t, sc.Lookup("Foo"), syntax.Symbol(c))
	be.Equal(t, sc.Lookup("int"), syntax.Symbol(ctx.Int))
	be.True(t, sc.Lookup("missing") == nil)
	be.True(t, body.Scope().Lookup("i") == nil)
	be.Equal(t, sc.Owner(), syntax.Symbol(m))
	be.True(t, sc.IsSubscopeOf(c.Scope()))
	be.True(t, !c.Scope().IsSubscopeOf(sc))
	be.Equal(t, syntax.FullName(m), "Foo.run")
	be.Equal(t, syntax.FullName(ctx.List), "GLib.List")
}

func TestScopeLastWriteWins(t *testing.T) {
	ns := syntax.NewNamespace("N", nopos)
	a := syntax.NewClass("X", nopos, syntax.Public)
	b := syntax.NewClass("X", nopos, syntax.Public)
	ns.Scope().Add("X", a)
	ns.Scope().Add("X", b)
	be.Equal(t, ns.Scope().LookupLocal("X"), syntax.Symbol(b))
	be.Equal(t, ns.Scope().Len(), 1)

	// anonymous entries are kept but cannot be found
	ns.Scope().Add("", syntax.NewClass("", nopos, syntax.Public))
	be.Equal(t, ns.Scope().Len(), 1)
}

// A block moved by a rewrite resolves names through its new ancestors.
func TestBlockScopeFollowsParent(t *testing.T) {
	ctx := syntax.NewCodeContext()
	m := syntax.NewMethod("f", nil, nopos, syntax.Public)
	ctx.Root.AddMethod(m)
	outer := syntax.NewBlock(nopos)
	m.SetBody(outer)

	wrapper := syntax.NewBlock(nopos)
	v := syntax.NewLocalVariable("flag", ctx.BoolType(), nil, nopos)
	wrapper.AddStatement(syntax.NewDeclarationStmt(v, nopos))
	wrapper.AddLocal(v)

	body := syntax.NewBlock(nopos)
	loop := syntax.NewWhileStmt(name("flag"), body, nopos)
	outer.AddStatement(loop)
	be.True(t, body.Scope().Lookup("flag") == nil)

	repl := syntax.NewLoopStmt(body, nopos)
	wrapper.AddStatement(repl)
	be.True(t, syntax.ReplaceInParent(loop, wrapper))
	be.Equal(t, outer.Stmts[0], syntax.Stmt(wrapper))
	be.True(t, loop.Parent() == nil)
	be.Equal(t, body.Scope().Lookup("flag"), syntax.Symbol(v))
}

func TestInsertStatement(t *testing.T) {
	b := syntax.NewBlock(nopos)
	b.AddStatement(syntax.NewBreakStmt(nopos))
	b.AddStatement(syntax.NewContinueStmt(nopos))
	b.InsertStatement(1, syntax.NewReturnStmt(nil, nopos))
	b.InsertStatement(0, syntax.NewExprStmt(name("x"), nopos))
	var kinds []string
	for _, s := range b.Stmts {
		kinds = append(kinds, strings.TrimPrefix(reflect.TypeOf(s).String(), "*syntax."))
		be.Equal(t, s.Base().Parent(), syntax.Node(b))
	}
	be.Equal(t, strings.Join(kinds, " "), "ExprStmt BreakStmt ReturnStmt ContinueStmt")
}

func TestTopAccessibleScope(t *testing.T) {
	ctx := syntax.NewCodeContext()
	outer := syntax.NewClass("Outer", nopos, syntax.Public)
	ctx.Root.AddType(outer)
	priv := syntax.NewClass("Hidden", nopos, syntax.Private)
	syntax.AddMember(outer, priv)
	pub := syntax.NewClass("Shown", nopos, syntax.Public)
	syntax.AddMember(outer, pub)
	internal := syntax.NewClass("Local", nopos, syntax.Internal)
	ctx.Root.AddType(internal)

	be.True(t, syntax.TopAccessibleScope(pub) == nil)
	be.Equal(t, syntax.TopAccessibleScope(priv), outer.Scope())
	be.Equal(t, syntax.TopAccessibleScope(internal), ctx.Root.Scope())
}

func TestDataTypeString(t *testing.T) {
	ctx := syntax.NewCodeContext()
	dom := syntax.NewErrorDomain("IOError", nopos, syntax.Public)
	ctx.Root.AddType(dom)
	code := &syntax.ErrorCode{}
	code.Name = "NOT_FOUND"
	dom.AddCode(code)

	nullable := ctx.StringType()
	nullable.Nullable = true
	for _, test := range []struct {
		typ  *syntax.DataType
		want string
	}{
		{ctx.IntType(), "int"},
		{nullable, "string?"},
		{syntax.NewArrayType(ctx.IntType(), 1), "int[]"},
		{syntax.NewArrayType(ctx.IntType(), 3), "int[,,]"},
		{syntax.NewPointerType(ctx.CharType()), "char*"},
		{syntax.NewObjectType(ctx.List, ctx.StringType()), "GLib.List<string>"},
		{syntax.NewErrorType(nil, nil), "GLib.Error"},
		{syntax.NewObjectType(dom), "IOError"},
		{syntax.NewErrorType(dom, code), "IOError.NOT_FOUND"},
		{syntax.NewVoidType(), "void"},
		{syntax.NewNullType(), "null"},
	} {
		be.Equal(t, test.typ.String(), test.want)
	}
}

func TestDataTypeCopy(t *testing.T) {
	ctx := syntax.NewCodeContext()
	orig := syntax.NewObjectType(ctx.List, ctx.IntType())
	cp := orig.Copy()
	cp.Args[0].Nullable = true
	cp.ValueOwned = true
	be.Equal(t, orig.String(), "GLib.List<int>")
	be.True(t, !orig.ValueOwned)
	be.Equal(t, cp.String(), "GLib.List<int?>")
}

func TestErrorTypeSet(t *testing.T) {
	ctx := syntax.NewCodeContext()
	dom := syntax.NewErrorDomain("E", nopos, syntax.Public)
	ctx.Root.AddType(dom)

	s := syntax.NewThrowStmt(name("e"), nopos)
	be.True(t, !s.TreeCanFail())
	be.Equal(t, s.ErrorTypes().Len(), 0)
	s.AddErrorType(syntax.NewObjectType(dom))
	s.AddErrorType(syntax.NewObjectType(dom))
	s.AddErrorType(syntax.NewErrorType(nil, nil))
	be.True(t, s.TreeCanFail())
	be.Equal(t, s.ErrorTypes().Len(), 2)

	// views hand out copies
	s.ErrorTypes().At(0).Nullable = true
	be.True(t, !s.ErrorTypes().At(0).Nullable)

	var zero syntax.ErrorTypeView
	be.Equal(t, zero.Len(), 0)
	be.True(t, zero.Types() == nil)
}

func TestTempNamesAreUnique(t *testing.T) {
	ctx := syntax.NewCodeContext()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := ctx.TempName()
		be.True(t, !seen[n])
		seen[n] = true
	}
	be.True(t, seen["_tmp0_"])
	be.True(t, seen["_tmp99_"])
}

func TestExprString(t *testing.T) {
	idx := name("_x_index")
	for _, test := range []struct {
		x    syntax.Expr
		want string
	}{
		{syntax.NewIntLiteral(42, nopos), "42"},
		{syntax.NewStringLiteral("a\"b", nopos), `"a\"b"`},
		{syntax.NewCharLiteral('x', nopos), `'x'`},
		{syntax.NewBinaryExpr(syntax.Lt, syntax.NewUnaryExpr(syntax.PreInc, idx, nopos), name("_x_size"), nopos),
			"(++_x_index) < _x_size"},
		{syntax.NewCallExpr(syntax.NewNameExpr(name("it"), "next_value", nopos), nil, nopos),
			"it.next_value()"},
		{syntax.NewAssignExpr(syntax.Add, name("x"), syntax.NewIntLiteral(1, nopos), nopos),
			"x += 1"},
		{syntax.NewAssignExpr(syntax.NoOp, name("x"), syntax.NewNullLiteral(nopos), nopos),
			"x = null"},
		{syntax.NewElementAccess(name("a"), []syntax.Expr{syntax.NewPostfixExpr(name("i"), true, nopos)}, nopos),
			"a[i++]"},
	} {
		be.Equal(t, syntax.ExprString(test.x), test.want)
	}
}

func TestCloneExpr(t *testing.T) {
	orig := syntax.NewNameExpr(syntax.NewNameExpr(nil, "this", nopos), "mutex", nopos)
	orig.Checked = true
	orig.Symbol = syntax.NewField("mutex", nil, nopos, syntax.Private)
	clone := syntax.CloneExpr(orig).(*syntax.NameExpr)

	be.Equal(t, syntax.ExprString(clone), "this.mutex")
	be.True(t, clone != orig)
	be.True(t, clone.Inner != orig.Inner)
	be.True(t, !clone.Checked)
	be.True(t, clone.Symbol == nil)
	be.True(t, clone.Parent() == nil)
	be.Equal(t, clone.Inner.Base().Parent(), syntax.Node(clone))
}

func TestParseOps(t *testing.T) {
	for _, s := range []string{"+", "-", "<<", "<=", "==", "!=", "&&", "||"} {
		op, ok := syntax.ParseBinaryOp(s)
		be.True(t, ok)
		be.Equal(t, op.String(), s)
	}
	_, ok := syntax.ParseBinaryOp("")
	be.True(t, !ok)
	_, ok = syntax.ParseBinaryOp("**")
	be.True(t, !ok)

	op, ok := syntax.ParseUnaryOp("--")
	be.True(t, ok)
	be.Equal(t, op, syntax.PreDec)
}

func TestWalk(t *testing.T) {
	ctx := syntax.NewCodeContext()
	m := syntax.NewMethod("f", nil, nopos, syntax.Public)
	ctx.Root.AddMethod(m)
	x := syntax.NewLocalVariable("x", ctx.IntType(), syntax.NewIntLiteral(0, nopos), nopos)
	body := syntax.NewBlock(nopos,
		syntax.NewDeclarationStmt(x, nopos),
		syntax.NewWhileStmt(
			syntax.NewBinaryExpr(syntax.Lt, name("x"), syntax.NewIntLiteral(3, nopos), nopos),
			syntax.NewBlock(nopos,
				syntax.NewExprStmt(syntax.NewPostfixExpr(name("x"), true, nopos), nopos)),
			nopos))
	m.SetBody(body)

	var buf bytes.Buffer
	var depth int
	syntax.Walk(m, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := strings.TrimSpace(buf.String())
	want := strings.TrimSpace(`
Method
  Block
    DeclarationStmt
      LocalVariable
        Literal
    WhileStmt
      BinaryExpr
        NameExpr
        Literal
      Block
        ExprStmt
          PostfixExpr
            NameExpr`)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	// pruning
	var n int
	syntax.Walk(m, func(node syntax.Node) bool {
		if node != nil {
			n++
		}
		_, isWhile := node.(*syntax.WhileStmt)
		return !isWhile
	})
	be.Equal(t, n, 6)
}

type countingVisitor struct {
	syntax.BaseVisitor
	loops, names int
}

func (v *countingVisitor) VisitLoopStmt(*syntax.LoopStmt) { v.loops++ }
func (v *countingVisitor) VisitNameExpr(*syntax.NameExpr) { v.names++ }

func TestVisitor(t *testing.T) {
	v := new(countingVisitor)
	nodes := []syntax.Node{
		syntax.NewLoopStmt(syntax.NewBlock(nopos), nopos),
		name("a"),
		syntax.NewBreakStmt(nopos),
		name("b"),
	}
	for _, n := range nodes {
		n.Accept(v)
	}
	be.Equal(t, v.loops, 1)
	be.Equal(t, v.names, 2)
}

func TestOutline(t *testing.T) {
	ctx := syntax.NewCodeContext()
	c := syntax.NewClass("Counter", nopos, syntax.Public)
	ctx.Root.AddType(c)
	syntax.AddMember(c, syntax.NewField("n", ctx.IntType(), nopos, syntax.Private))
	m := syntax.NewMethod("bump", nil, nopos, syntax.Public)
	m.AddParam(syntax.NewParameter("by", ctx.IntType(), nopos))
	m.SetBody(syntax.NewBlock(nopos,
		syntax.NewLoopStmt(syntax.NewBlock(nopos,
			syntax.NewIfStmt(syntax.NewUnaryExpr(syntax.Not, name("ok"), nopos),
				syntax.NewBlock(nopos, syntax.NewBreakStmt(nopos)), nil, nopos),
			syntax.NewExprStmt(syntax.NewAssignExpr(syntax.Add, name("n"), name("by"), nopos), nopos)),
			nopos)))
	syntax.AddMember(c, m)

	got := syntax.OutlineString(ctx.Root)
	want := `public class Counter {
  private int n;
  public void bump(int by) {
    loop {
      if (!ok) {
        break;
      }
      n += by;
    }
  }
}
`
	be.Equal(t, got, want)
}
