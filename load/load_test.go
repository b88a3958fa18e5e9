// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"gopkg.in/yaml.v3"

	"go.rcsema.net/syntax"
)

func mustLoad(t *testing.T, src string) *syntax.CodeContext {
	t.Helper()
	ctx := syntax.NewCodeContext()
	if err := Source(ctx, "t.yaml", []byte(src)); err != nil {
		t.Fatal(err)
	}
	return ctx
}

func loadErrors(src string) []string {
	ctx := syntax.NewCodeContext()
	err := Source(ctx, "t.yaml", []byte(src))
	var list ErrorList
	if !errors.As(err, &list) {
		return nil
	}
	var msgs []string
	for _, e := range list {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func lookup(ctx *syntax.CodeContext, name string) syntax.Symbol {
	var sym syntax.Symbol = ctx.Root
	for _, part := range strings.Split(name, ".") {
		if sym == nil {
			return nil
		}
		sym = sym.Sym().Scope().LookupLocal(part)
	}
	return sym
}

func TestExprParse(t *testing.T) {
	for _, test := range []struct{ src, want string }{
		{`a + b * c`, `a + (b * c)`},
		{`a * b + c`, `(a * b) + c`},
		{`a && b || c`, `(a && b) || c`},
		{`a << 2 >= b`, `(a << 2) >= b`},
		{`a == b & c`, `(a == b) & c`},
		{`a = b = c`, `a = b = c`},
		{`a += 1`, `a += 1`},
		{`-a * b`, `(-a) * b`},
		{`!a.b`, `!a.b`},
		{`i++`, `i++`},
		{`a < b`, `a < b`},
		{`a.b(c, d)[0]`, `a.b(c, d)[0]`},
		{`(int) x`, `(int) x`},
		{`(a) - b`, `a - b`},
		{`a + b as string`, `(a + b) as string`},
		{`new string[3]`, `new string[3]`},
		{`{1, 2}`, `{1, 2}`},
		{`"hi" + 'c'`, `"hi" + 'c'`},
		{`0x10 + 1.5`, `16 + 1.5`},
		{`null`, `null`},
	} {
		ctx := syntax.NewCodeContext()
		l := newLoader(ctx, "x", []byte(test.src))
		n := &yaml.Node{Kind: yaml.ScalarNode, Value: test.src, Line: 1, Column: 1}
		x := l.exprOf(n, ctx.Root)
		l.link()
		if len(l.errors) > 0 {
			t.Errorf("%s: %v", test.src, l.errors)
			continue
		}
		be.Equal(t, syntax.ExprString(x), test.want)
	}
}

func TestExprErrors(t *testing.T) {
	for _, src := range []string{`a +`, `a b`, `(a`, `"abc`, `new`, `f(a,`} {
		ctx := syntax.NewCodeContext()
		l := newLoader(ctx, "x", []byte(src))
		n := &yaml.Node{Kind: yaml.ScalarNode, Value: src, Line: 1, Column: 1}
		x := l.exprOf(n, ctx.Root)
		be.True(t, x == nil)
		be.Equal(t, len(l.errors), 1)
		be.True(t, strings.HasPrefix(l.errors[0].Error(), "x:1:"))
	}
}

func TestTypes(t *testing.T) {
	ctx := mustLoad(t, `
classes:
  - name: Box
    type_params: [G]
    fields:
      - "G item"
      - "GLib.List<GLib.List<int>> nested"
      - "unowned string? label"
      - "int[,] grid"
      - "char* raw"
      - "owned char* buf"
    methods:
      - name: get
        returns: unowned G
        params: ["int index", "out string name", "ref Box<int> other", "..."]
`)
	box := lookup(ctx, "Box").(*syntax.Class)
	fieldType := func(name string) *syntax.DataType {
		return box.Scope().LookupLocal(name).(*syntax.Field).Type
	}

	item := fieldType("item")
	be.Equal(t, item.Kind, syntax.GenericType)
	be.Equal(t, item.Param, box.TypeParams[0])
	be.True(t, item.ValueOwned)

	be.Equal(t, fieldType("nested").String(), "GLib.List<GLib.List<int>>")
	be.True(t, fieldType("nested").Args[0].ValueOwned)

	label := fieldType("label")
	be.Equal(t, label.String(), "string?")
	be.True(t, !label.ValueOwned)

	grid := fieldType("grid")
	be.Equal(t, grid.Kind, syntax.ArrayType)
	be.Equal(t, grid.Rank, 2)
	be.True(t, grid.Elem.ValueOwned)

	be.True(t, !fieldType("raw").ValueOwned)
	be.True(t, fieldType("buf").ValueOwned)

	get := box.Scope().LookupLocal("get").(*syntax.Method)
	be.Equal(t, get.ReturnType.Kind, syntax.GenericType)
	be.True(t, !get.ReturnType.ValueOwned)
	be.Equal(t, len(get.Params), 4)
	be.Equal(t, get.Params[1].Direction, syntax.Out)
	be.Equal(t, get.Params[2].Direction, syntax.Ref)
	be.Equal(t, get.Params[2].Type.String(), "Box<int>")
	be.True(t, get.Params[3].Ellipsis)
	be.True(t, get.HasEllipsis())
}

func TestDeclarations(t *testing.T) {
	ctx := mustLoad(t, `
namespace: Demo
interfaces:
  - name: Shape
    methods:
      - {name: area, abstract: true, returns: double}
classes:
  - name: Square
    base: [GLib.Object, Shape]
    fields: ["private double side = 1.0", "static int count"]
    properties:
      - name: size
        type: double
        get: true
        set: construct
    signals:
      - name: changed
        params: ["double old"]
    creation:
      - params: ["double side"]
      - name: unit
        chainup: true
    methods:
      - name: area
        returns: double
        body: return side * side;
enums:
  - name: Color
    values: [RED, GREEN = 5]
errordomains:
  - name: IOError
    codes: [NOT_FOUND, DENIED]
delegates:
  - name: Handler
    static: true
    returns: bool
    params: ["int code"]
    throws: [IOError]
---
methods:
  - name: main
    body: "var s = new Demo.Square.unit ();"
`)
	sq := lookup(ctx, "Demo.Square").(*syntax.Class)
	be.Equal(t, len(sq.BaseTypes), 2)
	be.Equal(t, sq.BaseTypes[0].Symbol, syntax.TypeSymbol(ctx.Object))
	be.Equal(t, sq.BaseTypes[1].Symbol, lookup(ctx, "Demo.Shape").(syntax.TypeSymbol))

	side := sq.Scope().LookupLocal("side").(*syntax.Field)
	be.Equal(t, side.Access, syntax.Private)
	be.Equal(t, syntax.ExprString(side.Initializer), "1")
	be.Equal(t, sq.Scope().LookupLocal("count").(*syntax.Field).Binding, syntax.StaticBinding)

	size := sq.Scope().LookupLocal("size").(*syntax.Property)
	be.True(t, size.Getter != nil)
	be.True(t, size.Setter != nil && size.Setter.Construction && !size.Setter.Writable)
	be.Equal(t, size.Getter.ValueType.String(), "double")

	be.True(t, sq.Scope().LookupLocal("changed") != nil)
	be.Equal(t, len(sq.CreationMethods), 2)
	be.Equal(t, sq.CreationMethods[0].Name, ".new")
	be.True(t, sq.CreationMethods[1].ChainUp)

	color := lookup(ctx, "Demo.Color").(*syntax.Enum)
	be.Equal(t, len(color.Values), 2)
	be.Equal(t, syntax.ExprString(color.Values[1].Value), "5")

	handler := lookup(ctx, "Demo.Handler").(*syntax.Delegate)
	be.True(t, !handler.HasTarget)
	be.Equal(t, handler.Throws[0].Domain, lookup(ctx, "Demo.IOError").(*syntax.ErrorDomain))

	main := lookup(ctx, "main").(*syntax.Method)
	be.Equal(t, main.Binding, syntax.StaticBinding)
	decl := main.Body.Stmts[0].(*syntax.DeclarationStmt)
	oc := decl.Var.Initializer.(*syntax.ObjectCreation)
	be.Equal(t, oc.Type.Symbol, syntax.TypeSymbol(sq))
	be.Equal(t, oc.Name, "unit")
}

func TestStatements(t *testing.T) {
	ctx := mustLoad(t, `
methods:
  - name: run
    throws: [Error]
    params: ["int n"]
    body:
      - "int total = 0; int i;"
      - for: "i = 0; i < n; i++"
        body: "total += i;"
      - while: total > 10
        body: "total -= 1;"
      - do: "total++;"
        while: total < 5
      - if: total == 3
        then: return;
        else:
          - switch: total
            cases:
              - {case: [1, 2], body: break;}
              - {default: true, body: break;}
      - foreach: "int x in new int[] {1, 2}"
        body: continue;
      - try: "throw new GLib.Error ();"
        catch:
          - {type: Error, var: e, body: "e = null;"}
        finally: ""
      - lock: this
      - loop: break;
`)
	run := lookup(ctx, "run").(*syntax.Method)
	be.Equal(t, run.Throws[0].Kind, syntax.ErrorType)
	be.True(t, run.Throws[0].Domain == nil)

	var kinds []string
	for _, s := range run.Body.Stmts {
		kinds = append(kinds, strings.TrimPrefix(fmt.Sprintf("%T", s), "*syntax."))
	}
	be.Equal(t, kinds, []string{
		"DeclarationStmt", "DeclarationStmt", "ForStmt", "WhileStmt", "DoStmt",
		"IfStmt", "ForeachStmt", "TryStmt", "LockStmt", "LoopStmt",
	})
	sw := run.Body.Stmts[5].(*syntax.IfStmt).Else.Stmts[0].(*syntax.SwitchStmt)
	be.Equal(t, len(sw.Sections), 2)
	be.Equal(t, len(sw.Sections[0].Labels), 2)
	be.True(t, sw.Sections[1].Labels[0].Expr == nil)

	try := run.Body.Stmts[7].(*syntax.TryStmt)
	be.Equal(t, try.Catches[0].VarName, "e")
	be.Equal(t, try.Catches[0].ErrorType.Kind, syntax.ErrorType)
	be.True(t, try.Finally != nil)
}

func TestLoadErrors(t *testing.T) {
	for _, test := range []struct {
		src  string
		want []string
	}{
		{
			"classes:\n  - name: A\n    fields: [\"Nope x\"]\n",
			[]string{"t.yaml:3:15: unknown type `Nope'"},
		},
		{
			"classes:\n  - name: A\n    methods:\n      - name: m\n        body: |\n          int x = 1;\n          Nope y;\n",
			[]string{"t.yaml:7:11: unknown type `Nope'"},
		},
		{
			"classes:\n  - name: A\n    colour: red\n",
			[]string{`t.yaml:3:5: unknown field "colour"`},
		},
		{
			"classes:\n  - abstract: true\n",
			[]string{`t.yaml:2:5: missing field "name"`},
		},
		{
			"methods:\n  - name: m\n    body:\n      - do: x++;\n",
			[]string{"t.yaml:4:9: do statement without while"},
		},
		{
			"namespace: N\nclasses:\n  - name: A\n    fields: [\"N x\"]\n",
			[]string{"t.yaml:4:15: `N' is not a type"},
		},
		{
			"classes: [\n",
			nil, // yaml syntax error; message is the decoder's
		},
	} {
		got := loadErrors(test.src)
		if test.want == nil {
			be.Equal(t, len(got), 1)
			continue
		}
		be.Equal(t, got, test.want)
	}
}

func TestErrorList(t *testing.T) {
	file := "f"
	list := ErrorList{
		{syntax.MakePosition(&file, 2, 1), "second"},
		{syntax.MakePosition(&file, 1, 1), "first"},
	}
	be.Equal(t, list.Error(), "f:2:1: second (and 1 more errors)")
	be.Equal(t, ErrorList(nil).Error(), "no errors")
	be.Equal(t, list[:1].Error(), "f:2:1: second")
}
