// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types_test

import (
	"testing"

	"github.com/nalgeon/be"

	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

var nopos syntax.Range

// hierarchy builds
//
//	interface Iface
//	class Base : Iface
//	class Derived : Base
//	class Box<T> with method T get()
//	class IntBox : Box<int>
//	errordomain IOError { NOT_FOUND, DENIED }
//	errordomain NetError { DOWN }
//	delegate Handler(Derived d) returning Base
type hierarchy struct {
	ctx            *syntax.CodeContext
	iface          *syntax.Interface
	base, derived  *syntax.Class
	box, intBox    *syntax.Class
	boxParam       *syntax.TypeParameter
	get            *syntax.Method
	io, net        *syntax.ErrorDomain
	notFound, deny *syntax.ErrorCode
	handler        *syntax.Delegate
}

func newHierarchy() *hierarchy {
	h := &hierarchy{ctx: syntax.NewCodeContext()}
	root := h.ctx.Root

	h.iface = syntax.NewInterface("Iface", nopos, syntax.Public)
	root.AddType(h.iface)
	h.base = syntax.NewClass("Base", nopos, syntax.Public)
	h.base.BaseTypes = []*syntax.DataType{syntax.NewObjectType(h.iface)}
	root.AddType(h.base)
	h.derived = syntax.NewClass("Derived", nopos, syntax.Public)
	h.derived.BaseTypes = []*syntax.DataType{syntax.NewObjectType(h.base)}
	root.AddType(h.derived)

	h.box = syntax.NewClass("Box", nopos, syntax.Public)
	root.AddType(h.box)
	h.boxParam = syntax.NewTypeParameter("T", nopos)
	syntax.AddMember(h.box, h.boxParam)
	ret := syntax.NewGenericType(h.boxParam)
	ret.ValueOwned = true
	h.get = syntax.NewMethod("get", ret, nopos, syntax.Public)
	syntax.AddMember(h.box, h.get)

	h.intBox = syntax.NewClass("IntBox", nopos, syntax.Public)
	h.intBox.BaseTypes = []*syntax.DataType{syntax.NewObjectType(h.box, h.ctx.IntType())}
	root.AddType(h.intBox)

	h.io = syntax.NewErrorDomain("IOError", nopos, syntax.Public)
	root.AddType(h.io)
	h.notFound = newCode(h.io, "NOT_FOUND")
	h.deny = newCode(h.io, "DENIED")
	h.net = syntax.NewErrorDomain("NetError", nopos, syntax.Public)
	root.AddType(h.net)
	newCode(h.net, "DOWN")

	h.handler = syntax.NewDelegate("Handler", nopos, syntax.Public)
	h.handler.ReturnType = h.obj(h.base)
	h.handler.AddParam(syntax.NewParameter("d", h.obj(h.derived), nopos))
	root.AddType(h.handler)
	return h
}

func newCode(d *syntax.ErrorDomain, name string) *syntax.ErrorCode {
	c := &syntax.ErrorCode{}
	c.Name = name
	d.AddCode(c)
	return c
}

func (h *hierarchy) obj(sym syntax.TypeSymbol, args ...*syntax.DataType) *syntax.DataType {
	return syntax.NewObjectType(sym, args...)
}

func nullable(t *syntax.DataType) *syntax.DataType {
	t.Nullable = true
	return t
}

func owned(t *syntax.DataType) *syntax.DataType {
	t.ValueOwned = true
	return t
}

func TestCompatible(t *testing.T) {
	h := newHierarchy()
	ctx := h.ctx
	for i, test := range []struct {
		from, to *syntax.DataType
		want     bool
	}{
		// references
		{h.obj(h.derived), h.obj(h.base), true},
		{h.obj(h.derived), h.obj(h.iface), true},
		{h.obj(h.base), h.obj(h.derived), false},
		{h.obj(h.iface), h.obj(h.base), false},
		{owned(h.obj(h.derived)), h.obj(h.base), true},

		// values
		{ctx.IntType(), ctx.IntType(), true},
		{ctx.CharType(), ctx.IntType(), true},
		{ctx.IntType(), syntax.NewObjectType(ctx.Int64), true},
		{syntax.NewObjectType(ctx.Int64), ctx.IntType(), false},
		{ctx.IntType(), ctx.DoubleType(), true},
		{ctx.DoubleType(), ctx.IntType(), false},
		{syntax.NewObjectType(ctx.Float), ctx.DoubleType(), true},
		{ctx.BoolType(), ctx.IntType(), false},
		{ctx.IntType(), ctx.BoolType(), false},

		// null
		{syntax.NewNullType(), h.obj(h.base), true},
		{syntax.NewNullType(), ctx.IntType(), false},
		{syntax.NewNullType(), nullable(ctx.IntType()), true},
		{syntax.NewNullType(), syntax.NewArrayType(ctx.IntType(), 1), true},

		// arrays
		{syntax.NewArrayType(ctx.IntType(), 1), syntax.NewArrayType(ctx.IntType(), 1), true},
		{syntax.NewArrayType(ctx.IntType(), 2), syntax.NewArrayType(ctx.IntType(), 1), false},
		{syntax.NewArrayType(ctx.CharType(), 1), syntax.NewArrayType(ctx.IntType(), 1), false},
		{syntax.NewArrayType(owned(ctx.StringType()), 1), syntax.NewArrayType(ctx.StringType(), 1), true},

		// pointers
		{h.obj(h.base), syntax.NewPointerType(syntax.NewVoidType()), true},
		{ctx.IntType(), syntax.NewPointerType(syntax.NewVoidType()), false},

		// generics
		{syntax.NewGenericType(h.boxParam), syntax.NewGenericType(h.boxParam), true},
		{syntax.NewGenericType(h.boxParam), h.obj(h.base), false},
		{syntax.NewGenericType(h.boxParam), syntax.NewGenericType(syntax.NewTypeParameter("T", nopos)), false},

		// errors
		{syntax.NewErrorType(h.io, h.notFound), syntax.NewErrorType(nil, nil), true},
		{syntax.NewErrorType(h.io, h.notFound), syntax.NewErrorType(h.io, nil), true},
		{syntax.NewErrorType(h.io, nil), syntax.NewErrorType(h.io, h.notFound), false},
		{syntax.NewErrorType(h.io, h.deny), syntax.NewErrorType(h.io, h.notFound), false},
		{syntax.NewErrorType(h.io, nil), syntax.NewErrorType(h.net, nil), false},
		{syntax.NewErrorType(nil, nil), syntax.NewErrorType(h.io, nil), false},
		{h.obj(h.base), syntax.NewErrorType(nil, nil), false},

		// delegates and void
		{h.obj(h.handler), h.obj(h.handler), true},
		{h.obj(h.base), syntax.NewVoidType(), false},
		{syntax.NewInvalidType(), h.obj(h.base), true},
	} {
		if got := types.Compatible(test.from, test.to); got != test.want {
			t.Errorf("#%d: Compatible(%s, %s) = %t, want %t", i, test.from, test.to, got, test.want)
		}
	}
}

func TestEqual(t *testing.T) {
	h := newHierarchy()
	ctx := h.ctx
	be.True(t, types.Equal(ctx.IntType(), ctx.IntType()))
	be.True(t, !types.Equal(ctx.IntType(), nullable(ctx.IntType())))
	be.True(t, !types.Equal(h.obj(h.base), h.obj(h.derived)))
	// ownership matters only for disposable types
	be.True(t, types.Equal(owned(ctx.IntType()), ctx.IntType()))
	be.True(t, !types.Equal(owned(h.obj(h.base)), h.obj(h.base)))
	be.True(t, types.Equal(h.obj(h.box, ctx.IntType()), h.obj(h.box, ctx.IntType())))
	be.True(t, !types.Equal(h.obj(h.box, ctx.IntType()), h.obj(h.box, ctx.CharType())))
	be.True(t, !types.Equal(syntax.NewArrayType(ctx.IntType(), 1), syntax.NewArrayType(ctx.IntType(), 2)))
}

func TestUnrelatedTypeParams(t *testing.T) {
	h := newHierarchy()
	m := syntax.NewMethod("m", nil, nopos, syntax.Public)
	mp := syntax.NewTypeParameter("T", nopos)
	m.AddTypeParam(mp)
	syntax.AddMember(h.box, m)

	be.True(t, !types.UnrelatedTypeParams(syntax.NewGenericType(h.boxParam), syntax.NewGenericType(h.boxParam)))
	be.True(t, types.UnrelatedTypeParams(syntax.NewGenericType(h.boxParam), syntax.NewGenericType(mp)))
	be.True(t, !types.UnrelatedTypeParams(h.ctx.IntType(), syntax.NewGenericType(mp)))
}

func TestActualType(t *testing.T) {
	h := newHierarchy()
	ctx := h.ctx

	// Box<string>.get() returns string
	recv := h.obj(h.box, owned(ctx.StringType()))
	got := types.ActualType(h.get.ReturnType, recv, nil)
	be.Equal(t, got.String(), "string")
	be.True(t, got.ValueOwned)

	// unowned argument yields an unowned result
	got = types.ActualType(h.get.ReturnType, h.obj(h.box, ctx.StringType()), nil)
	be.True(t, !got.ValueOwned)

	// IntBox inherits Box<int>
	got = types.ActualType(h.get.ReturnType, h.obj(h.intBox), nil)
	be.Equal(t, got.String(), "int")

	// nested: T[] and Box<T>
	arr := syntax.NewArrayType(syntax.NewGenericType(h.boxParam), 1)
	be.Equal(t, types.ActualType(arr, recv, nil).String(), "string[]")
	nested := h.obj(h.box, syntax.NewGenericType(h.boxParam))
	be.Equal(t, types.ActualType(nested, h.obj(h.intBox), nil).String(), "Box<int>")

	// unresolvable parameters are kept
	be.Equal(t, types.ActualType(h.get.ReturnType, h.obj(h.base), nil).String(), "T")

	// method type arguments
	m := syntax.NewMethod("make", nil, nopos, syntax.Public)
	g := syntax.NewTypeParameter("G", nopos)
	m.AddTypeParam(g)
	h.ctx.Root.AddMethod(m)
	got = types.ActualType(syntax.NewGenericType(g), nil, []*syntax.DataType{ctx.DoubleType()})
	be.Equal(t, got.String(), "double")
}

func TestInstanceBaseType(t *testing.T) {
	h := newHierarchy()
	be.Equal(t, types.InstanceBaseType(h.obj(h.intBox), h.box).String(), "Box<int>")
	be.Equal(t, types.InstanceBaseType(h.obj(h.derived), h.iface).String(), "Iface")
	be.True(t, types.InstanceBaseType(h.obj(h.base), h.box) == nil)
}

func TestStricter(t *testing.T) {
	h := newHierarchy()
	be.True(t, types.Stricter(h.obj(h.derived), h.obj(h.base)))
	be.True(t, !types.Stricter(h.obj(h.base), h.obj(h.derived)))
	be.True(t, types.Stricter(h.obj(h.base), nullable(h.obj(h.base))))
	be.True(t, !types.Stricter(nullable(h.obj(h.base)), h.obj(h.base)))
	be.True(t, !types.Stricter(owned(h.obj(h.base)), h.obj(h.base)))
}

func TestMatchesMethod(t *testing.T) {
	h := newHierarchy()
	dt := h.obj(h.handler)

	// covariant return, contravariant parameter
	ok := syntax.NewMethod("ok", h.obj(h.derived), nopos, syntax.Public)
	ok.AddParam(syntax.NewParameter("b", h.obj(h.base), nopos))
	be.True(t, types.MatchesMethod(dt, ok))

	// identical signature
	same := syntax.NewMethod("same", h.obj(h.base), nopos, syntax.Public)
	same.AddParam(syntax.NewParameter("x", h.obj(h.derived), nopos))
	be.True(t, types.MatchesMethod(dt, same))

	// unrelated parameter
	bad := syntax.NewMethod("bad", h.obj(h.base), nopos, syntax.Public)
	bad.AddParam(syntax.NewParameter("x", h.obj(h.intBox), nopos))
	be.True(t, !types.MatchesMethod(dt, bad))

	// wider return
	wide := syntax.NewMethod("wide", h.obj(h.iface), nopos, syntax.Public)
	wide.AddParam(syntax.NewParameter("x", h.obj(h.base), nopos))
	be.True(t, !types.MatchesMethod(dt, wide))

	// arity
	none := syntax.NewMethod("none", h.obj(h.base), nopos, syntax.Public)
	be.True(t, !types.MatchesMethod(dt, none))

	// undeclared error
	throws := syntax.NewMethod("throws", h.obj(h.base), nopos, syntax.Public)
	throws.AddParam(syntax.NewParameter("x", h.obj(h.base), nopos))
	throws.Throws = []*syntax.DataType{syntax.NewErrorType(h.io, nil)}
	be.True(t, !types.MatchesMethod(dt, throws))
	h.handler.Throws = []*syntax.DataType{syntax.NewErrorType(nil, nil)}
	be.True(t, types.MatchesMethod(dt, throws))

	// a method name converts to a matching delegate
	be.True(t, types.Compatible(syntax.NewMethodType(ok), dt))
	be.True(t, !types.Compatible(syntax.NewMethodType(none), dt))
}

func TestLookupMember(t *testing.T) {
	h := newHierarchy()
	be.Equal(t, types.LookupMember(h.obj(h.intBox), "get"), syntax.Symbol(h.get))
	be.True(t, types.LookupMember(h.obj(h.base), "get") == nil)
	be.Equal(t, types.LookupMember(h.ctx.StringType(), "length").Sym().Name, "length")

	be.True(t, types.IsSubtypeOf(h.intBox, h.box))
	be.True(t, types.IsSubtypeOf(h.derived, h.iface))
	be.True(t, !types.IsSubtypeOf(h.iface, h.derived))
}

func TestCyclicHierarchyTerminates(t *testing.T) {
	ctx := syntax.NewCodeContext()
	a := syntax.NewClass("A", nopos, syntax.Public)
	b := syntax.NewClass("B", nopos, syntax.Public)
	ctx.Root.AddType(a)
	ctx.Root.AddType(b)
	a.BaseTypes = []*syntax.DataType{syntax.NewObjectType(b)}
	b.BaseTypes = []*syntax.DataType{syntax.NewObjectType(a)}
	be.True(t, !types.IsSubtypeOf(a, ctx.Object))
	be.True(t, types.LookupSymbolMember(a, "missing") == nil)
	be.True(t, types.InstanceBaseType(syntax.NewObjectType(a), ctx.Object) == nil)
}

func TestIsAccessible(t *testing.T) {
	ctx := syntax.NewCodeContext()
	outer := syntax.NewClass("Outer", nopos, syntax.Public)
	ctx.Root.AddType(outer)
	hidden := syntax.NewClass("Hidden", nopos, syntax.Private)
	syntax.AddMember(outer, hidden)

	pub := syntax.NewMethod("leak", syntax.NewObjectType(hidden), nopos, syntax.Public)
	syntax.AddMember(outer, pub)
	priv := syntax.NewMethod("keep", syntax.NewObjectType(hidden), nopos, syntax.Private)
	syntax.AddMember(outer, priv)

	be.True(t, !types.IsAccessible(pub, pub.ReturnType))
	be.True(t, types.IsAccessible(priv, priv.ReturnType))
	be.True(t, !types.IsAccessible(pub, syntax.NewArrayType(syntax.NewObjectType(hidden), 1)))
	be.True(t, !types.IsAccessible(pub, syntax.NewObjectType(ctx.List, syntax.NewObjectType(hidden))))
	be.True(t, types.IsAccessible(pub, ctx.IntType()))
}

func TestWider(t *testing.T) {
	ctx := syntax.NewCodeContext()
	be.Equal(t, types.Wider(ctx.IntType(), ctx.CharType()).String(), "int")
	be.Equal(t, types.Wider(ctx.CharType(), syntax.NewObjectType(ctx.Long)).String(), "long")
	be.Equal(t, types.Wider(ctx.IntType(), ctx.DoubleType()).String(), "double")
	be.True(t, types.Wider(ctx.IntType(), ctx.BoolType()) == nil)
	be.True(t, types.IsNumeric(ctx.CharType()))
	be.True(t, !types.IsNumeric(ctx.StringType()))
}
