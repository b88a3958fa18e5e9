// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// A CodeContext is one compilation unit: the root namespace with the
// prelude types, the unit's entry point and the state shared by all
// rewrites of the unit.
type CodeContext struct {
	Root *Namespace
	GLib *Namespace

	// EntryPointName is the name of the program entry point.
	EntryPointName string
	// EntryPoint is set by the checker.
	EntryPoint *Method

	Bool, Char, Int, Uint, Long, Ulong, Int64 *Struct
	Float, Double                             *Struct

	String *Class // compact; has an int length field
	Object *Class // GLib.Object
	List   *Class // GLib.List<G>
	SList  *Class // GLib.SList<G>

	materialized map[TypeSymbol]bool
	ntemps       int
}

// NewCodeContext returns a unit containing only the prelude.
func NewCodeContext() *CodeContext {
	ctx := &CodeContext{
		Root:           NewNamespace("", Range{}),
		EntryPointName: "main",
		materialized:   make(map[TypeSymbol]bool),
	}
	ctx.Bool = ctx.primitive("bool", func(s *Struct) { s.IsBoolean = true })
	ctx.Char = ctx.integer("char", 2)
	ctx.Int = ctx.integer("int", 6)
	ctx.Uint = ctx.integer("uint", 7)
	ctx.Long = ctx.integer("long", 8)
	ctx.Ulong = ctx.integer("ulong", 9)
	ctx.Int64 = ctx.integer("int64", 10)
	ctx.Float = ctx.floating("float", 1)
	ctx.Double = ctx.floating("double", 2)

	ctx.String = NewClass("string", Range{}, Public)
	ctx.String.IsCompact = true
	ctx.String.External = true
	ctx.Root.AddType(ctx.String)
	AddMember(ctx.String, NewField("length", ctx.IntType(), Range{}, Public))

	ctx.GLib = ctx.Root.AddNamespace(NewNamespace("GLib", Range{}))
	ctx.GLib.External = true
	ctx.Object = NewClass("Object", Range{}, Public)
	ctx.Object.External = true
	ctx.GLib.AddType(ctx.Object)
	ctx.List = ctx.linkedList("List")
	ctx.SList = ctx.linkedList("SList")
	return ctx
}

func (ctx *CodeContext) primitive(name string, init func(*Struct)) *Struct {
	s := NewStruct(name, Range{}, Public)
	s.External = true
	init(s)
	ctx.Root.AddType(s)
	return s
}

func (ctx *CodeContext) integer(name string, rank int) *Struct {
	return ctx.primitive(name, func(s *Struct) {
		s.IsInteger = true
		s.Rank = rank
	})
}

func (ctx *CodeContext) floating(name string, rank int) *Struct {
	return ctx.primitive(name, func(s *Struct) {
		s.IsFloating = true
		s.Rank = rank
	})
}

// linkedList declares a compact generic list class in GLib with the
// members used to iterate it.
func (ctx *CodeContext) linkedList(name string) *Class {
	c := NewClass(name, Range{}, Public)
	c.IsCompact = true
	c.External = true
	ctx.GLib.AddType(c)
	g := NewTypeParameter("G", Range{})
	AddMember(c, g)

	length := NewMethod("length", ctx.UintType(), Range{}, Public)
	length.External = true
	AddMember(c, length)

	nth := NewMethod("nth_data", NewGenericType(g), Range{}, Public)
	nth.External = true
	nth.AddParam(NewParameter("n", ctx.UintType(), Range{}))
	AddMember(c, nth)

	elem := NewGenericType(g)
	elem.ValueOwned = true
	appnd := NewMethod("append", nil, Range{}, Public)
	appnd.External = true
	appnd.AddParam(NewParameter("data", elem, Range{}))
	AddMember(c, appnd)

	ctx.materialized[c] = true
	return c
}

// IsMaterialized reports whether values of sym are collections whose
// elements can be enumerated without an iterator object.
func (ctx *CodeContext) IsMaterialized(sym TypeSymbol) bool { return ctx.materialized[sym] }

// MarkMaterialized adds sym to the materialized collection types.
func (ctx *CodeContext) MarkMaterialized(sym TypeSymbol) { ctx.materialized[sym] = true }

// TempName returns a fresh temporary variable name, unique within
// the unit.
func (ctx *CodeContext) TempName() string {
	name := fmt.Sprintf("_tmp%d_", ctx.ntemps)
	ctx.ntemps++
	return name
}

func (ctx *CodeContext) BoolType() *DataType   { return NewObjectType(ctx.Bool) }
func (ctx *CodeContext) CharType() *DataType   { return NewObjectType(ctx.Char) }
func (ctx *CodeContext) IntType() *DataType    { return NewObjectType(ctx.Int) }
func (ctx *CodeContext) UintType() *DataType   { return NewObjectType(ctx.Uint) }
func (ctx *CodeContext) DoubleType() *DataType { return NewObjectType(ctx.Double) }
func (ctx *CodeContext) StringType() *DataType { return NewObjectType(ctx.String) }

// ErrorType returns the type of any error.
func (ctx *CodeContext) ErrorType() *DataType { return NewErrorType(nil, nil) }
