// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package check implements the semantic checking and lowering pass.
//
// Unit walks a linked code tree in a fixed depth-first order. It
// resolves names and the types of expressions, matches overriding
// members against their bases, tracks the error types each node may
// propagate, verifies whole-type conformance, and rewrites while, do,
// for, foreach and lock statements into the canonical vocabulary of
// blocks, loops, ifs and breaks.
//
// Every check of a node begins by setting its Checked latch; checking
// a node a second time returns the result of the first check.
// Failures are reported to the diag.Reporter and mark the failing
// node with Error; checking always continues with the siblings.
package check // import "go.rcsema.net/check"

import (
	"fmt"

	"go.rcsema.net/diag"
	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

const debug = false

// Options controls the dialect accepted by the checker.
type Options struct {
	// EntryPoint is the name of the program entry point.
	// The empty string means "main".
	EntryPoint string

	// NonNull disallows null where a non-nullable reference type
	// is expected.
	NonNull bool
}

// Unit checks every symbol declared in ctx and lowers all statement
// bodies. Diagnostics are sent to r. If any error was reported, Unit
// returns them as a diag.ErrorList.
func Unit(ctx *syntax.CodeContext, opts *Options, r diag.Reporter) error {
	c := newChecker(ctx, opts, r)
	c.namespace(ctx.Root)
	if len(c.errors) > 0 {
		return c.errors
	}
	return nil
}

// Node checks a single symbol or statement that belongs to a unit
// previously passed to Unit. Checked nodes return their first result.
func Node(ctx *syntax.CodeContext, opts *Options, r diag.Reporter, n syntax.Node) (bool, error) {
	c := newChecker(ctx, opts, r)
	var ok bool
	switch n := n.(type) {
	case syntax.Symbol:
		ok = c.symbol(n)
	case syntax.Stmt:
		if sym := syntax.EnclosingSymbol(n); sym != nil {
			c.push(sym)
			defer c.pop()
		}
		ok = c.stmt(n)
	default:
		panic(fmt.Sprintf("cannot check %T", n))
	}
	if len(c.errors) > 0 {
		return ok, c.errors
	}
	return ok, nil
}

type checker struct {
	ctx    *syntax.CodeContext
	opts   Options
	report diag.Reporter
	errors diag.ErrorList

	// frames records the member being checked, innermost last.
	frames []*frame
}

// A frame is the ambient state of the member being checked.
type frame struct {
	sym  syntax.Symbol
	file string
}

func newChecker(ctx *syntax.CodeContext, opts *Options, r diag.Reporter) *checker {
	c := &checker{ctx: ctx, report: r}
	if opts != nil {
		c.opts = *opts
	}
	if c.opts.EntryPoint != "" {
		ctx.EntryPointName = c.opts.EntryPoint
	}
	return c
}

func (c *checker) push(sym syntax.Symbol) {
	c.frames = append(c.frames, &frame{sym: sym, file: sym.Span().Begin.Filename()})
}

func (c *checker) pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

// current returns the symbol being checked, or nil.
func (c *checker) current() syntax.Symbol {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1].sym
}

// currentType returns the innermost type symbol enclosing the
// current symbol, or nil.
func (c *checker) currentType() syntax.TypeSymbol {
	for sym := c.current(); sym != nil; sym = sym.Sym().ParentSymbol() {
		if t, ok := sym.(syntax.TypeSymbol); ok {
			return t
		}
	}
	return nil
}

// currentClass returns the class enclosing the current symbol, or nil.
func (c *checker) currentClass() *syntax.Class {
	cl, _ := c.currentType().(*syntax.Class)
	return cl
}

// returnType returns the type a return statement in the current
// member must produce, or nil if return is not allowed.
func (c *checker) returnType() *syntax.DataType {
	switch sym := c.current().(type) {
	case *syntax.Method:
		return sym.ReturnType
	case *syntax.CreationMethod:
		return syntax.NewVoidType()
	case *syntax.PropertyAccessor:
		if sym.Readable {
			return sym.ValueType
		}
		return syntax.NewVoidType()
	case *syntax.Constructor, *syntax.Destructor:
		return syntax.NewVoidType()
	}
	return nil
}

// instanceContext reports whether this is available in the current
// member.
func (c *checker) instanceContext() bool {
	switch sym := c.current().(type) {
	case *syntax.Method:
		return sym.Binding == syntax.InstanceBinding && isTypeMember(sym)
	case *syntax.CreationMethod:
		return true
	case *syntax.PropertyAccessor:
		p := sym.Prop()
		return p != nil && p.Binding == syntax.InstanceBinding
	case *syntax.Constructor:
		return sym.Binding == syntax.InstanceBinding
	case *syntax.Destructor:
		return sym.Binding == syntax.InstanceBinding
	case *syntax.Field:
		return sym.Binding == syntax.InstanceBinding && isTypeMember(sym)
	}
	return false
}

// isTypeMember reports whether sym is declared directly in a class,
// interface or struct.
func isTypeMember(sym syntax.Symbol) bool {
	switch sym.Sym().ParentSymbol().(type) {
	case *syntax.Class, *syntax.Interface, *syntax.Struct:
		return true
	}
	return false
}

// thisType returns the type of this within t: t applied to its own
// type parameters.
func thisType(t syntax.TypeSymbol) *syntax.DataType {
	var args []*syntax.DataType
	for _, p := range syntax.TypeParamsOf(t) {
		a := syntax.NewGenericType(p)
		a.ValueOwned = true
		args = append(args, a)
	}
	return syntax.NewObjectType(t, args...)
}

// -- diagnostics --

func (c *checker) diagnose(r syntax.Range, sev diag.Severity, format string, args []interface{}) {
	d := diag.Diagnostic{Range: r, Severity: sev, Msg: fmt.Sprintf(format, args...)}
	if debug {
		fmt.Printf("%s\n", d)
	}
	if sev == diag.Error {
		c.errors = append(c.errors, d)
	}
	if c.report != nil {
		c.report.Report(d)
	}
}

// errorf reports an error at n and marks n as failed.
func (c *checker) errorf(n syntax.Node, format string, args ...interface{}) {
	n.Base().Error = true
	c.diagnose(n.Span(), diag.Error, format, args)
}

// errorAt reports an error at r without marking any node.
func (c *checker) errorAt(r syntax.Range, format string, args ...interface{}) {
	c.diagnose(r, diag.Error, format, args)
}

func (c *checker) warnf(r syntax.Range, format string, args ...interface{}) {
	c.diagnose(r, diag.Warning, format, args)
}

func (c *checker) notef(r syntax.Range, format string, args ...interface{}) {
	c.diagnose(r, diag.Note, format, args)
}

// internalf reports a violated invariant of the tree.
func (c *checker) internalf(n syntax.Node, format string, args ...interface{}) {
	c.errorf(n, "internal error: "+format, args...)
}

// -- symbols --

// symbol dispatches to the check for sym's kind.
func (c *checker) symbol(sym syntax.Symbol) bool {
	switch sym := sym.(type) {
	case *syntax.Namespace:
		return c.namespace(sym)
	case *syntax.Class:
		return c.class(sym)
	case *syntax.Interface:
		return c.iface(sym)
	case *syntax.Struct:
		return c.strct(sym)
	case *syntax.Enum:
		return c.enum(sym)
	case *syntax.EnumValue:
		return c.enumValue(sym)
	case *syntax.ErrorDomain:
		return c.errorDomain(sym)
	case *syntax.ErrorCode:
		return c.errorCode(sym)
	case *syntax.Delegate:
		return c.delegate(sym)
	case *syntax.TypeParameter:
		sym.Checked = true
		return true
	case *syntax.CreationMethod:
		return c.creationMethod(sym)
	case *syntax.Method:
		return c.method(sym)
	case *syntax.Parameter:
		return c.param(sym)
	case *syntax.Property:
		return c.property(sym)
	case *syntax.PropertyAccessor:
		return c.accessor(sym)
	case *syntax.Signal:
		return c.signal(sym)
	case *syntax.Field:
		return c.field(sym)
	case *syntax.Constant:
		return c.constant(sym)
	case *syntax.LocalVariable:
		return c.local(sym)
	case *syntax.Constructor:
		return c.constructor(sym)
	case *syntax.Destructor:
		return c.destructor(sym)
	}
	panic(fmt.Sprintf("unexpected symbol %T", sym))
}

// namespace checks the members of ns: value types first, then
// constants, fields and functions, then reference types and nested
// namespaces.
func (c *checker) namespace(ns *syntax.Namespace) bool {
	if ns.Checked {
		return !ns.Error
	}
	ns.Checked = true

	ok := true
	check := func(sym syntax.Symbol) {
		if !c.symbol(sym) {
			ok = false
		}
	}
	for _, e := range ns.Enums {
		check(e)
	}
	for _, d := range ns.ErrorDomains {
		check(d)
	}
	for _, d := range ns.Delegates {
		check(d)
	}
	for _, k := range ns.Constants {
		check(k)
	}
	for _, f := range ns.Fields {
		check(f)
	}
	for _, m := range ns.Methods {
		check(m)
	}
	for _, i := range ns.Interfaces {
		check(i)
	}
	for _, cl := range ns.Classes {
		check(cl)
	}
	for _, s := range ns.Structs {
		check(s)
	}
	for _, sub := range ns.Namespaces {
		check(sub)
	}
	return ok
}

// members checks the members of a class, interface or struct in the
// fixed order: nested enums, fields, constants, methods, properties,
// signals, creation methods, construct and destruct blocks, then
// nested types.
func (c *checker) members(ms *syntax.Members) bool {
	ok := true
	check := func(sym syntax.Symbol) {
		if !c.symbol(sym) {
			ok = false
		}
	}
	for _, p := range ms.TypeParams {
		check(p)
	}
	for _, e := range ms.Enums {
		check(e)
	}
	for _, f := range ms.Fields {
		check(f)
	}
	for _, k := range ms.Constants {
		check(k)
	}
	for _, m := range ms.Methods {
		check(m)
	}
	for _, p := range ms.Properties {
		check(p)
	}
	for _, s := range ms.Signals {
		check(s)
	}
	for _, m := range ms.CreationMethods {
		check(m)
	}
	for _, x := range ms.Constructors {
		check(x)
	}
	for _, x := range ms.Destructors {
		check(x)
	}
	for _, x := range ms.Classes {
		check(x)
	}
	for _, x := range ms.Interfaces {
		check(x)
	}
	for _, x := range ms.Structs {
		check(x)
	}
	for _, x := range ms.Delegates {
		check(x)
	}
	return ok
}

// dataType validates a type reference: the number of type arguments
// must match the referenced symbol's type parameters.
func (c *checker) dataType(t *syntax.DataType, at syntax.Node) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case syntax.InvalidType:
		return false
	case syntax.ArrayType, syntax.PointerType:
		return c.dataType(t.Elem, at)
	}
	ok := true
	for _, a := range t.Args {
		if !c.dataType(a, at) {
			ok = false
		}
	}
	if t.Symbol == nil {
		return ok
	}
	want := len(syntax.TypeParamsOf(t.Symbol))
	switch {
	case len(t.Args) > 0 && want == 0:
		c.errorf(at, "`%s' does not take type arguments", syntax.FullName(t.Symbol))
		return false
	case len(t.Args) > 0 && len(t.Args) < want:
		c.errorf(at, "too few type arguments for `%s'", syntax.FullName(t.Symbol))
		return false
	case len(t.Args) > want:
		c.errorf(at, "too many type arguments for `%s'", syntax.FullName(t.Symbol))
		return false
	}
	return ok
}

// compatible is types.Compatible, narrowed by the NonNull option.
func (c *checker) compatible(from, to *syntax.DataType) bool {
	if c.opts.NonNull && from != nil && to != nil && from.Kind == syntax.NullType &&
		!to.Nullable && to.Kind != syntax.PointerType && to.Kind != syntax.InvalidType {
		return false
	}
	return types.Compatible(from, to)
}
