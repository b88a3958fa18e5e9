// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

// This file resolves names and computes the value type of every
// expression. A failed expression gets the invalid type, which is
// compatible with everything, so that one mistake yields one error.

import (
	"fmt"

	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

// setTarget records the type the context of x expects.
func setTarget(x syntax.Expr, t *syntax.DataType) {
	if x != nil && t != nil {
		x.SetTarget(t)
	}
}

// isConstant reports whether x denotes a compile-time constant.
func isConstant(x syntax.Expr) bool {
	switch x := x.(type) {
	case *syntax.Literal:
		return true
	case *syntax.UnaryExpr:
		return x.Op != syntax.PreInc && x.Op != syntax.PreDec && isConstant(x.X)
	case *syntax.BinaryExpr:
		return isConstant(x.X) && isConstant(x.Y)
	case *syntax.CastExpr:
		return isConstant(x.X)
	case *syntax.NameExpr:
		switch x.Symbol.(type) {
		case *syntax.Constant, *syntax.EnumValue:
			return true
		}
	}
	return false
}

// unowned returns a copy of t that does not own its value.
func unowned(t *syntax.DataType) *syntax.DataType {
	if t == nil {
		return syntax.NewInvalidType()
	}
	res := t.Copy()
	res.ValueOwned = false
	return res
}

func owned(t *syntax.DataType) *syntax.DataType {
	res := t.Copy()
	res.ValueOwned = true
	return res
}

// expr checks x and sets its value type.
func (c *checker) expr(x syntax.Expr) bool {
	b := x.Base()
	if b.Checked {
		return !b.Error
	}
	b.Checked = true
	if debug {
		fmt.Printf("check %s at %s\n", syntax.ExprString(x), x.Span())
	}

	var ok bool
	switch x := x.(type) {
	case *syntax.Literal:
		ok = c.literal(x)
	case *syntax.NameExpr:
		ok = c.name(x)
	case *syntax.CallExpr:
		ok = c.call(x)
	case *syntax.ObjectCreation:
		ok = c.objectCreation(x)
	case *syntax.ArrayCreation:
		ok = c.arrayCreation(x)
	case *syntax.UnaryExpr:
		ok = c.unary(x)
	case *syntax.PostfixExpr:
		ok = c.postfix(x)
	case *syntax.BinaryExpr:
		ok = c.binary(x)
	case *syntax.AssignExpr:
		ok = c.assign(x)
	case *syntax.ElementAccess:
		ok = c.elementAccess(x)
	case *syntax.CastExpr:
		ok = c.cast(x)
	default:
		panic(fmt.Sprintf("unexpected expression %T", x))
	}
	if !ok {
		b.Error = true
		x.SetValueType(syntax.NewInvalidType())
	}
	return ok
}

// exprs checks each of xs, merging their error types into n.
func (c *checker) exprs(n syntax.Node, xs []syntax.Expr) bool {
	ok := true
	for _, x := range xs {
		if !c.expr(x) {
			ok = false
		}
		propagate(n, x)
	}
	return ok
}

func (c *checker) literal(x *syntax.Literal) bool {
	var t *syntax.DataType
	switch x.Kind {
	case syntax.NullLit:
		t = syntax.NewNullType()
	case syntax.BoolLit:
		t = c.ctx.BoolType()
	case syntax.IntLit:
		t = c.ctx.IntType()
	case syntax.RealLit:
		t = c.ctx.DoubleType()
	case syntax.StringLit:
		t = c.ctx.StringType()
	case syntax.CharLit:
		t = c.ctx.CharType()
	}
	x.SetValueType(t)
	return true
}

// -- names --

func (c *checker) name(x *syntax.NameExpr) bool {
	if x.IsThis() {
		if !c.instanceContext() {
			c.errorf(x, "This access invalid outside of instance methods")
			return false
		}
		x.SetValueType(thisType(c.currentType()))
		return true
	}
	for _, a := range x.TypeArgs {
		if !c.dataType(a, x) {
			return false
		}
	}

	var sym syntax.Symbol
	var instance *syntax.DataType // receiver type for generic substitution
	static := false               // the member is named through its type
	if x.Inner == nil {
		sym = c.lookup(x)
		if sym == nil {
			c.errorf(x, "The name `%s' does not exist in the context of `%s'", x.Name, c.contextName())
			return false
		}
		if isInstanceMember(sym) {
			if !c.instanceContext() {
				c.errorf(x, "Access to instance member `%s' denied", syntax.FullName(sym))
				return false
			}
			instance = thisType(c.currentType())
		}
	} else {
		if !c.expr(x.Inner) {
			return false
		}
		propagate(x, x.Inner)
		t := x.Inner.ValueType()
		inner, _ := x.Inner.(*syntax.NameExpr)
		switch {
		case t != nil && t.Kind == syntax.InvalidType:
			return false
		case t != nil:
			if x.Name == "length" && t.Kind == syntax.ArrayType {
				if t.Rank > 1 {
					c.errorf(x, "`length' is not available for multi-dimensional arrays")
					return false
				}
				x.SetValueType(c.ctx.IntType())
				return true
			}
			if t.Kind == syntax.ErrorType {
				if et := c.errorMember(x.Name); et != nil {
					x.SetValueType(et)
					return true
				}
			}
			sym = types.LookupMember(t, x.Name)
			instance = t
			if sym == nil {
				c.errorf(x, "The name `%s' does not exist in the context of `%s'", x.Name, t)
				return false
			}
		case inner != nil && inner.Symbol != nil:
			static = true
			switch owner := inner.Symbol.(type) {
			case *syntax.Namespace:
				sym = owner.Scope().LookupLocal(x.Name)
			case syntax.TypeSymbol:
				sym = types.LookupSymbolMember(owner, x.Name)
			}
			if sym == nil {
				c.errorf(x, "The name `%s' does not exist in the context of `%s'", x.Name, syntax.FullName(inner.Symbol))
				return false
			}
		default:
			c.errorf(x, "Member access on `%s' is not supported", syntax.ExprString(x.Inner))
			return false
		}
		if static && isInstanceMember(sym) {
			c.errorf(x, "Access to instance member `%s' denied", syntax.FullName(sym))
			return false
		}
	}
	x.Symbol = sym
	if !c.accessible(x, sym) {
		return false
	}
	return c.nameType(x, sym, instance)
}

// lookup resolves a simple name: in the enclosing scopes, in the
// members of enclosing types and their bases, and finally among the
// values of an expected enum type.
func (c *checker) lookup(x *syntax.NameExpr) syntax.Symbol {
	for sc := syntax.EnclosingScope(x); sc != nil; sc = sc.Parent() {
		if sym := sc.LookupLocal(x.Name); sym != nil {
			return sym
		}
		if t, ok := sc.Owner().(syntax.TypeSymbol); ok && sc == t.Sym().Scope() {
			if sym := types.LookupSymbolMember(t, x.Name); sym != nil {
				return sym
			}
		}
	}
	if t := x.Target(); types.IsEnum(t) {
		if v, ok := types.LookupMember(t, x.Name).(*syntax.EnumValue); ok {
			return v
		}
	}
	return nil
}

func (c *checker) contextName() string {
	if sym := c.current(); sym != nil {
		return syntax.FullName(sym)
	}
	return "(root)"
}

// isInstanceMember reports whether sym needs an instance to be used.
func isInstanceMember(sym syntax.Symbol) bool {
	if !isTypeMember(sym) {
		return false
	}
	switch sym := sym.(type) {
	case *syntax.CreationMethod:
		return false
	case *syntax.Method:
		return sym.Binding == syntax.InstanceBinding
	case *syntax.Field:
		return sym.Binding == syntax.InstanceBinding
	case *syntax.Property:
		return sym.Binding == syntax.InstanceBinding
	case *syntax.Signal:
		return true
	}
	return false
}

// accessible checks that sym may be referenced at x.
func (c *checker) accessible(x syntax.Node, sym syntax.Symbol) bool {
	b := sym.Sym()
	switch b.Access {
	case syntax.Private:
		owner := b.Owner()
		if owner == nil || syntax.EnclosingScope(x).IsSubscopeOf(owner) {
			return true
		}
		c.errorf(x, "Access to private member `%s' denied", syntax.FullName(sym))
		return false
	case syntax.Protected:
		parent, ok := b.ParentSymbol().(syntax.TypeSymbol)
		if !ok {
			return true
		}
		for t := c.currentType(); t != nil; t = enclosingType(t) {
			if types.IsSubtypeOf(t, parent) {
				return true
			}
		}
		c.errorf(x, "Access to protected member `%s' denied", syntax.FullName(sym))
		return false
	}
	return true
}

func enclosingType(t syntax.TypeSymbol) syntax.TypeSymbol {
	for sym := t.Sym().ParentSymbol(); sym != nil; sym = sym.Sym().ParentSymbol() {
		if t, ok := sym.(syntax.TypeSymbol); ok {
			return t
		}
	}
	return nil
}

// errorMember returns the type of the built-in members of error
// values, or nil.
func (c *checker) errorMember(name string) *syntax.DataType {
	switch name {
	case "message":
		return c.ctx.StringType()
	case "code":
		return c.ctx.IntType()
	}
	return nil
}

// nameType sets the value type of a name that resolved to sym.
// Variables yield unowned values; reading them never transfers
// ownership.
func (c *checker) nameType(x *syntax.NameExpr, sym syntax.Symbol, instance *syntax.DataType) bool {
	var t *syntax.DataType
	switch sym := sym.(type) {
	case *syntax.LocalVariable:
		if sym.Type == nil {
			c.errorf(x, "use of `%s' before its type is known", sym.Name)
			return false
		}
		t = unowned(sym.Type)
	case *syntax.Parameter:
		if sym.Ellipsis {
			c.errorf(x, "ellipsis parameter cannot be referenced")
			return false
		}
		t = unowned(sym.Type)
	case *syntax.Field:
		t = unowned(types.ActualType(sym.Type, instance, nil))
	case *syntax.Constant:
		t = unowned(sym.Type)
	case *syntax.Property:
		if sym.Getter == nil && !isAssignTarget(x) {
			c.errorf(x, "Property `%s' is write-only", syntax.FullName(sym))
			return false
		}
		t = unowned(types.ActualType(sym.Type, instance, nil))
	case *syntax.EnumValue:
		if e, ok := sym.ParentSymbol().(*syntax.Enum); ok {
			t = syntax.NewObjectType(e)
		}
	case *syntax.ErrorCode:
		if d, ok := sym.ParentSymbol().(*syntax.ErrorDomain); ok {
			t = syntax.NewErrorType(d, sym)
		}
	case *syntax.CreationMethod:
		t = syntax.NewMethodType(&sym.Method)
	case *syntax.Method:
		t = syntax.NewMethodType(sym)
	case *syntax.Signal, *syntax.Namespace, syntax.TypeSymbol, *syntax.TypeParameter:
		// no value
	default:
		c.errorf(x, "`%s' cannot be used as a value", syntax.FullName(sym))
		return false
	}
	x.SetValueType(t)
	return true
}

// isAssignTarget reports whether x is the left operand of a plain
// assignment.
func isAssignTarget(x syntax.Expr) bool {
	a, ok := x.Base().Parent().(*syntax.AssignExpr)
	return ok && a.LHS == x && a.Op == syntax.NoOp
}

// receiver returns the instance type through which a method named by
// fn is invoked.
func (c *checker) receiver(fn syntax.Expr) *syntax.DataType {
	if n, ok := fn.(*syntax.NameExpr); ok {
		if n.Inner != nil {
			return n.Inner.ValueType()
		}
		if isInstanceMember(n.Symbol) {
			return thisType(c.currentType())
		}
	}
	return nil
}

// -- calls --

// A signature is the callable part of a method, signal or delegate.
type signature struct {
	name     string
	params   []*syntax.Parameter
	ret      *syntax.DataType
	throws   []*syntax.DataType
	tparams  []*syntax.TypeParameter
	instance *syntax.DataType
}

func (c *checker) call(x *syntax.CallExpr) bool {
	if !c.expr(x.Fn) {
		c.exprs(x, x.Args)
		return false
	}
	propagate(x, x.Fn)

	var sig signature
	t := x.Fn.ValueType()
	name, _ := x.Fn.(*syntax.NameExpr)
	switch {
	case t != nil && t.Kind == syntax.MethodType:
		m := t.Method
		if name != nil {
			if cm, ok := name.Symbol.(*syntax.CreationMethod); ok {
				c.errorf(x, "creation method `%s' cannot be invoked directly", syntax.FullName(cm))
				c.exprs(x, x.Args)
				return false
			}
		}
		sig = signature{
			name:     syntax.FullName(m),
			params:   m.Params,
			ret:      m.ReturnType,
			throws:   m.Throws,
			tparams:  m.TypeParams,
			instance: c.receiver(x.Fn),
		}
	case t != nil && t.Kind == syntax.DelegateType:
		d := t.Symbol.(*syntax.Delegate)
		sig = signature{name: syntax.FullName(d), params: d.Params, ret: d.ReturnType, throws: d.Throws, instance: t}
	case name != nil && isSignal(name.Symbol):
		s := name.Symbol.(*syntax.Signal)
		sig = signature{name: syntax.FullName(s), params: s.Params, ret: s.ReturnType, instance: c.receiver(x.Fn)}
	default:
		c.errorf(x, "invocation not supported in this context")
		c.exprs(x, x.Args)
		return false
	}

	var explicit []*syntax.DataType
	if name != nil {
		explicit = name.TypeArgs
	}
	typeArgs, ok := c.arguments(x, sig, x.Args, explicit)
	if !ok {
		return false
	}
	ret := types.ActualType(sig.ret, sig.instance, typeArgs)
	if ret == nil {
		ret = syntax.NewVoidType()
	}
	x.SetValueType(ret)
	for _, e := range sig.throws {
		raise(x, types.ActualType(e, sig.instance, typeArgs), x.Pos)
	}
	return true
}

func isSignal(sym syntax.Symbol) bool {
	_, ok := sym.(*syntax.Signal)
	return ok
}

// arguments checks the arguments of a call against sig and returns
// the method type arguments, explicit or inferred from the
// arguments.
func (c *checker) arguments(n syntax.Node, sig signature, args []syntax.Expr, explicit []*syntax.DataType) ([]*syntax.DataType, bool) {
	typeArgs := explicit
	if len(explicit) > 0 && len(explicit) != len(sig.tparams) {
		c.errorf(n, "`%s' requires %d type arguments, got %d", sig.name, len(sig.tparams), len(explicit))
		return nil, false
	}

	// Targets guide enum shorthand and are set before checking.
	fixed, variadic, required := 0, false, 0
	for _, p := range sig.params {
		if p.Ellipsis || p.ParamsArray {
			variadic = true
			break
		}
		fixed++
		if p.Default == nil {
			required++
		}
	}
	for i, a := range args {
		if i < fixed && !isGeneric(sig.params[i].Type) {
			setTarget(a, types.ActualType(sig.params[i].Type, sig.instance, typeArgs))
		}
	}
	if !c.exprs(n, args) {
		return nil, false
	}
	if len(args) < required {
		c.errorf(n, "Too few arguments, method `%s' does not take %d arguments", sig.name, len(args))
		return nil, false
	}
	if len(args) > fixed && !variadic {
		c.errorf(n, "Too many arguments, method `%s' does not take %d arguments", sig.name, len(args))
		return nil, false
	}

	if len(typeArgs) == 0 && len(sig.tparams) > 0 {
		typeArgs = inferTypeArgs(sig, args)
	}

	ok := true
	for i, a := range args {
		var want *syntax.DataType
		switch {
		case i < fixed:
			want = sig.params[i].Type
		case sig.params[fixed].ParamsArray && sig.params[fixed].Type != nil:
			want = sig.params[fixed].Type.Elem
		default:
			continue // ellipsis
		}
		want = types.ActualType(want, sig.instance, typeArgs)
		if !c.compatible(a.ValueType(), want) {
			c.errorf(a, "Argument %d: Cannot convert from `%s' to `%s'", i+1, a.ValueType(), want)
			ok = false
		}
	}
	return typeArgs, ok
}

func isGeneric(t *syntax.DataType) bool { return t != nil && t.Kind == syntax.GenericType }

// inferTypeArgs infers each method type parameter from the first
// argument passed for a parameter of exactly that type.
func inferTypeArgs(sig signature, args []syntax.Expr) []*syntax.DataType {
	res := make([]*syntax.DataType, len(sig.tparams))
	for i, p := range sig.params {
		if i >= len(args) || p.Ellipsis || p.ParamsArray || !isGeneric(p.Type) {
			continue
		}
		for j, tp := range sig.tparams {
			if p.Type.Param == tp && res[j] == nil {
				if at := args[i].ValueType(); at != nil && at.Kind != syntax.NullType {
					res[j] = owned(at)
				}
			}
		}
	}
	return res
}

// -- creation --

func (c *checker) objectCreation(x *syntax.ObjectCreation) bool {
	t := x.Type
	if !c.dataType(t, x) {
		c.exprs(x, x.Args)
		return false
	}
	switch t.Kind {
	case syntax.ErrorType:
		if t.Domain == nil || t.Code == nil {
			c.errorf(x, "error creation requires an error code")
			return false
		}
		if len(x.Args) > 0 {
			setTarget(x.Args[0], c.ctx.StringType())
		}
		if !c.exprs(x, x.Args) {
			return false
		}
		if len(x.Args) > 0 && !c.compatible(x.Args[0].ValueType(), c.ctx.StringType()) {
			c.errorf(x.Args[0], "Argument 1: Cannot convert from `%s' to `%s'", x.Args[0].ValueType(), c.ctx.StringType())
			return false
		}
		x.SetValueType(owned(t))
		return true

	case syntax.ReferenceType, syntax.ValueType:
		switch sym := t.Symbol.(type) {
		case *syntax.Interface:
			c.errorf(x, "Can't create instance of interface `%s'", syntax.FullName(sym))
			return false
		case *syntax.Class:
			if sym.IsAbstract {
				c.errorf(x, "Can't create instance of abstract class `%s'", syntax.FullName(sym))
				return false
			}
		case *syntax.Struct:
		default:
			c.errorf(x, "`%s' is not a class, struct, or error code", t)
			return false
		}
	default:
		c.errorf(x, "`%s' is not a class, struct, or error code", t)
		return false
	}

	sym := t.Symbol
	name := x.Name
	if name == "" {
		name = ".new"
	}
	ctor, _ := sym.Sym().Scope().LookupLocal(name).(*syntax.CreationMethod)
	if ctor == nil {
		if x.Name != "" || len(x.Args) > 0 {
			c.errorf(x, "The name `%s' does not exist in the context of `%s'", name, syntax.FullName(sym))
			c.exprs(x, x.Args)
			return false
		}
		x.SetValueType(owned(t))
		return true
	}
	if !c.accessible(x, ctor) {
		return false
	}
	x.Ctor = ctor
	sig := signature{name: syntax.FullName(ctor), params: ctor.Params, throws: ctor.Throws, tparams: ctor.TypeParams, instance: t}
	typeArgs, ok := c.arguments(x, sig, x.Args, nil)
	if !ok {
		return false
	}
	for _, e := range ctor.Throws {
		raise(x, types.ActualType(e, t, typeArgs), x.Pos)
	}
	x.SetValueType(owned(t))
	return true
}

func (c *checker) arrayCreation(x *syntax.ArrayCreation) bool {
	elem := x.Elem
	if elem == nil {
		if t := x.Target(); t != nil && t.Kind == syntax.ArrayType {
			elem = t.Elem.Copy()
		} else if len(x.Init) > 0 {
			if !c.exprs(x, x.Init) {
				return false
			}
			elem = owned(x.Init[0].ValueType())
		} else {
			c.errorf(x, "initializer list used for unknown type")
			return false
		}
		x.Elem = elem
	} else if !c.dataType(elem, x) {
		return false
	}

	ok := true
	for _, s := range x.Sizes {
		setTarget(s, c.ctx.IntType())
		if !c.expr(s) {
			ok = false
		} else if !types.IsInteger(s.ValueType()) {
			c.errorf(s, "Expression of integer type expected")
			ok = false
		}
		propagate(x, s)
	}
	for _, e := range x.Init {
		setTarget(e, elem)
		if !c.expr(e) {
			ok = false
			continue
		}
		propagate(x, e)
		if !c.compatible(e.ValueType(), elem) {
			c.errorf(e, "Expected initializer of type `%s' but got `%s'", elem, e.ValueType())
			ok = false
		}
	}
	if !ok {
		return false
	}
	t := syntax.NewArrayType(elem.Copy(), x.Rank)
	t.ValueOwned = true
	x.SetValueType(t)
	return true
}

// -- operators --

// lvalue reports whether x denotes a storage location, and returns
// its declared type.
func (c *checker) lvalue(x syntax.Expr) (*syntax.DataType, bool) {
	switch x := x.(type) {
	case *syntax.NameExpr:
		switch sym := x.Symbol.(type) {
		case *syntax.LocalVariable:
			return sym.Type, true
		case *syntax.Parameter:
			return sym.Type, true
		case *syntax.Field:
			var inst *syntax.DataType
			if x.Inner != nil {
				inst = x.Inner.ValueType()
			}
			return types.ActualType(sym.Type, inst, nil), true
		case *syntax.Property:
			writable := sym.Setter != nil && (sym.Setter.Writable || c.inCreationMethod())
			if !writable {
				c.errorf(x, "Property `%s' is read-only", syntax.FullName(sym))
				return nil, false
			}
			return sym.Type, true
		}
	case *syntax.ElementAccess:
		if t := x.X.ValueType(); t != nil && t.Kind == syntax.ArrayType {
			return t.Elem, true
		}
	}
	return nil, false
}

func (c *checker) inCreationMethod() bool {
	_, ok := c.current().(*syntax.CreationMethod)
	return ok
}

func (c *checker) unary(x *syntax.UnaryExpr) bool {
	if !c.expr(x.X) {
		return false
	}
	propagate(x, x.X)
	t := x.X.ValueType()
	switch x.Op {
	case syntax.Not:
		if !types.IsBoolean(t) {
			c.errorf(x, "Operator not supported for `%s'", t)
			return false
		}
		x.SetValueType(c.ctx.BoolType())
	case syntax.Neg, syntax.Plus:
		if !types.IsNumeric(t) {
			c.errorf(x, "Operator not supported for `%s'", t)
			return false
		}
		x.SetValueType(unowned(t))
	case syntax.BitNot:
		if !types.IsInteger(t) && !types.IsEnum(t) {
			c.errorf(x, "Operator not supported for `%s'", t)
			return false
		}
		x.SetValueType(unowned(t))
	case syntax.PreInc, syntax.PreDec:
		if _, ok := c.lvalue(x.X); !ok {
			if !x.X.Base().Error {
				c.errorf(x, "Prefix operators not supported for this expression")
			}
			return false
		}
		if !types.IsInteger(t) {
			c.errorf(x, "Operator not supported for `%s'", t)
			return false
		}
		x.SetValueType(unowned(t))
	}
	return true
}

func (c *checker) postfix(x *syntax.PostfixExpr) bool {
	if !c.expr(x.X) {
		return false
	}
	propagate(x, x.X)
	if _, ok := c.lvalue(x.X); !ok {
		if !x.X.Base().Error {
			c.errorf(x, "unsupported lvalue in postfix expression")
		}
		return false
	}
	t := x.X.ValueType()
	if !types.IsInteger(t) {
		c.errorf(x, "Operator not supported for `%s'", t)
		return false
	}
	x.SetValueType(unowned(t))
	return true
}

func (c *checker) isString(t *syntax.DataType) bool {
	return t != nil && t.Kind == syntax.ReferenceType && t.Symbol == syntax.TypeSymbol(c.ctx.String)
}

func (c *checker) binary(x *syntax.BinaryExpr) bool {
	ok := c.expr(x.X)
	if ok && (x.Op == syntax.Eq || x.Op == syntax.Ne) {
		setTarget(x.Y, x.X.ValueType())
	}
	if !c.expr(x.Y) {
		ok = false
	}
	propagate(x, x.X)
	propagate(x, x.Y)
	if !ok {
		return false
	}
	t, ok := c.binaryType(x, x.Op, x.X.ValueType(), x.Y.ValueType())
	if !ok {
		return false
	}
	x.SetValueType(t)
	return true
}

// binaryType returns the type of "a op b".
func (c *checker) binaryType(n syntax.Node, op syntax.BinaryOp, a, b *syntax.DataType) (*syntax.DataType, bool) {
	switch op {
	case syntax.Add, syntax.Sub, syntax.Mul, syntax.Div, syntax.Mod:
		if op == syntax.Add && (c.isString(a) || c.isString(b)) {
			if !c.isString(a) || !c.isString(b) {
				c.errorf(n, "Operator not supported for `%s' and `%s'", a, b)
				return nil, false
			}
			return owned(c.ctx.StringType()), true
		}
		if w := types.Wider(a, b); w != nil {
			return unowned(w), true
		}
		c.errorf(n, "Arithmetic operation not supported for types `%s' and `%s'", a, b)
		return nil, false

	case syntax.Shl, syntax.Shr:
		if types.IsInteger(a) && types.IsInteger(b) {
			return unowned(a), true
		}
		c.errorf(n, "Arithmetic operation not supported for types `%s' and `%s'", a, b)
		return nil, false

	case syntax.BitAnd, syntax.BitOr, syntax.BitXor:
		switch {
		case types.IsInteger(a) && types.IsInteger(b):
			return unowned(types.Wider(a, b)), true
		case types.IsEnum(a) && types.IsEnum(b) && a.Symbol == b.Symbol:
			return unowned(a), true
		case types.IsBoolean(a) && types.IsBoolean(b):
			return c.ctx.BoolType(), true
		}
		c.errorf(n, "Arithmetic operation not supported for types `%s' and `%s'", a, b)
		return nil, false

	case syntax.Lt, syntax.Gt, syntax.Le, syntax.Ge:
		if (types.IsNumeric(a) && types.IsNumeric(b)) || (c.isString(a) && c.isString(b)) {
			return c.ctx.BoolType(), true
		}
		c.errorf(n, "Relational operation not supported for types `%s' and `%s'", a, b)
		return nil, false

	case syntax.Eq, syntax.Ne:
		if c.compatible(a, b) || c.compatible(b, a) || (types.IsNumeric(a) && types.IsNumeric(b)) {
			return c.ctx.BoolType(), true
		}
		c.errorf(n, "Equality operation: `%s' and `%s' are incompatible", a, b)
		return nil, false

	case syntax.And, syntax.Or:
		if types.IsBoolean(a) && types.IsBoolean(b) {
			return c.ctx.BoolType(), true
		}
		c.errorf(n, "Operands must be boolean")
		return nil, false
	}
	c.internalf(n, "invalid binary operator %d", op)
	return nil, false
}

func (c *checker) assign(x *syntax.AssignExpr) bool {
	if !c.expr(x.LHS) {
		c.expr(x.RHS)
		return false
	}
	propagate(x, x.LHS)
	decl, ok := c.lvalue(x.LHS)
	if !ok {
		if !x.LHS.Base().Error {
			c.errorf(x, "unsupported lvalue in assignment")
		}
		c.expr(x.RHS)
		return false
	}
	lhs := x.LHS.ValueType()
	setTarget(x.RHS, lhs)
	if !c.expr(x.RHS) {
		return false
	}
	propagate(x, x.RHS)
	rhs := x.RHS.ValueType()

	if x.Op != syntax.NoOp {
		t, ok := c.binaryType(x, x.Op, lhs, rhs)
		if !ok {
			return false
		}
		rhs = t
	}
	if !c.compatible(rhs, lhs) {
		c.errorf(x, "Assignment: Cannot convert from `%s' to `%s'", rhs, lhs)
		return false
	}
	if x.Op == syntax.NoOp && rhs.IsDisposable() && decl.Kind != syntax.PointerType && !decl.ValueOwned {
		c.errorf(x, "Invalid assignment from owned expression to unowned variable")
		return false
	}
	x.SetValueType(unowned(lhs))
	return true
}

func (c *checker) elementAccess(x *syntax.ElementAccess) bool {
	if !c.expr(x.X) {
		c.exprs(x, x.Index)
		return false
	}
	propagate(x, x.X)
	t := x.X.ValueType()

	if t != nil && t.Kind == syntax.ArrayType || c.isString(t) {
		rank := 1
		if t.Kind == syntax.ArrayType {
			rank = t.Rank
		}
		for _, i := range x.Index {
			setTarget(i, c.ctx.IntType())
		}
		if !c.exprs(x, x.Index) {
			return false
		}
		if len(x.Index) != rank {
			c.errorf(x, "Element access with %d indices on a %d-dimensional value", len(x.Index), rank)
			return false
		}
		for _, i := range x.Index {
			if !types.IsInteger(i.ValueType()) {
				c.errorf(i, "Expression of integer type expected")
				return false
			}
		}
		if t.Kind == syntax.ArrayType {
			x.SetValueType(unowned(t.Elem))
		} else {
			x.SetValueType(c.ctx.CharType())
		}
		return true
	}

	get, ok := types.LookupMember(t, "get").(*syntax.Method)
	if !ok {
		c.errorf(x, "The expression `%s' does not denote an array", t)
		c.exprs(x, x.Index)
		return false
	}
	sig := signature{name: syntax.FullName(get), params: get.Params, ret: get.ReturnType, throws: get.Throws, tparams: get.TypeParams, instance: t}
	typeArgs, ok := c.arguments(x, sig, x.Index, nil)
	if !ok {
		return false
	}
	x.SetValueType(types.ActualType(get.ReturnType, t, typeArgs))
	for _, e := range get.Throws {
		raise(x, e, x.Pos)
	}
	return true
}

func (c *checker) cast(x *syntax.CastExpr) bool {
	if !c.dataType(x.Type, x) {
		c.expr(x.X)
		return false
	}
	if !c.expr(x.X) {
		return false
	}
	propagate(x, x.X)
	from, to := x.X.ValueType(), x.Type
	if from == nil {
		c.errorf(x, "Invalid cast expression")
		return false
	}

	if x.Soft {
		if to.Kind != syntax.ReferenceType {
			c.errorf(x, "Operation not supported for this type")
			return false
		}
		t := to.Copy()
		t.Nullable = true
		t.ValueOwned = from.ValueOwned
		x.SetValueType(t)
		return true
	}
	if !castable(from, to) {
		c.errorf(x, "Cannot cast from `%s' to `%s'", from, to)
		return false
	}
	t := to.Copy()
	t.ValueOwned = from.ValueOwned
	x.SetValueType(t)
	return true
}

// castable reports whether an explicit cast from one type to another
// is allowed: numeric conversions, enums to and from integers, up and
// down casts between reference types, and anything through pointers.
func castable(from, to *syntax.DataType) bool {
	switch {
	case from == nil:
		return false
	case types.Compatible(from, to) || types.Compatible(to, from):
		return true
	case types.IsNumeric(from) && types.IsNumeric(to):
		return true
	case types.IsEnum(from) && types.IsInteger(to), types.IsInteger(from) && types.IsEnum(to):
		return true
	case from.Kind == syntax.PointerType || to.Kind == syntax.PointerType:
		return true
	case from.IsReferenceType() && to.Kind == syntax.ReferenceType:
		_, iface := to.Symbol.(*syntax.Interface)
		return iface || from.Kind == syntax.ReferenceType
	}
	return false
}
