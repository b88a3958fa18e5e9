// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "go.rcsema.net/syntax"

// maxDepth bounds walks over base-type graphs so that a cyclic
// hierarchy, which the checker reports separately, cannot hang them.
const maxDepth = 64

// ActualType returns t with its generic parameters replaced by
// concrete types. Parameters of a type are taken from the type
// arguments of instance, traced back through instance's base types to
// the declaring type; parameters of a method are taken from
// methodArgs. Parameters that cannot be resolved are kept.
//
// A substituted type is owned only if both the argument and the
// generic reference are owned.
func ActualType(t, instance *syntax.DataType, methodArgs []*syntax.DataType) *syntax.DataType {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case syntax.GenericType:
		arg := typeArgument(t.Param, instance, methodArgs)
		if arg == nil {
			return t.Copy()
		}
		res := arg.Copy()
		res.ValueOwned = arg.ValueOwned && t.ValueOwned
		if t.Nullable {
			res.Nullable = true
		}
		res.Pos = t.Pos
		return res

	case syntax.ArrayType, syntax.PointerType:
		res := t.Copy()
		res.Elem = ActualType(t.Elem, instance, methodArgs)
		return res
	}

	res := t.Copy()
	for i, a := range t.Args {
		res.Args[i] = ActualType(a, instance, methodArgs)
	}
	return res
}

func typeArgument(p *syntax.TypeParameter, instance *syntax.DataType, methodArgs []*syntax.DataType) *syntax.DataType {
	owner := p.ParentSymbol()
	switch owner.(type) {
	case *syntax.Method, *syntax.CreationMethod:
		if i := syntax.TypeParamIndex(owner, p.Name); i >= 0 && i < len(methodArgs) {
			return methodArgs[i]
		}
		return nil
	}
	decl, ok := owner.(syntax.TypeSymbol)
	if !ok || instance == nil {
		return nil
	}
	base := InstanceBaseType(instance, decl)
	if base == nil {
		return nil
	}
	if i := syntax.TypeParamIndex(decl, p.Name); i >= 0 && i < len(base.Args) {
		return base.Args[i]
	}
	return nil
}

// InstanceBaseType returns the view of instance as the type decl,
// with type arguments expressed in terms of instance's own type
// arguments, or nil if decl is not among instance's base types.
func InstanceBaseType(instance *syntax.DataType, decl syntax.TypeSymbol) *syntax.DataType {
	return instanceBaseType(instance, decl, 0)
}

func instanceBaseType(instance *syntax.DataType, decl syntax.TypeSymbol, depth int) *syntax.DataType {
	if instance == nil || depth > maxDepth {
		return nil
	}
	sym := instance.TypeSymbolOf()
	if sym == nil {
		return nil
	}
	if sym == decl {
		return instance
	}
	for _, bt := range BaseTypes(sym) {
		actual := ActualType(bt, instance, nil)
		if res := instanceBaseType(actual, decl, depth+1); res != nil {
			return res
		}
	}
	return nil
}

// BaseTypes returns the direct base types of sym: the base class and
// interfaces of a class, the prerequisites of an interface, or the
// base type of a struct.
func BaseTypes(sym syntax.Symbol) []*syntax.DataType {
	switch sym := sym.(type) {
	case *syntax.Class:
		return sym.BaseTypes
	case *syntax.Interface:
		return sym.Prerequisites
	case *syntax.Struct:
		if sym.BaseType != nil {
			return []*syntax.DataType{sym.BaseType}
		}
	}
	return nil
}
