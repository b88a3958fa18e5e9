// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types implements the relations between data types:
// compatibility (assignability), structural equality, the stricter
// relation used to match methods against delegates, substitution of
// generic parameters, member lookup and type accessibility.
//
// None of the relations consult ownership, except where noted.
package types

import "go.rcsema.net/syntax"

// Compatible reports whether a value of type from may be used where
// a value of type to is expected.
func Compatible(from, to *syntax.DataType) bool {
	if from == nil || to == nil {
		return false
	}
	// Invalid types have already been reported.
	if from.Kind == syntax.InvalidType || to.Kind == syntax.InvalidType {
		return true
	}

	if from.Kind == syntax.NullType {
		switch to.Kind {
		case syntax.NullType, syntax.PointerType, syntax.ReferenceType, syntax.ArrayType,
			syntax.DelegateType, syntax.GenericType, syntax.ErrorType:
			return true
		}
		return to.Nullable
	}

	switch to.Kind {
	case syntax.VoidType, syntax.NullType, syntax.MethodType:
		return false

	case syntax.PointerType:
		switch from.Kind {
		case syntax.ReferenceType, syntax.ArrayType, syntax.DelegateType, syntax.GenericType:
			return true
		case syntax.PointerType:
			return from.Elem.Kind == syntax.VoidType || to.Elem.Kind == syntax.VoidType ||
				Compatible(from.Elem, to.Elem)
		}
		return false

	case syntax.DelegateType:
		switch from.Kind {
		case syntax.DelegateType:
			return from.Symbol == to.Symbol
		case syntax.MethodType:
			return MatchesMethod(to, from.Method)
		}
		return false

	case syntax.ArrayType:
		return from.Kind == syntax.ArrayType &&
			from.Rank == to.Rank &&
			elemEqual(from.Elem, to.Elem)

	case syntax.GenericType:
		return from.Kind == syntax.GenericType && from.Param == to.Param

	case syntax.ErrorType:
		if from.Kind != syntax.ErrorType {
			return false
		}
		if to.Domain == nil {
			return true
		}
		if from.Domain != to.Domain {
			return false
		}
		return to.Code == nil || from.Code == to.Code

	case syntax.ReferenceType:
		return from.Kind == syntax.ReferenceType && IsSubtypeOf(from.Symbol, to.Symbol)

	case syntax.ValueType:
		return valueCompatible(from, to)
	}
	return false
}

func valueCompatible(from, to *syntax.DataType) bool {
	if from.Kind != syntax.ValueType {
		return false
	}
	if from.Symbol == to.Symbol {
		return true
	}
	target, ok := to.Symbol.(*syntax.Struct)
	if !ok {
		return false
	}
	switch src := from.Symbol.(type) {
	case *syntax.Struct:
		for s := src.BaseStruct(); s != nil; s = s.BaseStruct() {
			if s == target {
				return true
			}
		}
		// implicit numeric widening
		switch {
		case src.IsIntegerType() && target.IsIntegerType():
			return rank(src) <= rank(target)
		case src.IsIntegerType() && target.IsFloatingType():
			return true
		case src.IsFloatingType() && target.IsFloatingType():
			return rank(src) <= rank(target)
		}
	case *syntax.Enum:
		return target.IsIntegerType()
	}
	return false
}

// rank returns the widening rank of a numeric struct, inherited from
// the nearest primitive base.
func rank(s *syntax.Struct) int {
	for t := s; t != nil; t = t.BaseStruct() {
		if t.IsInteger || t.IsFloating {
			return t.Rank
		}
	}
	return 0
}

// elemEqual compares array element types, ignoring ownership.
func elemEqual(a, b *syntax.DataType) bool {
	if a.Kind != b.Kind || a.Nullable != b.Nullable {
		return false
	}
	switch a.Kind {
	case syntax.ArrayType:
		return a.Rank == b.Rank && elemEqual(a.Elem, b.Elem)
	case syntax.PointerType:
		return elemEqual(a.Elem, b.Elem)
	case syntax.GenericType:
		return a.Param == b.Param
	case syntax.ErrorType:
		return a.Domain == b.Domain && a.Code == b.Code
	}
	return a.Symbol == b.Symbol && argsEqual(a.Args, b.Args)
}

// Equal reports whether a and b denote the same type: same kind,
// symbol or type parameter, nullability, disposability and type
// arguments.
func Equal(a, b *syntax.DataType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.IsDisposable() != b.IsDisposable() || a.Nullable != b.Nullable {
		return false
	}
	switch a.Kind {
	case syntax.ArrayType:
		return a.Rank == b.Rank && Equal(a.Elem, b.Elem)
	case syntax.PointerType:
		return Equal(a.Elem, b.Elem)
	case syntax.GenericType:
		return a.Param == b.Param
	case syntax.ErrorType:
		return a.Domain == b.Domain && a.Code == b.Code
	case syntax.MethodType:
		return a.Method == b.Method
	}
	return a.Symbol == b.Symbol && argsEqual(a.Args, b.Args)
}

func argsEqual(x, y []*syntax.DataType) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Equal(x[i], y[i]) {
			return false
		}
	}
	return true
}

// UnrelatedTypeParams reports whether a and b are both generic but
// refer to type parameters declared by different symbols. Comparing
// such types is meaningless.
func UnrelatedTypeParams(a, b *syntax.DataType) bool {
	if a == nil || b == nil || a.Kind != syntax.GenericType || b.Kind != syntax.GenericType {
		return false
	}
	return a.Param.ParentSymbol() != b.Param.ParentSymbol()
}

// Stricter reports whether a is at least as strict as b: it does not
// allow null where b does not, it agrees with b on disposability, and
// its class is b's class or a subclass of it.
func Stricter(a, b *syntax.DataType) bool {
	if a.IsDisposable() != b.IsDisposable() {
		return false
	}
	if !b.Nullable && a.Nullable {
		return false
	}
	if a.Kind == syntax.GenericType || b.Kind == syntax.GenericType {
		return a.Kind == b.Kind && a.Param == b.Param
	}
	if a.Kind == syntax.VoidType || b.Kind == syntax.VoidType {
		return a.Kind == b.Kind
	}
	if a.TypeSymbolOf() != b.TypeSymbolOf() {
		ac, ok1 := a.Symbol.(*syntax.Class)
		bc, ok2 := b.Symbol.(*syntax.Class)
		if !ok1 || !ok2 || !IsSubtypeOf(ac, bc) {
			return false
		}
	}
	return true
}

// MatchesMethod reports whether method m may be used as a value of
// the delegate type dt. The method may have a stricter return type
// and accept weaker parameters, and must not throw errors the
// delegate does not declare.
func MatchesMethod(dt *syntax.DataType, m *syntax.Method) bool {
	d, ok := dt.Symbol.(*syntax.Delegate)
	if !ok || m == nil {
		return false
	}
	if !Stricter(m.ReturnType, ActualType(d.ReturnType, dt, nil)) {
		return false
	}
	if len(m.Params) != len(d.Params) {
		return false
	}
	for i, p := range d.Params {
		mp := m.Params[i]
		if p.Ellipsis || mp.Ellipsis {
			if p.Ellipsis != mp.Ellipsis {
				return false
			}
			continue
		}
		if p.Direction != mp.Direction {
			return false
		}
		if !Stricter(ActualType(p.Type, dt, nil), mp.Type) {
			return false
		}
	}
	for _, e := range m.Throws {
		if !CompatibleWithAny(e, d.Throws) {
			return false
		}
	}
	return true
}

// CompatibleWithAny reports whether t is compatible with at least one
// of the given types.
func CompatibleWithAny(t *syntax.DataType, list []*syntax.DataType) bool {
	for _, u := range list {
		if Compatible(t, u) {
			return true
		}
	}
	return false
}

// IsBoolean reports whether t is the boolean type or a struct derived
// from it.
func IsBoolean(t *syntax.DataType) bool {
	s, ok := structOf(t)
	return ok && s.IsBooleanType()
}

// IsInteger reports whether t is an integer type.
func IsInteger(t *syntax.DataType) bool {
	s, ok := structOf(t)
	return ok && s.IsIntegerType()
}

// IsFloating reports whether t is a floating-point type.
func IsFloating(t *syntax.DataType) bool {
	s, ok := structOf(t)
	return ok && s.IsFloatingType()
}

// IsNumeric reports whether t is an integer or floating-point type.
func IsNumeric(t *syntax.DataType) bool { return IsInteger(t) || IsFloating(t) }

// IsEnum reports whether t is an enum type.
func IsEnum(t *syntax.DataType) bool {
	if t == nil || t.Kind != syntax.ValueType {
		return false
	}
	_, ok := t.Symbol.(*syntax.Enum)
	return ok
}

func structOf(t *syntax.DataType) (*syntax.Struct, bool) {
	if t == nil || t.Kind != syntax.ValueType {
		return nil, false
	}
	s, ok := t.Symbol.(*syntax.Struct)
	return s, ok
}

// Wider returns the operand type that an arithmetic expression over
// a and b yields: the floating type if either is floating, otherwise
// the integer type of higher rank. It returns nil if either type is
// not numeric.
func Wider(a, b *syntax.DataType) *syntax.DataType {
	sa, ok1 := structOf(a)
	sb, ok2 := structOf(b)
	if !ok1 || !ok2 || !IsNumeric(a) || !IsNumeric(b) {
		return nil
	}
	fa, fb := sa.IsFloatingType(), sb.IsFloatingType()
	switch {
	case fa && !fb:
		return a
	case fb && !fa:
		return b
	case rank(sb) > rank(sa):
		return b
	}
	return a
}
