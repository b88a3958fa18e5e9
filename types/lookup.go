// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "go.rcsema.net/syntax"

// IsSubtypeOf reports whether sym is target or derives from it
// through base classes, implemented interfaces, interface
// prerequisites or base structs.
func IsSubtypeOf(sym, target syntax.TypeSymbol) bool {
	return isSubtypeOf(sym, target, 0)
}

func isSubtypeOf(sym, target syntax.TypeSymbol, depth int) bool {
	if sym == nil || target == nil || depth > maxDepth {
		return false
	}
	if sym == target {
		return true
	}
	for _, bt := range BaseTypes(sym) {
		if base := bt.TypeSymbolOf(); base != nil && isSubtypeOf(base, target, depth+1) {
			return true
		}
	}
	return false
}

// LookupMember returns the member of type t with the given name,
// searching base types in declaration order, or nil.
func LookupMember(t *syntax.DataType, name string) syntax.Symbol {
	sym := t.TypeSymbolOf()
	if sym == nil {
		return nil
	}
	return LookupSymbolMember(sym, name)
}

// LookupSymbolMember returns the member of sym or one of its base
// types with the given name, or nil.
func LookupSymbolMember(sym syntax.TypeSymbol, name string) syntax.Symbol {
	return lookupMember(sym, name, 0)
}

func lookupMember(sym syntax.TypeSymbol, name string, depth int) syntax.Symbol {
	if depth > maxDepth {
		return nil
	}
	if sc := sym.Sym().Scope(); sc != nil {
		if m := sc.LookupLocal(name); m != nil {
			return m
		}
	}
	for _, bt := range BaseTypes(sym) {
		if base := bt.TypeSymbolOf(); base != nil {
			if m := lookupMember(base, name, depth+1); m != nil {
				return m
			}
		}
	}
	return nil
}

// IsAccessible reports whether every type symbol mentioned by t,
// including its type arguments and element types, is visible
// everywhere member is visible.
func IsAccessible(member syntax.Symbol, t *syntax.DataType) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case syntax.ArrayType, syntax.PointerType:
		return IsAccessible(member, t.Elem)
	}
	for _, a := range t.Args {
		if !IsAccessible(member, a) {
			return false
		}
	}
	sym := t.TypeSymbolOf()
	if sym == nil {
		return true
	}
	return SymbolAccessible(sym, member)
}

// SymbolAccessible reports whether sym may be referenced from
// everywhere member is visible.
func SymbolAccessible(sym, member syntax.Symbol) bool {
	symTop := syntax.TopAccessibleScope(sym)
	memberTop := syntax.TopAccessibleScope(member)
	if memberTop == nil {
		return symTop == nil
	}
	return memberTop.IsSubscopeOf(symTop)
}
