// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"strings"

	"go.rcsema.net/syntax"
)

// A typeRef is a type name awaiting resolution. The placeholder t
// already carries the type arguments and modifiers written with the
// name; resolution fills in the rest in place.
type typeRef struct {
	t    *syntax.DataType
	name string // dotted
	at   syntax.Symbol
	pos  syntax.Position

	// creation is set for the type of "new T.name(...)", whose last
	// name component may select a creation method instead of a type.
	creation *syntax.ObjectCreation
}

// link resolves every recorded type name, then runs the fixups that
// depend on resolved types.
func (l *loader) link() {
	for _, ref := range l.refs {
		l.resolve(ref)
	}
	for _, f := range l.fixups {
		f()
	}
	l.refs, l.fixups = nil, nil
}

func (l *loader) resolve(ref *typeRef) {
	parts := strings.Split(ref.name, ".")
	sym := l.lookup(parts, ref.at)
	if ref.creation != nil && len(parts) > 1 && !isType(sym) {
		if prefix := l.lookup(parts[:len(parts)-1], ref.at); isType(prefix) {
			sym = prefix
			ref.creation.Name = parts[len(parts)-1]
		}
	}

	switch sym := sym.(type) {
	case nil:
		if ref.name == "Error" || ref.name == "GLib.Error" {
			fill(ref.t, l.ctx.ErrorType())
			return
		}
		l.errorf(ref.pos, "unknown type `%s'", ref.name)
	case *syntax.TypeParameter:
		if len(ref.t.Args) > 0 {
			l.errorf(ref.pos, "type parameter `%s' does not take type arguments", ref.name)
		}
		fill(ref.t, syntax.NewGenericType(sym))
	case *syntax.ErrorCode:
		domain, _ := sym.ParentSymbol().(*syntax.ErrorDomain)
		fill(ref.t, syntax.NewErrorType(domain, sym))
	case syntax.TypeSymbol:
		fill(ref.t, syntax.NewObjectType(sym))
	default:
		l.errorf(ref.pos, "`%s' is not a type", ref.name)
	}
}

// lookup resolves a dotted name. The first component is searched in
// the scopes enclosing at, then in GLib; the rest are members of the
// preceding component.
func (l *loader) lookup(parts []string, at syntax.Symbol) syntax.Symbol {
	var sym syntax.Symbol
	for sc := syntax.EnclosingScope(at); sc != nil && sym == nil; sc = sc.Parent() {
		if s := sc.LookupLocal(parts[0]); isTypeOrNamespace(s) {
			sym = s
		}
	}
	if sym == nil {
		if s := l.ctx.GLib.Scope().LookupLocal(parts[0]); isTypeOrNamespace(s) {
			sym = s
		}
	}
	for _, part := range parts[1:] {
		if sym == nil {
			return nil
		}
		sc := sym.Sym().Scope()
		if sc == nil {
			return nil
		}
		sym = sc.LookupLocal(part)
	}
	return sym
}

func isType(sym syntax.Symbol) bool {
	switch sym.(type) {
	case syntax.TypeSymbol, *syntax.TypeParameter, *syntax.ErrorCode:
		return true
	}
	return false
}

func isTypeOrNamespace(sym syntax.Symbol) bool {
	_, ns := sym.(*syntax.Namespace)
	return ns || isType(sym)
}

// fill completes the placeholder t with the resolved type r, keeping
// the arguments and modifiers written at the reference.
func fill(t, r *syntax.DataType) {
	args, nullable, owned, dynamic, pos := t.Args, t.Nullable, t.ValueOwned, t.Dynamic, t.Pos
	*t = *r
	t.Args = args
	t.Nullable = t.Nullable || nullable
	t.ValueOwned = owned
	t.Dynamic = dynamic
	t.Pos = pos
}
