// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A Scope maps names to the symbols declared in one symbol or block.
//
// Symbol scopes have a fixed parent, the scope in which the symbol
// itself is declared. Block scopes derive their parent from the
// block's current position in the tree, so that a block moved by a
// rewrite resolves names through its new ancestors.
type Scope struct {
	owner   Symbol // weak; nil for block scopes
	block   *Block // weak; nil for symbol scopes
	parent  *Scope // weak; symbol scopes only
	symbols map[string]Symbol
	anon    []Symbol
}

// NewScope returns an empty scope opened by owner.
func NewScope(owner Symbol) *Scope {
	return &Scope{owner: owner, symbols: make(map[string]Symbol)}
}

func newBlockScope(b *Block) *Scope {
	return &Scope{block: b, symbols: make(map[string]Symbol)}
}

// Add declares sym under name. An empty name adds an anonymous
// symbol that cannot be looked up. A duplicate name replaces the
// previous entry.
func (s *Scope) Add(name string, sym Symbol) {
	b := sym.Sym()
	b.owner = s
	if b.scope != nil {
		b.scope.parent = s
	}
	if s.owner != nil && b.parent == nil {
		b.parent = s.owner
	}
	if name == "" {
		s.anon = append(s.anon, sym)
		return
	}
	s.symbols[name] = sym
}

// Remove deletes the named entry, if any.
func (s *Scope) Remove(name string) { delete(s.symbols, name) }

// LookupLocal returns the symbol declared under name in s itself.
func (s *Scope) LookupLocal(name string) Symbol { return s.symbols[name] }

// Lookup returns the symbol declared under name in s or the nearest
// enclosing scope, or nil.
func (s *Scope) Lookup(name string) Symbol {
	for sc := s; sc != nil; sc = sc.Parent() {
		if sym, ok := sc.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// Len returns the number of named entries.
func (s *Scope) Len() int { return len(s.symbols) }

// Each calls f for each named entry in unspecified order.
func (s *Scope) Each(f func(name string, sym Symbol)) {
	for name, sym := range s.symbols {
		f(name, sym)
	}
}

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope {
	if s.block != nil {
		return EnclosingScope(s.block.parent)
	}
	return s.parent
}

// Owner returns the symbol that opened the scope. For a block scope
// it is the nearest enclosing symbol.
func (s *Scope) Owner() Symbol {
	if s.owner != nil {
		return s.owner
	}
	if s.block != nil {
		return EnclosingSymbol(s.block)
	}
	return nil
}

// IsSubscopeOf reports whether s is other or nested within it.
// The nil scope encloses every scope.
func (s *Scope) IsSubscopeOf(other *Scope) bool {
	if other == nil {
		return true
	}
	for sc := s; sc != nil; sc = sc.Parent() {
		if sc == other {
			return true
		}
	}
	return false
}

// EnclosingScope returns the innermost scope opened by n or one of
// its ancestors.
func EnclosingScope(n Node) *Scope {
	for n != nil {
		switch n := n.(type) {
		case *Block:
			return n.scope
		case Symbol:
			if sc := n.Sym().scope; sc != nil {
				return sc
			}
		}
		n = n.Base().parent
	}
	return nil
}

// EnclosingSymbol returns the innermost symbol that contains n,
// excluding n itself.
func EnclosingSymbol(n Node) Symbol {
	if n == nil {
		return nil
	}
	for p := n.Base().parent; p != nil; p = p.Base().parent {
		if sym, ok := p.(Symbol); ok {
			return sym
		}
	}
	return nil
}

// TopAccessibleScope returns the outermost scope from which sym can
// be referenced, or nil if it is visible everywhere.
func TopAccessibleScope(sym Symbol) *Scope { return topAccessibleScope(sym, false) }

func topAccessibleScope(sym Symbol, internal bool) *Scope {
	b := sym.Sym()
	switch b.Access {
	case Private:
		return b.owner
	case Internal:
		internal = true
	}
	parent := b.ParentSymbol()
	if parent == nil {
		if internal {
			// visible within the compilation unit only
			return b.scope
		}
		return nil
	}
	return topAccessibleScope(parent, internal)
}
