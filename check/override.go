// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

// This file resolves overriding: for each method and property it
// finds the base class member and the interface member it overrides
// or implements, and decides whether the signatures are compatible.
// Results are memoized on the member.

import (
	"fmt"

	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

// findBaseMethods computes m.BaseMethod and m.BaseInterfaceMethod.
// A virtual or abstract method is its own base method.
func (c *checker) findBaseMethods(m *syntax.Method) {
	if m.BaseMethodsValid {
		return
	}
	m.BaseMethodsValid = true
	switch parent := m.ParentSymbol().(type) {
	case *syntax.Class:
		c.findBaseInterfaceMethod(m, parent)
		if m.IsVirtual || m.IsAbstract || m.Overrides {
			c.findBaseClassMethod(m, parent)
		}
	case *syntax.Interface:
		if m.IsVirtual || m.IsAbstract {
			m.BaseInterfaceMethod = m
		}
	}
}

func (c *checker) findBaseClassMethod(m *syntax.Method, cl *syntax.Class) {
	for k, depth := cl, 0; k != nil && depth <= maxClassDepth; k, depth = k.BaseClass(), depth+1 {
		base := c.overridable(k.Scope().LookupLocal(m.Name))
		if base == nil || !(base.IsAbstract || base.IsVirtual) {
			continue
		}
		if reason, ok := c.methodCompatible(m, base); !ok {
			c.errorf(m, "overriding method `%s' is incompatible with base method `%s': %s.",
				syntax.FullName(m), prototype(base), reason)
			return
		}
		m.BaseMethod = base
		return
	}
}

func (c *checker) findBaseInterfaceMethod(m *syntax.Method, cl *syntax.Class) {
	explicit := m.ExplicitInterface
	for _, iface := range interfacesOf(cl) {
		if explicit != nil && explicit.Symbol != iface {
			continue
		}
		base := c.overridable(iface.Scope().LookupLocal(m.Name))
		if base == nil || !(base.IsAbstract || base.IsVirtual) {
			continue
		}
		if explicit == nil && c.hasExplicitImplementation(cl, base) {
			continue
		}
		if reason, ok := c.methodCompatible(m, base); !ok {
			c.errorf(m, "overriding method `%s' is incompatible with base method `%s': %s.",
				syntax.FullName(m), prototype(base), reason)
			return
		}
		m.BaseInterfaceMethod = base
		return
	}
	if explicit != nil {
		c.errorf(m, "`%s': no suitable interface method found to implement", syntax.FullName(m))
	}
}

// hasExplicitImplementation reports whether cl implements base with a
// method naming its interface explicitly.
func (c *checker) hasExplicitImplementation(cl *syntax.Class, base *syntax.Method) bool {
	for _, other := range cl.Methods {
		if other.ExplicitInterface == nil {
			continue
		}
		c.findBaseMethods(other)
		if other.BaseInterfaceMethod == base {
			return true
		}
	}
	return false
}

// overridable returns the method that a member lookup result offers
// for overriding: the method itself, or a signal's default handler.
func (c *checker) overridable(sym syntax.Symbol) *syntax.Method {
	switch sym := sym.(type) {
	case *syntax.Method:
		return sym
	case *syntax.Signal:
		return c.defaultHandler(sym)
	}
	return nil
}

// methodCompatible reports whether m may override base, and if not,
// why. The base signature is first specialized to m's declaring type
// and to m's own type parameters.
func (c *checker) methodCompatible(m, base *syntax.Method) (string, bool) {
	if m == base {
		return "", true
	}
	if m.Binding != base.Binding {
		return "incompatible binding", false
	}
	if len(m.TypeParams) < len(base.TypeParams) {
		return "too few type parameters", false
	} else if len(m.TypeParams) > len(base.TypeParams) {
		return "too many type parameters", false
	}

	var instance *syntax.DataType
	if t, ok := m.ParentSymbol().(syntax.TypeSymbol); ok {
		instance = thisType(t)
	}
	var methodArgs []*syntax.DataType
	for _, p := range m.TypeParams {
		a := syntax.NewGenericType(p)
		a.ValueOwned = true
		methodArgs = append(methodArgs, a)
	}

	actual := types.ActualType(base.ReturnType, instance, methodArgs)
	c.sameScopeParams(m, actual, m.ReturnType)
	if !types.Equal(m.ReturnType, actual) {
		return fmt.Sprintf("Base method expected return type `%s', but `%s' was provided", actual, m.ReturnType), false
	}

	for i, bp := range base.Params {
		if i >= len(m.Params) {
			return "too few parameters", false
		}
		p := m.Params[i]
		if bp.Ellipsis != p.Ellipsis {
			return "ellipsis parameter mismatch", false
		}
		if bp.ParamsArray != p.ParamsArray {
			return "params array parameter mismatch", false
		}
		if bp.Ellipsis {
			continue
		}
		if bp.Direction != p.Direction {
			return fmt.Sprintf("incompatible direction of parameter %d", i+1), false
		}
		actual := types.ActualType(bp.Type, instance, methodArgs)
		c.sameScopeParams(m, actual, p.Type)
		if !types.Equal(actual, p.Type) {
			return fmt.Sprintf("incompatible type of parameter %d", i+1), false
		}
	}
	if len(m.Params) > len(base.Params) {
		return "too many parameters", false
	}

	// An overriding method may throw fewer errors, never more.
	for _, e := range m.Throws {
		if !types.CompatibleWithAny(e, base.Throws) {
			return fmt.Sprintf("incompatible error type `%s'", e), false
		}
	}
	if m.IsAsync != base.IsAsync {
		return "async mismatch", false
	}
	return "", true
}

// sameScopeParams reports an internal error if two types to be
// compared refer to type parameters of unrelated declarations.
func (c *checker) sameScopeParams(at syntax.Node, a, b *syntax.DataType) {
	if types.UnrelatedTypeParams(a, b) {
		c.internalf(at, "type parameter `%s' compared with unrelated type parameter `%s'", a, b)
	}
}

// prototype returns a readable signature of m.
func prototype(m *syntax.Method) string {
	s := fmt.Sprintf("%s %s (", m.ReturnType, syntax.FullName(m))
	for i, p := range m.Params {
		if i > 0 {
			s += ", "
		}
		if p.Ellipsis {
			s += "..."
			continue
		}
		if p.Direction != syntax.In {
			s += p.Direction.String() + " "
		}
		s += p.Type.String()
	}
	return s + ")"
}

// defaultHandler returns the default handler of a virtual signal,
// creating it on first use. The handler is a hidden virtual method of
// the signal's type that shares the signal's signature and body.
func (c *checker) defaultHandler(sig *syntax.Signal) *syntax.Method {
	if !sig.IsVirtual {
		return nil
	}
	if sig.DefaultHandler != nil {
		return sig.DefaultHandler
	}
	h := syntax.NewMethod(sig.Name, sig.ReturnType.Copy(), sig.Pos, sig.Access)
	h.IsVirtual = true
	h.External = sig.External
	h.Hides = sig.Hides
	h.Signal = sig
	for _, p := range sig.Params {
		q := syntax.NewParameter(p.Name, p.Type.Copy(), p.Pos)
		q.Direction = p.Direction
		q.Ellipsis = p.Ellipsis
		h.AddParam(q)
	}
	if sig.Body != nil {
		body := sig.Body
		sig.Body = nil
		h.SetBody(body)
	}
	if parent := sig.ParentSymbol(); parent != nil {
		// hidden: the signal keeps the name
		parent.Sym().Scope().Add("", h)
		h.SetParent(parent)
	}
	sig.DefaultHandler = h
	return h
}

// findBaseProperties computes p.BaseProperty and
// p.BaseInterfaceProperty.
func (c *checker) findBaseProperties(p *syntax.Property) {
	if p.BasePropertiesValid {
		return
	}
	p.BasePropertiesValid = true
	switch parent := p.ParentSymbol().(type) {
	case *syntax.Class:
		c.findBaseInterfaceProperty(p, parent)
		if p.IsVirtual || p.Overrides {
			c.findBaseClassProperty(p, parent)
		}
	case *syntax.Interface:
		if p.IsVirtual || p.IsAbstract {
			p.BaseInterfaceProperty = p
		}
	}
}

func (c *checker) findBaseClassProperty(p *syntax.Property, cl *syntax.Class) {
	for k, depth := cl, 0; k != nil && depth <= maxClassDepth; k, depth = k.BaseClass(), depth+1 {
		base, ok := k.Scope().LookupLocal(p.Name).(*syntax.Property)
		if !ok || !(base.IsAbstract || base.IsVirtual) {
			continue
		}
		if reason, ok := c.propertyCompatible(p, base); !ok {
			c.errorf(p, "Type and/or accessors of overriding property `%s' do not match overridden property `%s': %s.",
				syntax.FullName(p), syntax.FullName(base), reason)
			return
		}
		p.BaseProperty = base
		return
	}
}

func (c *checker) findBaseInterfaceProperty(p *syntax.Property, cl *syntax.Class) {
	explicit := p.ExplicitInterface
	for _, iface := range interfacesOf(cl) {
		if explicit != nil && explicit.Symbol != iface {
			continue
		}
		base, ok := iface.Scope().LookupLocal(p.Name).(*syntax.Property)
		if !ok || !(base.IsAbstract || base.IsVirtual) {
			continue
		}
		if reason, ok := c.propertyCompatible(p, base); !ok {
			c.errorf(p, "Type and/or accessors of overriding property `%s' do not match overridden interface property `%s': %s.",
				syntax.FullName(p), syntax.FullName(base), reason)
			return
		}
		p.BaseInterfaceProperty = base
		return
	}
	if explicit != nil {
		c.errorf(p, "`%s': no suitable interface property found to implement", syntax.FullName(p))
	}
}

// propertyCompatible reports whether p may override base: both must
// have the same accessors, with equal value types once base is
// specialized to p's declaring type, and setters must agree on
// writability and construction.
func (c *checker) propertyCompatible(p, base *syntax.Property) (string, bool) {
	if p == base {
		return "", true
	}
	if (p.Getter == nil) != (base.Getter == nil) {
		return "incompatible get accessor", false
	}
	if (p.Setter == nil) != (base.Setter == nil) {
		return "incompatible set accessor", false
	}
	var instance *syntax.DataType
	if t, ok := p.ParentSymbol().(syntax.TypeSymbol); ok {
		instance = thisType(t)
	}
	if p.Getter != nil {
		actual := types.ActualType(base.Getter.ValueType, instance, nil)
		if !types.Equal(actual, p.Getter.ValueType) {
			return "incompatible get accessor type", false
		}
	}
	if p.Setter != nil {
		actual := types.ActualType(base.Setter.ValueType, instance, nil)
		if !types.Equal(actual, p.Setter.ValueType) {
			return "incompatible set accessor type", false
		}
		if p.Setter.Writable != base.Setter.Writable || p.Setter.Construction != base.Setter.Construction {
			return "incompatible set accessor", false
		}
	}
	return "", true
}

// hiddenMember returns the non-private member of a base class or base
// struct that sym hides by name, or nil.
func hiddenMember(sym syntax.Symbol) syntax.Symbol {
	name := sym.Sym().Name
	if name == "" {
		return nil
	}
	switch parent := sym.Sym().ParentSymbol().(type) {
	case *syntax.Class:
		for k, depth := parent.BaseClass(), 0; k != nil && depth <= maxClassDepth; k, depth = k.BaseClass(), depth+1 {
			if m := k.Scope().LookupLocal(name); m != nil && m.Sym().Access != syntax.Private {
				return m
			}
		}
	case *syntax.Struct:
		for s, depth := parent.BaseStruct(), 0; s != nil && depth <= maxClassDepth; s, depth = s.BaseStruct(), depth+1 {
			if m := s.Scope().LookupLocal(name); m != nil && m.Sym().Access != syntax.Private {
				return m
			}
		}
	}
	return nil
}

// warnHidden warns if sym silently hides an inherited member.
func (c *checker) warnHidden(sym syntax.Symbol, kind string) {
	if sym.Sym().Hides || sym.Sym().External {
		return
	}
	if h := hiddenMember(sym); h != nil {
		c.warnf(sym.Span(), "%s hides inherited %s `%s'. Use the `new' keyword if hiding was intentional",
			syntax.FullName(sym), kind, syntax.FullName(h))
	}
}
