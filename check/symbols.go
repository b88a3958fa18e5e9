// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

// This file defines the checks of type symbols and the whole-type
// conformance rules: interface and abstract obligations of classes,
// struct shape, enum and error domain population, and the slot
// ordering of interface virtuals.

import (
	"sort"
	"strings"

	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

func (c *checker) class(cl *syntax.Class) bool {
	if cl.Checked {
		return !cl.Error
	}
	cl.Checked = true
	c.push(cl)
	defer c.pop()

	c.classBaseTypes(cl)
	if !c.members(&cl.Members) {
		cl.Error = true
	}
	if cl.IsCompact && cl.BaseClass() != nil {
		for _, f := range cl.Fields {
			if f.Binding == syntax.InstanceBinding {
				c.errorf(f, "derived compact classes may not have instance fields")
				cl.Error = true
			}
		}
	}
	if !cl.External {
		c.prerequisitesMet(cl)
		c.interfaceObligations(cl)
		if !cl.IsAbstract {
			c.abstractObligations(cl)
		}
	}
	return !cl.Error
}

func (c *checker) classBaseTypes(cl *syntax.Class) {
	var base *syntax.DataType
	for _, bt := range cl.BaseTypes {
		if !c.dataType(bt, cl) {
			cl.Error = true
			continue
		}
		if !types.IsAccessible(cl, bt) {
			c.errorf(cl, "base type `%s' is less accessible than class `%s'", bt, syntax.FullName(cl))
		}
		switch sym := bt.Symbol.(type) {
		case *syntax.Class:
			if base != nil {
				c.errorf(cl, "Classes cannot have multiple base classes (`%s' and `%s')", base, bt)
				continue
			}
			base = bt
			if types.IsSubtypeOf(sym, cl) {
				c.errorf(cl, "Base class cycle (`%s' and `%s')", syntax.FullName(cl), syntax.FullName(sym))
				continue
			}
			if cl.IsCompact && !sym.IsCompact {
				c.errorf(cl, "Compact classes cannot derive from non-compact classes")
			}
		case *syntax.Interface:
			if cl.IsCompact {
				c.errorf(cl, "compact class `%s' may not implement interfaces", syntax.FullName(cl))
			}
		default:
			c.errorf(cl, "base type `%s' of class `%s' is not a class or interface", bt, syntax.FullName(cl))
		}
	}
}

// interfacesOf returns the interfaces implemented by a class through
// its own base type list, including the interfaces those require,
// transitively and without duplicates.
func interfacesOf(cl *syntax.Class) []*syntax.Interface {
	var list []*syntax.Interface
	seen := make(map[*syntax.Interface]bool)
	var visit func(bts []*syntax.DataType)
	visit = func(bts []*syntax.DataType) {
		for _, bt := range bts {
			if i, ok := bt.Symbol.(*syntax.Interface); ok && !seen[i] {
				seen[i] = true
				list = append(list, i)
				visit(i.Prerequisites)
			}
		}
	}
	visit(cl.BaseTypes)
	return list
}

// prerequisitesMet verifies that a class derives from every type that
// its interfaces require.
func (c *checker) prerequisitesMet(cl *syntax.Class) {
	for _, bt := range cl.BaseTypes {
		iface, ok := bt.Symbol.(*syntax.Interface)
		if !ok {
			continue
		}
		var missing []string
		for _, pre := range iface.Prerequisites {
			if sym := pre.TypeSymbolOf(); sym != nil && !types.IsSubtypeOf(cl, sym) {
				if _, isIface := sym.(*syntax.Interface); isIface {
					// interface prerequisites are implied
					continue
				}
				missing = append(missing, pre.String())
			}
		}
		if len(missing) > 0 {
			c.errorf(cl, "%s: some prerequisites (%s) are not met", syntax.FullName(cl), strings.Join(missing, ", "))
		}
	}
}

// interfaceObligations verifies that a class implements every
// abstract method and property of its interfaces, unless a base class
// already implements the interface. Abstract classes are not exempt,
// so a concrete class need only look at its own interface list.
func (c *checker) interfaceObligations(cl *syntax.Class) {
	base := cl.BaseClass()
	for _, iface := range interfacesOf(cl) {
		if base != nil && types.IsSubtypeOf(base, iface) {
			continue
		}
		for _, m := range iface.Methods {
			if m.IsAbstract && !c.implementsMethod(cl, iface, m) {
				c.errorf(cl, "`%s' does not implement interface method `%s'", syntax.FullName(cl), syntax.FullName(m))
			}
		}
		for _, p := range iface.Properties {
			if !p.IsAbstract {
				continue
			}
			impl := inheritedProperty(cl, p.Name)
			if impl == nil {
				c.errorf(cl, "`%s' does not implement interface property `%s'", syntax.FullName(cl), syntax.FullName(p))
				continue
			}
			if reason, ok := c.propertyCompatible(impl, p); !impl.Hides && !ok {
				c.errorf(cl, "Type and/or accessors of inherited properties `%s' and `%s' do not match: %s.",
					syntax.FullName(p), syntax.FullName(impl), reason)
			}
		}
	}
}

// implementsMethod reports whether cl or one of its base classes has
// a method whose base interface method is m. A base class that does
// not itself list iface may also supply a compatible method of the
// same name.
func (c *checker) implementsMethod(cl *syntax.Class, iface *syntax.Interface, m *syntax.Method) bool {
	for k, depth := cl, 0; k != nil && depth <= maxClassDepth; k, depth = k.BaseClass(), depth+1 {
		for _, impl := range k.Methods {
			c.findBaseMethods(impl)
			if impl.BaseInterfaceMethod == m {
				return true
			}
			if k == cl || len(iface.TypeParams) > 0 || impl.BaseInterfaceMethod != nil || impl.Name != m.Name {
				continue
			}
			if impl.ExplicitInterface != nil && impl.ExplicitInterface.Symbol != iface {
				continue
			}
			if _, ok := c.methodCompatible(impl, m); ok {
				return true
			}
		}
	}
	return false
}

// maxClassDepth bounds walks up base-class chains, which may be cyclic
// in erroneous input.
const maxClassDepth = 64

// inheritedProperty returns the property named name declared in cl or
// the nearest base class, or nil.
func inheritedProperty(cl *syntax.Class, name string) *syntax.Property {
	for k, depth := cl, 0; k != nil && depth <= maxClassDepth; k, depth = k.BaseClass(), depth+1 {
		if p, ok := k.Scope().LookupLocal(name).(*syntax.Property); ok {
			return p
		}
	}
	return nil
}

// abstractObligations verifies that a non-abstract class overrides
// every abstract method and property of its abstract base classes.
func (c *checker) abstractObligations(cl *syntax.Class) {
	for k, depth := cl.BaseClass(), 0; k != nil && k.IsAbstract && depth <= maxClassDepth; k, depth = k.BaseClass(), depth+1 {
		for _, m := range k.Methods {
			if !m.IsAbstract {
				continue
			}
			impl, _ := types.LookupSymbolMember(cl, m.Name).(*syntax.Method)
			if impl == nil || !impl.Overrides {
				c.errorf(cl, "`%s' does not implement abstract method `%s'", syntax.FullName(cl), syntax.FullName(m))
			}
		}
		for _, p := range k.Properties {
			if !p.IsAbstract {
				continue
			}
			impl, _ := types.LookupSymbolMember(cl, p.Name).(*syntax.Property)
			if impl == nil || !impl.Overrides {
				c.errorf(cl, "`%s' does not implement abstract property `%s'", syntax.FullName(cl), syntax.FullName(p))
			}
		}
	}
}

func (c *checker) iface(i *syntax.Interface) bool {
	if i.Checked {
		return !i.Error
	}
	i.Checked = true
	c.push(i)
	defer c.pop()

	for _, pre := range i.Prerequisites {
		if !c.dataType(pre, i) {
			i.Error = true
			continue
		}
		if !types.IsAccessible(i, pre) {
			c.errorf(i, "prerequisite `%s' is less accessible than interface `%s'", pre, syntax.FullName(i))
		}
	}
	for _, f := range i.Fields {
		if f.Binding == syntax.InstanceBinding {
			c.errorf(f, "Interfaces may not have instance fields")
			i.Error = true
		}
	}
	if !c.members(&i.Members) {
		i.Error = true
	}
	c.orderVirtuals(i)
	return !i.Error
}

// virtuals returns the abstract and virtual members of i in
// declaration order.
func virtuals(i *syntax.Interface) []syntax.Symbol {
	var list []syntax.Symbol
	for _, m := range i.Methods {
		if m.IsAbstract || m.IsVirtual {
			list = append(list, m)
		}
	}
	for _, p := range i.Properties {
		if p.IsAbstract || p.IsVirtual {
			list = append(list, p)
		}
	}
	for _, s := range i.Signals {
		if s.IsVirtual {
			list = append(list, s)
		}
	}
	sort.SliceStable(list, func(x, y int) bool {
		return list[x].Span().Before(list[y].Span())
	})
	return list
}

// orderVirtuals computes the slot order of i's virtual members.
// Members may carry an explicit CCode ordering; either all or none
// do, and explicit orderings must be distinct and contiguous from 0.
func (c *checker) orderVirtuals(i *syntax.Interface) {
	list := virtuals(i)
	positions := make(map[int]syntax.Symbol)
	orderedSeen, unorderedSeen := false, false
	ok := true
	for _, sym := range list {
		ordering := sym.Base().Attrs.Int("CCode", "ordering", -1)
		if ordering < -1 {
			c.errorf(sym, "%s: Invalid ordering", syntax.FullName(sym))
			ok = false
			continue
		}
		ordered := ordering != -1
		if ordered && unorderedSeen && !orderedSeen || !ordered && orderedSeen && !unorderedSeen {
			c.errorf(sym, "%s: Cannot mix ordered and unordered virtuals", syntax.FullName(sym))
			ok = false
		}
		orderedSeen = orderedSeen || ordered
		unorderedSeen = unorderedSeen || !ordered
		if ordered {
			if other, dup := positions[ordering]; dup {
				c.errorf(sym, "%s: Duplicate ordering (other virtual: %s)", syntax.FullName(sym), syntax.FullName(other))
				ok = false
				continue
			}
			positions[ordering] = sym
		}
	}
	if !ok {
		i.Error = true
		return
	}
	if !orderedSeen {
		i.Virtuals = list
		return
	}
	slots := make([]syntax.Symbol, len(list))
	for n := range slots {
		sym, present := positions[n]
		if !present {
			c.errorf(i, "%s: Gap in ordering", syntax.FullName(i))
			return
		}
		slots[n] = sym
	}
	i.Virtuals = slots
}

func (c *checker) strct(s *syntax.Struct) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true
	c.push(s)
	defer c.pop()

	if bt := s.BaseType; bt != nil {
		if !c.dataType(bt, s) {
			s.Error = true
		} else if bt.Kind != syntax.ValueType {
			c.errorf(s, "The base type `%s' of struct `%s' is not a struct", bt, syntax.FullName(s))
		} else if !types.IsAccessible(s, bt) {
			c.errorf(s, "base type `%s' is less accessible than struct `%s'", bt, syntax.FullName(s))
		}
	}
	hasInstanceField := false
	for _, f := range s.Fields {
		if f.Binding != syntax.InstanceBinding {
			continue
		}
		hasInstanceField = true
		if s.BaseType != nil {
			c.errorf(f, "derived structs may not have instance fields")
			s.Error = true
		}
	}
	if !c.members(&s.Members) {
		s.Error = true
	}
	if !s.External && s.BaseType == nil && !hasInstanceField && !s.IsSimpleType() {
		c.errorf(s, "struct `%s' cannot be empty", syntax.FullName(s))
	}
	return !s.Error
}

func (c *checker) enum(e *syntax.Enum) bool {
	if e.Checked {
		return !e.Error
	}
	e.Checked = true
	c.push(e)
	defer c.pop()

	if len(e.Values) == 0 && !e.External {
		c.errorf(e, "Enum `%s' requires at least one value", syntax.FullName(e))
	}
	for _, v := range e.Values {
		if !c.enumValue(v) {
			e.Error = true
		}
	}
	for _, k := range e.Constants {
		if !c.constant(k) {
			e.Error = true
		}
	}
	for _, m := range e.Methods {
		if !c.method(m) {
			e.Error = true
		}
	}
	return !e.Error
}

func (c *checker) enumValue(v *syntax.EnumValue) bool {
	if v.Checked {
		return !v.Error
	}
	v.Checked = true
	if v.Value == nil {
		return true
	}
	if !c.expr(v.Value) {
		v.Error = true
		return false
	}
	if !types.IsInteger(v.Value.ValueType()) || !isConstant(v.Value) {
		c.errorf(v.Value, "Value must be constant")
		v.Error = true
	}
	return !v.Error
}

func (c *checker) errorDomain(d *syntax.ErrorDomain) bool {
	if d.Checked {
		return !d.Error
	}
	d.Checked = true
	c.push(d)
	defer c.pop()

	if len(d.Codes) == 0 && !d.External {
		c.errorf(d, "Error domain `%s' requires at least one code", syntax.FullName(d))
	}
	for _, code := range d.Codes {
		if !c.errorCode(code) {
			d.Error = true
		}
	}
	for _, m := range d.Methods {
		if !c.method(m) {
			d.Error = true
		}
	}
	return !d.Error
}

func (c *checker) errorCode(code *syntax.ErrorCode) bool {
	if code.Checked {
		return !code.Error
	}
	code.Checked = true
	if code.Value != nil && c.expr(code.Value) && !types.IsInteger(code.Value.ValueType()) {
		c.errorf(code.Value, "Value must be constant")
		code.Error = true
	}
	return !code.Error
}

func (c *checker) delegate(d *syntax.Delegate) bool {
	if d.Checked {
		return !d.Error
	}
	d.Checked = true
	c.push(d)
	defer c.pop()

	if !c.dataType(d.ReturnType, d) {
		d.Error = true
	} else if !types.IsAccessible(d, d.ReturnType) {
		c.errorf(d, "return type `%s' is less accessible than delegate `%s'", d.ReturnType, syntax.FullName(d))
	}
	for _, p := range d.Params {
		if !c.param(p) {
			d.Error = true
		}
	}
	for _, e := range d.Throws {
		if e.Kind != syntax.ErrorType {
			c.errorf(d, "Error expected")
		}
	}
	return !d.Error
}
