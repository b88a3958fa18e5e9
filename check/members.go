// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

func (c *checker) method(m *syntax.Method) bool {
	if m.Checked {
		return !m.Error
	}
	m.Checked = true
	c.push(m)
	defer c.pop()

	parent := m.ParentSymbol()
	c.methodPlacement(m, parent)
	for _, p := range m.TypeParams {
		c.symbol(p)
	}
	if !c.dataType(m.ReturnType, m) {
		m.Error = true
	} else if !types.IsAccessible(m, m.ReturnType) {
		c.errorf(m, "return type `%s' is less accessible than method `%s'", m.ReturnType, syntax.FullName(m))
	}
	for _, p := range m.Params {
		if !c.param(p) {
			m.Error = true
		}
	}
	c.declaredErrors(m, m.Throws)

	switch {
	case m.IsAbstract && m.Body != nil:
		c.errorf(m, "Abstract methods cannot have bodies")
	case !m.IsAbstract && !m.External && m.Body == nil && m.Signal == nil:
		c.errorf(m, "Non-abstract, non-extern methods must have bodies")
	}
	if m.Body != nil && !m.External {
		if !c.block(m.Body) {
			m.Error = true
		} else {
			c.unhandled(m.Body, m.Throws)
		}
	}

	c.findBaseMethods(m)
	switch {
	case m.Error:
	case m.Overrides && m.BaseMethod == nil && m.BaseInterfaceMethod != nil && m.BaseInterfaceMethod.IsAbstract:
		c.warnf(m.Pos, "`override' not required to implement `abstract' interface method `%s'",
			syntax.FullName(m.BaseInterfaceMethod))
		m.Overrides = false
	case m.Overrides && m.BaseMethod == nil && m.BaseInterfaceMethod == nil:
		c.errorf(m, "`%s': no suitable method found to override", syntax.FullName(m))
	}
	if m.ExplicitInterface != nil && m.BaseInterfaceMethod != nil {
		c.duplicateImplementation(m, parent)
	}
	if !m.Overrides && m.Signal == nil && m.ExplicitInterface == nil {
		c.warnHidden(m, "method")
	}
	c.entryPoint(m, parent)
	return !m.Error
}

// methodPlacement enforces where abstract, virtual and overriding
// methods may be declared.
func (c *checker) methodPlacement(m *syntax.Method, parent syntax.Symbol) {
	if _, ok := parent.(*syntax.Struct); ok {
		if m.IsAbstract || m.IsVirtual || m.Overrides {
			c.errorf(m, "A struct member `%s' cannot be marked as override, virtual, or abstract", syntax.FullName(m))
		}
		return
	}
	switch {
	case m.IsAbstract:
		switch p := parent.(type) {
		case *syntax.Class:
			if !p.IsAbstract {
				c.errorf(m, "Abstract methods may not be declared in non-abstract classes")
			}
		case *syntax.Interface:
		default:
			c.errorf(m, "Abstract methods may not be declared outside of classes and interfaces")
		}
	case m.IsVirtual:
		switch p := parent.(type) {
		case *syntax.Class:
			if p.IsCompact {
				c.errorf(m, "Virtual methods may not be declared in compact classes")
			}
		case *syntax.Interface:
		default:
			c.errorf(m, "Virtual methods may not be declared outside of classes and interfaces")
		}
	case m.Overrides:
		if _, ok := parent.(*syntax.Class); !ok {
			c.errorf(m, "Methods may not be overridden outside of classes")
		}
	}
	if (m.IsAbstract || m.IsVirtual || m.Overrides) && m.Binding != syntax.InstanceBinding {
		c.errorf(m, "Only instance methods can be abstract, virtual, or override")
	}
}

// duplicateImplementation reports a second method of the class
// claiming the same interface method.
func (c *checker) duplicateImplementation(m *syntax.Method, parent syntax.Symbol) {
	cl, ok := parent.(*syntax.Class)
	if !ok {
		return
	}
	for _, other := range cl.Methods {
		if other == m {
			return
		}
		c.findBaseMethods(other)
		if other.BaseInterfaceMethod == m.BaseInterfaceMethod {
			c.errorf(m, "`%s' already contains an implementation for `%s'",
				syntax.FullName(cl), syntax.FullName(m.BaseInterfaceMethod))
			c.notef(other.Pos, "previous implementation of `%s' was here", syntax.FullName(m.BaseInterfaceMethod))
			return
		}
	}
}

// entryPoint records m as the program entry point if it has the
// entry point's name and signature.
func (c *checker) entryPoint(m *syntax.Method, parent syntax.Symbol) {
	if m.Name != c.ctx.EntryPointName || m.External || !c.isEntryPointSignature(m, parent) {
		return
	}
	if c.ctx.EntryPoint != nil && c.ctx.EntryPoint != m {
		c.errorf(m, "program already has an entry point `%s'", syntax.FullName(c.ctx.EntryPoint))
		return
	}
	m.IsEntryPoint = true
	c.ctx.EntryPoint = m
	if m.TreeCanFail() {
		c.errorf(m, "%q method cannot throw errors", m.Name)
	}
	if m.IsAsync {
		c.errorf(m, "%q method cannot be async", m.Name)
	}
}

// isEntryPointSignature reports whether m is a static function
// returning void or int and taking nothing or a string array.
func (c *checker) isEntryPointSignature(m *syntax.Method, parent syntax.Symbol) bool {
	if _, ok := parent.(*syntax.Namespace); !ok && m.Binding != syntax.StaticBinding {
		return false
	}
	if !m.ReturnType.IsVoid() && m.ReturnType.Symbol != syntax.TypeSymbol(c.ctx.Int) {
		return false
	}
	switch len(m.Params) {
	case 0:
		return true
	case 1:
		p := m.Params[0]
		return p.Direction == syntax.In && p.Type != nil && p.Type.Kind == syntax.ArrayType &&
			p.Type.Elem.Symbol == syntax.TypeSymbol(c.ctx.String)
	}
	return false
}

// declaredErrors validates a throws list and records it as the error
// set of the declaring node.
func (c *checker) declaredErrors(n syntax.Symbol, throws []*syntax.DataType) {
	for _, e := range throws {
		if e.Kind != syntax.ErrorType {
			c.errorf(n, "Error expected")
			continue
		}
		if !types.IsAccessible(n, e) {
			c.errorf(n, "error type `%s' is less accessible than method `%s'", e, syntax.FullName(n))
		}
		n.Base().AddErrorType(e.Copy())
	}
}

func (c *checker) creationMethod(cm *syntax.CreationMethod) bool {
	if cm.Checked {
		return !cm.Error
	}
	cm.Checked = true
	c.push(cm)
	defer c.pop()

	switch cm.ParentSymbol().(type) {
	case *syntax.Class, *syntax.Struct:
	default:
		c.errorf(cm, "Creation methods may only be declared in classes and structs")
	}
	for _, p := range cm.TypeParams {
		c.symbol(p)
	}
	for _, p := range cm.Params {
		if !c.param(p) {
			cm.Error = true
		}
	}
	c.declaredErrors(cm, cm.Throws)
	if cm.Body != nil && !cm.External {
		if !c.block(cm.Body) {
			cm.Error = true
		} else {
			c.unhandled(cm.Body, cm.Throws)
		}
	}
	return !cm.Error
}

func (c *checker) param(p *syntax.Parameter) bool {
	if p.Checked {
		return !p.Error
	}
	p.Checked = true
	if p.Ellipsis {
		return true
	}
	if !c.dataType(p.Type, p) {
		p.Error = true
		return false
	}
	if p.Type.IsVoid() {
		c.errorf(p, "'void' not supported as parameter type")
		return false
	}
	if owner := p.ParentSymbol(); owner != nil && !types.IsAccessible(owner, p.Type) {
		c.errorf(p, "parameter type `%s' is less accessible than method `%s'", p.Type, syntax.FullName(owner))
	}
	if p.ParamsArray && p.Type.Kind != syntax.ArrayType {
		c.errorf(p, "parameter array expected")
	}
	if p.Default != nil {
		setTarget(p.Default, p.Type)
		if c.expr(p.Default) && !c.compatible(p.Default.ValueType(), p.Type) {
			c.errorf(p.Default, "Cannot convert from `%s' to `%s'", p.Default.ValueType(), p.Type)
			p.Error = true
		}
	}
	return !p.Error
}

func (c *checker) property(p *syntax.Property) bool {
	if p.Checked {
		return !p.Error
	}
	p.Checked = true
	c.push(p)
	defer c.pop()

	if !c.dataType(p.Type, p) {
		p.Error = true
	} else if !types.IsAccessible(p, p.Type) {
		c.errorf(p, "property type `%s' is less accessible than property `%s'", p.Type, syntax.FullName(p))
	}

	parent := p.ParentSymbol()
	switch {
	case p.IsAbstract:
		switch k := parent.(type) {
		case *syntax.Class:
			if !k.IsAbstract {
				c.errorf(p, "Abstract properties may not be declared in non-abstract classes")
			}
		case *syntax.Interface:
		default:
			c.errorf(p, "Abstract properties may not be declared outside of classes and interfaces")
		}
	case p.IsVirtual:
		switch parent.(type) {
		case *syntax.Class, *syntax.Interface:
		default:
			c.errorf(p, "Virtual properties may not be declared outside of classes and interfaces")
		}
	}

	if p.Getter == nil && p.Setter == nil {
		c.errorf(p, "Property `%s' must have a `get' accessor and/or a `set' mutator", syntax.FullName(p))
	}
	_, inInterface := parent.(*syntax.Interface)
	for _, a := range []*syntax.PropertyAccessor{p.Getter, p.Setter} {
		if a == nil {
			continue
		}
		switch {
		case p.IsAbstract && a.Body != nil:
			c.errorf(a, "Accessor of abstract property cannot have body")
		case inInterface && !p.IsAbstract && !p.External && a.Body == nil:
			c.errorf(a, "Automatic properties can't be used in interfaces")
		}
		if !c.accessor(a) {
			p.Error = true
		}
	}

	c.findBaseProperties(p)
	if p.Overrides && p.BaseProperty == nil && p.BaseInterfaceProperty == nil && !p.Error {
		c.errorf(p, "%s: no suitable property found to override", syntax.FullName(p))
	}
	if !p.Overrides && p.ExplicitInterface == nil {
		c.warnHidden(p, "property")
	}
	return !p.Error
}

func (c *checker) accessor(a *syntax.PropertyAccessor) bool {
	if a.Checked {
		return !a.Error
	}
	a.Checked = true
	c.push(a)
	defer c.pop()

	if !c.dataType(a.ValueType, a) {
		a.Error = true
	}
	if a.ValueParam != nil {
		c.param(a.ValueParam)
	}
	external := a.External
	if p := a.Prop(); p != nil && p.External {
		external = true
	}
	if a.Body != nil && !external {
		if !c.block(a.Body) {
			a.Error = true
		} else {
			c.unhandled(a.Body, nil)
		}
	}
	return !a.Error
}

func (c *checker) signal(s *syntax.Signal) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true
	c.push(s)

	if !c.dataType(s.ReturnType, s) {
		s.Error = true
	} else if !types.IsAccessible(s, s.ReturnType) {
		c.errorf(s, "return type `%s' is less accessible than signal `%s'", s.ReturnType, syntax.FullName(s))
	}
	for _, p := range s.Params {
		if !c.param(p) {
			s.Error = true
		}
	}
	if !s.IsVirtual && s.Body != nil {
		c.errorf(s, "Only virtual signals can have a default signal handler body")
	}
	c.warnHidden(s, "signal")
	c.pop()

	if h := c.defaultHandler(s); h != nil && !c.method(h) {
		s.Error = true
	}
	return !s.Error
}

func (c *checker) field(f *syntax.Field) bool {
	if f.Checked {
		return !f.Error
	}
	f.Checked = true
	c.push(f)
	defer c.pop()

	if !c.dataType(f.Type, f) {
		f.Error = true
		return false
	}
	if f.Type.IsVoid() {
		c.errorf(f, "'void' not supported as field type")
		return false
	}
	if !types.IsAccessible(f, f.Type) {
		c.errorf(f, "field type `%s' is less accessible than field `%s'", f.Type, syntax.FullName(f))
	}
	if init := f.Initializer; init != nil {
		if _, ok := f.ParentSymbol().(*syntax.Struct); ok && f.Binding == syntax.InstanceBinding {
			c.errorf(f, "Instance field initializers are not supported in structs")
		}
		setTarget(init, f.Type)
		if !c.expr(init) {
			f.Error = true
		} else {
			c.assignable(f, init, f.Type)
			if init.Base().TreeCanFail() {
				c.errorf(init, "Field initializers must not throw errors")
			}
		}
	}
	c.warnHidden(f, "field")
	return !f.Error
}

// assignable checks that the checked expression x may initialize a
// variable of type to, declared by n.
func (c *checker) assignable(n syntax.Node, x syntax.Expr, to *syntax.DataType) bool {
	from := x.ValueType()
	if !c.compatible(from, to) {
		c.errorf(n, "Assignment: Cannot convert from `%s' to `%s'", from, to)
		return false
	}
	if from.IsDisposable() && to.Kind != syntax.PointerType && !to.ValueOwned {
		c.errorf(n, "Invalid assignment from owned expression to unowned variable")
		return false
	}
	return true
}

func (c *checker) constant(k *syntax.Constant) bool {
	if k.Checked {
		return !k.Error
	}
	k.Checked = true
	c.push(k)
	defer c.pop()

	if !c.dataType(k.Type, k) {
		k.Error = true
		return false
	}
	if !types.IsAccessible(k, k.Type) {
		c.errorf(k, "constant type `%s' is less accessible than constant `%s'", k.Type, syntax.FullName(k))
	}
	switch {
	case k.Value == nil:
		if !k.External {
			c.errorf(k, "A const field requires a value to be provided")
		}
	default:
		setTarget(k.Value, k.Type)
		if !c.expr(k.Value) {
			k.Error = true
			break
		}
		if !c.compatible(k.Value.ValueType(), k.Type) {
			c.errorf(k, "Cannot convert from `%s' to `%s'", k.Value.ValueType(), k.Type)
		} else if !isConstant(k.Value) {
			c.errorf(k.Value, "Value must be constant")
			k.Error = true
		}
	}
	c.warnHidden(k, "constant")
	return !k.Error
}

// local checks a local variable through its declaration statement.
func (c *checker) local(v *syntax.LocalVariable) bool {
	if d, ok := v.Parent().(*syntax.DeclarationStmt); ok {
		return c.stmt(d)
	}
	v.Checked = true
	return !v.Error
}

func (c *checker) constructor(x *syntax.Constructor) bool {
	if x.Checked {
		return !x.Error
	}
	x.Checked = true
	c.push(x)
	defer c.pop()

	if _, ok := x.ParentSymbol().(*syntax.Class); !ok && x.Binding == syntax.InstanceBinding {
		c.errorf(x, "construct blocks are only supported in classes")
	}
	if x.Body != nil {
		if !c.block(x.Body) {
			x.Error = true
		} else {
			c.unhandled(x.Body, nil)
		}
	}
	return !x.Error
}

func (c *checker) destructor(x *syntax.Destructor) bool {
	if x.Checked {
		return !x.Error
	}
	x.Checked = true
	c.push(x)
	defer c.pop()

	if _, ok := x.ParentSymbol().(*syntax.Class); !ok {
		c.errorf(x, "Destructors are only supported in classes")
	}
	if x.Body != nil {
		if !c.block(x.Body) {
			x.Error = true
		} else {
			c.unhandled(x.Body, nil)
		}
	}
	return !x.Error
}
