// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"strings"

	"gopkg.in/yaml.v3"

	"go.rcsema.net/syntax"
)

// Keys of the declarations each kind of container may hold.
var (
	namespaceKeys = []string{"namespaces", "classes", "interfaces", "structs", "enums",
		"errordomains", "delegates", "methods", "fields", "constants"}
	typeKeys = []string{"classes", "interfaces", "structs", "enums", "delegates", "methods",
		"fields", "constants", "properties", "signals", "creation", "construct",
		"static_construct", "destruct"}
	enumKeys        = []string{"values", "methods", "constants"}
	errorDomainKeys = []string{"codes", "methods"}
)

// document loads one top-level mapping.
func (l *loader) document(n *yaml.Node) {
	m := l.mapping(n)
	ns := l.ctx.Root
	if name := m.str("namespace"); name != "" {
		at := l.rng(m.node("namespace"))
		for _, part := range strings.Split(name, ".") {
			ns = ns.AddNamespace(syntax.NewNamespace(part, at))
		}
	}
	l.declarations(m, ns, namespaceKeys)
	m.done()
}

// declarations loads the declarations listed under keys into parent.
func (l *loader) declarations(m *mapping, parent syntax.Symbol, keys []string) {
	for _, key := range keys {
		switch key {
		case "construct", "static_construct", "destruct":
			if n := m.node(key); n != nil {
				l.special(key, n, parent)
			}
			continue
		}
		for _, item := range m.list(key) {
			switch key {
			case "namespaces":
				l.namespace(item, parent.(*syntax.Namespace))
			case "classes":
				l.class(item, parent)
			case "interfaces":
				l.iface(item, parent)
			case "structs":
				l.strct(item, parent)
			case "enums":
				l.enum(item, parent)
			case "errordomains":
				l.errorDomain(item, parent)
			case "delegates":
				l.delegate(item, parent)
			case "methods":
				l.method(item, parent)
			case "fields":
				l.field(item, parent)
			case "constants":
				l.constant(item, parent)
			case "properties":
				l.property(item, parent)
			case "signals":
				l.signal(item, parent)
			case "creation":
				l.creationMethod(item, parent)
			case "values":
				l.enumValue(item, parent.(*syntax.Enum))
			case "codes":
				l.errorCode(item, parent.(*syntax.ErrorDomain))
			}
		}
	}
}

func (l *loader) namespace(n *yaml.Node, parent *syntax.Namespace) {
	m := l.mapping(n)
	ns := parent.AddNamespace(syntax.NewNamespace(m.name(), l.rng(n)))
	l.declarations(m, ns, namespaceKeys)
	m.done()
}

// typeParams declares the "type_params" of a type or method.
func (l *loader) typeParams(m *mapping, add func(*syntax.TypeParameter)) {
	for _, item := range m.list("type_params") {
		add(syntax.NewTypeParameter(item.Value, l.rng(item)))
	}
}

// types parses each item of key as a type resolved in at.
func (l *loader) types(m *mapping, key string, at syntax.Symbol) []*syntax.DataType {
	var list []*syntax.DataType
	for _, item := range m.list(key) {
		list = append(list, l.typeOf(item, at, true))
	}
	return list
}

func (l *loader) class(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	cl := syntax.NewClass(m.name(), l.rng(n), m.access())
	cl.IsAbstract = m.bool("abstract")
	cl.IsCompact = m.bool("compact")
	cl.External = m.bool("external")
	cl.Hides = m.bool("new")
	m.attrs(cl)
	syntax.AddMember(parent, cl)
	l.typeParams(m, func(p *syntax.TypeParameter) { syntax.AddMember(cl, p) })
	cl.BaseTypes = l.types(m, "base", cl)
	l.declarations(m, cl, typeKeys)
	m.done()
}

func (l *loader) iface(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	i := syntax.NewInterface(m.name(), l.rng(n), m.access())
	i.External = m.bool("external")
	i.Hides = m.bool("new")
	m.attrs(i)
	syntax.AddMember(parent, i)
	l.typeParams(m, func(p *syntax.TypeParameter) { syntax.AddMember(i, p) })
	i.Prerequisites = l.types(m, "prerequisites", i)
	l.declarations(m, i, typeKeys)
	m.done()
}

func (l *loader) strct(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	s := syntax.NewStruct(m.name(), l.rng(n), m.access())
	s.External = m.bool("external")
	s.Hides = m.bool("new")
	m.attrs(s)
	syntax.AddMember(parent, s)
	l.typeParams(m, func(p *syntax.TypeParameter) { syntax.AddMember(s, p) })
	if base := m.node("base"); base != nil {
		s.BaseType = l.typeOf(base, s, true)
	}
	l.declarations(m, s, typeKeys)
	m.done()
}

func (l *loader) enum(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	e := syntax.NewEnum(m.name(), l.rng(n), m.access())
	e.IsFlags = m.bool("flags")
	e.External = m.bool("external")
	m.attrs(e)
	syntax.AddMember(parent, e)
	l.declarations(m, e, enumKeys)
	m.done()
}

// nameValue parses a "NAME" or "NAME = expr" item.
func (l *loader) nameValue(n *yaml.Node, at syntax.Symbol) (string, syntax.Expr, syntax.Range, bool) {
	var (
		name  string
		value syntax.Expr
		r     syntax.Range
	)
	ok := l.parse(n, at, func(p *parser) {
		tok, x := p.nameValue()
		name, value, r = tok.text, x, p.rng(tok)
	})
	return name, value, r, ok
}

func (l *loader) enumValue(n *yaml.Node, e *syntax.Enum) {
	if name, value, r, ok := l.nameValue(n, e); ok {
		syntax.AddMember(e, syntax.NewEnumValue(name, value, r))
	}
}

func (l *loader) errorDomain(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	d := syntax.NewErrorDomain(m.name(), l.rng(n), m.access())
	d.External = m.bool("external")
	m.attrs(d)
	syntax.AddMember(parent, d)
	l.declarations(m, d, errorDomainKeys)
	m.done()
}

func (l *loader) errorCode(n *yaml.Node, d *syntax.ErrorDomain) {
	if name, value, r, ok := l.nameValue(n, d); ok {
		syntax.AddMember(d, syntax.NewErrorCode(name, value, r))
	}
}

func (l *loader) delegate(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	d := syntax.NewDelegate(m.name(), l.rng(n), m.access())
	d.HasTarget = !m.bool("static")
	d.External = m.bool("external")
	m.attrs(d)
	syntax.AddMember(parent, d)
	l.typeParams(m, d.AddTypeParam)
	if ret := m.node("returns"); ret != nil {
		d.ReturnType = l.typeOf(ret, d, true)
	}
	l.params(m, d, d.AddParam)
	d.Throws = l.types(m, "throws", d)
	m.done()
}

// params parses the "params" list of a callable.
func (l *loader) params(m *mapping, owner syntax.Symbol, add func(*syntax.Parameter)) {
	for _, item := range m.list("params") {
		var param *syntax.Parameter
		if l.parse(item, owner, func(p *parser) { param = p.param() }) {
			add(param)
		}
	}
}

// binding returns the binding of a member: static, class, or
// instance. Members of namespaces are always static.
func (m *mapping) binding(parent syntax.Symbol) syntax.Binding {
	static, class := m.bool("static"), m.bool("class")
	switch {
	case static:
		return syntax.StaticBinding
	case class:
		return syntax.ClassBinding
	}
	if _, ok := parent.(*syntax.Namespace); ok {
		return syntax.StaticBinding
	}
	return syntax.InstanceBinding
}

func (l *loader) method(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	meth := syntax.NewMethod(m.name(), nil, l.rng(n), m.access())
	meth.Binding = m.binding(parent)
	meth.IsAbstract = m.bool("abstract")
	meth.IsVirtual = m.bool("virtual")
	meth.Overrides = m.bool("override")
	meth.IsAsync = m.bool("async")
	meth.Hides = m.bool("new")
	meth.External = m.bool("external")
	if impl := m.node("implements"); impl != nil {
		meth.ExplicitInterface = l.typeOf(impl, parent, false)
	}
	m.attrs(meth)
	syntax.AddMember(parent, meth)
	l.typeParams(m, meth.AddTypeParam)
	if ret := m.node("returns"); ret != nil {
		meth.ReturnType = l.typeOf(ret, meth, true)
	}
	l.params(m, meth, meth.AddParam)
	meth.Throws = l.types(m, "throws", meth)
	if body := m.node("body"); body != nil {
		meth.SetBody(l.block(body, meth))
	}
	m.done()
}

func (l *loader) creationMethod(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	cm := syntax.NewCreationMethod(m.str("name"), l.rng(n), m.access())
	cm.External = m.bool("external")
	cm.ChainUp = m.bool("chainup")
	m.attrs(cm)
	syntax.AddMember(parent, cm)
	l.typeParams(m, cm.AddTypeParam)
	l.params(m, cm, cm.AddParam)
	cm.Throws = l.types(m, "throws", cm)
	if body := m.node("body"); body != nil {
		cm.SetBody(l.block(body, cm))
	}
	m.done()
}

// special loads a construct or destruct block.
func (l *loader) special(key string, n *yaml.Node, parent syntax.Symbol) {
	binding := syntax.InstanceBinding
	if key == "static_construct" {
		binding = syntax.StaticBinding
	}
	if key == "destruct" {
		d := syntax.NewDestructor(binding, nil, l.rng(n))
		syntax.AddMember(parent, d)
		d.Body = l.block(n, d)
		d.Body.SetParent(d)
		return
	}
	c := syntax.NewConstructor(binding, nil, l.rng(n))
	syntax.AddMember(parent, c)
	c.Body = l.block(n, c)
	c.Body.SetParent(c)
}

// A memberDecl is the scalar form of a field or constant,
// "[modifiers] T name [= value]".
type memberDecl struct {
	access  syntax.Access
	binding syntax.Binding
	typ     *syntax.DataType
	name    string
	pos     syntax.Range
	value   syntax.Expr
}

func (l *loader) memberDecl(n *yaml.Node, parent syntax.Symbol) (memberDecl, bool) {
	d := memberDecl{access: syntax.Public}
	if _, ok := parent.(*syntax.Namespace); ok {
		d.binding = syntax.StaticBinding
	}
	ok := l.parse(n, parent, func(p *parser) {
		for {
			tok := p.peek()
			if a, ok := accessNames[tok.text]; ok && tok.kind == tIdent {
				p.next()
				d.access = a
				continue
			}
			switch {
			case p.accept("static"), p.accept("const"):
				d.binding = syntax.StaticBinding
				continue
			case p.accept("class"):
				d.binding = syntax.ClassBinding
				continue
			}
			break
		}
		t, name, value, ok := p.varDecl(true)
		if !ok {
			p.errorf(p.peek(), "got %s, want declaration", p.peek())
		}
		d.typ, d.name, d.pos, d.value = t, name.text, p.rng(name), value
	})
	return d, ok
}

func (l *loader) field(n *yaml.Node, parent syntax.Symbol) {
	if n.Kind == yaml.ScalarNode {
		d, ok := l.memberDecl(n, parent)
		if !ok {
			return
		}
		f := syntax.NewField(d.name, d.typ, d.pos, d.access)
		f.Binding = d.binding
		syntax.AddMember(parent, f)
		f.SetInitializer(d.value)
		return
	}
	m := l.mapping(n)
	f := syntax.NewField(m.name(), nil, l.rng(n), m.access())
	f.Binding = m.binding(parent)
	f.Hides = m.bool("new")
	f.External = m.bool("external")
	m.attrs(f)
	syntax.AddMember(parent, f)
	f.Type = l.typeOf(m.required("type"), parent, true)
	if v := m.node("value"); v != nil {
		f.SetInitializer(l.exprOf(v, parent))
	}
	m.done()
}

func (l *loader) constant(n *yaml.Node, parent syntax.Symbol) {
	if n.Kind == yaml.ScalarNode {
		d, ok := l.memberDecl(n, parent)
		if !ok {
			return
		}
		syntax.AddMember(parent, syntax.NewConstant(d.name, d.typ, d.value, d.pos, d.access))
		return
	}
	m := l.mapping(n)
	k := syntax.NewConstant(m.name(), nil, nil, l.rng(n), m.access())
	k.Hides = m.bool("new")
	k.External = m.bool("external")
	m.attrs(k)
	syntax.AddMember(parent, k)
	k.Type = l.typeOf(m.required("type"), parent, true)
	if v := m.node("value"); v != nil {
		if x := l.exprOf(v, parent); x != nil {
			k.Value = x
			x.Base().SetParent(k)
		}
	}
	m.done()
}

func (l *loader) property(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	p := syntax.NewProperty(m.name(), nil, l.rng(n), m.access())
	p.Binding = m.binding(parent)
	p.IsAbstract = m.bool("abstract")
	p.IsVirtual = m.bool("virtual")
	p.Overrides = m.bool("override")
	p.Hides = m.bool("new")
	p.External = m.bool("external")
	if impl := m.node("implements"); impl != nil {
		p.ExplicitInterface = l.typeOf(impl, parent, false)
	}
	m.attrs(p)
	syntax.AddMember(parent, p)
	p.Type = l.typeOf(m.required("type"), parent, false)

	if get := m.node("get"); get != nil {
		l.getter(get, p)
	}
	if set := m.node("set"); set != nil {
		l.setter(set, p)
	}
	m.done()
}

// getter loads "get: true" or "get: {owned: bool, body: ...}".
func (l *loader) getter(n *yaml.Node, p *syntax.Property) {
	owned := false
	var body *yaml.Node
	if n.Kind == yaml.ScalarNode {
		var present bool
		if err := n.Decode(&present); err != nil || !present {
			if err != nil {
				l.errorf(l.pos(n), "get: want true or a mapping")
			}
			return
		}
	} else {
		m := l.mapping(n)
		owned = m.bool("owned")
		body = m.node("body")
		m.done()
	}
	a := syntax.NewPropertyAccessor(true, false, false, p.Type, l.rng(n))
	p.SetAccessor(a)
	if body != nil {
		a.SetBody(l.block(body, a))
	}
	l.fixups = append(l.fixups, func() {
		a.ValueType = p.Type.Copy()
		a.ValueType.ValueOwned = owned
	})
}

// setter loads "set: true", "set: construct", "set: set construct"
// or "set: {mode: ..., body: ...}".
func (l *loader) setter(n *yaml.Node, p *syntax.Property) {
	mode := n.Value
	var body *yaml.Node
	if n.Kind != yaml.ScalarNode {
		m := l.mapping(n)
		mode = m.str("mode")
		if mode == "" {
			mode = "set"
		}
		body = m.node("body")
		m.done()
	}
	var writable, construction bool
	switch mode {
	case "true", "set":
		writable = true
	case "construct":
		construction = true
	case "set construct", "construct set":
		writable, construction = true, true
	case "false":
		return
	default:
		l.errorf(l.pos(n), "set: unknown mode %q", mode)
		return
	}
	a := syntax.NewPropertyAccessor(false, writable, construction, p.Type, l.rng(n))
	p.SetAccessor(a)
	if body != nil {
		a.SetBody(l.block(body, a))
	}
	l.fixups = append(l.fixups, func() {
		a.ValueType = p.Type.Copy()
		a.ValueParam.Type = p.Type.Copy()
	})
}

func (l *loader) signal(n *yaml.Node, parent syntax.Symbol) {
	m := l.mapping(n)
	s := syntax.NewSignal(m.name(), nil, l.rng(n), m.access())
	s.IsVirtual = m.bool("virtual")
	s.Hides = m.bool("new")
	m.attrs(s)
	syntax.AddMember(parent, s)
	if ret := m.node("returns"); ret != nil {
		s.ReturnType = l.typeOf(ret, parent, true)
	}
	l.params(m, s, s.AddParam)
	if body := m.node("body"); body != nil {
		s.SetBody(l.block(body, s))
	}
	m.done()
}
