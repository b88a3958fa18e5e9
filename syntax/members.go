// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// Direction is the passing mode of a parameter.
type Direction uint8

const (
	In Direction = iota
	Out
	Ref
)

var directionNames = [...]string{In: "in", Out: "out", Ref: "ref"}

func (d Direction) String() string { return directionNames[d] }

// A Method is a callable member or a free function.
type Method struct {
	SymbolBase
	Binding    Binding
	ReturnType *DataType
	Params     []*Parameter
	TypeParams []*TypeParameter
	Throws     []*DataType // declared error types
	Body       *Block      // nil for abstract and external methods

	IsAbstract bool
	IsVirtual  bool
	Overrides  bool
	IsAsync    bool

	// ExplicitInterface, if set, names the interface whose member
	// this method implements; name-based search is then disabled.
	ExplicitInterface *DataType

	// Override links, valid once BaseMethodsValid is set.
	// Both are weak references.
	BaseMethod          *Method
	BaseInterfaceMethod *Method
	BaseMethodsValid    bool

	Signal       *Signal // weak; the signal whose default handler this is
	IsEntryPoint bool
}

// NewMethod returns a method with no parameters.
func NewMethod(name string, ret *DataType, pos Range, access Access) *Method {
	if ret == nil {
		ret = NewVoidType()
	}
	m := &Method{SymbolBase: newSymbolBase(name, pos, access), ReturnType: ret}
	m.scope = NewScope(m)
	return m
}

func (m *Method) AddParam(p *Parameter) {
	m.Params = append(m.Params, p)
	declare(m, p.Name, p)
}

func (m *Method) AddTypeParam(p *TypeParameter) {
	m.TypeParams = append(m.TypeParams, p)
	declare(m, p.Name, p)
}

// SetBody attaches the method body.
func (m *Method) SetBody(b *Block) {
	m.Body = b
	if b != nil {
		b.SetParent(m)
	}
}

// HasEllipsis reports whether the last parameter is an ellipsis.
func (m *Method) HasEllipsis() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Ellipsis
}

// A CreationMethod constructs an instance of its parent type.
// The default creation method is named ".new".
type CreationMethod struct {
	Method
	ChainUp bool // the body chains up to a base creation method
}

// NewCreationMethod returns a creation method. An empty name denotes
// the default creation method.
func NewCreationMethod(name string, pos Range, access Access) *CreationMethod {
	if name == "" {
		name = ".new"
	}
	cm := &CreationMethod{Method: Method{SymbolBase: newSymbolBase(name, pos, access), ReturnType: NewVoidType()}}
	cm.scope = NewScope(cm)
	return cm
}

func (cm *CreationMethod) AddParam(p *Parameter) {
	cm.Params = append(cm.Params, p)
	declare(cm, p.Name, p)
}

func (cm *CreationMethod) AddTypeParam(p *TypeParameter) {
	cm.TypeParams = append(cm.TypeParams, p)
	declare(cm, p.Name, p)
}

func (cm *CreationMethod) SetBody(b *Block) {
	cm.Body = b
	if b != nil {
		b.SetParent(cm)
	}
}

// A Parameter is a formal parameter of a method, delegate or signal.
type Parameter struct {
	SymbolBase
	Type        *DataType // nil for an ellipsis
	Direction   Direction
	Ellipsis    bool
	ParamsArray bool
	Default     Expr
}

// NewParameter returns an in-parameter.
func NewParameter(name string, typ *DataType, pos Range) *Parameter {
	return &Parameter{SymbolBase: newSymbolBase(name, pos, Public), Type: typ}
}

// SetDefault attaches a default value expression.
func (p *Parameter) SetDefault(e Expr) {
	p.Default = e
	if e != nil {
		e.Base().SetParent(p)
	}
}

// A Property is a member accessed through get and set accessors.
type Property struct {
	SymbolBase
	Binding Binding
	Type    *DataType
	Getter  *PropertyAccessor
	Setter  *PropertyAccessor

	IsAbstract bool
	IsVirtual  bool
	Overrides  bool

	ExplicitInterface *DataType

	BaseProperty          *Property // weak
	BaseInterfaceProperty *Property // weak
	BasePropertiesValid   bool
}

// NewProperty returns a property without accessors.
func NewProperty(name string, typ *DataType, pos Range, access Access) *Property {
	p := &Property{SymbolBase: newSymbolBase(name, pos, access), Type: typ}
	p.scope = NewScope(p)
	return p
}

// SetAccessor attaches a get or set accessor.
func (p *Property) SetAccessor(a *PropertyAccessor) {
	if a.Readable {
		p.Getter = a
	} else {
		p.Setter = a
	}
	declare(p, "", a)
}

// A PropertyAccessor is the get or set half of a property.
type PropertyAccessor struct {
	SymbolBase
	Readable     bool
	Writable     bool
	Construction bool
	ValueType    *DataType
	Body         *Block     // nil for abstract and automatic accessors
	ValueParam   *Parameter // the implicit "value" of a setter
}

// NewPropertyAccessor returns a getter (readable) or a setter.
// A setter declares its implicit value parameter.
func NewPropertyAccessor(readable, writable, construction bool, valueType *DataType, pos Range) *PropertyAccessor {
	name := "set"
	if readable {
		name = "get"
	}
	a := &PropertyAccessor{
		SymbolBase:   newSymbolBase(name, pos, Public),
		Readable:     readable,
		Writable:     writable,
		Construction: construction,
		ValueType:    valueType,
	}
	a.scope = NewScope(a)
	if !readable {
		a.ValueParam = NewParameter("value", valueType.Copy(), pos)
		declare(a, "value", a.ValueParam)
	}
	return a
}

// Prop returns the property owning the accessor.
func (a *PropertyAccessor) Prop() *Property {
	p, _ := a.parent.(*Property)
	return p
}

func (a *PropertyAccessor) SetBody(b *Block) {
	a.Body = b
	if b != nil {
		b.SetParent(a)
	}
}

// A Signal is a member to which handlers can be connected. A virtual
// signal has a default handler that subclasses may override.
type Signal struct {
	SymbolBase
	ReturnType *DataType
	Params     []*Parameter
	IsVirtual  bool
	Body       *Block // body of the default handler, if any

	DefaultHandler *Method // created by the checker for virtual signals
}

// NewSignal returns a signal with no parameters.
func NewSignal(name string, ret *DataType, pos Range, access Access) *Signal {
	if ret == nil {
		ret = NewVoidType()
	}
	s := &Signal{SymbolBase: newSymbolBase(name, pos, access), ReturnType: ret}
	s.scope = NewScope(s)
	return s
}

func (s *Signal) AddParam(p *Parameter) {
	s.Params = append(s.Params, p)
	declare(s, p.Name, p)
}

func (s *Signal) SetBody(b *Block) {
	s.Body = b
	if b != nil {
		b.SetParent(s)
	}
}

// A Field is a data member or a namespace-level variable.
type Field struct {
	SymbolBase
	Binding     Binding
	Type        *DataType
	Initializer Expr
}

// NewField returns an instance field.
func NewField(name string, typ *DataType, pos Range, access Access) *Field {
	return &Field{SymbolBase: newSymbolBase(name, pos, access), Type: typ}
}

func (f *Field) SetInitializer(e Expr) {
	f.Initializer = e
	if e != nil {
		e.Base().SetParent(f)
	}
}

// A Constant is a named compile-time value.
type Constant struct {
	SymbolBase
	Type  *DataType
	Value Expr
}

// NewConstant returns a constant.
func NewConstant(name string, typ *DataType, value Expr, pos Range, access Access) *Constant {
	c := &Constant{SymbolBase: newSymbolBase(name, pos, access), Type: typ, Value: value}
	if value != nil {
		value.Base().SetParent(c)
	}
	return c
}

// A LocalVariable is declared by a DeclarationStmt or synthesized by
// the checker. A nil Type means the type is inferred.
type LocalVariable struct {
	SymbolBase
	Type        *DataType
	Initializer Expr
}

// NewLocalVariable returns a local variable.
func NewLocalVariable(name string, typ *DataType, init Expr, pos Range) *LocalVariable {
	v := &LocalVariable{SymbolBase: newSymbolBase(name, pos, Private), Type: typ, Initializer: init}
	if init != nil {
		init.Base().SetParent(v)
	}
	return v
}

// A Constructor is a construct block run after instance creation.
type Constructor struct {
	SymbolBase
	Binding Binding
	Body    *Block
}

// NewConstructor returns a construct block.
func NewConstructor(binding Binding, body *Block, pos Range) *Constructor {
	c := &Constructor{SymbolBase: newSymbolBase("construct", pos, Public), Binding: binding, Body: body}
	c.scope = NewScope(c)
	if body != nil {
		body.SetParent(c)
	}
	return c
}

// A Destructor runs when an instance is finalized.
type Destructor struct {
	SymbolBase
	Binding Binding
	Body    *Block
}

// NewDestructor returns a destructor.
func NewDestructor(binding Binding, body *Block, pos Range) *Destructor {
	d := &Destructor{SymbolBase: newSymbolBase("finalize", pos, Public), Binding: binding, Body: body}
	d.scope = NewScope(d)
	if body != nil {
		body.SetParent(d)
	}
	return d
}

// MembersOf returns the member lists of a class, interface or struct.
func MembersOf(sym Symbol) *Members {
	switch sym := sym.(type) {
	case *Class:
		return &sym.Members
	case *Interface:
		return &sym.Members
	case *Struct:
		return &sym.Members
	}
	return nil
}

// AddMember declares member inside parent and appends it to the
// matching member list.
func AddMember(parent, member Symbol) {
	switch p := parent.(type) {
	case *Namespace:
		switch m := member.(type) {
		case *Namespace:
			p.AddNamespace(m)
		case TypeSymbol:
			p.AddType(m)
		case *Method:
			p.AddMethod(m)
		case *Field:
			p.AddField(m)
		case *Constant:
			p.AddConstant(m)
		default:
			panic(fmt.Sprintf("cannot add %T to namespace", member))
		}
		return
	case *Enum:
		switch m := member.(type) {
		case *EnumValue:
			p.AddValue(m)
		case *Method:
			p.AddMethod(m)
		case *Constant:
			p.Constants = append(p.Constants, m)
			declare(p, m.Name, m)
		default:
			panic(fmt.Sprintf("cannot add %T to enum", member))
		}
		return
	case *ErrorDomain:
		switch m := member.(type) {
		case *ErrorCode:
			p.AddCode(m)
		case *Method:
			p.AddMethod(m)
		default:
			panic(fmt.Sprintf("cannot add %T to error domain", member))
		}
		return
	}

	ms := MembersOf(parent)
	if ms == nil {
		panic(fmt.Sprintf("cannot add members to %T", parent))
	}
	name := member.Sym().Name
	switch m := member.(type) {
	case *Field:
		ms.Fields = append(ms.Fields, m)
	case *Constant:
		ms.Constants = append(ms.Constants, m)
	case *CreationMethod:
		ms.CreationMethods = append(ms.CreationMethods, m)
	case *Method:
		ms.Methods = append(ms.Methods, m)
		if m.ExplicitInterface != nil {
			// explicit implementations do not occupy the member name
			name = ""
		}
	case *Property:
		ms.Properties = append(ms.Properties, m)
	case *Signal:
		ms.Signals = append(ms.Signals, m)
	case *Class:
		ms.Classes = append(ms.Classes, m)
	case *Interface:
		ms.Interfaces = append(ms.Interfaces, m)
	case *Struct:
		ms.Structs = append(ms.Structs, m)
	case *Enum:
		ms.Enums = append(ms.Enums, m)
	case *Delegate:
		ms.Delegates = append(ms.Delegates, m)
	case *TypeParameter:
		ms.TypeParams = append(ms.TypeParams, m)
	case *Constructor:
		ms.Constructors = append(ms.Constructors, m)
		name = ""
	case *Destructor:
		ms.Destructors = append(ms.Destructors, m)
		name = ""
	default:
		panic(fmt.Sprintf("cannot add %T to %T", member, parent))
	}
	declare(parent, name, member)
}
