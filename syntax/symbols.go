// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Access is the accessibility level of a symbol.
type Access uint8

const (
	Private Access = iota
	Internal
	Protected
	Public
)

var accessNames = [...]string{
	Private:   "private",
	Internal:  "internal",
	Protected: "protected",
	Public:    "public",
}

func (a Access) String() string { return accessNames[a] }

// Binding says whether a member belongs to instances, to the class
// (with access to class data) or to neither.
type Binding uint8

const (
	InstanceBinding Binding = iota
	ClassBinding
	StaticBinding
)

var bindingNames = [...]string{
	InstanceBinding: "instance",
	ClassBinding:    "class",
	StaticBinding:   "static",
}

func (b Binding) String() string { return bindingNames[b] }

// A Symbol is a named declaration.
type Symbol interface {
	Node
	Sym() *SymbolBase
}

// A TypeSymbol is a symbol that can be referred to by a DataType.
type TypeSymbol interface {
	Symbol
	typeSymbol()
}

func (*Class) typeSymbol()       {}
func (*Interface) typeSymbol()   {}
func (*Struct) typeSymbol()      {}
func (*Enum) typeSymbol()        {}
func (*ErrorDomain) typeSymbol() {}
func (*Delegate) typeSymbol()    {}

// SymbolBase holds the state common to all symbols.
type SymbolBase struct {
	CodeNode
	Name     string // empty for anonymous symbols
	Access   Access
	External bool // declared by a binding; bodies are not checked
	Hides    bool // declared with 'new'

	owner *Scope // weak; the scope the symbol is declared in
	scope *Scope // the scope the symbol opens, or nil
}

func (s *SymbolBase) Sym() *SymbolBase { return s }

// Owner returns the scope in which the symbol is declared.
func (s *SymbolBase) Owner() *Scope { return s.owner }

// Scope returns the scope opened by the symbol, or nil.
func (s *SymbolBase) Scope() *Scope { return s.scope }

// ParentSymbol returns the symbol in whose scope s is declared.
func (s *SymbolBase) ParentSymbol() Symbol {
	if s.owner == nil {
		return nil
	}
	return s.owner.Owner()
}

// FullName returns the dotted name of sym from the root namespace.
func FullName(sym Symbol) string {
	if sym == nil {
		return "(null)"
	}
	b := sym.Sym()
	name := b.Name
	if name == "" {
		name = "(anonymous)"
	}
	switch sym.(type) {
	case *LocalVariable, *Parameter:
		return name
	}
	parent := b.ParentSymbol()
	if parent == nil {
		return b.Name
	}
	if p := FullName(parent); p != "" {
		return p + "." + name
	}
	return name
}

func declare(parent Symbol, name string, sym Symbol) {
	parent.Sym().scope.Add(name, sym)
	sym.Base().SetParent(parent)
}

// A Namespace groups top-level declarations. The root namespace of a
// CodeContext has an empty name.
type Namespace struct {
	SymbolBase
	Namespaces   []*Namespace
	Classes      []*Class
	Interfaces   []*Interface
	Structs      []*Struct
	Enums        []*Enum
	ErrorDomains []*ErrorDomain
	Delegates    []*Delegate
	Methods      []*Method
	Fields       []*Field
	Constants    []*Constant
}

// NewNamespace returns an empty public namespace.
func NewNamespace(name string, pos Range) *Namespace {
	ns := &Namespace{SymbolBase: SymbolBase{CodeNode: CodeNode{Pos: pos}, Name: name, Access: Public}}
	ns.scope = NewScope(ns)
	return ns
}

// AddNamespace declares a nested namespace, or returns the existing
// one of the same name.
func (ns *Namespace) AddNamespace(sub *Namespace) *Namespace {
	if old, ok := ns.scope.LookupLocal(sub.Name).(*Namespace); ok {
		return old
	}
	ns.Namespaces = append(ns.Namespaces, sub)
	declare(ns, sub.Name, sub)
	return sub
}

// AddType declares a class, interface, struct, enum, error domain or
// delegate in the namespace.
func (ns *Namespace) AddType(sym TypeSymbol) {
	switch sym := sym.(type) {
	case *Class:
		ns.Classes = append(ns.Classes, sym)
	case *Interface:
		ns.Interfaces = append(ns.Interfaces, sym)
	case *Struct:
		ns.Structs = append(ns.Structs, sym)
	case *Enum:
		ns.Enums = append(ns.Enums, sym)
	case *ErrorDomain:
		ns.ErrorDomains = append(ns.ErrorDomains, sym)
	case *Delegate:
		ns.Delegates = append(ns.Delegates, sym)
	}
	declare(ns, sym.Sym().Name, sym)
}

func (ns *Namespace) AddMethod(m *Method) {
	ns.Methods = append(ns.Methods, m)
	declare(ns, m.Name, m)
}

func (ns *Namespace) AddField(f *Field) {
	ns.Fields = append(ns.Fields, f)
	declare(ns, f.Name, f)
}

func (ns *Namespace) AddConstant(c *Constant) {
	ns.Constants = append(ns.Constants, c)
	declare(ns, c.Name, c)
}

// Members holds the members shared by classes, interfaces and structs.
type Members struct {
	TypeParams []*TypeParameter
	Fields     []*Field
	Constants  []*Constant
	Methods    []*Method
	Properties []*Property
	Signals    []*Signal

	Classes    []*Class
	Interfaces []*Interface
	Structs    []*Struct
	Enums      []*Enum
	Delegates  []*Delegate

	CreationMethods []*CreationMethod
	Constructors    []*Constructor
	Destructors     []*Destructor
}

// A Class is a reference type with single inheritance and any number
// of implemented interfaces.
type Class struct {
	SymbolBase
	Members
	BaseTypes  []*DataType // base class (at most one) and interfaces
	IsAbstract bool
	IsCompact  bool // no type system registration, no instance fields in subclasses
}

// An Interface declares abstract and virtual members for classes to
// implement.
type Interface struct {
	SymbolBase
	Members
	Prerequisites []*DataType

	// Virtuals lists the virtual and abstract members in slot order.
	// It is computed by the checker.
	Virtuals []Symbol
}

// A Struct is a value type.
type Struct struct {
	SymbolBase
	Members
	BaseType *DataType

	IsBoolean  bool
	IsInteger  bool
	IsFloating bool
	Rank       int // widening order among integer or floating types
}

// An Enum is a value type with a fixed set of named values.
type Enum struct {
	SymbolBase
	Values    []*EnumValue
	Methods   []*Method
	Constants []*Constant
	IsFlags   bool
}

// An EnumValue is one value of an Enum.
type EnumValue struct {
	SymbolBase
	Value Expr // optional
}

// An ErrorDomain groups related error codes.
type ErrorDomain struct {
	SymbolBase
	Codes   []*ErrorCode
	Methods []*Method
}

// An ErrorCode is one code of an ErrorDomain.
type ErrorCode struct {
	SymbolBase
	Value Expr // optional
}

// A Delegate is a callable type.
type Delegate struct {
	SymbolBase
	TypeParams []*TypeParameter
	ReturnType *DataType
	Params     []*Parameter
	Throws     []*DataType
	HasTarget  bool // instances carry a target object
}

// A TypeParameter is a generic parameter of a type or method.
type TypeParameter struct {
	SymbolBase
}

func newSymbolBase(name string, pos Range, access Access) SymbolBase {
	return SymbolBase{CodeNode: CodeNode{Pos: pos}, Name: name, Access: access}
}

// NewEnumValue returns an enum value with an optional explicit value.
func NewEnumValue(name string, value Expr, pos Range) *EnumValue {
	v := &EnumValue{SymbolBase: newSymbolBase(name, pos, Public), Value: value}
	if value != nil {
		value.Base().SetParent(v)
	}
	return v
}

// NewErrorCode returns an error code with an optional explicit value.
func NewErrorCode(name string, value Expr, pos Range) *ErrorCode {
	c := &ErrorCode{SymbolBase: newSymbolBase(name, pos, Public), Value: value}
	if value != nil {
		value.Base().SetParent(c)
	}
	return c
}

// NewClass returns an empty class.
func NewClass(name string, pos Range, access Access) *Class {
	c := &Class{SymbolBase: newSymbolBase(name, pos, access)}
	c.scope = NewScope(c)
	return c
}

// NewInterface returns an empty interface.
func NewInterface(name string, pos Range, access Access) *Interface {
	i := &Interface{SymbolBase: newSymbolBase(name, pos, access)}
	i.scope = NewScope(i)
	return i
}

// NewStruct returns an empty struct.
func NewStruct(name string, pos Range, access Access) *Struct {
	s := &Struct{SymbolBase: newSymbolBase(name, pos, access)}
	s.scope = NewScope(s)
	return s
}

// NewEnum returns an empty enum.
func NewEnum(name string, pos Range, access Access) *Enum {
	e := &Enum{SymbolBase: newSymbolBase(name, pos, access)}
	e.scope = NewScope(e)
	return e
}

// NewErrorDomain returns an empty error domain.
func NewErrorDomain(name string, pos Range, access Access) *ErrorDomain {
	d := &ErrorDomain{SymbolBase: newSymbolBase(name, pos, access)}
	d.scope = NewScope(d)
	return d
}

// NewDelegate returns a delegate returning void.
func NewDelegate(name string, pos Range, access Access) *Delegate {
	d := &Delegate{SymbolBase: newSymbolBase(name, pos, access), ReturnType: NewVoidType(), HasTarget: true}
	d.scope = NewScope(d)
	return d
}

// NewTypeParameter returns a type parameter.
func NewTypeParameter(name string, pos Range) *TypeParameter {
	return &TypeParameter{SymbolBase: newSymbolBase(name, pos, Public)}
}

// AddValue appends an enum value.
func (e *Enum) AddValue(v *EnumValue) {
	e.Values = append(e.Values, v)
	declare(e, v.Name, v)
}

// AddMethod appends an enum method.
func (e *Enum) AddMethod(m *Method) {
	e.Methods = append(e.Methods, m)
	declare(e, m.Name, m)
}

// AddCode appends an error code.
func (d *ErrorDomain) AddCode(c *ErrorCode) {
	d.Codes = append(d.Codes, c)
	declare(d, c.Name, c)
}

// AddMethod appends an error domain method.
func (d *ErrorDomain) AddMethod(m *Method) {
	d.Methods = append(d.Methods, m)
	declare(d, m.Name, m)
}

// AddTypeParam appends a delegate type parameter.
func (d *Delegate) AddTypeParam(p *TypeParameter) {
	d.TypeParams = append(d.TypeParams, p)
	declare(d, p.Name, p)
}

// AddParam appends a delegate parameter.
func (d *Delegate) AddParam(p *Parameter) {
	d.Params = append(d.Params, p)
	declare(d, p.Name, p)
}

// BaseClass returns the first class among the base types, or nil.
func (c *Class) BaseClass() *Class {
	for _, t := range c.BaseTypes {
		if bc, ok := t.Symbol.(*Class); ok {
			return bc
		}
	}
	return nil
}

// BaseStruct returns the struct's base struct, or nil.
func (s *Struct) BaseStruct() *Struct {
	if s.BaseType == nil {
		return nil
	}
	bs, _ := s.BaseType.Symbol.(*Struct)
	return bs
}

// IsBooleanType reports whether s is or derives from a boolean type.
func (s *Struct) IsBooleanType() bool {
	for t := s; t != nil; t = t.BaseStruct() {
		if t.IsBoolean {
			return true
		}
	}
	return false
}

// IsIntegerType reports whether s is or derives from an integer type.
func (s *Struct) IsIntegerType() bool {
	for t := s; t != nil; t = t.BaseStruct() {
		if t.IsInteger {
			return true
		}
	}
	return false
}

// IsFloatingType reports whether s is or derives from a floating type.
func (s *Struct) IsFloatingType() bool {
	for t := s; t != nil; t = t.BaseStruct() {
		if t.IsFloating {
			return true
		}
	}
	return false
}

// IsSimpleType reports whether s is a primitive or derives from one.
func (s *Struct) IsSimpleType() bool {
	return s.IsBooleanType() || s.IsIntegerType() || s.IsFloatingType()
}

// TypeParamsOf returns the type parameters of a generic type symbol.
func TypeParamsOf(sym Symbol) []*TypeParameter {
	switch sym := sym.(type) {
	case *Class:
		return sym.TypeParams
	case *Interface:
		return sym.TypeParams
	case *Struct:
		return sym.TypeParams
	case *Delegate:
		return sym.TypeParams
	case *Method:
		return sym.TypeParams
	case *CreationMethod:
		return sym.TypeParams
	}
	return nil
}

// TypeParamIndex returns the index of the named type parameter of
// sym, or -1.
func TypeParamIndex(sym Symbol, name string) int {
	for i, p := range TypeParamsOf(sym) {
		if p.Name == name {
			return i
		}
	}
	return -1
}
