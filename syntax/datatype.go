// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "strings"

// TypeKind discriminates the variants of DataType.
type TypeKind uint8

const (
	InvalidType   TypeKind = iota
	VoidType               // no value
	ValueType              // struct, enum or primitive
	ReferenceType          // class or interface
	ArrayType              // Elem[] of Rank dimensions
	GenericType            // a type parameter
	PointerType            // Elem*
	DelegateType           // a delegate symbol
	ErrorType              // error domain (nil = any error), optional code
	NullType               // type of the null literal
	MethodType             // type of an expression naming a method
)

var kindNames = [...]string{
	InvalidType:   "invalid",
	VoidType:      "void",
	ValueType:     "value",
	ReferenceType: "reference",
	ArrayType:     "array",
	GenericType:   "generic",
	PointerType:   "pointer",
	DelegateType:  "delegate",
	ErrorType:     "error",
	NullType:      "null",
	MethodType:    "method",
}

func (k TypeKind) String() string { return kindNames[k] }

// A DataType describes the static type of a value.
//
// Which fields are meaningful depends on Kind:
//
//	ValueType, ReferenceType, DelegateType: Symbol, Args
//	ArrayType:   Elem, Rank
//	PointerType: Elem
//	GenericType: Param
//	ErrorType:   Domain, Code, Dynamic
//	MethodType:  Method
type DataType struct {
	Kind    TypeKind
	Symbol  TypeSymbol
	Param   *TypeParameter
	Elem    *DataType
	Rank    int
	Domain  *ErrorDomain
	Code    *ErrorCode
	Dynamic bool
	Method  *Method

	Nullable   bool
	ValueOwned bool // the holder owns the value and must dispose of it
	Args       []*DataType

	Pos Range
}

// NewObjectType returns a type referring to sym with the given type arguments.
// The kind is derived from the symbol.
func NewObjectType(sym TypeSymbol, args ...*DataType) *DataType {
	t := &DataType{Symbol: sym, Args: args}
	switch sym := sym.(type) {
	case *Class, *Interface:
		t.Kind = ReferenceType
	case *Struct, *Enum:
		t.Kind = ValueType
	case *Delegate:
		t.Kind = DelegateType
	case *ErrorDomain:
		t.Kind = ErrorType
		t.Domain = sym
		t.Symbol = nil
	default:
		t.Kind = InvalidType
	}
	return t
}

// NewArrayType returns the type of rank-dimensional arrays of elem.
func NewArrayType(elem *DataType, rank int) *DataType {
	if rank < 1 {
		rank = 1
	}
	return &DataType{Kind: ArrayType, Elem: elem, Rank: rank}
}

// NewPointerType returns the type elem*.
func NewPointerType(elem *DataType) *DataType {
	return &DataType{Kind: PointerType, Elem: elem}
}

// NewGenericType returns the type denoted by the type parameter p.
func NewGenericType(p *TypeParameter) *DataType {
	return &DataType{Kind: GenericType, Param: p}
}

// NewErrorType returns an error type. A nil domain denotes any error.
func NewErrorType(domain *ErrorDomain, code *ErrorCode) *DataType {
	return &DataType{Kind: ErrorType, Domain: domain, Code: code}
}

// NewMethodType returns the type of an expression naming m.
func NewMethodType(m *Method) *DataType { return &DataType{Kind: MethodType, Method: m} }

func NewVoidType() *DataType    { return &DataType{Kind: VoidType} }
func NewInvalidType() *DataType { return &DataType{Kind: InvalidType} }
func NewNullType() *DataType    { return &DataType{Kind: NullType, Nullable: true} }

// Copy returns a deep copy of the type descriptor. Symbols are shared.
func (t *DataType) Copy() *DataType {
	if t == nil {
		return nil
	}
	c := *t
	c.Elem = t.Elem.Copy()
	if t.Args != nil {
		c.Args = make([]*DataType, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.Copy()
		}
	}
	return &c
}

// IsReferenceType reports whether values of the type are references
// that may be reference counted or copied by pointer.
func (t *DataType) IsReferenceType() bool {
	switch t.Kind {
	case ReferenceType, ArrayType, DelegateType, ErrorType, GenericType, NullType:
		return true
	}
	return false
}

// IsDisposable reports whether a holder of the type must release it.
func (t *DataType) IsDisposable() bool {
	if !t.ValueOwned {
		return false
	}
	switch t.Kind {
	case ReferenceType, ArrayType, DelegateType, ErrorType, GenericType:
		return true
	}
	return false
}

// IsVoid reports whether t is the void type.
func (t *DataType) IsVoid() bool { return t == nil || t.Kind == VoidType }

// TypeSymbolOf returns the type symbol a type refers to, or nil.
// Error types report their domain.
func (t *DataType) TypeSymbolOf() TypeSymbol {
	if t == nil {
		return nil
	}
	if t.Kind == ErrorType {
		if t.Domain == nil {
			return nil
		}
		return t.Domain
	}
	return t.Symbol
}

func (t *DataType) String() string {
	if t == nil {
		return "void"
	}
	var buf strings.Builder
	t.write(&buf)
	return buf.String()
}

func (t *DataType) write(buf *strings.Builder) {
	switch t.Kind {
	case InvalidType:
		buf.WriteString("<invalid>")
		return
	case VoidType:
		buf.WriteString("void")
		return
	case NullType:
		buf.WriteString("null")
		return
	case MethodType:
		buf.WriteString(FullName(t.Method))
		return
	case ArrayType:
		t.Elem.write(buf)
		buf.WriteByte('[')
		buf.WriteString(strings.Repeat(",", t.Rank-1))
		buf.WriteByte(']')
	case PointerType:
		t.Elem.write(buf)
		buf.WriteByte('*')
		return
	case GenericType:
		buf.WriteString(t.Param.Name)
	case ErrorType:
		switch {
		case t.Code != nil:
			buf.WriteString(FullName(t.Code))
		case t.Domain != nil:
			buf.WriteString(FullName(t.Domain))
		default:
			buf.WriteString("GLib.Error")
		}
	default:
		buf.WriteString(FullName(t.Symbol))
		if len(t.Args) > 0 {
			buf.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					buf.WriteByte(',')
				}
				a.write(buf)
			}
			buf.WriteByte('>')
		}
	}
	if t.Nullable {
		buf.WriteByte('?')
	}
}
