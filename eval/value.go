// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

// This file defines the data types of the evaluator.
//
// The type of a value is determined by its Go type; every value is
// one of Int, Float, Bool, String, *Array, *Error or Null.

import (
	"fmt"
	"strconv"
	"strings"

	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

// Value is a value of the evaluated language.
type Value interface {
	// String returns the string representation of the value.
	String() string

	// Type returns a short string describing the value's type.
	Type() string
}

// Int is an integer value. All integer types of the language share it.
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) Type() string     { return "int" }

// Float is a floating-point value.
type Float float64

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (Float) Type() string     { return "double" }

// Bool is a boolean value.
type Bool bool

const (
	False Bool = false
	True  Bool = true
)

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

// String is a string value.
type String string

func (s String) String() string { return strconv.Quote(string(s)) }
func (String) Type() string     { return "string" }

// NullType is the type of Null.
type NullType struct{}

// Null is the value of the null literal and of unset references.
var Null = NullType{}

func (NullType) String() string { return "null" }
func (NullType) Type() string   { return "null" }

// An Array is a mutable array of fixed dimensions. Elements are stored
// in row-major order.
type Array struct {
	dims  []int
	elems []Value
}

// NewArray returns a one-dimensional array holding elems.
func NewArray(elems []Value) *Array {
	return &Array{dims: []int{len(elems)}, elems: elems}
}

func (a *Array) Type() string { return "array" }

func (a *Array) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, e := range a.elems {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.String())
	}
	buf.WriteByte('}')
	return buf.String()
}

// Len returns the number of elements of the array.
func (a *Array) Len() int { return len(a.elems) }

// Index returns the i'th element in row-major order.
func (a *Array) Index(i int) Value { return a.elems[i] }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.dims) }

// offset returns the position of the element at index, or an error.
func (a *Array) offset(index []int) (int, error) {
	if len(index) != len(a.dims) {
		return 0, fmt.Errorf("%d indices on a %d-dimensional array", len(index), len(a.dims))
	}
	off := 0
	for i, x := range index {
		if x < 0 || x >= a.dims[i] {
			return 0, fmt.Errorf("index %d out of range [0:%d]", x, a.dims[i])
		}
		off = off*a.dims[i] + x
	}
	return off, nil
}

// An Error is a thrown error value: a code of an error domain and a
// message.
type Error struct {
	Domain  *syntax.ErrorDomain
	Code    *syntax.ErrorCode
	Message string
}

func (e *Error) Type() string { return "error" }

func (e *Error) String() string {
	name := "GLib.Error"
	switch {
	case e.Code != nil:
		name = syntax.FullName(e.Code)
	case e.Domain != nil:
		name = syntax.FullName(e.Domain)
	}
	return fmt.Sprintf("%s(%q)", name, e.Message)
}

// codeIndex returns the ordinal of the error code within its domain.
func (e *Error) codeIndex() int {
	if e.Domain == nil {
		return 0
	}
	for i, c := range e.Domain.Codes {
		if c == e.Code {
			return i
		}
	}
	return 0
}

// matches reports whether e is an instance of the error type t.
// A nil t, or an error type without a domain, catches every error.
func (e *Error) matches(t *syntax.DataType) bool {
	if t == nil || t.Domain == nil {
		return true
	}
	if t.Domain != e.Domain {
		return false
	}
	return t.Code == nil || t.Code == e.Code
}

// Truth reports whether v is the boolean true.
func Truth(v Value) bool {
	b, ok := v.(Bool)
	return ok && bool(b)
}

// Equal reports whether x and y are equal. Arrays and errors are
// compared by identity.
func Equal(x, y Value) bool {
	switch x := x.(type) {
	case Int:
		switch y := y.(type) {
		case Int:
			return x == y
		case Float:
			return Float(x) == y
		}
	case Float:
		switch y := y.(type) {
		case Int:
			return x == Float(y)
		case Float:
			return x == y
		}
	}
	return x == y
}

// zero returns the default value of a variable of type t.
func zero(t *syntax.DataType) Value {
	if t == nil || t.Nullable {
		return Null
	}
	switch {
	case types.IsBoolean(t):
		return False
	case types.IsInteger(t), types.IsEnum(t):
		return Int(0)
	case types.IsFloating(t):
		return Float(0)
	}
	return Null
}
