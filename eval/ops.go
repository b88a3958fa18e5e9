// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"fmt"

	"go.rcsema.net/syntax"
)

// Unary applies a unary operator (!, -, +, ~) to its operand.
func Unary(op syntax.UnaryOp, x Value) (Value, error) {
	switch op {
	case syntax.Not:
		if b, ok := x.(Bool); ok {
			return !b, nil
		}
	case syntax.Neg:
		switch x := x.(type) {
		case Int:
			return -x, nil
		case Float:
			return -x, nil
		}
	case syntax.Plus:
		switch x.(type) {
		case Int, Float:
			return x, nil
		}
	case syntax.BitNot:
		if x, ok := x.(Int); ok {
			return ^x, nil
		}
	}
	return nil, fmt.Errorf("unknown unary op: %s%s", op, x.Type())
}

// Binary applies a strict binary operator (not && or ||) to its operands.
// Integer arithmetic wraps on overflow; mixed integer and floating-point
// operands are computed in floating point.
func Binary(op syntax.BinaryOp, x, y Value) (Value, error) {
	switch op {
	case syntax.Eq:
		return Bool(Equal(x, y)), nil
	case syntax.Ne:
		return Bool(!Equal(x, y)), nil
	case syntax.Add:
		_, xs := x.(String)
		_, ys := y.(String)
		if xs || ys {
			return String(text(x) + text(y)), nil
		}
	case syntax.And, syntax.Or:
		xb, ok1 := x.(Bool)
		yb, ok2 := y.(Bool)
		if ok1 && ok2 {
			if op == syntax.And {
				return xb && yb, nil
			}
			return xb || yb, nil
		}
	}

	switch x := x.(type) {
	case Int:
		switch y := y.(type) {
		case Int:
			return intOp(op, x, y)
		case Float:
			return floatOp(op, Float(x), y)
		}
	case Float:
		switch y := y.(type) {
		case Float:
			return floatOp(op, x, y)
		case Int:
			return floatOp(op, x, Float(y))
		}
	case String:
		if y, ok := y.(String); ok {
			switch op {
			case syntax.Lt:
				return Bool(x < y), nil
			case syntax.Gt:
				return Bool(x > y), nil
			case syntax.Le:
				return Bool(x <= y), nil
			case syntax.Ge:
				return Bool(x >= y), nil
			}
		}
	case Bool:
		if y, ok := y.(Bool); ok {
			switch op {
			case syntax.BitAnd:
				return x && y, nil
			case syntax.BitOr:
				return x || y, nil
			case syntax.BitXor:
				return Bool(x != y), nil
			}
		}
	}
	return nil, fmt.Errorf("unknown binary op: %s %s %s", x.Type(), op, y.Type())
}

// text returns the unquoted text of a string operand of "+".
func text(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return v.String()
}

func intOp(op syntax.BinaryOp, x, y Int) (Value, error) {
	switch op {
	case syntax.Add:
		return x + y, nil
	case syntax.Sub:
		return x - y, nil
	case syntax.Mul:
		return x * y, nil
	case syntax.Div:
		if y == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return x / y, nil
	case syntax.Mod:
		if y == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return x % y, nil
	case syntax.Shl, syntax.Shr:
		if y < 0 {
			return nil, fmt.Errorf("negative shift count: %d", y)
		}
		if op == syntax.Shl {
			return x << uint(y), nil
		}
		return x >> uint(y), nil
	case syntax.BitAnd:
		return x & y, nil
	case syntax.BitOr:
		return x | y, nil
	case syntax.BitXor:
		return x ^ y, nil
	case syntax.Lt:
		return Bool(x < y), nil
	case syntax.Gt:
		return Bool(x > y), nil
	case syntax.Le:
		return Bool(x <= y), nil
	case syntax.Ge:
		return Bool(x >= y), nil
	}
	return nil, fmt.Errorf("unknown binary op: int %s int", op)
}

func floatOp(op syntax.BinaryOp, x, y Float) (Value, error) {
	switch op {
	case syntax.Add:
		return x + y, nil
	case syntax.Sub:
		return x - y, nil
	case syntax.Mul:
		return x * y, nil
	case syntax.Div:
		return x / y, nil
	case syntax.Lt:
		return Bool(x < y), nil
	case syntax.Gt:
		return Bool(x > y), nil
	case syntax.Le:
		return Bool(x <= y), nil
	case syntax.Ge:
		return Bool(x >= y), nil
	}
	return nil, fmt.Errorf("unknown binary op: double %s double", op)
}
