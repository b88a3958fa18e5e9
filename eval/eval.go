// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval executes checked and lowered code trees.
//
// The evaluator accepts only the canonical statement vocabulary that
// remains after checking: blocks, declarations, expression statements,
// if, loop, break, continue, return, switch, throw, try, and bodiless
// lock and unlock statements. Source-level loops and locks with bodies
// are reported as errors; they are never executed directly.
//
// Values are integers, floating-point numbers, booleans, strings,
// arrays, and thrown errors. Static methods, static fields, constants
// and enum values of the unit are supported; instance members are not.
package eval // import "go.rcsema.net/eval"

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

const debug = false

// maxCallDepth bounds the depth of nested calls.
const maxCallDepth = 10000

// A Thread contains the state of an evaluation.
type Thread struct {
	// Name is an optional name that describes the thread, for debugging.
	Name string

	// MaxSteps limits the number of statements executed by the thread.
	// Zero means no limit.
	MaxSteps uint64

	frame   *Frame
	depth   int
	steps   uint64
	statics map[syntax.Symbol]Value

	cancelReason atomic.Pointer[string]
}

// Steps returns the number of statements executed so far.
func (thread *Thread) Steps() uint64 { return thread.steps }

// Cancel causes execution of the thread to fail with an error
// mentioning reason at the next statement. It may be called from
// any goroutine.
func (thread *Thread) Cancel(reason string) {
	thread.cancelReason.CompareAndSwap(nil, &reason)
}

// A Frame holds the execution state of a single method call.
type Frame struct {
	thread *Thread
	parent *Frame          // caller's frame (or nil)
	posn   syntax.Position // position of the current statement
	fn     *syntax.Method
	locals map[syntax.Symbol]Value
	result Value // operand of the current method's return statement
}

func (fr *Frame) errorf(posn syntax.Position, format string, args ...interface{}) *EvalError {
	if posn.IsValid() {
		fr.posn = posn
	}
	return &EvalError{Msg: fmt.Sprintf(format, args...), Frame: fr}
}

// Position returns the source position of the current point of execution in this frame.
func (fr *Frame) Position() syntax.Position { return fr.posn }

// Method returns the frame's method.
func (fr *Frame) Method() *syntax.Method { return fr.fn }

// Parent returns the frame of the calling method, if any.
func (fr *Frame) Parent() *Frame { return fr.parent }

// An EvalError is an evaluation error and its associated call stack.
type EvalError struct {
	Msg   string
	Frame *Frame
}

func (e *EvalError) Error() string { return e.Msg }

// Backtrace returns a user-friendly error message describing the stack
// of calls that led to this error.
func (e *EvalError) Backtrace() string {
	var buf bytes.Buffer
	e.Frame.WriteBacktrace(&buf)
	fmt.Fprintf(&buf, "Error: %s", e.Msg)
	return buf.String()
}

// WriteBacktrace writes a user-friendly description of the stack to buf.
func (fr *Frame) WriteBacktrace(out *bytes.Buffer) {
	fmt.Fprintf(out, "Traceback (most recent call last):\n")
	var print func(fr *Frame)
	print = func(fr *Frame) {
		if fr != nil {
			print(fr.parent)
			fmt.Fprintf(out, "  %s: in %s\n", fr.posn, syntax.FullName(fr.fn))
		}
	}
	print(fr)
}

// A Thrown is an error value thrown by evaluated code that no catch
// clause handled.
type Thrown struct {
	Value *Error
	Frame *Frame // frame of the throw statement
}

func (t *Thrown) Error() string { return "uncaught error " + t.Value.String() }

// Sentinel values used for control flow.  Internal use only.
var (
	errContinue = fmt.Errorf("continue")
	errBreak    = fmt.Errorf("break")
	errReturn   = fmt.Errorf("return")
)

// Call evaluates the static method m with the given arguments and
// returns its result, or Null for a void method. The method must
// belong to a unit that was checked without errors.
//
// Evaluation errors are returned as *EvalError; an error thrown by the
// evaluated code and not caught is returned as *Thrown.
func Call(thread *Thread, m *syntax.Method, args ...Value) (Value, error) {
	if debug {
		fmt.Printf("call of %s %v\n", syntax.FullName(m), args)
	}
	switch {
	case m.Binding != syntax.StaticBinding:
		return nil, fmt.Errorf("%s is not a static method", syntax.FullName(m))
	case !m.Checked || m.Error:
		return nil, fmt.Errorf("%s has not been checked successfully", syntax.FullName(m))
	case m.Body == nil:
		return nil, fmt.Errorf("%s has no body", syntax.FullName(m))
	case len(args) != len(m.Params):
		return nil, fmt.Errorf("%s: got %d arguments, want %d", syntax.FullName(m), len(args), len(m.Params))
	}
	if thread.depth >= maxCallDepth {
		return nil, fmt.Errorf("%s: call stack too deep", syntax.FullName(m))
	}

	fr := thread.push(m)
	defer thread.pop()
	for i, p := range m.Params {
		if p.Ellipsis || p.Direction != syntax.In {
			return nil, fr.errorf(p.Pos.Begin, "parameter %s: only value parameters are supported", p.Name)
		}
		fr.locals[p] = args[i]
	}
	err := fr.execBlock(m.Body)
	switch err {
	case nil:
		return Null, nil
	case errReturn:
		return fr.result, nil
	case errBreak, errContinue:
		return nil, fr.errorf(fr.posn, "%s outside loop", err)
	}
	return nil, err
}

func (thread *Thread) push(m *syntax.Method) *Frame {
	fr := &Frame{
		thread: thread,
		parent: thread.frame,
		posn:   m.Pos.Begin,
		fn:     m,
		locals: make(map[syntax.Symbol]Value),
	}
	thread.frame = fr
	thread.depth++
	return fr
}

func (thread *Thread) pop() {
	thread.frame = thread.frame.parent
	thread.depth--
}

// -- statements --

func (fr *Frame) execBlock(b *syntax.Block) error {
	if b == nil {
		return nil
	}
	for _, s := range b.Stmts {
		if err := fr.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (fr *Frame) exec(s syntax.Stmt) error {
	thread := fr.thread
	thread.steps++
	if thread.MaxSteps > 0 && thread.steps > thread.MaxSteps {
		return fr.errorf(s.Span().Begin, "too many steps")
	}
	if reason := thread.cancelReason.Load(); reason != nil {
		return fr.errorf(s.Span().Begin, "evaluation cancelled: %s", *reason)
	}
	fr.posn = s.Span().Begin

	switch s := s.(type) {
	case *syntax.Block:
		return fr.execBlock(s)

	case *syntax.DeclarationStmt:
		v := zero(s.Var.Type)
		if s.Var.Initializer != nil {
			x, err := fr.eval(s.Var.Initializer)
			if err != nil {
				return err
			}
			v = x
		}
		fr.locals[s.Var] = v
		return nil

	case *syntax.ExprStmt:
		_, err := fr.eval(s.X)
		return err

	case *syntax.IfStmt:
		cond, err := fr.eval(s.Cond)
		if err != nil {
			return err
		}
		if Truth(cond) {
			return fr.execBlock(s.Then)
		}
		return fr.execBlock(s.Else)

	case *syntax.LoopStmt:
		for {
			switch err := fr.execBlock(s.Body); err {
			case nil, errContinue:
			case errBreak:
				return nil
			default:
				return err
			}
		}

	case *syntax.BreakStmt:
		return errBreak

	case *syntax.ContinueStmt:
		return errContinue

	case *syntax.ReturnStmt:
		fr.result = Null
		if s.Result != nil {
			x, err := fr.eval(s.Result)
			if err != nil {
				return err
			}
			fr.result = x
		}
		return errReturn

	case *syntax.SwitchStmt:
		return fr.execSwitch(s)

	case *syntax.ThrowStmt:
		x, err := fr.eval(s.Err)
		if err != nil {
			return err
		}
		e, ok := x.(*Error)
		if !ok {
			return fr.errorf(s.Pos.Begin, "throw of non-error value %s", x.Type())
		}
		return &Thrown{Value: e, Frame: fr}

	case *syntax.TryStmt:
		return fr.execTry(s)

	case *syntax.LockStmt:
		// Evaluation is single-threaded; locks have no effect.
		if s.Body != nil {
			return fr.errorf(s.Pos.Begin, "lock statement with body was not lowered")
		}
		return nil

	case *syntax.UnlockStmt:
		return nil

	case *syntax.WhileStmt, *syntax.DoStmt, *syntax.ForStmt, *syntax.ForeachStmt:
		return fr.errorf(s.Span().Begin, "%s was not lowered", stmtName(s))
	}
	panic(fmt.Sprintf("unexpected statement %T", s))
}

func stmtName(s syntax.Stmt) string {
	switch s.(type) {
	case *syntax.WhileStmt:
		return "while statement"
	case *syntax.DoStmt:
		return "do statement"
	case *syntax.ForStmt:
		return "for statement"
	}
	return "foreach statement"
}

// execSwitch runs the section whose label equals the switch value, or
// the default section. Break leaves the switch.
func (fr *Frame) execSwitch(s *syntax.SwitchStmt) error {
	x, err := fr.eval(s.Expr)
	if err != nil {
		return err
	}
	var chosen, def *syntax.SwitchSection
outer:
	for _, sec := range s.Sections {
		for _, l := range sec.Labels {
			if l.Expr == nil {
				if def == nil {
					def = sec
				}
				continue
			}
			y, err := fr.eval(l.Expr)
			if err != nil {
				return err
			}
			if Equal(x, y) {
				chosen = sec
				break outer
			}
		}
	}
	if chosen == nil {
		chosen = def
	}
	if chosen == nil {
		return nil
	}
	if err := fr.execBlock(chosen.Block); err != errBreak {
		return err
	}
	return nil
}

// execTry runs the body, then the first catch clause that handles a
// thrown error, then the finally block. A jump or error out of the
// finally block replaces the outcome of the body.
func (fr *Frame) execTry(s *syntax.TryStmt) error {
	err := fr.execBlock(s.Body)
	if t, ok := err.(*Thrown); ok {
		for _, cc := range s.Catches {
			if !t.Value.matches(cc.ErrorType) {
				continue
			}
			if cc.Var != nil {
				fr.locals[cc.Var] = t.Value
			}
			err = fr.execBlock(cc.Body)
			break
		}
	}
	if s.Finally != nil {
		result := fr.result
		if ferr := fr.execBlock(s.Finally); ferr != nil {
			return ferr
		}
		fr.result = result
	}
	return err
}

// -- expressions --

func (fr *Frame) eval(x syntax.Expr) (Value, error) {
	switch x := x.(type) {
	case *syntax.Literal:
		return literal(x), nil

	case *syntax.NameExpr:
		return fr.name(x)

	case *syntax.CallExpr:
		return fr.call(x)

	case *syntax.ObjectCreation:
		return fr.create(x)

	case *syntax.ArrayCreation:
		return fr.array(x)

	case *syntax.UnaryExpr:
		return fr.unary(x)

	case *syntax.PostfixExpr:
		lv, err := fr.lvalue(x.X)
		if err != nil {
			return nil, err
		}
		old, err := lv.get()
		if err != nil {
			return nil, err
		}
		op := syntax.Add
		if !x.Inc {
			op = syntax.Sub
		}
		v, err := Binary(op, old, Int(1))
		if err != nil {
			return nil, fr.errorf(x.Pos.Begin, "%v", err)
		}
		return old, lv.set(v)

	case *syntax.BinaryExpr:
		return fr.binary(x)

	case *syntax.AssignExpr:
		lv, err := fr.lvalue(x.LHS)
		if err != nil {
			return nil, err
		}
		y, err := fr.eval(x.RHS)
		if err != nil {
			return nil, err
		}
		if x.Op != syntax.NoOp {
			old, err := lv.get()
			if err != nil {
				return nil, err
			}
			if y, err = Binary(x.Op, old, y); err != nil {
				return nil, fr.errorf(x.Pos.Begin, "%v", err)
			}
		}
		return y, lv.set(y)

	case *syntax.ElementAccess:
		lv, err := fr.lvalue(x)
		if err != nil {
			return nil, err
		}
		return lv.get()

	case *syntax.CastExpr:
		v, err := fr.eval(x.X)
		if err != nil {
			return nil, err
		}
		return convert(v, x.Type), nil
	}
	panic(fmt.Sprintf("unexpected expression %T", x))
}

func literal(x *syntax.Literal) Value {
	switch x.Kind {
	case syntax.BoolLit:
		return Bool(x.Value.(bool))
	case syntax.IntLit:
		return Int(x.Value.(int64))
	case syntax.RealLit:
		return Float(x.Value.(float64))
	case syntax.StringLit:
		return String(x.Value.(string))
	case syntax.CharLit:
		return Int(x.Value.(rune))
	}
	return Null
}

// convert applies a numeric cast; other casts leave v unchanged.
func convert(v Value, t *syntax.DataType) Value {
	switch v := v.(type) {
	case Int:
		if types.IsFloating(t) {
			return Float(v)
		}
	case Float:
		if types.IsInteger(t) {
			return Int(v)
		}
	}
	return v
}

// staticRef reports whether x names a namespace or type rather than
// denoting a value.
func staticRef(x syntax.Expr) bool {
	n, ok := x.(*syntax.NameExpr)
	if !ok {
		return false
	}
	switch n.Symbol.(type) {
	case *syntax.Namespace, syntax.TypeSymbol:
		return true
	}
	return false
}

func (fr *Frame) name(x *syntax.NameExpr) (Value, error) {
	if x.Inner != nil && !staticRef(x.Inner) {
		recv, err := fr.eval(x.Inner)
		if err != nil {
			return nil, err
		}
		return fr.member(x, recv)
	}
	switch sym := x.Symbol.(type) {
	case *syntax.LocalVariable, *syntax.Parameter:
		if v, ok := fr.locals[sym]; ok {
			return v, nil
		}
		return nil, fr.errorf(x.Pos.Begin, "%s referenced before assignment", x.Name)
	case *syntax.Field:
		if sym.Binding == syntax.InstanceBinding {
			break
		}
		return fr.static(sym)
	case *syntax.Constant:
		if sym.Value == nil {
			return nil, fr.errorf(x.Pos.Begin, "constant %s has no value", syntax.FullName(sym))
		}
		return fr.eval(sym.Value)
	case *syntax.EnumValue:
		return fr.enumValue(sym)
	case *syntax.Method:
		return nil, fr.errorf(x.Pos.Begin, "method %s used as a value", syntax.FullName(sym))
	case nil:
		return nil, fr.errorf(x.Pos.Begin, "unresolved name %s", x.Name)
	}
	return nil, fr.errorf(x.Pos.Begin, "%s: instance members are not supported", syntax.FullName(x.Symbol))
}

// member returns the built-in member name of recv.
func (fr *Frame) member(x *syntax.NameExpr, recv Value) (Value, error) {
	switch recv := recv.(type) {
	case *Array:
		if x.Name == "length" && recv.Rank() == 1 {
			return Int(recv.Len()), nil
		}
	case String:
		if x.Name == "length" {
			return Int(len(recv)), nil
		}
	case *Error:
		switch x.Name {
		case "message":
			return String(recv.Message), nil
		case "code":
			return Int(recv.codeIndex()), nil
		}
	case NullType:
		return nil, fr.errorf(x.Pos.Begin, "member %s of null", x.Name)
	}
	return nil, fr.errorf(x.Pos.Begin, "%s has no member %s", recv.Type(), x.Name)
}

// static returns the value of the static field f, initializing it on
// first use.
func (fr *Frame) static(f *syntax.Field) (Value, error) {
	thread := fr.thread
	if v, ok := thread.statics[f]; ok {
		return v, nil
	}
	v := zero(f.Type)
	if f.Initializer != nil {
		x, err := fr.eval(f.Initializer)
		if err != nil {
			return nil, err
		}
		v = x
	}
	if thread.statics == nil {
		thread.statics = make(map[syntax.Symbol]Value)
	}
	thread.statics[f] = v
	return v, nil
}

// enumValue returns the integer value of v. Values without an explicit
// value follow their predecessor, starting at zero.
func (fr *Frame) enumValue(v *syntax.EnumValue) (Value, error) {
	e, ok := v.ParentSymbol().(*syntax.Enum)
	if !ok {
		return nil, fr.errorf(v.Pos.Begin, "enum value %s outside an enum", v.Name)
	}
	next := Int(0)
	for _, ev := range e.Values {
		cur := next
		if ev.Value != nil {
			x, err := fr.eval(ev.Value)
			if err != nil {
				return nil, err
			}
			i, ok := x.(Int)
			if !ok {
				return nil, fr.errorf(ev.Pos.Begin, "enum value %s is not an integer", ev.Name)
			}
			cur = i
		}
		if ev == v {
			return cur, nil
		}
		next = cur + 1
	}
	return nil, fr.errorf(v.Pos.Begin, "enum value %s not found", v.Name)
}

func (fr *Frame) call(x *syntax.CallExpr) (Value, error) {
	fn, _ := x.Fn.(*syntax.NameExpr)
	var m *syntax.Method
	if fn != nil {
		m, _ = fn.Symbol.(*syntax.Method)
	}
	if m == nil {
		return nil, fr.errorf(x.Pos.Begin, "invocation of %s is not supported", syntax.ExprString(x.Fn))
	}
	if m.Binding != syntax.StaticBinding {
		return nil, fr.errorf(x.Pos.Begin, "%s: instance methods are not supported", syntax.FullName(m))
	}
	if m.Body == nil {
		return nil, fr.errorf(x.Pos.Begin, "%s has no body", syntax.FullName(m))
	}
	args := make([]Value, len(x.Args))
	for i, a := range x.Args {
		v, err := fr.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	fr.posn = x.Pos.Begin
	v, err := Call(fr.thread, m, args...)
	switch err.(type) {
	case nil, *EvalError, *Thrown:
		return v, err
	}
	return nil, fr.errorf(x.Pos.Begin, "%v", err)
}

// create evaluates "new T(...)". Only error values can be created.
func (fr *Frame) create(x *syntax.ObjectCreation) (Value, error) {
	t := x.Type
	if t.Kind != syntax.ErrorType || t.Code == nil {
		return nil, fr.errorf(x.Pos.Begin, "creation of %s is not supported", t)
	}
	e := &Error{Domain: t.Domain, Code: t.Code}
	if len(x.Args) > 0 {
		v, err := fr.eval(x.Args[0])
		if err != nil {
			return nil, err
		}
		if s, ok := v.(String); ok {
			e.Message = string(s)
		}
	}
	return e, nil
}

func (fr *Frame) array(x *syntax.ArrayCreation) (Value, error) {
	if len(x.Sizes) == 0 {
		dims, elems, err := fr.initList(x.Init, x.Rank)
		if err != nil {
			return nil, err
		}
		return &Array{dims: dims, elems: elems}, nil
	}

	dims := make([]int, len(x.Sizes))
	n := 1
	for i, s := range x.Sizes {
		v, err := fr.eval(s)
		if err != nil {
			return nil, err
		}
		size, ok := v.(Int)
		if !ok || size < 0 {
			return nil, fr.errorf(s.Span().Begin, "invalid array size %s", v)
		}
		dims[i] = int(size)
		n *= int(size)
	}
	a := &Array{dims: dims, elems: make([]Value, n)}
	for i := range a.elems {
		a.elems[i] = zero(x.Elem)
	}
	if x.Init != nil {
		_, elems, err := fr.initList(x.Init, x.Rank)
		if err != nil {
			return nil, err
		}
		if len(elems) != n {
			return nil, fr.errorf(x.Pos.Begin, "initializer has %d elements, want %d", len(elems), n)
		}
		copy(a.elems, elems)
	}
	return a, nil
}

// initList evaluates a possibly nested initializer list of the given
// rank and returns its dimensions and elements in row-major order.
func (fr *Frame) initList(list []syntax.Expr, rank int) ([]int, []Value, error) {
	if rank <= 1 {
		elems := make([]Value, len(list))
		for i, e := range list {
			v, err := fr.eval(e)
			if err != nil {
				return nil, nil, err
			}
			elems[i] = v
		}
		return []int{len(list)}, elems, nil
	}
	dims := make([]int, rank)
	dims[0] = len(list)
	var elems []Value
	for i, e := range list {
		row, ok := e.(*syntax.ArrayCreation)
		if !ok || row.Elem != nil {
			return nil, nil, fr.errorf(e.Span().Begin, "initializer list expected")
		}
		d, v, err := fr.initList(row.Init, rank-1)
		if err != nil {
			return nil, nil, err
		}
		for j := range d {
			if i > 0 && d[j] != dims[j+1] {
				return nil, nil, fr.errorf(e.Span().Begin, "rows of unequal length in initializer")
			}
			dims[j+1] = d[j]
		}
		elems = append(elems, v...)
	}
	return dims, elems, nil
}

func (fr *Frame) unary(x *syntax.UnaryExpr) (Value, error) {
	if x.Op == syntax.PreInc || x.Op == syntax.PreDec {
		lv, err := fr.lvalue(x.X)
		if err != nil {
			return nil, err
		}
		old, err := lv.get()
		if err != nil {
			return nil, err
		}
		op := syntax.Add
		if x.Op == syntax.PreDec {
			op = syntax.Sub
		}
		v, err := Binary(op, old, Int(1))
		if err != nil {
			return nil, fr.errorf(x.Pos.Begin, "%v", err)
		}
		return v, lv.set(v)
	}
	v, err := fr.eval(x.X)
	if err != nil {
		return nil, err
	}
	res, err := Unary(x.Op, v)
	if err != nil {
		return nil, fr.errorf(x.Pos.Begin, "%v", err)
	}
	return res, nil
}

func (fr *Frame) binary(x *syntax.BinaryExpr) (Value, error) {
	a, err := fr.eval(x.X)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case syntax.And:
		if !Truth(a) {
			return False, nil
		}
		b, err := fr.eval(x.Y)
		if err != nil {
			return nil, err
		}
		return Bool(Truth(b)), nil
	case syntax.Or:
		if Truth(a) {
			return True, nil
		}
		b, err := fr.eval(x.Y)
		if err != nil {
			return nil, err
		}
		return Bool(Truth(b)), nil
	}
	b, err := fr.eval(x.Y)
	if err != nil {
		return nil, err
	}
	res, err := Binary(x.Op, a, b)
	if err != nil {
		return nil, fr.errorf(x.Pos.Begin, "%v", err)
	}
	return res, nil
}

// -- storage locations --

// An lvalue is a storage location whose address has been evaluated.
type lvalue struct {
	get func() (Value, error)
	set func(Value) error
}

func (fr *Frame) lvalue(x syntax.Expr) (lvalue, error) {
	switch x := x.(type) {
	case *syntax.NameExpr:
		switch sym := x.Symbol.(type) {
		case *syntax.LocalVariable, *syntax.Parameter:
			if x.Inner != nil {
				break
			}
			return lvalue{
				get: func() (Value, error) { return fr.name(x) },
				set: func(v Value) error { fr.locals[sym] = v; return nil },
			}, nil
		case *syntax.Field:
			if sym.Binding == syntax.InstanceBinding {
				break
			}
			if _, err := fr.static(sym); err != nil {
				return lvalue{}, err
			}
			return lvalue{
				get: func() (Value, error) { return fr.static(sym) },
				set: func(v Value) error { fr.thread.statics[sym] = v; return nil },
			}, nil
		}

	case *syntax.ElementAccess:
		v, err := fr.eval(x.X)
		if err != nil {
			return lvalue{}, err
		}
		index := make([]int, len(x.Index))
		for i, e := range x.Index {
			iv, err := fr.eval(e)
			if err != nil {
				return lvalue{}, err
			}
			n, ok := iv.(Int)
			if !ok {
				return lvalue{}, fr.errorf(e.Span().Begin, "index is %s, want int", iv.Type())
			}
			index[i] = int(n)
		}
		switch v := v.(type) {
		case *Array:
			off, err := v.offset(index)
			if err != nil {
				return lvalue{}, fr.errorf(x.Pos.Begin, "%v", err)
			}
			return lvalue{
				get: func() (Value, error) { return v.elems[off], nil },
				set: func(y Value) error { v.elems[off] = y; return nil },
			}, nil
		case String:
			if len(index) != 1 || index[0] < 0 || index[0] >= len(v) {
				return lvalue{}, fr.errorf(x.Pos.Begin, "string index out of range")
			}
			return lvalue{
				get: func() (Value, error) { return Int(v[index[0]]), nil },
				set: func(Value) error { return fr.errorf(x.Pos.Begin, "strings are immutable") },
			}, nil
		}
		return lvalue{}, fr.errorf(x.Pos.Begin, "cannot index %s", v.Type())
	}
	return lvalue{}, fr.errorf(x.Span().Begin, "unsupported assignment target %s", syntax.ExprString(x))
}
