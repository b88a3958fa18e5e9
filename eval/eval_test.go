// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nalgeon/be"

	"go.rcsema.net/check"
	"go.rcsema.net/diag"
	"go.rcsema.net/eval"
	"go.rcsema.net/load"
	"go.rcsema.net/syntax"
)

// unit loads and checks src, failing the test on any error.
func unit(t *testing.T, src string) *syntax.CodeContext {
	t.Helper()
	ctx := syntax.NewCodeContext()
	if err := load.Source(ctx, "prog.yaml", []byte(src)); err != nil {
		t.Fatal(err)
	}
	var list diag.List
	if err := check.Unit(ctx, nil, &list); err != nil {
		t.Fatalf("check: %v", list.Messages(diag.Error))
	}
	return ctx
}

func method(t *testing.T, ctx *syntax.CodeContext, name string) *syntax.Method {
	t.Helper()
	var sym syntax.Symbol = ctx.Root
	for _, part := range strings.Split(name, ".") {
		if sym = sym.Sym().Scope().LookupLocal(part); sym == nil {
			t.Fatalf("no symbol %s", name)
		}
	}
	m, ok := sym.(*syntax.Method)
	if !ok {
		t.Fatalf("%s is a %T", name, sym)
	}
	return m
}

func call(t *testing.T, ctx *syntax.CodeContext, name string, args ...eval.Value) eval.Value {
	t.Helper()
	v, err := eval.Call(&eval.Thread{Name: t.Name()}, method(t, ctx, name), args...)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return v
}

const loops = `
methods:
  - name: runs
    params: ["int start"]
    returns: int
    body:
      - int x = start;
      - int n = 0;
      - do: x++; n++;
        while: x < 3
      - return n;
  - name: sum
    params: ["int n"]
    returns: int
    body:
      - int s = 0;
      - for: "int i = 0; i < n; i++"
        body: s += i;
      - return s;
  - name: odd_total
    returns: int
    body:
      - int total = 0;
      - foreach: "int x in new int[] {1, 2, 3, 4, 5}"
        body:
          - if: x % 2 == 0
            then: continue;
          - total += x;
      - return total;
  - name: root_above
    params: ["int limit"]
    returns: int
    body:
      - int i = 0;
      - while: true
        body:
          - if: i * i > limit
            then: break;
          - ++i;
      - return i;
`

// TestDoRunsBodyFirst checks that the body of a do statement runs
// before its condition is first evaluated.
func TestDoRunsBodyFirst(t *testing.T) {
	ctx := unit(t, loops)
	be.Equal(t, call(t, ctx, "runs", eval.Int(0)), eval.Value(eval.Int(3)))
	be.Equal(t, call(t, ctx, "runs", eval.Int(5)), eval.Value(eval.Int(1)))
}

func TestLoops(t *testing.T) {
	ctx := unit(t, loops)
	be.Equal(t, call(t, ctx, "sum", eval.Int(5)), eval.Value(eval.Int(10)))
	be.Equal(t, call(t, ctx, "sum", eval.Int(0)), eval.Value(eval.Int(0)))
	be.Equal(t, call(t, ctx, "odd_total"), eval.Value(eval.Int(9)))
	be.Equal(t, call(t, ctx, "root_above", eval.Int(50)), eval.Value(eval.Int(8)))
}

func TestSwitch(t *testing.T) {
	ctx := unit(t, `
methods:
  - name: classify
    params: ["int n"]
    returns: string
    body:
      - string r = "many";
      - switch: n
        cases:
          - case: [0]
            body: r = "none"; break;
          - case: [1, 2]
            body: r = "few"; break;
          - default: true
            body: break;
      - return r;
`)
	var got []string
	for i := 0; i < 4; i++ {
		v := call(t, ctx, "classify", eval.Int(i))
		got = append(got, string(v.(eval.String)))
	}
	want := []string{"none", "few", "few", "many"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classify mismatch (-want +got):\n%s", diff)
	}
}

const errorsSrc = `
errordomains:
  - name: IOError
    codes: [FAILED, CLOSED]
fields: ["int cleanups = 0"]
methods:
  - name: fail
    params: ["int how"]
    throws: [IOError]
    body:
      - if: how == 1
        then: throw new IOError.FAILED ("failed");
      - if: how == 2
        then: throw new IOError.CLOSED ("closed");
  - name: attempt
    params: ["int how"]
    returns: int
    body:
      - int r = -1;
      - try: fail (how);
        catch:
          - type: IOError
            var: e
            body: r = e.code;
        finally: cleanups++;
      - return r;
  - name: count
    returns: int
    body: return cleanups;
  - name: crash
    throws: [IOError]
    body: fail (2);
`

func TestTryCatchFinally(t *testing.T) {
	ctx := unit(t, errorsSrc)
	var got []eval.Value
	thread := new(eval.Thread)
	for i := 0; i < 3; i++ {
		v, err := eval.Call(thread, method(t, ctx, "attempt"), eval.Int(i))
		be.Err(t, err, nil)
		got = append(got, v)
	}
	want := []eval.Value{eval.Int(-1), eval.Int(0), eval.Int(1)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attempt mismatch (-want +got):\n%s", diff)
	}

	// Static fields keep their values for the lifetime of the thread.
	v, err := eval.Call(thread, method(t, ctx, "count"))
	be.Err(t, err, nil)
	be.Equal(t, v, eval.Value(eval.Int(3)))
}

func TestUncaughtError(t *testing.T) {
	ctx := unit(t, errorsSrc)
	_, err := eval.Call(new(eval.Thread), method(t, ctx, "crash"))
	var thrown *eval.Thrown
	be.True(t, errors.As(err, &thrown))
	be.Equal(t, thrown.Value.Message, "closed")
	be.Equal(t, syntax.FullName(thrown.Value.Code), "IOError.CLOSED")
	be.Equal(t, err.Error(), `uncaught error IOError.CLOSED("closed")`)
}

func TestRecursion(t *testing.T) {
	ctx := unit(t, `
methods:
  - name: fib
    params: ["int n"]
    returns: int
    body:
      - if: n < 2
        then: return n;
      - return fib (n - 1) + fib (n - 2);
`)
	be.Equal(t, call(t, ctx, "fib", eval.Int(10)), eval.Value(eval.Int(55)))
}

func TestArraysAndMembers(t *testing.T) {
	ctx := unit(t, `
enums:
  - name: Color
    values: [RED, GREEN = 5, BLUE]
constants: ["int SCALE = 3"]
methods:
  - name: squares
    params: ["int n"]
    returns: int
    body:
      - int[] a = new int[n];
      - for: "int i = 0; i < a.length; i++"
        body: a[i] = i * i * SCALE;
      - return a[n - 1];
  - name: blue
    returns: int
    body: return Color.BLUE;
  - name: size
    params: ["string s"]
    returns: int
    body: return s.length;
  - name: half
    params: ["int n"]
    returns: double
    body: return n / 2.0;
`)
	be.Equal(t, call(t, ctx, "squares", eval.Int(4)), eval.Value(eval.Int(27)))
	be.Equal(t, call(t, ctx, "blue"), eval.Value(eval.Int(6)))
	be.Equal(t, call(t, ctx, "size", eval.String("hello")), eval.Value(eval.Int(5)))
	be.Equal(t, call(t, ctx, "half", eval.Int(3)), eval.Value(eval.Float(1.5)))
}

func TestEvalError(t *testing.T) {
	ctx := unit(t, `
methods:
  - name: div
    params: ["int a", "int b"]
    returns: int
    body: return a / b;
  - name: outer
    returns: int
    body: return div (1, 0);
  - name: spin
    body:
      - int x = 0;
      - loop: x++;
`)
	_, err := eval.Call(new(eval.Thread), method(t, ctx, "outer"))
	var evalErr *eval.EvalError
	be.True(t, errors.As(err, &evalErr))
	be.Equal(t, evalErr.Msg, "division by zero")
	bt := evalErr.Backtrace()
	be.True(t, strings.HasPrefix(bt, "Traceback (most recent call last):\n"))
	be.True(t, strings.Contains(bt, ": in outer\n"))
	be.True(t, strings.Contains(bt, ": in div\n"))
	be.True(t, strings.HasSuffix(bt, "Error: division by zero"))

	thread := &eval.Thread{MaxSteps: 1000}
	_, err = eval.Call(thread, method(t, ctx, "spin"))
	be.True(t, err != nil)
	be.Equal(t, err.Error(), "too many steps")
	be.True(t, thread.Steps() > 1000)
}

func TestCallRequiresCheckedMethod(t *testing.T) {
	ctx := syntax.NewCodeContext()
	if err := load.Source(ctx, "prog.yaml", []byte("methods:\n  - {name: f, body: \"return;\"}\n")); err != nil {
		t.Fatal(err)
	}
	_, err := eval.Call(new(eval.Thread), method(t, ctx, "f"))
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "has not been checked"))

	_, err = eval.Call(new(eval.Thread), method(t, ctx, "f"), eval.Int(1))
	be.True(t, err != nil)
}

func TestSourceLoopsAreRejected(t *testing.T) {
	var pos syntax.Range
	m := syntax.NewMethod("spin", nil, pos, syntax.Public)
	m.Binding = syntax.StaticBinding
	loop := syntax.NewWhileStmt(syntax.NewBoolLiteral(true, pos), syntax.NewBlock(pos, syntax.NewBreakStmt(pos)), pos)
	m.SetBody(syntax.NewBlock(pos, loop))
	m.Checked = true

	_, err := eval.Call(new(eval.Thread), m)
	be.True(t, err != nil)
	be.Equal(t, err.Error(), "while statement was not lowered")
}

func TestBinary(t *testing.T) {
	for _, test := range []struct {
		op   syntax.BinaryOp
		x, y eval.Value
		want eval.Value
	}{
		{syntax.Add, eval.Int(2), eval.Int(3), eval.Int(5)},
		{syntax.Div, eval.Int(-7), eval.Int(2), eval.Int(-3)},
		{syntax.Mod, eval.Int(-7), eval.Int(2), eval.Int(-1)},
		{syntax.Mul, eval.Int(2), eval.Float(0.5), eval.Float(1)},
		{syntax.Shl, eval.Int(1), eval.Int(4), eval.Int(16)},
		{syntax.Add, eval.String("a"), eval.String("b"), eval.String("ab")},
		{syntax.Add, eval.String("n="), eval.Int(4), eval.String("n=4")},
		{syntax.Lt, eval.String("a"), eval.String("b"), eval.True},
		{syntax.Eq, eval.Int(1), eval.Float(1), eval.True},
		{syntax.Ne, eval.Null, eval.Null, eval.False},
		{syntax.BitXor, eval.True, eval.True, eval.False},
	} {
		got, err := eval.Binary(test.op, test.x, test.y)
		if err != nil {
			t.Errorf("%s %s %s: %v", test.x, test.op, test.y, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s %s %s = %s, want %s", test.x, test.op, test.y, got, test.want)
		}
	}

	_, err := eval.Binary(syntax.Div, eval.Int(1), eval.Int(0))
	be.Equal(t, err.Error(), "division by zero")
	_, err = eval.Binary(syntax.Sub, eval.String("a"), eval.Int(1))
	be.True(t, err != nil)
}

func TestCancel(t *testing.T) {
	ctx := unit(t, loops)
	thread := new(eval.Thread)
	thread.Cancel("stop")
	thread.Cancel("ignored")
	_, err := eval.Call(thread, method(t, ctx, "sum"), eval.Int(3))
	be.True(t, err != nil)
	be.Equal(t, err.Error(), "evaluation cancelled: stop")
}
