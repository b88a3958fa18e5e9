// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check_test

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"go.rcsema.net/check"
	"go.rcsema.net/diag"
	"go.rcsema.net/internal/chunkedfile"
	"go.rcsema.net/load"
	"go.rcsema.net/syntax"
)

// TestCheck runs the checker over the chunked files in testdata and
// compares the reported errors with the "###" expectations.
func TestCheck(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test files")
	}
	for _, filename := range files {
		for _, chunk := range chunkedfile.Read(filename, t) {
			ctx := syntax.NewCodeContext()
			if err := load.Source(ctx, filename, []byte(chunk.Source)); err != nil {
				t.Error(err)
				continue
			}
			var list diag.List
			check.Unit(ctx, nil, &list)
			for _, d := range list.Diags {
				if d.Severity == diag.Error {
					chunk.GotError(int(d.Range.Begin.Line), d.Msg)
				}
			}
			chunk.Done()
		}
	}
}

// checkSource loads and checks src, failing the test on load errors.
func checkSource(t *testing.T, src string) (*syntax.CodeContext, *diag.List) {
	t.Helper()
	ctx := syntax.NewCodeContext()
	if err := load.Source(ctx, "t.yaml", []byte(src)); err != nil {
		t.Fatal(err)
	}
	list := new(diag.List)
	check.Unit(ctx, nil, list)
	return ctx, list
}

func lookup(ctx *syntax.CodeContext, name string) syntax.Symbol {
	var sym syntax.Symbol = ctx.Root
	for _, part := range strings.Split(name, ".") {
		sym = sym.Sym().Scope().LookupLocal(part)
		if sym == nil {
			return nil
		}
	}
	return sym
}

// body returns the outline of the statements of the named method.
func body(t *testing.T, ctx *syntax.CodeContext, name string) string {
	t.Helper()
	m, ok := lookup(ctx, name).(*syntax.Method)
	if !ok {
		t.Fatalf("no method %s", name)
	}
	var buf strings.Builder
	for _, s := range m.Body.Stmts {
		buf.WriteString(syntax.OutlineString(s))
	}
	return buf.String()
}

func TestUnitResult(t *testing.T) {
	ctx := syntax.NewCodeContext()
	if err := load.Source(ctx, "t.yaml", []byte("methods:\n  - {name: f, body: \"break;\"}\n")); err != nil {
		t.Fatal(err)
	}
	var list diag.List
	err := check.Unit(ctx, nil, &list)
	errs, ok := err.(diag.ErrorList)
	be.True(t, ok)
	be.Equal(t, len(errs), 1)
	be.Equal(t, errs[0].Msg, "break statement not within loop or switch")
	be.Equal(t, list.Errors, 1)

	ctx, list2 := checkSource(t, "methods:\n  - {name: f, body: \"return;\"}\n")
	be.Equal(t, list2.Errors, 0)
	be.True(t, lookup(ctx, "f").(*syntax.Method).Checked)
}

func TestCheckIsIdempotent(t *testing.T) {
	ctx, list := checkSource(t, `
errordomains:
  - {name: IOError, codes: [FAILED, CLOSED]}
methods:
  - name: fail
    params: ["bool closed"]
    throws: [IOError]
    body:
      - if: closed
        then: throw new IOError.CLOSED ("x");
      - throw new IOError.FAILED ("y");
classes:
  - name: Animal
    base: [GLib.Object]
    abstract: true
    methods:
      - {name: speak, abstract: true}
  - name: Cat
    base: [Animal]
  - name: Dog
    base: [Animal]
    methods:
      - {name: speak, override: true, body: ""}
`)
	be.Equal(t, list.Messages(diag.Error), []string{"`Cat' does not implement abstract method `Animal.speak'"})
	n := len(list.Diags)
	fail := lookup(ctx, "fail").(*syntax.Method)
	errorSet := func() []string {
		var names []string
		for _, e := range fail.Body.ErrorTypes().Types() {
			names = append(names, e.String())
		}
		return names
	}
	be.Equal(t, errorSet(), []string{"IOError.CLOSED", "IOError.FAILED"})

	be.Equal(t, check.Unit(ctx, nil, list), nil)
	be.Equal(t, len(list.Diags), n)
	be.Equal(t, errorSet(), []string{"IOError.CLOSED", "IOError.FAILED"})

	ok, err := check.Node(ctx, nil, list, lookup(ctx, "Cat"))
	be.True(t, !ok)
	be.Equal(t, err, nil)
	ok, err = check.Node(ctx, nil, list, lookup(ctx, "Dog"))
	be.True(t, ok)
	be.Equal(t, err, nil)
	ok, err = check.Node(ctx, nil, list, fail)
	be.True(t, ok)
	be.Equal(t, err, nil)
	be.Equal(t, len(list.Diags), n)
	be.Equal(t, errorSet(), []string{"IOError.CLOSED", "IOError.FAILED"})
}

func TestLowerWhile(t *testing.T) {
	ctx, list := checkSource(t, `
methods:
  - name: f
    params: ["int n"]
    body:
      - int i = 0;
      - while: i < n
        body: i++;
      - while: true
        body: break;
`)
	be.Equal(t, list.Errors, 0)
	be.Equal(t, body(t, ctx, "f"), `int i = 0;
loop {
  if (!(i < n)) {
    break;
  }
  i++;
}
loop {
  break;
}
`)
}

func TestLowerDo(t *testing.T) {
	ctx, list := checkSource(t, `
methods:
  - name: f
    params: ["int n"]
    body:
      - int i = 0;
      - do: i++;
        while: i < n
`)
	be.Equal(t, list.Errors, 0)
	be.Equal(t, body(t, ctx, "f"), `int i = 0;
{
  bool _tmp0_ = true;
  loop {
    if (!_tmp0_) {
      if (!(i < n)) {
        break;
      }
    }
    _tmp0_ = false;
    i++;
  }
}
`)
}

func TestLowerFor(t *testing.T) {
	ctx, list := checkSource(t, `
methods:
  - name: f
    params: ["int n"]
    returns: int
    body:
      - int s = 0;
      - for: "int i = 0; i < n; i++"
        body: s += i;
      - return s;
`)
	be.Equal(t, list.Errors, 0)
	be.Equal(t, body(t, ctx, "f"), `int s = 0;
{
  int i = 0;
  bool _tmp0_ = true;
  loop {
    if (!_tmp0_) {
      i++;
    }
    _tmp0_ = false;
    if (!(i < n)) {
      break;
    }
    s += i;
  }
}
return s;
`)
}

func TestLowerLock(t *testing.T) {
	ctx, list := checkSource(t, `
classes:
  - name: Account
    base: [GLib.Object]
    fields: ["int balance"]
    methods:
      - name: deposit
        body:
          - lock: balance
            body: balance += 1;
`)
	be.Equal(t, list.Errors, 0)
	be.Equal(t, body(t, ctx, "Account.deposit"), `{
  lock (balance);
  try {
    balance += 1;
  } finally {
    unlock (balance);
  }
}
`)
}

func TestLockRequiresInstanceMember(t *testing.T) {
	_, list := checkSource(t, `
methods:
  - name: f
    body: int x = 0; lock (x);
`)
	be.Equal(t, list.Messages(diag.Error), []string{
		"Expression is either not a member access or does not denote a lockable member",
	})
}

// TestLoopsAreLowered checks that no loop or lock with a body
// survives checking.
func TestLoopsAreLowered(t *testing.T) {
	ctx, list := checkSource(t, `
classes:
  - name: Worker
    base: [GLib.Object]
    fields: ["int jobs"]
    methods:
      - name: run
        params: ["int n"]
        body:
          - int total = 0;
          - for: "int i = 0; i < n; i++"
            body:
              - while: total < i
                body: total++;
          - do:
              - foreach: "int x in new int[] {1, 2, 3}"
                body: total += x;
            while: total < 10
          - lock: jobs
            body:
              - foreach: "var y in new string[] {\"a\"}"
                body: "jobs++;"
`)
	be.Equal(t, list.Errors, 0)
	run := lookup(ctx, "Worker.run").(*syntax.Method)
	syntax.Walk(run, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.WhileStmt, *syntax.DoStmt, *syntax.ForStmt, *syntax.ForeachStmt:
			t.Errorf("%T survived checking", n)
		case *syntax.LockStmt:
			if n.Body != nil {
				t.Errorf("lock with body survived checking")
			}
		}
		return true
	})
}

const bag = `
classes:
  - name: BagIter
    base: [GLib.Object]
    methods:
      - {name: next, returns: bool, body: return false;}
      - {name: get, returns: int, body: return 0;}
  - name: Bag
    base: [GLib.Object]
    properties:
      - {name: size, type: int, get: true}
    methods:
      - name: get
        params: ["int index"]
        returns: int
        body: return index;
      - {name: iterator, returns: BagIter, body: return null;}
  - name: Stream
    base: [GLib.Object]
    methods:
      - {name: iterator, returns: BagIter, body: return null;}
methods:
  - name: sum
    params: ["Bag bag", "Stream stream", "GLib.List<int> list"]
    returns: int
    body:
      - int total = 0;
      - foreach: int x in bag
        body: total += x;
      - foreach: int y in stream
        body: total += y;
      - foreach: int z in list
        body: total += z;
      - return total;
`

func TestForeachProtocols(t *testing.T) {
	ctx, list := checkSource(t, bag)
	be.Equal(t, list.Errors, 0)

	locals := make(map[string]bool)
	syntax.Walk(lookup(ctx, "sum"), func(n syntax.Node) bool {
		if d, ok := n.(*syntax.DeclarationStmt); ok {
			locals[d.Var.Name] = true
		}
		return true
	})
	// bag has both get/size and iterator(); the indexed protocol wins.
	be.True(t, locals["_x_list"] && locals["_x_size"] && locals["_x_index"])
	be.True(t, !locals["_x_it"])
	be.True(t, locals["_y_it"])
	be.True(t, locals["_z_collection"] && locals["_z_index"])
}

func TestForeachSizeMustBeInteger(t *testing.T) {
	ctx, list := checkSource(t, `
classes:
  - name: LabelIter
    base: [GLib.Object]
    methods:
      - {name: next, returns: bool, body: return false;}
      - {name: get, returns: int, body: return 0;}
  - name: Labels
    base: [GLib.Object]
    properties:
      - {name: size, type: string, get: true}
    methods:
      - name: get
        params: ["int index"]
        returns: int
        body: return index;
      - {name: iterator, returns: LabelIter, body: return null;}
methods:
  - name: total
    params: ["Labels labels"]
    returns: int
    body:
      - int n = 0;
      - foreach: int x in labels
        body: n += x;
      - return n;
`)
	be.Equal(t, list.Errors, 0)
	locals := make(map[string]bool)
	syntax.Walk(lookup(ctx, "total"), func(n syntax.Node) bool {
		if d, ok := n.(*syntax.DeclarationStmt); ok {
			locals[d.Var.Name] = true
		}
		return true
	})
	// a string size does not select the indexed protocol
	be.True(t, locals["_x_it"])
	be.True(t, !locals["_x_list"] && !locals["_x_size"])
}

func TestForeachNotIterable(t *testing.T) {
	_, list := checkSource(t, `
methods:
  - name: f
    params: ["int n"]
    body:
      - foreach: int x in n
        body: ""
`)
	be.Equal(t, list.Messages(diag.Error), []string{"`int' is not iterable"})
}

func TestUnhandledError(t *testing.T) {
	_, list := checkSource(t, `
errordomains:
  - name: IOError
    codes: [FAILED]
methods:
  - name: f
    body: throw new IOError.FAILED ("x");
  - name: g
    throws: [IOError]
    body: throw new IOError.FAILED ("x");
  - name: h
    body:
      - try: throw new IOError.FAILED ("x");
        catch:
          - {type: IOError, var: e, body: ""}
`)
	be.Equal(t, list.Errors, 0)
	be.Equal(t, list.Messages(diag.Warning), []string{"unhandled error `IOError.FAILED'"})
}

func TestDynamicErrorsAreNotReported(t *testing.T) {
	_, list := checkSource(t, `
errordomains:
  - name: IOError
    codes: [FAILED]
methods:
  - {name: poll, external: true, throws: ["dynamic IOError"]}
  - {name: f, body: "poll ();"}
  - name: g
    body: throw new IOError.FAILED ("x");
`)
	be.Equal(t, list.Errors, 0)
	be.Equal(t, list.Messages(diag.Warning), []string{"unhandled error `IOError.FAILED'"})
}

// TestCatchOrder checks that each catch clause removes the errors it
// handles before the next clause is considered, and that errors thrown
// by a clause propagate.
func TestCatchOrder(t *testing.T) {
	ctx, list := checkSource(t, `
errordomains:
  - {name: IOError, codes: [FAILED, CLOSED]}
  - {name: NetError, codes: [DOWN]}
methods:
  - name: partial
    params: ["bool flag"]
    body:
      - try:
          - if: flag
            then: throw new IOError.FAILED ("a");
          - throw new IOError.CLOSED ("b");
        catch:
          - {type: IOError.FAILED, body: ""}
          - {type: NetError, body: ""}
  - name: rethrow
    params: ["bool flag"]
    body:
      - try:
          - if: flag
            then: throw new IOError.FAILED ("a");
          - throw new IOError.CLOSED ("b");
        catch:
          - {type: IOError.FAILED, body: ""}
          - {type: IOError, var: e, body: throw e;}
`)
	be.Equal(t, list.Errors, 0)
	be.Equal(t, list.Messages(diag.Warning), []string{
		"unhandled error `IOError.CLOSED'",
		"unhandled error `IOError'",
	})

	outstanding := func(name string) []string {
		var names []string
		syntax.Walk(lookup(ctx, name), func(n syntax.Node) bool {
			if s, ok := n.(*syntax.TryStmt); ok {
				for _, e := range s.ErrorTypes().Types() {
					names = append(names, e.String())
				}
				return false
			}
			return true
		})
		return names
	}
	be.Equal(t, outstanding("partial"), []string{"IOError.CLOSED"})
	be.Equal(t, outstanding("rethrow"), []string{"IOError"})
}

func TestDuplicateImplementationNote(t *testing.T) {
	_, list := checkSource(t, `
interfaces:
  - name: Shape
    methods:
      - {name: area, abstract: true, returns: double}
classes:
  - name: Tile
    base: [GLib.Object, Shape]
    methods:
      - {name: area, implements: Shape, returns: double, body: return 1.0;}
      - {name: area, implements: Shape, returns: double, body: return 2.0;}
`)
	be.Equal(t, list.Messages(diag.Error), []string{"`Tile' already contains an implementation for `Shape.area'"})
	be.Equal(t, list.Messages(diag.Note), []string{"previous implementation of `Shape.area' was here"})
	var errLine, noteLine int
	for _, d := range list.Diags {
		switch d.Severity {
		case diag.Error:
			errLine = int(d.Range.Begin.Line)
		case diag.Note:
			noteLine = int(d.Range.Begin.Line)
		}
	}
	be.Equal(t, noteLine, 10)
	be.Equal(t, errLine, 11)
}

func TestUnrelatedTypeParameters(t *testing.T) {
	_, list := checkSource(t, `
classes:
  - name: Holder
    base: [GLib.Object]
    type_params: [G]
    methods:
      - {name: get, virtual: true, returns: G, body: return null;}
  - name: Raw
    base: [Holder]
    type_params: [K]
    methods:
      - {name: get, override: true, returns: K, body: return null;}
`)
	errs := list.Messages(diag.Error)
	be.Equal(t, len(errs), 2)
	be.Equal(t, errs[0], "internal error: type parameter `G' compared with unrelated type parameter `K'")
	be.True(t, strings.HasPrefix(errs[1], "overriding method `Raw.get' is incompatible"))
}

func TestHiddenMembers(t *testing.T) {
	_, list := checkSource(t, `
classes:
  - name: Base
    base: [GLib.Object]
    fields: ["int size", "private int secret"]
    methods:
      - {name: show, body: ""}
      - {name: draw, body: ""}
  - name: Derived
    base: [Base]
    fields: ["int size", "int secret"]
    methods:
      - {name: show, body: ""}
      - {name: draw, new: true, body: ""}
`)
	be.Equal(t, list.Errors, 0)
	warnings := list.Messages(diag.Warning)
	sort.Strings(warnings)
	be.Equal(t, warnings, []string{
		"Derived.show hides inherited method `Base.show'. Use the `new' keyword if hiding was intentional",
		"Derived.size hides inherited field `Base.size'. Use the `new' keyword if hiding was intentional",
	})
}

func TestEntryPoint(t *testing.T) {
	_, list := checkSource(t, `
methods:
  - {name: main, body: ""}
namespaces:
  - name: App
    methods:
      - {name: main, body: ""}
`)
	be.Equal(t, len(list.Messages(diag.Error)), 1)
	be.True(t, strings.HasPrefix(list.Messages(diag.Error)[0], "program already has an entry point"))

	ctx := syntax.NewCodeContext()
	if err := load.Source(ctx, "t.yaml", []byte("methods:\n  - {name: start, body: \"\"}\n")); err != nil {
		t.Fatal(err)
	}
	var l diag.List
	be.Equal(t, check.Unit(ctx, &check.Options{EntryPoint: "start"}, &l), nil)
	be.Equal(t, ctx.EntryPoint, lookup(ctx, "start").(*syntax.Method))
}
