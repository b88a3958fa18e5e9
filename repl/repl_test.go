// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repl_test

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"go.rcsema.net/check"
	"go.rcsema.net/diag"
	"go.rcsema.net/load"
	"go.rcsema.net/repl"
	"go.rcsema.net/syntax"
)

const unit = `
classes:
  - name: Counter
    base: [GLib.Object]
    fields: ["int count"]
    methods:
      - name: twice
        static: true
        params: ["int n"]
        returns: int
        body:
          - int r = 0;
          - for: "int i = 0; i < 2; i++"
            body: r += n;
          - return r;
methods:
  - name: greet
    params: ["string who"]
    returns: string
    body: return "hello " + who;
  - name: noop
    body: return;
`

func explorer(t *testing.T) *repl.Explorer {
	t.Helper()
	ctx := syntax.NewCodeContext()
	if err := load.Source(ctx, "unit.yaml", []byte(unit)); err != nil {
		t.Fatal(err)
	}
	list := new(diag.List)
	check.Unit(ctx, nil, list)
	be.Equal(t, list.Errors, 0)
	return &repl.Explorer{Ctx: ctx, Diags: list, MaxSteps: 10000}
}

func exec(t *testing.T, x *repl.Explorer, line string) (string, error) {
	var buf strings.Builder
	err := x.Exec(&buf, line)
	return buf.String(), err
}

func TestExplorer(t *testing.T) {
	x := explorer(t)

	out, err := exec(t, x, "members Counter")
	be.Err(t, err, nil)
	be.True(t, strings.Contains(out, "count field\n"))
	be.True(t, strings.Contains(out, "twice method\n"))

	out, err = exec(t, x, "lookup Counter.twice")
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(out, "method Counter.twice (unit.yaml:"))

	out, err = exec(t, x, "body Counter.twice")
	be.Err(t, err, nil)
	be.True(t, strings.Contains(out, "loop {"))
	be.True(t, !strings.Contains(out, "for ("))

	out, err = exec(t, x, "call Counter.twice 21")
	be.Err(t, err, nil)
	be.Equal(t, out, "42\n")

	out, err = exec(t, x, `call greet "world"`)
	be.Err(t, err, nil)
	be.Equal(t, out, "\"hello world\"\n")

	out, err = exec(t, x, "call noop")
	be.Err(t, err, nil)
	be.Equal(t, out, "")

	out, err = exec(t, x, "diag")
	be.Err(t, err, nil)
	be.Equal(t, out, "0 errors, 0 warnings\n")

	out, err = exec(t, x, "")
	be.Err(t, err, nil)
	be.Equal(t, out, "")
}

func TestExplorerErrors(t *testing.T) {
	x := explorer(t)
	for _, test := range []struct {
		line, want string
	}{
		{"lookup Nope", "undefined: Nope"},
		{"lookup", "usage: lookup NAME"},
		{"body Counter", "Counter is a class, not a method"},
		{"call Counter.twice x", "invalid argument x"},
		{"call Counter.twice", "got 0 arguments, want 1"},
		{"frobnicate", `unknown command "frobnicate"`},
	} {
		_, err := exec(t, x, test.line)
		if err == nil {
			t.Errorf("%q: got no error", test.line)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%q: got %q, want %q", test.line, err, test.want)
		}
	}

	_, err := exec(t, x, "quit")
	be.True(t, repl.IsQuit(err))
}

func TestHelp(t *testing.T) {
	out, err := exec(t, explorer(t), "help")
	be.Err(t, err, nil)
	for _, cmd := range []string{"lookup", "members", "body", "call", "diag", "help", "quit"} {
		be.True(t, strings.Contains(out, cmd+" "))
	}
}
