// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chunkedfile

import (
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

type testReporter struct {
	reported []string
}

func (r *testReporter) Errorf(format string, args ...interface{}) {
	r.reported = append(r.reported, fmt.Sprintf(format, args...))
}

const golden = `fields: ["int x = 1 / 0"] ### "division by zero"
---
fields: ["int x = 1"]
methods: [{name: m}] ### "no body" "no.*type"
`

func TestSplit(t *testing.T) {
	r := new(testReporter)
	chunks := split("unit.yaml", golden, r, "\n")
	be.Equal(t, len(r.reported), 0)
	be.Equal(t, len(chunks), 2)

	be.Equal(t, chunks[0].Line, 1)
	be.Equal(t, chunks[0].Source, `fields: ["int x = 1 / 0"] ### "division by zero"`)
	be.Equal(t, len(chunks[0].expect[1]), 1)

	// padding keeps line numbers of the golden file
	be.Equal(t, chunks[1].Line, 3)
	be.Equal(t, chunks[1].Source, "\n\nfields: [\"int x = 1\"]\nmethods: [{name: m}] ### \"no body\" \"no.*type\"\n")
	be.Equal(t, len(chunks[1].expect[4]), 2)
}

func TestGotError(t *testing.T) {
	r := new(testReporter)
	chunks := split("unit.yaml", golden, r, "\n")

	first := chunks[0]
	first.GotError(1, "division by zero")
	be.Equal(t, len(r.reported), 0)
	first.GotError(1, "division by zero")
	be.Equal(t, r.reported, []string{"\nunit.yaml:1: unexpected error: division by zero"})
	first.Done()
	be.Equal(t, len(r.reported), 1)

	// expectations of one line are matched in any order
	r.reported = nil
	second := chunks[1]
	second.GotError(4, "no return type")
	second.GotError(4, "no body")
	second.Done()
	be.Equal(t, len(r.reported), 0)

	r.reported = nil
	chunks = split("unit.yaml", golden, r, "\n")
	second = chunks[1]
	second.GotError(4, "something else")
	second.GotError(123, "foobar")
	second.Done()
	be.Equal(t, r.reported, []string{
		"\nunit.yaml:4: error \"something else\" does not match pattern \"no body\"",
		"\nunit.yaml:123: unexpected error: foobar",
		"\nunit.yaml:4: expected error matching \"no.*type\"",
	})
}

func TestMalformedExpectations(t *testing.T) {
	r := new(testReporter)
	chunks := split("unit.yaml", "a ###\nb ### not quoted\nc ### \"(\"\n", r, "\n")
	be.Equal(t, len(chunks), 1)
	be.Equal(t, len(chunks[0].expect), 0)
	be.Equal(t, len(r.reported), 3)
	be.Equal(t, r.reported[0], "\nunit.yaml:1: no pattern after ###")
	be.Equal(t, r.reported[1], "\nunit.yaml:2: not a quoted regexp: not quoted")
}
