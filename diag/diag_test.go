// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nalgeon/be"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"go.rcsema.net/diag"
	"go.rcsema.net/syntax"
)

var file = "unit.yaml"

func at(line, col int32) syntax.Range {
	return syntax.MakeRange(syntax.MakePosition(&file, line, col))
}

func span(line, col, endCol int32) syntax.Range {
	return syntax.Range{
		Begin: syntax.MakePosition(&file, line, col),
		End:   syntax.MakePosition(&file, line, endCol),
	}
}

func TestList(t *testing.T) {
	var l diag.List
	l.Warnf(at(3, 1), "unhandled error `%s'", "IOError")
	be.True(t, l.Err() == nil)
	l.Errorf(at(9, 2), "second")
	l.Errorf(at(2, 5), "first")
	l.Report(diag.Diagnostic{Range: at(1, 1), Severity: diag.Note, Msg: "note"})

	be.Equal(t, l.Errors, 2)
	be.Equal(t, l.Warnings, 1)
	be.True(t, l.HasErrors())
	be.Equal(t, l.Messages(diag.Warning), []string{"unhandled error `IOError'"})

	err := l.Err()
	errs, ok := err.(diag.ErrorList)
	be.True(t, ok)
	be.Equal(t, len(errs), 2)
	be.Equal(t, errs[0].Msg, "first")
	be.Equal(t, err.Error(), "unit.yaml:2:5: error: first (and 1 more errors)")
	be.Equal(t, errs[:1].Error(), "unit.yaml:2:5: error: first")
}

func TestWerror(t *testing.T) {
	l := diag.List{Werror: true}
	l.Warnf(at(1, 1), "hides")
	be.Equal(t, l.Errors, 1)
	be.Equal(t, l.Warnings, 0)
	be.Equal(t, l.Diags[0].Severity, diag.Error)
}

func TestPrinter(t *testing.T) {
	src := "class Foo {\n\tvoid f() { x = \"héllo\"; }\n}\n"
	p := &diag.Printer{
		Excerpt: true,
		Source:  func(string) ([]byte, error) { return []byte(src), nil },
	}
	var buf bytes.Buffer
	err := p.PrintAll(&buf, []diag.Diagnostic{
		{Range: span(2, 13, 14), Severity: diag.Error, Msg: "undefined name `x'"},
		{Range: span(2, 17, 24), Severity: diag.Warning, Msg: "unused"},
		{Range: at(7, 1), Severity: diag.Note, Msg: "no source line"},
	})
	be.Err(t, err, nil)
	want := "unit.yaml:2:13: error: undefined name `x'\n" +
		"    \tvoid f() { x = \"héllo\"; }\n" +
		"    \t           ^\n" +
		"unit.yaml:2:17: warning: unused\n" +
		"    \tvoid f() { x = \"héllo\"; }\n" +
		"    \t               ^~~~~~~\n" +
		"unit.yaml:7:1: note: no source line\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrinterColor(t *testing.T) {
	p := &diag.Printer{Color: true}
	var buf bytes.Buffer
	p.Print(&buf, diag.Diagnostic{Range: at(1, 1), Severity: diag.Error, Msg: "boom"})
	be.Equal(t, buf.String(), "unit.yaml:1:1: \x1b[1;31merror\x1b[0m: boom\n")
}

func TestJSON(t *testing.T) {
	data, err := diag.JSON([]diag.Diagnostic{
		{Range: at(4, 7), Severity: diag.Warning, Msg: "unhandled error `E'"},
	})
	be.Err(t, err, nil)

	var v structpb.Value
	be.Err(t, protojson.Unmarshal(data, &v), nil)
	got := v.AsInterface()
	want := map[string]interface{}{
		"diagnostics": []interface{}{
			map[string]interface{}{
				"file":     "unit.yaml",
				"line":     4.0,
				"column":   7.0,
				"severity": "warning",
				"message":  "unhandled error `E'",
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}
