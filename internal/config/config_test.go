// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nalgeon/be"

	"go.rcsema.net/check"
	"go.rcsema.net/diag"
	"go.rcsema.net/internal/config"
)

func TestParse(t *testing.T) {
	cfg, err := config.Parse("rcsema.yaml", []byte(`
entry_point: start
werror: true
non_null: true
max_errors: 2
color: never
format: json
context_lines: 0
`))
	be.Err(t, err, nil)
	want := &config.Config{
		EntryPoint: "start",
		Werror:     true,
		NonNull:    true,
		MaxErrors:  2,
		Color:      "never",
		Format:     config.JSON,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	be.Equal(t, cfg.Options(), &check.Options{EntryPoint: "start", NonNull: true})
	be.Equal(t, cfg.Printer(os.Stdout).Excerpt, false)
	be.Equal(t, cfg.Printer(os.Stdout).Color, false)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := config.Parse("rcsema.yaml", nil)
	be.Err(t, err, nil)
	be.Equal(t, cfg, config.Default())
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		src, want string
	}{
		{"entry: main\n", "field entry not found"},
		{"color: blue\n", `color: got "blue"`},
		{"format: xml\n", `format: got "xml"`},
		{"max_errors: -1\n", "max_errors: negative value"},
		{"entry_point: \"\"\n", "entry_point: empty name"},
		{"werror: [1]\n", "rcsema.yaml"},
	} {
		_, err := config.Parse("rcsema.yaml", []byte(test.src))
		if err == nil {
			t.Errorf("%q: got no error", test.src)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%q: got error %q, want %q", test.src, err, test.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, config.DefaultFile)

	cfg, err := config.Load(missing, true)
	be.Err(t, err, nil)
	be.Equal(t, cfg, config.Default())

	_, err = config.Load(missing, false)
	be.True(t, err != nil)

	if err := os.WriteFile(missing, []byte("werror: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = config.Load(missing, false)
	be.Err(t, err, nil)
	be.True(t, cfg.Werror)
	be.Equal(t, cfg.EntryPoint, "main")
}

func TestLimit(t *testing.T) {
	diags := []diag.Diagnostic{
		{Severity: diag.Error, Msg: "a"},
		{Severity: diag.Warning, Msg: "b"},
		{Severity: diag.Error, Msg: "c"},
		{Severity: diag.Error, Msg: "d"},
	}
	cfg := config.Default()
	be.Equal(t, len(cfg.Limit(diags)), 4)
	cfg.MaxErrors = 2
	be.Equal(t, len(cfg.Limit(diags)), 3)
	cfg.MaxErrors = 1
	be.Equal(t, len(cfg.Limit(diags)), 2)
}
