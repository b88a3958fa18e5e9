// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package load builds linked code trees from YAML unit descriptions.
//
// A unit file holds one or more YAML documents. Each document is a
// mapping that declares types and members in the root namespace, or
// in the namespace named by its "namespace" key:
//
//	namespace: Demo
//	classes:
//	  - name: Counter
//	    fields: ["int count = 0"]
//	    methods:
//	      - name: bump
//	        returns: int
//	        body: |
//	          count++;
//	          return count;
//
// Types, expressions and simple statements are written as text in
// the surface syntax of the language; compound statements are YAML
// mappings (see stmt.go). All declarations are registered in their
// scopes before any type name is resolved, so declarations may refer
// to each other in any order.
package load // import "go.rcsema.net/load"

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"go.rcsema.net/syntax"
)

// An Error describes a malformed or unresolvable unit description.
type Error struct {
	Pos syntax.Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// An ErrorList is a non-empty list of load errors.
type ErrorList []Error

func (e ErrorList) Len() int      { return len(e) }
func (e ErrorList) Swap(i, j int) { e[i], e[j] = e[j], e[i] }

func (e ErrorList) Less(i, j int) bool {
	return syntax.MakeRange(e[i].Pos).Before(syntax.MakeRange(e[j].Pos))
}

func (e ErrorList) Error() string {
	if len(e) == 0 {
		return "no errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e[0], len(e)-1)
}

// Source loads the unit description src into ctx. Filename is
// used in positions only. If the description is malformed or refers
// to unknown types, Source returns an ErrorList; the declarations
// that were understood remain in ctx.
func Source(ctx *syntax.CodeContext, filename string, src []byte) error {
	l := newLoader(ctx, filename, src)
	dec := yaml.NewDecoder(bytes.NewReader(src))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			l.errorf(syntax.MakePosition(l.file, 0, 0), "%s", strings.TrimPrefix(err.Error(), "yaml: "))
			break
		}
		if len(doc.Content) > 0 {
			l.document(doc.Content[0])
		}
	}
	l.link()
	if len(l.errors) > 0 {
		sort.Stable(l.errors)
		return l.errors
	}
	return nil
}

// File loads the unit description in the named file into ctx.
func File(ctx *syntax.CodeContext, filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return Source(ctx, filename, src)
}

// Unit returns a new code context holding the prelude and the named
// unit files. Load errors of all files are returned together.
func Unit(filenames ...string) (*syntax.CodeContext, error) {
	ctx := syntax.NewCodeContext()
	var all ErrorList
	for _, name := range filenames {
		err := File(ctx, name)
		var list ErrorList
		switch {
		case err == nil:
		case errors.As(err, &list):
			all = append(all, list...)
		default:
			return nil, err
		}
	}
	if len(all) > 0 {
		return ctx, all
	}
	return ctx, nil
}

// A loader holds the state of loading one file.
type loader struct {
	ctx    *syntax.CodeContext
	file   *string
	lines  []string
	errors ErrorList

	refs   []*typeRef // unresolved type names, in source order
	fixups []func()   // run after linking
}

func newLoader(ctx *syntax.CodeContext, filename string, src []byte) *loader {
	file := new(string)
	*file = filename
	return &loader{ctx: ctx, file: file, lines: strings.Split(string(src), "\n")}
}

func (l *loader) errorf(pos syntax.Position, format string, args ...interface{}) {
	l.errors = append(l.errors, Error{pos, fmt.Sprintf(format, args...)})
}

func (l *loader) pos(n *yaml.Node) syntax.Position {
	return syntax.MakePosition(l.file, int32(n.Line), int32(n.Column))
}

func (l *loader) rng(n *yaml.Node) syntax.Range { return syntax.MakeRange(l.pos(n)) }

// A textPos maps token positions within a scalar back to the file.
type textPos struct {
	file   *string
	line   int // line of the scalar's first rune
	col    int // column of the scalar's first rune
	indent int // indentation of continuation lines
}

func (l *loader) textPos(n *yaml.Node) textPos {
	tp := textPos{file: l.file, line: n.Line, col: n.Column}
	switch {
	case n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0:
		// The text starts on the line after the indicator.
		tp.line++
		if tp.line-1 < len(l.lines) {
			text := l.lines[tp.line-1]
			tp.indent = len(text) - len(strings.TrimLeft(text, " "))
		}
		tp.col = tp.indent + 1
	case n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0:
		tp.col++
		tp.indent = n.Column
	default:
		tp.indent = n.Column - 1
	}
	return tp
}

func (tp textPos) at(line, col int) syntax.Position {
	if line <= 1 {
		return syntax.MakePosition(tp.file, int32(tp.line), int32(tp.col+col-1))
	}
	return syntax.MakePosition(tp.file, int32(tp.line+line-1), int32(tp.indent+col))
}

// parse lexes the scalar n and calls f to parse it. Type names are
// resolved in the scope of at. Parse errors are recorded and reported
// as false.
func (l *loader) parse(n *yaml.Node, at syntax.Symbol, f func(p *parser)) (ok bool) {
	if n.Kind != yaml.ScalarNode {
		l.errorf(l.pos(n), "got %s, want text", kindName(n))
		return false
	}
	tp := l.textPos(n)
	toks, err := lex(n.Value)
	if err != nil {
		var lerr lexError
		if errors.As(err, &lerr) {
			l.errorf(tp.at(lerr.line, lerr.col), "%s", lerr.msg)
		} else {
			l.errorf(l.pos(n), "%v", err)
		}
		return false
	}
	p := &parser{l: l, toks: toks, text: tp, at: at}
	defer func() {
		if e := recover(); e != nil {
			perr, isParseError := e.(parseError)
			if !isParseError {
				panic(e)
			}
			l.errorf(perr.pos, "%s", perr.msg)
			ok = false
		}
	}()
	f(p)
	p.done()
	return true
}

// typeOf parses the scalar n as a type. A nil n, already reported
// missing, yields the invalid type.
func (l *loader) typeOf(n *yaml.Node, at syntax.Symbol, owned bool) *syntax.DataType {
	if n == nil {
		return syntax.NewInvalidType()
	}
	var t *syntax.DataType
	if !l.parse(n, at, func(p *parser) { t = p.mustType(owned) }) {
		return syntax.NewInvalidType()
	}
	return t
}

// exprOf parses the scalar n as an expression. A nil n, already
// reported missing, yields nil.
func (l *loader) exprOf(n *yaml.Node, at syntax.Symbol) syntax.Expr {
	if n == nil {
		return nil
	}
	var x syntax.Expr
	if !l.parse(n, at, func(p *parser) { x = p.expr() }) {
		return nil
	}
	return x
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return "text"
	case yaml.AliasNode:
		return "alias"
	}
	return "document"
}

// -- mappings --

// A mapping gives keyed access to a YAML mapping node and reports
// keys that were never consulted.
type mapping struct {
	l    *loader
	n    *yaml.Node
	keys map[string]*yaml.Node
	used map[string]bool
}

func (l *loader) mapping(n *yaml.Node) *mapping {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	m := &mapping{l: l, n: n, keys: make(map[string]*yaml.Node), used: make(map[string]bool)}
	if n.Kind != yaml.MappingNode {
		l.errorf(l.pos(n), "got %s, want mapping", kindName(n))
		return m
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if _, dup := m.keys[k.Value]; dup {
			l.errorf(l.pos(k), "duplicate key %q", k.Value)
		}
		m.keys[k.Value] = v
	}
	return m
}

func (m *mapping) has(key string) bool {
	_, ok := m.keys[key]
	return ok
}

// node returns the value of key, or nil.
func (m *mapping) node(key string) *yaml.Node {
	m.used[key] = true
	return m.keys[key]
}

// required returns the value of key, reporting its absence.
func (m *mapping) required(key string) *yaml.Node {
	n := m.node(key)
	if n == nil {
		m.l.errorf(m.l.pos(m.n), "missing field %q", key)
	}
	return n
}

// name returns the required "name" of a declaration.
func (m *mapping) name() string {
	if m.required("name") == nil {
		return ""
	}
	return m.str("name")
}

// str returns the text value of key, or "".
func (m *mapping) str(key string) string {
	n := m.node(key)
	if n == nil {
		return ""
	}
	if n.Kind != yaml.ScalarNode {
		m.l.errorf(m.l.pos(n), "%s: got %s, want text", key, kindName(n))
		return ""
	}
	return n.Value
}

// bool returns the boolean value of key, or false.
func (m *mapping) bool(key string) bool {
	n := m.node(key)
	if n == nil {
		return false
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		m.l.errorf(m.l.pos(n), "%s: want true or false", key)
	}
	return b
}

// list returns the items of the list value of key. A single value is
// a one-item list.
func (m *mapping) list(key string) []*yaml.Node {
	n := m.node(key)
	switch {
	case n == nil:
		return nil
	case n.Kind == yaml.SequenceNode:
		return n.Content
	}
	return []*yaml.Node{n}
}

// done reports the keys that were not consulted.
func (m *mapping) done() {
	for i := 0; i+1 < len(m.n.Content); i += 2 {
		k := m.n.Content[i]
		if !m.used[k.Value] {
			m.l.errorf(m.l.pos(k), "unknown field %q", k.Value)
		}
	}
}

var accessNames = map[string]syntax.Access{
	"private":   syntax.Private,
	"internal":  syntax.Internal,
	"protected": syntax.Protected,
	"public":    syntax.Public,
}

// access returns the access modifier; members are public by default.
func (m *mapping) access() syntax.Access {
	n := m.node("access")
	if n == nil {
		return syntax.Public
	}
	a, ok := accessNames[n.Value]
	if !ok {
		m.l.errorf(m.l.pos(n), "unknown access %q", n.Value)
		return syntax.Public
	}
	return a
}

// attrs copies the "attrs" mapping, name: {arg: value}, onto n.
// A scalar attribute value sets the attribute without arguments.
func (m *mapping) attrs(n syntax.Node) {
	an := m.node("attrs")
	if an == nil {
		return
	}
	var attrs map[string]interface{}
	if err := an.Decode(&attrs); err != nil {
		m.l.errorf(m.l.pos(an), "attrs: %v", err)
		return
	}
	base := n.Base()
	for name, args := range attrs {
		switch args := args.(type) {
		case map[string]interface{}:
			for arg, v := range args {
				base.Attrs.Set(name, arg, fmt.Sprint(v))
			}
		default:
			base.Attrs.Set(name, "", "")
		}
	}
}
