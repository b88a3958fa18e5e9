// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "strconv"

// A Node is a node of the code tree: a symbol, a statement, an
// expression or one of their auxiliary parts.
type Node interface {
	// Span returns the source extent of the node.
	Span() Range
	// Base returns the state shared by all nodes.
	Base() *CodeNode
	// Accept calls the visitor method for the node's concrete kind.
	Accept(v Visitor)
}

// CodeNode holds the state common to every node. It is embedded in
// each concrete node type.
type CodeNode struct {
	Pos     Range
	Checked bool // set when check begins; never cleared
	Error   bool // set when the node failed to check
	Attrs   Attributes

	parent Node        // weak
	errs   []*DataType // lazily created; see AddErrorType
}

func (n *CodeNode) Base() *CodeNode { return n }
func (n *CodeNode) Span() Range     { return n.Pos }

// Parent returns the node that contains n, or nil. The link does not
// own its target; it is nil for roots and for nodes that were
// discarded by a rewrite.
func (n *CodeNode) Parent() Node { return n.parent }

// SetParent links n under p.
func (n *CodeNode) SetParent(p Node) { n.parent = p }

// AddErrorType records that the node may propagate errors of type t.
// Types already present (same domain, code and dynamic flag) are not
// added twice.
func (n *CodeNode) AddErrorType(t *DataType) {
	for _, e := range n.errs {
		if sameErrorType(e, t) {
			return
		}
	}
	n.errs = append(n.errs, t)
}

// AddErrorTypes merges the view into the node's own set.
func (n *CodeNode) AddErrorTypes(v ErrorTypeView) {
	for _, t := range v.list {
		n.AddErrorType(t)
	}
}

// ErrorTypes returns a read-only view of the node's error-type set.
func (n *CodeNode) ErrorTypes() ErrorTypeView { return ErrorTypeView{n.errs} }

// TreeCanFail reports whether the node or any checked descendant may
// propagate an error.
func (n *CodeNode) TreeCanFail() bool { return len(n.errs) > 0 }

func sameErrorType(a, b *DataType) bool {
	if a == b {
		return true
	}
	return a.Kind == b.Kind && a.Domain == b.Domain && a.Code == b.Code && a.Dynamic == b.Dynamic
}

// An ErrorTypeView is a read-only view of an error-type set.
// The zero value is the empty set.
type ErrorTypeView struct {
	list []*DataType
}

// Len returns the number of error types in the set.
func (v ErrorTypeView) Len() int { return len(v.list) }

// At returns a copy of the i'th error type.
func (v ErrorTypeView) At(i int) *DataType { return v.list[i].Copy() }

// Types returns copies of all error types, in insertion order.
func (v ErrorTypeView) Types() []*DataType {
	if len(v.list) == 0 {
		return nil
	}
	res := make([]*DataType, len(v.list))
	for i, t := range v.list {
		res[i] = t.Copy()
	}
	return res
}

// MakeErrorTypeView returns a view over a copy of types.
func MakeErrorTypeView(types []*DataType) ErrorTypeView {
	return ErrorTypeView{append([]*DataType(nil), types...)}
}

// Attributes maps an attribute name to its named arguments,
// e.g. CCode(ordering = 2) is {"CCode": {"ordering": "2"}}.
type Attributes map[string]map[string]string

// Has reports whether the named attribute is present.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Int returns the integer value of the named argument, or def if it
// is absent or malformed.
func (a Attributes) Int(name, arg string, def int) int {
	s, ok := a[name][arg]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// String returns the value of the named argument, or def.
func (a Attributes) String(name, arg, def string) string {
	if s, ok := a[name][arg]; ok {
		return s
	}
	return def
}

// Set sets an attribute argument, creating the map as needed.
func (a *Attributes) Set(name, arg, value string) {
	if *a == nil {
		*a = make(Attributes)
	}
	args := (*a)[name]
	if args == nil {
		args = make(map[string]string)
		(*a)[name] = args
	}
	if arg != "" {
		args[arg] = value
	}
}
