// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

// This file tracks the error types that statements may propagate.
// A throw adds the type of its operand; a call adds the callee's
// declared error types; a try statement removes what its catch
// clauses handle. Whatever reaches a callable's body and is neither
// declared by the callable nor dynamic is reported as unhandled.

import (
	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

// unhandled warns about each error type of body that is compatible
// with none of the declared types. Dynamic errors are exempt.
func (c *checker) unhandled(body *syntax.Block, declared []*syntax.DataType) {
	for _, e := range body.ErrorTypes().Types() {
		if e.Dynamic || types.CompatibleWithAny(e, declared) {
			continue
		}
		pos := e.Pos
		if !pos.IsValid() {
			pos = body.Pos
		}
		c.warnf(pos, "unhandled error `%s'", e)
	}
}

// propagate merges the error types of a checked child into n.
func propagate(n syntax.Node, child syntax.Node) {
	if child != nil {
		n.Base().AddErrorTypes(child.Base().ErrorTypes())
	}
}

// raise adds the error type t, thrown at pos, to n.
func raise(n syntax.Node, t *syntax.DataType, pos syntax.Range) {
	e := t.Copy()
	e.Pos = pos
	e.Nullable = false
	e.ValueOwned = false
	n.Base().AddErrorType(e)
}

func (c *checker) throwStmt(s *syntax.ThrowStmt) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true

	setTarget(s.Err, c.ctx.ErrorType())
	if !c.expr(s.Err) {
		s.Error = true
		return false
	}
	t := s.Err.ValueType()
	if t == nil || t.Kind != syntax.ErrorType {
		c.errorf(s, "Error expected")
		return false
	}
	propagate(s, s.Err)
	raise(s, t, s.Pos)
	return true
}

// tryStmt checks a try statement. Errors of the body that a catch
// clause handles are removed, in clause order; errors raised by the
// clauses and the finally block propagate.
func (c *checker) tryStmt(s *syntax.TryStmt) bool {
	if s.Checked {
		return !s.Error
	}
	s.Checked = true

	if !c.block(s.Body) {
		s.Error = true
	}
	outstanding := s.Body.ErrorTypes().Types()
	for _, clause := range s.Catches {
		kept := outstanding[:0]
		for _, e := range outstanding {
			if clause.ErrorType != nil && !types.Compatible(e, clause.ErrorType) {
				kept = append(kept, e)
			}
		}
		outstanding = kept
		if !c.catchClause(clause) {
			s.Error = true
		}
		propagate(s, clause)
	}
	if s.Finally != nil {
		if !c.block(s.Finally) {
			s.Error = true
		}
		propagate(s, s.Finally)
	}
	s.AddErrorTypes(syntax.MakeErrorTypeView(outstanding))
	return !s.Error
}

// catchClause checks a catch clause and declares its error variable
// in the clause body.
func (c *checker) catchClause(cc *syntax.CatchClause) bool {
	if cc.Checked {
		return !cc.Error
	}
	cc.Checked = true

	typ := cc.ErrorType
	if typ == nil {
		typ = c.ctx.ErrorType()
	} else if !c.dataType(typ, cc) {
		cc.Error = true
	} else if typ.Kind != syntax.ErrorType {
		c.errorf(cc, "catch clause type must be an error type")
		typ = c.ctx.ErrorType()
	}
	if cc.VarName != "" {
		t := typ.Copy()
		t.ValueOwned = true
		cc.Var = syntax.NewLocalVariable(cc.VarName, t, nil, cc.Pos)
		cc.Var.Checked = true
		cc.Body.AddLocal(cc.Var)
		cc.Var.SetParent(cc)
	}
	if !c.block(cc.Body) {
		cc.Error = true
	}
	propagate(cc, cc.Body)
	return !cc.Error
}
