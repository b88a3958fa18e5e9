// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

// This file lowers foreach statements. The collection type selects
// one of three protocols, tried in order:
//
//  1. index: the type has get(int) and a size property.
//
//	{ var _x_list = coll; var _x_size = _x_list.size; var _x_index = -1;
//	  while (++_x_index < _x_size) { T x = _x_list.get(_x_index); B } }
//
//  2. materialized: an array, or a collection type such as GLib.List
//     whose elements are enumerated by position.
//
//	{ var _x_collection = coll; var _x_index = 0;
//	  while (_x_index < _x_collection.length) { T x = _x_collection[_x_index]; _x_index++; B } }
//
//  3. iterator: the type has iterator(), whose result has either
//     next_value() returning a nullable element, or next() and get().
//
//	{ var _x_it = coll.iterator(); T x; while ((x = _x_it.next_value()) != null) B }
//	{ var _x_it = coll.iterator(); while (_x_it.next()) { T x = _x_it.get(); B } }
//
// The resulting while statements are lowered in turn.

import (
	"fmt"

	"go.rcsema.net/syntax"
	"go.rcsema.net/types"
)

func (c *checker) foreachStmt(s *syntax.ForeachStmt) bool {
	if s.Checked {
		return !s.Error
	}
	fail := func() bool {
		s.Checked = true
		s.Error = true
		return false
	}

	coll := s.Collection
	if !c.expr(coll) {
		return fail()
	}
	t := coll.ValueType()
	if t == nil || t.Kind == syntax.MethodType || t.Kind == syntax.VoidType {
		c.errorf(coll, "invalid collection expression")
		return fail()
	}
	if s.VarType != nil && !c.dataType(s.VarType, s) {
		return fail()
	}

	var block *syntax.Block
	if get, size := indexProtocol(t); get != nil {
		block = c.foreachIndexed(s, t, get, size)
	} else if t.Kind == syntax.ArrayType {
		block = c.foreachArray(s, t)
	} else if sym := t.TypeSymbolOf(); sym != nil && c.ctx.IsMaterialized(sym) {
		block = c.foreachList(s, t)
	} else {
		block = c.foreachIterator(s, t)
	}
	if block == nil {
		return fail()
	}
	return c.replace(s, block)
}

// indexProtocol returns the get method and integer size property of t
// if t supports indexed iteration.
func indexProtocol(t *syntax.DataType) (*syntax.Method, *syntax.Property) {
	get, ok := types.LookupMember(t, "get").(*syntax.Method)
	if !ok || len(get.Params) != 1 || !types.IsInteger(get.Params[0].Type) {
		return nil, nil
	}
	size, ok := types.LookupMember(t, "size").(*syntax.Property)
	if !ok || !types.IsInteger(size.Type) {
		return nil, nil
	}
	return get, size
}

// loopVarType returns the type of the loop variable given the type
// of the elements: the declared type, which must accept the elements,
// or the element type itself.
func (c *checker) loopVarType(s *syntax.ForeachStmt, elem *syntax.DataType) *syntax.DataType {
	if s.VarType == nil {
		return elem.Copy()
	}
	if !c.compatible(elem, s.VarType) {
		c.errorf(s, "Foreach: Cannot convert from `%s' to `%s'", elem, s.VarType)
		return nil
	}
	if elem.IsDisposable() && !s.VarType.ValueOwned {
		c.errorf(s, "Foreach: Invalid assignment from owned expression to unowned variable")
		return nil
	}
	return s.VarType
}

func (c *checker) tempName(s *syntax.ForeachStmt, suffix string) string {
	return fmt.Sprintf("_%s_%s", s.VarName, suffix)
}

// declare returns "var name = init;", or "T name = init;" for a
// non-nil type.
func declare(name string, t *syntax.DataType, init syntax.Expr, pos syntax.Range) syntax.Stmt {
	return syntax.NewDeclarationStmt(syntax.NewLocalVariable(name, t, init, pos), pos)
}

func call(recv syntax.Expr, method string, pos syntax.Range, args ...syntax.Expr) *syntax.CallExpr {
	return syntax.NewCallExpr(syntax.NewNameExpr(recv, method, pos), args, pos)
}

func (c *checker) foreachIndexed(s *syntax.ForeachStmt, t *syntax.DataType, get *syntax.Method, size *syntax.Property) *syntax.Block {
	elem := types.ActualType(get.ReturnType, t, nil)
	varType := c.loopVarType(s, elem)
	if varType == nil {
		return nil
	}
	pos := s.Pos
	list, length, index := c.tempName(s, "list"), c.tempName(s, "size"), c.tempName(s, "index")

	next := syntax.NewUnaryExpr(syntax.PreInc, ident(index, pos), pos)
	cond := syntax.NewBinaryExpr(syntax.Lt, next, ident(length, pos), pos)
	body := s.Body
	body.InsertStatement(0, declare(s.VarName, varType.Copy(), call(ident(list, pos), get.Name, pos, ident(index, pos)), pos))

	return syntax.NewBlock(pos,
		declare(list, nil, s.Collection, pos),
		declare(length, nil, syntax.NewNameExpr(ident(list, pos), size.Name, pos), pos),
		declare(index, nil, syntax.NewUnaryExpr(syntax.Neg, syntax.NewIntLiteral(1, pos), pos), pos),
		syntax.NewWhileStmt(cond, body, pos),
	)
}

func (c *checker) foreachArray(s *syntax.ForeachStmt, t *syntax.DataType) *syntax.Block {
	if t.Rank > 1 {
		c.errorf(s.Collection, "foreach over multi-dimensional arrays is not supported")
		return nil
	}
	elem := t.Elem.Copy()
	elem.ValueOwned = false
	varType := c.loopVarType(s, elem)
	if varType == nil {
		return nil
	}
	pos := s.Pos
	coll, index := c.tempName(s, "collection"), c.tempName(s, "index")
	length := syntax.NewNameExpr(ident(coll, pos), "length", pos)
	at := syntax.NewElementAccess(ident(coll, pos), []syntax.Expr{ident(index, pos)}, pos)
	return c.materialized(s, varType, coll, index, length, at)
}

func (c *checker) foreachList(s *syntax.ForeachStmt, t *syntax.DataType) *syntax.Block {
	if len(t.Args) != 1 {
		c.errorf(s.Collection, "missing type argument for collection")
		return nil
	}
	length, ok1 := types.LookupMember(t, "length").(*syntax.Method)
	nth, ok2 := types.LookupMember(t, "nth_data").(*syntax.Method)
	if !ok1 || !ok2 {
		c.errorf(s.Collection, "`%s' is not iterable", t)
		return nil
	}
	varType := c.loopVarType(s, types.ActualType(nth.ReturnType, t, nil))
	if varType == nil {
		return nil
	}
	pos := s.Pos
	coll, index := c.tempName(s, "collection"), c.tempName(s, "index")
	size := call(ident(coll, pos), length.Name, pos)
	at := call(ident(coll, pos), nth.Name, pos, ident(index, pos))
	return c.materialized(s, varType, coll, index, size, at)
}

// materialized builds the positional loop shared by arrays and lists.
func (c *checker) materialized(s *syntax.ForeachStmt, varType *syntax.DataType, coll, index string, length, at syntax.Expr) *syntax.Block {
	pos := s.Pos
	body := s.Body
	body.InsertStatement(0, declare(s.VarName, varType.Copy(), at, pos))
	body.InsertStatement(1, syntax.NewExprStmt(syntax.NewPostfixExpr(ident(index, pos), true, pos), pos))
	cond := syntax.NewBinaryExpr(syntax.Lt, ident(index, pos), length, pos)
	return syntax.NewBlock(pos,
		declare(coll, nil, s.Collection, pos),
		declare(index, nil, syntax.NewIntLiteral(0, pos), pos),
		syntax.NewWhileStmt(cond, body, pos),
	)
}

func (c *checker) foreachIterator(s *syntax.ForeachStmt, t *syntax.DataType) *syntax.Block {
	iterator, ok := types.LookupMember(t, "iterator").(*syntax.Method)
	if !ok {
		c.errorf(s.Collection, "`%s' is not iterable", t)
		return nil
	}
	if len(iterator.Params) != 0 {
		c.errorf(s.Collection, "`%s' must not have any parameters", syntax.FullName(iterator))
		return nil
	}
	itType := types.ActualType(iterator.ReturnType, t, nil)
	if itType.IsVoid() {
		c.errorf(s.Collection, "`%s' must return an iterator", syntax.FullName(iterator))
		return nil
	}

	pos := s.Pos
	it := c.tempName(s, "it")
	block := syntax.NewBlock(pos, declare(it, nil, call(s.Collection, iterator.Name, pos), pos))
	body := s.Body

	nextValue, _ := types.LookupMember(itType, "next_value").(*syntax.Method)
	next, _ := types.LookupMember(itType, "next").(*syntax.Method)
	switch {
	case nextValue != nil:
		if len(nextValue.Params) != 0 {
			c.errorf(s.Collection, "`%s' must not have any parameters", syntax.FullName(nextValue))
			return nil
		}
		elem := types.ActualType(nextValue.ReturnType, itType, nil)
		if !elem.Nullable {
			c.errorf(s.Collection, "return type of `%s' must be nullable", syntax.FullName(nextValue))
			return nil
		}
		varType := c.loopVarType(s, elem)
		if varType == nil {
			return nil
		}
		block.AddStatement(declare(s.VarName, varType.Copy(), nil, pos))
		assign := syntax.NewAssignExpr(syntax.NoOp, ident(s.VarName, pos), call(ident(it, pos), nextValue.Name, pos), pos)
		cond := syntax.NewBinaryExpr(syntax.Ne, assign, syntax.NewNullLiteral(pos), pos)
		block.AddStatement(syntax.NewWhileStmt(cond, body, pos))

	case next != nil:
		if len(next.Params) != 0 {
			c.errorf(s.Collection, "`%s' must not have any parameters", syntax.FullName(next))
			return nil
		}
		if !types.IsBoolean(types.ActualType(next.ReturnType, itType, nil)) {
			c.errorf(s.Collection, "return type of `%s' must be bool", syntax.FullName(next))
			return nil
		}
		get, ok := types.LookupMember(itType, "get").(*syntax.Method)
		if !ok {
			c.errorf(s.Collection, "`%s' does not have a `get' method", itType)
			return nil
		}
		if len(get.Params) != 0 {
			c.errorf(s.Collection, "`%s' must not have any parameters", syntax.FullName(get))
			return nil
		}
		elem := types.ActualType(get.ReturnType, itType, nil)
		if elem.IsVoid() {
			c.errorf(s.Collection, "`%s' must return an element", syntax.FullName(get))
			return nil
		}
		varType := c.loopVarType(s, elem)
		if varType == nil {
			return nil
		}
		body.InsertStatement(0, declare(s.VarName, varType.Copy(), call(ident(it, pos), get.Name, pos), pos))
		block.AddStatement(syntax.NewWhileStmt(call(ident(it, pos), next.Name, pos), body, pos))

	default:
		c.errorf(s.Collection, "`%s' does not have a `next_value' or `next' method", itType)
		return nil
	}
	return block
}
