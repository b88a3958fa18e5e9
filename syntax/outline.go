// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Outline writes a source-like rendering of the tree rooted at n,
// which must be a symbol or a statement. Statements are printed
// as they stand, so the output of a checked body shows its lowered form.
func Outline(w io.Writer, n Node) error {
	p := printer{}
	p.node(n)
	_, err := w.Write(p.buf.Bytes())
	return err
}

// OutlineString returns the outline of n.
func OutlineString(n Node) string {
	var buf bytes.Buffer
	Outline(&buf, n)
	return buf.String()
}

type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) line(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) open(format string, args ...interface{}) {
	if format == "" {
		p.line("{")
	} else {
		p.line(format+" {", args...)
	}
	p.indent++
}

func (p *printer) close() {
	p.indent--
	p.line("}")
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *Namespace:
		if n.Name == "" {
			p.nsBody(n)
			return
		}
		p.open("namespace %s", n.Name)
		p.nsBody(n)
		p.close()

	case *Class:
		header := "class " + n.Name + typeParamList(n.TypeParams)
		if len(n.BaseTypes) > 0 {
			header += " : " + typeList(n.BaseTypes)
		}
		if n.IsAbstract {
			header = "abstract " + header
		}
		p.open("%s %s", n.Access, header)
		p.members(&n.Members)
		p.close()

	case *Interface:
		header := "interface " + n.Name + typeParamList(n.TypeParams)
		if len(n.Prerequisites) > 0 {
			header += " : " + typeList(n.Prerequisites)
		}
		p.open("%s %s", n.Access, header)
		p.members(&n.Members)
		p.close()

	case *Struct:
		header := "struct " + n.Name + typeParamList(n.TypeParams)
		if n.BaseType != nil {
			header += " : " + n.BaseType.String()
		}
		p.open("%s %s", n.Access, header)
		p.members(&n.Members)
		p.close()

	case *Enum:
		p.open("%s enum %s", n.Access, n.Name)
		for _, v := range n.Values {
			if v.Value != nil {
				p.line("%s = %s,", v.Name, ExprString(v.Value))
			} else {
				p.line("%s,", v.Name)
			}
		}
		for _, m := range n.Methods {
			p.node(m)
		}
		p.close()

	case *ErrorDomain:
		p.open("%s errordomain %s", n.Access, n.Name)
		for _, c := range n.Codes {
			p.line("%s,", c.Name)
		}
		p.close()

	case *Delegate:
		p.line("%s delegate %s %s%s(%s)%s;", n.Access, n.ReturnType, n.Name,
			typeParamList(n.TypeParams), paramList(n.Params), throwsList(n.Throws))

	case *CreationMethod:
		p.callable(&n.Method, "")

	case *Method:
		p.callable(n, n.ReturnType.String()+" ")

	case *Property:
		var acc []string
		if n.Getter != nil {
			acc = append(acc, "get;")
		}
		if n.Setter != nil {
			if n.Setter.Construction && !n.Setter.Writable {
				acc = append(acc, "construct;")
			} else {
				acc = append(acc, "set;")
			}
		}
		p.line("%s %s%s %s { %s }", n.Access, modifiers(n.IsAbstract, n.IsVirtual, n.Overrides), n.Type, n.Name, strings.Join(acc, " "))

	case *Signal:
		virt := ""
		if n.IsVirtual {
			virt = "virtual "
		}
		p.line("%s %ssignal %s %s(%s);", n.Access, virt, n.ReturnType, n.Name, paramList(n.Params))

	case *Field:
		if n.Initializer != nil {
			p.line("%s %s %s = %s;", n.Access, n.Type, n.Name, ExprString(n.Initializer))
		} else {
			p.line("%s %s %s;", n.Access, n.Type, n.Name)
		}

	case *Constant:
		p.line("%s const %s %s = %s;", n.Access, n.Type, n.Name, ExprString(n.Value))

	case *Constructor:
		p.open("construct")
		p.stmts(n.Body)
		p.close()

	case *Destructor:
		p.open("~%s ()", n.ParentSymbol().Sym().Name)
		p.stmts(n.Body)
		p.close()

	case Stmt:
		p.stmt(n)

	default:
		p.line("/* %T */", n)
	}
}

func (p *printer) nsBody(n *Namespace) {
	for _, x := range n.Namespaces {
		if !x.External {
			p.node(x)
		}
	}
	for _, x := range n.Delegates {
		p.node(x)
	}
	for _, x := range n.ErrorDomains {
		p.node(x)
	}
	for _, x := range n.Enums {
		p.node(x)
	}
	for _, x := range n.Interfaces {
		p.node(x)
	}
	for _, x := range n.Structs {
		if !x.External {
			p.node(x)
		}
	}
	for _, x := range n.Classes {
		if !x.External {
			p.node(x)
		}
	}
	for _, x := range n.Constants {
		p.node(x)
	}
	for _, x := range n.Fields {
		p.node(x)
	}
	for _, x := range n.Methods {
		p.node(x)
	}
}

func (p *printer) members(ms *Members) {
	for _, x := range ms.Enums {
		p.node(x)
	}
	for _, x := range ms.Fields {
		p.node(x)
	}
	for _, x := range ms.Constants {
		p.node(x)
	}
	for _, x := range ms.CreationMethods {
		p.node(x)
	}
	for _, x := range ms.Methods {
		p.node(x)
	}
	for _, x := range ms.Properties {
		p.node(x)
	}
	for _, x := range ms.Signals {
		p.node(x)
	}
	for _, x := range ms.Constructors {
		p.node(x)
	}
	for _, x := range ms.Destructors {
		p.node(x)
	}
	for _, x := range ms.Classes {
		p.node(x)
	}
	for _, x := range ms.Interfaces {
		p.node(x)
	}
	for _, x := range ms.Structs {
		p.node(x)
	}
	for _, x := range ms.Delegates {
		p.node(x)
	}
}

func (p *printer) callable(m *Method, ret string) {
	name := m.Name
	if m.ExplicitInterface != nil {
		name = m.ExplicitInterface.String() + "." + name
	}
	binding := ""
	if m.Binding == StaticBinding {
		binding = "static "
	}
	sig := fmt.Sprintf("%s %s%s%s%s%s(%s)%s", m.Access, binding,
		modifiers(m.IsAbstract, m.IsVirtual, m.Overrides), ret, name,
		typeParamList(m.TypeParams), paramList(m.Params), throwsList(m.Throws))
	if m.Body == nil {
		p.line("%s;", sig)
		return
	}
	p.open("%s", sig)
	p.stmts(m.Body)
	p.close()
}

func (p *printer) block(b *Block) {
	if b == nil {
		p.line("{ }")
		return
	}
	p.open("")
	p.stmts(b)
	p.close()
}

func (p *printer) stmts(b *Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		p.stmt(s)
	}
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *Block:
		p.block(s)

	case *IfStmt:
		p.open("if (%s)", ExprString(s.Cond))
		p.stmts(s.Then)
		if s.Else != nil {
			p.indent--
			p.line("} else {")
			p.indent++
			p.stmts(s.Else)
		}
		p.close()

	case *SwitchStmt:
		p.open("switch (%s)", ExprString(s.Expr))
		for _, sec := range s.Sections {
			for _, l := range sec.Labels {
				if l.Expr == nil {
					p.line("default:")
				} else {
					p.line("case %s:", ExprString(l.Expr))
				}
			}
			p.indent++
			p.stmts(sec.Block)
			p.indent--
		}
		p.close()

	case *LoopStmt:
		p.open("loop")
		p.stmts(s.Body)
		p.close()

	case *WhileStmt:
		p.open("while (%s)", ExprString(s.Cond))
		p.stmts(s.Body)
		p.close()

	case *DoStmt:
		p.open("do")
		p.stmts(s.Body)
		p.indent--
		p.line("} while (%s);", ExprString(s.Cond))

	case *ForStmt:
		var init []string
		for _, i := range s.Init {
			init = append(init, strings.TrimSuffix(stmtString(i), ";"))
		}
		var iter []string
		for _, x := range s.Iter {
			iter = append(iter, ExprString(x))
		}
		cond := ""
		if s.Cond != nil {
			cond = ExprString(s.Cond)
		}
		p.open("for (%s; %s; %s)", strings.Join(init, ", "), cond, strings.Join(iter, ", "))
		p.stmts(s.Body)
		p.close()

	case *ForeachStmt:
		typ := "var"
		if s.VarType != nil {
			typ = s.VarType.String()
		}
		p.open("foreach (%s %s in %s)", typ, s.VarName, ExprString(s.Collection))
		p.stmts(s.Body)
		p.close()

	case *TryStmt:
		p.open("try")
		p.stmts(s.Body)
		for _, c := range s.Catches {
			p.indent--
			switch {
			case c.ErrorType == nil:
				p.line("} catch {")
			case c.VarName == "":
				p.line("} catch (%s) {", c.ErrorType)
			default:
				p.line("} catch (%s %s) {", c.ErrorType, c.VarName)
			}
			p.indent++
			p.stmts(c.Body)
		}
		if s.Finally != nil {
			p.indent--
			p.line("} finally {")
			p.indent++
			p.stmts(s.Finally)
		}
		p.close()

	case *LockStmt:
		if s.Body == nil {
			p.line("lock (%s);", ExprString(s.Resource))
			return
		}
		p.open("lock (%s)", ExprString(s.Resource))
		p.stmts(s.Body)
		p.close()

	default:
		p.line("%s", stmtString(s))
	}
}

// stmtString returns the one-line form of a simple statement.
func stmtString(s Stmt) string {
	switch s := s.(type) {
	case *ThrowStmt:
		return "throw " + ExprString(s.Err) + ";"
	case *ReturnStmt:
		if s.Result == nil {
			return "return;"
		}
		return "return " + ExprString(s.Result) + ";"
	case *BreakStmt:
		return "break;"
	case *ContinueStmt:
		return "continue;"
	case *UnlockStmt:
		return "unlock (" + ExprString(s.Resource) + ");"
	case *DeclarationStmt:
		typ := "var"
		if s.Var.Type != nil {
			typ = s.Var.Type.String()
		}
		if s.Var.Initializer != nil {
			return fmt.Sprintf("%s %s = %s;", typ, s.Var.Name, ExprString(s.Var.Initializer))
		}
		return fmt.Sprintf("%s %s;", typ, s.Var.Name)
	case *ExprStmt:
		return ExprString(s.X) + ";"
	}
	return fmt.Sprintf("/* %T */", s)
}

func modifiers(abstract, virtual, override bool) string {
	switch {
	case abstract:
		return "abstract "
	case virtual:
		return "virtual "
	case override:
		return "override "
	}
	return ""
}

func typeParamList(params []*TypeParameter) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return "<" + strings.Join(names, ",") + ">"
}

func typeList(types []*DataType) string {
	s := make([]string, len(types))
	for i, t := range types {
		s[i] = t.String()
	}
	return strings.Join(s, ", ")
}

func paramList(params []*Parameter) string {
	s := make([]string, len(params))
	for i, p := range params {
		switch {
		case p.Ellipsis:
			s[i] = "..."
		case p.Direction != In:
			s[i] = fmt.Sprintf("%s %s %s", p.Direction, p.Type, p.Name)
		default:
			s[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
		}
	}
	return strings.Join(s, ", ")
}

func throwsList(types []*DataType) string {
	if len(types) == 0 {
		return ""
	}
	return " throws " + typeList(types)
}
