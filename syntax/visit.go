// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "fmt"

// A Visitor has one method per concrete node kind.
// Node.Accept calls the method matching the node.
type Visitor interface {
	VisitNamespace(*Namespace)
	VisitClass(*Class)
	VisitInterface(*Interface)
	VisitStruct(*Struct)
	VisitEnum(*Enum)
	VisitEnumValue(*EnumValue)
	VisitErrorDomain(*ErrorDomain)
	VisitErrorCode(*ErrorCode)
	VisitDelegate(*Delegate)
	VisitTypeParameter(*TypeParameter)
	VisitMethod(*Method)
	VisitCreationMethod(*CreationMethod)
	VisitParameter(*Parameter)
	VisitProperty(*Property)
	VisitPropertyAccessor(*PropertyAccessor)
	VisitSignal(*Signal)
	VisitField(*Field)
	VisitConstant(*Constant)
	VisitLocalVariable(*LocalVariable)
	VisitConstructor(*Constructor)
	VisitDestructor(*Destructor)

	VisitBlock(*Block)
	VisitIfStmt(*IfStmt)
	VisitSwitchStmt(*SwitchStmt)
	VisitSwitchSection(*SwitchSection)
	VisitSwitchLabel(*SwitchLabel)
	VisitLoopStmt(*LoopStmt)
	VisitWhileStmt(*WhileStmt)
	VisitDoStmt(*DoStmt)
	VisitForStmt(*ForStmt)
	VisitForeachStmt(*ForeachStmt)
	VisitTryStmt(*TryStmt)
	VisitCatchClause(*CatchClause)
	VisitThrowStmt(*ThrowStmt)
	VisitReturnStmt(*ReturnStmt)
	VisitBreakStmt(*BreakStmt)
	VisitContinueStmt(*ContinueStmt)
	VisitLockStmt(*LockStmt)
	VisitUnlockStmt(*UnlockStmt)
	VisitDeclarationStmt(*DeclarationStmt)
	VisitExprStmt(*ExprStmt)

	VisitLiteral(*Literal)
	VisitNameExpr(*NameExpr)
	VisitCallExpr(*CallExpr)
	VisitObjectCreation(*ObjectCreation)
	VisitArrayCreation(*ArrayCreation)
	VisitUnaryExpr(*UnaryExpr)
	VisitPostfixExpr(*PostfixExpr)
	VisitBinaryExpr(*BinaryExpr)
	VisitAssignExpr(*AssignExpr)
	VisitElementAccess(*ElementAccess)
	VisitCastExpr(*CastExpr)
}

// BaseVisitor implements every Visitor method as a no-op.
// Embed it to override only the methods of interest.
type BaseVisitor struct{}

func (BaseVisitor) VisitNamespace(*Namespace)               {}
func (BaseVisitor) VisitClass(*Class)                       {}
func (BaseVisitor) VisitInterface(*Interface)               {}
func (BaseVisitor) VisitStruct(*Struct)                     {}
func (BaseVisitor) VisitEnum(*Enum)                         {}
func (BaseVisitor) VisitEnumValue(*EnumValue)               {}
func (BaseVisitor) VisitErrorDomain(*ErrorDomain)           {}
func (BaseVisitor) VisitErrorCode(*ErrorCode)               {}
func (BaseVisitor) VisitDelegate(*Delegate)                 {}
func (BaseVisitor) VisitTypeParameter(*TypeParameter)       {}
func (BaseVisitor) VisitMethod(*Method)                     {}
func (BaseVisitor) VisitCreationMethod(*CreationMethod)     {}
func (BaseVisitor) VisitParameter(*Parameter)               {}
func (BaseVisitor) VisitProperty(*Property)                 {}
func (BaseVisitor) VisitPropertyAccessor(*PropertyAccessor) {}
func (BaseVisitor) VisitSignal(*Signal)                     {}
func (BaseVisitor) VisitField(*Field)                       {}
func (BaseVisitor) VisitConstant(*Constant)                 {}
func (BaseVisitor) VisitLocalVariable(*LocalVariable)       {}
func (BaseVisitor) VisitConstructor(*Constructor)           {}
func (BaseVisitor) VisitDestructor(*Destructor)             {}
func (BaseVisitor) VisitBlock(*Block)                       {}
func (BaseVisitor) VisitIfStmt(*IfStmt)                     {}
func (BaseVisitor) VisitSwitchStmt(*SwitchStmt)             {}
func (BaseVisitor) VisitSwitchSection(*SwitchSection)       {}
func (BaseVisitor) VisitSwitchLabel(*SwitchLabel)           {}
func (BaseVisitor) VisitLoopStmt(*LoopStmt)                 {}
func (BaseVisitor) VisitWhileStmt(*WhileStmt)               {}
func (BaseVisitor) VisitDoStmt(*DoStmt)                     {}
func (BaseVisitor) VisitForStmt(*ForStmt)                   {}
func (BaseVisitor) VisitForeachStmt(*ForeachStmt)           {}
func (BaseVisitor) VisitTryStmt(*TryStmt)                   {}
func (BaseVisitor) VisitCatchClause(*CatchClause)           {}
func (BaseVisitor) VisitThrowStmt(*ThrowStmt)               {}
func (BaseVisitor) VisitReturnStmt(*ReturnStmt)             {}
func (BaseVisitor) VisitBreakStmt(*BreakStmt)               {}
func (BaseVisitor) VisitContinueStmt(*ContinueStmt)         {}
func (BaseVisitor) VisitLockStmt(*LockStmt)                 {}
func (BaseVisitor) VisitUnlockStmt(*UnlockStmt)             {}
func (BaseVisitor) VisitDeclarationStmt(*DeclarationStmt)   {}
func (BaseVisitor) VisitExprStmt(*ExprStmt)                 {}
func (BaseVisitor) VisitLiteral(*Literal)                   {}
func (BaseVisitor) VisitNameExpr(*NameExpr)                 {}
func (BaseVisitor) VisitCallExpr(*CallExpr)                 {}
func (BaseVisitor) VisitObjectCreation(*ObjectCreation)     {}
func (BaseVisitor) VisitArrayCreation(*ArrayCreation)       {}
func (BaseVisitor) VisitUnaryExpr(*UnaryExpr)               {}
func (BaseVisitor) VisitPostfixExpr(*PostfixExpr)           {}
func (BaseVisitor) VisitBinaryExpr(*BinaryExpr)             {}
func (BaseVisitor) VisitAssignExpr(*AssignExpr)             {}
func (BaseVisitor) VisitElementAccess(*ElementAccess)       {}
func (BaseVisitor) VisitCastExpr(*CastExpr)                 {}

func (x *Namespace) Accept(v Visitor)        { v.VisitNamespace(x) }
func (x *Class) Accept(v Visitor)            { v.VisitClass(x) }
func (x *Interface) Accept(v Visitor)        { v.VisitInterface(x) }
func (x *Struct) Accept(v Visitor)           { v.VisitStruct(x) }
func (x *Enum) Accept(v Visitor)             { v.VisitEnum(x) }
func (x *EnumValue) Accept(v Visitor)        { v.VisitEnumValue(x) }
func (x *ErrorDomain) Accept(v Visitor)      { v.VisitErrorDomain(x) }
func (x *ErrorCode) Accept(v Visitor)        { v.VisitErrorCode(x) }
func (x *Delegate) Accept(v Visitor)         { v.VisitDelegate(x) }
func (x *TypeParameter) Accept(v Visitor)    { v.VisitTypeParameter(x) }
func (x *Method) Accept(v Visitor)           { v.VisitMethod(x) }
func (x *CreationMethod) Accept(v Visitor)   { v.VisitCreationMethod(x) }
func (x *Parameter) Accept(v Visitor)        { v.VisitParameter(x) }
func (x *Property) Accept(v Visitor)         { v.VisitProperty(x) }
func (x *PropertyAccessor) Accept(v Visitor) { v.VisitPropertyAccessor(x) }
func (x *Signal) Accept(v Visitor)           { v.VisitSignal(x) }
func (x *Field) Accept(v Visitor)            { v.VisitField(x) }
func (x *Constant) Accept(v Visitor)         { v.VisitConstant(x) }
func (x *LocalVariable) Accept(v Visitor)    { v.VisitLocalVariable(x) }
func (x *Constructor) Accept(v Visitor)      { v.VisitConstructor(x) }
func (x *Destructor) Accept(v Visitor)       { v.VisitDestructor(x) }
func (x *Block) Accept(v Visitor)            { v.VisitBlock(x) }
func (x *IfStmt) Accept(v Visitor)           { v.VisitIfStmt(x) }
func (x *SwitchStmt) Accept(v Visitor)       { v.VisitSwitchStmt(x) }
func (x *SwitchSection) Accept(v Visitor)    { v.VisitSwitchSection(x) }
func (x *SwitchLabel) Accept(v Visitor)      { v.VisitSwitchLabel(x) }
func (x *LoopStmt) Accept(v Visitor)         { v.VisitLoopStmt(x) }
func (x *WhileStmt) Accept(v Visitor)        { v.VisitWhileStmt(x) }
func (x *DoStmt) Accept(v Visitor)           { v.VisitDoStmt(x) }
func (x *ForStmt) Accept(v Visitor)          { v.VisitForStmt(x) }
func (x *ForeachStmt) Accept(v Visitor)      { v.VisitForeachStmt(x) }
func (x *TryStmt) Accept(v Visitor)          { v.VisitTryStmt(x) }
func (x *CatchClause) Accept(v Visitor)      { v.VisitCatchClause(x) }
func (x *ThrowStmt) Accept(v Visitor)        { v.VisitThrowStmt(x) }
func (x *ReturnStmt) Accept(v Visitor)       { v.VisitReturnStmt(x) }
func (x *BreakStmt) Accept(v Visitor)        { v.VisitBreakStmt(x) }
func (x *ContinueStmt) Accept(v Visitor)     { v.VisitContinueStmt(x) }
func (x *LockStmt) Accept(v Visitor)         { v.VisitLockStmt(x) }
func (x *UnlockStmt) Accept(v Visitor)       { v.VisitUnlockStmt(x) }
func (x *DeclarationStmt) Accept(v Visitor)  { v.VisitDeclarationStmt(x) }
func (x *ExprStmt) Accept(v Visitor)         { v.VisitExprStmt(x) }
func (x *Literal) Accept(v Visitor)          { v.VisitLiteral(x) }
func (x *NameExpr) Accept(v Visitor)         { v.VisitNameExpr(x) }
func (x *CallExpr) Accept(v Visitor)         { v.VisitCallExpr(x) }
func (x *ObjectCreation) Accept(v Visitor)   { v.VisitObjectCreation(x) }
func (x *ArrayCreation) Accept(v Visitor)    { v.VisitArrayCreation(x) }
func (x *UnaryExpr) Accept(v Visitor)        { v.VisitUnaryExpr(x) }
func (x *PostfixExpr) Accept(v Visitor)      { v.VisitPostfixExpr(x) }
func (x *BinaryExpr) Accept(v Visitor)       { v.VisitBinaryExpr(x) }
func (x *AssignExpr) Accept(v Visitor)       { v.VisitAssignExpr(x) }
func (x *ElementAccess) Accept(v Visitor)    { v.VisitElementAccess(x) }
func (x *CastExpr) Accept(v Visitor)         { v.VisitCastExpr(x) }

// Walk traverses a code tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	walk(n, f)
}

func walk(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *Namespace:
		for _, x := range n.Namespaces {
			walk(x, f)
		}
		for _, x := range n.Classes {
			walk(x, f)
		}
		for _, x := range n.Interfaces {
			walk(x, f)
		}
		for _, x := range n.Structs {
			walk(x, f)
		}
		for _, x := range n.Enums {
			walk(x, f)
		}
		for _, x := range n.ErrorDomains {
			walk(x, f)
		}
		for _, x := range n.Delegates {
			walk(x, f)
		}
		for _, x := range n.Constants {
			walk(x, f)
		}
		for _, x := range n.Fields {
			walk(x, f)
		}
		for _, x := range n.Methods {
			walk(x, f)
		}

	case *Class:
		walkMembers(&n.Members, f)
	case *Interface:
		walkMembers(&n.Members, f)
	case *Struct:
		walkMembers(&n.Members, f)

	case *Enum:
		for _, x := range n.Values {
			walk(x, f)
		}
		for _, x := range n.Constants {
			walk(x, f)
		}
		for _, x := range n.Methods {
			walk(x, f)
		}

	case *EnumValue:
		walkExpr(n.Value, f)

	case *ErrorDomain:
		for _, x := range n.Codes {
			walk(x, f)
		}
		for _, x := range n.Methods {
			walk(x, f)
		}

	case *ErrorCode:
		walkExpr(n.Value, f)

	case *Delegate:
		for _, x := range n.TypeParams {
			walk(x, f)
		}
		for _, x := range n.Params {
			walk(x, f)
		}

	case *TypeParameter:
		// no-op

	case *Method:
		walkMethod(n, f)
	case *CreationMethod:
		walkMethod(&n.Method, f)

	case *Parameter:
		walkExpr(n.Default, f)

	case *Property:
		if n.Getter != nil {
			walk(n.Getter, f)
		}
		if n.Setter != nil {
			walk(n.Setter, f)
		}

	case *PropertyAccessor:
		walkBlock(n.Body, f)

	case *Signal:
		for _, x := range n.Params {
			walk(x, f)
		}
		walkBlock(n.Body, f)

	case *Field:
		walkExpr(n.Initializer, f)

	case *Constant:
		walkExpr(n.Value, f)

	case *LocalVariable:
		walkExpr(n.Initializer, f)

	case *Constructor:
		walkBlock(n.Body, f)

	case *Destructor:
		walkBlock(n.Body, f)

	case *Block:
		for _, s := range n.Stmts {
			walk(s, f)
		}

	case *IfStmt:
		walk(n.Cond, f)
		walk(n.Then, f)
		walkBlock(n.Else, f)

	case *SwitchStmt:
		walk(n.Expr, f)
		for _, sec := range n.Sections {
			walk(sec, f)
		}

	case *SwitchSection:
		for _, l := range n.Labels {
			walk(l, f)
		}
		walk(n.Block, f)

	case *SwitchLabel:
		walkExpr(n.Expr, f)

	case *LoopStmt:
		walk(n.Body, f)

	case *WhileStmt:
		walk(n.Cond, f)
		walk(n.Body, f)

	case *DoStmt:
		walk(n.Body, f)
		walk(n.Cond, f)

	case *ForStmt:
		for _, s := range n.Init {
			walk(s, f)
		}
		walkExpr(n.Cond, f)
		for _, x := range n.Iter {
			walk(x, f)
		}
		walk(n.Body, f)

	case *ForeachStmt:
		walk(n.Collection, f)
		walk(n.Body, f)

	case *TryStmt:
		walk(n.Body, f)
		for _, c := range n.Catches {
			walk(c, f)
		}
		walkBlock(n.Finally, f)

	case *CatchClause:
		walk(n.Body, f)

	case *ThrowStmt:
		walk(n.Err, f)

	case *ReturnStmt:
		walkExpr(n.Result, f)

	case *BreakStmt, *ContinueStmt:
		// no-op

	case *LockStmt:
		walk(n.Resource, f)
		walkBlock(n.Body, f)

	case *UnlockStmt:
		walk(n.Resource, f)

	case *DeclarationStmt:
		walk(n.Var, f)

	case *ExprStmt:
		walk(n.X, f)

	case *Literal:
		// no-op

	case *NameExpr:
		walkExpr(n.Inner, f)

	case *CallExpr:
		walk(n.Fn, f)
		walkExprs(n.Args, f)

	case *ObjectCreation:
		walkExprs(n.Args, f)

	case *ArrayCreation:
		walkExprs(n.Sizes, f)
		walkExprs(n.Init, f)

	case *UnaryExpr:
		walk(n.X, f)

	case *PostfixExpr:
		walk(n.X, f)

	case *BinaryExpr:
		walk(n.X, f)
		walk(n.Y, f)

	case *AssignExpr:
		walk(n.LHS, f)
		walk(n.RHS, f)

	case *ElementAccess:
		walk(n.X, f)
		walkExprs(n.Index, f)

	case *CastExpr:
		walk(n.X, f)

	default:
		panic(fmt.Sprintf("unexpected node %T", n))
	}

	f(nil)
}

func walkMembers(ms *Members, f func(Node) bool) {
	for _, x := range ms.TypeParams {
		walk(x, f)
	}
	for _, x := range ms.Enums {
		walk(x, f)
	}
	for _, x := range ms.Fields {
		walk(x, f)
	}
	for _, x := range ms.Constants {
		walk(x, f)
	}
	for _, x := range ms.Methods {
		walk(x, f)
	}
	for _, x := range ms.Properties {
		walk(x, f)
	}
	for _, x := range ms.Signals {
		walk(x, f)
	}
	for _, x := range ms.CreationMethods {
		walk(x, f)
	}
	for _, x := range ms.Constructors {
		walk(x, f)
	}
	for _, x := range ms.Destructors {
		walk(x, f)
	}
	for _, x := range ms.Classes {
		walk(x, f)
	}
	for _, x := range ms.Interfaces {
		walk(x, f)
	}
	for _, x := range ms.Structs {
		walk(x, f)
	}
	for _, x := range ms.Delegates {
		walk(x, f)
	}
}

func walkMethod(m *Method, f func(Node) bool) {
	for _, x := range m.TypeParams {
		walk(x, f)
	}
	for _, x := range m.Params {
		walk(x, f)
	}
	walkBlock(m.Body, f)
}

func walkBlock(b *Block, f func(Node) bool) {
	if b != nil {
		walk(b, f)
	}
}

func walkExpr(x Expr, f func(Node) bool) {
	if x != nil {
		walk(x, f)
	}
}

func walkExprs(list []Expr, f func(Node) bool) {
	for _, x := range list {
		walk(x, f)
	}
}
