// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file is a fork of ast.Inspect's traversal shape, adapted to this
// language's much smaller node set.

package ast

// Visitor is called once per node during Walk; returning false prunes the
// node's children.
type Visitor func(n Node) bool

// Walk traverses an AST in depth-first order, calling v for every node
// reachable from n. The order of cases mirrors declaration order in
// ast.go/expr.go/stmt.go, matching the convention used by go/ast's own
// Inspect.
func Walk(n Node, v Visitor) {
	if n == nil || !v(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, d := range n.Declarations {
			Walk(d, v)
		}
	case *VariableDecl:
		if n.Initializer != nil {
			Walk(n.Initializer, v)
		}
	case *FunctionDecl:
		for _, s := range n.Body {
			Walk(s, v)
		}
	case *ImportDecl, *SimpleMapDecl, *RangeMapDecl, *SequentialStructMapDecl, *ExplicitStructMapDecl:
		// leaves: no child expressions to walk

	case *IntLiteral, *BoolLiteral, *StringLiteral, *Ident:
		// leaves

	case *ArrayLiteral:
		for _, e := range n.Elements {
			Walk(e, v)
		}
	case *BinaryExpr:
		Walk(n.Left, v)
		Walk(n.Right, v)
	case *UnaryExpr:
		Walk(n.Operand, v)
	case *AssignExpr:
		Walk(n.Target, v)
		Walk(n.Value, v)
	case *CallExpr:
		Walk(n.Callee, v)
		for _, a := range n.Args {
			Walk(a, v)
		}
	case *IndexExpr:
		Walk(n.Base, v)
		Walk(n.Index, v)
	case *MemberExpr:
		Walk(n.Base, v)

	case *ExprStmt:
		Walk(n.X, v)
	case *VarDeclStmt:
		Walk(n.Decl, v)
	case *IfStmt:
		Walk(n.Cond, v)
		for _, s := range n.Then {
			Walk(s, v)
		}
		for _, s := range n.Else {
			Walk(s, v)
		}
	case *WhileStmt:
		Walk(n.Cond, v)
		for _, s := range n.Body {
			Walk(s, v)
		}
	case *ForStmt:
		if n.IsRange {
			Walk(n.Start, v)
			Walk(n.End, v)
			if n.Step != nil {
				Walk(n.Step, v)
			}
			for _, s := range n.Body {
				Walk(s, v)
			}
			return
		}
		if n.Init != nil {
			Walk(n.Init, v)
		}
		if n.Cond != nil {
			Walk(n.Cond, v)
		}
		if n.Incr != nil {
			Walk(n.Incr, v)
		}
		for _, s := range n.Body {
			Walk(s, v)
		}
	case *MatchStmt:
		Walk(n.Subject, v)
		for _, c := range n.Cases {
			if c.Test != nil {
				Walk(c.Test, v)
			}
			for _, s := range c.Body {
				Walk(s, v)
			}
		}
	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, v)
		}
	case *BreakStmt, *ContinueStmt:
		// leaves
	case *BlockStmt:
		for _, s := range n.List {
			Walk(s, v)
		}
	}
}
