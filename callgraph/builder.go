// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package callgraph

import "github.com/blendsdk/blend65/ast"

// Build walks every function declaration in program and records a static
// call edge for every call whose callee is a plain identifier naming
// another function declaration; calls through any other expression
// (an indirect callback value) are recorded against the graph's
// indirect sentinel node instead (§4.G).
func Build(program *ast.Program) *Graph {
	g := New()
	for _, d := range program.Declarations {
		if fn, ok := d.(*ast.FunctionDecl); ok {
			g.CreateNode(fn.Name, fn)
		}
	}
	for _, d := range program.Declarations {
		fn, ok := d.(*ast.FunctionDecl)
		if !ok || fn.Body == nil {
			continue
		}
		caller := g.CreateNode(fn.Name, fn)
		walkStmts(fn.Body, func(call *ast.CallExpr) {
			if id, ok := call.Callee.(*ast.Ident); ok {
				if n, exists := g.Lookup(id.Name); exists {
					AddEdge(caller, call, n)
					return
				}
			}
			AddEdge(caller, call, g.Root)
		})
	}
	return g
}

// walkStmts visits every CallExpr reachable from list, recursing into
// nested expressions and control-flow bodies.
func walkStmts(list []ast.Stmt, visit func(*ast.CallExpr)) {
	for _, s := range list {
		walkStmt(s, visit)
	}
}

func walkStmt(s ast.Stmt, visit func(*ast.CallExpr)) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		walkExpr(st.X, visit)
	case *ast.VarDeclStmt:
		if st.Decl.Initializer != nil {
			walkExpr(st.Decl.Initializer, visit)
		}
	case *ast.IfStmt:
		walkExpr(st.Cond, visit)
		walkStmts(st.Then, visit)
		walkStmts(st.Else, visit)
	case *ast.WhileStmt:
		walkExpr(st.Cond, visit)
		walkStmts(st.Body, visit)
	case *ast.ForStmt:
		if st.IsRange {
			walkExpr(st.Start, visit)
			walkExpr(st.End, visit)
			if st.Step != nil {
				walkExpr(st.Step, visit)
			}
		} else {
			if st.Init != nil {
				walkStmt(st.Init, visit)
			}
			if st.Cond != nil {
				walkExpr(st.Cond, visit)
			}
			if st.Incr != nil {
				walkStmt(st.Incr, visit)
			}
		}
		walkStmts(st.Body, visit)
	case *ast.MatchStmt:
		walkExpr(st.Subject, visit)
		for _, c := range st.Cases {
			if c.Test != nil {
				walkExpr(c.Test, visit)
			}
			walkStmts(c.Body, visit)
		}
	case *ast.ReturnStmt:
		if st.Value != nil {
			walkExpr(st.Value, visit)
		}
	case *ast.BlockStmt:
		walkStmts(st.List, visit)
	}
}

func walkExpr(e ast.Expr, visit func(*ast.CallExpr)) {
	switch ex := e.(type) {
	case *ast.CallExpr:
		visit(ex)
		for _, a := range ex.Args {
			walkExpr(a, visit)
		}
	case *ast.BinaryExpr:
		walkExpr(ex.Left, visit)
		walkExpr(ex.Right, visit)
	case *ast.UnaryExpr:
		walkExpr(ex.Operand, visit)
	case *ast.AssignExpr:
		walkExpr(ex.Target, visit)
		walkExpr(ex.Value, visit)
	case *ast.IndexExpr:
		walkExpr(ex.Base, visit)
		walkExpr(ex.Index, visit)
	case *ast.MemberExpr:
		walkExpr(ex.Base, visit)
	case *ast.ArrayLiteral:
		for _, el := range ex.Elements {
			walkExpr(el, visit)
		}
	}
}
