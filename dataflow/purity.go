// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataflow

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/callgraph"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/target"
)

// Purity holds the fixed-point purity classification of every function in
// a module (§4.H). The indirect-call sentinel is always impure, since its
// body is unknown.
type Purity struct {
	pure map[string]bool
}

// IsPure reports whether fnName was classified pure.
func (p *Purity) IsPure(fnName string) bool { return p.pure[fnName] }

// ComputePurity classifies every function declared in program, iterating
// to a fixed point over g so that impurity propagates from callees to
// callers (§4.H). table must be positioned at the module's root scope;
// localBodyIsPure enters each function's scope itself as it inspects bodies.
func ComputePurity(program *ast.Program, table *symbols.Table, g *callgraph.Graph, tgt *target.Config) *Purity {
	local := make(map[string]bool)
	decls := make(map[string]*ast.FunctionDecl)

	for _, d := range program.Declarations {
		fn, ok := d.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		decls[fn.Name] = fn
		if fn.Body == nil {
			local[fn.Name] = false // stub / unknown body: conservative
			continue
		}
		local[fn.Name] = localBodyIsPure(fn, table, tgt)
	}

	pure := make(map[string]bool, len(local))
	for name, v := range local {
		pure[name] = v
	}

	for changed := true; changed; {
		changed = false
		for _, n := range g.Nodes() {
			if n.Indirect || !pure[n.Name] {
				continue
			}
			for _, e := range n.Out() {
				if e.Callee.Indirect || !pure[e.Callee.Name] {
					pure[n.Name] = false
					changed = true
					break
				}
			}
		}
	}

	for name, fn := range decls {
		fn.SetMeta(ast.MetaPure, pure[name])
	}
	return &Purity{pure: pure}
}

// localBodyIsPure checks the purity rules that don't require the call
// graph: module-variable writes, array writes (conservative aliasing),
// and impure-intrinsic calls.
func localBodyIsPure(fn *ast.FunctionDecl, table *symbols.Table, tgt *target.Config) bool {
	scope := table.ScopeOf(fn)
	if scope != nil {
		table.EnterExistingScope(scope)
		defer table.ExitScope()
	}

	pure := true
	var visitExpr func(e ast.Expr)
	visitExpr = func(e ast.Expr) {
		if !pure {
			return
		}
		switch ex := e.(type) {
		case *ast.AssignExpr:
			if writesToModuleOrArray(ex.Target, table) {
				pure = false
				return
			}
			visitExpr(ex.Target)
			visitExpr(ex.Value)
		case *ast.CallExpr:
			if id, ok := ex.Callee.(*ast.Ident); ok {
				if tgt != nil && tgt.IsIntrinsic(id.Name) && !tgt.IsPure(id.Name) {
					pure = false
					return
				}
			} else {
				pure = false // indirect call through a callback value
				return
			}
			visitExpr(ex.Callee)
			for _, a := range ex.Args {
				visitExpr(a)
			}
		case *ast.BinaryExpr:
			visitExpr(ex.Left)
			visitExpr(ex.Right)
		case *ast.UnaryExpr:
			visitExpr(ex.Operand)
		case *ast.IndexExpr:
			visitExpr(ex.Base)
			visitExpr(ex.Index)
		case *ast.ArrayLiteral:
			for _, el := range ex.Elements {
				visitExpr(el)
			}
		}
	}

	var visitStmt func(s ast.Stmt)
	visitStmt = func(s ast.Stmt) {
		if !pure {
			return
		}
		switch st := s.(type) {
		case *ast.ExprStmt:
			visitExpr(st.X)
		case *ast.VarDeclStmt:
			if st.Decl.Initializer != nil {
				visitExpr(st.Decl.Initializer)
			}
		case *ast.IfStmt:
			visitExpr(st.Cond)
			for _, s2 := range st.Then {
				visitStmt(s2)
			}
			for _, s2 := range st.Else {
				visitStmt(s2)
			}
		case *ast.WhileStmt:
			visitExpr(st.Cond)
			for _, s2 := range st.Body {
				visitStmt(s2)
			}
		case *ast.ForStmt:
			if !st.IsRange {
				if st.Init != nil {
					visitStmt(st.Init)
				}
				if st.Cond != nil {
					visitExpr(st.Cond)
				}
				if st.Incr != nil {
					visitStmt(st.Incr)
				}
			}
			for _, s2 := range st.Body {
				visitStmt(s2)
			}
		case *ast.MatchStmt:
			visitExpr(st.Subject)
			for _, c := range st.Cases {
				for _, s2 := range c.Body {
					visitStmt(s2)
				}
			}
		case *ast.ReturnStmt:
			if st.Value != nil {
				visitExpr(st.Value)
			}
		case *ast.BlockStmt:
			for _, s2 := range st.List {
				visitStmt(s2)
			}
		}
	}

	for _, s := range fn.Body {
		visitStmt(s)
		if !pure {
			return false
		}
	}
	return pure
}

func writesToModuleOrArray(assignTarget ast.Expr, table *symbols.Table) bool {
	switch t := assignTarget.(type) {
	case *ast.Ident:
		sym, ok := table.Lookup(t.Name)
		return ok && sym.Scope != nil && sym.Scope.SKind == symbols.ModuleScope
	case *ast.IndexExpr:
		return true // array writes are conservatively impure (aliasing)
	case *ast.MemberExpr:
		return true
	default:
		return false
	}
}
