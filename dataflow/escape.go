// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataflow

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/target"
)

// FuncEscape is the per-function stack-depth estimate produced alongside
// escape analysis (§4.H).
type FuncEscape struct {
	StackDepth     int
	OverflowRisk   bool
}

// ComputeEscape classifies every local variable and parameter of fn as
// escaping or stack-allocatable, attaching ast.MetaEscapes/
// ast.MetaStackAllocatable to each declaring VariableDecl (parameters,
// which have no VariableDecl, are classified but not annotated), and
// returns fn's conservative stack-depth estimate. calleeDepth supplies the
// already-computed depth of each pure function fn calls (§4.H: "max callee
// depth over pure-call targets").
func ComputeEscape(fn *ast.FunctionDecl, table *symbols.Table, tgt *target.Config, calleeDepth map[string]int, purity *Purity) FuncEscape {
	scope := table.ScopeOf(fn)
	if scope != nil {
		table.EnterExistingScope(scope)
		defer table.ExitScope()
	}

	escaping := make(map[string]bool)

	markEscaping := func(name string) { escaping[name] = true }

	var identsIn func(e ast.Expr, visit func(name string))
	identsIn = func(e ast.Expr, visit func(name string)) {
		switch ex := e.(type) {
		case *ast.Ident:
			visit(ex.Name)
		case *ast.BinaryExpr:
			identsIn(ex.Left, visit)
			identsIn(ex.Right, visit)
		case *ast.UnaryExpr:
			identsIn(ex.Operand, visit)
		case *ast.AssignExpr:
			identsIn(ex.Target, visit)
			identsIn(ex.Value, visit)
		case *ast.CallExpr:
			identsIn(ex.Callee, visit)
			for _, a := range ex.Args {
				identsIn(a, visit)
			}
		case *ast.IndexExpr:
			identsIn(ex.Base, visit)
			identsIn(ex.Index, visit)
		case *ast.MemberExpr:
			identsIn(ex.Base, visit)
		case *ast.ArrayLiteral:
			for _, el := range ex.Elements {
				identsIn(el, visit)
			}
		}
	}

	var visitExpr func(e ast.Expr)
	visitExpr = func(e ast.Expr) {
		switch ex := e.(type) {
		case *ast.UnaryExpr:
			if ex.Op == ast.OpAddressOf {
				if id, ok := ex.Operand.(*ast.Ident); ok {
					markEscaping(id.Name)
				}
			}
			visitExpr(ex.Operand)
		case *ast.CallExpr:
			for _, a := range ex.Args {
				identsIn(a, markEscaping)
				visitExpr(a)
			}
			visitExpr(ex.Callee)
		case *ast.AssignExpr:
			if id, ok := ex.Target.(*ast.Ident); ok {
				if sym, ok := table.Lookup(id.Name); ok && sym.Scope != nil && sym.Scope.SKind == symbols.ModuleScope {
					identsIn(ex.Value, markEscaping)
				}
			}
			visitExpr(ex.Target)
			visitExpr(ex.Value)
		case *ast.BinaryExpr:
			visitExpr(ex.Left)
			visitExpr(ex.Right)
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
				identsIn(st.Value, markEscaping)
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
	}

	annotateDecls(fn.Body, escaping)

	return FuncEscape{
		StackDepth:   estimateStackDepth(fn, scope, calleeDepth, purity),
		OverflowRisk: estimateStackDepth(fn, scope, calleeDepth, purity) > tgtThreshold(tgt),
	}
}

func tgtThreshold(tgt *target.Config) int {
	if tgt == nil {
		return 1 << 30
	}
	return tgt.StackErrorThreshold
}

// annotateDecls attaches MetaEscapes/MetaStackAllocatable to every local
// VariableDecl reachable from body, recursing into control-flow statements
// since scoping is function-scoped (§3).
func annotateDecls(body []ast.Stmt, escaping map[string]bool) {
	var walk func(s ast.Stmt)
	walk = func(s ast.Stmt) {
		switch st := s.(type) {
		case *ast.VarDeclStmt:
			esc := escaping[st.Decl.Name]
			st.Decl.SetMeta(ast.MetaEscapes, esc)
			st.Decl.SetMeta(ast.MetaStackAllocatable, !esc)
		case *ast.IfStmt:
			for _, s2 := range st.Then {
				walk(s2)
			}
			for _, s2 := range st.Else {
				walk(s2)
			}
		case *ast.WhileStmt:
			for _, s2 := range st.Body {
				walk(s2)
			}
		case *ast.ForStmt:
			for _, s2 := range st.Body {
				walk(s2)
			}
		case *ast.MatchStmt:
			for _, c := range st.Cases {
				for _, s2 := range c.Body {
					walk(s2)
				}
			}
		case *ast.BlockStmt:
			for _, s2 := range st.List {
				walk(s2)
			}
		}
	}
	for _, s := range body {
		walk(s)
	}
}

// estimateStackDepth implements §4.H's conservative frame-size formula: 2
// return-address bytes, plus parameter bytes, plus local-variable bytes,
// plus the deepest callee frame reachable through a pure (hence inlinable
// without its own growing frame chain) call.
func estimateStackDepth(fn *ast.FunctionDecl, scope *symbols.Scope, calleeDepth map[string]int, purity *Purity) int {
	depth := 2
	if scope != nil {
		for _, sym := range scope.Symbols() {
			if sym.Type != nil {
				depth += sym.Type.Size()
			}
		}
	}
	maxCallee := 0
	walkCalls(fn.Body, func(name string) {
		if purity == nil || !purity.IsPure(name) {
			return
		}
		if d, ok := calleeDepth[name]; ok && d > maxCallee {
			maxCallee = d
		}
	})
	return depth + maxCallee
}

func walkCalls(body []ast.Stmt, visit func(name string)) {
	var visitExpr func(e ast.Expr)
	visitExpr = func(e ast.Expr) {
		switch ex := e.(type) {
		case *ast.CallExpr:
			if id, ok := ex.Callee.(*ast.Ident); ok {
				visit(id.Name)
			}
			for _, a := range ex.Args {
				visitExpr(a)
			}
		case *ast.BinaryExpr:
			visitExpr(ex.Left)
			visitExpr(ex.Right)
		case *ast.UnaryExpr:
			visitExpr(ex.Operand)
		case *ast.AssignExpr:
			visitExpr(ex.Value)
		case *ast.IndexExpr:
			visitExpr(ex.Base)
			visitExpr(ex.Index)
		}
	}
	var visitStmt func(s ast.Stmt)
	visitStmt = func(s ast.Stmt) {
		switch st := s.(type) {
		case *ast.ExprStmt:
			visitExpr(st.X)
		case *ast.VarDeclStmt:
			if st.Decl.Initializer != nil {
				visitExpr(st.Decl.Initializer)
			}
		case *ast.IfStmt:
			for _, s2 := range st.Then {
				visitStmt(s2)
			}
			for _, s2 := range st.Else {
				visitStmt(s2)
			}
		case *ast.WhileStmt:
			for _, s2 := range st.Body {
				visitStmt(s2)
			}
		case *ast.ForStmt:
			for _, s2 := range st.Body {
				visitStmt(s2)
			}
		case *ast.MatchStmt:
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
	for _, s := range body {
		visitStmt(s)
	}
}
