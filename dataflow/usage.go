// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataflow

import "github.com/blendsdk/blend65/ast"

// loopMultiplier weights an access inside a loop body relative to one
// outside (§4.H's score formula names the multiplier without fixing its
// value; 10 matches the order of magnitude a zero-page hinter needs to
// prefer loop-carried variables over incidental ones).
const loopMultiplier = 10

// varUsage accumulates the read/write counters behind a single variable's
// zero-page usage score.
type varUsage struct {
	reads, writes int
	usedInLoop    bool
	maxLoopDepth  int
}

// ComputeUsage walks fn's body counting reads and writes per local
// variable and flagging loop-carried accesses, then attaches
// ast.MetaUsageScore to each declaring VariableDecl (§4.H).
func ComputeUsage(fn *ast.FunctionDecl) {
	counts := make(map[string]*varUsage)
	get := func(name string) *varUsage {
		u, ok := counts[name]
		if !ok {
			u = &varUsage{}
			counts[name] = u
		}
		return u
	}

	depth := 0

	var visitExpr func(e ast.Expr, write bool)
	visitExpr = func(e ast.Expr, write bool) {
		switch ex := e.(type) {
		case *ast.Ident:
			u := get(ex.Name)
			if write {
				u.writes++
			} else {
				u.reads++
			}
			if depth > 0 {
				u.usedInLoop = true
				if depth > u.maxLoopDepth {
					u.maxLoopDepth = depth
				}
			}
		case *ast.BinaryExpr:
			visitExpr(ex.Left, false)
			visitExpr(ex.Right, false)
		case *ast.UnaryExpr:
			visitExpr(ex.Operand, false)
		case *ast.AssignExpr:
			if ex.Op != ast.AssignSet {
				visitExpr(ex.Target, false) // compound assign reads too
			}
			visitExpr(ex.Target, true)
			visitExpr(ex.Value, false)
		case *ast.CallExpr:
			visitExpr(ex.Callee, false)
			for _, a := range ex.Args {
				visitExpr(a, false)
			}
		case *ast.IndexExpr:
			visitExpr(ex.Base, false)
			visitExpr(ex.Index, false)
		case *ast.MemberExpr:
			visitExpr(ex.Base, false)
		case *ast.ArrayLiteral:
			for _, el := range ex.Elements {
				visitExpr(el, false)
			}
		}
	}

	var visitStmt func(s ast.Stmt)
	visitStmt = func(s ast.Stmt) {
		switch st := s.(type) {
		case *ast.ExprStmt:
			visitExpr(st.X, false)
		case *ast.VarDeclStmt:
			get(st.Decl.Name).writes++
			if st.Decl.Initializer != nil {
				visitExpr(st.Decl.Initializer, false)
			}
		case *ast.IfStmt:
			visitExpr(st.Cond, false)
			for _, s2 := range st.Then {
				visitStmt(s2)
			}
			for _, s2 := range st.Else {
				visitStmt(s2)
			}
		case *ast.WhileStmt:
			visitExpr(st.Cond, false)
			depth++
			for _, s2 := range st.Body {
				visitStmt(s2)
			}
			depth--
		case *ast.ForStmt:
			if st.IsRange {
				get(st.Var).writes++
				visitExpr(st.Start, false)
				visitExpr(st.End, false)
				if st.Step != nil {
					visitExpr(st.Step, false)
				}
			} else {
				if st.Init != nil {
					visitStmt(st.Init)
				}
				if st.Cond != nil {
					visitExpr(st.Cond, false)
				}
			}
			depth++
			for _, s2 := range st.Body {
				visitStmt(s2)
			}
			if !st.IsRange && st.Incr != nil {
				visitStmt(st.Incr)
			}
			depth--
		case *ast.MatchStmt:
			visitExpr(st.Subject, false)
			for _, c := range st.Cases {
				for _, s2 := range c.Body {
					visitStmt(s2)
				}
			}
		case *ast.ReturnStmt:
			if st.Value != nil {
				visitExpr(st.Value, false)
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

	score := func(u *varUsage) int {
		total := u.reads + u.writes
		if !u.usedInLoop {
			return total
		}
		return total * (loopMultiplier * (u.maxLoopDepth + 1))
	}

	var annotate func(body []ast.Stmt)
	annotate = func(body []ast.Stmt) {
		for _, s := range body {
			switch st := s.(type) {
			case *ast.VarDeclStmt:
				if u, ok := counts[st.Decl.Name]; ok {
					st.Decl.SetMeta(ast.MetaUsageScore, score(u))
				}
			case *ast.IfStmt:
				annotate(st.Then)
				annotate(st.Else)
			case *ast.WhileStmt:
				annotate(st.Body)
			case *ast.ForStmt:
				annotate(st.Body)
			case *ast.MatchStmt:
				for _, c := range st.Cases {
					annotate(c.Body)
				}
			case *ast.BlockStmt:
				annotate(st.List)
			}
		}
	}
	annotate(fn.Body)
}
