// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataflow

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/cfg"
	"github.com/blendsdk/blend65/symbols"
)

// Reaching is the result of reaching-definition analysis: per-block IN/OUT
// bitsets over DefID, plus the def-use and use-def chains derived from
// them (§4.H).
type Reaching struct {
	Defs []*Def
	In   map[cfg.BlockID]*bitset.BitSet
	Out  map[cfg.BlockID]*bitset.BitSet

	// DefUse maps a DefID to every Ident use it reaches.
	DefUse map[DefID][]*ast.Ident
	// UseDef maps a used Ident to every DefID that may reach it.
	UseDef map[*ast.Ident][]DefID
}

// BuildReaching computes reaching definitions for g. table must already be
// positioned in the function's own scope (see collectDefs).
func BuildReaching(g *cfg.CFG, table *symbols.Table) *Reaching {
	defs, bySymbol := collectDefs(g, table)
	n := uint(len(defs))

	gen := make(map[cfg.BlockID]*bitset.BitSet, g.NumBlocks())
	kill := make(map[cfg.BlockID]*bitset.BitSet, g.NumBlocks())
	for _, b := range g.Blocks {
		gen[b.ID] = bitset.New(n)
		kill[b.ID] = bitset.New(n)
	}

	for _, b := range g.Blocks {
		localLast := make(map[*symbols.Symbol]DefID)
		for _, s := range b.Stmts {
			d := defAt(defs, b.ID, s)
			if d == nil {
				continue
			}
			if prior, ok := localLast[d.Symbol]; ok {
				gen[b.ID].Clear(uint(prior))
				kill[b.ID].Set(uint(prior))
			}
			gen[b.ID].Set(uint(d.ID))
			localLast[d.Symbol] = d.ID
		}
		for sym, lastID := range localLast {
			for _, other := range bySymbol[sym] {
				if other.ID == lastID {
					continue
				}
				kill[b.ID].Set(uint(other.ID))
			}
		}
	}

	in := make(map[cfg.BlockID]*bitset.BitSet, g.NumBlocks())
	out := make(map[cfg.BlockID]*bitset.BitSet, g.NumBlocks())
	for _, b := range g.Blocks {
		in[b.ID] = bitset.New(n)
		out[b.ID] = bitset.New(n)
	}

	for changed := true; changed; {
		changed = false
		for _, b := range g.Blocks {
			if b.ID == g.Entry {
				continue
			}
			merged := bitset.New(n)
			for _, p := range b.Preds {
				merged.InPlaceUnion(out[p])
			}
			in[b.ID] = merged

			newOut := gen[b.ID].Union(in[b.ID].Difference(kill[b.ID]))
			if !newOut.Equal(out[b.ID]) {
				out[b.ID] = newOut
				changed = true
			}
		}
	}

	r := &Reaching{Defs: defs, In: in, Out: out, DefUse: make(map[DefID][]*ast.Ident), UseDef: make(map[*ast.Ident][]DefID)}
	r.buildChains(g)
	return r
}

func defAt(defs []*Def, block cfg.BlockID, stmt ast.Stmt) *Def {
	for _, d := range defs {
		if d.Block == block && d.Stmt == stmt {
			return d
		}
	}
	return nil
}

// buildChains walks every block again, tracking the in-block reaching set
// (seeded from In[block] and updated as local defs are processed) to
// attach each use of a variable to the defs that reach it.
func (r *Reaching) buildChains(g *cfg.CFG) {
	bySymbol := make(map[*symbols.Symbol][]*Def)
	for _, d := range r.Defs {
		bySymbol[d.Symbol] = append(bySymbol[d.Symbol], d)
	}

	for _, b := range g.Blocks {
		live := r.In[b.ID].Clone()
		for _, s := range b.Stmts {
			r.attachUsesInStmt(s, live, bySymbol)
			if d := defAt(r.Defs, b.ID, s); d != nil {
				for _, other := range bySymbol[d.Symbol] {
					live.Clear(uint(other.ID))
				}
				live.Set(uint(d.ID))
			}
		}
	}
}

func (r *Reaching) attachUsesInStmt(s ast.Stmt, live *bitset.BitSet, bySymbol map[*symbols.Symbol][]*Def) {
	var visitExpr func(e ast.Expr)
	visitExpr = func(e ast.Expr) {
		id, ok := e.(*ast.Ident)
		if !ok {
			switch ex := e.(type) {
			case *ast.BinaryExpr:
				visitExpr(ex.Left)
				visitExpr(ex.Right)
			case *ast.UnaryExpr:
				visitExpr(ex.Operand)
			case *ast.AssignExpr:
				visitExpr(ex.Value)
			case *ast.CallExpr:
				visitExpr(ex.Callee)
				for _, a := range ex.Args {
					visitExpr(a)
				}
			case *ast.IndexExpr:
				visitExpr(ex.Base)
				visitExpr(ex.Index)
			case *ast.ArrayLiteral:
				for _, el := range ex.Elements {
					visitExpr(el)
				}
			}
			return
		}
		var ids []DefID
		for sym, ds := range bySymbol {
			if sym.Name != id.Name {
				continue
			}
			for _, d := range ds {
				if live.Test(uint(d.ID)) {
					ids = append(ids, d.ID)
					r.DefUse[d.ID] = append(r.DefUse[d.ID], id)
				}
			}
		}
		if len(ids) > 0 {
			r.UseDef[id] = ids
		}
	}

	switch st := s.(type) {
	case *ast.ExprStmt:
		if asg, ok := st.X.(*ast.AssignExpr); ok {
			visitExpr(asg.Value)
		} else {
			visitExpr(st.X)
		}
	case *ast.VarDeclStmt:
		if st.Decl.Initializer != nil {
			visitExpr(st.Decl.Initializer)
		}
	case *ast.IfStmt:
		visitExpr(st.Cond)
	case *ast.WhileStmt:
		visitExpr(st.Cond)
	case *ast.ReturnStmt:
		if st.Value != nil {
			visitExpr(st.Value)
		}
	case *ast.MatchStmt:
		visitExpr(st.Subject)
	}
}
