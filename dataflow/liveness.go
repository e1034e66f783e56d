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

// Liveness is the result of backward live-variable analysis: per-block
// live-in/live-out bitsets over Vars, indexed the same way in both maps
// (§4.H: "feeds register allocation hints and the 6502 zero-page hinter").
type Liveness struct {
	Vars    []*symbols.Symbol
	varIdx  map[*symbols.Symbol]uint
	LiveIn  map[cfg.BlockID]*bitset.BitSet
	LiveOut map[cfg.BlockID]*bitset.BitSet
}

// IsLiveOut reports whether sym is live out of block b.
func (l *Liveness) IsLiveOut(b cfg.BlockID, sym *symbols.Symbol) bool {
	i, ok := l.varIdx[sym]
	if !ok {
		return false
	}
	return l.LiveOut[b].Test(i)
}

// BuildLiveness computes live-in/live-out sets for g. table must already
// be positioned in the function's own scope.
func BuildLiveness(g *cfg.CFG, table *symbols.Table) *Liveness {
	varIdx := make(map[*symbols.Symbol]uint)
	var vars []*symbols.Symbol
	indexOf := func(name string) (uint, bool) {
		sym, ok := table.Lookup(name)
		if !ok {
			return 0, false
		}
		if i, seen := varIdx[sym]; seen {
			return i, true
		}
		i := uint(len(vars))
		varIdx[sym] = i
		vars = append(vars, sym)
		return i, true
	}

	n := func() uint { return uint(len(vars)) }

	use := make(map[cfg.BlockID]*bitset.BitSet)
	def := make(map[cfg.BlockID]*bitset.BitSet)

	// First pass just to populate varIdx/vars deterministically in
	// order of first appearance over the blocks and their statements
	// before sizing the bitsets.
	for _, b := range g.Blocks {
		for _, s := range b.Stmts {
			varsUsed(s, func(name string) { indexOf(name) })
			if name, ok := defTarget(s); ok {
				indexOf(name)
			}
		}
	}

	for _, b := range g.Blocks {
		use[b.ID] = bitset.New(n())
		def[b.ID] = bitset.New(n())
	}

	for _, b := range g.Blocks {
		for _, s := range b.Stmts {
			varsUsed(s, func(name string) {
				i, ok := indexOf(name)
				if !ok {
					return
				}
				if !def[b.ID].Test(i) {
					use[b.ID].Set(i)
				}
			})
			if name, ok := defTarget(s); ok {
				if i, ok := indexOf(name); ok {
					def[b.ID].Set(i)
				}
			}
		}
	}

	liveIn := make(map[cfg.BlockID]*bitset.BitSet)
	liveOut := make(map[cfg.BlockID]*bitset.BitSet)
	for _, b := range g.Blocks {
		liveIn[b.ID] = bitset.New(n())
		liveOut[b.ID] = bitset.New(n())
	}

	for changed := true; changed; {
		changed = false
		for _, b := range g.Blocks {
			newOut := bitset.New(n())
			for _, s := range b.Succs {
				newOut.InPlaceUnion(liveIn[s])
			}
			newIn := use[b.ID].Union(newOut.Difference(def[b.ID]))
			if !newIn.Equal(liveIn[b.ID]) || !newOut.Equal(liveOut[b.ID]) {
				liveIn[b.ID] = newIn
				liveOut[b.ID] = newOut
				changed = true
			}
		}
	}

	l := &Liveness{Vars: vars, varIdx: varIdx, LiveIn: liveIn, LiveOut: liveOut}
	for _, b := range g.Blocks {
		for _, s := range b.Stmts {
			s.SetMeta(ast.MetaLiveIn, l.LiveIn[b.ID])
			s.SetMeta(ast.MetaLiveOut, l.LiveOut[b.ID])
		}
	}
	return l
}

// defTarget reports the variable name s assigns to, if any.
func defTarget(s ast.Stmt) (string, bool) {
	switch st := s.(type) {
	case *ast.VarDeclStmt:
		return st.Decl.Name, true
	case *ast.ExprStmt:
		if asg, ok := st.X.(*ast.AssignExpr); ok {
			if id, ok := asg.Target.(*ast.Ident); ok {
				return id.Name, true
			}
		}
	case *ast.ForStmt:
		if st.IsRange {
			return st.Var, true
		}
	}
	return "", false
}
