// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaconv

import "github.com/blendsdk/blend65/il"

// rename is the Cytron preorder dominator-tree renaming walk (§4.L step
// 5), grounded on ssa-lift.go's rename: current holds this subtree's
// "top of stack" register per variable name; it is copied (not shared)
// before descending into each dominator-tree child so that a sibling
// subtree never observes this subtree's definitions.
func (c *converter) rename(b il.BlockID, current map[string]*il.VirtualRegister) {
	if phis, ok := c.phis[b]; ok {
		for name, phi := range phis {
			current[name] = phi.Result
			c.versionsCreated++
		}
	}

	block := c.fn.Block(b)
	for _, instr := range block.Instrs {
		if !c.promotable[instr.VarName] {
			continue
		}
		switch instr.Op {
		case il.OpStoreVar:
			if len(instr.Args) == 1 {
				current[instr.VarName] = instr.Args[0]
			}
			c.markRemove(instr)
		case il.OpLoadVar:
			c.subst[instr.Result] = c.definition(instr.VarName, current)
			c.markRemove(instr)
		}
	}

	for _, succ := range block.Succs {
		if phis, ok := c.phis[succ]; ok {
			for name, phi := range phis {
				phi.PhiArgs[b] = c.definition(name, current)
			}
		}
	}

	for _, child := range c.children[b] {
		next := make(map[string]*il.VirtualRegister, len(current))
		for k, v := range current {
			next[k] = v
		}
		c.rename(child, next)
	}
}

// definition returns the live definition of name in the current
// renaming frame, materializing a lazily-created zero constant the
// first time a variable is read before any path to it defines it
// (§4.L doesn't specify recovery for this malformed-input case; a
// zero placeholder keeps the pass total instead of panicking).
func (c *converter) definition(name string, current map[string]*il.VirtualRegister) *il.VirtualRegister {
	if r, ok := current[name]; ok && r != nil {
		return r
	}
	if z, ok := c.zero[name]; ok {
		return z
	}
	entry := c.fn.EntryBlock()
	var result *il.VirtualRegister
	if typ := c.varType[name]; typ != nil {
		result = c.fn.NewRegister(typ.Type, name+".zero")
	} else {
		result = c.fn.NewRegister(nil, name+".zero")
	}
	zeroInstr := &il.Instruction{Op: il.OpConst, Result: result, ConstValue: 0}
	entry.Instrs = append([]*il.Instruction{zeroInstr}, entry.Instrs...)
	c.zero[name] = result
	return result
}

func (c *converter) markRemove(instr *il.Instruction) {
	if c.remove == nil {
		c.remove = make(map[*il.Instruction]bool)
	}
	c.remove[instr] = true
}

// applySubstitution rewrites every instruction argument (and every phi
// operand) that referenced a now-eliminated LOAD_VAR's result register,
// pointing it at the register renaming determined should replace it.
// This stands in for ssa-lift.go's replaceAll: that pass rewires a
// Value's Referrers in place because go/ssa tracks def-use chains
// explicitly; this IR doesn't, so a single global pointer-substitution
// pass over Args and PhiArgs achieves the same effect.
func (c *converter) applySubstitution() {
	if len(c.subst) == 0 {
		return
	}
	resolve := func(r *il.VirtualRegister) *il.VirtualRegister {
		seen := make(map[*il.VirtualRegister]bool)
		for {
			next, ok := c.subst[r]
			if !ok || next == r || seen[r] {
				return r
			}
			seen[r] = true
			r = next
		}
	}
	for _, b := range c.fn.Blocks {
		for _, instr := range b.Instrs {
			for i, a := range instr.Args {
				instr.Args[i] = resolve(a)
			}
			for pred, v := range instr.PhiArgs {
				instr.PhiArgs[pred] = resolve(v)
			}
		}
	}
	// Phis live in c.phis, not yet spliced into their block's Instrs
	// (removeLoweredInstructions does that later), so they need their
	// own substitution pass here.
	for _, phis := range c.phis {
		for _, phi := range phis {
			for pred, v := range phi.PhiArgs {
				phi.PhiArgs[pred] = resolve(v)
			}
		}
	}
}
