// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ssaconv implements Component L (§4.L): the SSA constructor.
// It takes an il.Function whose variables are addressed through
// LOAD_VAR/STORE_VAR by name (ilgen deliberately defers SSA promotion,
// per §4.K's doc comment) and rewrites it in place into pure SSA form —
// every register has exactly one defining instruction, merge points get
// PHI instructions, and LOAD_VAR/STORE_VAR disappear.
//
// The phi-placement and renaming algorithm is the classical Cytron et
// al. construction via iterated dominance frontiers, grounded on
// other_examples' ssa-lift.go (golang.org/x/tools/go/ssa's lift.go):
// the same defblocks/hasAlready/work bitset shapes, the same preorder
// dominator-tree renaming walk. The difference is the substrate: that
// file lifts *Alloc cells reached through *UnOp/*Store instructions,
// this one lifts named variables reached through LOAD_VAR/STORE_VAR,
// and register uses are pointers baked into Instruction.Args rather
// than a Value's Referrers list, so renaming ends with a global
// pointer-substitution pass instead of a rewire-in-place one.
package ssaconv

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/blendsdk/blend65/il"
	"github.com/blendsdk/blend65/types"
)

// Stats reports the constructor's per-function statistics (§4.L: "phi
// count, versions created, dominator-tree depth").
type Stats struct {
	PhiCount        int
	VersionsCreated int
	DomTreeDepth    int
}

// Convert rewrites fn in place into SSA form and returns its stats.
// Safe to call on a function with no local variables (Stats will be
// all-zero).
func Convert(fn *il.Function) Stats {
	c := &converter{
		fn:      fn,
		idom:    fn.ComputeDominators(),
		subst:   make(map[*il.VirtualRegister]*il.VirtualRegister),
		zero:    make(map[string]*il.VirtualRegister),
		varType: make(map[string]*il.VirtualRegister),
		version: make(map[string]int),
	}
	c.df = fn.ComputeDominanceFrontier(c.idom)
	c.buildDomChildren()

	vars := c.collectVariables()
	c.placePhis(vars)
	c.rename(fn.EntryBlock().ID, map[string]*il.VirtualRegister{})
	c.applySubstitution()
	c.dropDeadPhis()
	c.removeLoweredInstructions()

	return Stats{
		PhiCount:        c.phiCount,
		VersionsCreated: c.versionsCreated,
		DomTreeDepth:    c.domTreeDepth(),
	}
}

type converter struct {
	fn   *il.Function
	idom map[il.BlockID]il.BlockID
	df   map[il.BlockID][]il.BlockID

	// children is the dominator tree's adjacency, idom inverted.
	children map[il.BlockID][]il.BlockID

	// phis maps a block to the phi instruction it received for each
	// variable placed there.
	phis map[il.BlockID]map[string]*il.Instruction

	// subst maps a LOAD_VAR instruction's Result register to the
	// register that replaces every use of it.
	subst map[*il.VirtualRegister]*il.VirtualRegister

	// remove marks LOAD_VAR/STORE_VAR instructions for deletion once
	// renaming has consumed their effect.
	remove map[*il.Instruction]bool

	// removedPhis marks phis pruned by dropDeadPhis.
	removedPhis map[*il.Instruction]bool

	// zero holds a lazily-created placeholder CONST 0 register per
	// variable, used when a variable is read before any definition
	// dominates the use (malformed input; §4.L doesn't specify a
	// recovery so this keeps the pass total rather than panicking).
	zero map[string]*il.VirtualRegister

	// varType records one representative register per variable name,
	// used to type newly-inserted phis and zero placeholders.
	varType map[string]*il.VirtualRegister

	// promotable holds every variable name rename is allowed to touch;
	// an address-taken variable is never added to it, so its
	// LOAD_VAR/STORE_VAR instructions pass through Convert untouched.
	promotable map[string]bool

	// version is a per-variable monotone counter stamped onto a phi's
	// Result.SSAVersion at the moment the phi is created (§4.L step 4).
	// A phi's result register is never shared with any other variable,
	// so stamping it is unambiguous. A plain value register computed by
	// an ordinary instruction and then stored to a variable is NOT
	// stamped: the same register can be the live definition of more
	// than one variable at once (`x = y = v;` stores one register into
	// two names), so a single scalar SSAVersion field on it can't carry
	// more than one variable's version number. Those registers keep
	// SSAVersion at its zero value; their identity as the right register
	// in the right place already comes from rename's substitution, not
	// from the version number.
	version map[string]int

	phiCount        int
	versionsCreated int
}

func (c *converter) buildDomChildren() {
	c.children = make(map[il.BlockID][]il.BlockID, len(c.idom))
	for b, p := range c.idom {
		c.children[p] = append(c.children[p], b)
	}
}

func (c *converter) domTreeDepth() int {
	var depth func(b il.BlockID) int
	depth = func(b il.BlockID) int {
		max := 0
		for _, ch := range c.children[b] {
			if d := depth(ch); d > max {
				max = d
			}
		}
		return max + 1
	}
	return depth(c.fn.EntryBlock().ID)
}

// ssaVariable is one LOAD_VAR/STORE_VAR-addressed name, with the set of
// blocks that define it (§4.L step 3).
type ssaVariable struct {
	name      string
	defBlocks *bitset.BitSet
}

// collectVariables determines the SSA variable set: every distinct
// VarName referenced by a LOAD_VAR or STORE_VAR, together with its
// defining blocks (§4.L step 3). Parameters are included because
// lowerFunction seeds each one with an initial STORE_VAR in the entry
// block (ilgen/function.go), so they already look like any other
// defined variable here.
func (c *converter) collectVariables() []*ssaVariable {
	n := uint(len(c.fn.Blocks))
	byName := make(map[string]*ssaVariable)
	var order []string

	// A variable whose address is taken (ADDRESS_OF) is not liftable:
	// its observable identity is its memory location, not a value, the
	// same liftability exclusion ssa-lift.go's liftAlloc applies to any
	// *Alloc that escapes via an instruction other than *UnOp/*Store.
	addressTaken := make(map[string]bool)
	for _, b := range c.fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == il.OpAddressOf {
				addressTaken[instr.VarName] = true
			}
		}
	}

	for _, b := range c.fn.Blocks {
		for _, instr := range b.Instrs {
			if addressTaken[instr.VarName] && (instr.Op == il.OpStoreVar || instr.Op == il.OpLoadVar) {
				continue
			}
			switch instr.Op {
			case il.OpStoreVar:
				v, ok := byName[instr.VarName]
				if !ok {
					v = &ssaVariable{name: instr.VarName, defBlocks: bitset.New(n)}
					byName[instr.VarName] = v
					order = append(order, instr.VarName)
				}
				v.defBlocks.Set(uint(b.ID))
				if len(instr.Args) == 1 {
					c.varType[instr.VarName] = instr.Args[0]
				}
			case il.OpLoadVar:
				if _, ok := byName[instr.VarName]; !ok {
					byName[instr.VarName] = &ssaVariable{name: instr.VarName, defBlocks: bitset.New(n)}
					order = append(order, instr.VarName)
				}
				if _, ok := c.varType[instr.VarName]; !ok {
					c.varType[instr.VarName] = instr.Result
				}
			}
		}
	}

	c.promotable = make(map[string]bool, len(order))
	for _, name := range order {
		c.promotable[name] = true
	}

	vars := make([]*ssaVariable, len(order))
	for i, name := range order {
		vars[i] = byName[name]
	}
	return vars
}

// placePhis runs the iterated dominance frontier work-list algorithm
// per variable (§4.L step 4), grounded on ssa-lift.go's liftAlloc:
// hasAlready/W there become the same two bitsets here, scoped to one
// variable at a time instead of one alloc at a time.
func (c *converter) placePhis(vars []*ssaVariable) {
	c.phis = make(map[il.BlockID]map[string]*il.Instruction)
	n := uint(len(c.fn.Blocks))

	for _, v := range vars {
		hasAlready := bitset.New(n)
		work := bitset.New(n)
		var W []il.BlockID

		for b, ok := v.defBlocks.NextSet(0); ok; b, ok = v.defBlocks.NextSet(b + 1) {
			id := il.BlockID(b)
			if !work.Test(uint(id)) {
				work.Set(uint(id))
				W = append(W, id)
			}
		}

		for len(W) > 0 {
			x := W[len(W)-1]
			W = W[:len(W)-1]
			for _, y := range c.df[x] {
				if hasAlready.Test(uint(y)) {
					continue
				}
				hasAlready.Set(uint(y))
				c.insertPhi(y, v.name)
				if !work.Test(uint(y)) {
					work.Set(uint(y))
					W = append(W, y)
				}
			}
		}
	}
}

func (c *converter) insertPhi(b il.BlockID, name string) {
	if c.phis[b] == nil {
		c.phis[b] = make(map[string]*il.Instruction)
	}
	if _, ok := c.phis[b][name]; ok {
		return
	}
	var typ types.Type
	if vr := c.varType[name]; vr != nil {
		typ = vr.Type
	}
	result := c.fn.NewRegister(typ, name)
	c.version[name]++
	result.SSAVersion = c.version[name]
	phi := &il.Instruction{Op: il.OpPhi, Result: result, PhiArgs: make(map[il.BlockID]*il.VirtualRegister)}
	c.phis[b][name] = phi
	c.phiCount++
}
