// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaconv

import "github.com/blendsdk/blend65/il"

// dropDeadPhis prunes any placed phi that nothing ever references,
// iterating to a fixpoint since removing one phi can make another
// phi — one that only fed into it — newly dead. Grounded on
// ssa-lift.go's lift: that pass checks len(*np.phi.Referrers()) after
// renaming for the same reason.
func (c *converter) dropDeadPhis() {
	for {
		refs := c.countReferences()
		removed := false
		for b, phis := range c.phis {
			for name, phi := range phis {
				if refs[phi.Result] > 0 {
					continue
				}
				delete(phis, name)
				c.markRemovePhi(phi)
				removed = true
			}
			if len(phis) == 0 {
				delete(c.phis, b)
			}
		}
		if !removed {
			return
		}
	}
}

func (c *converter) countReferences() map[*il.VirtualRegister]int {
	refs := make(map[*il.VirtualRegister]int)
	for _, b := range c.fn.Blocks {
		for _, instr := range b.Instrs {
			if c.remove[instr] {
				continue
			}
			for _, a := range instr.Args {
				refs[a]++
			}
		}
	}
	for _, phis := range c.phis {
		for _, phi := range phis {
			for _, v := range phi.PhiArgs {
				refs[v]++
			}
		}
	}
	return refs
}

func (c *converter) markRemovePhi(phi *il.Instruction) {
	if c.removedPhis == nil {
		c.removedPhis = make(map[*il.Instruction]bool)
	}
	c.removedPhis[phi] = true
	c.phiCount--
}

// removeLoweredInstructions drops every LOAD_VAR/STORE_VAR marked by
// rename and prepends each block's surviving phis, completing the
// transition to pure SSA form.
func (c *converter) removeLoweredInstructions() {
	for _, b := range c.fn.Blocks {
		kept := b.Instrs[:0]
		for _, instr := range b.Instrs {
			if c.remove[instr] {
				continue
			}
			kept = append(kept, instr)
		}
		b.Instrs = kept

		phis := c.phis[b.ID]
		if len(phis) == 0 {
			continue
		}
		var ordered []*il.Instruction
		for _, phi := range phis {
			if c.removedPhis[phi] {
				continue
			}
			ordered = append(ordered, phi)
		}
		if len(ordered) == 0 {
			continue
		}
		b.Instrs = append(ordered, b.Instrs...)
	}
}
