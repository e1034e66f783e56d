// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaconv

import (
	"fmt"

	"github.com/blendsdk/blend65/il"
)

// Verify checks §8's SSA testable properties against an already-
// Converted function: every phi has one operand per predecessor, and
// every non-phi use of a register is dominated by that register's
// defining instruction's block. It returns every violation found
// rather than stopping at the first.
//
// GenerateModule runs it only when GenerateOptions.VerifySSA is set,
// which is off by default. A phi operand is checked against the
// predecessor block it arrives from, not against the phi's own block,
// so operands supplied along a loop back-edge pass the dominance check.
func Verify(fn *il.Function) []string {
	var errs []string
	idom := fn.ComputeDominators()

	dominates := func(defBlock, useBlock il.BlockID) bool {
		if defBlock == useBlock {
			return true
		}
		for b, ok := useBlock, true; ok; b, ok = idom[b] {
			if b == defBlock {
				return true
			}
			if b == fn.EntryBlock().ID {
				break
			}
		}
		return false
	}

	def := make(map[*il.VirtualRegister]il.BlockID)
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Result != nil {
				if prior, ok := def[instr.Result]; ok {
					errs = append(errs, fmt.Sprintf("register %s has more than one definition (blocks %d and %d)", instr.Result, prior, b.ID))
				}
				def[instr.Result] = b.ID
			}
		}
	}

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == il.OpPhi {
				if len(instr.PhiArgs) != len(b.Preds) {
					errs = append(errs, fmt.Sprintf("block %d: phi %s has %d operands, want %d (one per predecessor)", b.ID, instr.Result, len(instr.PhiArgs), len(b.Preds)))
				}
				for pred, v := range instr.PhiArgs {
					if v == nil {
						continue
					}
					if defBlock, ok := def[v]; ok && !dominates(defBlock, pred) {
						errs = append(errs, fmt.Sprintf("block %d: phi operand %s from predecessor %d is not dominated by its definition in block %d", b.ID, v, pred, defBlock))
					}
				}
				continue
			}
			for _, a := range instr.Args {
				defBlock, ok := def[a]
				if !ok {
					continue
				}
				if !dominates(defBlock, b.ID) {
					errs = append(errs, fmt.Sprintf("block %d: use of %s is not dominated by its definition in block %d", b.ID, a, defBlock))
				}
			}
		}
	}

	return errs
}
