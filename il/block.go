// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package il

// BlockID indexes a BasicBlock within its owning Function's Blocks
// slice. Edges are stored as indices rather than pointers, per §9's
// "graph cycles are structural, not ownership" rule, the same choice
// cfg.Block made for the AST-level CFG.
type BlockID int

// BasicBlock is a straight-line sequence of Instructions ending in at
// most one terminator (§3's invariant). Label has no semantic
// significance; it exists for readable dumps (grounded on ssa.go's
// BasicBlock.Comment field).
type BasicBlock struct {
	ID     BlockID
	Label  string
	Instrs []*Instruction
	Preds  []BlockID
	Succs  []BlockID
}

// Terminator returns the block's terminator instruction, or nil if the
// block is (incorrectly) missing one.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Instrs) == 0 {
		return nil
	}
	last := b.Instrs[len(b.Instrs)-1]
	if !last.Op.IsTerminator() {
		return nil
	}
	return last
}

func (b *BasicBlock) addSucc(id BlockID) { b.Succs = append(b.Succs, id) }
func (b *BasicBlock) addPred(id BlockID) { b.Preds = append(b.Preds, id) }
