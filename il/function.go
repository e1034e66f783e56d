// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package il

import (
	"fmt"

	"github.com/blendsdk/blend65/types"
)

// Function is one lowered function (§3's ILFunction): a register
// factory, its typed parameters (created in declaration order), and its
// basic blocks, block 0 always the entry and never removable.
type Function struct {
	Name       string
	Params     []*VirtualRegister
	ReturnType types.Type
	Blocks     []*BasicBlock
	Exported   bool
	Interrupt  bool

	nextReg int
}

// NewFunction creates a Function with its entry block already in place
// (id 0, label "entry"), per §3's invariant that the entry block always
// exists and cannot be removed.
func NewFunction(name string, returnType types.Type, exported, interrupt bool) *Function {
	f := &Function{Name: name, ReturnType: returnType, Exported: exported, Interrupt: interrupt}
	f.AddBlock("entry")
	return f
}

// NewParam allocates a parameter register; callers must call this for
// every parameter in declaration order before lowering the body, since
// parameter register ids must precede local registers (§4.J step 2).
func (f *Function) NewParam(t types.Type, debugName string) *VirtualRegister {
	r := f.newRegister(t, debugName)
	f.Params = append(f.Params, r)
	return r
}

// NewRegister allocates a fresh local virtual register.
func (f *Function) NewRegister(t types.Type, debugName string) *VirtualRegister {
	return f.newRegister(t, debugName)
}

func (f *Function) newRegister(t types.Type, debugName string) *VirtualRegister {
	r := &VirtualRegister{ID: f.nextReg, Type: t, DebugName: debugName}
	f.nextReg++
	return r
}

// AddBlock appends a new, unconnected basic block and returns it.
func (f *Function) AddBlock(label string) *BasicBlock {
	b := &BasicBlock{ID: BlockID(len(f.Blocks)), Label: label}
	f.Blocks = append(f.Blocks, b)
	return b
}

// AddEdge wires a control-flow edge from block `from` to block `to`.
func (f *Function) AddEdge(from, to BlockID) {
	f.Block(from).addSucc(to)
	f.Block(to).addPred(from)
}

// Block returns the block with the given id.
func (f *Function) Block(id BlockID) *BasicBlock { return f.Blocks[id] }

// EntryBlock returns block 0.
func (f *Function) EntryBlock() *BasicBlock { return f.Blocks[0] }

// ReachableBlocks returns the set of block ids reachable from the entry
// block by forward traversal.
func (f *Function) ReachableBlocks() map[BlockID]bool {
	reach := make(map[BlockID]bool, len(f.Blocks))
	var visit func(id BlockID)
	visit = func(id BlockID) {
		if reach[id] {
			return
		}
		reach[id] = true
		for _, s := range f.Block(id).Succs {
			visit(s)
		}
	}
	visit(f.EntryBlock().ID)
	return reach
}

// UnreachableBlocks returns every non-entry block not reachable from the
// entry block.
func (f *Function) UnreachableBlocks() []BlockID {
	reach := f.ReachableBlocks()
	var out []BlockID
	for _, b := range f.Blocks {
		if !reach[b.ID] {
			out = append(out, b.ID)
		}
	}
	return out
}

// Postorder returns block ids in DFS postorder from the entry block,
// grounded on other_examples' graph.PostOrder (adapted to a plain
// []bool visited set instead of a math/big.Int bitset: function-sized
// CFGs here are small enough that the bitset's stack-allocation benefit
// doesn't pay for the added complexity).
func (f *Function) Postorder() []BlockID {
	visited := make([]bool, len(f.Blocks))
	var out []BlockID
	var visit func(id BlockID)
	visit = func(id BlockID) {
		visited[id] = true
		for _, s := range f.Block(id).Succs {
			if !visited[s] {
				visit(s)
			}
		}
		out = append(out, id)
	}
	visit(f.EntryBlock().ID)
	return out
}

// ReversePostorder returns Postorder reversed in place.
func (f *Function) ReversePostorder() []BlockID {
	po := f.Postorder()
	for i, j := 0, len(po)-1; i < j; i, j = i+1, j-1 {
		po[i], po[j] = po[j], po[i]
	}
	return po
}

// ComputeDominators runs the Cooper-Harvey-Kennedy iterative dominance
// algorithm over the reachable subgraph, returning each block's
// immediate dominator (entry maps to itself's absence: no entry in the
// returned map). Grounded on
// other_examples/aclements-go-misc...internal/graph/dom.go's IDom.
func (f *Function) ComputeDominators() map[BlockID]BlockID {
	entry := f.EntryBlock().ID
	po := f.Postorder()
	poNum := make(map[BlockID]int, len(po))
	for i, id := range po {
		poNum[id] = i
	}
	rpo := make([]BlockID, len(po))
	for i, id := range po {
		rpo[len(po)-1-i] = id
	}

	idom := make(map[int]int, len(po))
	for _, id := range po {
		idom[int(id)] = -1
	}
	idom[int(entry)] = int(entry)

	intersect := func(b1, b2 int) int {
		for b1 != b2 {
			for poNum[BlockID(b1)] < poNum[BlockID(b2)] {
				b1 = idom[b1]
			}
			for poNum[BlockID(b2)] < poNum[BlockID(b1)] {
				b2 = idom[b2]
			}
		}
		return b1
	}

	for changed := true; changed; {
		changed = false
		for _, b := range rpo {
			if b == entry {
				continue
			}
			newIdom := -1
			for _, p := range f.Block(b).Preds {
				if idom[int(p)] == -1 {
					continue
				}
				if newIdom == -1 {
					newIdom = int(p)
					continue
				}
				newIdom = intersect(int(p), newIdom)
			}
			if idom[int(b)] != newIdom {
				idom[int(b)] = newIdom
				changed = true
			}
		}
	}

	out := make(map[BlockID]BlockID, len(po))
	for _, id := range po {
		if id == entry {
			continue
		}
		out[id] = BlockID(idom[int(id)])
	}
	return out
}

// ComputeDominanceFrontier computes the dominance frontier of every
// reachable block from idom (as returned by ComputeDominators), grounded
// on the same file's DomFrontier.
func (f *Function) ComputeDominanceFrontier(idom map[BlockID]BlockID) map[BlockID][]BlockID {
	df := make(map[BlockID][]BlockID)
	for _, b := range f.Postorder() {
		df[b] = nil
	}
	for b, bdom := range idom {
		preds := f.Block(b).Preds
		if len(preds) < 2 {
			continue
		}
		for _, pred := range preds {
			runner := pred
			for runner != bdom {
				already := false
				for _, existing := range df[runner] {
					if existing == b {
						already = true
						break
					}
				}
				if !already {
					df[runner] = append(df[runner], b)
				}
				next, ok := idom[runner]
				if !ok {
					break
				}
				runner = next
			}
		}
	}
	return df
}

// Validate reports structural violations of §3's invariants: a
// non-terminated block, an edge to an out-of-range block id, or an
// unreachable non-entry block (grounded on go/ssa/sanity.go's
// check-and-collect-message-list shape).
func (f *Function) Validate() []string {
	var errs []string
	n := BlockID(len(f.Blocks))
	for _, b := range f.Blocks {
		if b.Terminator() == nil {
			errs = append(errs, fmt.Sprintf("block %d (%s): missing terminator", b.ID, b.Label))
		}
		for _, s := range b.Succs {
			if s < 0 || s >= n {
				errs = append(errs, fmt.Sprintf("block %d: dangling successor edge to %d", b.ID, s))
			}
		}
		for _, p := range b.Preds {
			if p < 0 || p >= n {
				errs = append(errs, fmt.Sprintf("block %d: dangling predecessor edge from %d", b.ID, p))
			}
		}
	}
	for _, id := range f.UnreachableBlocks() {
		errs = append(errs, fmt.Sprintf("block %d (%s): unreachable", id, f.Block(id).Label))
	}
	return errs
}
