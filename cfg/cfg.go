// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cfg builds an AST-level control-flow graph per function (§4.F)
// and computes reachability over it, grounded on the block/pred/succ
// shape of the corpus's dataflow-capable CFG package.
package cfg

import "github.com/blendsdk/blend65/ast"

// Kind classifies what a Block represents.
type Kind int

const (
	KindEntry Kind = iota
	KindExit
	KindStmt
	KindBranch
	KindLoop
	KindMerge
)

func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindExit:
		return "exit"
	case KindStmt:
		return "stmt"
	case KindBranch:
		return "branch"
	case KindLoop:
		return "loop"
	case KindMerge:
		return "merge"
	default:
		return "block(?)"
	}
}

// BlockID indexes a Block within its owning CFG (§9: indices, not owning
// references, for graph edges).
type BlockID int

// Block is one node of the CFG. Stmts holds the straight-line statements
// represented by this block; a branch/loop/merge block typically has zero
// or one statement (its condition) plus control edges.
type Block struct {
	ID        BlockID
	Kind      Kind
	Stmts     []ast.Stmt
	Preds     []BlockID
	Succs     []BlockID
	Reachable bool
}

func (b *Block) addSucc(id BlockID) { b.Succs = append(b.Succs, id) }

// CFG is the control-flow graph for a single function.
type CFG struct {
	Func    *ast.FunctionDecl
	Blocks  []*Block
	Entry   BlockID
	Exit    BlockID
}

// Block returns the block with the given id.
func (g *CFG) Block(id BlockID) *Block { return g.Blocks[id] }

// NumBlocks returns the number of blocks in the graph.
func (g *CFG) NumBlocks() int { return len(g.Blocks) }

func (g *CFG) newBlock(kind Kind) *Block {
	b := &Block{ID: BlockID(len(g.Blocks)), Kind: kind}
	g.Blocks = append(g.Blocks, b)
	return b
}

func (g *CFG) addEdge(from, to BlockID) {
	g.Blocks[from].addSucc(to)
	g.Blocks[to].Preds = append(g.Blocks[to].Preds, from)
}

// computeReachability marks every block reachable from Entry by a forward
// traversal (§4.F, §8's quantified invariant: entry.reachable = true).
func (g *CFG) computeReachability() {
	var stack []BlockID
	stack = append(stack, g.Entry)
	g.Blocks[g.Entry].Reachable = true
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		for _, s := range g.Blocks[cur].Succs {
			if !g.Blocks[s].Reachable {
				g.Blocks[s].Reachable = true
				stack = append(stack, s)
			}
		}
	}
}

// Reaches reports whether block id is reachable from entry; called with
// the exit block, it tells whether some path through the function
// reaches its exit (§8).
func (g *CFG) Reaches(id BlockID) bool { return g.Blocks[id].Reachable }
