// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfg

import "github.com/blendsdk/blend65/ast"

// loopContext resolves break/continue targets while building the body of
// a while/for statement (§4.F: "a loop-context stack in the builder
// resolves break/continue").
type loopContext struct {
	breakTarget    BlockID
	continueTarget BlockID
}

// Builder constructs one CFG per function.
type Builder struct {
	g     *CFG
	cur   *Block
	loops []loopContext
}

// Build constructs the CFG for fn's body.
func Build(fn *ast.FunctionDecl) *CFG {
	g := &CFG{Func: fn}
	entry := g.newBlock(KindEntry)
	exit := g.newBlock(KindExit)
	g.Entry, g.Exit = entry.ID, exit.ID

	start := g.newBlock(KindStmt)
	g.addEdge(entry.ID, start.ID)

	b := &Builder{g: g, cur: start}
	b.stmts(fn.Body)
	b.fallthroughTo(exit.ID)

	g.computeReachability()
	return g
}

// fallthroughTo links the current block to target unless the current
// block already ends in a terminator (return/break/continue already wired
// its own edge and the builder moved cur to a fresh unreachable block).
func (b *Builder) fallthroughTo(target BlockID) {
	if b.cur == nil {
		return
	}
	b.g.addEdge(b.cur.ID, target)
	b.cur = nil
}

func (b *Builder) stmts(list []ast.Stmt) {
	for _, s := range list {
		b.stmt(s)
	}
}

func (b *Builder) ensureCurrent() *Block {
	if b.cur == nil {
		b.cur = b.g.newBlock(KindStmt)
	}
	return b.cur
}

func (b *Builder) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.IfStmt:
		b.ifStmt(st)
	case *ast.WhileStmt:
		b.whileStmt(st)
	case *ast.ForStmt:
		b.forStmt(st)
	case *ast.MatchStmt:
		b.matchStmt(st)
	case *ast.ReturnStmt:
		cur := b.ensureCurrent()
		cur.Stmts = append(cur.Stmts, st)
		b.g.addEdge(cur.ID, b.g.Exit)
		b.cur = nil
	case *ast.BreakStmt:
		if len(b.loops) == 0 {
			return // reported by the checker; the CFG just drops the dead edge
		}
		cur := b.ensureCurrent()
		cur.Stmts = append(cur.Stmts, st)
		b.g.addEdge(cur.ID, b.loops[len(b.loops)-1].breakTarget)
		b.cur = nil
	case *ast.ContinueStmt:
		if len(b.loops) == 0 {
			return
		}
		cur := b.ensureCurrent()
		cur.Stmts = append(cur.Stmts, st)
		b.g.addEdge(cur.ID, b.loops[len(b.loops)-1].continueTarget)
		b.cur = nil
	case *ast.BlockStmt:
		b.stmts(st.List)
	default:
		cur := b.ensureCurrent()
		cur.Stmts = append(cur.Stmts, s)
	}
}

func (b *Builder) ifStmt(st *ast.IfStmt) {
	head := b.ensureCurrent()
	head.Kind = KindBranch
	head.Stmts = append(head.Stmts, st)

	merge := b.g.newBlock(KindMerge)

	thenBlock := b.g.newBlock(KindStmt)
	b.g.addEdge(head.ID, thenBlock.ID)
	b.cur = thenBlock
	b.stmts(st.Then)
	b.fallthroughTo(merge.ID)

	if len(st.Else) > 0 {
		elseBlock := b.g.newBlock(KindStmt)
		b.g.addEdge(head.ID, elseBlock.ID)
		b.cur = elseBlock
		b.stmts(st.Else)
		b.fallthroughTo(merge.ID)
	} else {
		b.g.addEdge(head.ID, merge.ID)
	}

	b.cur = merge
}

func (b *Builder) whileStmt(st *ast.WhileStmt) {
	header := b.g.newBlock(KindLoop)
	header.Stmts = append(header.Stmts, st)
	b.linkPrevInto(header.ID)

	body := b.g.newBlock(KindStmt)
	exit := b.g.newBlock(KindMerge)
	b.g.addEdge(header.ID, body.ID)
	b.g.addEdge(header.ID, exit.ID)

	b.loops = append(b.loops, loopContext{breakTarget: exit.ID, continueTarget: header.ID})
	b.cur = body
	b.stmts(st.Body)
	b.fallthroughTo(header.ID)
	b.loops = b.loops[:len(b.loops)-1]

	b.cur = exit
}

func (b *Builder) forStmt(st *ast.ForStmt) {
	if !st.IsRange && st.Init != nil {
		b.stmt(st.Init)
	}
	header := b.g.newBlock(KindLoop)
	header.Stmts = append(header.Stmts, st)
	b.linkPrevInto(header.ID)

	body := b.g.newBlock(KindStmt)
	incr := b.g.newBlock(KindStmt)
	exit := b.g.newBlock(KindMerge)
	b.g.addEdge(header.ID, body.ID)
	b.g.addEdge(header.ID, exit.ID)

	// continue jumps to the increment block, per §4.F's for-loop rule.
	b.loops = append(b.loops, loopContext{breakTarget: exit.ID, continueTarget: incr.ID})
	b.cur = body
	b.stmts(st.Body)
	b.fallthroughTo(incr.ID)
	b.loops = b.loops[:len(b.loops)-1]

	b.cur = incr
	if !st.IsRange && st.Incr != nil {
		b.stmt(st.Incr)
	}
	b.fallthroughTo(header.ID)

	b.cur = exit
}

func (b *Builder) matchStmt(st *ast.MatchStmt) {
	head := b.ensureCurrent()
	head.Kind = KindBranch
	head.Stmts = append(head.Stmts, st)

	merge := b.g.newBlock(KindMerge)
	for _, c := range st.Cases {
		caseBlock := b.g.newBlock(KindStmt)
		b.g.addEdge(head.ID, caseBlock.ID)
		b.cur = caseBlock
		b.stmts(c.Body)
		b.fallthroughTo(merge.ID)
	}
	b.cur = merge
}

// linkPrevInto wires the current (pre-construct) block into target, then
// clears cur, used by loop headers which need the edge before any body
// blocks exist.
func (b *Builder) linkPrevInto(target BlockID) {
	if b.cur != nil {
		b.g.addEdge(b.cur.ID, target)
	}
	b.cur = nil
}
