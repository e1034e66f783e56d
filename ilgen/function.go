// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ilgen

import (
	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/il"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/target"
	"github.com/blendsdk/blend65/types"
)

// loopContext resolves break/continue targets while lowering a loop body,
// mirroring cfg.Builder's loopContext stack (§4.F) one layer down, now
// pointing at real il.BlockIDs instead of AST-level blocks.
type loopContext struct {
	breakTarget    il.BlockID
	continueTarget il.BlockID
}

// funcBuilder lowers one FunctionDecl's body into fn. Parameters and
// locals are both addressed through LOAD_VAR/STORE_VAR by name rather
// than a pre-bound register (§4.K, §4.L): the ssaconv package's mem2reg
// pass is what promotes a variable to a versioned register, so ilgen's
// job is only to know each variable's type, recorded in varType.
type funcBuilder struct {
	tgt     *target.Config
	table   *symbols.Table
	diags   *diag.Collector
	fn      *il.Function
	cur     *il.BasicBlock
	loops   []loopContext
	varType map[string]types.Type
	retType types.Type
}

func lowerFunction(decl *ast.FunctionDecl, table *symbols.Table, tgt *target.Config, diags *diag.Collector) *il.Function {
	retType := types.Type(types.Void)
	if sym, ok := table.Root().LookupLocal(decl.Name); ok {
		if cb, ok := sym.Type.(*types.Callback); ok {
			retType = cb.Signature.ReturnType
		}
	}

	fn := il.NewFunction(decl.Name, retType, decl.Exported, decl.Interrupt)
	fb := &funcBuilder{
		tgt: tgt, table: table, diags: diags, fn: fn, cur: fn.EntryBlock(),
		varType: make(map[string]types.Type), retType: retType,
	}

	scope := table.ScopeOf(decl)
	if scope != nil {
		for _, sym := range scope.Symbols() {
			switch sym.SymKind {
			case symbols.Parameter:
				fb.varType[sym.Name] = regType(sym)
				paramReg := fn.NewParam(regType(sym), sym.Name)
				fb.storeVar(sym.Name, paramReg)
			case symbols.Variable, symbols.Const:
				fb.varType[sym.Name] = regType(sym)
			}
		}
	}

	fb.stmts(decl.Body)
	fb.finish(decl)

	return fn
}

// finish appends an implicit RETURN_VOID to a fallen-through block, per
// §4.K's step 3 closing rule. A non-void function that falls through
// still gets RETURN_VOID (to keep the CFG well-formed) but is warned
// about, since its caller would read a garbage result.
func (fb *funcBuilder) finish(decl *ast.FunctionDecl) {
	if fb.cur == nil {
		return
	}
	if fb.retType.Kind() != types.KindVoid {
		fb.diags.Add(diag.Warnf(toRange(decl.Span()), diag.ImplicitReturnInNonVoidFunction,
			"function %q falls off the end of its body without a return value", decl.Name))
	}
	fb.emit(&il.Instruction{Op: il.OpReturnVoid})
	fb.cur = nil
}

// emit appends instr to the current block. Callers that emit a terminator
// are responsible for nil-ing fb.cur afterwards.
func (fb *funcBuilder) emit(instr *il.Instruction) *il.VirtualRegister {
	fb.cur.Instrs = append(fb.cur.Instrs, instr)
	return instr.Result
}

func (fb *funcBuilder) jumpTo(target il.BlockID) {
	fb.emit(&il.Instruction{Op: il.OpJump, Jump: target})
	fb.fn.AddEdge(fb.cur.ID, target)
	fb.cur = nil
}

func (fb *funcBuilder) branchTo(cond *il.VirtualRegister, thenID, elseID il.BlockID) {
	fb.emit(&il.Instruction{Op: il.OpBranch, Args: []*il.VirtualRegister{cond}, BranchThen: thenID, BranchElse: elseID})
	fb.fn.AddEdge(fb.cur.ID, thenID)
	fb.fn.AddEdge(fb.cur.ID, elseID)
	fb.cur = nil
}

// fallthroughTo jumps the current block into target unless the block
// already terminated on its own (return/break/continue), matching
// cfg.Builder.fallthroughTo.
func (fb *funcBuilder) fallthroughTo(target il.BlockID) {
	if fb.cur == nil {
		return
	}
	fb.jumpTo(target)
}

func (fb *funcBuilder) stmts(list []ast.Stmt) {
	for _, s := range list {
		fb.stmt(s)
	}
}

func (fb *funcBuilder) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		fb.expr(st.X)
	case *ast.VarDeclStmt:
		if st.Decl.Initializer != nil {
			v := fb.expr(st.Decl.Initializer)
			fb.storeVar(st.Decl.Name, v)
		}
	case *ast.IfStmt:
		fb.ifStmt(st)
	case *ast.WhileStmt:
		fb.whileStmt(st)
	case *ast.ForStmt:
		fb.forStmt(st)
	case *ast.MatchStmt:
		fb.matchStmt(st)
	case *ast.ReturnStmt:
		fb.returnStmt(st)
	case *ast.BreakStmt:
		if len(fb.loops) == 0 {
			fb.diags.Add(diag.Errorf(toRange(st.Span()), diag.BreakOutsideLoop, "break outside of a loop"))
			return
		}
		fb.jumpTo(fb.loops[len(fb.loops)-1].breakTarget)
	case *ast.ContinueStmt:
		if len(fb.loops) == 0 {
			fb.diags.Add(diag.Errorf(toRange(st.Span()), diag.ContinueOutsideLoop, "continue outside of a loop"))
			return
		}
		fb.jumpTo(fb.loops[len(fb.loops)-1].continueTarget)
	case *ast.BlockStmt:
		fb.stmts(st.List)
	}
}

func (fb *funcBuilder) ifStmt(st *ast.IfStmt) {
	cond := fb.expr(st.Cond)
	thenB := fb.fn.AddBlock("then")
	mergeB := fb.fn.AddBlock("merge")

	if len(st.Else) > 0 {
		elseB := fb.fn.AddBlock("else")
		fb.branchTo(cond, thenB.ID, elseB.ID)
		fb.cur = thenB
		fb.stmts(st.Then)
		fb.fallthroughTo(mergeB.ID)
		fb.cur = elseB
		fb.stmts(st.Else)
		fb.fallthroughTo(mergeB.ID)
	} else {
		fb.branchTo(cond, thenB.ID, mergeB.ID)
		fb.cur = thenB
		fb.stmts(st.Then)
		fb.fallthroughTo(mergeB.ID)
	}

	fb.cur = mergeB
}

func (fb *funcBuilder) whileStmt(st *ast.WhileStmt) {
	headerB := fb.fn.AddBlock("header")
	fb.fallthroughTo(headerB.ID)

	fb.cur = headerB
	cond := fb.expr(st.Cond)
	bodyB := fb.fn.AddBlock("body")
	exitB := fb.fn.AddBlock("exit")
	fb.branchTo(cond, bodyB.ID, exitB.ID)

	fb.loops = append(fb.loops, loopContext{breakTarget: exitB.ID, continueTarget: headerB.ID})
	fb.cur = bodyB
	fb.stmts(st.Body)
	fb.fallthroughTo(headerB.ID)
	fb.loops = fb.loops[:len(fb.loops)-1]

	fb.cur = exitB
}

// forStmt lowers both the C-style `for(init;cond;incr)` form and the
// bounded range form to the while pattern with an explicit incr block
// (§4.K step 3); continue always targets incr.
func (fb *funcBuilder) forStmt(st *ast.ForStmt) {
	if st.IsRange {
		start := fb.expr(st.Start)
		fb.storeVar(st.Var, start)
	} else if st.Init != nil {
		fb.stmt(st.Init)
	}

	headerB := fb.fn.AddBlock("header")
	fb.fallthroughTo(headerB.ID)
	fb.cur = headerB

	var cond *il.VirtualRegister
	if st.IsRange {
		cur := fb.loadVar(st.Var, types.Word)
		end := fb.expr(st.End)
		cond = fb.binOp(il.OpCmpLe, cur, end, types.Boolean)
	} else if st.Cond != nil {
		cond = fb.expr(st.Cond)
	} else {
		cond = fb.constInt(1, types.Boolean)
	}

	bodyB := fb.fn.AddBlock("body")
	incrB := fb.fn.AddBlock("incr")
	exitB := fb.fn.AddBlock("exit")
	fb.branchTo(cond, bodyB.ID, exitB.ID)

	fb.loops = append(fb.loops, loopContext{breakTarget: exitB.ID, continueTarget: incrB.ID})
	fb.cur = bodyB
	fb.stmts(st.Body)
	fb.fallthroughTo(incrB.ID)
	fb.loops = fb.loops[:len(fb.loops)-1]

	fb.cur = incrB
	if st.IsRange {
		varReg := fb.loadVar(st.Var, types.Word)
		var step *il.VirtualRegister
		if st.Step != nil {
			step = fb.expr(st.Step)
		} else {
			step = fb.constInt(1, varReg.Type)
		}
		sum := fb.binOp(il.OpAdd, varReg, step, varReg.Type)
		fb.storeVar(st.Var, sum)
	} else if st.Incr != nil {
		fb.stmt(st.Incr)
	}
	fb.fallthroughTo(headerB.ID)

	fb.cur = exitB
}

// matchStmt lowers to a CMP_EQ+BRANCH chain (§4.K step 3): each arm tests
// against the subject in source order, falling through to the next test
// on a miss; the optional default runs if every test misses.
func (fb *funcBuilder) matchStmt(st *ast.MatchStmt) {
	subject := fb.expr(st.Subject)
	mergeB := fb.fn.AddBlock("merge")

	var defaultBody []ast.Stmt
	haveDefault := false
	for _, c := range st.Cases {
		if c.Test == nil {
			defaultBody = c.Body
			haveDefault = true
			continue
		}
		testVal := fb.expr(c.Test)
		eq := fb.binOp(il.OpCmpEq, subject, testVal, types.Boolean)
		caseB := fb.fn.AddBlock("case")
		nextB := fb.fn.AddBlock("next")
		fb.branchTo(eq, caseB.ID, nextB.ID)
		fb.cur = caseB
		fb.stmts(c.Body)
		fb.fallthroughTo(mergeB.ID)
		fb.cur = nextB
	}
	if haveDefault {
		fb.stmts(defaultBody)
	}
	fb.fallthroughTo(mergeB.ID)

	fb.cur = mergeB
}

func (fb *funcBuilder) returnStmt(st *ast.ReturnStmt) {
	if st.Value != nil {
		v := fb.expr(st.Value)
		fb.emit(&il.Instruction{Op: il.OpReturn, Args: []*il.VirtualRegister{v}})
	} else {
		fb.emit(&il.Instruction{Op: il.OpReturnVoid})
	}
	fb.cur = nil
}
