// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataflow

import (
	"testing"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/callgraph"
	"github.com/blendsdk/blend65/cfg"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/resolve"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/target"
)

func sp() ast.Span { return ast.Span{} }

func build(t *testing.T, program *ast.Program) *symbols.Table {
	t.Helper()
	table := symbols.NewTable(program)
	diags := diag.NewCollector(diag.DefaultOptions())
	resolve.NewBuilder(table, diags).Build(program)
	resolve.NewResolver(table, diags).Resolve()
	if !diags.Success() {
		t.Fatalf("unexpected resolve diagnostics: %v", diags.Diagnostics())
	}
	return table
}

// sumFn builds: function sum(n: byte) -> byte { let total: byte = 0; while (n > 0) { total = total + n; n = n - 1; } return total; }
func sumFn() *ast.FunctionDecl {
	fn := &ast.FunctionDecl{}
	fn.Name = "sum"
	fn.Params = []ast.Param{{Name: "n", TypeAnnotation: "byte"}}
	fn.ReturnType = "byte"

	totalDecl := &ast.VariableDecl{}
	totalDecl.Name = "total"
	totalDecl.TypeAnnotation = "byte"
	totalDecl.Initializer = ast.NewIntLiteral(sp(), 0)
	letTotal := ast.NewVarDeclStmt(sp(), totalDecl)

	addTotal := ast.NewExprStmt(sp(), ast.NewAssignExpr(sp(), ast.AssignSet, ast.NewIdent(sp(), "total"),
		ast.NewBinaryExpr(sp(), ast.OpAdd, ast.NewIdent(sp(), "total"), ast.NewIdent(sp(), "n"))))
	decN := ast.NewExprStmt(sp(), ast.NewAssignExpr(sp(), ast.AssignSet, ast.NewIdent(sp(), "n"),
		ast.NewBinaryExpr(sp(), ast.OpSub, ast.NewIdent(sp(), "n"), ast.NewIntLiteral(sp(), 1))))

	loop := ast.NewWhileStmt(sp(),
		ast.NewBinaryExpr(sp(), ast.OpGt, ast.NewIdent(sp(), "n"), ast.NewIntLiteral(sp(), 0)),
		[]ast.Stmt{addTotal, decN})

	ret := ast.NewReturnStmt(sp(), ast.NewIdent(sp(), "total"))

	fn.Body = []ast.Stmt{letTotal, loop, ret}
	return fn
}

func TestReachingDefinitionsChainsLoopBackEdge(t *testing.T) {
	fn := sumFn()
	program := &ast.Program{Declarations: []ast.Decl{fn}}
	table := build(t, program)

	scope := table.ScopeOf(fn)
	table.EnterExistingScope(scope)
	defer table.ExitScope()

	g := cfg.Build(fn)
	r := BuildReaching(g, table)

	if len(r.Defs) == 0 {
		t.Fatalf("expected at least one collected definition")
	}
	total := 0
	for _, d := range r.DefUse {
		total += len(d)
	}
	if total == 0 {
		t.Fatalf("expected at least one def-use edge for total/n across the loop back-edge")
	}
}

func TestLivenessKeepsLoopVariableLiveAcrossIterations(t *testing.T) {
	fn := sumFn()
	program := &ast.Program{Declarations: []ast.Decl{fn}}
	table := build(t, program)

	scope := table.ScopeOf(fn)
	table.EnterExistingScope(scope)
	defer table.ExitScope()

	g := cfg.Build(fn)
	l := BuildLiveness(g, table)

	nSym, ok := table.Lookup("n")
	if !ok {
		t.Fatalf("expected to resolve symbol n")
	}
	foundLiveLoop := false
	for _, b := range g.Blocks {
		if b.Kind == cfg.KindLoop && l.IsLiveOut(b.ID, nSym) {
			foundLiveLoop = true
		}
	}
	if !foundLiveLoop {
		t.Fatalf("expected n to be live-out of the loop header (read again next iteration)")
	}
}

func TestPurityFlagsModuleWriteAsImpure(t *testing.T) {
	counter := &ast.VariableDecl{}
	counter.Name = "counter"
	counter.TypeAnnotation = "byte"
	counter.Initializer = ast.NewIntLiteral(sp(), 0)

	bump := &ast.FunctionDecl{}
	bump.Name = "bump"
	bump.ReturnType = "void"
	bump.Body = []ast.Stmt{
		ast.NewExprStmt(sp(), ast.NewAssignExpr(sp(), ast.AssignSet, ast.NewIdent(sp(), "counter"),
			ast.NewBinaryExpr(sp(), ast.OpAdd, ast.NewIdent(sp(), "counter"), ast.NewIntLiteral(sp(), 1)))),
	}

	program := &ast.Program{Declarations: []ast.Decl{counter, bump}}
	table := build(t, program)

	g := callgraph.Build(program)
	p := ComputePurity(program, table, g, target.C64())

	if p.IsPure("bump") {
		t.Fatalf("expected bump to be impure: it writes to a module-level variable")
	}
}

func TestPurityPropagatesThroughCallGraph(t *testing.T) {
	counter := &ast.VariableDecl{}
	counter.Name = "counter"
	counter.TypeAnnotation = "byte"
	counter.Initializer = ast.NewIntLiteral(sp(), 0)

	impure := &ast.FunctionDecl{}
	impure.Name = "impure"
	impure.ReturnType = "void"
	impure.Body = []ast.Stmt{
		ast.NewExprStmt(sp(), ast.NewAssignExpr(sp(), ast.AssignSet, ast.NewIdent(sp(), "counter"),
			ast.NewIntLiteral(sp(), 1))),
	}

	caller := &ast.FunctionDecl{}
	caller.Name = "caller"
	caller.ReturnType = "void"
	caller.Body = []ast.Stmt{
		ast.NewExprStmt(sp(), ast.NewCallExpr(sp(), ast.NewIdent(sp(), "impure"), nil)),
	}

	program := &ast.Program{Declarations: []ast.Decl{counter, impure, caller}}
	table := build(t, program)

	g := callgraph.Build(program)
	p := ComputePurity(program, table, g, target.C64())

	if p.IsPure("caller") {
		t.Fatalf("expected caller to be impure: it calls an impure function")
	}
}

func TestEscapeMarksAddressTakenLocalAsEscaping(t *testing.T) {
	use := &ast.FunctionDecl{}
	use.Name = "use"
	use.Params = []ast.Param{{Name: "p", TypeAnnotation: "byte"}}
	use.ReturnType = "void"

	fn := &ast.FunctionDecl{}
	fn.Name = "f"
	fn.ReturnType = "void"

	xDecl := &ast.VariableDecl{}
	xDecl.Name = "x"
	xDecl.TypeAnnotation = "byte"
	xDecl.Initializer = ast.NewIntLiteral(sp(), 1)
	letX := ast.NewVarDeclStmt(sp(), xDecl)

	yDecl := &ast.VariableDecl{}
	yDecl.Name = "y"
	yDecl.TypeAnnotation = "byte"
	yDecl.Initializer = ast.NewIntLiteral(sp(), 2)
	letY := ast.NewVarDeclStmt(sp(), yDecl)

	callUse := ast.NewExprStmt(sp(), ast.NewCallExpr(sp(), ast.NewIdent(sp(), "use"),
		[]ast.Expr{ast.NewUnaryExpr(sp(), ast.OpAddressOf, ast.NewIdent(sp(), "x"))}))

	fn.Body = []ast.Stmt{letX, letY, callUse}

	program := &ast.Program{Declarations: []ast.Decl{use, fn}}
	table := build(t, program)

	ComputeEscape(fn, table, target.C64(), map[string]int{}, &Purity{})

	if esc, _ := xDecl.GetMeta(ast.MetaEscapes); esc != true {
		t.Fatalf("expected x to be marked escaping (address taken), got %v", esc)
	}
	if stackAlloc, _ := yDecl.GetMeta(ast.MetaStackAllocatable); stackAlloc != true {
		t.Fatalf("expected y (never escaping) to be stack-allocatable, got %v", stackAlloc)
	}
}

func TestUsageScoresLoopCarriedVariableHigher(t *testing.T) {
	fn := sumFn()
	ComputeUsage(fn)

	letTotal := fn.Body[0].(*ast.VarDeclStmt).Decl
	score, ok := letTotal.GetMeta(ast.MetaUsageScore)
	if !ok {
		t.Fatalf("expected a usage score on total")
	}
	if score.(int) <= 2 {
		t.Fatalf("expected total's loop-carried accesses to score well above its raw access count, got %v", score)
	}
}
