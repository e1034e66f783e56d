// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfg

import (
	"testing"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
)

func sp() ast.Span { return ast.Span{} }

func TestEmptyFunctionBodyIsEntryToExit(t *testing.T) {
	fn := &ast.FunctionDecl{}
	fn.Name = "f"

	g := Build(fn)

	if !g.Blocks[g.Entry].Reachable {
		t.Fatalf("entry must be reachable")
	}
	if !g.Blocks[g.Exit].Reachable {
		t.Fatalf("exit must be reachable for an empty body")
	}
}

func TestUnreachableAfterReturnInBothBranches(t *testing.T) {
	fn := &ast.FunctionDecl{}
	fn.Name = "f"
	ifStmt := ast.NewIfStmt(sp(),
		ast.NewBoolLiteral(sp(), true),
		[]ast.Stmt{ast.NewReturnStmt(sp(), ast.NewIntLiteral(sp(), 1))},
		[]ast.Stmt{ast.NewReturnStmt(sp(), ast.NewIntLiteral(sp(), 2))},
	)
	letY := &ast.VariableDecl{}
	letY.Name = "y"
	letY.TypeAnnotation = "byte"
	letY.Initializer = ast.NewIntLiteral(sp(), 3)
	deadLet := ast.NewVarDeclStmt(sp(), letY)
	deadReturn := ast.NewReturnStmt(sp(), ast.NewIdent(sp(), "y"))
	fn.Body = []ast.Stmt{ifStmt, deadLet, deadReturn}

	g := Build(fn)
	diags := diag.NewCollector(diag.DefaultOptions())
	Analyze(g, diags)

	warnings := 0
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.UnreachableCode {
			warnings++
		}
	}
	if warnings == 0 {
		t.Fatalf("expected UNREACHABLE_CODE for the dead let/return, got %v", diags.Diagnostics())
	}
}

func TestWhileLoopHasHeaderBodyExit(t *testing.T) {
	fn := &ast.FunctionDecl{}
	fn.Name = "loop"
	whileStmt := ast.NewWhileStmt(sp(),
		ast.NewBinaryExpr(sp(), ast.OpLt, ast.NewIdent(sp(), "i"), ast.NewIntLiteral(sp(), 10)),
		[]ast.Stmt{ast.NewExprStmt(sp(), ast.NewAssignExpr(sp(), ast.AssignSet, ast.NewIdent(sp(), "i"),
			ast.NewBinaryExpr(sp(), ast.OpAdd, ast.NewIdent(sp(), "i"), ast.NewIntLiteral(sp(), 1))))},
	)
	fn.Body = []ast.Stmt{whileStmt}

	g := Build(fn)

	var headers, bodies, exits int
	for _, b := range g.Blocks {
		switch b.Kind {
		case KindLoop:
			headers++
		case KindStmt:
			bodies++
		case KindMerge:
			exits++
		}
		if !b.Reachable {
			t.Fatalf("block %d (%s) should be reachable in a single while loop", b.ID, b.Kind)
		}
	}
	if headers != 1 {
		t.Fatalf("expected exactly one loop header, got %d", headers)
	}
}

func TestBreakTargetsLoopExit(t *testing.T) {
	fn := &ast.FunctionDecl{}
	fn.Name = "loop"
	whileStmt := ast.NewWhileStmt(sp(), ast.NewBoolLiteral(sp(), true),
		[]ast.Stmt{ast.NewBreakStmt(sp())})
	fn.Body = []ast.Stmt{whileStmt}

	g := Build(fn)

	var breakBlock *Block
	for _, b := range g.Blocks {
		for _, s := range b.Stmts {
			if _, ok := s.(*ast.BreakStmt); ok {
				breakBlock = b
			}
		}
	}
	if breakBlock == nil {
		t.Fatalf("expected to find the break statement's block")
	}
	if len(breakBlock.Succs) != 1 {
		t.Fatalf("expected break to have exactly one successor, got %d", len(breakBlock.Succs))
	}
	target := g.Block(breakBlock.Succs[0])
	if target.Kind != KindMerge {
		t.Fatalf("expected break to target the loop's exit merge block, got %s", target.Kind)
	}
}
