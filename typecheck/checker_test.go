// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package typecheck

import (
	"testing"

	"github.com/blendsdk/blend65/ast"
	"github.com/blendsdk/blend65/diag"
	"github.com/blendsdk/blend65/resolve"
	"github.com/blendsdk/blend65/symbols"
	"github.com/blendsdk/blend65/target"
)

func run(t *testing.T, program *ast.Program) (*diag.Collector, *symbols.Table) {
	t.Helper()
	table := symbols.NewTable(program)
	diags := diag.NewCollector(diag.DefaultOptions())

	resolve.NewBuilder(table, diags).Build(program)
	resolve.NewResolver(table, diags).Resolve()

	NewChecker(table, diags, target.C64()).Check(program)
	return diags, table
}

func sp() ast.Span { return ast.Span{} }

func TestAssignmentTypeMismatchReported(t *testing.T) {
	decl := &ast.VariableDecl{}
	decl.Name = "flag"
	decl.TypeAnnotation = "boolean"
	decl.Initializer = ast.NewIntLiteral(sp(), 5)

	program := &ast.Program{Declarations: []ast.Decl{decl}}
	diags, _ := run(t, program)

	if diags.ErrorCount() == 0 {
		t.Fatalf("expected a type-mismatch error, got none")
	}
	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.TypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected TYPE_MISMATCH among %v", diags.Diagnostics())
	}
}

func TestByteWidensToWord(t *testing.T) {
	decl := &ast.VariableDecl{}
	decl.Name = "w"
	decl.TypeAnnotation = "word"
	decl.Initializer = ast.NewIntLiteral(sp(), 10) // fits in byte, widens fine

	program := &ast.Program{Declarations: []ast.Decl{decl}}
	diags, _ := run(t, program)

	if !diags.Success() {
		t.Fatalf("expected no errors widening byte literal to word, got %v", diags.Diagnostics())
	}
}

func TestBreakOutsideLoopReported(t *testing.T) {
	fn := &ast.FunctionDecl{}
	fn.Name = "main"
	fn.Body = []ast.Stmt{ast.NewBreakStmt(sp())}

	program := &ast.Program{Declarations: []ast.Decl{fn}}
	diags, _ := run(t, program)

	if diags.ErrorCount() != 1 || diags.Diagnostics()[0].Code != diag.BreakOutsideLoop {
		t.Fatalf("expected a single BREAK_OUTSIDE_LOOP, got %v", diags.Diagnostics())
	}
}

func TestBreakInsideWhileAccepted(t *testing.T) {
	fn := &ast.FunctionDecl{}
	fn.Name = "main"
	whileStmt := ast.NewWhileStmt(sp(), ast.NewBoolLiteral(sp(), true), []ast.Stmt{ast.NewBreakStmt(sp())})
	fn.Body = []ast.Stmt{whileStmt}

	program := &ast.Program{Declarations: []ast.Decl{fn}}
	diags, _ := run(t, program)

	if !diags.Success() {
		t.Fatalf("expected no errors, got %v", diags.Diagnostics())
	}
}

func TestArityMismatchReported(t *testing.T) {
	callee := &ast.FunctionDecl{}
	callee.Name = "add"
	callee.Params = []ast.Param{{Name: "a", TypeAnnotation: "byte"}, {Name: "b", TypeAnnotation: "byte"}}
	callee.ReturnType = "byte"

	caller := &ast.FunctionDecl{}
	caller.Name = "main"
	call := ast.NewCallExpr(sp(), ast.NewIdent(sp(), "add"), []ast.Expr{ast.NewIntLiteral(sp(), 1)})
	caller.Body = []ast.Stmt{ast.NewExprStmt(sp(), call)}

	program := &ast.Program{Declarations: []ast.Decl{callee, caller}}
	diags, _ := run(t, program)

	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.ArityMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ARITY_MISMATCH among %v", diags.Diagnostics())
	}
}

func TestIntrinsicCallTypeChecked(t *testing.T) {
	fn := &ast.FunctionDecl{}
	fn.Name = "main"
	call := ast.NewCallExpr(sp(), ast.NewIdent(sp(), "peek"), []ast.Expr{ast.NewIntLiteral(sp(), 53280)})
	fn.Body = []ast.Stmt{ast.NewExprStmt(sp(), call)}

	program := &ast.Program{Declarations: []ast.Decl{fn}}
	diags, _ := run(t, program)

	if !diags.Success() {
		t.Fatalf("expected no errors calling a well-formed intrinsic, got %v", diags.Diagnostics())
	}
}

func TestAssignToConstReported(t *testing.T) {
	decl := &ast.VariableDecl{}
	decl.Name = "LIMIT"
	decl.Const = true
	decl.TypeAnnotation = "byte"
	decl.Initializer = ast.NewIntLiteral(sp(), 10)

	fn := &ast.FunctionDecl{}
	fn.Name = "main"
	assign := ast.NewAssignExpr(sp(), ast.AssignSet, ast.NewIdent(sp(), "LIMIT"), ast.NewIntLiteral(sp(), 1))
	fn.Body = []ast.Stmt{ast.NewExprStmt(sp(), assign)}

	program := &ast.Program{Declarations: []ast.Decl{decl, fn}}
	diags, _ := run(t, program)

	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diag.AssignToConst {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ASSIGN_TO_CONST among %v", diags.Diagnostics())
	}
}
